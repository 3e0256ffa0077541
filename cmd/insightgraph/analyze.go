package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/viant/insightgraph/insight"
	"github.com/viant/insightgraph/oracle/csharp"
	"github.com/viant/insightgraph/workspace"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		root   string
		file   string
		line   int
		column int
		format string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Trace a variable's contributors backward from a source position",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fatalf("--file is required")
			}
			if line <= 0 || column <= 0 {
				return fatalf("--line and --column must be 1-based positive integers")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			return runAnalyze(ctx, root, file, line, column, format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "project root; detected from --file when omitted")
	cmd.Flags().StringVar(&file, "file", "", "path of the C# file containing the selection")
	cmd.Flags().IntVar(&line, "line", 0, "1-based line of the selection")
	cmd.Flags().IntVar(&column, "column", 0, "1-based column of the selection")
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}

func runAnalyze(ctx context.Context, root, file string, line, column int, format string, out io.Writer) error {
	var ws *workspace.Workspace
	var err error
	if root != "" {
		ws, err = workspace.LoadRoot(ctx, root)
	} else {
		ws, err = workspace.Load(ctx, file)
	}
	if err != nil {
		return fatalf("load workspace: %w", err)
	}
	slog.Debug("loaded workspace", "root", ws.Root, "files", len(ws.Sources))

	relPath := file
	if rel, err := filepath.Rel(ws.Root, file); err == nil {
		relPath = filepath.ToSlash(rel)
	}

	o, err := csharp.NewOracle(ctx, ws.Sources)
	if err != nil {
		return fatalf("build oracle: %w", err)
	}

	graph, err := insight.Analyze(ctx, o, relPath, line, column)
	if err != nil {
		return fatalf("analyze: %w", err)
	}
	if graph == nil {
		slog.Info("selection did not resolve to an analyzable symbol", "file", relPath, "line", line, "column", column)
		_, werr := out.Write([]byte("null\n"))
		return werr
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(graph)
	case "yaml", "":
		data, err := yaml.Marshal(graph)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		return fatalf("unsupported format %q", format)
	}
}
