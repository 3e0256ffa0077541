package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/viant/insightgraph/oracle"
	"github.com/viant/insightgraph/oracle/csharp"
	"github.com/viant/insightgraph/workspace"
)

func newDumpOracleCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "dump-oracle",
		Short: "Print every type and method the oracle resolved under a project root",
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				return fatalf("--root is required")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDumpOracle(ctx, root, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "project root to load")
	return cmd
}

func runDumpOracle(ctx context.Context, root string, out io.Writer) error {
	ws, err := workspace.LoadRoot(ctx, root)
	if err != nil {
		return fatalf("load workspace: %w", err)
	}

	o, err := csharp.NewOracle(ctx, ws.Sources)
	if err != nil {
		return fatalf("build oracle: %w", err)
	}

	types, err := o.NamespacesAndTypes(ctx)
	if err != nil {
		return fatalf("list types: %w", err)
	}
	names := make([]string, 0, len(types))
	byName := make(map[string]oracle.TypeSymbol, len(types))
	for _, t := range types {
		names = append(names, t.Name())
		byName[t.Name()] = t
	}
	sort.Strings(names)

	for _, name := range names {
		t := byName[name]
		base := "<none>"
		if b, ok := t.BaseType(); ok {
			base = b.Name()
		}
		fmt.Fprintf(out, "%s : %s\n", t.Name(), base)
		for _, m := range t.Methods() {
			fmt.Fprintf(out, "  %s\n", m.DisplayString())
		}
	}
	return nil
}
