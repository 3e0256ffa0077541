package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

// Workspace is a loaded C# codebase: every *.cs file under a project root,
// read through afs the same way the teacher's Document.CreateDocuments
// reads source content (fs.DownloadWithURL rather than bare os.ReadFile),
// so workspace loading composes with afs's remote-storage backends too.
type Workspace struct {
	Root    string
	Sources map[string][]byte
}

// Load detects the project root containing path and reads every *.cs file
// beneath it into memory, keyed by path relative to the root, then merges in
// the source of every <ProjectReference>-linked .csproj tree so a symbol
// defined in a referenced project still resolves.
func Load(ctx context.Context, path string) (*Workspace, error) {
	project, err := NewDetector().Detect(path)
	if err != nil {
		return nil, fmt.Errorf("detect project root: %w", err)
	}
	ws, err := LoadRoot(ctx, project.RootPath)
	if err != nil {
		return nil, err
	}
	for _, ref := range project.References {
		refRoot := filepath.Dir(ref)
		refWs, err := LoadRoot(ctx, refRoot)
		if err != nil {
			continue // best-effort: an unreadable referenced project shouldn't fail the whole load
		}
		prefix := filepath.ToSlash(filepath.Base(refRoot))
		for relPath, content := range refWs.Sources {
			key := prefix + "/" + relPath
			if _, exists := ws.Sources[key]; !exists {
				ws.Sources[key] = content
			}
		}
	}
	return ws, nil
}

// LoadRoot reads every *.cs file beneath root, skipping the conventional
// build-output directories a .csproj-based build produces.
func LoadRoot(ctx context.Context, root string) (*Workspace, error) {
	service := afs.New()

	var files []string
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case "bin", "obj", ".git", "node_modules":
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(p), ".cs") {
			files = append(files, p)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	sources := make(map[string][]byte, len(files))
	for _, f := range files {
		content, err := service.DownloadWithURL(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		rel, err := filepath.Rel(root, f)
		if err != nil {
			rel = f
		}
		sources[filepath.ToSlash(rel)] = content
	}

	return &Workspace{Root: root, Sources: sources}, nil
}
