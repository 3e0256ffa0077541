// Package workspace locates a C# project root and loads its source files
// into the map[string][]byte the csharp oracle expects.
package workspace

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Detector finds the project root containing a given file or directory,
// the same way the teacher's repository.Detector does for Go/Java/JS
// projects, but keyed on C# project markers.
type Detector struct {
	markers []string
}

// NewDetector builds a Detector configured for C# project layouts.
func NewDetector() *Detector {
	return &Detector{
		markers: []string{
			"*.sln",
			"*.csproj",
			".git",
		},
	}
}

// Project describes the detected root of a C# codebase.
type Project struct {
	RootPath   string   // absolute path to the project root
	Name       string   // solution or project name, best-effort
	Kind       string   // "solution", "csproj", "git", or "unknown" when no marker is found
	References []string // absolute paths to <ProjectReference>-linked .csproj files, csproj kind only
}

// Detect walks upward from path looking for a .sln, then a .csproj, then a
// .git directory, in that priority order, mirroring findProjectRoot's
// marker-list search but preferring the broadest C# grouping first.
func (d *Detector) Detect(path string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	startDir := absPath
	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	if root, name, _ := d.findByGlob(startDir, "*.sln"); root != "" {
		return &Project{RootPath: root, Name: name, Kind: "solution"}, nil
	}
	if root, name, csprojPath := d.findByGlob(startDir, "*.csproj"); root != "" {
		refs, _ := projectReferences(csprojPath)
		return &Project{RootPath: root, Name: name, Kind: "csproj", References: resolveProjectReferences(root, refs)}, nil
	}
	if root := d.findGitRoot(startDir); root != "" {
		return &Project{RootPath: root, Name: filepath.Base(root), Kind: "git"}, nil
	}

	return &Project{RootPath: startDir, Name: filepath.Base(startDir), Kind: "unknown"}, nil
}

// findByGlob searches upward from startDir for the first directory
// containing a file matching pattern, returning that directory, the
// matched file's base name without extension, and the matched file's full
// path.
func (d *Detector) findByGlob(startDir, pattern string) (dir, name, fullPath string) {
	dir = startDir
	for {
		matches, _ := filepath.Glob(filepath.Join(dir, pattern))
		if len(matches) > 0 {
			name = strings.TrimSuffix(filepath.Base(matches[0]), filepath.Ext(matches[0]))
			return dir, name, matches[0]
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", ""
		}
		dir = parent
	}
}

// resolveProjectReferences turns a .csproj's <ProjectReference> paths, which
// are relative to that .csproj's own directory, into absolute paths.
func resolveProjectReferences(root string, refs []string) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, filepath.Clean(filepath.Join(root, r)))
	}
	return out
}

func (d *Detector) findGitRoot(startDir string) string {
	dir := startDir
	homeDir := os.Getenv("HOME")
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		if homeDir == parent {
			return ""
		}
		dir = parent
	}
}

// projectReferences extracts <ProjectReference Include="..."/> paths from a
// .csproj file, best-effort, so multi-project solutions can be traced
// without a full MSBuild parser.
var projectReferenceRegex = regexp.MustCompile(`(?i)<ProjectReference\s+Include="([^"]+)"`)

func projectReferences(csprojPath string) ([]string, error) {
	f, err := os.Open(csprojPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var refs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if m := projectReferenceRegex.FindStringSubmatch(line); len(m) == 2 {
			refs = append(refs, filepath.FromSlash(strings.ReplaceAll(m[1], "\\", "/")))
		}
	}
	return refs, scanner.Err()
}
