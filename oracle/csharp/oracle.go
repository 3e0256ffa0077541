package csharp

import (
	"context"
	"log/slog"
	"strings"

	"github.com/viant/insightgraph/oracle"
)

// Oracle is the tree-sitter-backed C# implementation of oracle.Oracle
// (spec.md §5). It parses every source file handed to it up front, links
// type declarations across files (base types, override chains), then
// answers queries purely off the resulting scope/symbol tables — no
// re-parsing happens on the query path.
type Oracle struct {
	files       map[string]*file
	typesByName map[string]*typeDecl
}

// NewOracle parses every (path, content) pair and links the resulting
// declarations into a single workspace-wide symbol space. sources is
// typically produced by the workspace package's directory scan.
//
// A file that fails to parse is logged and skipped rather than failing the
// whole oracle — one malformed compilation unit shouldn't block analysis
// of the rest of the workspace.
func NewOracle(ctx context.Context, sources map[string][]byte) (*Oracle, error) {
	o := &Oracle{
		files:       map[string]*file{},
		typesByName: map[string]*typeDecl{},
	}
	for path, src := range sources {
		f, err := parseFile(ctx, path, src)
		if err != nil {
			slog.Warn("skipping unparsable compilation unit", "path", path, "error", err)
			continue
		}
		o.files[path] = f
		for _, t := range f.types {
			o.typesByName[t.name] = t
		}
	}
	for _, f := range o.files {
		f.owner = o
	}
	o.link()
	return o, nil
}

// link resolves base-type names to their declarations and, for every
// override method, its overridden base-method (spec.md §4.7 "Override
// chain").
func (o *Oracle) link() {
	for _, t := range o.typesByName {
		if t.baseName == "" {
			continue
		}
		base, ok := o.typesByName[t.baseName]
		if !ok {
			continue
		}
		// A link that would close a cycle (class A : B, class B : A) is
		// skipped, so every base chain walked later ends.
		cyclic := false
		for cur := base; cur != nil; cur = cur.base {
			if cur == t {
				cyclic = true
				break
			}
		}
		if !cyclic {
			t.base = base
		}
	}
	for _, t := range o.typesByName {
		for _, m := range t.methods {
			if !m.override {
				continue
			}
			m.overridden = findBaseMethod(t.base, m.name)
		}
	}
}

// Excerpt renders the trimmed source line s's primary location points at,
// satisfying insight's optional excerpt hook (spec.md §3 Data Model) so
// every node carries a one-line view of the code it came from.
func (o *Oracle) Excerpt(s oracle.Symbol) string {
	loc, ok := s.PrimaryLocation()
	if !ok || loc.Path == "" || loc.Line <= 0 {
		return ""
	}
	f, ok := o.files[loc.Path]
	if !ok {
		return ""
	}
	lines := strings.Split(string(f.src), "\n")
	if loc.Line > len(lines) {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(lines[loc.Line-1], "\r"))
}

func findBaseMethod(t *typeDecl, name string) *symbol {
	for cur := t; cur != nil; cur = cur.base {
		for _, m := range cur.methods {
			if m.name == name {
				return m
			}
		}
	}
	return nil
}
