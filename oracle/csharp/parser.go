// Package csharp implements oracle.Oracle over C# source parsed with
// tree-sitter. It is a front-end only: it owns syntax-tree traversal, scope
// construction, and symbol resolution, and hands the insight package a pure
// data contract to walk.
package csharp

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/viant/insightgraph/oracle"
)

// file holds one parsed compilation unit: its source bytes, syntax tree,
// scope tree, and the symbol tables built from the declaration pass.
type file struct {
	path string
	src  []byte
	tree *sitter.Tree
	root *scope

	// owner back-references the Oracle this file was parsed into, so
	// member-access resolution (obj.Method(), obj.Field) can look a
	// receiver's type up in the workspace-wide type table. Set once by
	// NewOracle after every file has parsed.
	owner *Oracle

	// locals/fields/methods declared anywhere in this file, for References
	// and NamespacesAndTypes support.
	allSymbols []*symbol
	types      []*typeDecl
}

func (f *file) locationOf(n *sitter.Node) oracle.Location {
	if n == nil {
		return oracle.Location{Path: f.path}
	}
	point := n.StartPoint()
	return oracle.Location{
		Path:      f.path,
		Line:      int(point.Row) + 1,
		Column:    int(point.Column) + 1,
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
	}
}

func (f *file) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.src)
}

func (f *file) scopeAt(pos uint32) *scope {
	return scopeContaining(f.root, pos)
}

// parseFile parses a single C# source file and builds its scope/symbol
// tables. It never fails on unrecognized syntax: unhandled node kinds are
// skipped, matching spec.md §4.9's "tolerate incomplete oracle knowledge"
// stance.
func parseFile(ctx context.Context, path string, src []byte) (*file, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(csharp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	f := &file{path: path, src: src, tree: tree}
	f.root = newScope(scopeFile, nil, tree.RootNode())

	declareNamespaceOrTopLevel(f, f.root, tree.RootNode())
	return f, nil
}

// declareNamespaceOrTopLevel walks the compilation unit (and nested
// namespaces) declaring every type found within.
func declareNamespaceOrTopLevel(f *file, sc *scope, n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "namespace_declaration", "file_scoped_namespace_declaration":
			body := childByFieldOrType(child, "body", "declaration_list")
			if body != nil {
				declareNamespaceOrTopLevel(f, sc, body)
			} else {
				declareNamespaceOrTopLevel(f, sc, child)
			}
		case "class_declaration", "struct_declaration", "interface_declaration", "record_declaration":
			declareType(f, sc, child)
		}
	}
}

// declareType registers one type declaration, its base type, fields, and
// methods, then recurses into it for nested types.
func declareType(f *file, parent *scope, n *sitter.Node) {
	nameNode := childByFieldOrType(n, "name", "identifier")
	if nameNode == nil {
		return
	}
	typeName := f.text(nameNode)

	td := &typeDecl{name: typeName}
	if baseList := childByType(n, "base_list"); baseList != nil {
		if first := firstNamedChild(baseList); first != nil {
			td.baseName = f.text(first)
		}
	}
	f.types = append(f.types, td)

	typeScope := newScope(scopeType, parent, n)
	typeScope.typ = td

	body := childByFieldOrType(n, "body", "declaration_list")
	if body == nil {
		return
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_declaration", "constructor_declaration":
			m := declareMethod(f, typeScope, td, member)
			if m != nil && member.Type() == "method_declaration" {
				td.methods = append(td.methods, m)
			}
		case "field_declaration":
			declareField(f, typeScope, td, member)
		case "property_declaration":
			declareProperty(f, typeScope, td, member)
		case "class_declaration", "struct_declaration", "interface_declaration", "record_declaration":
			declareType(f, typeScope, member)
		}
	}
}

func declareMethod(f *file, typeScope *scope, td *typeDecl, n *sitter.Node) *symbol {
	nameNode := childByFieldOrType(n, "name", "identifier")
	if nameNode == nil {
		return nil
	}
	mods := modifiersOf(f, n)

	m := &symbol{
		kind:           oracle.Method,
		name:           f.text(nameNode),
		containingType: td.name,
		static:         mods["static"],
		virtual:        mods["virtual"],
		abstract:       mods["abstract"],
		override:       mods["override"],
		declNode:       nameNode,
		file:           f,
	}
	if bodyNode := childByFieldOrType(n, "body", "block"); bodyNode != nil {
		m.bodyNode = bodyNode
	} else if arrow := childByType(n, "arrow_expression_clause"); arrow != nil {
		m.bodyNode = arrow
	}

	typeScope.declare(m)

	methodScope := newScope(scopeMethod, typeScope, n)
	methodScope.method = m

	if params := childByFieldOrType(n, "parameters", "parameter_list"); params != nil {
		idx := 0
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			if p.Type() != "parameter" {
				continue
			}
			pNameNode := childByFieldOrType(p, "name", "identifier")
			if pNameNode == nil {
				continue
			}
			ps := &symbol{
				kind:        oracle.Parameter,
				name:        f.text(pNameNode),
				typ:         typeOf(f, p),
				ownerMethod: m,
				paramIndex:  idx,
				declNode:    pNameNode,
				file:        f,
			}
			m.params = append(m.params, ps)
			methodScope.declare(ps)
			f.allSymbols = append(f.allSymbols, ps)
			idx++
		}
	}

	if m.bodyNode != nil {
		bodyScope := newScope(scopeBlock, methodScope, m.bodyNode)
		declareLocals(f, bodyScope, m.bodyNode)
	}

	f.allSymbols = append(f.allSymbols, m)
	return m
}

func declareField(f *file, typeScope *scope, td *typeDecl, n *sitter.Node) {
	mods := modifiersOf(f, n)
	decl := childByType(n, "variable_declaration")
	if decl == nil {
		return
	}
	fieldType := typeOf(f, decl)
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		nameNode := childByFieldOrType(child, "name", "identifier")
		if nameNode == nil {
			continue
		}
		fs := &symbol{
			kind:           oracle.Field,
			name:           f.text(nameNode),
			typ:            fieldType,
			containingType: td.name,
			static:         mods["static"],
			declNode:       nameNode,
			file:           f,
		}
		td.fields = append(td.fields, fs)
		typeScope.declare(fs)
		f.allSymbols = append(f.allSymbols, fs)
	}
}

func declareProperty(f *file, typeScope *scope, td *typeDecl, n *sitter.Node) {
	mods := modifiersOf(f, n)
	nameNode := childByFieldOrType(n, "name", "identifier")
	if nameNode == nil {
		return
	}
	ps := &symbol{
		kind:           oracle.Property,
		name:           f.text(nameNode),
		typ:            typeOf(f, n),
		containingType: td.name,
		static:         mods["static"],
		declNode:       nameNode,
		file:           f,
	}
	td.fields = append(td.fields, ps) // properties share the field table for initializer tracing (spec.md §4.8)
	typeScope.declare(ps)
	f.allSymbols = append(f.allSymbols, ps)
}

// declareLocals walks a method body registering every local variable
// declarator it finds, without descending into nested method-like
// constructs (local functions, lambdas) — those get their own scope if
// ever needed, but spec.md's scope is ordinary locals.
func declareLocals(f *file, sc *scope, n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "local_declaration_statement":
			decl := childByType(child, "variable_declaration")
			if decl == nil {
				continue
			}
			localType := typeOf(f, decl)
			for j := 0; j < int(decl.NamedChildCount()); j++ {
				d := decl.NamedChild(j)
				if d.Type() != "variable_declarator" {
					continue
				}
				nameNode := childByFieldOrType(d, "name", "identifier")
				if nameNode == nil {
					continue
				}
				ls := &symbol{
					kind:     oracle.Local,
					name:     f.text(nameNode),
					typ:      localType,
					declNode: nameNode,
					file:     f,
				}
				sc.declare(ls)
				f.allSymbols = append(f.allSymbols, ls)
			}
		case "block", "if_statement", "for_statement", "foreach_statement", "while_statement", "using_statement":
			declareLocals(f, sc, child)
		}
	}
}

// modifiersOf scans a declaration's modifier tokens.
func modifiersOf(f *file, n *sitter.Node) map[string]bool {
	mods := map[string]bool{}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch strings.ToLower(f.text(c)) {
		case "static", "virtual", "abstract", "override":
			mods[strings.ToLower(f.text(c))] = true
		}
	}
	return mods
}

func childByFieldOrType(n *sitter.Node, field, typ string) *sitter.Node {
	if c := n.ChildByFieldName(field); c != nil {
		return c
	}
	return childByType(n, typ)
}

func childByType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == typ {
			return c
		}
	}
	return nil
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}

// typeOf renders the textual type annotation of a variable_declaration,
// parameter, or property_declaration node (its "type" field), with
// surrounding whitespace trimmed. Qualified and generic type names are
// returned as written, so only a type written as a simple name matches a
// typeDecl.name. "var" is
// returned as-is: the front-end does not perform type inference, so a
// var-declared receiver's concrete type is only known when its declarator
// is itself a `new T()` expression (handled separately by ObjectCreation).
func typeOf(f *file, n *sitter.Node) string {
	t := n.ChildByFieldName("type")
	if t == nil {
		return ""
	}
	return strings.TrimSpace(f.text(t))
}
