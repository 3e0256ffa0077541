package csharp

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/insightgraph/oracle"
)

// symbol is the concrete oracle.Symbol / oracle.MethodSymbol implementation
// for a C# declaration discovered during the declaration pass.
type symbol struct {
	kind           oracle.Kind
	name           string
	typ            string
	static         bool
	containingType string
	declNode       *sitter.Node // the declarator (name) node, for PrimaryLocation
	file           *file

	// method-only
	virtual    bool
	abstract   bool
	override   bool
	overridden *symbol
	params     []*symbol
	bodyNode   *sitter.Node // block body, or the arrow_expression_clause of an expression-bodied method

	// parameter-only
	ownerMethod *symbol
	paramIndex  int

	// additional declaration sites (re-opened partial members are rare in
	// this front-end's scope but the slice keeps Locations() honest).
	extraLocations []oracle.Location
}

func (s *symbol) Kind() oracle.Kind { return s.kind }
func (s *symbol) Name() string      { return s.name }

func (s *symbol) DisplayString() string {
	if s.containingType != "" && (s.kind == oracle.Method || s.kind == oracle.Field || s.kind == oracle.Property) {
		return s.containingType + "." + s.name
	}
	return s.name
}

func (s *symbol) Identity() string {
	loc, _ := s.PrimaryLocation()
	return fmt.Sprintf("%s#%s#%d", s.DisplayString(), loc.Path, loc.Line)
}

func (s *symbol) PrimaryLocation() (oracle.Location, bool) {
	if s.declNode == nil || s.file == nil {
		return oracle.Location{}, false
	}
	return s.file.locationOf(s.declNode), true
}

func (s *symbol) Locations() []oracle.Location {
	loc, ok := s.PrimaryLocation()
	if !ok {
		return s.extraLocations
	}
	return append([]oracle.Location{loc}, s.extraLocations...)
}

func (s *symbol) Type() string           { return s.typ }
func (s *symbol) IsStatic() bool         { return s.static }
func (s *symbol) ContainingType() string { return s.containingType }

func (s *symbol) ContainingMethod() (oracle.MethodSymbol, bool) {
	if s.ownerMethod == nil {
		return nil, false
	}
	return s.ownerMethod, true
}

func (s *symbol) ParameterIndex() (int, bool) {
	if s.kind != oracle.Parameter {
		return 0, false
	}
	return s.paramIndex, true
}

func (s *symbol) IsVirtual() bool  { return s.virtual }
func (s *symbol) IsAbstract() bool { return s.abstract }
func (s *symbol) IsOverride() bool { return s.override }

func (s *symbol) OverriddenMethod() (oracle.MethodSymbol, bool) {
	if s.overridden == nil {
		return nil, false
	}
	return s.overridden, true
}

func (s *symbol) Parameters() []oracle.Symbol {
	out := make([]oracle.Symbol, len(s.params))
	for i, p := range s.params {
		out[i] = p
	}
	return out
}

func (s *symbol) DeclaringSyntax() oracle.Syntax {
	if s.bodyNode == nil || s.file == nil {
		return nil
	}
	return nodeSyntax{file: s.file, node: s.bodyNode}
}

var _ oracle.MethodSymbol = (*symbol)(nil)

// typeDecl is the concrete oracle.TypeSymbol implementation: one class,
// struct, record, or interface declaration.
type typeDecl struct {
	name     string
	baseName string
	base     *typeDecl
	methods  []*symbol
	fields   []*symbol
}

func (t *typeDecl) Name() string          { return t.name }
func (t *typeDecl) DisplayString() string { return t.name }

func (t *typeDecl) BaseType() (oracle.TypeSymbol, bool) {
	if t.base == nil {
		return nil, false
	}
	return t.base, true
}

func (t *typeDecl) Methods() []oracle.MethodSymbol {
	out := make([]oracle.MethodSymbol, len(t.methods))
	for i, m := range t.methods {
		out[i] = m
	}
	return out
}

var _ oracle.TypeSymbol = (*typeDecl)(nil)

// nodeSyntax adapts a raw tree-sitter node to oracle.Syntax.
type nodeSyntax struct {
	file *file
	node *sitter.Node
}

func (n nodeSyntax) Location() oracle.Location { return n.file.locationOf(n.node) }

// fileCallSite adapts an invocation_expression node to oracle.CallSite.
type fileCallSite struct {
	file         *file
	node         *sitter.Node
	receiverNode *sitter.Node
	argNodes     []*sitter.Node
}

func (c fileCallSite) Location() oracle.Location { return c.file.locationOf(c.node) }

func (c fileCallSite) Receiver() oracle.Syntax {
	if c.receiverNode == nil {
		return nil
	}
	return nodeSyntax{file: c.file, node: c.receiverNode}
}

func (c fileCallSite) ArgumentCount() int { return len(c.argNodes) }

func (c fileCallSite) Argument(i int) (oracle.Symbol, bool) {
	if i < 0 || i >= len(c.argNodes) {
		return nil, false
	}
	arg := c.argNodes[i]
	sc := c.file.scopeAt(arg.StartByte())
	if sym, ok := c.file.symbolForExpression(sc, arg); ok {
		return sym, true
	}
	// Not a bare identifier: take the first identifier under the argument
	// that resolves to an analyzable symbol; nil when there is none.
	var found oracle.Symbol
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for j := 0; j < int(n.NamedChildCount()) && found == nil; j++ {
			child := n.NamedChild(j)
			if s, ok := c.file.symbolForExpression(c.file.scopeAt(child.StartByte()), child); ok && s.Kind().Analyzable() {
				found = s
			} else {
				walk(child)
			}
		}
	}
	walk(arg)
	return found, true
}

var _ oracle.CallSite = fileCallSite{}
