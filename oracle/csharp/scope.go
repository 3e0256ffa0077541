package csharp

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// scopeKind classifies a lexical scope. lookup does not consult it: a name
// resolves by a plain outward walk through parent scopes, so a method body
// sees its method's parameters and then its type's members. The kind is
// read by enclosingMethod and enclosingType. Namespace declarations do not
// open a scope of their own.
type scopeKind int

const (
	scopeFile scopeKind = iota
	scopeNamespace
	scopeType
	scopeMethod
	scopeBlock
)

// scope is one node of the lexical-scope tree built while walking the
// syntax tree. Each scope owns the symbols declared directly within it;
// resolution walks outward through parent until a name is found.
type scope struct {
	kind     scopeKind
	parent   *scope
	children []*scope
	node     *sitter.Node

	symbols map[string]*symbol
	// order preserves declaration order for deterministic iteration
	// (spec.md §9 "determinism modulo oracle").
	order []string

	// typ is set for scopeType scopes: the declaration this scope belongs to.
	typ *typeDecl
	// method is set for scopeMethod scopes.
	method *symbol
}

func newScope(kind scopeKind, parent *scope, node *sitter.Node) *scope {
	s := &scope{kind: kind, parent: parent, node: node, symbols: map[string]*symbol{}}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

func (s *scope) declare(sym *symbol) {
	if _, exists := s.symbols[sym.name]; exists {
		// Redeclaration (e.g. a local shadowing an outer one in the same
		// block) overwrites: later declaration wins, matching normal
		// variable shadowing rules within one scope.
		s.symbols[sym.name] = sym
		return
	}
	s.symbols[sym.name] = sym
	s.order = append(s.order, sym.name)
}

// lookup resolves name by walking outward from s, returning the nearest
// enclosing declaration.
func (s *scope) lookup(name string) (*symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// enclosingMethod returns the nearest scopeMethod ancestor, if any.
func (s *scope) enclosingMethod() (*symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.kind == scopeMethod {
			return cur.method, true
		}
	}
	return nil, false
}

// enclosingType returns the nearest scopeType ancestor, if any.
func (s *scope) enclosingType() (*typeDecl, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.kind == scopeType {
			return cur.typ, true
		}
	}
	return nil, false
}

// scopeContaining finds the most specific scope whose node range contains
// byte offset pos, searching the given root's subtree.
func scopeContaining(root *scope, pos uint32) *scope {
	best := root
	var walk func(s *scope)
	walk = func(s *scope) {
		for _, c := range s.children {
			if c.node != nil && pos >= c.node.StartByte() && pos < c.node.EndByte() {
				best = c
				walk(c)
				return
			}
		}
	}
	walk(root)
	return best
}
