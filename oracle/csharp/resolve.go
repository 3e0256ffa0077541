package csharp

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/insightgraph/oracle"
)

// SymbolAt implements oracle.Oracle: resolve the declaration referenced (or
// declared) at path:line:column.
func (o *Oracle) SymbolAt(ctx context.Context, path string, line, column int) (oracle.Symbol, bool) {
	f, ok := o.files[path]
	if !ok {
		return nil, false
	}
	n := nodeAtPoint(f.tree.RootNode(), sitter.Point{Row: uint32(line - 1), Column: uint32(column - 1)})
	if n == nil {
		return nil, false
	}
	name, ok := identifierText(f, n)
	if !ok {
		return nil, false
	}
	sc := f.scopeAt(n.StartByte())
	sym, ok := sc.lookup(name)
	if !ok {
		return nil, false
	}
	return sym, true
}

// identifierText returns the textual name to resolve for n, walking up to
// an enclosing identifier-bearing node when the cursor lands on a
// sub-token.
func identifierText(f *file, n *sitter.Node) (string, bool) {
	cur := n
	for cur != nil {
		switch cur.Type() {
		case "identifier", "identifier_name":
			return f.text(cur), true
		}
		cur = cur.Parent()
	}
	return "", false
}

// nodeAtPoint returns the smallest named node in root's subtree containing
// point, or nil if point falls outside root entirely.
func nodeAtPoint(root *sitter.Node, point sitter.Point) *sitter.Node {
	if !pointWithin(root, point) {
		return nil
	}
	best := root
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if pointWithin(c, point) {
				best = c
				walk(c)
				return
			}
		}
	}
	walk(root)
	return best
}

func pointWithin(n *sitter.Node, p sitter.Point) bool {
	start, end := n.StartPoint(), n.EndPoint()
	if p.Row < start.Row || p.Row > end.Row {
		return false
	}
	if p.Row == start.Row && p.Column < start.Column {
		return false
	}
	if p.Row == end.Row && p.Column > end.Column {
		return false
	}
	return true
}

// References implements oracle.Oracle (spec.md §4.2 Assignment Finder
// dependency): the symbol's own declarator, plus every assignment and
// increment/decrement expression found in its declaring file whose target
// resolves to it. Occurrences in other files, and reads, are not reported.
func (o *Oracle) References(ctx context.Context, sym oracle.Symbol) ([]oracle.Reference, error) {
	s, ok := sym.(*symbol)
	if !ok || s.file == nil {
		return nil, nil
	}
	f := s.file
	var refs []oracle.Reference

	if s.kind != oracle.Parameter {
		if rhs, ok := declaratorValue(f, s); ok {
			refs = append(refs, oracle.Reference{
				Location:      f.locationOf(s.declNode),
				IsWrite:       true,
				IsDeclaration: true,
				Syntax:        nodeSyntax{file: f, node: rhs},
			})
		} else {
			refs = append(refs, oracle.Reference{
				Location:      f.locationOf(s.declNode),
				IsWrite:       true,
				IsDeclaration: true,
				Syntax:        nil,
			})
		}
	}

	walkAssignments(f.tree.RootNode(), func(assign *sitter.Node, left, right *sitter.Node) {
		sc := f.scopeAt(left.StartByte())
		name, ok := identifierText(f, left)
		if !ok {
			return
		}
		target, ok := sc.lookup(name)
		if !ok || target != s {
			return
		}
		refs = append(refs, oracle.Reference{
			Location:      f.locationOf(assign),
			IsWrite:       true,
			IsDeclaration: false,
			Syntax:        nodeSyntax{file: f, node: right},
		})
	})

	return refs, nil
}

// declaratorValue finds the "= value" part of a local/field/property
// declarator, if any.
func declaratorValue(f *file, s *symbol) (*sitter.Node, bool) {
	if s.declNode == nil {
		return nil, false
	}
	declarator := s.declNode.Parent()
	if declarator == nil || declarator.Type() != "variable_declarator" {
		return nil, false
	}
	value := declarator.ChildByFieldName("value")
	if value == nil {
		return nil, false
	}
	return value, true
}

// walkAssignments finds every assignment_expression and increment/decrement
// expression in the subtree rooted at n and invokes fn(assignNode, left,
// right). spec.md §4.2 treats ++/-- as compound assignment forms whose left
// operand binds to S; since the operand is both read and written, left and
// right are reported as the same node.
func walkAssignments(n *sitter.Node, fn func(assign, left, right *sitter.Node)) {
	switch n.Type() {
	case "assignment_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if left == nil {
			left = firstNamedChild(n)
		}
		if right != nil && left != nil {
			fn(n, left, right)
		}
	case "postfix_unary_expression", "prefix_unary_expression":
		if isIncrementOrDecrement(n) {
			operand := n.ChildByFieldName("operand")
			if operand == nil {
				operand = firstNamedChild(n)
			}
			if operand != nil {
				fn(n, operand, operand)
			}
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walkAssignments(n.NamedChild(i), fn)
	}
}

// isIncrementOrDecrement reports whether n (a postfix_unary_expression or
// prefix_unary_expression) carries a ++ or -- operator token, as opposed to
// e.g. unary -x or !x which are not write sites.
func isIncrementOrDecrement(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "++", "--":
			return true
		}
	}
	return false
}

// WriteRHS implements oracle.Oracle: the reference's Syntax already is the
// RHS expression captured at collection time.
func (o *Oracle) WriteRHS(ref oracle.Reference) (oracle.Syntax, bool) {
	if ref.Syntax == nil {
		return nil, false
	}
	return ref.Syntax, true
}

// RHSContributors implements oracle.Oracle / the Contributor Extractor's
// dependency (spec.md §4.3): collect every bare identifier not nested
// inside an invocation's argument list or receiver, plus every invocation
// found anywhere in the expression.
func (o *Oracle) RHSContributors(ctx context.Context, rhs oracle.Syntax) ([]oracle.Symbol, []oracle.MethodCallSite, error) {
	ns, ok := rhs.(nodeSyntax)
	if !ok || ns.node == nil {
		return nil, nil, nil
	}
	f := ns.file

	excluded := map[nodeRange]bool{}
	markInvocationSubtrees(ns.node, excluded)

	var syms []oracle.Symbol
	collectIdentifiers(f, ns.node, excluded, &syms)

	var calls []oracle.MethodCallSite
	collectInvocations(f, ns.node, &calls)

	return syms, calls, nil
}

// nodeRange identifies a syntax node by its byte span rather than Go
// pointer identity: the tree-sitter binding may hand back a fresh *Node
// wrapper for the same underlying node across separate traversal calls, so
// pointer-keyed sets would silently fail to match.
type nodeRange struct{ start, end uint32 }

func rangeOf(n *sitter.Node) nodeRange {
	return nodeRange{start: n.StartByte(), end: n.EndByte()}
}

// markInvocationSubtrees marks every node under an invocation_expression's
// receiver and argument_list as excluded from direct identifier collection
// (spec.md §4.3 step 2), without excluding the invocation node itself.
func markInvocationSubtrees(n *sitter.Node, excluded map[nodeRange]bool) {
	if n.Type() == "invocation_expression" {
		fn := n.ChildByFieldName("function")
		args := n.ChildByFieldName("arguments")
		if fn != nil {
			if recv := receiverOf(fn); recv != nil {
				markSubtree(recv, excluded)
			}
		}
		if args != nil {
			markSubtree(args, excluded)
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		markInvocationSubtrees(n.NamedChild(i), excluded)
	}
}

func markSubtree(n *sitter.Node, excluded map[nodeRange]bool) {
	excluded[rangeOf(n)] = true
	for i := 0; i < int(n.NamedChildCount()); i++ {
		markSubtree(n.NamedChild(i), excluded)
	}
}

// receiverOf returns the object expression of a member_access_expression
// callee (e.g. the `x` in `x.Foo(...)`), or nil for a bare call.
func receiverOf(fn *sitter.Node) *sitter.Node {
	if fn.Type() != "member_access_expression" {
		return nil
	}
	return fn.ChildByFieldName("expression")
}

func collectIdentifiers(f *file, n *sitter.Node, excluded map[nodeRange]bool, out *[]oracle.Symbol) {
	if excluded[rangeOf(n)] {
		return
	}
	switch n.Type() {
	case "identifier_name", "identifier":
		sc := f.scopeAt(n.StartByte())
		name := f.text(n)
		if sym, ok := sc.lookup(name); ok {
			*out = append(*out, sym)
		}
		return
	case "invocation_expression":
		// The call itself is handled by collectInvocations; do not walk its
		// function/argument subtrees here as direct identifiers.
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		collectIdentifiers(f, n.NamedChild(i), excluded, out)
	}
}

func collectInvocations(f *file, n *sitter.Node, out *[]oracle.MethodCallSite) {
	if n.Type() == "invocation_expression" {
		fn := n.ChildByFieldName("function")
		args := n.ChildByFieldName("arguments")
		if fn != nil {
			sc := f.scopeAt(n.StartByte())
			if ms, ok := resolveCallee(f, sc, fn); ok {
				_, recvNode := calleeOf(f, fn)
				*out = append(*out, oracle.MethodCallSite{
					Method: ms,
					Site:   fileCallSite{file: f, node: n, receiverNode: recvNode, argNodes: argumentNodes(args)},
				})
			}
		}
		// Still walk receiver/arguments for nested invocations
		// (e.g. `Foo(Bar())`).
		if fn != nil {
			if recv := receiverOf(fn); recv != nil {
				collectInvocations(f, recv, out)
			}
		}
		if args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				collectInvocations(f, args.NamedChild(i), out)
			}
		}
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		collectInvocations(f, n.NamedChild(i), out)
	}
}

func calleeOf(f *file, fn *sitter.Node) (name string, receiver *sitter.Node) {
	switch fn.Type() {
	case "member_access_expression":
		nameNode := fn.ChildByFieldName("name")
		recv := fn.ChildByFieldName("expression")
		if nameNode != nil {
			return f.text(nameNode), recv
		}
	case "identifier_name", "identifier":
		return f.text(fn), nil
	}
	return "", nil
}

// resolveCallee binds an invocation's callee to a method symbol. A bare
// call (no receiver, or `this.Method()`) resolves through the ordinary
// scope chain, the same as any other identifier — this is how a same-type
// call like `Compute(total)` already finds its target. A qualified call
// (`obj.Method()`) additionally tries resolving the receiver's static type
// and looking the method up on that type's method table (walking its base
// chain), since the callee name generally isn't declared anywhere in the
// caller's own lexical scope.
func resolveCallee(f *file, sc *scope, fn *sitter.Node) (*symbol, bool) {
	name, recv := calleeOf(f, fn)
	if name == "" {
		return nil, false
	}
	if recv != nil {
		if m, ok := resolveMethodOnReceiver(f, sc, recv, name); ok {
			return m, true
		}
	}
	sym, ok := sc.lookup(name)
	if !ok {
		return nil, false
	}
	ms, ok := sym.(*symbol)
	if !ok || ms.kind != oracle.Method {
		return nil, false
	}
	return ms, true
}

// resolveMethodOnReceiver resolves recv's declared type and looks up a
// method named name on it (or on the nearest ancestor in its base-type
// chain that declares one).
func resolveMethodOnReceiver(f *file, sc *scope, recv *sitter.Node, name string) (*symbol, bool) {
	if f.owner == nil {
		return nil, false
	}
	typeName := receiverTypeName(f, sc, recv)
	if typeName == "" {
		return nil, false
	}
	td, ok := f.owner.typesByName[typeName]
	if !ok {
		return nil, false
	}
	for cur := td; cur != nil; cur = cur.base {
		for _, m := range cur.methods {
			if m.name == name {
				return m, true
			}
		}
	}
	return nil, false
}

// receiverTypeName best-effort resolves recv's static type name: a bare
// identifier resolves through its declared symbol's Type(), falling back
// to its new-T()-initializer's constructed type when the declared type is
// "var".
func receiverTypeName(f *file, sc *scope, recv *sitter.Node) string {
	if recv.Type() != "identifier_name" && recv.Type() != "identifier" {
		return ""
	}
	sym, ok := sc.lookup(f.text(recv))
	if !ok {
		return ""
	}
	if sym.typ != "" && sym.typ != "var" {
		return sym.typ
	}
	if value, ok := declaratorValue(sym.file, sym); ok {
		if concreteType, _, created := objectCreationOf(sym.file, value); created {
			return concreteType
		}
	}
	return ""
}

func argumentNodes(args *sitter.Node) []*sitter.Node {
	if args == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(args.NamedChildCount()); i++ {
		c := args.NamedChild(i)
		if c.Type() == "argument" {
			if expr := c.ChildByFieldName("expression"); expr != nil {
				out = append(out, expr)
			} else if e := firstNamedChild(c); e != nil {
				out = append(out, e)
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// ReturnExpressions implements oracle.Oracle (spec.md §4.6 dependency):
// every return_statement's expression inside m's body, or the single
// expression of an arrow-expression-bodied method.
func (o *Oracle) ReturnExpressions(ctx context.Context, m oracle.MethodSymbol) ([]oracle.Syntax, error) {
	s, ok := m.(*symbol)
	if !ok || s.bodyNode == nil {
		return nil, nil
	}
	f := s.file
	var out []oracle.Syntax

	if s.bodyNode.Type() == "arrow_expression_clause" {
		if expr := firstNamedChild(s.bodyNode); expr != nil {
			out = append(out, nodeSyntax{file: f, node: expr})
		}
		return out, nil
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "return_statement" {
			if expr := firstNamedChild(n); expr != nil {
				out = append(out, nodeSyntax{file: f, node: expr})
			}
			return
		}
		// Do not descend into nested local functions/lambdas: their
		// returns belong to a different method.
		if n.Type() == "local_function_statement" || n.Type() == "lambda_expression" {
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(s.bodyNode)
	return out, nil
}

// NamespacesAndTypes implements oracle.Oracle (spec.md §4.7 dependency).
func (o *Oracle) NamespacesAndTypes(ctx context.Context) ([]oracle.TypeSymbol, error) {
	out := make([]oracle.TypeSymbol, 0, len(o.typesByName))
	for _, t := range o.typesByName {
		out = append(out, t)
	}
	return out, nil
}

// ObjectCreation implements oracle.Oracle (spec.md §4.8 dependency): if
// receiver's declarator value is a `new T { ... }` or `new T(...) { ... }`
// expression, return T's name and the initializer assignments it carries.
func (o *Oracle) ObjectCreation(ctx context.Context, receiver oracle.Symbol) (string, map[string]oracle.Syntax, bool) {
	s, ok := receiver.(*symbol)
	if !ok {
		return "", nil, false
	}
	value, ok := declaratorValue(s.file, s)
	if !ok {
		return "", nil, false
	}
	return objectCreationOf(s.file, value)
}

func objectCreationOf(f *file, n *sitter.Node) (string, map[string]oracle.Syntax, bool) {
	if n.Type() != "object_creation_expression" {
		return "", nil, false
	}
	typeNode := n.ChildByFieldName("type")
	concreteType := ""
	if typeNode != nil {
		concreteType = f.text(typeNode)
	}

	init := n.ChildByFieldName("initializer")
	out := map[string]oracle.Syntax{}
	if init != nil {
		for i := 0; i < int(init.NamedChildCount()); i++ {
			assign := init.NamedChild(i)
			if assign.Type() != "assignment_expression" {
				continue
			}
			left := assign.ChildByFieldName("left")
			right := assign.ChildByFieldName("right")
			if left == nil || right == nil {
				continue
			}
			out[f.text(left)] = nodeSyntax{file: f, node: right}
		}
	}
	return concreteType, out, true
}

// DeclaredType implements oracle.Oracle.
func (o *Oracle) DeclaredType(sym oracle.Symbol) string {
	return sym.Type()
}

// ResolveInitializerValue implements oracle.Oracle (spec.md §4.8
// dependency): if value is a bare identifier, resolve it to the symbol it
// names; otherwise report no symbolic resolution (literal/complex
// expression).
func (o *Oracle) ResolveInitializerValue(ctx context.Context, value oracle.Syntax) (oracle.Symbol, bool) {
	ns, ok := value.(nodeSyntax)
	if !ok || ns.node == nil {
		return nil, false
	}
	if ns.node.Type() != "identifier_name" && ns.node.Type() != "identifier" {
		return nil, false
	}
	sc := ns.file.scopeAt(ns.node.StartByte())
	return sc.lookup(ns.file.text(ns.node))
}

// SymbolOfSyntax implements oracle.Oracle (spec.md §4.8 dependency):
// resolve a bare-identifier receiver expression to its declared symbol.
func (o *Oracle) SymbolOfSyntax(ctx context.Context, s oracle.Syntax) (oracle.Symbol, bool) {
	ns, ok := s.(nodeSyntax)
	if !ok || ns.node == nil {
		return nil, false
	}
	n := ns.node
	if n.Type() != "identifier_name" && n.Type() != "identifier" {
		return nil, false
	}
	sc := ns.file.scopeAt(n.StartByte())
	return sc.lookup(ns.file.text(n))
}

var _ oracle.Oracle = (*Oracle)(nil)

// symbolForExpression resolves a bare identifier argument expression to
// its symbol; used by fileCallSite.Argument.
func (f *file) symbolForExpression(sc *scope, n *sitter.Node) (oracle.Symbol, bool) {
	if n.Type() != "identifier_name" && n.Type() != "identifier" {
		return nil, false
	}
	return sc.lookup(f.text(n))
}
