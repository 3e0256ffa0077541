package insight_test

import (
	"context"
	"fmt"

	"github.com/viant/insightgraph/oracle"
)

// This file implements a minimal oracle.Oracle fake over a tiny hand-built
// expression model, standing in for the real oracle/csharp front-end so the
// core's component-level semantics (spec.md §4, §8 scenarios S1-S6) can be
// tested without parsing real C#.

type sym struct {
	kind           oracle.Kind
	name           string
	displayName    string
	typ            string
	static         bool
	containingType string
	loc            oracle.Location

	// method-only
	virtual, abstract_, override_ bool
	overrides                     *sym
	params                        []*sym
	hasBody                       bool

	// parameter-only
	ownerMethod *sym
	paramIndex  int
}

func (s *sym) Kind() oracle.Kind                         { return s.kind }
func (s *sym) Name() string                               { return s.name }
func (s *sym) DisplayString() string {
	if s.displayName != "" {
		return s.displayName
	}
	return s.name
}
func (s *sym) Identity() string                { return s.DisplayString() + "#" + s.loc.String() }
func (s *sym) PrimaryLocation() (oracle.Location, bool) { return s.loc, true }
func (s *sym) Locations() []oracle.Location    { return []oracle.Location{s.loc} }
func (s *sym) Type() string                    { return s.typ }
func (s *sym) IsStatic() bool                  { return s.static }
func (s *sym) ContainingType() string          { return s.containingType }
func (s *sym) ContainingMethod() (oracle.MethodSymbol, bool) {
	if s.ownerMethod == nil {
		return nil, false
	}
	return s.ownerMethod, true
}
func (s *sym) ParameterIndex() (int, bool) {
	if s.kind != oracle.Parameter {
		return 0, false
	}
	return s.paramIndex, true
}

func (s *sym) IsVirtual() bool  { return s.virtual }
func (s *sym) IsAbstract() bool { return s.abstract_ }
func (s *sym) IsOverride() bool { return s.override_ }
func (s *sym) OverriddenMethod() (oracle.MethodSymbol, bool) {
	if s.overrides == nil {
		return nil, false
	}
	return s.overrides, true
}
func (s *sym) Parameters() []oracle.Symbol {
	out := make([]oracle.Symbol, len(s.params))
	for i, p := range s.params {
		out[i] = p
	}
	return out
}
func (s *sym) DeclaringSyntax() oracle.Syntax {
	if !s.hasBody {
		return nil
	}
	return fakeSyntax{loc: s.loc}
}

var _ oracle.MethodSymbol = (*sym)(nil)

func local(name string, loc oracle.Location) *sym {
	return &sym{kind: oracle.Local, name: name, loc: loc}
}

func field(name, containingType string, static bool, loc oracle.Location) *sym {
	return &sym{kind: oracle.Field, name: name, containingType: containingType, static: static, loc: loc}
}

func param(name string, owner *sym, idx int, loc oracle.Location) *sym {
	return &sym{kind: oracle.Parameter, name: name, ownerMethod: owner, paramIndex: idx, loc: loc}
}

func method(name, containingType string, static bool, loc oracle.Location) *sym {
	return &sym{kind: oracle.Method, name: name, displayName: containingType + "." + name, containingType: containingType, static: static, loc: loc, hasBody: true}
}

// expr is the tiny expression model: an identifier, a literal, a flat "mix"
// of sub-expressions (covers binary/arithmetic combination for test
// purposes), or an invocation with an optional receiver.
type expr struct {
	ident    *sym
	literal  bool
	mix      []*expr
	receiver *expr
	target   *sym // resolved invocation target, nil if unresolved
	args     []*expr
}

func ident(s *sym) *expr          { return &expr{ident: s} }
func lit() *expr                  { return &expr{literal: true} }
func mix(parts ...*expr) *expr    { return &expr{mix: parts} }
func call(target *sym, receiver *expr, args ...*expr) *expr {
	return &expr{target: target, receiver: receiver, args: args}
}

type fakeSyntax struct {
	loc oracle.Location
	e   *expr
}

func (f fakeSyntax) Location() oracle.Location { return f.loc }

type fakeCallSite struct {
	loc      oracle.Location
	receiver *expr
	args     []*expr
}

func (c fakeCallSite) Location() oracle.Location { return c.loc }
func (c fakeCallSite) Receiver() oracle.Syntax {
	if c.receiver == nil {
		return nil
	}
	return fakeSyntax{loc: c.loc, e: c.receiver}
}
func (c fakeCallSite) ArgumentCount() int { return len(c.args) }
func (c fakeCallSite) Argument(i int) (oracle.Symbol, bool) {
	if i < 0 || i >= len(c.args) {
		return nil, false
	}
	a := c.args[i]
	if a.ident != nil {
		return a.ident, true
	}
	return nil, true // present but not a bare identifier (e.g. a literal)
}

type writeRec struct {
	sym    *sym
	rhs    *expr
	isDecl bool
	loc    oracle.Location
}

// objectCreationRec captures a `new T(){...}` shape attached to a receiver's
// declaration site.
type objectCreationRec struct {
	concreteType string
	initializers map[string]*expr
}

type fakeOracle struct {
	writesBySymbol    map[string][]writeRec
	returnsByMethod    map[string][]*expr
	types              []oracle.TypeSymbol
	objectCreations    map[string]objectCreationRec // keyed by receiver symbol identity
	rootAt             map[string]oracle.Symbol      // keyed by "path:line:col"
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		writesBySymbol:  map[string][]writeRec{},
		returnsByMethod: map[string][]*expr{},
		objectCreations: map[string]objectCreationRec{},
		rootAt:          map[string]oracle.Symbol{},
	}
}

func (o *fakeOracle) declareRoot(path string, line, col int, s oracle.Symbol) {
	o.rootAt[fmt.Sprintf("%s:%d:%d", path, line, col)] = s
}

func (o *fakeOracle) write(s *sym, rhs *expr, isDecl bool) {
	o.writesBySymbol[s.Identity()] = append(o.writesBySymbol[s.Identity()], writeRec{sym: s, rhs: rhs, isDecl: isDecl, loc: s.loc})
}

func (o *fakeOracle) returns(m *sym, exprs ...*expr) {
	o.returnsByMethod[m.Identity()] = exprs
}

func (o *fakeOracle) addType(t oracle.TypeSymbol) {
	o.types = append(o.types, t)
}

func (o *fakeOracle) objectCreation(receiver *sym, concreteType string, initializers map[string]*expr) {
	o.objectCreations[receiver.Identity()] = objectCreationRec{concreteType: concreteType, initializers: initializers}
}

func (o *fakeOracle) SymbolAt(ctx context.Context, path string, line, column int) (oracle.Symbol, bool) {
	s, ok := o.rootAt[fmt.Sprintf("%s:%d:%d", path, line, column)]
	return s, ok
}

func (o *fakeOracle) References(ctx context.Context, s oracle.Symbol) ([]oracle.Reference, error) {
	recs := o.writesBySymbol[s.Identity()]
	out := make([]oracle.Reference, 0, len(recs))
	for _, r := range recs {
		out = append(out, oracle.Reference{
			Location:      r.loc,
			IsWrite:       true,
			IsDeclaration: r.isDecl,
			Syntax:        fakeSyntax{loc: r.loc, e: r.rhs},
		})
	}
	return out, nil
}

func (o *fakeOracle) WriteRHS(ref oracle.Reference) (oracle.Syntax, bool) {
	fs, ok := ref.Syntax.(fakeSyntax)
	if !ok || fs.e == nil {
		return nil, false
	}
	return fs, true
}

// collectExcluded walks e and marks every descendant of a call's args and
// receiver as excluded from direct identifier extraction (spec.md §4.3
// step 2).
func collectExcluded(e *expr, excluded map[*expr]bool) {
	if e == nil {
		return
	}
	if e.target != nil || e.receiver != nil || len(e.args) > 0 {
		if e.receiver != nil {
			markExcluded(e.receiver, excluded)
			collectExcluded(e.receiver, excluded)
		}
		for _, a := range e.args {
			markExcluded(a, excluded)
			collectExcluded(a, excluded)
		}
		return
	}
	for _, m := range e.mix {
		collectExcluded(m, excluded)
	}
}

func markExcluded(e *expr, excluded map[*expr]bool) {
	if e == nil || excluded[e] {
		return
	}
	excluded[e] = true
	if e.receiver != nil {
		markExcluded(e.receiver, excluded)
	}
	for _, a := range e.args {
		markExcluded(a, excluded)
	}
	for _, m := range e.mix {
		markExcluded(m, excluded)
	}
}

func collectIdents(e *expr, excluded map[*expr]bool, out *[]oracle.Symbol) {
	if e == nil || excluded[e] {
		return
	}
	if e.ident != nil {
		*out = append(*out, e.ident)
		return
	}
	for _, m := range e.mix {
		collectIdents(m, excluded, out)
	}
	// Note: a call node's own receiver/args are excluded above; we do not
	// descend into them here for direct identifiers.
}

func collectCalls(e *expr, out *[]oracle.MethodCallSite) {
	if e == nil {
		return
	}
	if e.target != nil {
		*out = append(*out, oracle.MethodCallSite{
			Method: e.target,
			Site:   fakeCallSite{loc: e.target.loc, receiver: e.receiver, args: e.args},
		})
		if e.receiver != nil {
			collectCalls(e.receiver, out)
		}
		for _, a := range e.args {
			collectCalls(a, out)
		}
		return
	}
	for _, m := range e.mix {
		collectCalls(m, out)
	}
}

func (o *fakeOracle) RHSContributors(ctx context.Context, rhs oracle.Syntax) ([]oracle.Symbol, []oracle.MethodCallSite, error) {
	fs, ok := rhs.(fakeSyntax)
	if !ok || fs.e == nil {
		return nil, nil, nil
	}
	excluded := map[*expr]bool{}
	collectExcluded(fs.e, excluded)

	var idents []oracle.Symbol
	collectIdents(fs.e, excluded, &idents)

	var calls []oracle.MethodCallSite
	collectCalls(fs.e, &calls)

	return idents, calls, nil
}

func (o *fakeOracle) ReturnExpressions(ctx context.Context, m oracle.MethodSymbol) ([]oracle.Syntax, error) {
	exprs := o.returnsByMethod[m.Identity()]
	loc, _ := m.PrimaryLocation()
	out := make([]oracle.Syntax, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, fakeSyntax{loc: loc, e: e})
	}
	return out, nil
}

func (o *fakeOracle) NamespacesAndTypes(ctx context.Context) ([]oracle.TypeSymbol, error) {
	return o.types, nil
}

func (o *fakeOracle) ObjectCreation(ctx context.Context, receiver oracle.Symbol) (string, map[string]oracle.Syntax, bool) {
	rec, ok := o.objectCreations[receiver.Identity()]
	if !ok {
		return "", nil, false
	}
	out := map[string]oracle.Syntax{}
	for k, v := range rec.initializers {
		out[k] = fakeSyntax{e: v}
	}
	return rec.concreteType, out, true
}

func (o *fakeOracle) DeclaredType(s oracle.Symbol) string { return s.Type() }

func (o *fakeOracle) ResolveInitializerValue(ctx context.Context, value oracle.Syntax) (oracle.Symbol, bool) {
	fs, ok := value.(fakeSyntax)
	if !ok || fs.e == nil || fs.e.ident == nil {
		return nil, false
	}
	return fs.e.ident, true
}

func (o *fakeOracle) SymbolOfSyntax(ctx context.Context, s oracle.Syntax) (oracle.Symbol, bool) {
	fs, ok := s.(fakeSyntax)
	if !ok || fs.e == nil || fs.e.ident == nil {
		return nil, false
	}
	return fs.e.ident, true
}

var _ oracle.Oracle = (*fakeOracle)(nil)

// fakeType implements oracle.TypeSymbol for Override Resolver tests.
type fakeType struct {
	name    string
	base    *fakeType
	methods []*sym
}

func (t *fakeType) Name() string          { return t.name }
func (t *fakeType) DisplayString() string { return t.name }
func (t *fakeType) BaseType() (oracle.TypeSymbol, bool) {
	if t.base == nil {
		return nil, false
	}
	return t.base, true
}
func (t *fakeType) Methods() []oracle.MethodSymbol {
	out := make([]oracle.MethodSymbol, len(t.methods))
	for i, m := range t.methods {
		out[i] = m
	}
	return out
}

var _ oracle.TypeSymbol = (*fakeType)(nil)
