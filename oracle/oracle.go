// Package oracle defines the semantic oracle contract the insight analyzer
// consumes. It is the boundary behind which a real C# parser and semantic
// resolver lives (see oracle/csharp for the shipped implementation) so the
// analyzer core never has to know how a symbol was resolved, only what it is.
package oracle

import "context"

// Kind classifies a resolved symbol. It is a closed, tagged variant:
// callers dispatch on it, they never type-assert on Symbol implementations.
type Kind int

const (
	Other Kind = iota
	Local
	Parameter
	Field
	Property
	Method
)

// String renders the kind for logs and node labels.
func (k Kind) String() string {
	switch k {
	case Local:
		return "Variable"
	case Parameter:
		return "Parameter"
	case Field:
		return "Field"
	case Property:
		return "Property"
	case Method:
		return "Method"
	default:
		return "Other"
	}
}

// Analyzable reports whether a symbol of this kind participates in
// backward data-flow at all (spec.md §4.4).
func (k Kind) Analyzable() bool {
	switch k {
	case Local, Parameter, Field, Property, Method:
		return true
	default:
		return false
	}
}

// Location is a (file, line, column, span) triple. Line and Column are
// 1-based, matching editor conventions.
type Location struct {
	Path      string `json:"path" yaml:"path"`
	Line      int    `json:"line" yaml:"line"`
	Column    int    `json:"column" yaml:"column"`
	StartByte uint32 `json:"startByte" yaml:"startByte"`
	EndByte   uint32 `json:"endByte" yaml:"endByte"`
}

// String renders "basename:line", the display form used in node Ids.
func (l Location) String() string {
	return basename(l.Path) + ":" + itoa(l.Line)
}

func basename(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Symbol is the opaque identity handed back by the oracle. Equality between
// two Symbols is by Identity(), never by pointer or by Name — two parameters
// named "p1" on different methods must never compare equal.
type Symbol interface {
	// Kind classifies the symbol.
	Kind() Kind
	// Name is the short, unqualified display name.
	Name() string
	// DisplayString is the rendering used in node Ids (spec.md §4.4).
	// oracle/csharp renders members as "Type.Member" (e.g.
	// "Rectangle.GetArea"), without namespace or parameter list, and
	// locals and parameters by their bare name.
	DisplayString() string
	// Identity is the stable comparator key for this symbol. Two Symbol
	// values describing the same underlying entity must return equal
	// Identity() values, whatever their concrete representation.
	Identity() string
	// PrimaryLocation is the symbol's declaration site, if known.
	PrimaryLocation() (Location, bool)
	// Locations lists every known source location for the symbol.
	Locations() []Location
	// Type is the declared type's display string, or "" if unknown.
	Type() string
	// IsStatic reports whether the symbol is a static member.
	IsStatic() bool
	// ContainingType returns the display name of the declaring type, or ""
	// for locals/parameters that belong to a method, not a type.
	ContainingType() string
	// ContainingMethod returns the method a Parameter symbol belongs to.
	// Always false for non-Parameter kinds.
	ContainingMethod() (MethodSymbol, bool)
	// ParameterIndex returns this parameter's zero-based position in its
	// containing method's parameter list. Always false for non-Parameter
	// kinds.
	ParameterIndex() (int, bool)
}

// MethodSymbol narrows Symbol for Kind() == Method, exposing override and
// signature information needed by the Method-Return Analyzer, Parameter
// Mapper, and Override Resolver.
type MethodSymbol interface {
	Symbol
	IsVirtual() bool
	IsAbstract() bool
	IsOverride() bool
	// OverriddenMethod returns the method immediately above this one in the
	// override chain (the method this one overrides), if any.
	OverriddenMethod() (MethodSymbol, bool)
	// Parameters lists the method's formal parameters in declaration order.
	Parameters() []Symbol
	// DeclaringSyntax returns an opaque syntax handle for the method body,
	// or nil if the method has no known body (extern/metadata-only).
	DeclaringSyntax() Syntax
}

// Syntax is an opaque handle to a syntax node. The core never inspects it;
// it is only ever passed back into oracle query methods.
type Syntax interface {
	Location() Location
}

// CallSite is an opaque handle to an invocation expression, threaded through
// invocationOf for later parameter-to-argument mapping (spec.md §4.5) and
// object-initializer tracing (spec.md §4.8).
type CallSite interface {
	Location() Location
	// Receiver returns the receiver sub-expression's syntax for a
	// member-access invocation (obj.Method(...)), or nil for a bare call.
	Receiver() Syntax
	// ArgumentCount reports how many arguments were supplied at this site.
	ArgumentCount() int
	// Argument resolves the i-th argument to a contributing analyzable
	// symbol, or nil if the argument is not a single identifiable symbol
	// (a literal, a complex sub-expression with no analyzable identifier).
	// ok is false only when i is out of range.
	Argument(i int) (sym Symbol, ok bool)
}

// Reference is one occurrence of a symbol in source: either its declaring
// site, a read, or the left-hand side of a write.
type Reference struct {
	Location Location
	IsWrite  bool
	// IsDeclaration marks the reference as the symbol's own declarator
	// (spec.md §4.2 step 1: relation = Initialization). Other write
	// references (spec.md §4.2 step 2: relation = Assignment) have this
	// false even though IsWrite is true.
	IsDeclaration bool
	Syntax        Syntax
}

// Oracle is the full contract the insight core needs from a compiler
// front-end (spec.md §6). One Oracle instance is bound to one workspace
// (a set of parsed compilation units) for the lifetime of an analysis.
type Oracle interface {
	// SymbolAt resolves the token at a (file, line, column) position to its
	// referenced-or-declared symbol. ok is false when the position does not
	// land on a resolvable identifier.
	SymbolAt(ctx context.Context, path string, line, column int) (sym Symbol, ok bool)

	// References enumerates every occurrence of sym across the workspace.
	References(ctx context.Context, sym Symbol) ([]Reference, error)

	// RHSContributors extracts the direct contributor symbols and any
	// invocation call sites from the right-hand side syntax at a write
	// site (spec.md §4.3). callSites maps each invoked method to the call
	// site syntax observed in this expression, in source-text order.
	RHSContributors(ctx context.Context, rhs Syntax) (contributors []Symbol, callSites []MethodCallSite, err error)

	// ReturnExpressions collects every return-expression syntax for a
	// method: the operand of each return statement, plus the body
	// expression itself if the method is expression-bodied (spec.md §4.6).
	ReturnExpressions(ctx context.Context, method MethodSymbol) ([]Syntax, error)

	// NamespacesAndTypes enumerates every named type known in the
	// workspace, for override fan-out (spec.md §4.7).
	NamespacesAndTypes(ctx context.Context) ([]TypeSymbol, error)

	// WriteRHS returns the right-hand-side syntax of a write reference (the
	// declarator's initializer value or the assignment's right operand), or
	// false when the reference carries none.
	WriteRHS(ref Reference) (Syntax, bool)

	// ObjectCreation inspects the declaration site of a symbol (typically a
	// local or field holding a receiver) and, if its initializer is a
	// `new T() { ... }` expression, returns the constructed type's display
	// name and the set of member-name -> value-expression assignments in
	// its object initializer (spec.md §4.8).
	ObjectCreation(ctx context.Context, receiver Symbol) (concreteType string, initializers map[string]Syntax, ok bool)

	// DeclaredType returns the symbol's declared (static) type display
	// name, independent of any initializer. The insight core does not call
	// it: when no object-creation shape is present at the declaration site,
	// the Object-Initializer Tracer emits no edge.
	DeclaredType(sym Symbol) string

	// ResolveInitializerValue resolves a value syntax found in an object
	// initializer to a single analyzable identifier symbol, if the value is
	// (or reduces to) one bare identifier. ok is false for literals and
	// complex expressions with no single analyzable identifier.
	ResolveInitializerValue(ctx context.Context, value Syntax) (sym Symbol, ok bool)

	// SymbolOfSyntax resolves an arbitrary syntax handle (typically a call
	// site's receiver sub-expression) back to a symbol.
	SymbolOfSyntax(ctx context.Context, s Syntax) (sym Symbol, ok bool)
}

// MethodCallSite pairs a resolved method target with the call site syntax
// that invoked it, the unit the Contributor Extractor threads into
// invocationOf (spec.md §4.3 step 4).
type MethodCallSite struct {
	Method MethodSymbol
	Site   CallSite
}

// TypeSymbol narrows Symbol to a named type, exposing the base-type chain
// and member list the Override Resolver walks (spec.md §4.7).
type TypeSymbol interface {
	Name() string
	DisplayString() string
	BaseType() (TypeSymbol, bool)
	Methods() []MethodSymbol
}
