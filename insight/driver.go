package insight

import (
	"context"
	"fmt"

	"github.com/viant/insightgraph/oracle"
)

// maxDepth is the hard safety ceiling from spec.md §4.1. Combined with the
// visited set it guarantees termination; the visited set alone suffices for
// correctness but not for pathological depths in call-heavy code.
const maxDepth = 15

// Driver is the Traversal Driver (spec.md §4.1). It owns all invocation-
// scoped working state: the symbol visited-set, the symbol->node map, and
// the invocationOf call-site table. One Driver serves exactly one Analyze
// invocation and is discarded afterward.
type Driver struct {
	oracle oracle.Oracle
	graph  *Graph

	visited      map[string]bool
	invocationOf map[string]oracle.CallSite
	// methodOf parallels invocationOf, keyed the same way, so the
	// Object-Initializer Tracer (spec.md §4.8) can test the recorded call
	// site's method for ContainingType/IsStatic without the oracle having
	// to re-resolve it.
	methodOf map[string]oracle.MethodSymbol
	// noOverride marks a method identity as "currently being expanded from
	// inside an override expansion" so the Method-Return Analyzer recursing
	// into an override does not re-trigger Override Resolution on it
	// (spec.md §4.7 note, §9).
	noOverride map[string]bool
}

// Analyze is the core entry point (spec.md §4.1, §6): resolve the symbol at
// position, materialize a root node, and expand it backward. Returns nil,
// nil when the selection does not resolve to an analyzable symbol — the
// single "unanalyzable selection" outcome from spec.md §7. A cancelled
// context is returned as a wrapped error and the partial graph is
// discarded; failures of individual oracle queries are skipped, never
// returned.
func Analyze(ctx context.Context, o oracle.Oracle, path string, line, column int) (*Graph, error) {
	sym, ok := o.SymbolAt(ctx, path, line, column)
	if !ok || !analyzable(sym) {
		return nil, nil
	}

	d := &Driver{
		oracle:       o,
		graph:        newGraph(),
		visited:      map[string]bool{},
		invocationOf: map[string]oracle.CallSite{},
		methodOf:     map[string]oracle.MethodSymbol{},
		noOverride:   map[string]bool{},
	}

	root := d.graph.nodeFor(sym, excerptOf(o, sym))
	d.graph.Root = root
	d.expand(ctx, sym, root, 0)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("expand %s: %w", sym.Name(), err)
	}
	d.graph.TotalReferences = len(d.graph.Nodes) - 1
	return d.graph, nil
}

// expand is the recursive backward-expansion step (spec.md §4.1).
func (d *Driver) expand(ctx context.Context, s oracle.Symbol, n *Node, depth int) {
	if ctx.Err() != nil {
		return // cancellation: unwind; Analyze reports it and discards the partial graph
	}
	if depth > maxDepth {
		return
	}
	id := s.Identity()
	if d.visited[id] {
		return
	}
	d.visited[id] = true

	switch s.Kind() {
	case oracle.Method:
		m, ok := s.(oracle.MethodSymbol)
		if !ok {
			return
		}
		d.expandMethod(ctx, m, n, depth)
	case oracle.Parameter:
		d.expandParameter(ctx, s, n, depth)
	case oracle.Field, oracle.Property:
		if s.IsStatic() {
			d.expandAssignmentDriven(ctx, s, n, depth)
			return
		}
		if d.hasCandidateInvocation(s) {
			d.expandObjectInitializer(ctx, s, n, depth)
			return
		}
		d.expandAssignmentDriven(ctx, s, n, depth)
	default:
		d.expandAssignmentDriven(ctx, s, n, depth)
	}
}

// expandAssignmentDriven handles locals and static fields/properties
// (spec.md §4.2): collect write sites, extract RHS contributors, emit one
// edge per unique contributor, and recurse.
func (d *Driver) expandAssignmentDriven(ctx context.Context, s oracle.Symbol, n *Node, depth int) {
	for _, site := range d.collectWriteSites(ctx, s) {
		if ctx.Err() != nil {
			return
		}
		for _, c := range d.extractContributors(ctx, site.rhs) {
			if c.Identity() == s.Identity() {
				continue // no self-loops among contributors (spec.md §8 property 3)
			}
			cn := d.graph.nodeFor(c, excerptOf(d.oracle, c))
			if d.graph.addEdge(n, cn, site.relation, site.origin) {
				d.expand(ctx, c, cn, depth+1)
			}
		}
	}
}

// expandMethod handles the Method-Return Analyzer (spec.md §4.6) and, when
// applicable, fans out to the Override Resolver (spec.md §4.7).
func (d *Driver) expandMethod(ctx context.Context, m oracle.MethodSymbol, n *Node, depth int) {
	for _, c := range d.returnContributors(ctx, m) {
		if c.Identity() == m.Identity() {
			continue
		}
		cn := d.graph.nodeFor(c, excerptOf(d.oracle, c))
		origin, _ := m.PrimaryLocation()
		if d.graph.addEdge(n, cn, ReturnContributor, origin) {
			d.expand(ctx, c, cn, depth+1)
		}
	}

	if d.noOverride[m.Identity()] {
		return
	}
	if !(m.IsVirtual() || m.IsAbstract() || m.IsOverride()) {
		return
	}
	for _, o := range d.findOverrides(ctx, m) {
		on := d.graph.nodeFor(o, excerptOf(d.oracle, o))
		origin, _ := o.PrimaryLocation()
		added := d.graph.addEdge(n, on, Override, origin)

		// Propagate the known call site so instance members reached inside
		// the override still trace back to the original receiver
		// (spec.md §4.7 step 5).
		if site, ok := d.invocationOf[m.Identity()]; ok {
			if _, exists := d.invocationOf[o.Identity()]; !exists {
				d.invocationOf[o.Identity()] = site
				d.methodOf[o.Identity()] = o
			}
		}

		if added {
			// Recurse via the Method-Return Analyzer only — do not
			// re-trigger Override Resolution from inside an override
			// expansion (spec.md §4.7 step 6, §9).
			d.noOverride[o.Identity()] = true
			d.visited[o.Identity()] = true
			for _, c := range d.returnContributors(ctx, o) {
				if c.Identity() == o.Identity() {
					continue
				}
				cn := d.graph.nodeFor(c, excerptOf(d.oracle, c))
				origin, _ := o.PrimaryLocation()
				if d.graph.addEdge(on, cn, ReturnContributor, origin) {
					d.expand(ctx, c, cn, depth+1)
				}
			}
		}
	}
}

// expandParameter handles the Parameter Mapper (spec.md §4.5).
func (d *Driver) expandParameter(ctx context.Context, p oracle.Symbol, n *Node, depth int) {
	arg, origin, ok := d.mapParameter(p)
	if !ok {
		return
	}
	if arg.Identity() == p.Identity() {
		return
	}
	an := d.graph.nodeFor(arg, excerptOf(d.oracle, arg))
	if d.graph.addEdge(n, an, ParameterMapping, origin) {
		d.expand(ctx, arg, an, depth+1)
	}
}

// excerptOf renders a short source-line excerpt for a symbol's primary
// location. Best-effort: an empty excerpt is never an error.
func excerptOf(o oracle.Oracle, s oracle.Symbol) string {
	type excerpter interface {
		Excerpt(oracle.Symbol) string
	}
	if e, ok := o.(excerpter); ok {
		return e.Excerpt(s)
	}
	return ""
}
