package insight

import (
	"context"

	"github.com/viant/insightgraph/oracle"
)

// hasCandidateInvocation reports whether invocationOf holds some recorded
// call site whose method's containing type matches f's containing type and
// which is an instance call — the heuristic linkage spec.md §4.8 and §9
// describe ("first matching entry in invocationOf is used, which may not be
// the right call site in deep graphs").
func (d *Driver) hasCandidateInvocation(f oracle.Symbol) bool {
	_, _, ok := d.candidateInvocation(f)
	return ok
}

func (d *Driver) candidateInvocation(f oracle.Symbol) (oracle.MethodSymbol, oracle.CallSite, bool) {
	for id, site := range d.invocationOf {
		m, ok := d.methodOf[id]
		if !ok || m.IsStatic() {
			continue
		}
		if m.ContainingType() == f.ContainingType() {
			return m, site, true
		}
	}
	return nil, nil, false
}

// expandObjectInitializer implements the Object-Initializer Tracer
// (spec.md §4.8).
func (d *Driver) expandObjectInitializer(ctx context.Context, f oracle.Symbol, n *Node, depth int) {
	_, site, ok := d.candidateInvocation(f)
	if !ok {
		return // unmatched leaf: no candidate invocation applies
	}

	receiverSyntax := site.Receiver()
	if receiverSyntax == nil {
		return
	}
	receiver, ok := d.oracle.SymbolOfSyntax(ctx, receiverSyntax)
	if !ok || receiver == nil {
		return
	}

	concreteType, initializers, created := d.oracle.ObjectCreation(ctx, receiver)
	if !created {
		// No new T(){...} shape found at the declaration site: there is no
		// initializer to trace into, so no edge is emitted and the
		// receiver's declared type is not consulted.
		return
	}

	// Receiver-type compatibility guard (spec.md §4.8, §8 property 7):
	// if the concrete type is known and differs from F's containing type,
	// this branch is aborted — no edge is emitted. This is what forbids
	// `Circle.Radius` tracing through a `Shape s = new Rectangle()` receiver.
	if concreteType != "" && concreteType != f.ContainingType() {
		return
	}

	origin := site.Location()

	value, hasValue := initializers[f.Name()]
	if hasValue {
		if resolved, ok := d.oracle.ResolveInitializerValue(ctx, value); ok && resolved != nil && analyzable(resolved) {
			vn := d.graph.nodeFor(resolved, excerptOf(d.oracle, resolved))
			if d.graph.addEdge(n, vn, ObjectInitializer, origin) {
				if resolved.Identity() != f.Identity() {
					d.expand(ctx, resolved, vn, depth+1)
				}
			}
			return
		}
	}

	// Literal, complex expression, or no initializer assignment found for F:
	// record the assignment site without chasing a constant, and do not
	// recurse (spec.md §4.8).
	rn := d.graph.nodeFor(receiver, excerptOf(d.oracle, receiver))
	d.graph.addEdge(n, rn, ObjectInitializer, origin)
}
