package insight

import "github.com/viant/insightgraph/oracle"

// mapParameter implements the Parameter Mapper (spec.md §4.5): for a
// parameter P of method M, resolve the corresponding argument at the most
// recently observed call site. If no call site for M is known, or the
// argument index is out of range, no contribution is emitted — an
// acknowledged limitation documented in spec.md §9, not a bug.
func (d *Driver) mapParameter(p oracle.Symbol) (oracle.Symbol, oracle.Location, bool) {
	m, ok := p.ContainingMethod()
	if !ok {
		return nil, oracle.Location{}, false
	}
	site, ok := d.invocationOf[m.Identity()]
	if !ok {
		return nil, oracle.Location{}, false
	}
	idx, ok := p.ParameterIndex()
	if !ok {
		return nil, oracle.Location{}, false
	}
	if idx < 0 || idx >= site.ArgumentCount() {
		return nil, oracle.Location{}, false // variadic/arity mismatch: skip
	}
	arg, ok := site.Argument(idx)
	if !ok || arg == nil || !analyzable(arg) {
		return nil, oracle.Location{}, false
	}
	return arg, site.Location(), true
}
