package insight

import (
	"context"

	"github.com/viant/insightgraph/oracle"
)

// extractContributors implements the Contributor Extractor (spec.md §4.3):
// given an RHS expression syntax, return the ordered, deduplicated set of
// directly contributing symbols, applying the argument/receiver exclusion
// rule, and record every invocation seen along the way into invocationOf so
// later parameter-mapping (§4.5) and object-initializer tracing (§4.8) can
// find the call site.
//
// The exclusion logic itself (marking argument sub-expressions and
// member-access receivers as excluded regions) lives behind
// oracle.RHSContributors — the oracle owns syntax traversal, the core owns
// only the resulting symbol list and the invocationOf bookkeeping.
func (d *Driver) extractContributors(ctx context.Context, rhs oracle.Syntax) []oracle.Symbol {
	if rhs == nil {
		return nil
	}
	contributors, callSites, err := d.oracle.RHSContributors(ctx, rhs)
	if err != nil {
		return nil // oracle unavailable: skip this write site entirely (spec.md §4.9)
	}

	ordered := filterAnalyzable(contributors)

	for _, cs := range callSites {
		if cs.Method == nil || !analyzable(cs.Method) {
			continue
		}
		// invocationOf records the most recently observed call site per
		// method (spec.md §3, §9 aliasing caveat) — overwrite is by design.
		d.invocationOf[cs.Method.Identity()] = cs.Site
		d.methodOf[cs.Method.Identity()] = cs.Method
		ordered = appendUnique(ordered, cs.Method)
	}
	return ordered
}

func appendUnique(syms []oracle.Symbol, s oracle.Symbol) []oracle.Symbol {
	for _, existing := range syms {
		if existing.Identity() == s.Identity() {
			return syms
		}
	}
	return append(syms, s)
}
