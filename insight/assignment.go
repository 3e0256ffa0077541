package insight

import (
	"context"

	"github.com/viant/insightgraph/oracle"
)

// writeSite is one location where S received a value: either its own
// declarator (relation Initialization) or a later assignment expression
// (relation Assignment), spec.md §4.2.
type writeSite struct {
	rhs      oracle.Syntax
	relation Relation
	origin   oracle.Location
}

// collectWriteSites implements the Assignment Finder (spec.md §4.2) for a
// writable storage cell S: a local variable or a static field/property.
// Failures binding an individual reference are skipped, never aborting the
// whole analysis (spec.md §4.2 "Failure semantics", §4.9).
func (d *Driver) collectWriteSites(ctx context.Context, sym oracle.Symbol) []writeSite {
	refs, err := d.oracle.References(ctx, sym)
	if err != nil || refs == nil {
		return nil
	}

	var sites []writeSite
	seenDeclaration := false
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return sites
		}
		if !ref.IsWrite {
			continue
		}
		rhs, ok := d.oracle.WriteRHS(ref)
		if !ok || rhs == nil {
			continue // oracle unavailable for this reference: skip, keep going
		}
		relation := Assignment
		if ref.IsDeclaration {
			if seenDeclaration {
				continue // dedup: a symbol has exactly one declarator
			}
			seenDeclaration = true
			relation = Initialization
		}
		sites = append(sites, writeSite{rhs: rhs, relation: relation, origin: ref.Location})
	}
	return sites
}
