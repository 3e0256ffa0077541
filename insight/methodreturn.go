package insight

import (
	"context"

	"github.com/viant/insightgraph/oracle"
)

// returnContributors implements the Method-Return Analyzer (spec.md §4.6)
// for a method M: resolve its declaring syntax, collect every return
// expression (including the expression-bodied form), and extract the union
// of analyzable identifiers and invocation-target methods appearing in
// them. A method with no declaring syntax (extern/metadata-only) or no
// return expressions contributes nothing from this step alone.
func (d *Driver) returnContributors(ctx context.Context, m oracle.MethodSymbol) []oracle.Symbol {
	if m.DeclaringSyntax() == nil {
		return nil
	}
	returns, err := d.oracle.ReturnExpressions(ctx, m)
	if err != nil || len(returns) == 0 {
		return nil
	}

	var ordered []oracle.Symbol
	for _, expr := range returns {
		if err := ctx.Err(); err != nil {
			break
		}
		for _, c := range d.extractContributors(ctx, expr) {
			ordered = appendUnique(ordered, c)
		}
	}
	return ordered
}
