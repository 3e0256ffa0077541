package insight

import "github.com/viant/insightgraph/oracle"

// analyzable reports whether sym can participate in the influence graph at
// all (spec.md §4.4): Variable, Parameter, Field, Property, or Method.
func analyzable(sym oracle.Symbol) bool {
	return sym != nil && sym.Kind().Analyzable()
}

// filterAnalyzable keeps only the analyzable symbols from syms, preserving
// order and dropping duplicates by identity (spec.md §4.3 step 5).
func filterAnalyzable(syms []oracle.Symbol) []oracle.Symbol {
	seen := map[string]bool{}
	out := make([]oracle.Symbol, 0, len(syms))
	for _, s := range syms {
		if !analyzable(s) {
			continue
		}
		id := s.Identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, s)
	}
	return out
}
