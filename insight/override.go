package insight

import (
	"context"

	"github.com/viant/insightgraph/oracle"
)

// overrideBase walks a method's override chain to its virtual/abstract
// root (spec.md §4.7, glossary "Override chain").
func overrideBase(m oracle.MethodSymbol) oracle.MethodSymbol {
	cur := m
	for {
		base, ok := cur.OverriddenMethod()
		if !ok {
			return cur
		}
		cur = base
	}
}

// chainEndsAt reports whether climbing o's override chain reaches base.
func chainEndsAt(o oracle.MethodSymbol, base oracle.MethodSymbol) bool {
	return overrideBase(o).Identity() == base.Identity()
}

// isStrictlyDerivedFrom reports whether t's base-type chain passes through
// root, excluding root itself (spec.md §4.7 step 2).
func isStrictlyDerivedFrom(t oracle.TypeSymbol, root oracle.TypeSymbol) bool {
	cur, ok := t.BaseType()
	for ok {
		if cur.DisplayString() == root.DisplayString() {
			return true
		}
		cur, ok = cur.BaseType()
	}
	return false
}

// findOverrides implements the Override Resolver (spec.md §4.7) for a
// virtual/abstract/override method m: enumerate every named type in the
// workspace, keep those strictly derived from the base method's containing
// type, and within each find the method whose override chain ends at the
// same base. Override-enumeration failure for one compilation is not
// modeled at this layer (the oracle swallows it per spec.md §7); a nil
// result here just means "no further types to offer".
func (d *Driver) findOverrides(ctx context.Context, m oracle.MethodSymbol) []oracle.MethodSymbol {
	base := overrideBase(m)
	types, err := d.oracle.NamespacesAndTypes(ctx)
	if err != nil || len(types) == 0 {
		return nil
	}

	var root oracle.TypeSymbol
	for _, t := range types {
		if t.DisplayString() == base.ContainingType() {
			root = t
			break
		}
	}
	if root == nil {
		return nil
	}

	var overrides []oracle.MethodSymbol
	for _, t := range types {
		if !isStrictlyDerivedFrom(t, root) {
			continue
		}
		for _, cand := range t.Methods() {
			if !cand.IsOverride() {
				continue
			}
			if chainEndsAt(cand, base) {
				overrides = append(overrides, cand)
			}
		}
	}
	return overrides
}
