// Package modifier implements the effect catalog, typed modifier values,
// scope-mapped lookup, and attributed summation described in spec.md §4.4.
package modifier

import "openvic.dev/simcore/internal/fixed"

// TargetCategory is the single target category an Effect applies to.
type TargetCategory int

const (
	TargetCountry TargetCategory = 1 << iota
	TargetProvince
	TargetUnit
)

// TargetMask is a bitmask of TargetCategory values, used by ModifierSum to
// exclude effects belonging to specific targets when climbing the
// province->country hierarchy (spec.md §4.4).
type TargetMask int

// Has reports whether mask excludes t.
func (mask TargetMask) Has(t TargetCategory) bool {
	return mask&TargetMask(t) != 0
}

// Format is the UI display format hint carried by an Effect. It has no
// bearing on arithmetic; it only tells a presentation layer how to render
// the value.
type Format int

const (
	FormatInteger Format = iota
	FormatProportionalDecimal
	FormatPercentageDecimal
	FormatRawDecimal
)

// Effect is a single named modifier effect: an identifier, a UI sign
// hint, a display format, a target category, and the mapping key used by
// EffectMapping's scoped lookup.
type Effect struct {
	ID             string
	MappingKey     string
	PositiveIsGood bool
	Format         Format
	Target         TargetCategory
}

// Identifier satisfies registry.Identified.
func (e *Effect) Identifier() string { return e.ID }

// Value is a sparse mapping from *Effect to a fixed-point amount. Zero
// entries are trimmed on write so IsZero/len reflect only non-zero
// contributions.
type Value struct {
	amounts map[*Effect]fixed.Fixed
}

// NewValue builds an empty Value.
func NewValue() *Value {
	return &Value{amounts: make(map[*Effect]fixed.Fixed)}
}

// Set stores amount for effect, trimming the entry entirely if amount is
// zero.
func (v *Value) Set(effect *Effect, amount fixed.Fixed) {
	if amount == 0 {
		delete(v.amounts, effect)
		return
	}
	v.amounts[effect] = amount
}

// Add accumulates amount onto whatever effect currently holds, trimming
// the entry if the result is zero.
func (v *Value) Add(effect *Effect, amount fixed.Fixed) {
	v.Set(effect, fixed.Add(v.Get(effect), amount))
}

// Get returns the amount stored for effect, or zero if absent.
func (v *Value) Get(effect *Effect) fixed.Fixed {
	return v.amounts[effect]
}

// Len returns the number of non-zero entries.
func (v *Value) Len() int {
	return len(v.amounts)
}

// Each calls fn for every non-zero entry. Iteration order is unspecified;
// callers needing determinism should sort by Effect.ID.
func (v *Value) Each(fn func(effect *Effect, amount fixed.Fixed)) {
	for e, a := range v.amounts {
		fn(e, a)
	}
}

// Clone returns an independent copy of v.
func (v *Value) Clone() *Value {
	out := NewValue()
	for e, a := range v.amounts {
		out.amounts[e] = a
	}
	return out
}
