package modifier

import "openvic.dev/simcore/internal/fixed"

// SourceKind discriminates the provenance a Sum entry is attributed to.
type SourceKind int

const (
	SourceCountry SourceKind = iota
	SourceProvince
)

// Source is a tagged-variant provenance reference. Equality in test
// comparisons should use Key() rather than pointer identity, so the test
// set stays independent of the underlying entity's address (spec.md
// Design Notes).
type Source struct {
	Kind SourceKind
	ID   string
}

// Key renders a string projection stable across runs, for test
// comparisons and log lines.
func (s Source) Key() string {
	prefix := "country"
	if s.Kind == SourceProvince {
		prefix = "province"
	}
	return prefix + ":" + s.ID
}

type sumEntry struct {
	modifier        *Modifier
	multiplier      fixed.Fixed
	source          Source
	excludedTargets TargetMask
}

// Sum accumulates (modifier, multiplier, source, excluded-target-mask)
// entries and folds them into a pre-reduced Value on demand (spec.md
// §4.4). It is the accumulator ModifierSum describes.
type Sum struct {
	entries  []sumEntry
	valueSum *Value
	dirty    bool
}

// NewSum builds an empty Sum.
func NewSum() *Sum {
	return &Sum{valueSum: NewValue()}
}

// Add records a modifier contribution scaled by multiplier, attributed to
// source, excluding any effect whose target is in excludedTargets from the
// folded ValueSum.
func (s *Sum) Add(m *Modifier, multiplier fixed.Fixed, source Source, excludedTargets TargetMask) {
	s.entries = append(s.entries, sumEntry{modifier: m, multiplier: multiplier, source: source, excludedTargets: excludedTargets})
	s.dirty = true
}

// AddExcludingTargets merges every entry of other into s, additionally
// excluding excludedTargets on top of each entry's own exclusion mask.
// Used when climbing from province to country to remove province-only
// effects (spec.md §4.4).
func (s *Sum) AddExcludingTargets(other *Sum, excludedTargets TargetMask) {
	for _, e := range other.entries {
		s.entries = append(s.entries, sumEntry{
			modifier:        e.modifier,
			multiplier:      e.multiplier,
			source:          e.source,
			excludedTargets: e.excludedTargets | excludedTargets,
		})
	}
	s.dirty = true
}

// AddExcludingSource merges every entry of other into s except those
// attributed to excludeSource. Used to prevent a country from applying its
// own country-level modifiers to itself a second time via its states
// (spec.md §4.4).
func (s *Sum) AddExcludingSource(other *Sum, excludeSource Source) {
	for _, e := range other.entries {
		if e.source == excludeSource {
			continue
		}
		s.entries = append(s.entries, e)
	}
	s.dirty = true
}

// reduce folds every entry into valueSum, skipping effects whose target is
// excluded by that entry's mask.
func (s *Sum) reduce() {
	if !s.dirty {
		return
	}
	s.valueSum = NewValue()
	for _, e := range s.entries {
		if e.modifier == nil || e.modifier.Value == nil {
			continue
		}
		e.modifier.Value.Each(func(effect *Effect, amount fixed.Fixed) {
			if e.excludedTargets.Has(effect.Target) {
				return
			}
			s.valueSum.Add(effect, fixed.Mul(amount, e.multiplier))
		})
	}
	s.dirty = false
}

// ValueSum returns the reduced Value. The result is cached until the next
// Add/AddExcludingTargets/AddExcludingSource call.
func (s *Sum) ValueSum() *Value {
	s.reduce()
	return s.valueSum
}

// Get returns the reduced amount for a single effect.
func (s *Sum) Get(effect *Effect) fixed.Fixed {
	return s.ValueSum().Get(effect)
}

// EntryCount returns the number of raw entries recorded (before
// reduction), primarily for tests.
func (s *Sum) EntryCount() int {
	return len(s.entries)
}
