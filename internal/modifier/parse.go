package modifier

import (
	"fmt"

	"openvic.dev/simcore/internal/fixed"
	"openvic.dev/simcore/internal/valuetree"
)

// ComplexModifierSet names the mapping keys that expect a nested
// dictionary of variants rather than a scalar (e.g. "rgo_output" by good,
// "rebel_org_gain" by faction). Parse flattens `key: {subkey: value}` to
// the single lookup key "key subkey" before resolving it, per spec.md
// §4.4.
type ComplexModifierSet map[string]bool

// DefaultCallback is invoked for a key the active mapping chain (and, for
// complex modifiers, the flattened sub-key) does not resolve. It returns
// an error to reject the block, or nil to skip the key silently.
type DefaultCallback func(key string) error

// ParseBlock resolves a mapping-key -> numeric-value tree into a Value
// using mapping's fallback chain. Complex-modifier keys (named in
// complex) expect a nested Map value and are flattened to "<key> <subkey>"
// per entry before lookup. Duplicate keys within block are always errors,
// independent of onUnknown.
func ParseBlock(block valuetree.Node, mapping *EffectMapping, complex ComplexModifierSet, onUnknown DefaultCallback) (*Value, error) {
	if block.Kind != valuetree.Map {
		return nil, fmt.Errorf("modifier: block is not a map (%s)", block)
	}
	if dups := block.DuplicateKeys(); len(dups) > 0 {
		return nil, fmt.Errorf("modifier: duplicate key %q in modifier block", dups[0])
	}
	out := NewValue()
	for _, pair := range block.Pairs {
		if complex[pair.Key] {
			if err := parseComplexEntry(pair, mapping, out, onUnknown); err != nil {
				return nil, err
			}
			continue
		}
		if err := parseScalarEntry(pair.Key, pair.Value, mapping, out, onUnknown); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parseComplexEntry(pair valuetree.Pair, mapping *EffectMapping, out *Value, onUnknown DefaultCallback) error {
	if pair.Value.Kind != valuetree.Map {
		return fmt.Errorf("modifier: complex modifier %q expects a nested map", pair.Key)
	}
	if dups := pair.Value.DuplicateKeys(); len(dups) > 0 {
		return fmt.Errorf("modifier: duplicate key %q in complex modifier %q", dups[0], pair.Key)
	}
	for _, sub := range pair.Value.Pairs {
		flat := pair.Key + " " + sub.Key
		if err := parseScalarEntry(flat, sub.Value, mapping, out, onUnknown); err != nil {
			return err
		}
	}
	return nil
}

func parseScalarEntry(key string, value valuetree.Node, mapping *EffectMapping, out *Value, onUnknown DefaultCallback) error {
	if value.Kind != valuetree.Scalar {
		return fmt.Errorf("modifier: key %q expects a scalar value", key)
	}
	amount, err := fixed.Parse(value.Value)
	if err != nil {
		return fmt.Errorf("modifier: key %q: %w", key, err)
	}
	effect, ok := mapping.Lookup(key)
	if !ok {
		if onUnknown != nil {
			return onUnknown(key)
		}
		return fmt.Errorf("modifier: unknown key %q", key)
	}
	out.Add(effect, amount)
	return nil
}
