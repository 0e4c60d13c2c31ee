package modifier

// Scope names one of the seven ModifierEffectMapping instances spec.md
// §4.4 requires, created in this fixed order.
type Scope int

const (
	ScopeLeader Scope = iota
	ScopeTechnology
	ScopeUnitTerrain
	ScopeBaseCountry
	ScopeBaseProvince
	ScopeEvent
	ScopeTerrain
)

// Scopes lists the seven mappings in the fixed creation order spec.md
// §4.4 mandates.
var Scopes = []Scope{
	ScopeLeader,
	ScopeTechnology,
	ScopeUnitTerrain,
	ScopeBaseCountry,
	ScopeBaseProvince,
	ScopeEvent,
	ScopeTerrain,
}

// EffectMapping maps mapping-key strings to specific Effects within one
// named scope, with an optional fallback mapping. Lookups descend
// fallbacks until a hit or nil. The mapping locks once populated;
// thereafter Lookup is idempotent.
type EffectMapping struct {
	Scope    Scope
	fallback *EffectMapping
	entries  map[string]*Effect
	locked   bool
}

// NewEffectMapping constructs an empty, unlocked mapping for scope with
// the given fallback (nil for a standalone mapping).
func NewEffectMapping(scope Scope, fallback *EffectMapping) *EffectMapping {
	return &EffectMapping{Scope: scope, fallback: fallback, entries: make(map[string]*Effect)}
}

// Add registers effect under key. Fails if the mapping is locked or key is
// already registered.
func (m *EffectMapping) Add(key string, effect *Effect) bool {
	if m.locked {
		return false
	}
	if _, exists := m.entries[key]; exists {
		return false
	}
	m.entries[key] = effect
	return true
}

// Lock freezes the mapping. Lookup remains valid and idempotent after
// locking; Add fails.
func (m *EffectMapping) Lock() {
	m.locked = true
}

// Lookup walks the fallback chain captured at construction time — an
// iterative loop over non-owning parent pointers, matching the original
// engine's implementation rather than a recursive walk — returning the
// first hit, or nil if no mapping in the chain has key.
func (m *EffectMapping) Lookup(key string) (*Effect, bool) {
	for cur := m; cur != nil; cur = cur.fallback {
		if e, ok := cur.entries[key]; ok {
			return e, true
		}
	}
	return nil, false
}

// Mappings holds the seven scoped mappings and wires their fallback graph
// per spec.md §4.4: BASE_PROVINCE -> BASE_COUNTRY; EVENT -> BASE_PROVINCE;
// TERRAIN -> BASE_PROVINCE; all others standalone. The fallback graph is
// acyclic by construction.
type Mappings struct {
	byScope map[Scope]*EffectMapping
}

// SetupModifierEffectMappings creates all seven mappings in the fixed
// order spec.md §4.4 requires.
func SetupModifierEffectMappings() *Mappings {
	m := &Mappings{byScope: make(map[Scope]*EffectMapping, len(Scopes))}
	// Leaf mappings with no fallback are created first so dependents can
	// reference them immediately.
	m.byScope[ScopeLeader] = NewEffectMapping(ScopeLeader, nil)
	m.byScope[ScopeTechnology] = NewEffectMapping(ScopeTechnology, nil)
	m.byScope[ScopeUnitTerrain] = NewEffectMapping(ScopeUnitTerrain, nil)
	m.byScope[ScopeBaseCountry] = NewEffectMapping(ScopeBaseCountry, nil)
	m.byScope[ScopeBaseProvince] = NewEffectMapping(ScopeBaseProvince, m.byScope[ScopeBaseCountry])
	m.byScope[ScopeEvent] = NewEffectMapping(ScopeEvent, m.byScope[ScopeBaseProvince])
	m.byScope[ScopeTerrain] = NewEffectMapping(ScopeTerrain, m.byScope[ScopeBaseProvince])
	return m
}

// Get returns the mapping for scope.
func (m *Mappings) Get(scope Scope) *EffectMapping {
	return m.byScope[scope]
}

// LockAll locks every mapping, making all seven read-only.
func (m *Mappings) LockAll() {
	for _, s := range Scopes {
		m.byScope[s].Lock()
	}
}

// ForType returns the mapping a Modifier of the given type should resolve
// its keys against, per TypeToMappingScope.
func (m *Mappings) ForType(t TypeTag) *EffectMapping {
	return m.byScope[TypeToMappingScope[t]]
}
