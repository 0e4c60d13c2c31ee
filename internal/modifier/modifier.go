package modifier

// TypeTag categorises a Modifier's provenance (spec.md §3).
type TypeTag int

const (
	TypeEvent TypeTag = iota
	TypeStatic
	TypeTriggered
	TypeCrime
	TypeTerrain
	TypeClimate
	TypeContinent
	TypeBuilding
	TypeLeader
	TypeUnitTerrain
	TypeNationalValue
	TypeNationalFocus
	TypeIssue
	TypeReform
	TypeTechnology
	TypeInvention
	TypeInventionEffect
	TypeTechSchool
)

// Modifier is a named Value plus its provenance type tag and an optional
// UI icon.
type Modifier struct {
	ID    string
	Value *Value
	Type  TypeTag
	Icon  string
}

// Identifier satisfies registry.Identified.
func (m *Modifier) Identifier() string { return m.ID }

// TypeToMappingScope is the fixed modifier-type -> mapping table from
// spec.md §4.4. It is a package-level variable rather than a switch
// statement so an implementer can override individual entries — the
// original engine hard-codes STATIC and TRIGGERED to BASE_COUNTRY with an
// inline comment doubting the choice (see DESIGN.md); keeping the table
// mutable lets that be corrected later without touching the lookup code.
var TypeToMappingScope = map[TypeTag]Scope{
	TypeEvent:           ScopeEvent,
	TypeTechnology:      ScopeTechnology,
	TypeInventionEffect: ScopeTechnology,
	TypeTerrain:         ScopeTerrain,
	TypeLeader:          ScopeLeader,
	TypeUnitTerrain:     ScopeUnitTerrain,
	TypeBuilding:        ScopeBaseProvince,
	TypeClimate:         ScopeBaseProvince,
	TypeContinent:       ScopeBaseProvince,
	TypeCrime:           ScopeBaseProvince,
	TypeNationalFocus:   ScopeBaseProvince,
	TypeStatic:          ScopeBaseCountry,
	TypeTriggered:       ScopeBaseCountry,
	TypeInvention:       ScopeBaseCountry,
	TypeIssue:           ScopeBaseCountry,
	TypeReform:          ScopeBaseCountry,
	TypeNationalValue:   ScopeBaseCountry,
	TypeTechSchool:      ScopeBaseCountry,
}
