package geo

import (
	"fmt"

	"openvic.dev/simcore/internal/modifier"
	"openvic.dev/simcore/internal/registry"
)

// Climate is a named group of provinces carrying a shared Value whose keys
// resolve through the BASE_PROVINCE modifier scope (TypeToMappingScope's
// TypeClimate entry; spec.md §3, §4.4). Like continent
// membership, climate membership is first-write-wins: a province already
// assigned to a climate keeps it, and a later attempt to add it to a
// different climate is a gameplay warning, not an override.
type Climate struct {
	ID        string
	Value     *modifier.Value
	Provinces []*ProvinceDefinition
}

func (c *Climate) Identifier() string { return c.ID }

// Continent is a named group of provinces carrying a shared Value.
// Continent membership is first-write-wins: a province already assigned
// to a continent keeps it, and a later attempt to add it to a different
// continent is a gameplay warning, not an override.
type Continent struct {
	ID        string
	Value     *modifier.Value
	Provinces []*ProvinceDefinition
}

func (c *Continent) Identifier() string { return c.ID }

// ClimateManager owns every Climate plus the reverse province->climate
// index (spec.md §4.3).
type ClimateManager struct {
	reg        *registry.Registry[*Climate]
	byProvince map[*ProvinceDefinition]*Climate
	onWarning  func(string)
	onError    func(string)
}

func NewClimateManager(onError, onWarning func(string)) *ClimateManager {
	if onError == nil {
		onError = func(string) {}
	}
	if onWarning == nil {
		onWarning = func(string) {}
	}
	return &ClimateManager{
		reg:        registry.New[*Climate]("climates", 0),
		byProvince: make(map[*ProvinceDefinition]*Climate),
		onWarning:  onWarning,
		onError:    onError,
	}
}

// GetOrCreate returns the climate registered under id, creating it (with
// the given Value) if it does not yet exist.
func (m *ClimateManager) GetOrCreate(id string, value *modifier.Value) *Climate {
	if c, ok := m.reg.ByIdentifier(id); ok {
		return c
	}
	c := &Climate{ID: id, Value: value}
	m.reg.Add(c)
	return c
}

// AddProvince assigns p to climate c only if p is not already claimed by
// another climate; a duplicate claim is a gameplay warning and the
// original assignment is kept.
func (m *ClimateManager) AddProvince(c *Climate, p *ProvinceDefinition) {
	if old, ok := m.byProvince[p]; ok {
		if old != c {
			m.onWarning(fmt.Sprintf("geo: province %s found in multiple climates: keeping %s, ignoring %s", p.ID, old.ID, c.ID))
		}
		return
	}
	c.Provinces = append(c.Provinces, p)
	m.byProvince[p] = c
}

func (m *ClimateManager) Lock() { m.reg.Lock() }

func (m *ClimateManager) Locked() bool { return m.reg.Locked() }

func (m *ClimateManager) ByIdentifier(id string) (*Climate, bool) { return m.reg.ByIdentifier(id) }

func (m *ClimateManager) Items() []*Climate { return m.reg.Items() }

func (m *ClimateManager) Of(p *ProvinceDefinition) (*Climate, bool) {
	c, ok := m.byProvince[p]
	return c, ok
}

// ContinentManager owns every Continent plus the reverse
// province->continent index (spec.md §4.3).
type ContinentManager struct {
	reg        *registry.Registry[*Continent]
	byProvince map[*ProvinceDefinition]*Continent
	onWarning  func(string)
	onError    func(string)
}

func NewContinentManager(onError, onWarning func(string)) *ContinentManager {
	if onError == nil {
		onError = func(string) {}
	}
	if onWarning == nil {
		onWarning = func(string) {}
	}
	return &ContinentManager{
		reg:        registry.New[*Continent]("continents", 0),
		byProvince: make(map[*ProvinceDefinition]*Continent),
		onWarning:  onWarning,
		onError:    onError,
	}
}

func (m *ContinentManager) GetOrCreate(id string, value *modifier.Value) *Continent {
	if c, ok := m.reg.ByIdentifier(id); ok {
		return c
	}
	c := &Continent{ID: id, Value: value}
	m.reg.Add(c)
	return c
}

// AddProvince assigns p to continent c only if p is not already claimed
// by another continent; a duplicate claim is a gameplay warning and the
// original assignment is kept.
func (m *ContinentManager) AddProvince(c *Continent, p *ProvinceDefinition) {
	if old, ok := m.byProvince[p]; ok {
		if old != c {
			m.onWarning(fmt.Sprintf("geo: province %s found in multiple continents: keeping %s, ignoring %s", p.ID, old.ID, c.ID))
		}
		return
	}
	c.Provinces = append(c.Provinces, p)
	m.byProvince[p] = c
}

func (m *ContinentManager) Lock() { m.reg.Lock() }

func (m *ContinentManager) Locked() bool { return m.reg.Locked() }

func (m *ContinentManager) ByIdentifier(id string) (*Continent, bool) { return m.reg.ByIdentifier(id) }

func (m *ContinentManager) Items() []*Continent { return m.reg.Items() }

func (m *ContinentManager) Of(p *ProvinceDefinition) (*Continent, bool) {
	c, ok := m.byProvince[p]
	return c, ok
}
