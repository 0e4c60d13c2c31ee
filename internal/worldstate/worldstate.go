// Package worldstate holds the mutable instance graph the daily tick
// operates over: provinces, states, and countries, wired together by
// back-pointers after every forward reference exists (spec.md §3
// Ownership, Design Notes).
package worldstate

import (
	"fmt"

	"openvic.dev/simcore/internal/econproduction"
	"openvic.dev/simcore/internal/fixed"
	"openvic.dev/simcore/internal/geo"
	"openvic.dev/simcore/internal/modifier"
	"openvic.dev/simcore/internal/registry"
)

// ProvinceInstance is the mutable per-tick state layered onto an
// immutable geo.ProvinceDefinition (spec.md §3): owner, pops, the
// production operation the province runs, and its folded modifier sum.
type ProvinceInstance struct {
	Definition *geo.ProvinceDefinition

	Owner    *CountryInstance
	State    *State
	IsColony bool

	Pops           []*econproduction.Pop
	ProductionType *econproduction.ProductionType
	RGOOutput      fixed.Fixed

	ModifierSum *modifier.Sum
}

func (p *ProvinceInstance) Identifier() string { return p.Definition.ID }

// PopulationSize sums every pop's size.
func (p *ProvinceInstance) PopulationSize() fixed.Fixed {
	total := fixed.Zero
	for _, pop := range p.Pops {
		total = fixed.Add(total, pop.Size)
	}
	return total
}

// NewProvinceInstance builds an instance over def with an empty modifier
// sum. Owner/State are wired later by WireBackReferences.
func NewProvinceInstance(def *geo.ProvinceDefinition) *ProvinceInstance {
	return &ProvinceInstance{Definition: def, ModifierSum: modifier.NewSum()}
}

// ProvinceInstanceManager owns every ProvinceInstance, one per locked
// geo.ProvinceDefinition.
type ProvinceInstanceManager struct {
	reg *registry.Registry[*ProvinceInstance]
}

func NewProvinceInstanceManager() *ProvinceInstanceManager {
	return &ProvinceInstanceManager{reg: registry.New[*ProvinceInstance]("province_instances", 1)}
}

// Setup builds one ProvinceInstance per definition in provinces, in
// registration order, and locks the instance registry.
func (m *ProvinceInstanceManager) Setup(provinces *geo.ProvinceManager) bool {
	if m.reg.Locked() {
		return false
	}
	ok := true
	for _, def := range provinces.Items() {
		ok = m.reg.Add(NewProvinceInstance(def)) && ok
	}
	m.reg.Lock()
	return ok
}

func (m *ProvinceInstanceManager) ByIdentifier(id string) (*ProvinceInstance, bool) {
	return m.reg.ByIdentifier(id)
}
func (m *ProvinceInstanceManager) Items() []*ProvinceInstance { return m.reg.Items() }
func (m *ProvinceInstanceManager) Len() int                   { return m.reg.Len() }

// StateAggregates are the query outputs spec.md §6 lists per state:
// population, literacy, consciousness, militancy, pop-type distribution,
// industrial power, and max supported regiments.
type StateAggregates struct {
	Population           fixed.Fixed
	AverageLiteracy      fixed.Fixed
	AverageConsciousness fixed.Fixed
	AverageMilitancy     fixed.Fixed
	PopTypeSizes         map[string]fixed.Fixed
	IndustrialPower      fixed.Fixed
	MaxRegiments         int
}

// regimentsPerPopulation is the number of pop-size units that support one
// additional supportable regiment. There is no in-pack precedent for the
// exact ratio; this is a placeholder constant, not a modifier-sum effect,
// since spec.md leaves the formula itself undocumented and only names the
// output as a state aggregate.
var regimentsPerPopulation = fixed.FromInt(200)

// State is a mutable group of ProvinceInstances sharing one owner country
// and colony status within one non-meta region (spec.md §3).
type State struct {
	ID        string
	Region    *geo.Region
	Owner     *CountryInstance
	IsColony  bool
	Provinces []*ProvinceInstance
}

func (s *State) Identifier() string { return s.ID }

// Aggregates recomputes the state's query outputs from its current
// province/pop membership (spec.md §6). It is a pure read: nothing about
// tick order depends on aggregates being kept incrementally up to date.
func (s *State) Aggregates() StateAggregates {
	out := StateAggregates{PopTypeSizes: make(map[string]fixed.Fixed)}
	weightedLiteracy := fixed.Zero
	weightedConsciousness := fixed.Zero
	weightedMilitancy := fixed.Zero

	for _, prov := range s.Provinces {
		for _, pop := range prov.Pops {
			out.Population = fixed.Add(out.Population, pop.Size)
			out.PopTypeSizes[pop.Type] = fixed.Add(out.PopTypeSizes[pop.Type], pop.Size)
			weightedLiteracy = fixed.Add(weightedLiteracy, fixed.Mul(pop.Literacy, pop.Size))
			weightedConsciousness = fixed.Add(weightedConsciousness, fixed.Mul(pop.Consciousness, pop.Size))
			weightedMilitancy = fixed.Add(weightedMilitancy, fixed.Mul(pop.Militancy, pop.Size))
		}
		out.IndustrialPower = fixed.Add(out.IndustrialPower, prov.RGOOutput)
	}

	if out.Population > 0 {
		out.AverageLiteracy = fixed.Div(weightedLiteracy, out.Population)
		out.AverageConsciousness = fixed.Div(weightedConsciousness, out.Population)
		out.AverageMilitancy = fixed.Div(weightedMilitancy, out.Population)
		out.MaxRegiments = int(fixed.Div(out.Population, regimentsPerPopulation).ToInt())
	}
	return out
}

// stateKey groups provinces sharing one owner and colony status.
type stateKey struct {
	owner  *CountryInstance
	colony bool
}

// BuildStatesFromRegion partitions a non-meta region's provinces into
// states, one per distinct (owner, colony-status) pairing, in the order
// each pairing is first encountered while walking region.Provinces
// (spec.md §4.3 "States"). The returned slice reserves capacity up to
// len(region.Provinces) — the worst case of every province forming its
// own single-member state — so that pointers to states already appended
// remain stable while the loop keeps appending newly discovered ones.
func BuildStatesFromRegion(region *geo.Region, instances *ProvinceInstanceManager, ownerOf func(*geo.ProvinceDefinition) (*CountryInstance, bool), colonyOf func(*geo.ProvinceDefinition) bool) []*State {
	states := make([]*State, 0, len(region.Provinces))
	byKey := make(map[stateKey]*State, len(region.Provinces))

	for _, def := range region.Provinces {
		owner, _ := ownerOf(def)
		colony := colonyOf(def)
		key := stateKey{owner: owner, colony: colony}

		s, ok := byKey[key]
		if !ok {
			s = &State{
				ID:       fmt.Sprintf("%s-state-%d", region.ID, len(states)),
				Region:   region,
				Owner:    owner,
				IsColony: colony,
			}
			byKey[key] = s
			states = append(states, s)
		}

		if inst, ok := instances.ByIdentifier(def.ID); ok {
			s.Provinces = append(s.Provinces, inst)
		}
	}

	return states
}

// StateManager owns every State.
type StateManager struct {
	reg *registry.Registry[*State]
}

func NewStateManager() *StateManager {
	return &StateManager{reg: registry.New[*State]("states", 1)}
}

func (m *StateManager) Add(s *State) bool             { return m.reg.Add(s) }
func (m *StateManager) Lock()                         { m.reg.Lock() }
func (m *StateManager) ByIdentifier(id string) (*State, bool) { return m.reg.ByIdentifier(id) }
func (m *StateManager) Items() []*State               { return m.reg.Items() }
func (m *StateManager) Len() int                      { return m.reg.Len() }

// CountryInstance is the mutable per-tick state for one country: its
// modifier sum (climbed from every owned state/province, per spec.md
// §4.4's exclude-source rule) and the states it owns.
type CountryInstance struct {
	ID          string
	States      []*State
	ModifierSum *modifier.Sum
}

func (c *CountryInstance) Identifier() string { return c.ID }

func NewCountryInstance(id string) *CountryInstance {
	return &CountryInstance{ID: id, ModifierSum: modifier.NewSum()}
}

// CountryInstanceManager owns every CountryInstance.
type CountryInstanceManager struct {
	reg *registry.Registry[*CountryInstance]
}

func NewCountryInstanceManager() *CountryInstanceManager {
	return &CountryInstanceManager{reg: registry.New[*CountryInstance]("country_instances", 1)}
}

func (m *CountryInstanceManager) Add(c *CountryInstance) bool { return m.reg.Add(c) }
func (m *CountryInstanceManager) Lock()                       { m.reg.Lock() }
func (m *CountryInstanceManager) ByIdentifier(id string) (*CountryInstance, bool) {
	return m.reg.ByIdentifier(id)
}
func (m *CountryInstanceManager) Items() []*CountryInstance { return m.reg.Items() }
func (m *CountryInstanceManager) Len() int                  { return m.reg.Len() }

// WireBackReferences performs the two-pass back-pointer wiring spec.md's
// Ownership section requires: every ProvinceInstance's State/Owner and
// every State's Owner are set only after every forward reference (State's
// Provinces list, CountryInstance's States list) already exists, so no
// partially-built cycle is ever visible mid-wiring.
func WireBackReferences(states *StateManager, countries *CountryInstanceManager) {
	for _, s := range states.Items() {
		for _, prov := range s.Provinces {
			prov.State = s
			prov.Owner = s.Owner
			prov.IsColony = s.IsColony
		}
	}
	for _, c := range countries.Items() {
		for _, s := range c.States {
			s.Owner = c
		}
	}
}
