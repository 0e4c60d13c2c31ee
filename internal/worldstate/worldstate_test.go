package worldstate

import (
	"testing"

	"openvic.dev/simcore/internal/colorutil"
	"openvic.dev/simcore/internal/econproduction"
	"openvic.dev/simcore/internal/fixed"
	"openvic.dev/simcore/internal/geo"
)

func mustParse(t *testing.T, s string) fixed.Fixed {
	t.Helper()
	f, err := fixed.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return f
}

func TestStateAggregatesWeightsByPopSize(t *testing.T) {
	provinces := geo.NewProvinceManager(nil, nil)
	def, ok := provinces.Add("p1", colorutil.RGB(1, 2, 3), false)
	if !ok {
		t.Fatal("Add(p1) failed")
	}
	provinces.Lock()

	inst := NewProvinceInstance(def)
	popA := econproduction.NewPop("a", "farmer", mustParse(t, "100"), false)
	popA.Literacy = mustParse(t, "0.5")
	popB := econproduction.NewPop("b", "labourer", mustParse(t, "300"), false)
	popB.Literacy = mustParse(t, "0.1")
	inst.Pops = []*econproduction.Pop{popA, popB}
	inst.RGOOutput = mustParse(t, "50")

	s := &State{ID: "s1", Provinces: []*ProvinceInstance{inst}}
	agg := s.Aggregates()

	if agg.Population != mustParse(t, "400") {
		t.Errorf("Population = %s, want 400", agg.Population)
	}
	wantLiteracy := fixed.Div(
		fixed.Add(fixed.Mul(mustParse(t, "0.5"), mustParse(t, "100")), fixed.Mul(mustParse(t, "0.1"), mustParse(t, "300"))),
		mustParse(t, "400"),
	)
	if agg.AverageLiteracy != wantLiteracy {
		t.Errorf("AverageLiteracy = %s, want %s", agg.AverageLiteracy, wantLiteracy)
	}
	if agg.PopTypeSizes["farmer"] != mustParse(t, "100") || agg.PopTypeSizes["labourer"] != mustParse(t, "300") {
		t.Errorf("PopTypeSizes = %+v", agg.PopTypeSizes)
	}
	if agg.IndustrialPower != mustParse(t, "50") {
		t.Errorf("IndustrialPower = %s, want 50", agg.IndustrialPower)
	}
}

func TestWireBackReferencesSetsProvinceOwnerAndState(t *testing.T) {
	provinces := geo.NewProvinceManager(nil, nil)
	def, _ := provinces.Add("p1", colorutil.RGB(1, 2, 3), false)
	provinces.Lock()

	inst := NewProvinceInstance(def)
	country := NewCountryInstance("c1")
	state := &State{ID: "s1", Owner: country, IsColony: true, Provinces: []*ProvinceInstance{inst}}
	country.States = []*State{state}

	states := NewStateManager()
	states.Add(state)
	states.Lock()
	countries := NewCountryInstanceManager()
	countries.Add(country)
	countries.Lock()

	WireBackReferences(states, countries)

	if inst.State != state {
		t.Error("province instance State back-pointer not wired")
	}
	if inst.Owner != country {
		t.Error("province instance Owner back-pointer not wired")
	}
	if !inst.IsColony {
		t.Error("province instance IsColony not propagated from state")
	}
	if state.Owner != country {
		t.Error("state Owner back-pointer not wired")
	}
}

func TestBuildStatesFromRegionGroupsByOwnerAndColonyStatus(t *testing.T) {
	provinces := geo.NewProvinceManager(nil, nil)
	p1, _ := provinces.Add("p1", colorutil.RGB(1, 0, 0), false)
	p2, _ := provinces.Add("p2", colorutil.RGB(2, 0, 0), false)
	p3, _ := provinces.Add("p3", colorutil.RGB(3, 0, 0), false)
	p4, _ := provinces.Add("p4", colorutil.RGB(4, 0, 0), false)
	provinces.Lock()

	instances := NewProvinceInstanceManager()
	instances.Setup(provinces)

	region := &geo.Region{ID: "core", Provinces: []*geo.ProvinceDefinition{p1, p2, p3, p4}}

	countryA := NewCountryInstance("A")
	countryB := NewCountryInstance("B")
	ownerOf := func(def *geo.ProvinceDefinition) (*CountryInstance, bool) {
		switch def.ID {
		case "p1", "p2":
			return countryA, true
		case "p3":
			return countryB, true
		default:
			return nil, false
		}
	}
	colonyOf := func(def *geo.ProvinceDefinition) bool { return def.ID == "p2" }

	states := BuildStatesFromRegion(region, instances, ownerOf, colonyOf)

	if len(states) != 4 {
		t.Fatalf("len(states) = %d, want 4 (A/non-colony, A/colony, B/non-colony, unowned/non-colony)", len(states))
	}
	if cap(states) != len(region.Provinces) {
		t.Errorf("cap(states) = %d, want %d (reserved up to |region| for pointer stability)", cap(states), len(region.Provinces))
	}

	byOwnerColony := func(owner *CountryInstance, colony bool) *State {
		for _, s := range states {
			if s.Owner == owner && s.IsColony == colony {
				return s
			}
		}
		return nil
	}

	aMainland := byOwnerColony(countryA, false)
	if aMainland == nil || len(aMainland.Provinces) != 1 || aMainland.Provinces[0].Identifier() != "p1" {
		t.Fatalf("country A mainland state = %+v", aMainland)
	}
	aColony := byOwnerColony(countryA, true)
	if aColony == nil || len(aColony.Provinces) != 1 || aColony.Provinces[0].Identifier() != "p2" {
		t.Fatalf("country A colony state = %+v", aColony)
	}
	bMainland := byOwnerColony(countryB, false)
	if bMainland == nil || len(bMainland.Provinces) != 1 || bMainland.Provinces[0].Identifier() != "p3" {
		t.Fatalf("country B mainland state = %+v", bMainland)
	}
	unowned := byOwnerColony(nil, false)
	if unowned == nil || len(unowned.Provinces) != 1 || unowned.Provinces[0].Identifier() != "p4" {
		t.Fatalf("unowned state = %+v", unowned)
	}
}
