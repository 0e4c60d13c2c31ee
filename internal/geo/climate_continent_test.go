package geo

import (
	"testing"

	"openvic.dev/simcore/internal/colorutil"
)

// TestClimateAddProvinceFirstWins exercises spec.md §4.3: "a province
// belongs to at most one of each; duplicates are warned and first-wins".
func TestClimateAddProvinceFirstWins(t *testing.T) {
	m := newTestManager(t)
	p, _ := m.Add("P1", colorutil.RGB(1, 0, 0), false)
	m.Lock()

	var warns []string
	climates := NewClimateManager(nil, func(msg string) { warns = append(warns, msg) })
	arid := climates.GetOrCreate("arid", nil)
	tropical := climates.GetOrCreate("tropical", nil)

	climates.AddProvince(arid, p)
	climates.AddProvince(tropical, p)

	got, ok := climates.Of(p)
	if !ok || got != arid {
		t.Fatalf("Of(p) = %v, %v; want arid, true (first assignment kept)", got, ok)
	}
	if len(arid.Provinces) != 1 || arid.Provinces[0] != p {
		t.Errorf("arid.Provinces = %v, want [p]", arid.Provinces)
	}
	if len(tropical.Provinces) != 0 {
		t.Errorf("tropical.Provinces = %v, want empty (second assignment ignored)", tropical.Provinces)
	}
	if len(warns) != 1 {
		t.Errorf("expected exactly one duplicate-climate warning, got %d", len(warns))
	}
}

// TestContinentAddProvinceFirstWins mirrors the climate case: continent
// membership is also first-write-wins.
func TestContinentAddProvinceFirstWins(t *testing.T) {
	m := newTestManager(t)
	p, _ := m.Add("P1", colorutil.RGB(1, 0, 0), false)
	m.Lock()

	var warns []string
	continents := NewContinentManager(nil, func(msg string) { warns = append(warns, msg) })
	europe := continents.GetOrCreate("europe", nil)
	asia := continents.GetOrCreate("asia", nil)

	continents.AddProvince(europe, p)
	continents.AddProvince(asia, p)

	got, ok := continents.Of(p)
	if !ok || got != europe {
		t.Fatalf("Of(p) = %v, %v; want europe, true (first assignment kept)", got, ok)
	}
	if len(asia.Provinces) != 0 {
		t.Errorf("asia.Provinces = %v, want empty (second assignment ignored)", asia.Provinces)
	}
	if len(warns) != 1 {
		t.Errorf("expected exactly one duplicate-continent warning, got %d", len(warns))
	}
}
