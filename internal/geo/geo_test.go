package geo

import (
	"testing"

	"openvic.dev/simcore/internal/colorutil"
	"openvic.dev/simcore/internal/fixed"
)

func newTestManager(t *testing.T) *ProvinceManager {
	t.Helper()
	var errs, warns []string
	return NewProvinceManager(
		func(msg string) { errs = append(errs, msg) },
		func(msg string) { warns = append(warns, msg) },
	)
}

// TestAdjacencyStraitValidation exercises boundary scenario 2: two land
// provinces cannot be joined by a STRAIT without a water `through`
// province, and once a water province is supplied both directions carry
// the same `through`.
func TestAdjacencyStraitValidation(t *testing.T) {
	m := newTestManager(t)
	p1, _ := m.Add("P1", colorutil.RGB(1, 0, 0), false)
	p2, _ := m.Add("P2", colorutil.RGB(2, 0, 0), false)
	p3, _ := m.Add("P3", colorutil.RGB(3, 0, 0), true)
	m.Lock()

	if ok := m.AddSpecialAdjacency(p1, p2, Strait, nil, 0); ok {
		t.Fatal("STRAIT without a through province should fail")
	}
	if len(p1.Adjacent) != 0 {
		t.Fatal("failed AddSpecialAdjacency must not mutate adjacency lists")
	}

	if ok := m.AddSpecialAdjacency(p1, p2, Strait, p3, 0); !ok {
		t.Fatal("STRAIT with a water through province should succeed")
	}

	a12 := findAdjacency(p1, p2)
	a21 := findAdjacency(p2, p1)
	if a12 == nil || a21 == nil {
		t.Fatal("expected adjacency in both directions")
	}
	if a12.Type != Strait || a21.Type != Strait {
		t.Errorf("both directions should be STRAIT, got %s and %s", a12.Type, a21.Type)
	}
	if a12.Through != p3 || a21.Through != p3 {
		t.Error("both directions should carry the same through province")
	}
}

func TestAdjacencyLandWaterRejected(t *testing.T) {
	m := newTestManager(t)
	land, _ := m.Add("L", colorutil.RGB(1, 0, 0), false)
	water, _ := m.Add("W", colorutil.RGB(2, 0, 0), true)
	m.Lock()

	if ok := m.AddSpecialAdjacency(land, water, Land, nil, 0); ok {
		t.Fatal("LAND adjacency with a water endpoint should fail")
	}
	if ok := m.AddSpecialAdjacency(land, water, Water, nil, 0); ok {
		t.Fatal("WATER adjacency with a land endpoint should fail")
	}
	if ok := m.AddSpecialAdjacency(land, water, Coastal, nil, 0); !ok {
		t.Fatal("COASTAL adjacency between land and water should succeed")
	}
}

func TestAdjacencyImpassableDeletesWaterEdge(t *testing.T) {
	m := newTestManager(t)
	a, _ := m.Add("A", colorutil.RGB(1, 0, 0), true)
	b, _ := m.Add("B", colorutil.RGB(2, 0, 0), true)
	m.Lock()

	if ok := m.AddSpecialAdjacency(a, b, Water, nil, 0); !ok {
		t.Fatal("WATER adjacency should succeed")
	}
	if ok := m.AddSpecialAdjacency(a, b, Impassable, nil, 0); !ok {
		t.Fatal("IMPASSABLE over an existing WATER edge should succeed")
	}
	if findAdjacency(a, b) != nil || findAdjacency(b, a) != nil {
		t.Error("IMPASSABLE over a WATER edge should delete it outright, not replace it")
	}
}

func TestAdjacencyImpassableReplacesLandEdge(t *testing.T) {
	m := newTestManager(t)
	a, _ := m.Add("A", colorutil.RGB(1, 0, 0), false)
	b, _ := m.Add("B", colorutil.RGB(2, 0, 0), false)
	m.Lock()

	if ok := m.AddSpecialAdjacency(a, b, Land, nil, 0); !ok {
		t.Fatal("LAND adjacency should succeed")
	}
	if ok := m.AddSpecialAdjacency(a, b, Impassable, nil, 0); !ok {
		t.Fatal("IMPASSABLE over an existing LAND edge should succeed")
	}
	edge := findAdjacency(a, b)
	if edge == nil || edge.Type != Impassable {
		t.Error("IMPASSABLE over a LAND edge should replace it, not delete it")
	}
}

// TestAdjacencyImpassableWithoutExistingIsNoOp mirrors Map.cpp's
// add_adjacency lambda: IMPASSABLE with no pre-existing adjacency between
// the two provinces is a warned no-op, not a new barrier edge.
func TestAdjacencyImpassableWithoutExistingIsNoOp(t *testing.T) {
	m := newTestManager(t)
	a, _ := m.Add("A", colorutil.RGB(1, 0, 0), false)
	b, _ := m.Add("B", colorutil.RGB(2, 0, 0), false)
	m.Lock()

	if ok := m.AddSpecialAdjacency(a, b, Impassable, nil, 0); !ok {
		t.Fatal("IMPASSABLE with no existing adjacency should still report success")
	}
	if findAdjacency(a, b) != nil || findAdjacency(b, a) != nil {
		t.Error("IMPASSABLE with no existing adjacency must not create a new edge")
	}
}

// TestAdjacencyLandToStraitConversion exercises the one LAND-edge
// conversion the duplicate/conflict rules allow.
func TestAdjacencyLandToStraitConversion(t *testing.T) {
	m := newTestManager(t)
	a, _ := m.Add("A", colorutil.RGB(1, 0, 0), false)
	b, _ := m.Add("B", colorutil.RGB(2, 0, 0), false)
	water, _ := m.Add("W", colorutil.RGB(3, 0, 0), true)
	m.Lock()

	if ok := m.AddSpecialAdjacency(a, b, Land, nil, 0); !ok {
		t.Fatal("LAND adjacency should succeed")
	}
	if ok := m.AddSpecialAdjacency(a, b, Strait, water, 0); !ok {
		t.Fatal("converting a LAND edge to STRAIT should succeed")
	}
	edge := findAdjacency(a, b)
	if edge == nil || edge.Type != Strait || edge.Through != water {
		t.Fatalf("expected a STRAIT edge through %s, got %v", water.ID, edge)
	}
}

// TestAdjacencyWaterToLandStraitConflictErrors: a WATER edge cannot become
// a LAND or STRAIT edge (only LAND->STRAIT and WATER->CANAL are allowed).
// Both types need land endpoints, so a LAND request between the two water
// provinces is rejected at endpoint validation.
func TestAdjacencyWaterToLandStraitConflictErrors(t *testing.T) {
	m := newTestManager(t)
	a, _ := m.Add("A", colorutil.RGB(1, 0, 0), true)
	b, _ := m.Add("B", colorutil.RGB(2, 0, 0), true)
	land, _ := m.Add("L", colorutil.RGB(3, 0, 0), false)
	m.Lock()

	if ok := m.AddSpecialAdjacency(a, b, Water, nil, 0); !ok {
		t.Fatal("WATER adjacency should succeed")
	}
	if ok := m.AddSpecialAdjacency(a, b, Land, land, 0); ok {
		t.Error("WATER endpoints reject LAND adjacency at endpoint validation, before any conflict check")
	}
}

// TestCentroidIsPixelMean exercises the raster import centroid property:
// a province's centroid is the arithmetic mean of its pixel coordinates.
func TestCentroidIsPixelMean(t *testing.T) {
	m := newTestManager(t)
	p, _ := m.Add("P", colorutil.RGB(10, 20, 30), false)
	m.Lock()

	packed := colorutil.PackRGB(colorutil.RGB(10, 20, 30))
	width, height := 4, 2
	provincePixels := make([]uint32, width*height)
	terrainPixels := make([]byte, width*height)
	// Occupy (0,0), (1,0), (0,1): mean x = 1/3, mean y = 1/3.
	provincePixels[0*width+0] = packed
	provincePixels[0*width+1] = packed
	provincePixels[1*width+0] = packed

	ImportRaster(width, height, provincePixels, terrainPixels, m)

	if p.PixelCount != 3 {
		t.Fatalf("PixelCount = %d, want 3", p.PixelCount)
	}
	want := fixed.Div(fixed.FromInt(1), fixed.FromInt(3))
	if p.Centroid.X != want {
		t.Errorf("Centroid.X = %s, want %s", p.Centroid.X, want)
	}
	if p.Centroid.Y != want {
		t.Errorf("Centroid.Y = %s, want %s", p.Centroid.Y, want)
	}
}

func TestImportRasterFlagsOffMap(t *testing.T) {
	m := newTestManager(t)
	p, _ := m.Add("P", colorutil.RGB(9, 9, 9), false)
	m.Lock()

	ImportRaster(2, 2, make([]uint32, 4), make([]byte, 4), m)
	if !p.OffMap {
		t.Error("a province with zero matching pixels should be flagged off-map")
	}
}

func TestImportRasterReportsUnrecognizedColorOnce(t *testing.T) {
	m := newTestManager(t)
	m.Add("P", colorutil.RGB(9, 9, 9), false)
	m.Lock()

	stray := colorutil.PackRGB(colorutil.RGB(200, 1, 1))
	pixels := []uint32{stray, stray, stray}
	result := ImportRaster(3, 1, pixels, make([]byte, 3), m)
	if len(result.UnrecognizedColors) != 1 {
		t.Errorf("expected exactly one unrecognized colour report, got %d", len(result.UnrecognizedColors))
	}
}

func TestGenerateStandardAdjacenciesCoastal(t *testing.T) {
	m := newTestManager(t)
	land, _ := m.Add("L", colorutil.RGB(1, 0, 0), false)
	water, _ := m.Add("W", colorutil.RGB(2, 0, 0), true)
	m.Lock()

	perPixel := []PixelInfo{
		{ProvinceIndex: land.Index}, {ProvinceIndex: water.Index},
	}
	GenerateStandardAdjacencies(2, 1, perPixel, m)

	edge := findAdjacency(land, water)
	if edge == nil || edge.Type != Coastal {
		t.Fatalf("expected a COASTAL edge, got %v", edge)
	}
	if !land.Coastal || !water.Coastal {
		t.Error("both provinces should be flagged coastal")
	}
	if findAdjacency(water, land) == nil {
		t.Error("expected the reverse edge too")
	}
}
