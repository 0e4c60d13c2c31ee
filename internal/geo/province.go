// Package geo implements the geographic model — provinces, adjacencies,
// regions, climates, and continents — built once from raster and
// tabular sources and used
// thereafter as a fixed substrate for per-tick traversal (spec.md §4.3).
package geo

import (
	"openvic.dev/simcore/internal/colorutil"
	"openvic.dev/simcore/internal/fixed"
	"openvic.dev/simcore/internal/registry"
)

// Position is a fixed-point 2D coordinate in raster pixel space. Distances
// between provinces are computed in fixed-point so geography build stays
// bit-stable across runs, matching the determinism the tick engine relies
// on (spec.md §4.2 Design Notes).
type Position struct {
	X, Y fixed.Fixed
}

// ProvinceDefinition is the immutable identity of one map province
// (spec.md §3). Adjacent is populated by GenerateStandardAdjacencies and
// AddSpecialAdjacency after both endpoints of every edge exist.
type ProvinceDefinition struct {
	ID    string
	Color colorutil.Color
	Index int // 1-based, stable once the owning registry is locked

	// Water marks a sea province; it is the intrinsic land/water
	// classification special-adjacency validation relies on, independent
	// of anything the raster importer later derives.
	Water bool

	// Coastal is set true by standard adjacency generation whenever this
	// province borders a province of the other land/water class.
	Coastal bool

	// PixelCount, Centroid, and DominantTerrain are filled in by
	// ImportRaster; zero values mean the province has not been imported
	// (or is off-map).
	PixelCount      int
	Centroid        Position
	DominantTerrain byte
	OffMap          bool

	Adjacent []*Adjacency

	Region *Region // set by BuildRegions for non-meta regions only
}

// Identifier satisfies registry.Identified.
func (p *ProvinceDefinition) Identifier() string { return p.ID }

// ProvinceManager owns every ProvinceDefinition and the colour->index
// lookup spec.md §4.3 requires.
type ProvinceManager struct {
	reg       *registry.Registry[*ProvinceDefinition]
	byColor   map[uint32]*ProvinceDefinition
	onWarning func(string)
	onError   func(string)
}

// NewProvinceManager builds an empty, unlocked manager.
func NewProvinceManager(onError, onWarning func(string)) *ProvinceManager {
	if onError == nil {
		onError = func(string) {}
	}
	if onWarning == nil {
		onWarning = func(string) {}
	}
	return &ProvinceManager{
		reg:       registry.New[*ProvinceDefinition]("provinces", 1),
		byColor:   make(map[uint32]*ProvinceDefinition),
		onWarning: onWarning,
		onError:   onError,
	}
}

// Add registers a province with a non-null, unique RGB colour. Fails (a
// fatal setup error per spec.md §7) on a null colour, a duplicate
// identifier, a duplicate colour, or if the manager is already locked.
func (m *ProvinceManager) Add(id string, color colorutil.Color, water bool) (*ProvinceDefinition, bool) {
	if color.IsNull() {
		m.onError("geo: province " + id + " has a null colour")
		return nil, false
	}
	packed := colorutil.PackRGB(color)
	if _, exists := m.byColor[packed]; exists {
		m.onError("geo: province " + id + " reuses a colour already assigned to another province")
		return nil, false
	}
	p := &ProvinceDefinition{ID: id, Color: color, Water: water}
	if !m.reg.Add(p) {
		m.onError("geo: province " + id + " could not be added (duplicate identifier or locked registry)")
		return nil, false
	}
	m.byColor[packed] = p
	return p, true
}

// Lock freezes the registry; indices are stable from this point on and
// every province's Index field is populated.
func (m *ProvinceManager) Lock() {
	m.reg.Lock()
	for i, p := range m.reg.Items() {
		p.Index = i + 1
	}
}

// Locked reports whether the manager has been locked.
func (m *ProvinceManager) Locked() bool { return m.reg.Locked() }

// ByIdentifier looks up a province by its identifier.
func (m *ProvinceManager) ByIdentifier(id string) (*ProvinceDefinition, bool) {
	return m.reg.ByIdentifier(id)
}

// ByIndex looks up a province by its stable 1-based index.
func (m *ProvinceManager) ByIndex(idx int) (*ProvinceDefinition, bool) {
	return m.reg.ByIndex(idx)
}

// ByColor looks up a province by its RGB colour.
func (m *ProvinceManager) ByColor(c colorutil.Color) (*ProvinceDefinition, bool) {
	p, ok := m.byColor[colorutil.PackRGB(c)]
	return p, ok
}

// Items returns every registered province in insertion order.
func (m *ProvinceManager) Items() []*ProvinceDefinition {
	return m.reg.Items()
}

// Len returns the number of registered provinces.
func (m *ProvinceManager) Len() int {
	return m.reg.Len()
}
