package geo

import (
	"fmt"

	"openvic.dev/simcore/internal/colorutil"
	"openvic.dev/simcore/internal/registry"
)

// Region is a named group of provinces, drawn on the map in Colour
// (spec.md §3). A region is "meta" if any of its member provinces
// already belongs to another, earlier-registered, non-meta region; a
// meta region never claims the province's back-pointer, so a province's
// Region field always points at the first (innermost) grouping it was
// added to.
type Region struct {
	ID        string
	Colour    colorutil.Color
	Meta      bool
	Provinces []*ProvinceDefinition
}

// Identifier satisfies registry.Identified.
func (r *Region) Identifier() string { return r.ID }

// RegionManager owns every Region (spec.md §4.3).
type RegionManager struct {
	reg       *registry.Registry[*Region]
	onWarning func(string)
	onError   func(string)
}

// NewRegionManager builds an empty, unlocked manager.
func NewRegionManager(onError, onWarning func(string)) *RegionManager {
	if onError == nil {
		onError = func(string) {}
	}
	if onWarning == nil {
		onWarning = func(string) {}
	}
	return &RegionManager{
		reg:       registry.New[*Region]("regions", 0),
		onWarning: onWarning,
		onError:   onError,
	}
}

// AddRegion registers a region. It is meta iff any listed province already
// carries a Region back-pointer from an earlier non-meta region; a region
// with an empty province list is skipped with a warning, not an error.
func (m *RegionManager) AddRegion(id string, colour colorutil.Color, provinces []*ProvinceDefinition) (*Region, bool) {
	if id == "" {
		m.onError("geo: region identifier is empty")
		return nil, false
	}
	if len(provinces) == 0 {
		m.onWarning("geo: no valid provinces in list for region " + id)
		return nil, true
	}

	meta := false
	for _, p := range provinces {
		if p.Region != nil {
			meta = true
			break
		}
	}

	r := &Region{ID: id, Colour: colour, Meta: meta, Provinces: append([]*ProvinceDefinition(nil), provinces...)}
	if !m.reg.Add(r) {
		m.onError(fmt.Sprintf("geo: region %s could not be added (duplicate identifier or locked registry)", id))
		return nil, false
	}
	if !meta {
		for _, p := range provinces {
			p.Region = r
		}
	}
	return r, true
}

// Lock freezes the registry.
func (m *RegionManager) Lock() { m.reg.Lock() }

// Locked reports whether the manager has been locked.
func (m *RegionManager) Locked() bool { return m.reg.Locked() }

// ByIdentifier looks up a region by its identifier.
func (m *RegionManager) ByIdentifier(id string) (*Region, bool) { return m.reg.ByIdentifier(id) }

// Items returns every registered region in insertion order.
func (m *RegionManager) Items() []*Region { return m.reg.Items() }

// Len returns the number of registered regions.
func (m *RegionManager) Len() int { return m.reg.Len() }
