package geo

import "openvic.dev/simcore/internal/fixed"

// AdjacencyType classifies an Adjacency edge (spec.md §3).
type AdjacencyType int

const (
	Land AdjacencyType = iota
	Water
	Coastal
	Strait
	Canal
	Impassable
)

func (t AdjacencyType) String() string {
	switch t {
	case Land:
		return "LAND"
	case Water:
		return "WATER"
	case Coastal:
		return "COASTAL"
	case Strait:
		return "STRAIT"
	case Canal:
		return "CANAL"
	case Impassable:
		return "IMPASSABLE"
	default:
		return "UNKNOWN"
	}
}

// Adjacency is one directed edge between two provinces (spec.md §3).
// Every non-null adjacency exists in both directions with matching type,
// distance, Through, and CanalData (spec.md §4.6 property 2).
type Adjacency struct {
	From, To  *ProvinceDefinition
	Type      AdjacencyType
	Distance  fixed.Fixed
	Through   *ProvinceDefinition
	CanalData byte
}

func findAdjacency(p *ProvinceDefinition, to *ProvinceDefinition) *Adjacency {
	for _, a := range p.Adjacent {
		if a.To == to {
			return a
		}
	}
	return nil
}

// insertDirected appends adj to from.Adjacent unless an edge to the same
// target already exists (asymmetric insertion is skipped when already
// present, per spec.md §4.3).
func insertDirected(from *ProvinceDefinition, adj *Adjacency) {
	if findAdjacency(from, adj.To) != nil {
		return
	}
	from.Adjacent = append(from.Adjacent, adj)
}

// removeDirected deletes any edge from `from` to `to`.
func removeDirected(from, to *ProvinceDefinition) {
	out := from.Adjacent[:0]
	for _, a := range from.Adjacent {
		if a.To != to {
			out = append(out, a)
		}
	}
	from.Adjacent = out
}

// addSymmetric inserts (from->to) and (to->from) carrying identical Type,
// Distance, Through, and CanalData, skipping either direction that
// already has an edge to the same target (spec.md §4.3).
func addSymmetric(from, to *ProvinceDefinition, typ AdjacencyType, distance fixed.Fixed, through *ProvinceDefinition, canalData byte) {
	insertDirected(from, &Adjacency{From: from, To: to, Type: typ, Distance: distance, Through: through, CanalData: canalData})
	insertDirected(to, &Adjacency{From: to, To: from, Type: typ, Distance: distance, Through: through, CanalData: canalData})
}

// replaceSymmetric overwrites any existing edge between from/to (either
// direction) with a new symmetric edge of the given type.
func replaceSymmetric(from, to *ProvinceDefinition, typ AdjacencyType, distance fixed.Fixed, through *ProvinceDefinition, canalData byte) {
	removeDirected(from, to)
	removeDirected(to, from)
	addSymmetric(from, to, typ, distance, through, canalData)
}

// AddSpecialAdjacency validates and inserts a tabular special-adjacency
// entry (spec.md §4.3). It returns false (a fatal setup error) if the
// entry is invalid for its type, or if it conflicts with an existing
// adjacency in a way spec.md does not permit auto-resolving.
func (m *ProvinceManager) AddSpecialAdjacency(from, to *ProvinceDefinition, typ AdjacencyType, through *ProvinceDefinition, canalData byte) bool {
	if from == nil || to == nil {
		m.onError("geo: special adjacency references a nil province")
		return false
	}
	switch typ {
	case Land, Strait:
		if from.Water || to.Water {
			m.onError("geo: " + typ.String() + " adjacency requires both endpoints to be land")
			return false
		}
		if typ == Strait && (through == nil || !through.Water) {
			m.onError("geo: STRAIT adjacency requires a water `through` province")
			return false
		}
	case Water, Canal:
		if !from.Water || !to.Water {
			m.onError("geo: " + typ.String() + " adjacency requires both endpoints to be water")
			return false
		}
		if typ == Canal && (through == nil || through.Water) {
			m.onError("geo: CANAL adjacency requires a land `through` province")
			return false
		}
	case Coastal:
		if from.Water == to.Water {
			m.onError("geo: COASTAL adjacency requires endpoints of different land/water class")
			return false
		}
	case Impassable:
		// Any endpoints are permitted.
	default:
		m.onError("geo: unknown adjacency type")
		return false
	}

	existing := findAdjacency(from, to)
	if existing != nil && existing.Type == typ && typ != Strait && typ != Canal {
		// STRAIT and CANAL duplicates still fall through below, since a
		// second entry of the same type may carry updated Through/CanalData.
		m.onWarning("geo: duplicate " + typ.String() + " adjacency between " + from.ID + " and " + to.ID + ", ignoring")
		return true
	}
	if existing != nil {
		if typ == Impassable {
			switch existing.Type {
			case Water, Coastal:
				// An impassable barrier removes a water-side edge outright
				// rather than replacing it (spec.md §4.3).
				removeDirected(from, to)
				removeDirected(to, from)
			default:
				replaceSymmetric(from, to, Impassable, existing.Distance, nil, 0)
			}
			return true
		}
		if typ != Strait && typ != Canal {
			m.onError("geo: conflicting adjacency between " + from.ID + " and " + to.ID + ": existing " + existing.Type.String() + ", requested " + typ.String())
			return false
		}
		requiredExisting := Land
		if typ == Canal {
			requiredExisting = Water
		}
		if typ != existing.Type && existing.Type != requiredExisting {
			m.onError("geo: cannot convert " + existing.Type.String() + " adjacency between " + from.ID + " and " + to.ID + " to " + typ.String())
			return false
		}
		replaceSymmetric(from, to, typ, existing.Distance, through, canalData)
		return true
	}

	if typ == Impassable {
		// No existing adjacency to make impassable: a no-op, not a new
		// barrier edge (spec.md §4.3; Map.cpp's add_adjacency lambda).
		m.onWarning("geo: provinces " + from.ID + " and " + to.ID + " do not have an existing adjacency to make impassable")
		return true
	}

	distance := fixed.Zero
	addSymmetric(from, to, typ, distance, through, canalData)
	return true
}
