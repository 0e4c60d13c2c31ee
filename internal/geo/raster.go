package geo

import (
	"openvic.dev/simcore/internal/colorutil"
	"openvic.dev/simcore/internal/fixed"
)

// PixelInfo is the per-pixel result of raster import: which province a
// pixel belongs to and which terrain variant it carries.
type PixelInfo struct {
	ProvinceIndex int // 0 if unrecognised
	TerrainIndex  byte
}

// RasterResult is the full output of ImportRaster (spec.md §4.3).
type RasterResult struct {
	Width, Height int
	PerPixel      []PixelInfo

	// UnrecognizedColors lists every province-bitmap colour that did not
	// resolve to a registered province, each reported exactly once.
	UnrecognizedColors []colorutil.Color

	// OffMap lists every registered province with zero pixels.
	OffMap []*ProvinceDefinition
}

type histogram map[byte]int

// ImportRaster consumes a province-colour bitmap and a terrain-index
// bitmap of equal dimensions (both already decoded into memory by the
// data-loader front-end; the core never touches file I/O, spec.md §6) and
// computes, per pixel, a (province_index, terrain_variant) pair, and per
// province, pixel count, centroid, and dominant terrain type.
func ImportRaster(width, height int, provincePixels []uint32, terrainPixels []byte, provinces *ProvinceManager) RasterResult {
	n := width * height
	result := RasterResult{Width: width, Height: height, PerPixel: make([]PixelInfo, n)}

	pixelCount := map[int]int{}
	sumX := map[int]int64{}
	sumY := map[int]int64{}
	terrainHist := map[int]histogram{}
	seenUnrecognized := map[uint32]bool{}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if i >= len(provincePixels) || i >= len(terrainPixels) {
				continue
			}
			packed := provincePixels[i]
			color := colorutil.UnpackRGB(packed)
			terrain := terrainPixels[i]

			province, ok := provinces.ByColor(color)
			if !ok {
				if !color.IsNull() && !seenUnrecognized[packed] {
					seenUnrecognized[packed] = true
					result.UnrecognizedColors = append(result.UnrecognizedColors, color)
				}
				result.PerPixel[i] = PixelInfo{ProvinceIndex: 0, TerrainIndex: terrain}
				continue
			}

			idx := province.Index
			result.PerPixel[i] = PixelInfo{ProvinceIndex: idx, TerrainIndex: terrain}
			pixelCount[idx]++
			sumX[idx] += int64(x)
			sumY[idx] += int64(y)
			if terrainHist[idx] == nil {
				terrainHist[idx] = histogram{}
			}
			terrainHist[idx][terrain]++
		}
	}

	for _, p := range provinces.Items() {
		count := pixelCount[p.Index]
		p.PixelCount = count
		if count == 0 {
			p.OffMap = true
			result.OffMap = append(result.OffMap, p)
			continue
		}
		p.OffMap = false
		p.Centroid = Position{
			X: fixed.Div(fixed.FromInt(sumX[p.Index]), fixed.FromInt(int64(count))),
			Y: fixed.Div(fixed.FromInt(sumY[p.Index]), fixed.FromInt(int64(count))),
		}
		p.DominantTerrain = dominantTerrain(terrainHist[p.Index])
	}

	return result
}

func dominantTerrain(h histogram) byte {
	var best byte
	bestCount := -1
	for t, c := range h {
		if c > bestCount || (c == bestCount && t < best) {
			best = t
			bestCount = c
		}
	}
	return best
}

// GenerateStandardAdjacencies scans every 4-neighbour pixel pair in
// different provinces and ensures a symmetric adjacency edge exists
// between them (spec.md §4.3). The world wraps in x (a cylinder) but not
// in y. Distance is the fixed-point Euclidean distance between the two
// provinces' centroids, using the minimum of the three x-deltas the
// wraparound produces.
func GenerateStandardAdjacencies(width, height int, perPixel []PixelInfo, provinces *ProvinceManager) {
	seen := map[[2]int]bool{}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			a := perPixel[i].ProvinceIndex
			if a == 0 {
				continue
			}
			// Right neighbour, wrapping in x.
			nx := (x + 1) % width
			considerNeighbor(a, perPixel[y*width+nx].ProvinceIndex, seen, provinces)
			// Down neighbour, no wrap in y.
			if y+1 < height {
				considerNeighbor(a, perPixel[(y+1)*width+x].ProvinceIndex, seen, provinces)
			}
		}
	}

	// Distances are computed once per unique pair after every standard
	// edge has been discovered, so the (unordered) province set producing
	// them is stable regardless of scan order.
	for _, p := range provinces.Items() {
		for _, adj := range p.Adjacent {
			if adj.Distance != 0 {
				continue
			}
			adj.Distance = wraparoundDistance(p, adj.To, width)
		}
	}
}

func considerNeighbor(a, b int, seen map[[2]int]bool, provinces *ProvinceManager) {
	if b == 0 || a == b {
		return
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	key := [2]int{lo, hi}
	if seen[key] {
		return
	}
	seen[key] = true

	pa, _ := provinces.ByIndex(a)
	pb, _ := provinces.ByIndex(b)
	if pa == nil || pb == nil {
		return
	}

	var typ AdjacencyType
	switch {
	case !pa.Water && !pb.Water:
		typ = Land
	case pa.Water && pb.Water:
		typ = Water
	default:
		typ = Coastal
		pa.Coastal = true
		pb.Coastal = true
	}
	addSymmetric(pa, pb, typ, 0, nil, 0)
}

func wraparoundDistance(a, b *ProvinceDefinition, width int) fixed.Fixed {
	dx := fixed.Sub(a.Centroid.X, b.Centroid.X).Abs()
	w := fixed.FromInt(int64(width))
	candidates := []fixed.Fixed{dx, fixed.Sub(dx, w).Abs(), fixed.Add(dx, w).Abs()}
	minDx := candidates[0]
	for _, c := range candidates[1:] {
		if c < minDx {
			minDx = c
		}
	}
	dy := fixed.Sub(a.Centroid.Y, b.Centroid.Y).Abs()
	sq := fixed.Add(fixed.Mul(minDx, minDx), fixed.Mul(dy, dy))
	return sq.Sqrt()
}
