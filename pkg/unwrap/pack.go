package unwrap

import (
	"math"
	"sort"

	"github.com/matzehuels/uvwrap/pkg/mesh"
)

// islandBox is one island's axis-aligned UV bounding box prepared for
// packing.
type islandBox struct {
	id     int
	minU   float64
	minV   float64
	width  float64
	height float64
}

// PackIslands arranges the per-island UV maps into a shared atlas using
// shelf packing: islands sorted by height descending are placed left to
// right on horizontal shelves, opening a new shelf when the current row
// overflows the bin width. The bin width is estimated as the square root of
// the total margin-padded island area, which keeps the atlas roughly square.
//
// Each island's UVs are translated so its bounding-box minimum lands at its
// shelf position, then the whole atlas is rescaled uniformly into [0,1]².
// The uniform atlas scale is returned so callers can report effective island
// sizes. With one island or fewer the layout is already final and no work is
// done (returned scale 1).
func PackIslands(islandUVs []map[int]mesh.Vec2, margin float64) float64 {
	if len(islandUVs) <= 1 {
		return 1
	}

	boxes := make([]islandBox, 0, len(islandUVs))
	totalArea := 0.0
	for id, uvs := range islandUVs {
		if len(uvs) == 0 {
			continue
		}
		box := boundingBox(uvs)
		box.id = id
		boxes = append(boxes, box)
		totalArea += (box.width + margin) * (box.height + margin)
	}
	if len(boxes) <= 1 {
		return 1
	}

	binWidth := math.Sqrt(totalArea)

	// Tallest first; ties broken by island id so the layout is stable.
	sort.SliceStable(boxes, func(i, j int) bool {
		if boxes[i].height != boxes[j].height {
			return boxes[i].height > boxes[j].height
		}
		return boxes[i].id < boxes[j].id
	})

	var cursorU, cursorV, shelfHeight float64
	maxU, maxV := 0.0, 0.0
	for _, box := range boxes {
		if cursorU+box.width > binWidth && cursorU > 0 {
			cursorV += shelfHeight
			cursorU = 0
			shelfHeight = 0
		}

		offsetU := cursorU - box.minU
		offsetV := cursorV - box.minV
		uvs := islandUVs[box.id]
		for v, uv := range uvs {
			uvs[v] = mesh.Vec2{X: uv.X + offsetU, Y: uv.Y + offsetV}
		}

		cursorU += box.width + margin
		if h := box.height + margin; h > shelfHeight {
			shelfHeight = h
		}
		maxU = math.Max(maxU, cursorU)
		maxV = math.Max(maxV, cursorV+box.height)
	}

	extent := math.Max(maxU, maxV)
	if extent <= 0 {
		return 1
	}
	scale := 1 / extent
	for _, uvs := range islandUVs {
		for v, uv := range uvs {
			uvs[v] = mesh.Vec2{X: uv.X * scale, Y: uv.Y * scale}
		}
	}
	return scale
}

func boundingBox(uvs map[int]mesh.Vec2) islandBox {
	minU, maxU := math.Inf(1), math.Inf(-1)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, uv := range uvs {
		minU, maxU = math.Min(minU, uv.X), math.Max(maxU, uv.X)
		minV, maxV = math.Min(minV, uv.Y), math.Max(maxV, uv.Y)
	}
	return islandBox{minU: minU, minV: minV, width: maxU - minU, height: maxV - minV}
}
