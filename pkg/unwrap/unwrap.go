package unwrap

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uvwrap/pkg/errors"
	"github.com/matzehuels/uvwrap/pkg/mesh"
	"github.com/matzehuels/uvwrap/pkg/observability"
)

// Params controls a full unwrap run. The zero value is not usable; start
// from DefaultParams.
type Params struct {
	// AngleThreshold is the crease angle in degrees above which an edge is
	// considered a candidate seam. Accepted for forward compatibility; the
	// current detector works from a fixed normal-deviation cutoff.
	AngleThreshold float64

	// MinIslandFaces skips parameterization for islands with fewer faces,
	// leaving their vertices at default UVs.
	MinIslandFaces int

	// PackIslands arranges all islands into one shared atlas. When false,
	// every island independently spans [0,1]².
	PackIslands bool

	// IslandMargin is the packing gap between islands in pre-scale UV units.
	IslandMargin float64

	// Workers bounds concurrent island solves. Zero means GOMAXPROCS.
	Workers int

	// Logger receives stage diagnostics. Nil discards them.
	Logger *log.Logger
}

// DefaultParams returns the parameter set used when the caller has no
// opinion: pack into one atlas with a 1% margin, solve every island.
func DefaultParams() Params {
	return Params{
		AngleThreshold: 30,
		MinIslandFaces: 1,
		PackIslands:    true,
		IslandMargin:   0.01,
	}
}

// Result reports what an unwrap run produced beyond the UVs themselves.
type Result struct {
	// NumIslands is the number of UV islands the mesh was cut into.
	NumIslands int

	// FaceIslands maps each face index to its island id (0-based, dense).
	FaceIslands []int

	// NumSeams is the number of edges cut by the seam detector.
	NumSeams int

	// AvgStretch and MaxStretch summarize per-face geometric stretch over
	// faces with valid UVs; 1.0 is distortion-free.
	AvgStretch float64
	MaxStretch float64

	// Coverage is the fraction of the unit square occupied by UV area,
	// clamped to [0,1].
	Coverage float64
}

// Unwrap computes UV coordinates for every vertex of m and returns a copy of
// the mesh with UVs populated, leaving the input untouched.
//
// The pipeline is: topology build, seam detection, island extraction, one
// conformal solve per island, then atlas packing. Islands that fail to solve
// (degenerate geometry, singular systems) are logged and left at default
// UVs; the run only fails as a whole on invalid input or a cancelled
// context. Cancellation is checked between island solves, not inside one.
func Unwrap(ctx context.Context, m *mesh.Mesh, params Params) (*mesh.Mesh, *Result, error) {
	if m == nil || m.NumVertices() == 0 || m.NumTriangles() == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidMesh, "mesh has no geometry")
	}
	if err := errors.ValidateUnwrapParams(params.AngleThreshold, params.MinIslandFaces, params.IslandMargin); err != nil {
		return nil, nil, err
	}

	logger := params.Logger

	topo := BuildTopology(m, logger)
	seams := DetectSeams(m, topo, logger)
	faceIslands, numIslands := ExtractIslands(m.NumTriangles(), topo, seams)
	if logger != nil {
		logger.Info("mesh segmented", "seams", len(seams), "islands", numIslands)
	}

	skipped := make(map[int]bool, len(topo.Skipped))
	for _, f := range topo.Skipped {
		skipped[f] = true
	}

	islandFaces := make([][]int, numIslands)
	for f, id := range faceIslands {
		if skipped[f] {
			continue
		}
		islandFaces[id] = append(islandFaces[id], f)
	}

	islandUVs := make([]map[int]mesh.Vec2, numIslands)
	parameterizeAll(ctx, m, islandFaces, islandUVs, params, logger)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	scale := 1.0
	if params.PackIslands {
		scale = PackIslands(islandUVs, params.IslandMargin)
	}

	// Write back in island-id order. A vertex split by a seam belongs to
	// several islands; the lowest island id wins so reruns agree bit for bit.
	out := m.Clone()
	assigned := make([]bool, out.NumVertices())
	for _, uvs := range islandUVs {
		if uvs == nil {
			continue
		}
		verts := make([]int, 0, len(uvs))
		for v := range uvs {
			verts = append(verts, v)
		}
		sort.Ints(verts)
		for _, v := range verts {
			if !assigned[v] {
				out.UVs[v] = uvs[v]
				assigned[v] = true
			}
		}
	}

	res := &Result{
		NumIslands:  numIslands,
		FaceIslands: faceIslands,
		NumSeams:    len(seams),
	}
	res.Coverage = coverage(out)
	res.AvgStretch, res.MaxStretch = stretchSummary(m, out)
	if logger != nil {
		logger.Info("unwrap complete",
			"coverage", res.Coverage,
			"avg_stretch", res.AvgStretch,
			"atlas_scale", scale)
	}
	return out, res, nil
}

// parameterizeAll solves each island on a bounded worker pool and fills
// islandUVs in place, indexed by island id. Islands not yet started when the
// context is cancelled are skipped.
func parameterizeAll(ctx context.Context, m *mesh.Mesh, islandFaces [][]int, islandUVs []map[int]mesh.Vec2, params Params, logger *log.Logger) {
	workers := params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(islandFaces) {
		workers = len(islandFaces)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				faces := islandFaces[id]
				if len(faces) == 0 || len(faces) < params.MinIslandFaces {
					if logger != nil {
						logger.Debug("island below face minimum, skipped", "island", id, "faces", len(faces))
					}
					continue
				}
				observability.Unwrap().OnIslandStart(ctx, id, len(faces))
				start := time.Now()
				uvs, err := ParameterizeIsland(m, faces)
				observability.Unwrap().OnIslandComplete(ctx, id, time.Since(start), err)
				if err != nil {
					if logger != nil {
						logger.Warn("island not parameterized", "island", id, "error", err)
					}
					continue
				}
				islandUVs[id] = uvs
			}
		}()
	}
	for id := range islandFaces {
		if ctx.Err() != nil {
			break
		}
		jobs <- id
	}
	close(jobs)
	wg.Wait()
}

// coverage sums per-face UV area clamped to [0,1]. Overlapping islands can
// push the raw sum past 1; the clamp keeps the metric interpretable.
// Malformed faces carry no UVs and are skipped.
func coverage(m *mesh.Mesh) float64 {
	total := 0.0
	for f, tri := range m.Triangles {
		if bad, _ := malformedTriangle(tri, m.NumVertices()); bad {
			continue
		}
		total += m.UVArea(f)
	}
	return math.Min(total, 1)
}

// stretchSummary compares each face's 3D area against its UV area and
// reports the average and worst ratio, normalized so a perfectly uniform map
// scores 1. Faces with zero area on either side are skipped, as are
// malformed faces that never entered the topology.
func stretchSummary(src, uv *mesh.Mesh) (avg, max float64) {
	var sum float64
	var count int
	var total3D, totalUV float64
	for f, tri := range src.Triangles {
		if bad, _ := malformedTriangle(tri, src.NumVertices()); bad {
			continue
		}
		total3D += src.FaceArea(f)
		totalUV += uv.UVArea(f)
	}
	if total3D <= 0 || totalUV <= 0 {
		return 0, 0
	}
	globalRatio := totalUV / total3D

	for f, tri := range src.Triangles {
		if bad, _ := malformedTriangle(tri, src.NumVertices()); bad {
			continue
		}
		a3 := src.FaceArea(f)
		a2 := uv.UVArea(f)
		if a3 <= 0 || a2 <= 0 {
			continue
		}
		r := (a2 / a3) / globalRatio
		if r < 1 {
			r = 1 / r
		}
		sum += r
		count++
		if r > max {
			max = r
		}
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), max
}
