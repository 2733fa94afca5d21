package pipeline

import (
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/matzehuels/uvwrap/pkg/cache"
	"github.com/matzehuels/uvwrap/pkg/errors"
	"github.com/matzehuels/uvwrap/pkg/mesh"
	"github.com/matzehuels/uvwrap/pkg/unwrap"
)

// resultKey derives the cache key from mesh content and the options that
// influence the UVs.
func resultKey(m *mesh.Mesh, opts Options) string {
	return cache.UnwrapKey(vertexBytes(m), triangleBytes(m), opts.cacheParams())
}

// vertexBytes encodes vertex positions as little-endian float64 triples,
// a canonical byte form for hashing.
func vertexBytes(m *mesh.Mesh) []byte {
	buf := make([]byte, 0, len(m.Vertices)*24)
	for _, v := range m.Vertices {
		for _, f := range [3]float64{v.X, v.Y, v.Z} {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
		}
	}
	return buf
}

// triangleBytes encodes triangle indices as little-endian uint32 triples.
func triangleBytes(m *mesh.Mesh) []byte {
	buf := make([]byte, 0, len(m.Triangles)*12)
	for _, tri := range m.Triangles {
		for _, idx := range tri {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(idx))
		}
	}
	return buf
}

// cachedResult is the JSON shape stored in the cache: everything needed to
// rebuild a Result against the original mesh without re-solving.
type cachedResult struct {
	UVs         []mesh.Vec2 `json:"uvs"`
	NumIslands  int         `json:"num_islands"`
	FaceIslands []int       `json:"face_islands"`
	NumSeams    int         `json:"num_seams"`
	AvgStretch  float64     `json:"avg_stretch"`
	MaxStretch  float64     `json:"max_stretch"`
	Coverage    float64     `json:"coverage"`
	Metrics     Metrics     `json:"metrics"`
}

func encodeResult(r *Result) ([]byte, error) {
	return json.Marshal(cachedResult{
		UVs:         r.Mesh.UVs,
		NumIslands:  r.Unwrap.NumIslands,
		FaceIslands: r.Unwrap.FaceIslands,
		NumSeams:    r.Unwrap.NumSeams,
		AvgStretch:  r.Unwrap.AvgStretch,
		MaxStretch:  r.Unwrap.MaxStretch,
		Coverage:    r.Unwrap.Coverage,
		Metrics:     r.Metrics,
	})
}

// decodeResult rebuilds a Result from a cache entry, validating that the
// entry actually belongs to this mesh.
func decodeResult(m *mesh.Mesh, data []byte) (*Result, error) {
	var c cachedResult
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if len(c.UVs) != m.NumVertices() || len(c.FaceIslands) != m.NumTriangles() {
		return nil, errors.New(errors.ErrCodeInternal,
			"cache entry shape mismatch: %d uvs for %d vertices", len(c.UVs), m.NumVertices())
	}

	out := m.Clone()
	copy(out.UVs, c.UVs)
	return &Result{
		Mesh: out,
		Unwrap: &unwrap.Result{
			NumIslands:  c.NumIslands,
			FaceIslands: c.FaceIslands,
			NumSeams:    c.NumSeams,
			AvgStretch:  c.AvgStretch,
			MaxStretch:  c.MaxStretch,
			Coverage:    c.Coverage,
		},
		Metrics: c.Metrics,
	}, nil
}
