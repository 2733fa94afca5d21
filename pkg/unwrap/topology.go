package unwrap

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uvwrap/pkg/mesh"
)

// noFace marks an absent adjacent face on an edge.
const noFace = -1

// Topology is the unique-edge adjacency structure of a mesh. Edges are stored
// in first-seen order with canonical (min,max) vertex keys, so two builds
// over the same mesh enumerate identically.
//
// A Topology is scoped to a single unwrap invocation; nothing in it outlives
// the call that built it.
type Topology struct {
	// Edges holds the canonical (min,max) vertex pair of each unique edge.
	Edges [][2]int

	// EdgeFaces holds up to two adjacent face indices per edge, aligned with
	// Edges. The second entry is noFace for boundary edges. A third face
	// sharing an edge is non-manifold: it is logged and dropped, never
	// recorded.
	EdgeFaces [][2]int

	// Skipped lists faces dropped during accumulation because of
	// out-of-range or repeated vertex indices. Downstream stages exclude
	// them from parameterization.
	Skipped []int

	edgeIndex   map[[2]int]int
	vertexEdges [][]int
}

// BuildTopology derives the edge-adjacency structure of m. It never fails:
// malformed triangles are skipped with a warning and non-manifold edges are
// dropped after their first two faces. The Euler characteristic V-E+F is
// logged afterwards; χ=2 is expected for closed genus-0 meshes, deviation is
// informational only.
func BuildTopology(m *mesh.Mesh, logger *log.Logger) *Topology {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	topo := &Topology{
		edgeIndex:   make(map[[2]int]int),
		vertexEdges: make([][]int, m.NumVertices()),
	}

	numVerts := m.NumVertices()
	for f, tri := range m.Triangles {
		if bad, v := malformedTriangle(tri, numVerts); bad {
			logger.Warnf("skipping triangle %d: invalid vertex index %d", f, v)
			topo.Skipped = append(topo.Skipped, f)
			continue
		}

		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			key := edgeKey(a, b)
			idx, ok := topo.edgeIndex[key]
			if !ok {
				idx = len(topo.Edges)
				topo.edgeIndex[key] = idx
				topo.Edges = append(topo.Edges, key)
				topo.EdgeFaces = append(topo.EdgeFaces, [2]int{f, noFace})
				topo.vertexEdges[key[0]] = append(topo.vertexEdges[key[0]], idx)
				topo.vertexEdges[key[1]] = append(topo.vertexEdges[key[1]], idx)
				continue
			}
			switch {
			case topo.EdgeFaces[idx][1] == noFace:
				topo.EdgeFaces[idx][1] = f
			default:
				// Two faces already recorded; later faces never overwrite.
				logger.Warnf("non-manifold edge (%d,%d): face %d dropped (already has faces %d and %d)",
					key[0], key[1], f, topo.EdgeFaces[idx][0], topo.EdgeFaces[idx][1])
			}
		}
	}

	logger.Debugf("topology: V=%d E=%d F=%d χ=%d",
		m.NumVertices(), topo.NumEdges(), m.NumTriangles(), topo.EulerCharacteristic(m))

	return topo
}

// NumEdges returns the unique edge count.
func (t *Topology) NumEdges() int { return len(t.Edges) }

// EdgeIndex returns the index of the edge between vertices a and b, in either
// order, and whether it exists.
func (t *Topology) EdgeIndex(a, b int) (int, bool) {
	idx, ok := t.edgeIndex[edgeKey(a, b)]
	return idx, ok
}

// VertexEdges returns the indices of all edges incident to vertex v, in edge
// discovery order. The returned slice is shared; callers must not mutate it.
func (t *Topology) VertexEdges(v int) []int {
	if v < 0 || v >= len(t.vertexEdges) {
		return nil
	}
	return t.vertexEdges[v]
}

// IsBoundary reports whether edge e has only one adjacent face.
func (t *Topology) IsBoundary(e int) bool {
	return t.EdgeFaces[e][1] == noFace
}

// EulerCharacteristic returns V - E + F for the mesh the topology was built
// from. Closed genus-0 meshes yield 2; open meshes and meshes with holes
// differ, which is informational, never an error.
func (t *Topology) EulerCharacteristic(m *mesh.Mesh) int {
	return m.NumVertices() - t.NumEdges() + m.NumTriangles()
}

// malformedTriangle reports whether tri references an out-of-range vertex or
// repeats a vertex (degenerate). On failure it also returns the offending
// index.
func malformedTriangle(tri [3]int, numVerts int) (bool, int) {
	for _, v := range tri {
		if v < 0 || v >= numVerts {
			return true, v
		}
	}
	if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
		return true, tri[0]
	}
	return false, 0
}

// edgeKey returns the canonical (min,max) form of an undirected edge.
func edgeKey(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}
