package unwrap

import (
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uvwrap/pkg/mesh"
)

// seamSharpnessCutoff is the fixed sharpness above which a spanning-tree
// candidate becomes a seam. The AngleThreshold parameter is accepted through
// the public API but does not currently feed this cutoff; see Params.
const seamSharpnessCutoff = 0.5

// defectThreshold is the angular defect (radians) above which a vertex is
// considered a sharp corner and its incident non-tree edges are promoted to
// seams.
const defectThreshold = 0.5

// DetectSeams chooses the set of cut edges for a mesh. The returned edge
// indices (into topo.Edges) are sorted ascending and deterministic for a
// given mesh.
//
// The algorithm grows a breadth-first spanning tree over the face dual graph,
// visiting each face's flattest neighbors first, so sharp features fall out
// of the tree and become cut candidates. Candidates sharper than the fixed
// cutoff are retained; if that filter removes everything (closed smooth
// surfaces like a sphere) the single sharpest candidate is forced, because a
// closed 2-manifold cannot be flattened without at least one cut. Finally,
// vertices with angular defect above defectThreshold promote all their
// incident non-tree interior edges, which captures sharp corners whose
// adjacent faces are only moderately sharp pairwise.
//
// An empty result is possible only when there are no candidates at all
// (isolated faces, zero edges).
func DetectSeams(m *mesh.Mesh, topo *Topology, logger *log.Logger) []int {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	numFaces := m.NumTriangles()
	numEdges := topo.NumEdges()
	if numFaces == 0 || numEdges == 0 {
		return nil
	}

	// Unit face normals, computed once. Malformed faces never made it into
	// the topology, so their zero normals are never read.
	normals := make([]mesh.Vec3, numFaces)
	for f, tri := range m.Triangles {
		if bad, _ := malformedTriangle(tri, m.NumVertices()); bad {
			continue
		}
		normals[f] = m.FaceNormal(f)
	}

	// Edge sharpness: 1 - dot(n0, n1) for interior edges. 0 means coplanar,
	// ≈1 perpendicular, up to 2 folded back. Boundary edges stay at 0.
	sharpness := make([]float64, numEdges)
	for e, faces := range topo.EdgeFaces {
		f0, f1 := faces[0], faces[1]
		if f0 != noFace && f1 != noFace {
			sharpness[e] = 1 - normals[f0].Dot(normals[f1])
		}
	}

	// Dual graph: one node per face, one edge per interior mesh edge.
	type dualEdge struct {
		edge, face int
	}
	adj := make([][]dualEdge, numFaces)
	for e, faces := range topo.EdgeFaces {
		f0, f1 := faces[0], faces[1]
		if f0 == noFace || f1 == noFace {
			continue
		}
		adj[f0] = append(adj[f0], dualEdge{e, f1})
		adj[f1] = append(adj[f1], dualEdge{e, f0})
	}

	// Flat neighbors first biases the tree to grow across smooth regions,
	// leaving sharp edges outside the tree. Ties break on edge index so the
	// traversal is deterministic.
	for f := range adj {
		sort.SliceStable(adj[f], func(i, j int) bool {
			si, sj := sharpness[adj[f][i].edge], sharpness[adj[f][j].edge]
			if si != sj {
				return si < sj
			}
			return adj[f][i].edge < adj[f][j].edge
		})
	}

	// BFS spanning tree from face 0.
	visited := make([]bool, numFaces)
	inTree := make([]bool, numEdges)
	queue := []int{0}
	visited[0] = true
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for _, d := range adj[f] {
			if !visited[d.face] {
				visited[d.face] = true
				inTree[d.edge] = true
				queue = append(queue, d.face)
			}
		}
	}

	// Candidates: interior edges the tree did not use.
	var candidates []int
	for e, faces := range topo.EdgeFaces {
		if faces[0] == noFace || faces[1] == noFace {
			continue
		}
		if !inTree[e] {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	isCandidate := make([]bool, numEdges)
	for _, e := range candidates {
		isCandidate[e] = true
	}

	seams := map[int]bool{}
	for _, e := range candidates {
		if sharpness[e] > seamSharpnessCutoff {
			seams[e] = true
		}
	}

	// A closed smooth surface has no sharp candidate, but zero seams is not
	// acceptable when candidates exist: force the sharpest one.
	if len(seams) == 0 {
		best := candidates[0]
		for _, e := range candidates[1:] {
			if sharpness[e] > sharpness[best] {
				best = e
			}
		}
		logger.Debugf("no candidate above sharpness cutoff, forcing edge %d (sharpness %.3f)",
			best, sharpness[best])
		seams[best] = true
	}

	// Angular defect refinement: sharp corners promote their incident
	// non-tree interior edges.
	defects := angularDefects(m)
	for v, defect := range defects {
		if defect <= defectThreshold {
			continue
		}
		for _, e := range topo.VertexEdges(v) {
			if isCandidate[e] {
				seams[e] = true
			}
		}
	}

	out := make([]int, 0, len(seams))
	for e := range seams {
		out = append(out, e)
	}
	sort.Ints(out)

	logger.Debugf("detected %d seams from %d candidates", len(out), len(candidates))
	return out
}

// angularDefects returns 2π minus the sum of incident-triangle angles at each
// vertex, a discrete curvature measure. Flat interior vertices sit near 0,
// convex corners above 0, saddles below.
func angularDefects(m *mesh.Mesh) []float64 {
	defects := make([]float64, m.NumVertices())
	for i := range defects {
		defects[i] = 2 * math.Pi
	}
	for f, tri := range m.Triangles {
		if bad, _ := malformedTriangle(tri, len(defects)); bad {
			continue
		}
		for _, v := range tri {
			defects[v] -= m.CornerAngle(f, v)
		}
	}
	return defects
}
