package unwrap

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/uvwrap/pkg/errors"
	"github.com/matzehuels/uvwrap/pkg/mesh"
)

// degenerateAreaEps is the signed-area magnitude below which a triangle
// contributes nothing to the conformal energy.
const degenerateAreaEps = 1e-10

// ParameterizeIsland flattens one island (the given face list of m) into 2D
// texture coordinates by minimizing the least-squares conformal (LSCM)
// energy, then normalizes the result into [0,1]².
//
// The returned map carries one UV per global vertex index touched by the
// island. Errors are scoped to the island: a caller is expected to leave the
// island's vertices at their default UVs and continue with other islands.
//
//   - DEGENERATE_ISLAND: fewer than 3 distinct vertices
//   - SOLVE_FAILED: the assembled system could not be factorized or solved
func ParameterizeIsland(m *mesh.Mesh, faces []int) (map[int]mesh.Vec2, error) {
	// Local reindexing in first-seen order over the supplied face list.
	globalToLocal := make(map[int]int)
	var localToGlobal []int
	for _, f := range faces {
		for _, g := range m.Triangles[f] {
			if _, ok := globalToLocal[g]; !ok {
				globalToLocal[g] = len(localToGlobal)
				localToGlobal = append(localToGlobal, g)
			}
		}
	}

	n := len(localToGlobal)
	if n < 3 {
		return nil, errors.New(errors.ErrCodeDegenerateIsland, "island resolves to %d distinct vertices, need 3", n)
	}

	// Conformal energy over unknowns interleaved as (u0,v0,u1,v1,...).
	a := mat.NewDense(2*n, 2*n, nil)
	add := func(r, c int, v float64) { a.Set(r, c, a.At(r, c)+v) }
	constrained := make([]bool, n)

	for _, f := range faces {
		tri := m.Triangles[f]
		l0, l1, l2 := globalToLocal[tri[0]], globalToLocal[tri[1]], globalToLocal[tri[2]]
		p0, p1, p2 := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]

		// Project the triangle onto a 2D basis in its own plane: first edge
		// as the u-axis, normal × u-axis as the v-axis.
		e1, e2 := p1.Sub(p0), p2.Sub(p0)
		normal := e1.Cross(e2).Normalize()
		uAxis := e1.Normalize()
		vAxis := normal.Cross(uAxis)

		q := [3]mesh.Vec2{
			{X: 0, Y: 0},
			{X: e1.Dot(uAxis), Y: e1.Dot(vAxis)},
			{X: e2.Dot(uAxis), Y: e2.Dot(vAxis)},
		}

		area := 0.5 * math.Abs(q[1].X*q[2].Y-q[1].Y*q[2].X)
		if area < degenerateAreaEps {
			continue
		}

		// One term per directed edge penalizes deviation from the discrete
		// Cauchy–Riemann relation, weighted by triangle area.
		locals := [3]int{l0, l1, l2}
		constrained[l0], constrained[l1], constrained[l2] = true, true, true
		for e := 0; e < 3; e++ {
			src, dst := locals[e], locals[(e+1)%3]
			d := q[(e+1)%3].Sub(q[e])

			add(2*src, 2*dst, area*d.X)
			add(2*src, 2*dst+1, area*d.Y)
			add(2*src+1, 2*dst, area*d.Y)
			add(2*src+1, 2*dst+1, -area*d.X)

			add(2*src, 2*src, -area*d.X)
			add(2*src, 2*src+1, -area*d.Y)
			add(2*src+1, 2*src, -area*d.Y)
			add(2*src+1, 2*src+1, area*d.X)
		}
	}

	// Vertices touched only by zero-area triangles accumulate no energy and
	// would leave the system singular; anchor them at the origin instead.
	for i, ok := range constrained {
		if !ok {
			a.Set(2*i, 2*i, 1)
			a.Set(2*i+1, 2*i+1, 1)
		}
	}

	// Pin two vertices to remove the similarity-transform null space: the
	// farthest-apart pair of boundary vertices when the island has a
	// boundary, locals 0 and 1 otherwise (closed island).
	pin1, pin2 := choosePins(m, faces, globalToLocal)

	b := mat.NewVecDense(2*n, nil)
	pinned := [4]int{2 * pin1, 2*pin1 + 1, 2 * pin2, 2*pin2 + 1}
	targets := [4]float64{0, 0, 1, 0} // pin1 → (0,0), pin2 → (1,0)
	for i, r := range pinned {
		for c := 0; c < 2*n; c++ {
			a.Set(r, c, 0)
		}
		a.Set(r, r, 1)
		b.SetVec(r, targets[i])
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		// An ill-conditioned system still yields a usable solution;
		// anything else fails this island only.
		if _, ok := err.(mat.Condition); !ok {
			return nil, errors.Wrap(errors.ErrCodeSolveFailed, err, "island system of %d unknowns", 2*n)
		}
	}

	uvs := make([]mesh.Vec2, n)
	for i := 0; i < n; i++ {
		uvs[i] = mesh.Vec2{X: x.AtVec(2 * i), Y: x.AtVec(2*i + 1)}
	}
	NormalizeUnitSquare(uvs)

	out := make(map[int]mesh.Vec2, n)
	for i, g := range localToGlobal {
		out[g] = uvs[i]
	}
	return out, nil
}

// elongatedAspect is the bounding-box aspect ratio beyond which an island is
// normalized uniformly instead of stretched to fill the unit square.
const elongatedAspect = 4.0

// NormalizeUnitSquare rescales a raw LSCM solution into [0,1]² in place.
//
// Elongated islands (bounding-box aspect above elongatedAspect or below its
// reciprocal) are scaled uniformly by the larger range, preserving local
// shape fidelity (stretch near 1) at the cost of coverage, the right trade
// for strip-like islands. Everything else is scaled per axis to fill the
// square exactly, trading minor shape distortion for maximal coverage. The
// minimum corner moves to the origin in both cases.
func NormalizeUnitSquare(uvs []mesh.Vec2) {
	if len(uvs) == 0 {
		return
	}

	minU, maxU := math.Inf(1), math.Inf(-1)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, uv := range uvs {
		minU, maxU = math.Min(minU, uv.X), math.Max(maxU, uv.X)
		minV, maxV = math.Min(minV, uv.Y), math.Max(maxV, uv.Y)
	}

	uRange, vRange := maxU-minU, maxV-minV
	if uRange < 1e-6 {
		uRange = 1
	}
	if vRange < 1e-6 {
		vRange = 1
	}

	aspect := uRange / vRange
	if aspect > elongatedAspect || aspect < 1/elongatedAspect {
		scale := 1 / math.Max(uRange, vRange)
		for i := range uvs {
			uvs[i] = mesh.Vec2{X: (uvs[i].X - minU) * scale, Y: (uvs[i].Y - minV) * scale}
		}
		return
	}
	for i := range uvs {
		uvs[i] = mesh.Vec2{X: (uvs[i].X - minU) / uRange, Y: (uvs[i].Y - minV) / vRange}
	}
}

// choosePins picks the two local vertex indices to pin. Boundary vertices are
// those touching an edge used by exactly one face within the island; among
// them the pair with maximum 3D distance is chosen. Islands with fewer than
// two boundary vertices (closed islands) fall back to locals 0 and 1.
func choosePins(m *mesh.Mesh, faces []int, globalToLocal map[int]int) (int, int) {
	boundary := islandBoundaryVertices(m, faces)
	if len(boundary) < 2 {
		return 0, 1
	}

	best1, best2 := boundary[0], boundary[1]
	maxD2 := -1.0
	for i := 0; i < len(boundary); i++ {
		pi := m.Vertices[boundary[i]]
		for j := i + 1; j < len(boundary); j++ {
			d := pi.Sub(m.Vertices[boundary[j]])
			if d2 := d.Dot(d); d2 > maxD2 {
				maxD2 = d2
				best1, best2 = boundary[i], boundary[j]
			}
		}
	}
	return globalToLocal[best1], globalToLocal[best2]
}

// islandBoundaryVertices returns the global indices of vertices on the
// island's boundary, sorted ascending. An island edge is a boundary edge when
// exactly one of the island's faces uses it.
func islandBoundaryVertices(m *mesh.Mesh, faces []int) []int {
	counts := make(map[[2]int]int)
	for _, f := range faces {
		tri := m.Triangles[f]
		for e := 0; e < 3; e++ {
			counts[edgeKey(tri[e], tri[(e+1)%3])]++
		}
	}

	set := make(map[int]bool)
	for key, c := range counts {
		if c == 1 {
			set[key[0]] = true
			set[key[1]] = true
		}
	}

	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
