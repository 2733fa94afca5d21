package mesh

import "math"

// =============================================================================
// Procedural Primitives
// =============================================================================
//
// Small generators used by tests, examples, and the analyze command. All
// primitives return closed or open 2-manifold meshes with outward-facing
// (counter-clockwise) triangles.

// Cube returns a closed axis-aligned cube spanning [-size/2, size/2]³:
// 8 vertices, 12 triangles. Each quad face is split along one diagonal, so
// the mesh exposes both perpendicular geometric edges (sharpness ≈ 1) and
// coplanar diagonal edges (sharpness ≈ 0).
func Cube(size float64) *Mesh {
	h := size / 2
	return &Mesh{
		Vertices: []Vec3{
			{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
			{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
		},
		Triangles: [][3]int{
			{0, 2, 1}, {0, 3, 2}, // bottom (-z)
			{4, 5, 6}, {4, 6, 7}, // top (+z)
			{0, 1, 5}, {0, 5, 4}, // front (-y)
			{2, 7, 6}, {2, 3, 7}, // back (+y)
			{1, 2, 6}, {1, 6, 5}, // right (+x)
			{0, 4, 7}, {0, 7, 3}, // left (-x)
		},
	}
}

// UVSphere returns a closed latitude/longitude sphere with the given radius,
// rings horizontal bands, and segments meridians. rings and segments are
// clamped to at least 3 and 6 respectively so no dihedral edge becomes sharp.
func UVSphere(radius float64, rings, segments int) *Mesh {
	if rings < 3 {
		rings = 3
	}
	if segments < 6 {
		segments = 6
	}

	m := &Mesh{}
	m.Vertices = append(m.Vertices, Vec3{0, 0, radius}) // north pole
	for r := 1; r < rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		for s := 0; s < segments; s++ {
			phi := 2 * math.Pi * float64(s) / float64(segments)
			m.Vertices = append(m.Vertices, Vec3{
				radius * math.Sin(theta) * math.Cos(phi),
				radius * math.Sin(theta) * math.Sin(phi),
				radius * math.Cos(theta),
			})
		}
	}
	south := len(m.Vertices)
	m.Vertices = append(m.Vertices, Vec3{0, 0, -radius})

	ring := func(r, s int) int { return 1 + (r-1)*segments + s%segments }

	// Pole caps.
	for s := 0; s < segments; s++ {
		m.Triangles = append(m.Triangles, [3]int{0, ring(1, s), ring(1, s+1)})
		m.Triangles = append(m.Triangles, [3]int{south, ring(rings-1, s+1), ring(rings-1, s)})
	}
	// Quad bands between rings.
	for r := 1; r < rings-1; r++ {
		for s := 0; s < segments; s++ {
			a, b := ring(r, s), ring(r, s+1)
			c, d := ring(r+1, s), ring(r+1, s+1)
			m.Triangles = append(m.Triangles, [3]int{a, c, d}, [3]int{a, d, b})
		}
	}
	return m
}

// Strip returns an open planar strip of n unit quads (2n triangles) in the
// z=0 plane, spanning [0,n]×[0,1]. With n > 4 its flattened bounding box is
// elongated, which exercises the uniform-scaling normalization path.
func Strip(n int) *Mesh {
	if n < 1 {
		n = 1
	}
	m := &Mesh{}
	for i := 0; i <= n; i++ {
		m.Vertices = append(m.Vertices, Vec3{float64(i), 0, 0}, Vec3{float64(i), 1, 0})
	}
	for i := 0; i < n; i++ {
		a, b := 2*i, 2*i+1   // left edge
		c, d := 2*i+2, 2*i+3 // right edge
		m.Triangles = append(m.Triangles, [3]int{a, c, d}, [3]int{a, d, b})
	}
	return m
}
