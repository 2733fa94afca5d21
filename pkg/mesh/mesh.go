// Package mesh provides the triangle mesh data model shared by the unwrapping
// pipeline: vector math, mesh construction and copying, Wavefront OBJ I/O,
// and procedural test primitives.
//
// A Mesh is a plain value type: vertex positions, a triangle index list, and
// an optional per-vertex UV buffer of the same length as the vertex list.
// Triangles may reference any vertex any number of times; consumers that need
// manifold guarantees validate separately (see pkg/unwrap).
package mesh

import "math"

// =============================================================================
// Vectors
// =============================================================================

// Vec3 is a 3D point or direction.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the cross product of v and w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the Euclidean norm of v.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length.
// Vectors shorter than 1e-10 normalize to the zero vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-10 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Vec2 is a 2D point, typically a UV coordinate.
type Vec2 struct {
	X, Y float64
}

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and w.
func (v Vec2) Dot(w Vec2) float64 { return v.X*w.X + v.Y*w.Y }

// Length returns the Euclidean norm of v.
func (v Vec2) Length() float64 { return math.Sqrt(v.Dot(v)) }

// =============================================================================
// Mesh
// =============================================================================

// Mesh is a triangulated surface. UVs is either nil or has exactly one entry
// per vertex.
type Mesh struct {
	Vertices  []Vec3
	Triangles [][3]int
	UVs       []Vec2
}

// NumVertices returns the vertex count.
func (m *Mesh) NumVertices() int { return len(m.Vertices) }

// NumTriangles returns the triangle count.
func (m *Mesh) NumTriangles() int { return len(m.Triangles) }

// Clone returns a deep copy of the mesh. The copy always carries a UV buffer:
// if the source has none, a zeroed buffer of the vertex count is allocated.
// This is the shape the unwrap pipeline hands back to callers, who own the
// copy outright.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices:  make([]Vec3, len(m.Vertices)),
		Triangles: make([][3]int, len(m.Triangles)),
		UVs:       make([]Vec2, len(m.Vertices)),
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Triangles, m.Triangles)
	copy(out.UVs, m.UVs)
	return out
}

// FaceNormal returns the unit normal of triangle f, or the zero vector for a
// degenerate triangle.
func (m *Mesh) FaceNormal(f int) Vec3 {
	t := m.Triangles[f]
	p0, p1, p2 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

// FaceArea returns the area of triangle f in 3D.
func (m *Mesh) FaceArea(f int) float64 {
	t := m.Triangles[f]
	p0, p1, p2 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	return 0.5 * p1.Sub(p0).Cross(p2.Sub(p0)).Length()
}

// CornerAngle returns the interior angle of triangle f at vertex v, in
// radians. Returns 0 if v is not a corner of f or the corner is degenerate.
func (m *Mesh) CornerAngle(f, v int) float64 {
	t := m.Triangles[f]
	var a, b, c Vec3
	switch v {
	case t[0]:
		a, b, c = m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	case t[1]:
		a, b, c = m.Vertices[t[1]], m.Vertices[t[2]], m.Vertices[t[0]]
	case t[2]:
		a, b, c = m.Vertices[t[2]], m.Vertices[t[0]], m.Vertices[t[1]]
	default:
		return 0
	}
	e1, e2 := b.Sub(a), c.Sub(a)
	n1, n2 := e1.Length(), e2.Length()
	if n1 < 1e-10 || n2 < 1e-10 {
		return 0
	}
	cos := e1.Dot(e2) / (n1 * n2)
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

// UVArea returns the unsigned area of triangle f in UV space.
// Returns 0 when the mesh carries no UV buffer.
func (m *Mesh) UVArea(f int) float64 {
	if m.UVs == nil {
		return 0
	}
	t := m.Triangles[f]
	a, b, c := m.UVs[t[0]], m.UVs[t[1]], m.UVs[t[2]]
	e1, e2 := b.Sub(a), c.Sub(a)
	return 0.5 * math.Abs(e1.X*e2.Y-e1.Y*e2.X)
}
