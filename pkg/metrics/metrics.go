// Package metrics quantifies UV mapping quality: geometric stretch from the
// singular values of the per-face parameterization Jacobian, atlas coverage
// by rasterization, and angle distortion between 3D and UV corners.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/uvwrap/pkg/mesh"
)

// Stretch summarizes geometric stretch over all faces with usable UVs.
// Values start at 1.0 for an isometry-up-to-scale and grow with distortion.
type Stretch struct {
	Avg float64
	Max float64
}

// ComputeStretch measures, per face, how unevenly the UV map scales the
// surface. The 3D positions are expressed as a linear function of the face's
// UVs; the ratio of the largest to smallest singular value of that 3×2
// Jacobian is the face's stretch. Faces that are degenerate in 3D or UV
// space are skipped; if every face is skipped both fields are zero.
func ComputeStretch(m *mesh.Mesh) Stretch {
	var sum, max float64
	var count int

	for f := range m.Triangles {
		sigma1, sigma2, ok := jacobianSingularValues(m, f)
		if !ok || sigma2 < 1e-12 {
			continue
		}
		r := sigma1 / sigma2
		sum += r
		count++
		if r > max {
			max = r
		}
	}
	if count == 0 {
		return Stretch{}
	}
	return Stretch{Avg: sum / float64(count), Max: max}
}

// faceInRange reports whether every corner of tri indexes both the vertex
// and UV buffers. Meshes arriving over the API are not pre-validated.
func faceInRange(m *mesh.Mesh, tri [3]int) bool {
	for _, v := range tri {
		if v < 0 || v >= len(m.Vertices) || v >= len(m.UVs) {
			return false
		}
	}
	return true
}

// jacobianSingularValues computes the singular values of face f's 3D-over-UV
// Jacobian, largest first.
func jacobianSingularValues(m *mesh.Mesh, f int) (sigma1, sigma2 float64, ok bool) {
	tri := m.Triangles[f]
	if !faceInRange(m, tri) {
		return 0, 0, false
	}

	p0, p1, p2 := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
	q0, q1, q2 := m.UVs[tri[0]], m.UVs[tri[1]], m.UVs[tri[2]]

	du1, dv1 := q1.X-q0.X, q1.Y-q0.Y
	du2, dv2 := q2.X-q0.X, q2.Y-q0.Y
	det := du1*dv2 - du2*dv1
	if math.Abs(det) < 1e-12 {
		return 0, 0, false
	}

	e1, e2 := p1.Sub(p0), p2.Sub(p0)
	if e1.Cross(e2).Length() < 1e-12 {
		return 0, 0, false
	}

	// Partial derivatives of position with respect to u and v.
	inv := 1 / det
	su := e1.Scale(dv2 * inv).Add(e2.Scale(-dv1 * inv))
	sv := e1.Scale(-du2 * inv).Add(e2.Scale(du1 * inv))

	j := mat.NewDense(3, 2, []float64{
		su.X, sv.X,
		su.Y, sv.Y,
		su.Z, sv.Z,
	})

	var svd mat.SVD
	if !svd.Factorize(j, mat.SVDNone) {
		return 0, 0, false
	}
	values := svd.Values(nil)
	return values[0], values[1], true
}

// ComputeCoverage rasterizes every UV triangle onto a resolution×resolution
// grid and returns the fraction of texels covered at least once. Unlike an
// area sum this does not double-count overlapping islands. Resolution values
// below 1 fall back to 1024.
func ComputeCoverage(m *mesh.Mesh, resolution int) float64 {
	if resolution < 1 {
		resolution = 1024
	}
	if len(m.UVs) == 0 {
		return 0
	}

	covered := make([]bool, resolution*resolution)
	for f := range m.Triangles {
		rasterizeFace(m, f, resolution, covered)
	}

	hits := 0
	for _, c := range covered {
		if c {
			hits++
		}
	}
	return float64(hits) / float64(len(covered))
}

func rasterizeFace(m *mesh.Mesh, f, resolution int, covered []bool) {
	tri := m.Triangles[f]
	if !faceInRange(m, tri) {
		return
	}
	a, b, c := m.UVs[tri[0]], m.UVs[tri[1]], m.UVs[tri[2]]

	res := float64(resolution)
	minX := clampTexel(math.Floor(math.Min(a.X, math.Min(b.X, c.X))*res), resolution)
	maxX := clampTexel(math.Ceil(math.Max(a.X, math.Max(b.X, c.X))*res), resolution)
	minY := clampTexel(math.Floor(math.Min(a.Y, math.Min(b.Y, c.Y))*res), resolution)
	maxY := clampTexel(math.Ceil(math.Max(a.Y, math.Max(b.Y, c.Y))*res), resolution)

	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if math.Abs(denom) < 1e-15 {
		return
	}

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			px := (float64(x) + 0.5) / res
			py := (float64(y) + 0.5) / res
			w0 := ((b.Y-c.Y)*(px-c.X) + (c.X-b.X)*(py-c.Y)) / denom
			w1 := ((c.Y-a.Y)*(px-c.X) + (a.X-c.X)*(py-c.Y)) / denom
			w2 := 1 - w0 - w1
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				covered[y*resolution+x] = true
			}
		}
	}
}

func clampTexel(v float64, resolution int) int {
	i := int(v)
	if i < 0 {
		return 0
	}
	if i > resolution {
		return resolution
	}
	return i
}

// ComputeAngleDistortion averages, over all corners of all faces, the
// absolute difference in radians between each 3D corner angle and its UV
// counterpart. 0 means perfectly conformal. Corners whose UV triangle is
// degenerate are skipped.
func ComputeAngleDistortion(m *mesh.Mesh) float64 {
	if len(m.UVs) == 0 {
		return 0
	}

	var sum float64
	var count int
	for f := range m.Triangles {
		tri := m.Triangles[f]
		if !faceInRange(m, tri) {
			continue
		}
		if m.UVArea(f) < 1e-15 {
			continue
		}
		for c := 0; c < 3; c++ {
			a3 := m.CornerAngle(f, tri[c])
			a2 := uvCornerAngle(m.UVs[tri[c]], m.UVs[tri[(c+1)%3]], m.UVs[tri[(c+2)%3]])
			sum += math.Abs(a3 - a2)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func uvCornerAngle(at, b, c mesh.Vec2) float64 {
	e1 := b.Sub(at)
	e2 := c.Sub(at)
	l1, l2 := e1.Length(), e2.Length()
	if l1 < 1e-12 || l2 < 1e-12 {
		return 0
	}
	cos := e1.Dot(e2) / (l1 * l2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}
