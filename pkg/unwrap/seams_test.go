package unwrap

import (
	"testing"

	"github.com/matzehuels/uvwrap/pkg/mesh"
)

func TestDetectSeamsPlanarStrip(t *testing.T) {
	// A strip's dual graph is a path, so the spanning tree uses every
	// interior edge and nothing remains to cut.
	m := mesh.Strip(5)
	topo := BuildTopology(m, nil)
	seams := DetectSeams(m, topo, nil)
	if len(seams) != 0 {
		t.Errorf("seams = %v, want none on a planar strip", seams)
	}
}

func TestDetectSeamsCube(t *testing.T) {
	m := mesh.Cube(2)
	topo := BuildTopology(m, nil)
	seams := DetectSeams(m, topo, nil)

	// 18 interior edges, 11 consumed by the spanning tree over 12 faces.
	// Every cube corner has angular defect π/2, which promotes all 7
	// remaining candidates.
	if len(seams) != 7 {
		t.Fatalf("seams = %v (%d), want 7", seams, len(seams))
	}
	for i := 1; i < len(seams); i++ {
		if seams[i] <= seams[i-1] {
			t.Fatalf("seams %v not strictly ascending", seams)
		}
	}
	for _, e := range seams {
		if topo.IsBoundary(e) {
			t.Errorf("seam %d is a boundary edge", e)
		}
	}

	// Defect promotion is deliberately sharpness-blind: the flat quad
	// diagonals the tree left out are promoted alongside the sharp cube
	// edges, because every corner they touch has a π/2 defect.
	var flat int
	for _, e := range seams {
		f0, f1 := topo.EdgeFaces[e][0], topo.EdgeFaces[e][1]
		if 1-m.FaceNormal(f0).Dot(m.FaceNormal(f1)) <= seamSharpnessCutoff {
			flat++
		}
	}
	if flat == 0 {
		t.Error("no flat diagonal among the seams; defect promotion regressed")
	}
}

func TestDetectSeamsSmoothSphereForcesOne(t *testing.T) {
	// Adjacent normals on a moderately tessellated sphere deviate well below
	// the sharpness cutoff and vertex defects stay small, so the only seam is
	// the forced sharpest candidate.
	m := mesh.UVSphere(1, 8, 12)
	topo := BuildTopology(m, nil)
	seams := DetectSeams(m, topo, nil)
	if len(seams) != 1 {
		t.Fatalf("seams = %v (%d), want exactly 1 forced seam", seams, len(seams))
	}
}

func TestDetectSeamsDeterministic(t *testing.T) {
	m := mesh.UVSphere(1, 10, 16)
	topo := BuildTopology(m, nil)
	first := DetectSeams(m, topo, nil)
	for run := 0; run < 5; run++ {
		again := DetectSeams(m, BuildTopology(m, nil), nil)
		if len(again) != len(first) {
			t.Fatalf("run %d: %d seams, want %d", run, len(again), len(first))
		}
		for i := range first {
			if again[i] != first[i] {
				t.Fatalf("run %d: seams %v != %v", run, again, first)
			}
		}
	}
}

func TestAngularDefects(t *testing.T) {
	tests := []struct {
		name   string
		build  func() *mesh.Mesh
		vertex int
		want   float64
		tol    float64
	}{
		{
			name:   "cube corner",
			build:  func() *mesh.Mesh { return mesh.Cube(1) },
			vertex: 0,
			want:   1.5707963, // π/2: three right angles around each corner
			tol:    1e-6,
		},
		{
			name:   "straight boundary vertex",
			build:  func() *mesh.Mesh { return mesh.Strip(2) },
			vertex: 2, // midpoint of the bottom row: angles sum to π
			want:   3.1415926,
			tol:    1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.build()
			defects := angularDefects(m)
			got := defects[tt.vertex]
			if got < tt.want-tt.tol || got > tt.want+tt.tol {
				t.Errorf("defect at vertex %d = %.7f, want %.7f", tt.vertex, got, tt.want)
			}
		})
	}
}
