package unwrap

import (
	"testing"

	"github.com/matzehuels/uvwrap/pkg/mesh"
)

func TestBuildTopologyCube(t *testing.T) {
	m := mesh.Cube(1)
	topo := BuildTopology(m, nil)

	if got, want := topo.NumEdges(), 18; got != want {
		t.Fatalf("edges = %d, want %d", got, want)
	}
	for e := range topo.Edges {
		if topo.IsBoundary(e) {
			t.Errorf("edge %d %v is boundary, cube is closed", e, topo.Edges[e])
		}
	}
	if got, want := topo.EulerCharacteristic(m), 2; got != want {
		t.Errorf("euler characteristic = %d, want %d", got, want)
	}
	if len(topo.Skipped) != 0 {
		t.Errorf("skipped faces = %v, want none", topo.Skipped)
	}
}

func TestBuildTopologyStripBoundary(t *testing.T) {
	m := mesh.Strip(4)
	topo := BuildTopology(m, nil)

	boundary := 0
	for e := range topo.Edges {
		if topo.IsBoundary(e) {
			boundary++
		}
	}
	// A 4-quad strip has a 10-edge perimeter.
	if boundary != 10 {
		t.Errorf("boundary edges = %d, want 10", boundary)
	}
	if got, want := topo.EulerCharacteristic(m), 1; got != want {
		t.Errorf("euler characteristic = %d, want %d", got, want)
	}
}

func TestBuildTopologySkipsMalformedFaces(t *testing.T) {
	tests := []struct {
		name string
		tri  [3]int
	}{
		{"out of range", [3]int{0, 1, 99}},
		{"negative index", [3]int{0, -1, 2}},
		{"repeated vertex", [3]int{0, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mesh.Mesh{
				Vertices: []mesh.Vec3{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}},
				Triangles: [][3]int{
					{0, 1, 2},
					tt.tri,
					{1, 3, 2},
				},
			}
			topo := BuildTopology(m, nil)
			if len(topo.Skipped) != 1 || topo.Skipped[0] != 1 {
				t.Fatalf("skipped = %v, want [1]", topo.Skipped)
			}
			// The two valid triangles still share the diagonal.
			e, ok := topo.EdgeIndex(1, 2)
			if !ok {
				t.Fatal("shared edge (1,2) missing")
			}
			if topo.IsBoundary(e) {
				t.Error("shared edge reported as boundary")
			}
		})
	}
}

func TestBuildTopologyNonManifoldThirdFaceDropped(t *testing.T) {
	// Three triangles fanning around edge (0,1).
	m := &mesh.Mesh{
		Vertices: []mesh.Vec3{
			{}, {X: 1},
			{Y: 1}, {Z: 1}, {Y: -1},
		},
		Triangles: [][3]int{
			{0, 1, 2},
			{0, 1, 3},
			{0, 1, 4},
		},
	}
	topo := BuildTopology(m, nil)

	e, ok := topo.EdgeIndex(0, 1)
	if !ok {
		t.Fatal("edge (0,1) missing")
	}
	if got := topo.EdgeFaces[e]; got[0] != 0 || got[1] != 1 {
		t.Errorf("edge faces = %v, want [0 1] with third face dropped", got)
	}
}

func TestTopologyEdgeOrderDeterministic(t *testing.T) {
	m := mesh.UVSphere(1, 6, 10)
	first := BuildTopology(m, nil)
	for run := 0; run < 5; run++ {
		again := BuildTopology(m, nil)
		if again.NumEdges() != first.NumEdges() {
			t.Fatalf("run %d: edge count %d != %d", run, again.NumEdges(), first.NumEdges())
		}
		for e := range first.Edges {
			if again.Edges[e] != first.Edges[e] {
				t.Fatalf("run %d: edge %d = %v, want %v", run, e, again.Edges[e], first.Edges[e])
			}
		}
	}
}

func TestVertexEdges(t *testing.T) {
	m := mesh.Cube(1)
	topo := BuildTopology(m, nil)

	counts := make(map[int]int)
	for v := 0; v < m.NumVertices(); v++ {
		counts[len(topo.VertexEdges(v))]++
	}
	// 36 edge endpoints over 8 vertices: the two diagonal-heavy corners see
	// 6 edges, the rest vary, but the total is fixed.
	total := 0
	for degree, n := range counts {
		total += degree * n
	}
	if total != 36 {
		t.Errorf("sum of vertex degrees = %d, want 36", total)
	}
}
