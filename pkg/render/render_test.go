package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/uvwrap/pkg/mesh"
	"github.com/matzehuels/uvwrap/pkg/unwrap"
)

// twoIslandQuad returns two triangles split by a seam on the diagonal, with
// each face in its own island and simple UVs.
func twoIslandQuad(t *testing.T) (*mesh.Mesh, *unwrap.Topology, []int, []int) {
	t.Helper()
	m := &mesh.Mesh{
		Vertices:  []mesh.Vec3{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}},
		Triangles: [][3]int{{0, 1, 2}, {1, 3, 2}},
		UVs:       []mesh.Vec2{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}},
	}
	topo := unwrap.BuildTopology(m, nil)
	diag, ok := topo.EdgeIndex(1, 2)
	if !ok {
		t.Fatal("diagonal edge missing")
	}
	return m, topo, []int{0, 1}, []int{diag}
}

func TestToDOT(t *testing.T) {
	m, topo, faceIslands, seams := twoIslandQuad(t)

	dot := ToDOT(m, topo, faceIslands, seams, DOTOptions{})
	for _, want := range []string{
		"graph islands {",
		"0 [label=\"0\"];",
		"1 [label=\"1\"];",
		"0 -- 1 [label=\"1\"];",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	m, topo, faceIslands, seams := twoIslandQuad(t)

	dot := ToDOT(m, topo, faceIslands, seams, DOTOptions{Detailed: true})
	if !strings.Contains(dot, "1 faces") {
		t.Errorf("detailed DOT missing face counts:\n%s", dot)
	}
}

func TestToDOTSingleIslandNoEdges(t *testing.T) {
	m, topo, _, _ := twoIslandQuad(t)

	dot := ToDOT(m, topo, []int{0, 0}, nil, DOTOptions{})
	if strings.Contains(dot, "--") {
		t.Errorf("single island produced adjacency edges:\n%s", dot)
	}
}

func TestRenderAtlas(t *testing.T) {
	m, _, faceIslands, _ := twoIslandQuad(t)

	png, err := RenderAtlas(m, faceIslands, WithAtlasSize(128))
	if err != nil {
		t.Fatalf("RenderAtlas: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderAtlasRequiresUVs(t *testing.T) {
	m := &mesh.Mesh{
		Vertices:  []mesh.Vec3{{}, {X: 1}, {Y: 1}},
		Triangles: [][3]int{{0, 1, 2}},
	}
	if _, err := RenderAtlas(m, nil); err == nil {
		t.Error("RenderAtlas succeeded without UVs")
	}
}
