package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/uvwrap/pkg/mesh"
	"github.com/matzehuels/uvwrap/pkg/unwrap"
)

// DOTOptions configures island-graph rendering.
type DOTOptions struct {
	// Detailed includes face counts in node labels.
	// When false, only the island id is shown.
	Detailed bool
}

// ToDOT converts the island adjacency of an unwrapped mesh to Graphviz DOT
// format. Nodes are islands; an edge marks a seam separating two islands,
// labeled with the number of cut edges between them. The resulting DOT
// string can be rendered using [RenderSVG].
func ToDOT(m *mesh.Mesh, topo *unwrap.Topology, faceIslands []int, seams []int, opts DOTOptions) string {
	numIslands := 0
	faceCounts := map[int]int{}
	for _, id := range faceIslands {
		faceCounts[id]++
		if id >= numIslands {
			numIslands = id + 1
		}
	}

	isSeam := make(map[int]bool, len(seams))
	for _, e := range seams {
		isSeam[e] = true
	}

	// Count seam edges between island pairs, keyed (low, high).
	type pair [2]int
	cuts := map[pair]int{}
	for e, faces := range topo.EdgeFaces {
		if !isSeam[e] || faces[0] < 0 || faces[1] < 0 {
			continue
		}
		a, b := faceIslands[faces[0]], faceIslands[faces[1]]
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		cuts[pair{a, b}]++
	}

	var buf bytes.Buffer
	buf.WriteString("graph islands {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=20];\n")
	buf.WriteString("\n")

	for id := 0; id < numIslands; id++ {
		label := strconv.Itoa(id)
		if opts.Detailed {
			label = fmt.Sprintf("%d\\n%d faces", id, faceCounts[id])
		}
		fmt.Fprintf(&buf, "  %d [label=\"%s\"];\n", id, label)
	}

	buf.WriteString("\n")
	for a := 0; a < numIslands; a++ {
		for b := a + 1; b < numIslands; b++ {
			if n, ok := cuts[pair{a, b}]; ok {
				fmt.Fprintf(&buf, "  %d -- %d [label=\"%d\"];\n", a, b, n)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
