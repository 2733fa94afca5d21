// Package render turns unwrap results into images: a UV atlas preview of the
// packed islands and a Graphviz view of island adjacency for debugging seam
// placement.
package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/matzehuels/uvwrap/pkg/mesh"
)

// AtlasOption configures atlas rendering.
type AtlasOption func(*atlasRenderer)

type atlasRenderer struct {
	size      int
	wireOnly  bool
	faceAlpha float64
}

// WithAtlasSize sets the output image edge length in pixels (default 1024).
func WithAtlasSize(size int) AtlasOption {
	return func(r *atlasRenderer) {
		if size > 0 {
			r.size = size
		}
	}
}

// WithWireframeOnly skips the island fills and draws only triangle edges.
func WithWireframeOnly() AtlasOption {
	return func(r *atlasRenderer) { r.wireOnly = true }
}

// islandPalette cycles across islands so adjacent ids are visually distinct.
var islandPalette = []color.RGBA{
	{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff},
	{R: 0x21, G: 0x96, B: 0xf3, A: 0xff},
	{R: 0xff, G: 0x98, B: 0x00, A: 0xff},
	{R: 0x9c, G: 0x27, B: 0xb0, A: 0xff},
	{R: 0xf4, G: 0x43, B: 0x36, A: 0xff},
	{R: 0x00, G: 0xbc, B: 0xd4, A: 0xff},
	{R: 0xff, G: 0xeb, B: 0x3b, A: 0xff},
	{R: 0x79, G: 0x55, B: 0x48, A: 0xff},
}

// RenderAtlas draws the mesh's UV layout as a PNG: each face filled with its
// island's color and outlined in dark grey, on a white canvas covering the
// unit square. faceIslands may be nil, in which case every face uses the
// first palette color.
func RenderAtlas(m *mesh.Mesh, faceIslands []int, opts ...AtlasOption) ([]byte, error) {
	r := atlasRenderer{size: 1024, faceAlpha: 0.55}
	for _, opt := range opts {
		opt(&r)
	}
	if len(m.UVs) == 0 {
		return nil, fmt.Errorf("mesh has no UVs to render")
	}

	dc := gg.NewContext(r.size, r.size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	px := func(uv mesh.Vec2) (float64, float64) {
		// Flip v so the UV origin sits bottom-left, the texture convention.
		return uv.X * float64(r.size), (1 - uv.Y) * float64(r.size)
	}

	for f, tri := range m.Triangles {
		if tri[0] >= len(m.UVs) || tri[1] >= len(m.UVs) || tri[2] >= len(m.UVs) {
			continue
		}
		x0, y0 := px(m.UVs[tri[0]])
		x1, y1 := px(m.UVs[tri[1]])
		x2, y2 := px(m.UVs[tri[2]])

		dc.MoveTo(x0, y0)
		dc.LineTo(x1, y1)
		dc.LineTo(x2, y2)
		dc.ClosePath()

		if !r.wireOnly {
			c := islandPalette[0]
			if faceIslands != nil && f < len(faceIslands) {
				c = islandPalette[faceIslands[f]%len(islandPalette)]
			}
			dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, r.faceAlpha)
			dc.FillPreserve()
		}
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
