package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uvwrap/pkg/errors"
	"github.com/matzehuels/uvwrap/pkg/mesh"
	"github.com/matzehuels/uvwrap/pkg/pipeline"
	"github.com/matzehuels/uvwrap/pkg/render"
	"github.com/matzehuels/uvwrap/pkg/unwrap"
)

// analyzeCommand creates the analyze command for inspecting UV layouts.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		atlasPath  string
		graphPath  string
		wireframe  bool
		detailed   bool
		resolution int
	)

	cmd := &cobra.Command{
		Use:   "analyze [mesh.obj]",
		Short: "Measure the quality of an existing UV layout",
		Long: `Measure the quality of an existing UV layout.

The analyze command reads an OBJ that already carries vt records and reports
stretch, coverage, and angle distortion. Optionally it renders the layout as
an atlas preview PNG and the island adjacency as an SVG graph, which helps
spot badly placed seams.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(args[0], atlasPath, graphPath, wireframe, detailed, resolution)
		},
	}

	cmd.Flags().StringVar(&atlasPath, "atlas", "", "write a UV atlas preview PNG")
	cmd.Flags().BoolVar(&wireframe, "wire", false, "draw the atlas as wireframe without island fills")
	cmd.Flags().StringVar(&graphPath, "graph", "", "write the island adjacency as SVG")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include face counts in the island graph")
	cmd.Flags().IntVar(&resolution, "resolution", pipeline.DefaultCoverageResolution, "coverage rasterization grid")

	return cmd
}

func (c *CLI) runAnalyze(input, atlasPath, graphPath string, wireframe, detailed bool, resolution int) error {
	if err := errors.ValidateFilePath(input); err != nil {
		return err
	}
	m, err := mesh.ReadOBJFile(input)
	if err != nil {
		return err
	}
	if len(m.UVs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s carries no UV coordinates", input)
	}

	// Reconstruct the island structure from geometry so the graph and atlas
	// coloring reflect the layout on disk.
	topo := unwrap.BuildTopology(m, c.Logger)
	seams := unwrap.DetectSeams(m, topo, c.Logger)
	faceIslands, numIslands := unwrap.ExtractIslands(m.NumTriangles(), topo, seams)

	printTitle("%s", filepath.Base(input))
	printDetail("%d vertices, %d triangles, %d islands", m.NumVertices(), m.NumTriangles(), numIslands)
	printMetrics(pipeline.Measure(m, resolution))

	if atlasPath != "" {
		var atlasOpts []render.AtlasOption
		if wireframe {
			atlasOpts = append(atlasOpts, render.WithWireframeOnly())
		}
		png, err := render.RenderAtlas(m, faceIslands, atlasOpts...)
		if err != nil {
			return err
		}
		if err := os.WriteFile(atlasPath, png, 0644); err != nil {
			return err
		}
		printFile(atlasPath)
	}

	if graphPath != "" {
		dot := render.ToDOT(m, topo, faceIslands, seams, render.DOTOptions{Detailed: detailed})
		svg, err := render.RenderSVG(dot)
		if err != nil {
			return fmt.Errorf("render island graph: %w", err)
		}
		if err := os.WriteFile(graphPath, svg, 0644); err != nil {
			return err
		}
		printFile(graphPath)
	}
	return nil
}
