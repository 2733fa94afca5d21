package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uvwrap/pkg/errors"
	"github.com/matzehuels/uvwrap/pkg/mesh"
	"github.com/matzehuels/uvwrap/pkg/pipeline"
	"github.com/matzehuels/uvwrap/pkg/render"
)

// unwrapCommand creates the unwrap command.
func (c *CLI) unwrapCommand() *cobra.Command {
	var (
		output    string
		atlasPath string
		noCache   bool
		refresh   bool
		noPack    bool
		noMetrics bool
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "unwrap [input.obj]",
		Short: "Compute UV coordinates for an OBJ mesh",
		Long: `Compute UV coordinates for an OBJ mesh.

The unwrap command detects seams along sharp features, cuts the mesh into
islands, flattens each island with a conformal solve, and packs the islands
into a single texture atlas. The result is written as an OBJ with vt records.

Results are cached locally keyed by mesh content and parameters, so repeated
runs over the same file return immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := c.Config.Unwrap.pipelineOptions()
			applyFlagOverrides(cmd, &base, &opts, noPack)
			base.Refresh = refresh
			base.SkipMetrics = noMetrics
			return c.runUnwrap(cmd, args[0], base, output, atlasPath, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output OBJ path (default: <input>_unwrapped.obj)")
	cmd.Flags().StringVar(&atlasPath, "atlas", "", "also write a UV atlas preview PNG")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&noPack, "no-pack", false, "leave each island spanning the full unit square")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "skip quality measurement")
	cmd.Flags().Float64Var(&opts.AngleThreshold, "angle", 0, "crease angle threshold in degrees")
	cmd.Flags().IntVar(&opts.MinIslandFaces, "min-island-faces", 0, "skip islands smaller than this")
	cmd.Flags().Float64Var(&opts.IslandMargin, "margin", 0, "packing margin between islands")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "concurrent island solves (default: all CPUs)")

	return cmd
}

// applyFlagOverrides copies explicitly-set flag values over the config-based
// defaults.
func applyFlagOverrides(cmd *cobra.Command, base, flags *pipeline.Options, noPack bool) {
	if cmd.Flags().Changed("angle") {
		base.AngleThreshold = flags.AngleThreshold
	}
	if cmd.Flags().Changed("min-island-faces") {
		base.MinIslandFaces = flags.MinIslandFaces
	}
	if cmd.Flags().Changed("margin") {
		base.IslandMargin = flags.IslandMargin
	}
	if cmd.Flags().Changed("workers") {
		base.Workers = flags.Workers
	}
	if noPack {
		pack := false
		base.Pack = &pack
	}
}

// runUnwrap executes the pipeline for one file and writes the outputs.
func (c *CLI) runUnwrap(cmd *cobra.Command, input string, opts pipeline.Options, output, atlasPath string, noCache bool) error {
	ctx := cmd.Context()
	if err := errors.ValidateFilePath(input); err != nil {
		return err
	}

	m, err := mesh.ReadOBJFile(input)
	if err != nil {
		return err
	}
	printInfo("Loaded %s", filepath.Base(input))
	printDetail("%d vertices, %d triangles", m.NumVertices(), m.NumTriangles())

	runner, err := c.newRunner(cmd, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	opts.Logger = c.Logger

	result, err := c.executeWithSpinner(ctx, runner, m, opts)
	if err != nil {
		return err
	}

	if output == "" {
		output = defaultOutputPath(input)
	}
	if err := mesh.WriteOBJFile(result.Mesh, output); err != nil {
		return err
	}

	printSuccess("Unwrapped %s", filepath.Base(input))
	printStats(result.Unwrap.NumIslands, result.Unwrap.NumSeams, result.CacheInfo.Hit)
	if !opts.SkipMetrics {
		printMetrics(result.Metrics)
	}
	printFile(output)

	if atlasPath != "" {
		png, err := render.RenderAtlas(result.Mesh, result.Unwrap.FaceIslands)
		if err != nil {
			return err
		}
		if err := os.WriteFile(atlasPath, png, 0644); err != nil {
			return err
		}
		printFile(atlasPath)
	}

	printNewline()
	printNextStep("Inspect the layout", fmt.Sprintf("uvwrap analyze %s --atlas atlas.png", output))
	return nil
}

// executeWithSpinner wraps runner.Execute in a progress spinner.
func (c *CLI) executeWithSpinner(ctx context.Context, runner *pipeline.Runner, m *mesh.Mesh, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinnerWithContext(ctx, "Unwrapping...")
	spinner.Start()

	result, err := runner.Execute(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Unwrap failed")
		return nil, err
	}
	spinner.Stop()
	return result, nil
}

// printMetrics renders the quality summary block.
func printMetrics(m pipeline.Metrics) {
	printKeyValue("avg stretch", fmt.Sprintf("%.3f", m.AvgStretch))
	printKeyValue("max stretch", fmt.Sprintf("%.3f", m.MaxStretch))
	printKeyValue("coverage", fmt.Sprintf("%.1f%%", m.Coverage*100))
	printKeyValue("angle distortion", fmt.Sprintf("%.4f rad", m.AngleDistortion))
}

// defaultOutputPath derives out.obj from in.obj as in_unwrapped.obj.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_unwrapped" + ext
}
