package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/uvwrap/pkg/mesh"
	"github.com/matzehuels/uvwrap/pkg/pipeline"
)

// batchReport is the JSON summary written after a batch run.
type batchReport struct {
	JobID     string            `json:"job_id"`
	StartedAt time.Time         `json:"started_at"`
	Duration  string            `json:"duration"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Files     []batchFileReport `json:"files"`
}

// batchFileReport records one file's outcome.
type batchFileReport struct {
	Input      string           `json:"input"`
	Output     string           `json:"output,omitempty"`
	Error      string           `json:"error,omitempty"`
	NumIslands int              `json:"num_islands,omitempty"`
	NumSeams   int              `json:"num_seams,omitempty"`
	CacheHit   bool             `json:"cache_hit"`
	Metrics    pipeline.Metrics `json:"metrics,omitempty"`
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		outDir     string
		reportPath string
		jobs       int
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "batch [directory]",
		Short: "Unwrap every OBJ file in a directory",
		Long: `Unwrap every OBJ file in a directory.

Files are processed concurrently; each run is independent, so one failing
mesh does not stop the batch. A JSON report summarizing the outcomes is
written at the end, tagged with a unique job id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd, args[0], outDir, reportPath, jobs, noCache)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "output directory (default: alongside inputs)")
	cmd.Flags().StringVar(&reportPath, "report", "", "report path (default: <dir>/uvwrap_report.json)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "concurrent files (default: all CPUs)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, dir, outDir, reportPath string, jobs int, noCache bool) error {
	ctx := cmd.Context()
	inputs, err := findOBJFiles(dir)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		printInfo("No OBJ files in %s", dir)
		return nil
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(cmd, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(inputs) {
		jobs = len(inputs)
	}

	jobID := uuid.NewString()
	opts := c.Config.Unwrap.pipelineOptions()
	opts.Logger = c.Logger

	printTitle("Batch %s", jobID[:8])
	printDetail("%d files, %d workers", len(inputs), jobs)
	prog := newProgress(c.Logger)

	report := batchReport{JobID: jobID, StartedAt: time.Now()}
	report.Files = make([]batchFileReport, len(inputs))

	var wg sync.WaitGroup
	work := make(chan int)
	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				report.Files[i] = c.batchOne(ctx, runner, inputs[i], outDir, opts)
			}
		}()
	}
	for i := range inputs {
		select {
		case work <- i:
		case <-ctx.Done():
		}
	}
	close(work)
	wg.Wait()

	for i := range report.Files {
		if report.Files[i].Error == "" && report.Files[i].Output != "" {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	report.Duration = time.Since(report.StartedAt).Round(time.Millisecond).String()
	prog.done(fmt.Sprintf("Processed %d files", len(inputs)))

	if reportPath == "" {
		reportPath = filepath.Join(dir, "uvwrap_report.json")
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(reportPath, data, 0644); err != nil {
		return err
	}

	if report.Failed > 0 {
		printWarning("%d of %d files failed", report.Failed, len(inputs))
	} else {
		printSuccess("All %d files unwrapped", report.Succeeded)
	}
	printFile(reportPath)
	return ctx.Err()
}

// batchOne unwraps a single file and returns its report row.
func (c *CLI) batchOne(ctx context.Context, runner *pipeline.Runner, input, outDir string, opts pipeline.Options) batchFileReport {
	row := batchFileReport{Input: input}
	if err := ctx.Err(); err != nil {
		row.Error = err.Error()
		return row
	}

	m, err := mesh.ReadOBJFile(input)
	if err != nil {
		row.Error = err.Error()
		return row
	}

	result, err := runner.Execute(ctx, m, opts)
	if err != nil {
		row.Error = err.Error()
		return row
	}

	output := defaultOutputPath(input)
	if outDir != "" {
		output = filepath.Join(outDir, filepath.Base(output))
	}
	if err := mesh.WriteOBJFile(result.Mesh, output); err != nil {
		row.Error = err.Error()
		return row
	}

	row.Output = output
	row.NumIslands = result.Unwrap.NumIslands
	row.NumSeams = result.Unwrap.NumSeams
	row.CacheHit = result.CacheInfo.Hit
	row.Metrics = result.Metrics
	return row
}

// findOBJFiles lists the OBJ files directly inside dir, sorted for stable
// report order.
func findOBJFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.EqualFold(filepath.Ext(name), ".obj") && !strings.HasSuffix(name, "_unwrapped.obj") {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}
