// Package cli implements the uvwrap command-line interface.
//
// This package provides commands for unwrapping triangle meshes into UV
// layouts, measuring existing layouts, batch-processing directories, and
// serving the pipeline over HTTP. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - unwrap: Compute UVs for an OBJ mesh and write the result
//   - analyze: Measure stretch, coverage, and distortion of an existing layout
//   - batch: Unwrap every OBJ in a directory with a worker pool
//   - serve: Expose the pipeline as an HTTP API
//   - cache: Manage the local result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/uvwrap/pkg/buildinfo"
	"github.com/matzehuels/uvwrap/pkg/cache"
	"github.com/matzehuels/uvwrap/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "uvwrap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "uvwrap",
		Short:        "uvwrap computes UV layouts for triangle meshes",
		Long:         `uvwrap is a CLI tool for automatic UV unwrapping: it cuts a triangle mesh along detected seams, flattens each piece with a conformal solve, and packs the pieces into a texture atlas.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to uvwrap.toml (default: search XDG config dir)")

	root.AddCommand(c.unwrapCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cmd *cobra.Command, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(cmd, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.Logger), nil
}

// newCache builds the configured cache backend. Backend failures degrade to
// no caching with a warning rather than aborting the run.
func (c *CLI) newCache(cmd *cobra.Command, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	store, err := c.Config.Cache.open(cmd.Context())
	if err != nil {
		printWarning("Cache unavailable (%v), continuing without", err)
		return cache.NewNullCache(), nil
	}
	return store, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/uvwrap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
