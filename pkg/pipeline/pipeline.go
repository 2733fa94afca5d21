// Package pipeline provides the core unwrap pipeline shared by the CLI and
// the HTTP API.
//
// This package implements the complete load → unwrap → measure flow so both
// entry points behave identically: same defaults, same cache keys, same
// metrics. The heavy lifting lives in pkg/unwrap; this layer adds caching,
// instrumentation, and quality measurement around it.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Unwrap: seam detection, island extraction, and conformal solve
//  2. Measure: stretch, coverage, and angle-distortion metrics
//  3. Encode: serialize the result for caching and API responses
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{AngleThreshold: 30}
//	result, err := runner.Execute(ctx, m, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Unwrap.NumIslands)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uvwrap/pkg/errors"
	"github.com/matzehuels/uvwrap/pkg/unwrap"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultAngleThreshold is the crease angle in degrees marking seam
	// candidates.
	DefaultAngleThreshold = 30.0

	// DefaultMinIslandFaces skips islands smaller than this many faces.
	DefaultMinIslandFaces = 1

	// DefaultIslandMargin is the packing gap between islands.
	DefaultIslandMargin = 0.01

	// DefaultCoverageResolution is the rasterization grid used for the
	// coverage metric.
	DefaultCoverageResolution = 1024

	// TTLUnwrap is how long cached unwrap results stay valid. Results are
	// deterministic for a given mesh and parameters, so the TTL exists only
	// to bound storage growth.
	TTLUnwrap = 7 * 24 * time.Hour
)

// Options configures one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	AngleThreshold float64 `json:"angle_threshold,omitempty"`
	MinIslandFaces int     `json:"min_island_faces,omitempty"`
	Pack           *bool   `json:"pack,omitempty"` // nil means true
	IslandMargin   float64 `json:"island_margin,omitempty"`
	Workers        int     `json:"workers,omitempty"`

	// Refresh bypasses the cache read (the result is still stored).
	Refresh bool `json:"refresh,omitempty"`

	// SkipMetrics leaves Result.Metrics zeroed, saving the rasterization
	// pass when only UVs are wanted.
	SkipMetrics bool `json:"skip_metrics,omitempty"`

	// CoverageResolution is the texel grid for the coverage metric.
	CoverageResolution int `json:"coverage_resolution,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks field ranges and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.AngleThreshold == 0 {
		o.AngleThreshold = DefaultAngleThreshold
	}
	if o.MinIslandFaces == 0 {
		o.MinIslandFaces = DefaultMinIslandFaces
	}
	if o.IslandMargin == 0 {
		o.IslandMargin = DefaultIslandMargin
	}
	if o.CoverageResolution == 0 {
		o.CoverageResolution = DefaultCoverageResolution
	}
	if err := errors.ValidateUnwrapParams(o.AngleThreshold, o.MinIslandFaces, o.IslandMargin); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// unwrapParams converts pipeline options to core solver parameters.
func (o *Options) unwrapParams() unwrap.Params {
	p := unwrap.DefaultParams()
	p.AngleThreshold = o.AngleThreshold
	p.MinIslandFaces = o.MinIslandFaces
	p.IslandMargin = o.IslandMargin
	p.Workers = o.Workers
	p.Logger = o.Logger
	if o.Pack != nil {
		p.PackIslands = *o.Pack
	}
	return p
}

// cacheParams lists exactly the fields that influence the computed UVs, so
// the cache key ignores runtime knobs like Workers and Refresh.
func (o *Options) cacheParams() map[string]any {
	pack := true
	if o.Pack != nil {
		pack = *o.Pack
	}
	return map[string]any{
		"angle_threshold":  o.AngleThreshold,
		"min_island_faces": o.MinIslandFaces,
		"pack":             pack,
		"island_margin":    o.IslandMargin,
	}
}

// Stats contains pipeline execution timings.
type Stats struct {
	UnwrapTime  time.Duration `json:"unwrap_time"`
	MetricsTime time.Duration `json:"metrics_time"`
}

// CacheInfo tracks whether the result came from cache.
type CacheInfo struct {
	Hit bool   `json:"hit"`
	Key string `json:"key"`
}

// Metrics bundles the quality measurements of a finished unwrap.
type Metrics struct {
	AvgStretch      float64 `json:"avg_stretch"`
	MaxStretch      float64 `json:"max_stretch"`
	Coverage        float64 `json:"coverage"`
	AngleDistortion float64 `json:"angle_distortion"`
}
