package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uvwrap/pkg/cache"
	"github.com/matzehuels/uvwrap/pkg/errors"
	"github.com/matzehuels/uvwrap/pkg/mesh"
	"github.com/matzehuels/uvwrap/pkg/metrics"
	"github.com/matzehuels/uvwrap/pkg/observability"
	"github.com/matzehuels/uvwrap/pkg/unwrap"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Mesh carries the computed UVs alongside the input geometry.
	Mesh *mesh.Mesh

	// Unwrap holds the solver's own report (islands, seams, coverage).
	Unwrap *unwrap.Result

	// Metrics holds the quality measurements; zero when SkipMetrics is set.
	Metrics Metrics

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks whether the UVs came from cache.
	CacheInfo CacheInfo
}

// Execute runs the complete unwrap → measure pipeline with caching.
//
// The mesh is never mutated; the result carries its own copy. Context
// cancellation is honored between stages, between island solves, and inside
// cache operations.
func (r *Runner) Execute(ctx context.Context, m *mesh.Mesh, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidMesh, "mesh is nil")
	}

	key := resultKey(m, opts)
	result := &Result{CacheInfo: CacheInfo{Key: key}}

	if !opts.Refresh {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := decodeResult(m, data); err == nil {
				observability.Cache().OnCacheHit(ctx, "unwrap")
				cached.CacheInfo = CacheInfo{Hit: true, Key: key}
				r.Logger.Debug("unwrap cache hit", "key", key)
				return cached, nil
			}
			// Undecodable entry, recompute and overwrite.
			_ = r.Cache.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, "unwrap")
	}

	unwrapStart := time.Now()
	observability.Unwrap().OnUnwrapStart(ctx, m.NumVertices(), m.NumTriangles())
	out, ures, err := unwrap.Unwrap(ctx, m, opts.unwrapParams())
	result.Stats.UnwrapTime = time.Since(unwrapStart)
	observability.Unwrap().OnUnwrapComplete(ctx, islandCount(ures), result.Stats.UnwrapTime, err)
	if err != nil {
		return nil, err
	}
	result.Mesh = out
	result.Unwrap = ures

	r.Logger.Info("unwrapped mesh",
		"islands", ures.NumIslands,
		"seams", ures.NumSeams,
		"duration", result.Stats.UnwrapTime)

	if !opts.SkipMetrics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		metricsStart := time.Now()
		result.Metrics = Measure(out, opts.CoverageResolution)
		result.Stats.MetricsTime = time.Since(metricsStart)

		r.Logger.Info("measured quality",
			"avg_stretch", result.Metrics.AvgStretch,
			"coverage", result.Metrics.Coverage,
			"duration", result.Stats.MetricsTime)
	}

	if data, err := encodeResult(result); err == nil {
		if err := r.Cache.Set(ctx, key, data, TTLUnwrap); err == nil {
			observability.Cache().OnCacheSet(ctx, "unwrap", len(data))
		} else {
			r.Logger.Debug("cache store failed", "error", err)
		}
	}

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Measure computes the quality metrics for a mesh with UVs.
func Measure(m *mesh.Mesh, coverageResolution int) Metrics {
	s := metrics.ComputeStretch(m)
	return Metrics{
		AvgStretch:      s.Avg,
		MaxStretch:      s.Max,
		Coverage:        metrics.ComputeCoverage(m, coverageResolution),
		AngleDistortion: metrics.ComputeAngleDistortion(m),
	}
}

func islandCount(r *unwrap.Result) int {
	if r == nil {
		return 0
	}
	return r.NumIslands
}
