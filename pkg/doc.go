// Package pkg provides the core libraries for uvwrap automatic UV unwrapping.
//
// # Overview
//
// uvwrap takes a triangle mesh and produces a UV atlas: seams are cut along
// sharp features, the mesh is split into islands, each island is flattened
// with a least-squares conformal map, and the islands are packed into the
// unit square. The pkg directory is organized into these areas:
//
//  1. [mesh] - Mesh representation, OBJ I/O, and test primitives
//  2. [unwrap] - The unwrapping core (topology, seams, islands, LSCM, packing)
//  3. [metrics] - Atlas quality measurement (stretch, coverage, distortion)
//  4. [render] - Atlas previews (PNG) and island graphs (Graphviz)
//  5. [pipeline] - Orchestration with caching, used by CLI and server
//  6. [cache] - Result cache backends (file, memory, Redis, MongoDB)
//
// # Architecture
//
// The typical data flow through uvwrap:
//
//	OBJ file / API request
//	         ↓
//	    [mesh] package (load + validate)
//	         ↓
//	    [unwrap] package (topology → seams → islands → LSCM → pack)
//	         ↓
//	    [metrics] package (stretch, coverage, angle distortion)
//	         ↓
//	    OBJ/PNG/SVG/JSON output
//
// # Quick Start
//
// Unwrap a mesh and inspect the result:
//
//	import (
//	    "github.com/matzehuels/uvwrap/pkg/mesh"
//	    "github.com/matzehuels/uvwrap/pkg/unwrap"
//	)
//
//	m, _ := mesh.ReadOBJFile("bunny.obj")
//	out, result, _ := unwrap.Unwrap(ctx, m, unwrap.DefaultParams())
//	fmt.Printf("%d islands, %d seams\n", result.NumIslands, result.NumSeams)
//	_ = mesh.WriteOBJFile("bunny_unwrapped.obj", out)
//
// Or run the full pipeline with caching:
//
//	import (
//	    "github.com/matzehuels/uvwrap/pkg/cache"
//	    "github.com/matzehuels/uvwrap/pkg/pipeline"
//	)
//
//	c, _ := cache.NewFileCache(dir)
//	runner := pipeline.NewRunner(c, logger)
//	res, _ := runner.Execute(ctx, m, pipeline.Options{})
//
// # Main Packages
//
// [mesh] - Triangle mesh with positions, per-vertex UVs, and face table.
// Wavefront OBJ reader/writer and procedural primitives (cube, sphere,
// strip) used throughout the tests.
//
// [unwrap] - The unwrapping core. Topology construction with canonical edge
// keys, sharpness-weighted seam detection over the face adjacency graph,
// island extraction, per-island LSCM parameterization (gonum), and shelf
// packing. All stages are deterministic for a given input.
//
// [metrics] - Quality measures computed from a parameterized mesh: singular
// value stretch of the 3D→UV map, rasterized coverage, and per-corner angle
// distortion.
//
// [render] - Atlas rasterization to PNG and island adjacency graphs rendered
// to DOT/SVG via Graphviz.
//
// [pipeline] - Ties unwrapping, metrics, and caching together. Used by the
// CLI, the batch runner, and the HTTP server so all entry points behave the
// same.
//
// [cache] - Content-addressed result cache keyed by mesh bytes and
// parameters. FileCache for the CLI, MemoryCache for testing, RedisCache
// and MongoCache for server deployments.
//
// [errors] - Coded errors shared across packages, mapped to exit codes and
// HTTP statuses at the edges.
//
// [observability] - Hook interfaces for unwrap, cache, and server events.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/unwrap/...     # Specific package
//
// [mesh]: https://pkg.go.dev/github.com/matzehuels/uvwrap/pkg/mesh
// [unwrap]: https://pkg.go.dev/github.com/matzehuels/uvwrap/pkg/unwrap
// [metrics]: https://pkg.go.dev/github.com/matzehuels/uvwrap/pkg/metrics
// [render]: https://pkg.go.dev/github.com/matzehuels/uvwrap/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/uvwrap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/uvwrap/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/uvwrap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/uvwrap/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/uvwrap/pkg/buildinfo
package pkg
