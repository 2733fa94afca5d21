// Package unwrap implements the automatic UV unwrapping pipeline.
//
// Given a triangulated 3D surface, the pipeline cuts it along a small set of
// seam edges, flattens each resulting island into 2D texture coordinates
// while minimizing angular distortion, and packs the islands into the unit
// texture square.
//
// # Architecture
//
// The pipeline consists of five stages, invoked in order by [Unwrap]:
//
//  1. Topology: derive the unique-edge/adjacency structure ([BuildTopology])
//  2. Seams: choose cut edges via a sharpness-weighted spanning tree over the
//     face dual graph plus angular-defect refinement ([DetectSeams])
//  3. Islands: connected-components labeling of faces under the non-seam
//     adjacency relation ([ExtractIslands])
//  4. Parameterization: per island, solve a least-squares conformal system
//     for angle-preserving 2D coordinates ([ParameterizeIsland])
//  5. Packing: shelf-pack all islands into a shared [0,1]² texture space
//
// Data flows strictly forward. Stages 1–3 require global graph state and run
// sequentially; stage 4 has no cross-island shared state and runs on a
// bounded worker pool.
//
// # Error Handling
//
// Only fully invalid top-level input (nil mesh, zero triangles, bad
// parameters) aborts an unwrap. Everything below that is best-effort:
// malformed triangles are skipped with a warning, non-manifold edges are
// logged and dropped, and a solver failure fails only its own island: that
// island's vertices keep zero UVs and the pipeline continues.
//
// The pipeline is a heuristic: it does not guarantee globally optimal seam
// placement or overlap-free packing for arbitrary inputs.
package unwrap
