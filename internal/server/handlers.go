package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/uvwrap/pkg/errors"
	"github.com/matzehuels/uvwrap/pkg/mesh"
	"github.com/matzehuels/uvwrap/pkg/pipeline"
)

// maxBodyBytes caps request bodies; a million-vertex mesh in JSON stays
// comfortably below this.
const maxBodyBytes = 256 << 20

// unwrapRequest is the JSON body for POST /api/unwrap and /api/analyze.
type unwrapRequest struct {
	// Vertices is a flat array of xyz triples.
	Vertices []float64 `json:"vertices"`

	// Triangles is a flat array of vertex-index triples.
	Triangles []int `json:"triangles"`

	// UVs is a flat array of uv pairs, only consulted by /api/analyze.
	UVs []float64 `json:"uvs,omitempty"`

	// Options forwards pipeline parameters.
	Options pipeline.Options `json:"options"`
}

// unwrapResponse is the JSON reply for POST /api/unwrap.
type unwrapResponse struct {
	UVs         []float64        `json:"uvs"`
	FaceIslands []int            `json:"face_islands"`
	NumIslands  int              `json:"num_islands"`
	NumSeams    int              `json:"num_seams"`
	Metrics     pipeline.Metrics `json:"metrics"`
	CacheHit    bool             `json:"cache_hit"`
}

// errorResponse carries a machine-readable code plus a human message.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleUnwrap(w http.ResponseWriter, r *http.Request) {
	req, m, ok := s.decodeMesh(w, r)
	if !ok {
		return
	}

	result, err := s.runner.Execute(r.Context(), m, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	uvs := make([]float64, 0, len(result.Mesh.UVs)*2)
	for _, uv := range result.Mesh.UVs {
		uvs = append(uvs, uv.X, uv.Y)
	}
	writeJSON(w, http.StatusOK, unwrapResponse{
		UVs:         uvs,
		FaceIslands: result.Unwrap.FaceIslands,
		NumIslands:  result.Unwrap.NumIslands,
		NumSeams:    result.Unwrap.NumSeams,
		Metrics:     result.Metrics,
		CacheHit:    result.CacheInfo.Hit,
	})
}

// handleAnalyze measures an existing UV layout without re-unwrapping.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, m, ok := s.decodeMesh(w, r)
	if !ok {
		return
	}
	if len(req.UVs) != len(m.Vertices)*2 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"uvs length %d, want %d (2 per vertex)", len(req.UVs), len(m.Vertices)*2))
		return
	}
	m.UVs = make([]mesh.Vec2, len(m.Vertices))
	for i := range m.UVs {
		m.UVs[i] = mesh.Vec2{X: req.UVs[2*i], Y: req.UVs[2*i+1]}
	}

	opts := req.Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"metrics": pipeline.Measure(m, opts.CoverageResolution),
	})
}

// decodeMesh parses and validates the shared request body. On failure it
// writes the error response and returns ok=false.
func (s *Server) decodeMesh(w http.ResponseWriter, r *http.Request) (unwrapRequest, *mesh.Mesh, bool) {
	var req unwrapRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return req, nil, false
	}

	if len(req.Vertices)%3 != 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"vertices length %d is not a multiple of 3", len(req.Vertices)))
		return req, nil, false
	}
	if len(req.Triangles)%3 != 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"triangles length %d is not a multiple of 3", len(req.Triangles)))
		return req, nil, false
	}

	m := &mesh.Mesh{}
	for i := 0; i+2 < len(req.Vertices); i += 3 {
		m.Vertices = append(m.Vertices, mesh.Vec3{
			X: req.Vertices[i], Y: req.Vertices[i+1], Z: req.Vertices[i+2],
		})
	}
	for i := 0; i+2 < len(req.Triangles); i += 3 {
		m.Triangles = append(m.Triangles, [3]int{
			req.Triangles[i], req.Triangles[i+1], req.Triangles[i+2],
		})
	}
	return req, m, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses and emits the JSON error
// shape.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMesh, errors.ErrCodeInvalidParams:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}
