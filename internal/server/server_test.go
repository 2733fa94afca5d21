package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uvwrap/pkg/cache"
	"github.com/matzehuels/uvwrap/pkg/mesh"
	"github.com/matzehuels/uvwrap/pkg/pipeline"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewMemoryCache(), logger)
	t.Cleanup(func() { _ = runner.Close() })

	ts := httptest.NewServer(New(runner, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

// cubeRequest flattens a cube into the API's wire shape.
func cubeRequest(t *testing.T) map[string]any {
	t.Helper()
	m := mesh.Cube(1)
	verts := make([]float64, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		verts = append(verts, v.X, v.Y, v.Z)
	}
	tris := make([]int, 0, len(m.Triangles)*3)
	for _, tri := range m.Triangles {
		tris = append(tris, tri[0], tri[1], tri[2])
	}
	return map[string]any{"vertices": verts, "triangles": tris}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestUnwrapEndpoint(t *testing.T) {
	ts := testServer(t)
	resp := postJSON(t, ts.URL+"/api/unwrap", cubeRequest(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		UVs         []float64 `json:"uvs"`
		FaceIslands []int     `json:"face_islands"`
		NumIslands  int       `json:"num_islands"`
		NumSeams    int       `json:"num_seams"`
		CacheHit    bool      `json:"cache_hit"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out.UVs) != 16 { // 8 vertices × 2
		t.Errorf("uvs length = %d, want 16", len(out.UVs))
	}
	if len(out.FaceIslands) != 12 {
		t.Errorf("face_islands length = %d, want 12", len(out.FaceIslands))
	}
	if out.NumIslands < 1 || out.NumSeams < 1 {
		t.Errorf("islands/seams = %d/%d, want both positive", out.NumIslands, out.NumSeams)
	}
	if out.CacheHit {
		t.Error("first request reported a cache hit")
	}

	// Second identical request hits the cache.
	resp2 := postJSON(t, ts.URL+"/api/unwrap", cubeRequest(t))
	if err := json.NewDecoder(resp2.Body).Decode(&out); err != nil {
		t.Fatalf("decode second response: %v", err)
	}
	if !out.CacheHit {
		t.Error("second request missed the cache")
	}
}

func TestUnwrapEndpointBadRequests(t *testing.T) {
	ts := testServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"vertices not multiple of 3", map[string]any{
			"vertices": []float64{0, 0}, "triangles": []int{},
		}},
		{"triangles not multiple of 3", map[string]any{
			"vertices": []float64{0, 0, 0}, "triangles": []int{0, 1},
		}},
		{"empty mesh", map[string]any{
			"vertices": []float64{}, "triangles": []int{},
		}},
		{"bad options", func() map[string]any {
			req := map[string]any{
				"vertices":  []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
				"triangles": []int{0, 1, 2},
			}
			req["options"] = map[string]any{"island_margin": 5.0}
			return req
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/unwrap", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var e struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if e.Code == "" {
				t.Error("error response carries no code")
			}
		})
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	ts := testServer(t)

	req := map[string]any{
		"vertices":  []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
		"triangles": []int{0, 1, 2},
		"uvs":       []float64{0, 0, 1, 0, 0, 1},
	}
	resp := postJSON(t, ts.URL+"/api/analyze", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		Metrics pipeline.Metrics `json:"metrics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Metrics.AvgStretch < 1-1e-9 {
		t.Errorf("avg_stretch = %v, want ≥ 1", out.Metrics.AvgStretch)
	}
}

func TestAnalyzeEndpointUVLengthMismatch(t *testing.T) {
	ts := testServer(t)

	req := map[string]any{
		"vertices":  []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
		"triangles": []int{0, 1, 2},
		"uvs":       []float64{0, 0},
	}
	resp := postJSON(t, ts.URL+"/api/analyze", req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
