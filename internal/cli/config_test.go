package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/uvwrap/pkg/pipeline"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Unwrap.AngleThreshold != pipeline.DefaultAngleThreshold {
		t.Errorf("AngleThreshold = %v, want %v", cfg.Unwrap.AngleThreshold, pipeline.DefaultAngleThreshold)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Serve.Addr)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uvwrap.toml")
	content := `
[unwrap]
angle_threshold = 45.0
min_island_faces = 4
pack = false

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[serve]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Unwrap.AngleThreshold != 45 {
		t.Errorf("AngleThreshold = %v, want 45", cfg.Unwrap.AngleThreshold)
	}
	if cfg.Unwrap.MinIslandFaces != 4 {
		t.Errorf("MinIslandFaces = %v, want 4", cfg.Unwrap.MinIslandFaces)
	}
	if cfg.Unwrap.Pack {
		t.Error("Pack = true, want false")
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache config = %+v", cfg.Cache)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Serve.Addr)
	}

	// Unset fields keep their defaults.
	if cfg.Unwrap.IslandMargin != pipeline.DefaultIslandMargin {
		t.Errorf("IslandMargin = %v, want default %v", cfg.Unwrap.IslandMargin, pipeline.DefaultIslandMargin)
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uvwrap.toml")
	if err := os.WriteFile(path, []byte("[unwrap\nbroken"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig accepted malformed TOML")
	}
}

func TestUnwrapConfigPipelineOptions(t *testing.T) {
	u := UnwrapConfig{AngleThreshold: 60, MinIslandFaces: 2, IslandMargin: 0.05, Pack: false, Workers: 3}
	opts := u.pipelineOptions()

	if opts.AngleThreshold != 60 || opts.MinIslandFaces != 2 || opts.IslandMargin != 0.05 || opts.Workers != 3 {
		t.Errorf("options = %+v", opts)
	}
	if opts.Pack == nil || *opts.Pack {
		t.Error("Pack should be explicitly false")
	}
}
