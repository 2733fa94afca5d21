package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/uvwrap/pkg/cache"
	"github.com/matzehuels/uvwrap/pkg/errors"
	"github.com/matzehuels/uvwrap/pkg/pipeline"
)

// Config is the on-disk CLI configuration, loaded from uvwrap.toml.
type Config struct {
	Unwrap UnwrapConfig `toml:"unwrap"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// UnwrapConfig sets defaults for the unwrap and batch commands; flags
// override these.
type UnwrapConfig struct {
	AngleThreshold float64 `toml:"angle_threshold"`
	MinIslandFaces int     `toml:"min_island_faces"`
	IslandMargin   float64 `toml:"island_margin"`
	Pack           bool    `toml:"pack"`
	Workers        int     `toml:"workers"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of: file, memory, redis, mongo, none.
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`

	// Redis settings (backend = "redis").
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// Mongo settings (backend = "mongo").
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServeConfig configures the serve command.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no uvwrap.toml exists.
func DefaultConfig() *Config {
	return &Config{
		Unwrap: UnwrapConfig{
			AngleThreshold: pipeline.DefaultAngleThreshold,
			MinIslandFaces: pipeline.DefaultMinIslandFaces,
			IslandMargin:   pipeline.DefaultIslandMargin,
			Pack:           true,
		},
		Cache: CacheConfig{
			Backend:         "file",
			MongoDatabase:   appName,
			MongoCollection: "results",
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// LoadConfig reads the TOML config at path, or searches the XDG config
// directory when path is empty. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	if err := errors.ValidateFilePath(path); err != nil {
		return nil, err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, nil
}

// defaultConfigPath returns ~/.config/uvwrap/uvwrap.toml (or the XDG
// equivalent), empty when no home directory is resolvable.
func defaultConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "uvwrap.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "uvwrap.toml")
}

// pipelineOptions converts configured unwrap defaults into pipeline options.
func (u UnwrapConfig) pipelineOptions() pipeline.Options {
	pack := u.Pack
	return pipeline.Options{
		AngleThreshold: u.AngleThreshold,
		MinIslandFaces: u.MinIslandFaces,
		IslandMargin:   u.IslandMargin,
		Pack:           &pack,
		Workers:        u.Workers,
	}
}

// open builds the configured cache backend.
func (cc CacheConfig) open(ctx context.Context) (cache.Cache, error) {
	switch cc.Backend {
	case "", "file":
		dir := cc.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		if err := errors.ValidateRedisAddr(cc.RedisAddr); err != nil {
			return nil, err
		}
		c, err := cache.NewRedisCache(ctx, cc.RedisAddr, cc.RedisPassword, cc.RedisDB)
		if err != nil {
			return nil, err
		}
		// Shared servers hold keys from other tools; keep ours in one namespace.
		return cache.NewScoped(c, appName+":"), nil
	case "mongo":
		if err := errors.ValidateMongoURI(cc.MongoURI); err != nil {
			return nil, err
		}
		c, err := cache.NewMongoCache(ctx, cc.MongoURI, cc.MongoDatabase, cc.MongoCollection)
		if err != nil {
			return nil, err
		}
		return cache.NewScoped(c, appName+":"), nil
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported,
			"unknown cache backend %q (file, memory, redis, mongo, none)", cc.Backend)
	}
}
