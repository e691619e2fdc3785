// Package config loads the culling and logging settings of bvcull tools
// from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/akmonengine/bvcull"
	"github.com/akmonengine/bvcull/log"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
	ErrInvalid           = errors.New("config: invalid value")
)

type Config struct {
	Culling Culling `toml:"culling" yaml:"culling"`
	BVH     BVH     `toml:"bvh" yaml:"bvh"`
	Log     Log     `toml:"log" yaml:"log"`
}

type Culling struct {
	// Scheme is one of "sphere", "aabb" or "obb".
	Scheme         string `toml:"scheme" yaml:"scheme"`
	PlaneCoherency bool   `toml:"plane_coherency" yaml:"plane_coherency"`
	Workers        int    `toml:"workers" yaml:"workers"`
}

type BVH struct {
	// LogBuildStats raises the bvh logger to debug so every build reports
	// its timing and shape.
	LogBuildStats bool `toml:"log_build_stats" yaml:"log_build_stats"`
}

type Log struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Culling: Culling{
			Scheme:         bvcull.SchemeOBB.String(),
			PlaneCoherency: true,
			Workers:        bvcull.DEFAULT_WORKERS,
		},
		Log: Log{Level: log.Notice.String()},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .toml, .yaml or .yml. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks every field can be turned into a setting.
func (c Config) Validate() error {
	if _, err := bvcull.ParseScheme(c.Culling.Scheme); err != nil {
		return fmt.Errorf("%w: culling.scheme: %v", ErrInvalid, err)
	}
	if c.Culling.Workers < 1 {
		return fmt.Errorf("%w: culling.workers must be at least 1, got %d", ErrInvalid, c.Culling.Workers)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return nil
}

// Culler returns a culler with the configured scheme and coherency.
func (c Config) Culler() (*bvcull.Culler, error) {
	scheme, err := bvcull.ParseScheme(c.Culling.Scheme)
	if err != nil {
		return nil, fmt.Errorf("%w: culling.scheme: %v", ErrInvalid, err)
	}
	return bvcull.NewCuller(scheme, c.Culling.PlaneCoherency), nil
}

// Scene returns an empty scene wired to the configured culler and workers.
func (c Config) Scene(batcher bvcull.DrawBatcher) (*bvcull.Scene, error) {
	culler, err := c.Culler()
	if err != nil {
		return nil, err
	}

	scene := bvcull.NewScene(culler, batcher)
	scene.Workers = c.Culling.Workers
	return scene, nil
}

// ApplyLogging sets the global and bvh log levels.
func (c Config) ApplyLogging() error {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}

	log.SetLevel(level)
	if c.BVH.LogBuildStats {
		log.SetModuleLevel("bvh", log.Debug)
	}
	return nil
}
