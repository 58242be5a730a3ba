// Package config loads and validates the optional .aseprite-mcp.yaml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = ".aseprite-mcp.yaml"

// OutputDirEnv overrides Config.OutputDir.
const OutputDirEnv = "ASEPRITE_OUTPUT_DIR"

// DefaultHistoryCapacity is the number of runs kept for inspect_run.
const DefaultHistoryCapacity = 32

// Config holds the parsed configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version    int           `yaml:"version"`
	Executable string        `yaml:"executable"` // explicit Aseprite path, skips discovery
	OutputDir  string        `yaml:"output_dir"` // base for relative output paths
	History    HistoryConfig `yaml:"history"`
	Log        LogConfig     `yaml:"log"`
	HTTP       HTTPConfig    `yaml:"http"`
}

// HistoryConfig controls how run results are retained.
type HistoryConfig struct {
	Capacity int  `yaml:"capacity"` // in-memory entries (default: 32)
	Persist  bool `yaml:"persist"`  // spill results to a temp directory as JSON
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format"` // console or json (default: console)
}

// HTTPConfig controls the streamable HTTP transport.
type HTTPConfig struct {
	Addr string `yaml:"addr"` // e.g. ":9090"; empty serves stdio
}

// HistoryCapacity returns the configured capacity or the default.
func (c *Config) HistoryCapacity() int {
	if c.History.Capacity > 0 {
		return c.History.Capacity
	}
	return DefaultHistoryCapacity
}

// ResolveOutputPath joins a relative path onto OutputDir. Absolute
// paths, and all paths when OutputDir is unset, are returned unchanged.
func (c *Config) ResolveOutputPath(path string) string {
	if c.OutputDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.OutputDir, path)
}

// Load reads the config file at path. An empty path means FileName in
// dir. A missing file yields a default Config, except when path was
// given explicitly. Environment overrides are applied last.
func Load(path, dir string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if v := os.Getenv(OutputDirEnv); v != "" {
		cfg.OutputDir = v
	}
	return cfg, nil
}

// EnsureOutputDir creates OutputDir if it is set.
func (c *Config) EnsureOutputDir() error {
	if c.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}
