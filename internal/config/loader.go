package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadJSON loads config from JSON reader on top of the defaults. A sensor
// list in the input replaces the default sensors entirely: listed sensors
// start from zero values instead of inheriting from the default at the same
// index.
func LoadJSON(r io.Reader) (*Config, error) {
	c := Default()
	c.Mouse.Sensors = nil
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return nil, err
	}
	return withDefaultSensors(c), nil
}

// LoadYAML loads config from YAML reader on top of the defaults, with the
// same sensor rules as LoadJSON.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	c.Mouse.Sensors = nil
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, err
	}
	return withDefaultSensors(c), nil
}

// withDefaultSensors restores the default sensors when the input had no
// sensor list at all.
func withDefaultSensors(c *Config) *Config {
	if c.Mouse.Sensors == nil {
		c.Mouse.Sensors = Default().Mouse.Sensors
	}
	return c
}

// LoadFile picks the decoder from the file extension and validates the
// result. A relative maze file is resolved against the config's directory.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()

	var c *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		c, err = LoadJSON(f)
	case ".yaml", ".yml":
		c, err = LoadYAML(f)
	default:
		return nil, fmt.Errorf("%w: unsupported config extension %q", ErrInvalidConfig, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if c.Maze.File != "" && !filepath.IsAbs(c.Maze.File) {
		c.Maze.File = filepath.Join(filepath.Dir(path), c.Maze.File)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return c, nil
}
