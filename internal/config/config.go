// Package config holds the file-driven settings of a simulation run.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zeusync/mazesense/internal/core/geometry"
	"github.com/zeusync/mazesense/internal/core/maze"
	"github.com/zeusync/mazesense/internal/core/mouse"
	"github.com/zeusync/mazesense/internal/core/raycast"
	"github.com/zeusync/mazesense/internal/core/units"
	"github.com/zeusync/mazesense/internal/simulation"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root of a run configuration.
type Config struct {
	Log        LogConfig        `json:"log" yaml:"log"`
	Maze       MazeConfig       `json:"maze" yaml:"maze"`
	Mouse      MouseConfig      `json:"mouse" yaml:"mouse"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Telemetry  TelemetryConfig  `json:"telemetry" yaml:"telemetry"`
}

type LogConfig struct {
	Level    string `json:"level" yaml:"level"`       // debug, info, warn, error
	Encoding string `json:"encoding" yaml:"encoding"` // json or console
}

// MazeConfig points at a map file or carries the layout inline. Lengths are meters.
type MazeConfig struct {
	File       string  `json:"file,omitempty" yaml:"file,omitempty"`
	Layout     string  `json:"layout,omitempty" yaml:"layout,omitempty"`
	WallWidth  float64 `json:"wall_width" yaml:"wall_width"`
	WallLength float64 `json:"wall_length" yaml:"wall_length"`
}

type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Point) Coordinate() geometry.Coordinate {
	return geometry.Coordinate{X: p.X, Y: p.Y}
}

type SensorConfig struct {
	Name             string  `json:"name" yaml:"name"`
	BodyRadius       float64 `json:"body_radius" yaml:"body_radius"`
	Range            float64 `json:"range" yaml:"range"`
	HalfWidthDegrees float64 `json:"half_width_degrees" yaml:"half_width_degrees"`
	Position         Point   `json:"position" yaml:"position"`
	DirectionDegrees float64 `json:"direction_degrees" yaml:"direction_degrees"`
}

type MouseConfig struct {
	Position         Point          `json:"position" yaml:"position"`
	DirectionDegrees float64        `json:"direction_degrees" yaml:"direction_degrees"`
	Sensors          []SensorConfig `json:"sensors" yaml:"sensors"`
}

type Waypoint struct {
	X                float64 `json:"x" yaml:"x"`
	Y                float64 `json:"y" yaml:"y"`
	DirectionDegrees float64 `json:"direction_degrees" yaml:"direction_degrees"`
}

type SimulationConfig struct {
	StepsPerSegment int        `json:"steps_per_segment" yaml:"steps_per_segment"`
	Parallelism     int        `json:"parallelism" yaml:"parallelism"`
	Trajectory      []Waypoint `json:"trajectory" yaml:"trajectory"`
}

type TelemetryConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr" yaml:"addr"`
}

// Default returns a classic 16x16 micromouse setup with four sensors.
func Default() *Config {
	sensor := func(name string, x, y, dir float64) SensorConfig {
		return SensorConfig{
			Name:             name,
			BodyRadius:       0.005,
			Range:            0.3,
			HalfWidthDegrees: 15,
			Position:         Point{X: x, Y: y},
			DirectionDegrees: dir,
		}
	}
	return &Config{
		Log: LogConfig{Level: "info", Encoding: "json"},
		Maze: MazeConfig{
			WallWidth:  0.012,
			WallLength: 0.168,
		},
		Mouse: MouseConfig{
			Position:         Point{X: 0.09, Y: 0.09},
			DirectionDegrees: 90,
			Sensors: []SensorConfig{
				sensor("front-left", 0.04, 0.02, 0),
				sensor("front-right", 0.04, -0.02, 0),
				sensor("left", 0.03, 0.03, 60),
				sensor("right", 0.03, -0.03, -60),
			},
		},
		Simulation: SimulationConfig{
			StepsPerSegment: 10,
			Parallelism:     4,
		},
		Telemetry: TelemetryConfig{Addr: "127.0.0.1:8090"},
	}
}

// Validate checks the settings that cannot be checked by the components
// themselves before a maze exists.
func (c *Config) Validate() error {
	var problems []string

	if c.Maze.File == "" && strings.TrimSpace(c.Maze.Layout) == "" {
		problems = append(problems, "maze file or layout is required")
	}
	if c.Maze.File != "" && c.Maze.Layout != "" {
		problems = append(problems, "maze file and layout are mutually exclusive")
	}
	if !c.WallGeometry().Valid() {
		problems = append(problems, fmt.Sprintf("wall width %g / length %g do not form a valid tile", c.Maze.WallWidth, c.Maze.WallLength))
	}
	if len(c.Mouse.Sensors) == 0 {
		problems = append(problems, "at least one sensor is required")
	}
	seen := make(map[string]bool, len(c.Mouse.Sensors))
	for i, s := range c.Mouse.Sensors {
		if s.Name == "" {
			problems = append(problems, fmt.Sprintf("sensor %d has no name", i))
		}
		if seen[s.Name] {
			problems = append(problems, fmt.Sprintf("sensor %q is defined twice", s.Name))
		}
		seen[s.Name] = true
	}
	if c.Simulation.StepsPerSegment <= 0 {
		problems = append(problems, "simulation.steps_per_segment must be positive")
	}
	if c.Simulation.Parallelism < 0 {
		problems = append(problems, "simulation.parallelism must not be negative")
	}
	if c.Telemetry.Enabled && c.Telemetry.Addr == "" {
		problems = append(problems, "telemetry.addr is required when telemetry is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// WallGeometry converts the maze dimensions for the ray caster.
func (c *Config) WallGeometry() raycast.WallGeometry {
	return raycast.NewWallGeometry(units.Meters(c.Maze.WallWidth), units.Meters(c.Maze.WallLength))
}

// MouseConfig converts the mouse section into the agent's own config.
func (c *Config) MouseConfig() mouse.Config {
	sensors := make([]mouse.SensorConfig, len(c.Mouse.Sensors))
	for i, s := range c.Mouse.Sensors {
		sensors[i] = mouse.SensorConfig{
			Name:       s.Name,
			BodyRadius: units.Meters(s.BodyRadius),
			Range:      units.Meters(s.Range),
			HalfWidth:  units.Degrees(s.HalfWidthDegrees),
			Position:   s.Position.Coordinate(),
			Direction:  units.Degrees(s.DirectionDegrees),
		}
	}
	return mouse.Config{
		Position:    c.Mouse.Position.Coordinate(),
		Direction:   units.Degrees(c.Mouse.DirectionDegrees),
		Sensors:     sensors,
		Parallelism: c.Simulation.Parallelism,
	}
}

// Poses expands the trajectory into one pose per tick. Without a trajectory
// the mouse stays at its initial pose for a single tick.
func (c *Config) Poses() []simulation.Pose {
	if len(c.Simulation.Trajectory) == 0 {
		return []simulation.Pose{{
			Position:  c.Mouse.Position.Coordinate(),
			Direction: units.Degrees(c.Mouse.DirectionDegrees),
		}}
	}
	waypoints := make([]simulation.Pose, len(c.Simulation.Trajectory))
	for i, w := range c.Simulation.Trajectory {
		waypoints[i] = simulation.Pose{
			Position:  geometry.Coordinate{X: w.X, Y: w.Y},
			Direction: units.Degrees(w.DirectionDegrees),
		}
	}
	return simulation.Interpolate(waypoints, c.Simulation.StepsPerSegment)
}

// LoadMaze reads the maze from the configured file or inline layout.
func (c *Config) LoadMaze() (*maze.Maze, error) {
	if c.Maze.File != "" {
		return maze.LoadFile(c.Maze.File)
	}
	return maze.Parse(strings.NewReader(c.Maze.Layout))
}
