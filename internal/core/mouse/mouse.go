// Package mouse holds an agent and the distance sensors mounted on it.
package mouse

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zeusync/mazesense/internal/core/geometry"
	"github.com/zeusync/mazesense/internal/core/invariant"
	"github.com/zeusync/mazesense/internal/core/observability/log"
	"github.com/zeusync/mazesense/internal/core/raycast"
	"github.com/zeusync/mazesense/internal/core/sensor"
	"github.com/zeusync/mazesense/internal/core/units"
	"github.com/zeusync/mazesense/pkg/concurrent"
	"github.com/zeusync/mazesense/pkg/sequence"
)

// Maze is what the mouse reads during a tick. The fingerprint lets the mouse
// verify that the maze did not change while its sensors were casting.
type Maze interface {
	raycast.Walls
	Fingerprint() uint64
}

// SensorConfig describes a sensor mount in the mouse frame: X is forward,
// Y is to the left, directions are relative to the mouse heading.
type SensorConfig struct {
	Name       string
	BodyRadius units.Distance
	Range      units.Distance
	HalfWidth  units.Angle
	Position   geometry.Coordinate
	Direction  units.Angle
}

// Config is the initial state of a mouse.
type Config struct {
	Position    geometry.Coordinate
	Direction   units.Angle
	Sensors     []SensorConfig
	Parallelism int
}

// Mounted is a sensor together with where it sits on the mouse.
type Mounted struct {
	ID        uuid.UUID
	Name      string
	Offset    geometry.Coordinate
	Direction units.Angle
	Sensor    *sensor.Sensor

	enabled bool
}

func (m *Mounted) IsEnabled() bool { return m.enabled }

// Reading is one sensor's value after a tick.
type Reading struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Value   float64   `json:"value"`
	Enabled bool      `json:"enabled"`
}

// Mouse is driven by a single simulation loop: SetPose and Tick must not be
// called concurrently.
type Mouse struct {
	geom        raycast.WallGeometry
	position    geometry.Coordinate
	direction   units.Angle
	sensors     []*Mounted
	byName      map[string]*Mounted
	parallelism int
	tick        uint64
	logger      log.Log
}

// New mounts every configured sensor and seeds its reading at the initial pose.
func New(cfg Config, geom raycast.WallGeometry, maze Maze, logger log.Log) (*Mouse, error) {
	if len(cfg.Sensors) == 0 {
		return nil, ErrNoSensors
	}
	if logger == nil {
		logger = log.Provide()
	}

	m := &Mouse{
		geom:        geom,
		position:    cfg.Position,
		direction:   cfg.Direction,
		byName:      make(map[string]*Mounted, len(cfg.Sensors)),
		parallelism: cfg.Parallelism,
		logger:      logger,
	}

	for _, sc := range cfg.Sensors {
		if _, exists := m.byName[sc.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSensor, sc.Name)
		}

		pos, dir := m.worldPose(sc.Position, sc.Direction)
		s, err := sensor.New(sensor.Params{
			BodyRadius: sc.BodyRadius,
			Range:      sc.Range,
			HalfWidth:  sc.HalfWidth,
			Position:   pos,
			Direction:  dir,
		}, geom, maze, sensor.WithLogger(logger.With(log.String("sensor", sc.Name))))
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", sc.Name, err)
		}

		mounted := &Mounted{
			ID:        uuid.New(),
			Name:      sc.Name,
			Offset:    sc.Position,
			Direction: sc.Direction,
			Sensor:    s,
			enabled:   true,
		}
		m.sensors = append(m.sensors, mounted)
		m.byName[sc.Name] = mounted
	}

	m.logger.Info("mouse created",
		log.Int("sensors", len(m.sensors)),
		log.Float64("x", m.position.X),
		log.Float64("y", m.position.Y),
	)
	return m, nil
}

// worldPose maps a mount in the mouse frame to maze coordinates.
func (m *Mouse) worldPose(offset geometry.Coordinate, dir units.Angle) (geometry.Coordinate, units.Angle) {
	return m.position.Add(offset.Rotate(m.direction)), m.direction.Add(dir)
}

// SetPose moves the mouse. Readings are not updated until the next Tick.
func (m *Mouse) SetPose(position geometry.Coordinate, direction units.Angle) {
	m.position = position
	m.direction = direction
}

func (m *Mouse) Position() geometry.Coordinate { return m.position }
func (m *Mouse) Direction() units.Angle        { return m.direction }
func (m *Mouse) Ticks() uint64                 { return m.tick }

// Sensor looks a mounted sensor up by name.
func (m *Mouse) Sensor(name string) (*Mounted, error) {
	s, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSensor, name)
	}
	return s, nil
}

// SensorNames returns the mounted sensor names in mount order.
func (m *Mouse) SensorNames() []string {
	return sequence.ToArray(sequence.From(m.sensors), func(s *Mounted) string { return s.Name })
}

// SetEnabled turns a sensor on or off. Disabled sensors keep their last reading.
func (m *Mouse) SetEnabled(name string, enabled bool) error {
	s, err := m.Sensor(name)
	if err != nil {
		return err
	}
	s.enabled = enabled
	return nil
}

// SensorPose returns where a sensor currently sits in the maze.
func (m *Mouse) SensorPose(name string) (geometry.Coordinate, units.Angle, error) {
	s, err := m.Sensor(name)
	if err != nil {
		return geometry.Coordinate{}, units.Angle{}, err
	}
	pos, dir := m.worldPose(s.Offset, s.Direction)
	return pos, dir, nil
}

// Tick updates every enabled sensor for the current pose. Sensors are
// updated in parallel, each by exactly one goroutine; maze must not change
// until Tick returns.
func (m *Mouse) Tick(ctx context.Context, maze Maze) ([]Reading, error) {
	fingerprint := maze.Fingerprint()

	active := sequence.From(m.sensors).Filter((*Mounted).IsEnabled)
	enabled := active.Collect()

	err := concurrent.ForEach(ctx, enabled, m.parallelism, func(_ context.Context, s *Mounted) error {
		pos, dir := m.worldPose(s.Offset, s.Direction)
		s.Sensor.UpdateReading(pos, dir, maze)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tick %d: %w", m.tick+1, err)
	}

	after := maze.Fingerprint()
	invariant.Check(after == fingerprint, "maze unchanged during tick",
		log.Int64("before", int64(fingerprint)),
		log.Int64("after", int64(after)),
	)

	m.tick++
	readings := m.Readings()
	if m.logger.GetLevel() == log.LevelDebug {
		m.logger.Debug("tick completed",
			log.Int64("tick", int64(m.tick)),
			log.Int("enabled", active.Count()),
			log.Int("sensors", len(m.sensors)),
		)
		for _, r := range readings {
			m.logger.Debug("tick reading",
				log.Int64("tick", int64(m.tick)),
				log.String("sensor", r.Name),
				log.Float64("value", r.Value),
			)
		}
	}
	return readings, nil
}

// Readings returns the last reading of every sensor in mount order.
func (m *Mouse) Readings() []Reading {
	out := make([]Reading, len(m.sensors))
	for i, s := range m.sensors {
		out[i] = Reading{ID: s.ID, Name: s.Name, Value: s.Sensor.Read(), Enabled: s.enabled}
	}
	return out
}

// ReadingMap is Readings keyed by sensor name.
func (m *Mouse) ReadingMap() map[string]float64 {
	return sequence.ToMap(sequence.From(m.sensors),
		func(s *Mounted) string { return s.Name },
		func(s *Mounted) float64 { return s.Sensor.Read() },
	)
}

// ViewPolygons recomputes every sensor's view at the current pose, for
// rendering. It does not change any reading.
func (m *Mouse) ViewPolygons(maze Maze) map[string]geometry.Polygon {
	polys := concurrent.ParallelMap(m.sensors, m.parallelism, func(s *Mounted) geometry.Polygon {
		pos, dir := m.worldPose(s.Offset, s.Direction)
		return s.Sensor.CurrentViewPolygon(pos, dir, maze)
	})

	out := make(map[string]geometry.Polygon, len(polys))
	for i, p := range polys {
		out[m.sensors[i].Name] = p
	}
	return out
}

// Body returns the sensor housings at the current pose, in mount order.
func (m *Mouse) Body() []geometry.Polygon {
	out := make([]geometry.Polygon, len(m.sensors))
	for i, s := range m.sensors {
		pos, _ := m.worldPose(s.Offset, s.Direction)
		out[i] = s.Sensor.InitialPolygon().Translate(pos.Sub(s.Sensor.InitialPosition()))
	}
	return out
}
