package mouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/mazesense/internal/core/geometry"
	"github.com/zeusync/mazesense/internal/core/invariant"
	"github.com/zeusync/mazesense/internal/core/maze"
	"github.com/zeusync/mazesense/internal/core/observability/log"
	"github.com/zeusync/mazesense/internal/core/raycast"
	"github.com/zeusync/mazesense/internal/core/sensor"
	"github.com/zeusync/mazesense/internal/core/units"
)

var classic = raycast.NewWallGeometry(units.Millimeters(12), units.Millimeters(168))

func init() {
	invariant.SetLogger(log.Nop())
}

func sensorConfig(name string, x, y, dirDeg float64) SensorConfig {
	return SensorConfig{
		Name:       name,
		BodyRadius: units.Millimeters(5),
		Range:      units.Meters(0.3),
		HalfWidth:  units.Degrees(15),
		Position:   geometry.Coordinate{X: x, Y: y},
		Direction:  units.Degrees(dirDeg),
	}
}

func config() Config {
	return Config{
		Position:  geometry.Coordinate{X: 0.09, Y: 0.09},
		Direction: units.Degrees(90),
		Sensors: []SensorConfig{
			sensorConfig("front", 0.04, 0, 0),
			sensorConfig("left", 0.02, 0.03, 90),
			sensorConfig("right", 0.02, -0.03, -90),
		},
		Parallelism: 2,
	}
}

// openMaze has no walls near the lower-left corner where the mouse starts.
func openMaze(t *testing.T) *maze.Maze {
	t.Helper()
	m, err := maze.New(16, 16)
	require.NoError(t, err)
	return m
}

func newMouse(t *testing.T, m Maze) *Mouse {
	t.Helper()
	mouse, err := New(config(), classic, m, log.Nop())
	require.NoError(t, err)
	return mouse
}

func TestNewValidation(t *testing.T) {
	m := openMaze(t)

	_, err := New(Config{}, classic, m, log.Nop())
	assert.ErrorIs(t, err, ErrNoSensors)

	cfg := config()
	cfg.Sensors = append(cfg.Sensors, sensorConfig("front", 0, 0, 0))
	_, err = New(cfg, classic, m, log.Nop())
	assert.ErrorIs(t, err, ErrDuplicateSensor)

	cfg = config()
	cfg.Sensors[1].Range = units.Meters(0)
	_, err = New(cfg, classic, m, log.Nop())
	assert.ErrorIs(t, err, sensor.ErrInvalidParams)
	assert.Contains(t, err.Error(), "left")
}

func TestSensorPoseFollowsHeading(t *testing.T) {
	mouse := newMouse(t, openMaze(t))

	pos, dir, err := mouse.SensorPose("front")
	require.NoError(t, err)
	// heading north: forward offset maps onto +Y
	assert.InDelta(t, 0.09, pos.X, 1e-12)
	assert.InDelta(t, 0.13, pos.Y, 1e-12)
	assert.InDelta(t, 90.0, dir.Degrees(), 1e-9)

	pos, dir, err = mouse.SensorPose("right")
	require.NoError(t, err)
	assert.InDelta(t, 0.12, pos.X, 1e-12)
	assert.InDelta(t, 0.11, pos.Y, 1e-12)
	assert.InDelta(t, 0.0, dir.Degrees(), 1e-9)

	_, _, err = mouse.SensorPose("rear")
	assert.ErrorIs(t, err, ErrUnknownSensor)
}

func TestTickInOpenMaze(t *testing.T) {
	m := openMaze(t)
	mouse := newMouse(t, m)
	assert.Equal(t, []string{"front", "left", "right"}, mouse.SensorNames())

	mouse.SetPose(geometry.Coordinate{X: 1.5, Y: 1.5}, units.Degrees(33))
	readings, err := mouse.Tick(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, readings, 3)
	for _, r := range readings {
		assert.Equal(t, 0.0, r.Value, r.Name)
		assert.True(t, r.Enabled)
		assert.NotEqual(t, [16]byte{}, [16]byte(r.ID))
	}
	assert.Equal(t, uint64(1), mouse.Ticks())
}

func TestTickSeesWallAhead(t *testing.T) {
	m, err := maze.NewBounded(4, 4)
	require.NoError(t, err)
	mouse := newMouse(t, m)

	// facing the western boundary, 0.1m from its face
	mouse.SetPose(geometry.Coordinate{X: 0.146, Y: 0.36}, units.Degrees(180))
	_, err = mouse.Tick(context.Background(), m)
	require.NoError(t, err)

	readings := mouse.ReadingMap()
	assert.Greater(t, readings["front"], 0.0)
	assert.Less(t, readings["front"], 1.0)
	assert.Equal(t, 0.0, readings["left"])
	assert.Equal(t, 0.0, readings["right"])
}

func TestDisabledSensorKeepsReading(t *testing.T) {
	m, err := maze.NewBounded(4, 4)
	require.NoError(t, err)
	mouse := newMouse(t, m)

	require.NoError(t, mouse.SetEnabled("front", false))
	mouse.SetPose(geometry.Coordinate{X: 0.146, Y: 0.36}, units.Degrees(180))
	readings, err := mouse.Tick(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, 0.0, readings[0].Value)
	assert.False(t, readings[0].Enabled)

	require.NoError(t, mouse.SetEnabled("front", true))
	readings, err = mouse.Tick(context.Background(), m)
	require.NoError(t, err)
	assert.Greater(t, readings[0].Value, 0.0)

	assert.ErrorIs(t, mouse.SetEnabled("nope", true), ErrUnknownSensor)
}

func TestTickCancelled(t *testing.T) {
	m := openMaze(t)
	mouse := newMouse(t, m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := mouse.Tick(ctx, m)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(0), mouse.Ticks())
}

func TestViewPolygonsArePure(t *testing.T) {
	m, err := maze.NewBounded(4, 4)
	require.NoError(t, err)
	mouse := newMouse(t, m)
	mouse.SetPose(geometry.Coordinate{X: 0.146, Y: 0.36}, units.Degrees(180))

	before := mouse.ReadingMap()
	polys := mouse.ViewPolygons(m)
	require.Len(t, polys, 3)
	assert.Equal(t, sensor.NumberOfViewEdgePoints+1, polys["front"].Len())
	assert.Equal(t, before, mouse.ReadingMap())

	body := mouse.Body()
	require.Len(t, body, 3)
	pos, _, err := mouse.SensorPose("front")
	require.NoError(t, err)
	for _, v := range body[0].Vertices() {
		assert.InDelta(t, 0.005, v.DistanceTo(pos).Meters(), 1e-9)
	}
}

// shiftingMaze changes its fingerprint on every call, as if it were being
// edited while sensors cast rays.
type shiftingMaze struct {
	*maze.Maze
	calls uint64
}

func (s *shiftingMaze) Fingerprint() uint64 {
	s.calls++
	return s.calls
}

func TestTickRejectsMazeChanges(t *testing.T) {
	m := &shiftingMaze{Maze: openMaze(t)}
	mouse := newMouse(t, m)

	assert.Panics(t, func() {
		_, _ = mouse.Tick(context.Background(), m)
	})
}

func TestTickLogsEnabledCount(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := openMaze(t)
	mouse, err := New(config(), classic, m, log.FromZap(zap.New(core), log.LevelDebug))
	require.NoError(t, err)
	require.NoError(t, mouse.SetEnabled("left", false))

	_, err = mouse.Tick(context.Background(), m)
	require.NoError(t, err)

	entries := logs.FilterMessage("tick completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(2), fields["enabled"])
	assert.Equal(t, int64(3), fields["sensors"])
	assert.Equal(t, int64(1), fields["tick"])
}
