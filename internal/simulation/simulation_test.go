package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/mazesense/internal/core/geometry"
	"github.com/zeusync/mazesense/internal/core/invariant"
	"github.com/zeusync/mazesense/internal/core/maze"
	"github.com/zeusync/mazesense/internal/core/mouse"
	"github.com/zeusync/mazesense/internal/core/observability/log"
	"github.com/zeusync/mazesense/internal/core/raycast"
	"github.com/zeusync/mazesense/internal/core/units"
)

func init() {
	invariant.SetLogger(log.Nop())
}

func pose(x, y, deg float64) Pose {
	return Pose{Position: geometry.Coordinate{X: x, Y: y}, Direction: units.Degrees(deg)}
}

func TestInterpolate(t *testing.T) {
	poses := Interpolate([]Pose{pose(0, 0, 350), pose(0.4, 0.2, 10)}, 4)
	require.Len(t, poses, 5)

	assert.InDelta(t, 0.1, poses[1].Position.X, 1e-12)
	assert.InDelta(t, 0.05, poses[1].Position.Y, 1e-12)
	// turns through north-east, not the long way round
	assert.InDelta(t, 355.0, poses[1].Direction.Degrees(), 1e-9)
	assert.InDelta(t, 365.0, poses[3].Direction.Degrees(), 1e-9)
	assert.Equal(t, pose(0.4, 0.2, 10), poses[4])
}

func TestInterpolateEdgeCases(t *testing.T) {
	assert.Nil(t, Interpolate(nil, 3))
	assert.Equal(t, []Pose{pose(1, 1, 0)}, Interpolate([]Pose{pose(1, 1, 0)}, 3))
	assert.Len(t, Interpolate([]Pose{pose(0, 0, 0), pose(1, 0, 0)}, 0), 2)
}

func newRunner(t *testing.T, sinks ...Sink) *Runner {
	t.Helper()
	m, err := maze.NewBounded(4, 4)
	require.NoError(t, err)

	geom := raycast.NewWallGeometry(units.Millimeters(12), units.Millimeters(168))
	mo, err := mouse.New(mouse.Config{
		Position:  geometry.Coordinate{X: 0.5, Y: 0.36},
		Direction: units.Degrees(180),
		Sensors: []mouse.SensorConfig{{
			Name:       "front",
			BodyRadius: units.Millimeters(5),
			Range:      units.Meters(0.3),
			HalfWidth:  units.Degrees(15),
			Position:   geometry.Coordinate{X: 0.04},
		}},
	}, geom, m, log.Nop())
	require.NoError(t, err)

	return NewRunner("test-run", mo, m, log.Nop(), sinks...)
}

func TestRunApproachingWall(t *testing.T) {
	var frames []Frame
	runner := newRunner(t, SinkFunc(func(f Frame) { frames = append(frames, f) }))

	poses := Interpolate([]Pose{pose(0.5, 0.36, 180), pose(0.15, 0.36, 180)}, 10)
	summary, err := runner.Run(context.Background(), poses)
	require.NoError(t, err)

	assert.Equal(t, uint64(len(poses)), summary.Ticks)
	require.Len(t, frames, len(poses))
	assert.Equal(t, "test-run", frames[0].Run)
	assert.Equal(t, uint64(1), frames[0].Tick)
	assert.Equal(t, 0.0, frames[0].Readings[0].Value)

	prev := 0.0
	for _, f := range frames {
		v := f.Readings[0].Value
		assert.GreaterOrEqual(t, v, prev-1e-12)
		prev = v
	}
	assert.Greater(t, prev, 0.0)
	assert.Equal(t, prev, summary.Peak["front"])
}

func TestRunCancelled(t *testing.T) {
	runner := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := runner.Run(ctx, []Pose{pose(0.5, 0.36, 180)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Ticks)
}

func TestRunPeakListsQuietSensors(t *testing.T) {
	runner := newRunner(t)

	summary, err := runner.Run(context.Background(), []Pose{pose(0.5, 0.36, 180)})
	require.NoError(t, err)

	peak, ok := summary.Peak["front"]
	assert.True(t, ok)
	assert.Equal(t, 0.0, peak)
	_, ok = summary.Peak["rear"]
	assert.False(t, ok)
}
