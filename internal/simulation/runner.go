package simulation

import (
	"context"
	"fmt"

	"github.com/zeusync/mazesense/internal/core/mouse"
	"github.com/zeusync/mazesense/internal/core/observability/log"
)

// Frame is the state published after one tick.
type Frame struct {
	Run       string          `json:"run"`
	Tick      uint64          `json:"tick"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Direction float64         `json:"direction_degrees"`
	Readings  []mouse.Reading `json:"readings"`
}

// Sink receives frames. Publish must not block the simulation for long.
type Sink interface {
	Publish(Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Frame)

func (f SinkFunc) Publish(frame Frame) { f(frame) }

// Summary describes a finished run.
type Summary struct {
	Ticks uint64
	// Peak is the highest reading each sensor reported during the run. Every
	// mounted sensor has an entry, 0 if it never saw a wall.
	Peak map[string]float64
}

type Runner struct {
	runID  string
	mouse  *mouse.Mouse
	maze   mouse.Maze
	sinks  []Sink
	logger log.Log
}

func NewRunner(runID string, m *mouse.Mouse, maze mouse.Maze, logger log.Log, sinks ...Sink) *Runner {
	if logger == nil {
		logger = log.Provide()
	}
	return &Runner{
		runID:  runID,
		mouse:  m,
		maze:   maze,
		sinks:  sinks,
		logger: logger.With(log.String("component", "simulation"), log.String("run", runID)),
	}
}

// Run moves the mouse through poses, ticking once per pose. It stops at the
// first error, including cancellation of ctx.
func (r *Runner) Run(ctx context.Context, poses []Pose) (Summary, error) {
	summary := Summary{Peak: make(map[string]float64)}
	for _, name := range r.mouse.SensorNames() {
		summary.Peak[name] = 0
	}
	r.logger.Info("simulation started", log.Int("poses", len(poses)))

	for i, p := range poses {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("simulation stopped at pose %d: %w", i, err)
		}

		r.mouse.SetPose(p.Position, p.Direction)
		readings, err := r.mouse.Tick(ctx, r.maze)
		if err != nil {
			return summary, err
		}
		summary.Ticks++

		for _, reading := range readings {
			if reading.Value > summary.Peak[reading.Name] {
				summary.Peak[reading.Name] = reading.Value
			}
		}

		frame := Frame{
			Run:       r.runID,
			Tick:      r.mouse.Ticks(),
			X:         p.Position.X,
			Y:         p.Position.Y,
			Direction: p.Direction.Degrees(),
			Readings:  readings,
		}
		for _, s := range r.sinks {
			s.Publish(frame)
		}
	}

	r.logger.Info("simulation finished", log.Int64("ticks", int64(summary.Ticks)))
	return summary, nil
}
