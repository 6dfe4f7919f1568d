// Package simulation drives a mouse along a trajectory and publishes the
// readings of every tick.
package simulation

import (
	"math"

	"github.com/zeusync/mazesense/internal/core/geometry"
	"github.com/zeusync/mazesense/internal/core/units"
)

// Pose is a mouse position and heading in maze coordinates.
type Pose struct {
	Position  geometry.Coordinate
	Direction units.Angle
}

// Interpolate expands waypoints into poses, steps per segment. Position is
// interpolated linearly and the heading turns the short way round. The last
// waypoint is always included; a single waypoint yields itself.
func Interpolate(waypoints []Pose, steps int) []Pose {
	if len(waypoints) == 0 {
		return nil
	}
	if steps < 1 {
		steps = 1
	}

	out := make([]Pose, 0, (len(waypoints)-1)*steps+1)
	for i := 0; i+1 < len(waypoints); i++ {
		from, to := waypoints[i], waypoints[i+1]
		delta := to.Position.Sub(from.Position)
		turn := shortestTurn(from.Direction, to.Direction)
		for s := 0; s < steps; s++ {
			f := float64(s) / float64(steps)
			out = append(out, Pose{
				Position:  from.Position.Add(delta.Scale(f)),
				Direction: from.Direction.Add(turn.Mul(f)),
			})
		}
	}
	return append(out, waypoints[len(waypoints)-1])
}

// shortestTurn returns the rotation in (-π, π] taking from onto to.
func shortestTurn(from, to units.Angle) units.Angle {
	d := to.Sub(from).Normalized().Radians()
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return units.Radians(d)
}
