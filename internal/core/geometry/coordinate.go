package geometry

import (
	"math"

	"github.com/zeusync/mazesense/internal/core/units"
)

// Coordinate is a point in the maze plane, in meters. X grows east, Y grows north.
type Coordinate struct {
	X, Y float64
}

// Polar returns the point reached by moving d along a from the origin.
func Polar(d units.Distance, a units.Angle) Coordinate {
	return Coordinate{X: d.Meters() * a.Cos(), Y: d.Meters() * a.Sin()}
}

func (c Coordinate) Add(o Coordinate) Coordinate { return Coordinate{X: c.X + o.X, Y: c.Y + o.Y} }
func (c Coordinate) Sub(o Coordinate) Coordinate { return Coordinate{X: c.X - o.X, Y: c.Y - o.Y} }
func (c Coordinate) Scale(f float64) Coordinate  { return Coordinate{X: c.X * f, Y: c.Y * f} }

// Rotate turns the coordinate around the origin by a.
func (c Coordinate) Rotate(a units.Angle) Coordinate {
	cos, sin := a.Cos(), a.Sin()
	return Coordinate{X: c.X*cos - c.Y*sin, Y: c.X*sin + c.Y*cos}
}

// Cross is the z component of the 3D cross product of c and o.
func (c Coordinate) Cross(o Coordinate) float64 { return c.X*o.Y - c.Y*o.X }

// DistanceTo computes the Euclidean distance between two coordinates.
func (c Coordinate) DistanceTo(o Coordinate) units.Distance {
	return units.Meters(math.Hypot(o.X-c.X, o.Y-c.Y))
}

// Angle returns the direction of c seen from the origin.
func (c Coordinate) Angle() units.Angle {
	return units.Radians(math.Atan2(c.Y, c.X))
}
