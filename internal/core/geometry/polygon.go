package geometry

import (
	"math"

	"github.com/zeusync/mazesense/internal/core/invariant"
	"github.com/zeusync/mazesense/internal/core/observability/log"
	"github.com/zeusync/mazesense/internal/core/units"
)

// Polygon is a closed loop of vertices; the last vertex connects back to the first.
type Polygon struct {
	vertices []Coordinate
}

// NewPolygon copies vertices into a new polygon.
func NewPolygon(vertices []Coordinate) Polygon {
	v := make([]Coordinate, len(vertices))
	copy(v, vertices)
	return Polygon{vertices: v}
}

// Vertices returns a copy of the vertex loop.
func (p Polygon) Vertices() []Coordinate {
	v := make([]Coordinate, len(p.vertices))
	copy(v, p.vertices)
	return v
}

func (p Polygon) Len() int { return len(p.vertices) }

// SignedArea is the shoelace sum over consecutive vertex pairs, halved.
// Counter-clockwise loops are positive.
func (p Polygon) SignedArea() units.Area {
	return SignedLoopArea(p.vertices)
}

// Area is the unsigned area of the loop.
func (p Polygon) Area() units.Area {
	return LoopArea(p.vertices)
}

// SignedLoopArea is SignedArea for a raw vertex loop, for callers that
// reuse a buffer instead of building a Polygon.
//
// Vertices are taken relative to the first one so that a small fan far from
// the origin does not lose its area to cancellation.
func SignedLoopArea(vertices []Coordinate) units.Area {
	n := len(vertices)
	invariant.Check(n >= 3, "polygon has at least 3 vertices", log.Int("vertices", n))

	base := vertices[0]
	var sum float64
	for i := 1; i < n-1; i++ {
		a := vertices[i].Sub(base)
		b := vertices[i+1].Sub(base)
		sum += a.Cross(b)
	}
	return units.MetersSquared(sum / 2)
}

func LoopArea(vertices []Coordinate) units.Area {
	return units.MetersSquared(math.Abs(SignedLoopArea(vertices).MetersSquared()))
}

// Translate returns the polygon moved by offset.
func (p Polygon) Translate(offset Coordinate) Polygon {
	v := make([]Coordinate, len(p.vertices))
	for i, c := range p.vertices {
		v[i] = c.Add(offset)
	}
	return Polygon{vertices: v}
}

// CirclePolygon approximates a circle with n evenly spaced vertices.
func CirclePolygon(center Coordinate, radius units.Distance, n int) Polygon {
	invariant.Check(n >= 3, "circle polygon has at least 3 vertices", log.Int("vertices", n))

	v := make([]Coordinate, n)
	for i := 0; i < n; i++ {
		a := units.Radians(2 * math.Pi * float64(i) / float64(n))
		v[i] = center.Add(Polar(radius, a))
	}
	return Polygon{vertices: v}
}
