// Package raycast finds where a bounded ray first enters a maze wall.
//
// Walls are modelled as the segment between two grid posts, thickened by
// half the wall width on every side, so the corner posts are covered by the
// walls meeting there. Rectangle boundaries are closed: a ray that touches a
// wall face is stopped there, and a ray starting on or inside a wall does
// not move.
package raycast

import (
	"math"

	"github.com/zeusync/mazesense/internal/core/geometry"
	"github.com/zeusync/mazesense/internal/core/units"
)

// Walls is the read-only view of a maze the caster needs.
type Walls interface {
	Width() int
	Height() int
	HorizontalWall(x, y int) bool
	VerticalWall(x, y int) bool
}

// WallGeometry holds the physical wall dimensions used by the caster.
type WallGeometry struct {
	HalfWallWidth units.Distance
	TileLength    units.Distance
}

// NewWallGeometry derives the caster geometry from the wall width and the
// length of a wall between two posts.
func NewWallGeometry(wallWidth, wallLength units.Distance) WallGeometry {
	return WallGeometry{
		HalfWallWidth: wallWidth.Div(2),
		TileLength:    wallLength.Add(wallWidth),
	}
}

// Valid reports whether the geometry can be used for casting.
func (g WallGeometry) Valid() bool {
	return g.TileLength.IsPositive() && !g.HalfWallWidth.Less(units.Meters(0)) &&
		g.HalfWallWidth.Mul(2).Less(g.TileLength)
}

// Cast is CastRay with the geometry taken from g.
func (g WallGeometry) Cast(origin, candidate geometry.Coordinate, walls Walls) geometry.Coordinate {
	return CastRay(origin, candidate, walls, g.HalfWallWidth, g.TileLength)
}

type rect struct {
	minX, minY, maxX, maxY float64
}

// CastRay returns the first point on origin->candidate inside a wall, or
// candidate itself when the segment is clear. Only tiles under the segment's
// bounding box, padded by halfWallWidth, are examined.
func CastRay(
	origin, candidate geometry.Coordinate,
	walls Walls,
	halfWallWidth, tileLength units.Distance,
) geometry.Coordinate {
	if origin == candidate {
		return origin
	}

	hw := halfWallWidth.Meters()
	l := tileLength.Meters()
	d := candidate.Sub(origin)

	minX, maxX := math.Min(origin.X, candidate.X)-hw, math.Max(origin.X, candidate.X)+hw
	minY, maxY := math.Min(origin.Y, candidate.Y)-hw, math.Max(origin.Y, candidate.Y)+hw

	// grid lines whose thickened walls can reach the box
	lineX0, lineX1 := clampLine(minX, maxX, l, walls.Width())
	lineY0, lineY1 := clampLine(minY, maxY, l, walls.Height())
	// tiles whose span (plus post overhang) can reach the box
	tileX0, tileX1 := clampTile(minX, maxX, l, walls.Width())
	tileY0, tileY1 := clampTile(minY, maxY, l, walls.Height())

	best := math.Inf(1)
	consider := func(r rect) {
		if t, ok := entry(origin, d, r); ok && t < best {
			best = t
		}
	}

	for y := lineY0; y <= lineY1; y++ {
		for x := tileX0; x <= tileX1; x++ {
			if walls.HorizontalWall(x, y) {
				consider(horizontalRect(x, y, l, hw))
			}
		}
	}
	for x := lineX0; x <= lineX1; x++ {
		for y := tileY0; y <= tileY1; y++ {
			if walls.VerticalWall(x, y) {
				consider(verticalRect(x, y, l, hw))
			}
		}
	}

	if math.IsInf(best, 1) || best >= 1 {
		return candidate
	}
	if best <= 0 {
		return origin
	}
	return origin.Add(d.Scale(best))
}

func horizontalRect(x, y int, l, hw float64) rect {
	return rect{
		minX: float64(x)*l - hw,
		maxX: float64(x+1)*l + hw,
		minY: float64(y)*l - hw,
		maxY: float64(y)*l + hw,
	}
}

func verticalRect(x, y int, l, hw float64) rect {
	return rect{
		minX: float64(x)*l - hw,
		maxX: float64(x)*l + hw,
		minY: float64(y)*l - hw,
		maxY: float64(y+1)*l + hw,
	}
}

// clampLine returns the range of grid line indices in [0, n] whose
// coordinate lies in [lo, hi].
func clampLine(lo, hi, l float64, n int) (int, int) {
	first := int(math.Ceil(lo / l))
	last := int(math.Floor(hi / l))
	return max(first, 0), min(last, n)
}

// clampTile returns the range of tile indices in [0, n) whose span
// intersects [lo, hi].
func clampTile(lo, hi, l float64, n int) (int, int) {
	first := int(math.Ceil(lo/l)) - 1
	last := int(math.Floor(hi / l))
	return max(first, 0), min(last, n-1)
}

// entry clips the segment o + t*d, t in [0, 1], against a closed rectangle
// using the slab method and returns the entry parameter.
func entry(o, d geometry.Coordinate, r rect) (float64, bool) {
	tMin, tMax := 0.0, 1.0

	if !clipAxis(o.X, d.X, r.minX, r.maxX, &tMin, &tMax) {
		return 0, false
	}
	if !clipAxis(o.Y, d.Y, r.minY, r.maxY, &tMin, &tMax) {
		return 0, false
	}
	return tMin, true
}

func clipAxis(o, d, lo, hi float64, tMin, tMax *float64) bool {
	if d == 0 {
		return lo <= o && o <= hi
	}
	t1 := (lo - o) / d
	t2 := (hi - o) / d
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > *tMin {
		*tMin = t1
	}
	if t2 < *tMax {
		*tMax = t2
	}
	return *tMin <= *tMax
}
