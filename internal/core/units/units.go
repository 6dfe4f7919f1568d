// Package units holds the distance, angle and area value types used by the
// sensor model. All values are stored in base units (meters, radians, square
// meters) and are passed around by value.
package units

import "math"

// Distance is a length in meters.
type Distance struct{ meters float64 }

func Meters(m float64) Distance       { return Distance{meters: m} }
func Millimeters(mm float64) Distance { return Distance{meters: mm / 1000} }

func (d Distance) Meters() float64 { return d.meters }

func (d Distance) Add(o Distance) Distance { return Distance{meters: d.meters + o.meters} }
func (d Distance) Sub(o Distance) Distance { return Distance{meters: d.meters - o.meters} }
func (d Distance) Mul(f float64) Distance  { return Distance{meters: d.meters * f} }
func (d Distance) Div(f float64) Distance  { return Distance{meters: d.meters / f} }
func (d Distance) Less(o Distance) bool    { return d.meters < o.meters }
func (d Distance) IsPositive() bool        { return d.meters > 0 }

// Angle is a directed angle in radians. Angles are not normalized; callers
// that need a canonical range use Normalized.
type Angle struct{ radians float64 }

func Radians(r float64) Angle { return Angle{radians: r} }
func Degrees(d float64) Angle { return Angle{radians: d * math.Pi / 180} }

func (a Angle) Radians() float64 { return a.radians }
func (a Angle) Degrees() float64 { return a.radians * 180 / math.Pi }

func (a Angle) Add(o Angle) Angle   { return Angle{radians: a.radians + o.radians} }
func (a Angle) Sub(o Angle) Angle   { return Angle{radians: a.radians - o.radians} }
func (a Angle) Mul(f float64) Angle { return Angle{radians: a.radians * f} }
func (a Angle) Less(o Angle) bool   { return a.radians < o.radians }

func (a Angle) Cos() float64 { return math.Cos(a.radians) }
func (a Angle) Sin() float64 { return math.Sin(a.radians) }

// Normalized maps the angle into [0, 2π).
func (a Angle) Normalized() Angle {
	r := math.Mod(a.radians, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return Angle{radians: r}
}

// Area is a surface in square meters.
type Area struct{ metersSquared float64 }

func MetersSquared(m2 float64) Area { return Area{metersSquared: m2} }

func (a Area) MetersSquared() float64 { return a.metersSquared }
func (a Area) Add(o Area) Area        { return Area{metersSquared: a.metersSquared + o.metersSquared} }
func (a Area) Less(o Area) bool       { return a.metersSquared < o.metersSquared }
