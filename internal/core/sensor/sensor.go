// Package sensor models an analog distance sensor as a fan of rays.
//
// The reading is the fraction of the sensor's unobstructed view area that is
// hidden by walls: 0 when nothing is in range, 1 when every ray is blocked at
// the sensor itself.
package sensor

import (
	"fmt"
	"math"

	"github.com/zeusync/mazesense/internal/core/geometry"
	"github.com/zeusync/mazesense/internal/core/invariant"
	"github.com/zeusync/mazesense/internal/core/observability/log"
	"github.com/zeusync/mazesense/internal/core/raycast"
	"github.com/zeusync/mazesense/internal/core/units"
	"github.com/zeusync/mazesense/pkg/generic"
)

const (
	// NumberOfViewEdgePoints is how many rays are cast across the field of view.
	NumberOfViewEdgePoints = 8
	bodyVertices           = 8

	// area ratios this close to 1 are rounding noise from evaluating the
	// same fan at a different pose
	areaRatioTolerance = 1e-9
)

// Params is the static geometry of a mounted sensor.
type Params struct {
	BodyRadius units.Distance
	Range      units.Distance
	HalfWidth  units.Angle
	Position   geometry.Coordinate
	Direction  units.Angle
}

// Validate rejects geometry that cannot produce a non-degenerate view fan.
func (p Params) Validate() error {
	if !p.BodyRadius.IsPositive() {
		return fmt.Errorf("%w: body radius must be positive, got %gm", ErrInvalidParams, p.BodyRadius.Meters())
	}
	if !p.Range.IsPositive() {
		return fmt.Errorf("%w: range must be positive, got %gm", ErrInvalidParams, p.Range.Meters())
	}
	if hw := p.HalfWidth.Radians(); !(hw > 0 && hw < math.Pi) {
		return fmt.Errorf("%w: half width must be in (0, 180) degrees, got %g", ErrInvalidParams, p.HalfWidth.Degrees())
	}
	return nil
}

type Option func(*Sensor)

// WithLogger sets the logger used for per-update debug output.
func WithLogger(l log.Log) Option {
	return func(s *Sensor) { s.logger = l }
}

// Sensor is owned by a single agent and updated once per tick. It is not
// safe for concurrent updates.
type Sensor struct {
	rng       units.Distance
	halfWidth units.Angle
	walls     raycast.WallGeometry

	// frozen by New
	initialPosition    geometry.Coordinate
	initialDirection   units.Angle
	initialPolygon     geometry.Polygon
	initialViewPolygon geometry.Polygon
	initialViewArea    units.Area

	currentReading float64

	logger log.Log
}

// New builds the sensor at its mounting pose and seeds the reading against
// walls. The initial view is the unobstructed fan, so readings are relative
// to what the sensor could see with no walls at all.
func New(params Params, geom raycast.WallGeometry, walls raycast.Walls, opts ...Option) (*Sensor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !geom.Valid() {
		return nil, fmt.Errorf("%w: wall geometry (half width %gm, tile %gm)",
			ErrInvalidParams, geom.HalfWallWidth.Meters(), geom.TileLength.Meters())
	}

	s := &Sensor{
		rng:              params.Range,
		halfWidth:        params.HalfWidth,
		walls:            geom,
		initialPosition:  params.Position,
		initialDirection: params.Direction,
		logger:           log.Provide(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.initialPolygon = geometry.CirclePolygon(params.Position, params.BodyRadius, bodyVertices)

	view := make([]geometry.Coordinate, 0, NumberOfViewEdgePoints+1)
	view = append(view, params.Position)
	for k := 0; k < NumberOfViewEdgePoints; k++ {
		view = append(view, s.edgePoint(params.Position, params.Direction, k))
	}
	s.initialViewPolygon = geometry.NewPolygon(view)
	s.initialViewArea = s.initialViewPolygon.Area()
	invariant.Check(s.initialViewArea.MetersSquared() > 0, "initial view area > 0",
		log.Float64("area", s.initialViewArea.MetersSquared()))

	s.UpdateReading(s.initialPosition, s.initialDirection, walls)
	return s, nil
}

// edgePoint is the full-range end of ray k, with rays spread evenly over
// [-halfWidth, +halfWidth] around direction.
func (s *Sensor) edgePoint(position geometry.Coordinate, direction units.Angle, k int) geometry.Coordinate {
	f := -1 + 2*float64(k)/float64(NumberOfViewEdgePoints-1)
	return position.Add(geometry.Polar(s.rng, direction.Add(s.halfWidth.Mul(f))))
}

func (s *Sensor) InitialPosition() geometry.Coordinate { return s.initialPosition }
func (s *Sensor) InitialDirection() units.Angle        { return s.initialDirection }
func (s *Sensor) InitialPolygon() geometry.Polygon     { return s.initialPolygon }
func (s *Sensor) InitialViewPolygon() geometry.Polygon { return s.initialViewPolygon }
func (s *Sensor) Range() units.Distance                { return s.rng }
func (s *Sensor) HalfWidth() units.Angle               { return s.halfWidth }
func (s *Sensor) WallGeometry() raycast.WallGeometry   { return s.walls }

// Read returns the reading computed by the last UpdateReading.
func (s *Sensor) Read() float64 { return s.currentReading }

// viewBuffers holds scratch vertex loops for UpdateReading, which runs for
// every sensor on every tick and only needs the area of the view.
var viewBuffers = generic.NewPool(
	func() *[]geometry.Coordinate {
		v := make([]geometry.Coordinate, 0, NumberOfViewEdgePoints+1)
		return &v
	},
	func(v *[]geometry.Coordinate) *[]geometry.Coordinate {
		*v = (*v)[:0]
		return v
	},
)

// castView appends the apex and the cast end of every ray to view.
func (s *Sensor) castView(view []geometry.Coordinate, position geometry.Coordinate, direction units.Angle, walls raycast.Walls) []geometry.Coordinate {
	view = append(view, position)
	for k := 0; k < NumberOfViewEdgePoints; k++ {
		view = append(view, s.walls.Cast(position, s.edgePoint(position, direction, k), walls))
	}
	return view
}

// CurrentViewPolygon casts the fan from an arbitrary pose. It does not touch
// the stored reading.
func (s *Sensor) CurrentViewPolygon(position geometry.Coordinate, direction units.Angle, walls raycast.Walls) geometry.Polygon {
	return geometry.NewPolygon(s.castView(nil, position, direction, walls))
}

// UpdateReading recomputes the reading for the current pose.
func (s *Sensor) UpdateReading(position geometry.Coordinate, direction units.Angle, walls raycast.Walls) {
	buf := viewBuffers.Get()
	*buf = s.castView(*buf, position, direction, walls)
	current := geometry.LoopArea(*buf)
	viewBuffers.Put(buf)

	ratio := current.MetersSquared() / s.initialViewArea.MetersSquared()

	invariant.Check(ratio <= 1+areaRatioTolerance, "current view area <= initial view area",
		log.Float64("current_area", current.MetersSquared()),
		log.Float64("initial_area", s.initialViewArea.MetersSquared()),
	)

	reading := math.Max(0, 1-ratio)
	if reading < areaRatioTolerance {
		reading = 0
	}
	invariant.InRange(reading, 0, 1, "reading")

	s.currentReading = reading
	s.logger.Debug("sensor reading updated",
		log.Float64("x", position.X),
		log.Float64("y", position.Y),
		log.Float64("direction_deg", direction.Degrees()),
		log.Float64("reading", reading),
	)
}
