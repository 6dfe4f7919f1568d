package geometry

import (
	"github.com/zeusync/mazesense/internal/core/invariant"
	"github.com/zeusync/mazesense/internal/core/observability/log"
)

// Triangle is three vertices in loop order.
type Triangle [3]Coordinate

// Triangulate splits the polygon into a fan of triangles anchored at its
// first vertex. It is exact for convex loops and for the view fans built by
// sensors, whose first vertex is the apex every other vertex is visible from.
// Renderers use it; area computation does not.
func (p Polygon) Triangulate() []Triangle {
	n := len(p.vertices)
	invariant.Check(n >= 3, "polygon has at least 3 vertices", log.Int("vertices", n))

	tris := make([]Triangle, 0, n-2)
	for i := 1; i < n-1; i++ {
		tris = append(tris, Triangle{p.vertices[0], p.vertices[i], p.vertices[i+1]})
	}
	return tris
}
