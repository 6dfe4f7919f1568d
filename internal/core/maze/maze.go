// Package maze stores the wall layout of a tile maze.
//
// Walls sit on tile boundaries. Horizontal wall (x, y) lies on grid line y
// and spans x..x+1; vertical wall (x, y) lies on grid line x and spans
// y..y+1. Tile (0, 0) is the south-west corner.
package maze

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Direction names a side of a tile.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Maze is a width x height grid of tiles. It is safe for concurrent reads;
// writes must not overlap a ray-casting pass.
type Maze struct {
	width, height int
	horizontal    []bool // (height+1) lines of width walls
	vertical      []bool // (width+1) lines of height walls
}

// New creates a maze without any walls.
func New(width, height int) (*Maze, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidMaze, width, height)
	}
	return &Maze{
		width:      width,
		height:     height,
		horizontal: make([]bool, width*(height+1)),
		vertical:   make([]bool, (width+1)*height),
	}, nil
}

// NewBounded creates a maze whose only walls are its outer boundary.
func NewBounded(width, height int) (*Maze, error) {
	m, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for x := 0; x < width; x++ {
		m.horizontal[m.hIndex(x, 0)] = true
		m.horizontal[m.hIndex(x, height)] = true
	}
	for y := 0; y < height; y++ {
		m.vertical[m.vIndex(0, y)] = true
		m.vertical[m.vIndex(width, y)] = true
	}
	return m, nil
}

func (m *Maze) Width() int  { return m.width }
func (m *Maze) Height() int { return m.height }

func (m *Maze) hIndex(x, y int) int { return y*m.width + x }
func (m *Maze) vIndex(x, y int) int { return x*m.height + y }

// HorizontalWall reports the wall on grid line y spanning x..x+1.
// Anything outside the maze has no wall.
func (m *Maze) HorizontalWall(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y > m.height {
		return false
	}
	return m.horizontal[m.hIndex(x, y)]
}

// VerticalWall reports the wall on grid line x spanning y..y+1.
func (m *Maze) VerticalWall(x, y int) bool {
	if x < 0 || x > m.width || y < 0 || y >= m.height {
		return false
	}
	return m.vertical[m.vIndex(x, y)]
}

func (m *Maze) inside(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// IsWall reports the wall on side d of tile (x, y).
func (m *Maze) IsWall(x, y int, d Direction) bool {
	if !m.inside(x, y) {
		return false
	}
	switch d {
	case North:
		return m.HorizontalWall(x, y+1)
	case South:
		return m.HorizontalWall(x, y)
	case East:
		return m.VerticalWall(x+1, y)
	case West:
		return m.VerticalWall(x, y)
	default:
		return false
	}
}

// SetWall adds or removes the wall on side d of tile (x, y). The neighbouring
// tile shares the same wall.
func (m *Maze) SetWall(x, y int, d Direction, present bool) error {
	if !m.inside(x, y) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	switch d {
	case North:
		m.horizontal[m.hIndex(x, y+1)] = present
	case South:
		m.horizontal[m.hIndex(x, y)] = present
	case East:
		m.vertical[m.vIndex(x+1, y)] = present
	case West:
		m.vertical[m.vIndex(x, y)] = present
	default:
		return fmt.Errorf("%w: %d", ErrBadDirection, int(d))
	}
	return nil
}

// WallCount returns the number of wall segments present.
func (m *Maze) WallCount() int {
	n := 0
	for _, w := range m.horizontal {
		if w {
			n++
		}
	}
	for _, w := range m.vertical {
		if w {
			n++
		}
	}
	return n
}

// Fingerprint hashes the dimensions and the full wall layout. Two mazes
// with the same fingerprint present the same walls to a ray.
func (m *Maze) Fingerprint() uint64 {
	h := xxhash.New()
	var dims [16]byte
	binary.LittleEndian.PutUint64(dims[:8], uint64(m.width))
	binary.LittleEndian.PutUint64(dims[8:], uint64(m.height))
	_, _ = h.Write(dims[:])
	_, _ = h.Write(packBits(m.horizontal))
	_, _ = h.Write(packBits(m.vertical))
	return h.Sum64()
}

func packBits(walls []bool) []byte {
	out := make([]byte, (len(walls)+7)/8)
	for i, w := range walls {
		if w {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}
