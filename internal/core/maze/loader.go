package maze

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Maps use the classic text layout: posts are '+', horizontal walls are
// "---" between posts and vertical walls are '|' on the cell rows. The first
// line is the northern edge.
//
//	+---+---+
//	|       |
//	+   +---+
//	|   |   |
//	+---+---+
const cellChars = 4

// LoadFile reads a map file from disk.
func LoadFile(path string) (*Maze, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open maze file %s: %w", path, err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse maze file %s: %w", path, err)
	}
	return m, nil
}

// Parse reads a maze in map text layout.
func Parse(r io.Reader) (*Maze, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" && len(lines) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) < 3 || len(lines)%2 == 0 {
		return nil, fmt.Errorf("%w: expected an odd number of lines (>= 3), got %d", ErrInvalidMaze, len(lines))
	}
	top := lines[0]
	if !strings.HasPrefix(top, "+") || (len(top)-1)%cellChars != 0 {
		return nil, fmt.Errorf("%w: malformed top edge %q", ErrInvalidMaze, top)
	}

	width := (len(top) - 1) / cellChars
	height := (len(lines) - 1) / 2
	m, err := New(width, height)
	if err != nil {
		return nil, err
	}

	for row, line := range lines {
		if len(line) > width*cellChars+1 {
			return nil, fmt.Errorf("%w: line %d is wider than the top edge", ErrInvalidMaze, row+1)
		}
		if row%2 == 0 {
			y := height - row/2
			for x := 0; x < width; x++ {
				if charAt(line, x*cellChars+2) == '-' {
					m.horizontal[m.hIndex(x, y)] = true
				}
			}
			continue
		}
		y := height - 1 - row/2
		for x := 0; x <= width; x++ {
			if charAt(line, x*cellChars) == '|' {
				m.vertical[m.vIndex(x, y)] = true
			}
		}
	}

	return m, nil
}

func charAt(line string, i int) byte {
	if i < len(line) {
		return line[i]
	}
	return ' '
}

// String renders the maze in map text layout.
func (m *Maze) String() string {
	var b strings.Builder
	for y := m.height; y >= 0; y-- {
		for x := 0; x < m.width; x++ {
			if m.horizontalViaTile(x, y) {
				b.WriteString("+---")
			} else {
				b.WriteString("+   ")
			}
		}
		b.WriteString("+\n")
		if y == 0 {
			break
		}
		row := y - 1
		var line strings.Builder
		for x := 0; x <= m.width; x++ {
			if m.verticalViaTile(x, row) {
				line.WriteByte('|')
			} else {
				line.WriteByte(' ')
			}
			if x < m.width {
				line.WriteString("   ")
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// horizontalViaTile is HorizontalWall answered by the tile that owns line y:
// the tile above it, or the top row for the northern edge.
func (m *Maze) horizontalViaTile(x, y int) bool {
	if y < m.height {
		return m.IsWall(x, y, South)
	}
	return m.IsWall(x, y-1, North)
}

// verticalViaTile is VerticalWall answered by the tile east of line x, or
// the last column for the eastern edge.
func (m *Maze) verticalViaTile(x, y int) bool {
	if x < m.width {
		return m.IsWall(x, y, West)
	}
	return m.IsWall(x-1, y, East)
}
