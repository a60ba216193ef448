package labyrinth

import (
	"strings"
)

// Grid is an ordered sequence of rows. Rows may have different lengths and
// are never modified in place: With returns a copy that shares every
// untouched row with its parent.
//
// Every byte is one cell, so rows are expected to hold ASCII. A multi-byte
// character occupies several columns, none of which is open.
type Grid []string

// ParseGrid splits newline separated text into a grid. A single trailing
// newline is ignored.
func ParseGrid(text string) Grid {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return Grid{}
	}
	return Grid(strings.Split(text, "\n"))
}

// InBounds checks the position against the length of its own row
func (g Grid) InBounds(p Position) bool {
	if p.Y < 0 || p.Y >= len(g) {
		return false
	}
	return p.X >= 0 && p.X < len(g[p.Y])
}

// At returns the cell at p and whether p is inside the grid
func (g Grid) At(p Position) (Cell, bool) {
	if !g.InBounds(p) {
		return 0, false
	}
	return Cell(g[p.Y][p.X]), true
}

// With returns a new grid equal to g except that p holds c
func (g Grid) With(p Position, c Cell) Grid {
	next := make(Grid, len(g))
	copy(next, g)

	row := []byte(g[p.Y])
	row[p.X] = byte(c)
	next[p.Y] = string(row)
	return next
}

// Clone returns an independent copy of the grid
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	next := make(Grid, len(g))
	copy(next, g)
	return next
}

// String renders the rows joined by newlines
func (g Grid) String() string {
	return strings.Join(g, "\n")
}

// Lines returns the rows as a plain string slice
func (g Grid) Lines() []string {
	return []string(g.Clone())
}

// Width returns the length of the longest row
func (g Grid) Width() int {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// IsJagged reports whether rows have different lengths
func (g Grid) IsJagged() bool {
	for _, row := range g {
		if len(row) != len(g[0]) {
			return true
		}
	}
	return false
}

// Count counts the cells holding c
func (g Grid) Count(c Cell) int {
	count := 0
	for _, row := range g {
		count += strings.Count(row, string(rune(c)))
	}
	return count
}

// Positions lists every position holding c in row-major order
func (g Grid) Positions(c Cell) []Position {
	var positions []Position
	for y, row := range g {
		for x := 0; x < len(row); x++ {
			if Cell(row[x]) == c {
				positions = append(positions, Position{X: x, Y: y})
			}
		}
	}
	return positions
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// NearestGoal finds the goal closest to from by Manhattan distance, ignoring walls
func NearestGoal(g Grid, from Position) (Position, int, bool) {
	minDistance := -1
	var nearest Position

	for _, goal := range g.Positions(Goal) {
		distance := ManhattanDistance(from, goal)
		if minDistance == -1 || distance < minDistance {
			minDistance = distance
			nearest = goal
		}
	}

	return nearest, minDistance, minDistance != -1
}
