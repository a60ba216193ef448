// Package labyrinth provides the path search at the heart of the pathfinder.
//
// A labyrinth is a Grid of single-byte rows. Rows may differ in length, and
// bounds are always checked against the row being indexed. Cells are:
//   - 'X' wall
//   - ' ' open space
//   - 'S' goal
//   - anything else, usually '+', a cell already visited on the current path
//
// Search:
//
// Finder walks the grid depth-first from a start position, trying west,
// east, north and south in that order. Each step marks its cell on a fresh
// copy of the grid, so sibling branches never see each other's marks. The
// first goal reached wins; the path found is not necessarily the shortest.
//
// Usage:
//
//	grid := labyrinth.Grid{"XXX", "X S", "XXX"}
//	if labyrinth.Search(grid, 1, 1) {
//		// printed:
//		// XXX
//		// X+S
//		// XXX
//	}
//
//	finder := labyrinth.NewFinder(labyrinth.WithStrategy(labyrinth.Iterative))
//	result := finder.Solve(grid, labyrinth.Position{X: 1, Y: 1})
//	fmt.Println(result.Found, result.Trail, result.Explored)
//
// Failure is always a plain false: leaving the grid, hitting a wall,
// stepping back onto the path and exhausting every branch are not
// distinguished.
//
// Configuration:
//
// Config describes a named labyrinth and start position as JSON.
// DefaultConfig returns the built-in labyrinth used when nothing else is
// configured.
package labyrinth
