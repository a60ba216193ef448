package labyrinth

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Finder runs depth-first searches for a goal cell
type Finder struct {
	out      io.Writer
	marker   Cell
	strategy Strategy
}

// Option configures a Finder
type Option func(*Finder)

// WithOutput sets where Search prints the solved grid
func WithOutput(w io.Writer) Option {
	return func(f *Finder) { f.out = w }
}

// WithMarker sets the character laid down on visited cells. Open and Goal
// are rejected since marking with them would never close a cycle.
func WithMarker(c Cell) Option {
	return func(f *Finder) {
		if c != Open && c != Goal {
			f.marker = c
		}
	}
}

// WithStrategy selects recursive or explicit-stack traversal
func WithStrategy(s Strategy) Option {
	return func(f *Finder) { f.strategy = s }
}

// NewFinder creates a finder printing to stdout with the recursive strategy
func NewFinder(opts ...Option) *Finder {
	f := &Finder{
		out:      os.Stdout,
		marker:   Visited,
		strategy: Recursive,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Search looks for a path from (x, y) to a goal. When one is found the grid,
// with the path marked, is printed once and true is returned. Out of bounds,
// blocked and dead-end starts all return false and print nothing.
func Search(grid Grid, x, y int) bool {
	return NewFinder().Search(grid, x, y)
}

// Search is the package-level Search with this finder's settings
func (f *Finder) Search(grid Grid, x, y int) bool {
	result := f.Solve(grid, Position{X: x, Y: y})
	if result.Found {
		fmt.Fprintln(f.out, result.Grid.String())
	}
	return result.Found
}

// Solve runs the search without printing
func (f *Finder) Solve(grid Grid, start Position) Result {
	result, _ := f.SolveContext(context.Background(), grid, start)
	return result
}

// SolveContext runs the search and stops with ctx.Err() if ctx is canceled
func (f *Finder) SolveContext(ctx context.Context, grid Grid, start Position) (Result, error) {
	if f.strategy == Iterative {
		return f.solveIterative(ctx, grid, start)
	}

	s := &search{ctx: ctx, marker: f.marker, result: Result{Start: start}}
	s.find(grid, start)
	if s.err != nil {
		return Result{Start: start, Explored: s.result.Explored}, s.err
	}
	if !s.result.Found {
		s.result.Trail = nil
	}
	return s.result, nil
}

// search holds the state shared across one recursive walk
type search struct {
	ctx    context.Context
	marker Cell
	result Result
	err    error
}

// enter examines p. It records a goal hit and reports whether the cell can
// be stepped onto.
func (s *search) enter(grid Grid, p Position) (goal, passable bool) {
	s.result.Explored++

	cell, ok := grid.At(p)
	if !ok {
		return false, false
	}
	if cell == Goal {
		s.result.Found = true
		s.result.Grid = grid
		s.result.Goal = &Position{X: p.X, Y: p.Y}
		return true, false
	}
	return false, cell.IsPassable()
}

func (s *search) find(grid Grid, p Position) bool {
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return false
	}

	goal, passable := s.enter(grid, p)
	if goal {
		return true
	}
	if !passable {
		return false
	}

	marked := grid.With(p, s.marker)
	s.result.Trail = append(s.result.Trail, p)
	for _, d := range Directions {
		if s.find(marked, p.Step(d)) {
			return true
		}
		if s.err != nil {
			return false
		}
	}
	s.result.Trail = s.result.Trail[:len(s.result.Trail)-1]
	return false
}
