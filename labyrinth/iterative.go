package labyrinth

import "context"

// frame is one cell on the explicit stack together with the grid marked at
// that cell and the index of the next direction to try
type frame struct {
	grid Grid
	pos  Position
	next int
}

// solveIterative visits cells in the same order as the recursive walk, so
// both strategies report the same goal, grid, trail and explored count.
// Depth is bounded by memory rather than the goroutine stack.
func (f *Finder) solveIterative(ctx context.Context, grid Grid, start Position) (Result, error) {
	s := &search{ctx: ctx, marker: f.marker, result: Result{Start: start}}
	var stack []frame

	enter := func(g Grid, p Position) bool {
		goal, passable := s.enter(g, p)
		if passable {
			stack = append(stack, frame{grid: g.With(p, f.marker), pos: p})
			s.result.Trail = append(s.result.Trail, p)
		}
		return goal
	}

	if enter(grid, start) {
		return s.result, nil
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return Result{Start: start, Explored: s.result.Explored}, err
		}

		top := &stack[len(stack)-1]
		if top.next == len(Directions) {
			stack = stack[:len(stack)-1]
			s.result.Trail = s.result.Trail[:len(s.result.Trail)-1]
			continue
		}

		d := Directions[top.next]
		top.next++
		// enter may grow the stack, so top must not be used after this call
		if enter(top.grid, top.pos.Step(d)) {
			return s.result, nil
		}
	}

	s.result.Trail = nil
	return s.result, nil
}
