package labyrinth

// Cell is the character stored at a single grid position
type Cell byte

const (
	Wall    Cell = 'X'
	Open    Cell = ' '
	Goal    Cell = 'S'
	Visited Cell = '+'

	// Validation constants
	MaxGridSize = 100
)

// IsPassable reports whether a search may step onto the cell
func (c Cell) IsPassable() bool {
	return c == Open
}

// Kind returns a human-readable name for the cell. Any character that is not
// a wall, open space or goal counts as visited.
func (c Cell) Kind() string {
	switch c {
	case Wall:
		return "wall"
	case Open:
		return "open"
	case Goal:
		return "goal"
	default:
		return "visited"
	}
}

// Position represents x,y coordinates (x = column, y = row)
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the neighboring position in the given direction
func (p Position) Step(d Direction) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Direction is a cardinal offset explored by the finder
type Direction struct {
	Name string
	DX   int
	DY   int
}

var (
	West  = Direction{Name: "west", DX: -1, DY: 0}
	East  = Direction{Name: "east", DX: 1, DY: 0}
	North = Direction{Name: "north", DX: 0, DY: -1}
	South = Direction{Name: "south", DX: 0, DY: 1}
)

// Directions is the fixed exploration order. It decides which path is
// reported when more than one reaches a goal.
var Directions = []Direction{West, East, North, South}

// Strategy selects how the finder walks the grid
type Strategy string

const (
	Recursive Strategy = "recursive"
	Iterative Strategy = "iterative"
)

// Result describes the outcome of a single search
type Result struct {
	Found    bool       `json:"found"`
	Start    Position   `json:"start"`
	Goal     *Position  `json:"goal,omitempty"`
	Grid     Grid       `json:"grid,omitempty"`  // grid at the moment the goal was reached
	Trail    []Position `json:"trail,omitempty"` // marked cells from start to the cell before the goal
	Explored int        `json:"explored"`        // number of cells examined, including rejected ones
}

// Config represents a labyrinth definition loaded from JSON
type Config struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Layout      []string          `json:"layout"`
	Start       Position          `json:"start"`
	Legend      map[string]string `json:"legend,omitempty"`
}

// Grid returns the configured layout as a grid
func (c *Config) Grid() Grid {
	return Grid(c.Layout).Clone()
}
