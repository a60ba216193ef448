// Command analyze prints quick, human-readable heuristics about the labyrinth
// files in a configs directory. It summarizes dimensions and cell counts,
// compares the straight-line distance to the nearest goal with the path the
// finder actually reports, and checks that both traversal strategies agree.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/pathfinder/labyrinth"
)

// Analysis holds the figures reported for one labyrinth
type Analysis struct {
	Name      string
	Rows      int
	Width     int
	Jagged    bool
	Walls     int
	Open      int
	Goals     int
	Start     labyrinth.Position
	StartCell string

	// Nearest goal by Manhattan distance, ignoring walls
	Nearest     *labyrinth.Position
	Distance    int
	Recursive   labyrinth.Result
	Iterative   labyrinth.Result
	StrategyGap bool
}

// Steps is the number of moves on the reported path, or -1 without one
func (a Analysis) Steps() int {
	if !a.Recursive.Found {
		return -1
	}
	return len(a.Recursive.Trail)
}

// Detour is how many moves the reported path spends beyond the Manhattan
// distance to the goal it reaches
func (a Analysis) Detour() int {
	if !a.Recursive.Found {
		return -1
	}
	return a.Steps() - labyrinth.ManhattanDistance(a.Start, *a.Recursive.Goal)
}

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))

		config, err := labyrinth.LoadConfig(file)
		if err != nil {
			fmt.Printf("Error loading labyrinth: %v\n", err)
			continue
		}
		printAnalysis(os.Stdout, analyzeConfig(config))
	}
}

func analyzeConfig(config *labyrinth.Config) Analysis {
	grid := config.Grid()
	a := Analysis{
		Name:   config.Name,
		Rows:   len(grid),
		Width:  grid.Width(),
		Jagged: grid.IsJagged(),
		Walls:  grid.Count(labyrinth.Wall),
		Open:   grid.Count(labyrinth.Open),
		Goals:  grid.Count(labyrinth.Goal),
		Start:  config.Start,
	}

	if cell, ok := grid.At(config.Start); ok {
		a.StartCell = cell.Kind()
	} else {
		a.StartCell = "outside"
	}

	if nearest, distance, ok := labyrinth.NearestGoal(grid, config.Start); ok {
		a.Nearest = &nearest
		a.Distance = distance
	}

	a.Recursive = labyrinth.NewFinder(labyrinth.WithStrategy(labyrinth.Recursive)).Solve(grid, config.Start)
	a.Iterative = labyrinth.NewFinder(labyrinth.WithStrategy(labyrinth.Iterative)).Solve(grid, config.Start)
	a.StrategyGap = a.Recursive.Found != a.Iterative.Found ||
		a.Recursive.Explored != a.Iterative.Explored ||
		a.Recursive.Grid.String() != a.Iterative.Grid.String()

	return a
}

func printAnalysis(w io.Writer, a Analysis) {
	shape := "rectangular"
	if a.Jagged {
		shape = "jagged"
	}

	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid: %d rows x %d columns (%s)\n", a.Rows, a.Width, shape)
	fmt.Fprintf(w, "Cells: %d walls, %d open, %d goals\n", a.Walls, a.Open, a.Goals)
	fmt.Fprintf(w, "Start: (%d, %d) on %s\n", a.Start.X, a.Start.Y, a.StartCell)

	if a.Nearest != nil {
		fmt.Fprintf(w, "Nearest goal: (%d, %d), Manhattan distance %d\n", a.Nearest.X, a.Nearest.Y, a.Distance)
	}

	if !a.Recursive.Found {
		fmt.Fprintf(w, "⚠️  WARNING: no goal reachable from the start (%d cells explored)\n", a.Recursive.Explored)
	} else {
		goal := a.Recursive.Goal
		fmt.Fprintf(w, "Finder: goal (%d, %d) in %d steps, %d cells explored\n",
			goal.X, goal.Y, a.Steps(), a.Recursive.Explored)
		if a.Nearest != nil && *a.Nearest != *goal {
			fmt.Fprintf(w, "   Reported goal is not the nearest; direction order picked it first\n")
		}
		if detour := a.Detour(); detour > 0 {
			fmt.Fprintf(w, "   Path detours %d steps beyond the straight-line distance\n", detour)
		} else {
			fmt.Fprintf(w, "   Path is as short as the straight-line distance\n")
		}
		fmt.Fprintln(w, indent(a.Recursive.Grid.String(), "   "))
	}

	if a.StrategyGap {
		fmt.Fprintf(w, "⚠️  CRITICAL: recursive and iterative searches disagree (explored %d vs %d)\n",
			a.Recursive.Explored, a.Iterative.Explored)
	} else {
		fmt.Fprintf(w, "✅ Recursive and iterative searches agree\n")
	}
}

func indent(text, prefix string) string {
	return prefix + strings.ReplaceAll(text, "\n", "\n"+prefix)
}
