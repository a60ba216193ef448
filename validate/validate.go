// Command validate checks the labyrinth JSON files in a config directory
// (../configs by default, or the first argument). It checks:
//   - JSON structure and the rules enforced when a labyrinth is loaded
//   - Characters outside the wall, open, goal and visited set
//   - Whether the start position is inside the grid and open
//   - Which goals are reachable from the start, and which one the finder reports
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/pathfinder/labyrinth"
)

// ValidationResult captures the outcome of validating a single file.
// Errors make the file invalid; Warnings and Info are reported either way.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...interface{}) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single labyrinth JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config labyrinth.Config
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := labyrinth.ValidateConfig(&config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	grid := config.Grid()
	for y, row := range grid {
		for x := 0; x < len(row); x++ {
			switch labyrinth.Cell(row[x]) {
			case labyrinth.Wall, labyrinth.Open, labyrinth.Goal:
			case labyrinth.Visited:
				result.warn("Pre-marked cell '%c' at (%d,%d) blocks like a wall", row[x], x, y)
			default:
				result.warn("Unknown character '%c' at (%d,%d) blocks like a wall", row[x], x, y)
			}
		}
	}
	if grid.IsJagged() {
		result.warn("Rows have different widths; cells past a row's end are out of bounds")
	}

	start := config.Start
	if cell, ok := grid.At(start); !ok {
		result.warn("Start (%d,%d) is outside the grid; every search fails", start.X, start.Y)
	} else if cell != labyrinth.Open && cell != labyrinth.Goal {
		result.warn("Start (%d,%d) is on a %s cell; every search fails", start.X, start.Y, cell.Kind())
	}

	reachable := validateConnectivity(grid, start)
	result.Warnings = append(result.Warnings, reachable.Warnings...)
	result.Info = append(result.Info, reachable.Info...)

	result.note("Name: %s", config.Name)
	result.note("Grid: %d rows, width %d", len(grid), grid.Width())
	result.note("Walls: %d, open: %d, goals: %d",
		grid.Count(labyrinth.Wall), grid.Count(labyrinth.Open), grid.Count(labyrinth.Goal))
	result.note("Start: (%d,%d)", start.X, start.Y)

	return result
}

// validateConnectivity flood-fills west, east, north and south over open
// cells from start and reports which goals it touches. It also runs the
// finder so the report names the goal a search would actually return.
func validateConnectivity(grid labyrinth.Grid, start labyrinth.Position) ValidationResult {
	result := ValidationResult{Valid: true}

	goals := grid.Positions(labyrinth.Goal)
	if len(goals) == 0 {
		result.Valid = false
		result.warn("No goals found for connectivity test")
		return result
	}

	reached := make(map[labyrinth.Position]bool)
	visited := make(map[labyrinth.Position]bool)
	queue := []labyrinth.Position{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		cell, ok := grid.At(current)
		if !ok {
			continue
		}
		if cell == labyrinth.Goal {
			reached[current] = true
			continue
		}
		if !cell.IsPassable() {
			continue
		}

		for _, d := range labyrinth.Directions {
			if next := current.Step(d); !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	for _, goal := range goals {
		if !reached[goal] {
			result.warn("Unreachable: goal at (%d,%d)", goal.X, goal.Y)
		}
	}

	if len(reached) == 0 {
		result.Valid = false
		result.warn("Connectivity: no goal reachable from (%d,%d)", start.X, start.Y)
		return result
	}

	result.note("Connectivity: %d/%d goals reachable", len(reached), len(goals))

	search := labyrinth.NewFinder().Solve(grid, start)
	if search.Found {
		result.note("Finder reaches (%d,%d) with path %d after exploring %d cells",
			search.Goal.X, search.Goal.Y, len(search.Trail), search.Explored)
	}

	return result
}

// main validates every *.json file in the config directory, printing a
// concise report and exiting with non-zero status if any are invalid
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No labyrinth files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Info {
				fmt.Println("  ✓ " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Println("  ⚠️  " + warning)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All labyrinths are valid!")
	} else {
		fmt.Println("❌ Some labyrinths have errors")
		os.Exit(1)
	}
}
