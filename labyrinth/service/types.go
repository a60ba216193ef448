package service

import (
	"time"

	"github.com/wricardo/mcp-training/pathfinder/labyrinth"
)

// SolveRequest selects a labyrinth and start position to search.
// An inline Layout takes precedence over ConfigID; an empty ConfigID
// selects the default labyrinth.
type SolveRequest struct {
	ConfigID string              `json:"config_id,omitempty"`
	Layout   []string            `json:"layout,omitempty"`
	Start    *labyrinth.Position `json:"start,omitempty"`
	Strategy labyrinth.Strategy  `json:"strategy,omitempty"`
}

// Run is the recorded outcome of one search
type Run struct {
	ID         string               `json:"id"`
	ConfigID   string               `json:"config_id"`
	ConfigName string               `json:"config_name"`
	Strategy   labyrinth.Strategy   `json:"strategy"`
	Layout     []string             `json:"layout"`
	Start      labyrinth.Position   `json:"start"`
	Found      bool                 `json:"found"`
	Goal       *labyrinth.Position  `json:"goal,omitempty"`
	Solved     []string             `json:"solved,omitempty"` // grid with the path marked, only when Found
	Trail      []labyrinth.Position `json:"trail,omitempty"`
	Explored   int                  `json:"explored"`
	Duration   time.Duration        `json:"duration_ns"`
	CreatedAt  time.Time            `json:"created_at"`
}

// PathLength returns the number of steps from start to goal, or -1 when no
// goal was reached
func (r *Run) PathLength() int {
	if !r.Found {
		return -1
	}
	return len(r.Trail)
}

// ConfigInfo provides information about a labyrinth configuration
type ConfigInfo struct {
	Filename    string             `json:"filename"`
	ConfigID    string             `json:"config_id"` // The identifier to use for solving
	Name        string             `json:"name"`      // Display name
	Description string             `json:"description"`
	Rows        int                `json:"rows"`
	Width       int                `json:"width"`
	Jagged      bool               `json:"jagged"`
	Goals       int                `json:"goals"`
	Start       labyrinth.Position `json:"start"`
}

// NewConfigInfo summarizes a config stored under configID
func NewConfigInfo(configID, filename string, config *labyrinth.Config) *ConfigInfo {
	grid := labyrinth.Grid(config.Layout)
	return &ConfigInfo{
		Filename:    filename,
		ConfigID:    configID,
		Name:        config.Name,
		Description: config.Description,
		Rows:        len(grid),
		Width:       grid.Width(),
		Jagged:      grid.IsJagged(),
		Goals:       grid.Count(labyrinth.Goal),
		Start:       config.Start,
	}
}
