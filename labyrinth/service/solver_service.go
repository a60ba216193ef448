package service

import (
	"context"

	"github.com/wricardo/mcp-training/pathfinder/labyrinth"
)

// SolverService defines all labyrinth-related operations
type SolverService interface {
	// Searching
	Solve(ctx context.Context, req SolveRequest) (*Run, error)

	// Run history
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context) ([]*Run, error)
	DeleteRun(ctx context.Context, runID string) error

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*labyrinth.Config, error)
	SaveConfig(ctx context.Context, configName string, config *labyrinth.Config) error
}

// RunStore defines run storage operations
type RunStore interface {
	Create(run *Run) (*Run, error)
	Get(id string) (*Run, error)
	List() []*Run
	Delete(id string) error
}

// ConfigManager handles labyrinth configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*labyrinth.Config, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *labyrinth.Config
	SaveConfig(name string, config *labyrinth.Config) error
}
