package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/pathfinder/labyrinth"
)

var (
	// ErrUnknownStrategy is returned for a strategy the finder does not implement
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrConfigNotFound is returned by ConfigManager implementations for unknown ids
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidLayout  = errors.New("invalid layout")
)

// inlineConfigID is the config id recorded for runs over a request layout
const inlineConfigID = "inline"

// solverServiceImpl implements the SolverService interface
type solverServiceImpl struct {
	runs    RunStore
	configs ConfigManager
}

// NewSolverService creates a new solver service instance
func NewSolverService(runs RunStore, configs ConfigManager) SolverService {
	return &solverServiceImpl{
		runs:    runs,
		configs: configs,
	}
}

// getConfigID returns the config_id for a given display name
func (s *solverServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// Solve resolves the requested labyrinth, searches it and records the run
func (s *solverServiceImpl) Solve(ctx context.Context, req SolveRequest) (*Run, error) {
	strategy := req.Strategy
	switch strategy {
	case "":
		strategy = labyrinth.Recursive
	case labyrinth.Recursive, labyrinth.Iterative:
	default:
		return nil, fmt.Errorf("%w: %q (use %q or %q)", ErrUnknownStrategy, strategy, labyrinth.Recursive, labyrinth.Iterative)
	}

	config, configID, err := s.resolveConfig(req)
	if err != nil {
		return nil, err
	}

	start := config.Start
	if req.Start != nil {
		start = *req.Start
	}

	finder := labyrinth.NewFinder(labyrinth.WithStrategy(strategy))
	began := time.Now()
	result, err := finder.SolveContext(ctx, config.Grid(), start)
	if err != nil {
		return nil, fmt.Errorf("search aborted: %w", err)
	}

	run := &Run{
		ConfigID:   configID,
		ConfigName: config.Name,
		Strategy:   strategy,
		Layout:     config.Grid().Lines(),
		Start:      start,
		Found:      result.Found,
		Goal:       result.Goal,
		Trail:      result.Trail,
		Explored:   result.Explored,
		Duration:   time.Since(began),
		CreatedAt:  time.Now(),
	}
	if result.Found {
		run.Solved = result.Grid.Lines()
	}

	if s.runs == nil {
		return run, nil
	}
	stored, err := s.runs.Create(run)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	return stored, nil
}

// resolveConfig picks the inline layout, the named config or the default
func (s *solverServiceImpl) resolveConfig(req SolveRequest) (*labyrinth.Config, string, error) {
	if len(req.Layout) > 0 {
		config := &labyrinth.Config{
			Name:   inlineConfigID,
			Layout: req.Layout,
		}
		if err := labyrinth.ValidateConfig(config); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidLayout, err)
		}
		return config, inlineConfigID, nil
	}

	if req.ConfigID == "" {
		config := s.configs.GetDefault()
		return config, s.getConfigID(config.Name), nil
	}

	config, err := s.configs.LoadConfig(req.ConfigID)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, "", fmt.Errorf("%w: %q (available configs: %v)", ErrConfigNotFound, req.ConfigID, configIDs)
			}
			return nil, "", fmt.Errorf("%w: %q", ErrConfigNotFound, req.ConfigID)
		}
		return nil, "", fmt.Errorf("failed to load config %s: %w", req.ConfigID, err)
	}
	return config, req.ConfigID, nil
}

// GetRun retrieves a recorded run
func (s *solverServiceImpl) GetRun(ctx context.Context, runID string) (*Run, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("run history is disabled")
	}
	return s.runs.Get(runID)
}

// ListRuns returns every recorded run
func (s *solverServiceImpl) ListRuns(ctx context.Context) ([]*Run, error) {
	if s.runs == nil {
		return []*Run{}, nil
	}
	return s.runs.List(), nil
}

// DeleteRun removes a recorded run
func (s *solverServiceImpl) DeleteRun(ctx context.Context, runID string) error {
	if s.runs == nil {
		return fmt.Errorf("run history is disabled")
	}
	return s.runs.Delete(runID)
}

// ListConfigs returns all available labyrinth configurations
func (s *solverServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *solverServiceImpl) LoadConfig(ctx context.Context, configName string) (*labyrinth.Config, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a configuration
func (s *solverServiceImpl) SaveConfig(ctx context.Context, configName string, config *labyrinth.Config) error {
	return s.configs.SaveConfig(configName, config)
}
