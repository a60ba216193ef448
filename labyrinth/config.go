package labyrinth

import (
	"encoding/json"
	"fmt"
	"os"
)

// ValidateConfig validates a labyrinth configuration. Start positions are
// not checked: searching from a wall or from outside the grid is a valid,
// failing search.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if len(config.Layout) == 0 {
		return fmt.Errorf("config validation: layout is empty")
	}
	if len(config.Layout) > MaxGridSize {
		return fmt.Errorf("config validation: layout must have at most %d rows, got %d", MaxGridSize, len(config.Layout))
	}

	goals := 0
	for i, row := range config.Layout {
		if len(row) > MaxGridSize {
			return fmt.Errorf("config validation: row %d must have at most %d characters, got %d",
				i+1, MaxGridSize, len(row))
		}
		for j := 0; j < len(row); j++ {
			if row[j] > 0x7e || row[j] < 0x20 {
				return fmt.Errorf("config validation: non-printable or non-ASCII byte 0x%02x at row %d, col %d", row[j], i+1, j+1)
			}
			if Cell(row[j]) == Goal {
				goals++
			}
		}
	}

	if goals == 0 {
		return fmt.Errorf("config validation: layout must contain at least one goal (%c) cell", Goal)
	}

	return nil
}

// LoadConfig loads and validates a labyrinth configuration from a JSON file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns the built-in labyrinth searched when no
// configuration is given
func DefaultConfig() *Config {
	return &Config{
		Name:        "classic",
		Description: "The built-in labyrinth, entered from the open cell on the west edge",
		Layout: []string{
			"XXXXXXXXXX",
			"  XX  XX S",
			"X XX  X  X",
			"X  X    XX",
			"X        X",
			"XXXXXXXXXX",
		},
		Start:  Position{X: 0, Y: 1},
		Legend: DefaultLegend(),
	}
}

// DefaultLegend describes the characters understood by the finder
func DefaultLegend() map[string]string {
	return map[string]string{
		string(rune(Wall)):    "wall",
		string(rune(Open)):    "open",
		string(rune(Goal)):    "goal",
		string(rune(Visited)): "visited",
	}
}
