// Package config provides labyrinth configuration management.
//
// Labyrinths are stored as JSON files in a configs directory, one per file.
// The file name without its .json suffix is the config id used by the CLI,
// the REST API and the MCP tools:
//
//	{
//	  "name": "classic",
//	  "description": "The built-in labyrinth",
//	  "layout": ["XXXXXXXXXX", "  XX  XX S", ...],
//	  "start": {"x": 0, "y": 1}
//	}
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	tiny, err := manager.LoadConfig("tiny")
//	configs, err := manager.ListConfigs()
//	def := manager.GetDefault()
//
// The default labyrinth is classic.json when present, otherwise the first
// valid file, otherwise the built-in labyrinth from labyrinth.DefaultConfig.
package config
