// Package api provides the HTTP REST API for the labyrinth pathfinder.
//
// Endpoints:
//
// Searching:
//   - POST /api/solve - Search a labyrinth and record the run
//
// Run History:
//   - GET /api/runs - List runs (sort=created|explored, order=asc|desc, limit, config)
//   - GET /api/runs/{id} - Get a recorded run
//   - DELETE /api/runs/{id} - Delete a recorded run
//
// Configuration:
//   - GET /api/configs - List available labyrinths
//   - POST /api/configs - Save a labyrinth (optional ?id=)
//   - GET /api/configs/{name} - Get a labyrinth
//
// Live updates:
//   - GET /ws?config=<id> - WebSocket stream of runs for one labyrinth
//
// A solve request names a config or carries an inline layout:
//
//	{
//	  "config_id": "classic",
//	  "start": {"x": 0, "y": 1},
//	  "strategy": "iterative"
//	}
//
// All fields are optional; an empty body searches the default labyrinth from
// its configured start.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	server := api.NewServer(solverService, hub)
//	http.ListenAndServe(":8080", server)
//
// Errors are returned as JSON with an HTTP status derived from the
// underlying error:
//
//	{"error": "configuration not found: \"nope\""}
package api
