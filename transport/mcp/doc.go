// Package mcp exposes the labyrinth pathfinder to AI agents over the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a REST request against
// a running api.Server and the JSON answer is rendered as text.
//
// MCP Tools:
//   - list_configs: List stored labyrinths
//   - describe_config: Show a labyrinth with coordinates and start warnings
//   - solve: Search a stored or inline labyrinth
//   - get_run: Show a recorded run with its marked path
//   - list_runs: List recorded runs
//   - legend: Explain grid characters and the west, east, north, south order
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	response := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
