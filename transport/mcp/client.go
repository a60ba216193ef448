package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/pathfinder/labyrinth"
	"github.com/wricardo/mcp-training/pathfinder/labyrinth/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Labyrinth Pathfinder",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Labyrinth Pathfinder - MCP Interface

This is a thin client that proxies all requests to the REST API server.

A labyrinth is a grid of characters: X is a wall, a space is open floor,
S is a goal. The finder walks depth-first from a start cell, trying west,
east, north and south in that order, and marks the path it took with +.
It reports the first goal it reaches, which is not necessarily the closest.

AVAILABLE TOOLS:
- list_configs: List stored labyrinths
- describe_config: Show a labyrinth with coordinates
- solve: Search a stored labyrinth or an inline layout
- get_run: Show a recorded run
- list_runs: List recorded runs
- legend: Explain the grid characters and search order`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List the stored labyrinths",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_config",
		Description: "Show a stored labyrinth with row and column coordinates",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config ID as returned by list_configs",
				},
			},
			Required: []string{"config_id"},
		},
	}, c.handleDescribeConfig)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve",
		Description: "Search a labyrinth for a goal and record the run",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Stored labyrinth to search (default labyrinth when omitted)",
				},
				"layout": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Inline labyrinth rows, used instead of config_id",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Start column (0-based); requires y",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Start row (0-based); requires x",
				},
				"strategy": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(labyrinth.Recursive), string(labyrinth.Iterative)},
					"description": "Search implementation; both give identical results",
				},
			},
		},
	}, c.handleSolve)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_run",
		Description: "Show a recorded run",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run ID returned by solve",
				},
			},
			Required: []string{"run_id"},
		},
	}, c.handleGetRun)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_runs",
		Description: "List recorded runs, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Only runs over this labyrinth",
				},
				"sort": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"created", "explored"},
					"description": "Sort key",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of runs",
				},
			},
		},
	}, c.handleListRuns)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legend",
		Description: "Explain the labyrinth characters and the search order",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleLegend)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// arguments returns the tool arguments, tolerating a missing object
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// Tool handlers

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(configs) == 0 {
		return mcp.NewToolResultText("No labyrinths stored. solve still accepts an inline layout."), nil
	}

	var b strings.Builder
	b.WriteString("Available Labyrinths:\n\n")
	for _, cfg := range configs {
		shape := fmt.Sprintf("%dx%d", cfg.Width, cfg.Rows)
		if cfg.Jagged {
			shape += " (jagged)"
		}
		fmt.Fprintf(&b, "• %s (config_id: %s)\n", cfg.Name, cfg.ConfigID)
		if cfg.Description != "" {
			fmt.Fprintf(&b, "  %s\n", cfg.Description)
		}
		fmt.Fprintf(&b, "  Grid: %s, Goals: %d, Start: (%d,%d)\n\n", shape, cfg.Goals, cfg.Start.X, cfg.Start.Y)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleDescribeConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configID, _ := arguments(request)["config_id"].(string)
	if configID == "" {
		return mcp.NewToolResultError("config_id is required"), nil
	}

	var cfg labyrinth.Config
	if err := c.apiCall(ctx, "GET", "/api/configs/"+url.PathEscape(configID), nil, &cfg); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatConfig(configID, &cfg)), nil
}

func (c *Client) handleSolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	req := service.SolveRequest{}
	req.ConfigID, _ = args["config_id"].(string)
	if strategy, ok := args["strategy"].(string); ok {
		req.Strategy = labyrinth.Strategy(strategy)
	}

	if rows, ok := args["layout"].([]interface{}); ok {
		for _, row := range rows {
			line, ok := row.(string)
			if !ok {
				return mcp.NewToolResultError("layout must be an array of strings"), nil
			}
			req.Layout = append(req.Layout, line)
		}
	}

	x, hasX := args["x"].(float64)
	y, hasY := args["y"].(float64)
	if hasX != hasY {
		return mcp.NewToolResultError("x and y must be given together"), nil
	}
	if hasX {
		req.Start = &labyrinth.Position{X: int(x), Y: int(y)}
	}

	var run service.Run
	if err := c.apiCall(ctx, "POST", "/api/solve", req, &run); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRun(&run)), nil
}

func (c *Client) handleGetRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	runID, _ := arguments(request)["run_id"].(string)
	if runID == "" {
		return mcp.NewToolResultError("run_id is required"), nil
	}

	var run service.Run
	if err := c.apiCall(ctx, "GET", "/api/runs/"+url.PathEscape(runID), nil, &run); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRun(&run)), nil
}

func (c *Client) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	params := url.Values{}
	if configID, ok := args["config_id"].(string); ok && configID != "" {
		params.Set("config", configID)
	}
	if sortBy, ok := args["sort"].(string); ok && sortBy != "" {
		params.Set("sort", sortBy)
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}

	path := "/api/runs"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var response struct {
		Count int           `json:"count"`
		Total int           `json:"total"`
		Runs  []service.Run `json:"runs"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Runs (%d of %d):\n\n", response.Count, response.Total)
	for _, run := range response.Runs {
		fmt.Fprintf(&b, "- %s %s from (%d,%d): %s [%s, %s]\n",
			run.ID, run.ConfigID, run.Start.X, run.Start.Y, summarizeOutcome(&run),
			run.Strategy, run.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleLegend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	legend := fmt.Sprintf(`Labyrinth Legend

CELLS:
• %c  wall, never entered
• ' ' open floor
• %c  goal, the search stops at the first one reached
• %c  cell on the path taken (any other character is treated as visited)

SEARCH:
• Depth-first from the start cell
• Neighbours are tried in order: west (x-1), east (x+1), north (y-1), south (y+1)
• Rows may have different lengths; a cell exists only if its row is long enough
• The result is the first path found, not the shortest one
• A start on a wall, on a visited cell or outside the grid finds nothing

COORDINATES:
• x is the column, y is the row, both 0-based from the top-left corner`,
		labyrinth.Wall, labyrinth.Goal, labyrinth.Visited)

	return mcp.NewToolResultText(legend), nil
}

// Formatting helpers

// summarizeOutcome describes a run in one line
func summarizeOutcome(run *service.Run) string {
	if !run.Found || run.Goal == nil {
		return fmt.Sprintf("no goal reachable, %d cells explored", run.Explored)
	}
	return fmt.Sprintf("goal (%d,%d), path %d, %d cells explored",
		run.Goal.X, run.Goal.Y, run.PathLength(), run.Explored)
}

// formatRun renders a run with its marked grid
func formatRun(run *service.Run) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s\n", run.ID)
	fmt.Fprintf(&b, "Labyrinth: %s  Strategy: %s\n", run.ConfigID, run.Strategy)
	fmt.Fprintf(&b, "Start: (%d,%d)\n", run.Start.X, run.Start.Y)
	fmt.Fprintf(&b, "Result: %s\n", summarizeOutcome(run))

	if run.Found {
		b.WriteString("\n")
		b.WriteString(formatGrid(run.Solved))
		if len(run.Trail) > 0 {
			steps := make([]string, len(run.Trail))
			for i, p := range run.Trail {
				steps[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
			}
			fmt.Fprintf(&b, "\nPath: %s -> (%d,%d)\n", strings.Join(steps, " "), run.Goal.X, run.Goal.Y)
		}
	}

	return b.String()
}

// formatConfig renders a stored labyrinth with its metadata
func formatConfig(configID string, cfg *labyrinth.Config) string {
	grid := labyrinth.Grid(cfg.Layout)

	var b strings.Builder
	fmt.Fprintf(&b, "%s (config_id: %s)\n", cfg.Name, configID)
	if cfg.Description != "" {
		fmt.Fprintf(&b, "%s\n", cfg.Description)
	}
	fmt.Fprintf(&b, "Rows: %d  Width: %d  Goals: %d  Start: (%d,%d)\n",
		len(grid), grid.Width(), grid.Count(labyrinth.Goal), cfg.Start.X, cfg.Start.Y)
	if grid.IsJagged() {
		b.WriteString("Rows have different lengths; cells past the end of a row do not exist.\n")
	}
	if cell, ok := grid.At(cfg.Start); !ok {
		b.WriteString("Start is outside the grid.\n")
	} else if !cell.IsPassable() && cell != labyrinth.Goal {
		fmt.Fprintf(&b, "Start is on a %s cell.\n", cell.Kind())
	}

	b.WriteString("\n")
	b.WriteString(formatGrid(cfg.Layout))
	return b.String()
}

// formatGrid draws rows between a column ruler and row numbers. Cells are
// quoted with | so trailing spaces stay visible.
func formatGrid(rows []string) string {
	width := labyrinth.Grid(rows).Width()

	var b strings.Builder
	b.WriteString("    ")
	for x := 0; x < width; x++ {
		fmt.Fprintf(&b, "%d", x%10)
	}
	b.WriteString("\n")

	for y, row := range rows {
		fmt.Fprintf(&b, "%3d|%s|\n", y, row)
	}
	return b.String()
}
