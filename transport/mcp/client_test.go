package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/mcp-training/pathfinder/labyrinth"
	"github.com/wricardo/mcp-training/pathfinder/labyrinth/service"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected tool result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func classicRun() service.Run {
	return service.Run{
		ID:       "run-1",
		ConfigID: "classic",
		Strategy: labyrinth.Recursive,
		Start:    labyrinth.Position{X: 0, Y: 1},
		Found:    true,
		Goal:     &labyrinth.Position{X: 2, Y: 1},
		Solved:   []string{"XXX", "++S", "XXX"},
		Trail:    []labyrinth.Position{{X: 0, Y: 1}, {X: 1, Y: 1}},
		Explored: 4,
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash to be trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]string
	if err := client.apiCall(context.Background(), "GET", "/api/health", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("Unexpected response %v", response)
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1")
		if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
			t.Error("Expected error for unreachable server")
		}
	})

	t.Run("JSON error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "configuration not found"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api/configs/x", nil, nil)
		if err == nil || err.Error() != "configuration not found" {
			t.Errorf("Expected API error message, got %v", err)
		}
	})

	t.Run("plain error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "API error") {
			t.Errorf("Expected 'API error', got %v", err)
		}
	})
}

func TestClient_handleSolve(t *testing.T) {
	tests := []struct {
		name       string
		args       map[string]interface{}
		expectReq  func(*testing.T, service.SolveRequest)
		wantError  bool
		wantInText []string
	}{
		{
			name: "default labyrinth",
			args: map[string]interface{}{},
			expectReq: func(t *testing.T, req service.SolveRequest) {
				if req.ConfigID != "" || req.Start != nil {
					t.Errorf("Expected empty request, got %+v", req)
				}
			},
			wantInText: []string{"Run run-1", "goal (2,1), path 2, 4 cells explored", "  1|++S|", "Path: (0,1) (1,1) -> (2,1)"},
		},
		{
			name: "config with start and strategy",
			args: map[string]interface{}{"config_id": "tiny", "x": float64(1), "y": float64(1), "strategy": "iterative"},
			expectReq: func(t *testing.T, req service.SolveRequest) {
				if req.ConfigID != "tiny" || req.Strategy != labyrinth.Iterative {
					t.Errorf("Unexpected request %+v", req)
				}
				if req.Start == nil || *req.Start != (labyrinth.Position{X: 1, Y: 1}) {
					t.Errorf("Expected start (1,1), got %v", req.Start)
				}
			},
			wantInText: []string{"Strategy: recursive"},
		},
		{
			name: "inline layout",
			args: map[string]interface{}{"layout": []interface{}{"XXX", "  S"}},
			expectReq: func(t *testing.T, req service.SolveRequest) {
				if len(req.Layout) != 2 || req.Layout[1] != "  S" {
					t.Errorf("Expected inline layout, got %v", req.Layout)
				}
			},
		},
		{
			name:      "x without y",
			args:      map[string]interface{}{"x": float64(1)},
			wantError: true,
		},
		{
			name:      "non-string layout row",
			args:      map[string]interface{}{"layout": []interface{}{"XXX", 7}},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != "POST" || r.URL.Path != "/api/solve" {
					t.Errorf("Expected POST /api/solve, got %s %s", r.Method, r.URL.Path)
				}
				var req service.SolveRequest
				json.NewDecoder(r.Body).Decode(&req)
				if tt.expectReq != nil {
					tt.expectReq(t, req)
				}
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(classicRun())
			}))
			defer server.Close()

			client := NewClient(server.URL)
			result, err := client.handleSolve(context.Background(), callTool("solve", tt.args))
			if err != nil {
				t.Fatalf("Handler returned error: %v", err)
			}

			if result.IsError != tt.wantError {
				t.Fatalf("IsError = %v, expected %v: %s", result.IsError, tt.wantError, resultText(t, result))
			}

			text := resultText(t, result)
			for _, want := range tt.wantInText {
				if !strings.Contains(text, want) {
					t.Errorf("Expected %q in:\n%s", want, text)
				}
			}
		})
	}
}

func TestClient_handleSolve_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "unknown strategy: \"bfs\""})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, _ := client.handleSolve(context.Background(), callTool("solve", map[string]interface{}{"strategy": "bfs"}))

	if !result.IsError || !strings.Contains(resultText(t, result), "unknown strategy") {
		t.Errorf("Expected tool error, got %+v", result)
	}
}

func TestClient_handleGetRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/runs/abc" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		run := classicRun()
		run.ID = "abc"
		run.Found = false
		run.Goal = nil
		run.Solved = nil
		run.Trail = nil
		json.NewEncoder(w).Encode(run)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, _ := client.handleGetRun(context.Background(), callTool("get_run", map[string]interface{}{"run_id": "abc"}))
	text := resultText(t, result)
	if !strings.Contains(text, "no goal reachable, 4 cells explored") {
		t.Errorf("Expected failed run summary, got:\n%s", text)
	}
	if strings.Contains(text, "Path:") {
		t.Error("Failed run should not print a path")
	}

	result, _ = client.handleGetRun(context.Background(), callTool("get_run", nil))
	if !result.IsError {
		t.Error("Expected error without run_id")
	}
}

func TestClient_handleListRuns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("config") != "classic" || query.Get("limit") != "5" || query.Get("sort") != "explored" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": 1,
			"total": 3,
			"runs":  []service.Run{classicRun()},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, _ := client.handleListRuns(context.Background(), callTool("list_runs", map[string]interface{}{
		"config_id": "classic",
		"sort":      "explored",
		"limit":     float64(5),
	}))

	text := resultText(t, result)
	if !strings.Contains(text, "Runs (1 of 3)") || !strings.Contains(text, "run-1 classic from (0,1)") {
		t.Errorf("Unexpected output:\n%s", text)
	}
}

func TestClient_handleListConfigs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jagged := &labyrinth.Config{Name: "Jagged", Layout: []string{"X X   ", "X  S", "XXXXXX"}, Start: labyrinth.Position{X: 1}}
		json.NewEncoder(w).Encode([]*service.ConfigInfo{
			service.NewConfigInfo("classic", "classic.json", labyrinth.DefaultConfig()),
			service.NewConfigInfo("jagged", "jagged.json", jagged),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, _ := client.handleListConfigs(context.Background(), callTool("list_configs", nil))

	text := resultText(t, result)
	for _, want := range []string{"config_id: classic", "Grid: 10x6, Goals: 1, Start: (0,1)", "Grid: 6x3 (jagged)"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
}

func TestClient_handleDescribeConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/configs/walled" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(labyrinth.Config{
			Name:   "Walled",
			Layout: []string{"XXX", "XSX", "XXX"},
			Start:  labyrinth.Position{X: 1, Y: 0},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, _ := client.handleDescribeConfig(context.Background(), callTool("describe_config", map[string]interface{}{"config_id": "walled"}))

	text := resultText(t, result)
	for _, want := range []string{"Walled (config_id: walled)", "Start is on a wall cell.", "    012\n", "  1|XSX|"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
}

func TestClient_handleLegend(t *testing.T) {
	client := NewClient("http://localhost:8080")
	result, _ := client.handleLegend(context.Background(), callTool("legend", nil))

	text := resultText(t, result)
	if !strings.Contains(text, "west (x-1), east (x+1), north (y-1), south (y+1)") {
		t.Errorf("Legend should describe the search order:\n%s", text)
	}
	if !strings.Contains(text, "• X  wall") || !strings.Contains(text, "• S  goal") {
		t.Errorf("Legend should describe cells:\n%s", text)
	}
}

func TestFormatGrid(t *testing.T) {
	got := formatGrid([]string{"X X   ", "X  S"})
	want := "    012345\n  0|X X   |\n  1|X  S|\n"
	if got != want {
		t.Errorf("formatGrid() = %q, want %q", got, want)
	}
}
