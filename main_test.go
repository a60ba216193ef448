package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/pathfinder/api"
	"github.com/wricardo/mcp-training/pathfinder/labyrinth/service"
	"github.com/wricardo/mcp-training/pathfinder/transport/mcp"
)

const classicSolved = "XXXXXXXXXX\n" +
	"++XX  XX+S\n" +
	"X+XX  X++X\n" +
	"X++X   +XX\n" +
	"X ++++++ X\n" +
	"XXXXXXXXXX\n"

const tinyJSON = `{"name": "tiny", "layout": ["XXX", "X S", "XXX"], "start": {"x": 1, "y": 1}}`

const enclosedJSON = `{"name": "enclosed", "layout": ["XXXXX", "X   X", "X XXX", "X XSX", "XXXXX"], "start": {"x": 1, "y": 1}}`

func writeConfigs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

// runApp runs the command tree with args and returns what it wrote to stdout
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(context.Background(), append([]string{"pathfinder"}, args...))
	return out.String(), err
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Labyrinth Pathfinder"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestSearchAction(t *testing.T) {
	tinyPath := filepath.Join(writeConfigs(t, map[string]string{"tiny.json": tinyJSON}), "tiny.json")

	tests := []struct {
		name   string
		args   []string
		output string
	}{
		{"built-in labyrinth", nil, classicSolved},
		{"iterative strategy", []string{"--strategy", "iterative"}, classicSolved},
		{"start on a wall", []string{"--x", "0", "--y", "0"}, ""},
		{"start outside the grid", []string{"--x=-1", "--y=1"}, ""},
		{"config file", []string{"--config", tinyPath}, "XXX\nX+S\nXXX\n"},
		{"config file starting on the goal", []string{"--config", tinyPath, "--x", "2"}, "XXX\nX S\nXXX\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runApp(t, tt.args...)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if output != tt.output {
				t.Errorf("Expected output %q, got %q", tt.output, output)
			}
		})
	}
}

func TestSearchActionLogsOnlyWithDebug(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	output, err := runApp(t, "--x", "0", "--y", "0")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output != "" || logs.String() != "" {
		t.Errorf("Expected a failed search to write nothing, got stdout %q and log %q", output, logs.String())
	}

	if _, err := runApp(t, "--debug", "--x", "0", "--y", "0"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(logs.String(), "[SEARCH] labyrinth=classic start=(0,0) found=false") {
		t.Errorf("Expected debug search log, got %q", logs.String())
	}
}

func TestSearchActionErrors(t *testing.T) {
	_, err := runApp(t, "--strategy", "breadth-first")
	if !errors.Is(err, service.ErrUnknownStrategy) {
		t.Errorf("Expected ErrUnknownStrategy, got %v", err)
	}

	_, err = runApp(t, "--config", filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestSolveCommand(t *testing.T) {
	dir := writeConfigs(t, map[string]string{
		"tiny.json":     tinyJSON,
		"enclosed.json": enclosedJSON,
	})

	var exitCode int
	originalExiter := cli.OsExiter
	cli.OsExiter = func(code int) { exitCode = code }
	defer func() { cli.OsExiter = originalExiter }()

	t.Run("reachable goal", func(t *testing.T) {
		exitCode = 0
		output, err := runApp(t, "solve", "--config-dir", dir, "tiny")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !strings.HasPrefix(output, "XXX\nX+S\nXXX\n") {
			t.Errorf("Expected solved grid first, got %q", output)
		}
		if !strings.Contains(output, "tiny: goal (2,1) reached from (1,1), path 1, 3 cells explored") {
			t.Errorf("Expected summary line, got %q", output)
		}
		if exitCode != 0 {
			t.Errorf("Expected exit code 0, got %d", exitCode)
		}
	})

	t.Run("unreachable goal", func(t *testing.T) {
		exitCode = 0
		output, _ := runApp(t, "solve", "--config-dir", dir, "enclosed")
		if !strings.Contains(output, "enclosed: no goal reachable from (1,1)") {
			t.Errorf("Expected failure summary, got %q", output)
		}
		if exitCode != 1 {
			t.Errorf("Expected exit code 1, got %d", exitCode)
		}
	})

	t.Run("unknown config", func(t *testing.T) {
		_, err := runApp(t, "solve", "--config-dir", dir, "nonexistent")
		if !errors.Is(err, service.ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("missing config id", func(t *testing.T) {
		exitCode = 0
		runApp(t, "solve", "--config-dir", dir)
		if exitCode != 2 {
			t.Errorf("Expected exit code 2, got %d", exitCode)
		}
	})
}

func TestInitializeServices(t *testing.T) {
	configDir := writeConfigs(t, map[string]string{"tiny.json": tinyJSON})
	runsDir := filepath.Join(t.TempDir(), "runs")

	solverService, runManager, persistence, err := initializeServices(configDir, runsDir)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	result, err := solverService.Solve(context.Background(), service.SolveRequest{ConfigID: "tiny"})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !persistence.Exists(result.ID) {
		t.Fatalf("Expected run %s to be persisted", result.ID)
	}

	// A second start picks up the persisted run
	_, reloaded, _, err := initializeServices(configDir, runsDir)
	if err != nil {
		t.Fatalf("Failed to reinitialize services: %v", err)
	}
	if reloaded.Count() != 1 {
		t.Errorf("Expected 1 reloaded run, got %d", reloaded.Count())
	}

	if err := os.Remove(filepath.Join(runsDir, result.ID+".json")); err != nil {
		t.Fatalf("Failed to remove run file: %v", err)
	}
	if pruned := syncWithFilesystem(runManager, persistence, time.Minute); pruned != 0 {
		t.Errorf("Expected fresh run to survive the sync, got %d pruned", pruned)
	}
	if pruned := syncWithFilesystem(runManager, persistence, 0); pruned != 1 {
		t.Errorf("Expected 1 pruned run, got %d", pruned)
	}
	if runManager.Count() != 0 {
		t.Errorf("Expected empty run manager after sync, got %d", runManager.Count())
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	_, _, _, err := initializeServices("/non/existent/path", t.TempDir())
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestNewHandler(t *testing.T) {
	solverService, _, _, err := initializeServices(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	handler := newHandler(api.NewServer(solverService, nil), mcp.NewClient("http://127.0.0.1:0"))

	t.Run("api mounted at root", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))
		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})

	t.Run("mcp rejects GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected status 405, got %d", w.Code)
		}
	})

	t.Run("mcp answers ping", func(t *testing.T) {
		body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", body))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		if !strings.Contains(w.Body.String(), `"jsonrpc":"2.0"`) {
			t.Errorf("Expected JSON-RPC response, got %s", w.Body.String())
		}
	})
}

func TestAPIReachable(t *testing.T) {
	solverService, _, _, err := initializeServices(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	ts := httptest.NewServer(api.NewServer(solverService, nil))

	if !apiReachable(ts.URL) {
		t.Error("Expected running API to be reachable")
	}

	ts.Close()
	if apiReachable(ts.URL) {
		t.Error("Expected closed API to be unreachable")
	}
}
