package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/pathfinder/labyrinth"
)

func TestAnalyzeConfig_Classic(t *testing.T) {
	a := analyzeConfig(labyrinth.DefaultConfig())

	if a.Rows != 6 || a.Width != 10 || a.Jagged {
		t.Errorf("Expected 6x10 rectangular grid, got %dx%d jagged=%t", a.Rows, a.Width, a.Jagged)
	}
	if a.Goals != 1 {
		t.Errorf("Expected 1 goal, got %d", a.Goals)
	}
	if a.StartCell != "open" {
		t.Errorf("Expected start on open cell, got %s", a.StartCell)
	}
	if a.Nearest == nil || *a.Nearest != (labyrinth.Position{X: 9, Y: 1}) || a.Distance != 9 {
		t.Errorf("Expected nearest goal (9,1) at distance 9, got %v at %d", a.Nearest, a.Distance)
	}
	if a.Steps() != 15 {
		t.Errorf("Expected 15 steps, got %d", a.Steps())
	}
	if a.Detour() != 6 {
		t.Errorf("Expected detour 6, got %d", a.Detour())
	}
	if a.Recursive.Explored != 124 {
		t.Errorf("Expected 124 explored cells, got %d", a.Recursive.Explored)
	}
	if a.StrategyGap {
		t.Error("Expected strategies to agree")
	}
}

func TestAnalyzeConfig_Unreachable(t *testing.T) {
	a := analyzeConfig(&labyrinth.Config{
		Name:   "enclosed",
		Layout: []string{"XXXXX", "X   X", "X XXX", "X XSX", "XXXXX"},
		Start:  labyrinth.Position{X: 1, Y: 1},
	})

	if a.Recursive.Found {
		t.Fatal("Expected enclosed goal to be unreachable")
	}
	if a.Steps() != -1 || a.Detour() != -1 {
		t.Errorf("Expected -1 steps and detour, got %d and %d", a.Steps(), a.Detour())
	}
	if a.Nearest == nil || a.Distance != 4 {
		t.Errorf("Expected nearest goal at distance 4, got %v at %d", a.Nearest, a.Distance)
	}
}

func TestAnalyzeConfig_StartOutside(t *testing.T) {
	a := analyzeConfig(&labyrinth.Config{
		Name:   "outside",
		Layout: []string{"X S"},
		Start:  labyrinth.Position{X: -1, Y: 0},
	})
	if a.StartCell != "outside" {
		t.Errorf("Expected start outside, got %s", a.StartCell)
	}
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	printAnalysis(&buf, analyzeConfig(labyrinth.DefaultConfig()))
	output := buf.String()

	for _, want := range []string{
		"Name: classic",
		"Grid: 6 rows x 10 columns (rectangular)",
		"Start: (0, 1) on open",
		"Finder: goal (9, 1) in 15 steps, 124 cells explored",
		"Path detours 6 steps",
		"   ++XX  XX+S",
		"Recursive and iterative searches agree",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestPrintAnalysis_Unreachable(t *testing.T) {
	var buf bytes.Buffer
	printAnalysis(&buf, analyzeConfig(&labyrinth.Config{
		Name:   "walled",
		Layout: []string{"X X", "XXX", "XSX"},
		Start:  labyrinth.Position{X: 1, Y: 0},
	}))

	if !strings.Contains(buf.String(), "no goal reachable from the start") {
		t.Errorf("Expected unreachable warning, got:\n%s", buf.String())
	}
}

func TestIndent(t *testing.T) {
	if got := indent("ab\ncd", "  "); got != "  ab\n  cd" {
		t.Errorf("Unexpected indent result %q", got)
	}
}
