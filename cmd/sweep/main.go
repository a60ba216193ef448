// Command sweep searches a stored labyrinth from every open cell through a
// running pathfinder API and prints which starts can reach a goal.
//
// Every search is a real POST /api/solve, so each start shows up in the
// server's run history.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/pathfinder/labyrinth"
	"github.com/wricardo/mcp-training/pathfinder/labyrinth/service"
)

// Map characters for open cells in the sweep report
const (
	reachableMark   = '.'
	unreachableMark = '?'
)

// StartOutcome is the result of searching from one start cell
type StartOutcome struct {
	Start    labyrinth.Position
	RunID    string
	Found    bool
	Goal     *labyrinth.Position
	Explored int
}

// Report summarizes a sweep over all open cells of a labyrinth
type Report struct {
	ConfigID string
	Layout   labyrinth.Grid
	Outcomes []StartOutcome // row-major by start
}

// Reachable counts starts that found a goal
func (r *Report) Reachable() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Found {
			n++
		}
	}
	return n
}

// GoalHits counts how many starts reported each goal
func (r *Report) GoalHits() map[labyrinth.Position]int {
	hits := make(map[labyrinth.Position]int)
	for _, o := range r.Outcomes {
		if o.Found {
			hits[*o.Goal]++
		}
	}
	return hits
}

// Map renders the layout with every swept start marked reachable or not
func (r *Report) Map() labyrinth.Grid {
	grid := r.Layout.Clone()
	for _, o := range r.Outcomes {
		mark := labyrinth.Cell(unreachableMark)
		if o.Found {
			mark = reachableMark
		}
		grid = grid.With(o.Start, mark)
	}
	return grid
}

// sweep solves configID from every open cell using up to workers concurrent
// requests. The first request error stops the sweep.
func sweep(ctx context.Context, client *Client, configID string, strategy labyrinth.Strategy, workers int) (*Report, error) {
	cfg, err := client.GetConfig(ctx, configID)
	if err != nil {
		return nil, err
	}

	layout := cfg.Grid()
	starts := layout.Positions(labyrinth.Open)
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan labyrinth.Position)
	var (
		mu       sync.Mutex
		outcomes []StartOutcome
		firstErr error
		wg       sync.WaitGroup
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for start := range jobs {
				run, err := client.Solve(ctx, service.SolveRequest{
					ConfigID: configID,
					Start:    &start,
					Strategy: strategy,
				})

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = fmt.Errorf("start (%d,%d): %w", start.X, start.Y, err)
						cancel()
					}
				} else {
					outcomes = append(outcomes, StartOutcome{
						Start:    start,
						RunID:    run.ID,
						Found:    run.Found,
						Goal:     run.Goal,
						Explored: run.Explored,
					})
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, start := range starts {
		select {
		case jobs <- start:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil && len(outcomes) < len(starts) {
		return nil, err
	}

	sort.Slice(outcomes, func(i, j int) bool {
		a, b := outcomes[i].Start, outcomes[j].Start
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	return &Report{ConfigID: configID, Layout: layout, Outcomes: outcomes}, nil
}

func printReport(w io.Writer, r *Report) {
	fmt.Fprintf(w, "Labyrinth: %s\n", r.ConfigID)
	fmt.Fprintf(w, "Starts swept: %d, reachable: %d, unreachable: %d\n",
		len(r.Outcomes), r.Reachable(), len(r.Outcomes)-r.Reachable())

	hits := r.GoalHits()
	goals := make([]labyrinth.Position, 0, len(hits))
	for g := range hits {
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool {
		if goals[i].Y != goals[j].Y {
			return goals[i].Y < goals[j].Y
		}
		return goals[i].X < goals[j].X
	})
	for _, g := range goals {
		fmt.Fprintf(w, "  Goal (%d,%d) reported from %d starts\n", g.X, g.Y, hits[g])
	}

	fmt.Fprintf(w, "Map ('%c' reaches a goal, '%c' does not):\n", reachableMark, unreachableMark)
	fmt.Fprintln(w, r.Map().String())
}

func main() {
	cmd := &cli.Command{
		Name:  "sweep",
		Usage: "search a stored labyrinth from every open cell",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "pathfinder server URL", Sources: cli.EnvVars("PATHFINDER_API_URL")},
			&cli.StringFlag{Name: "config", Value: "classic", Usage: "labyrinth to sweep"},
			&cli.StringFlag{Name: "strategy", Value: string(labyrinth.Recursive), Usage: "recursive or iterative"},
			&cli.IntFlag{Name: "workers", Value: 4, Usage: "concurrent solve requests"},
			&cli.BoolFlag{Name: "v", Usage: "log every start"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			serverURL := cmd.String("url")
			log.Printf("Connecting to pathfinder server at %s", serverURL)

			report, err := sweep(ctx, NewClient(serverURL), cmd.String("config"),
				labyrinth.Strategy(cmd.String("strategy")), cmd.Int("workers"))
			if err != nil {
				return err
			}

			if cmd.Bool("v") {
				for _, o := range report.Outcomes {
					log.Printf("start=(%d,%d) run=%s found=%t explored=%d",
						o.Start.X, o.Start.Y, o.RunID, o.Found, o.Explored)
				}
			}

			printReport(cmd.Root().Writer, report)
			if report.Reachable() == 0 {
				return cli.Exit("no start reaches a goal", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
