// Command pathfinder searches character-grid labyrinths for a goal cell.
//
// Run without a subcommand it searches the built-in labyrinth from its west
// entrance and prints the grid with the path marked, or nothing when no goal
// is reachable. Subcommands:
//  1. "solve" searches a stored labyrinth from the config directory
//  2. "serve" runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  3. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags and environment variables control host/port, config and run
// directories, debug logging, and optional ngrok tunneling.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/pathfinder/api"
	"github.com/wricardo/mcp-training/pathfinder/labyrinth"
	"github.com/wricardo/mcp-training/pathfinder/labyrinth/config"
	"github.com/wricardo/mcp-training/pathfinder/labyrinth/run"
	"github.com/wricardo/mcp-training/pathfinder/labyrinth/service"
	"github.com/wricardo/mcp-training/pathfinder/transport/mcp"
	"github.com/wricardo/mcp-training/pathfinder/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Labyrinth Pathfinder"
)

const (
	defaultExternalAPI = "http://localhost:8080"
	runRetention       = 24 * time.Hour
	syncInterval       = 5 * time.Second
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "pathfinder",
		Usage:   "search character-grid labyrinths for a goal cell",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
			&cli.StringFlag{Name: "config", Usage: "labyrinth JSON file to search instead of the built-in one", Local: true},
			&cli.IntFlag{Name: "x", Usage: "start column (defaults to the labyrinth's start)", Local: true},
			&cli.IntFlag{Name: "y", Usage: "start row (defaults to the labyrinth's start)", Local: true},
			strategyFlag(),
		},
		Action: searchAction,
		Commands: []*cli.Command{
			{
				Name:      "solve",
				Usage:     "search a stored labyrinth and report the outcome",
				ArgsUsage: "<config-id>",
				Flags: []cli.Flag{
					configDirFlag(),
					strategyFlag(),
					&cli.IntFlag{Name: "x", Usage: "start column"},
					&cli.IntFlag{Name: "y", Usage: "start row"},
				},
				Action: solveAction,
			},
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "run the HTTP server with REST API, WebSocket, and MCP endpoint",
				Flags: []cli.Flag{
					configDirFlag(),
					runsDirFlag(),
					&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
					&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
					&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
					&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
					&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
				},
				Action: serveAction,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server, starting an internal HTTP API if none is reachable",
				Flags: []cli.Flag{
					configDirFlag(),
					runsDirFlag(),
					&cli.StringFlag{Name: "api-url", Value: defaultExternalAPI, Usage: "external API to reuse when reachable", Sources: cli.EnvVars("PATHFINDER_API_URL")},
				},
				Action: mcpAction,
			},
		},
	}
}

// Flag constructors return fresh values since flags carry parse state

func strategyFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "strategy",
		Value: string(labyrinth.Recursive),
		Usage: "traversal strategy: recursive or iterative",
		Local: true,
	}
}

func configDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config-dir",
		Value:   "configs",
		Usage:   "directory containing labyrinth configurations",
		Sources: cli.EnvVars("CONFIG_DIR"),
	}
}

func runsDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "runs-dir",
		Value:   "runs",
		Usage:   "directory where finished runs are persisted",
		Sources: cli.EnvVars("RUNS_DIR"),
	}
}

func setupLogging(cmd *cli.Command) {
	if cmd.Root().Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

func parseStrategy(name string) (labyrinth.Strategy, error) {
	switch s := labyrinth.Strategy(name); s {
	case labyrinth.Recursive, labyrinth.Iterative:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", service.ErrUnknownStrategy, name)
	}
}

// startFor returns the configured start unless --x/--y override it
func startFor(cmd *cli.Command, cfg *labyrinth.Config) labyrinth.Position {
	start := cfg.Start
	if cmd.IsSet("x") {
		start.X = cmd.Int("x")
	}
	if cmd.IsSet("y") {
		start.Y = cmd.Int("y")
	}
	return start
}

// searchAction prints the solved grid when a goal is reachable and stays
// silent otherwise. A failed search is not an error.
func searchAction(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	strategy, err := parseStrategy(cmd.String("strategy"))
	if err != nil {
		return err
	}

	cfg := labyrinth.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		cfg, err = labyrinth.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("failed to load labyrinth: %w", err)
		}
	}

	start := startFor(cmd, cfg)
	finder := labyrinth.NewFinder(
		labyrinth.WithOutput(cmd.Root().Writer),
		labyrinth.WithStrategy(strategy),
	)
	found := finder.Search(cfg.Grid(), start.X, start.Y)
	if cmd.Root().Bool("debug") {
		log.Printf("[SEARCH] labyrinth=%s start=(%d,%d) found=%t", cfg.Name, start.X, start.Y, found)
	}
	return nil
}

// solveAction searches a stored labyrinth and exits non-zero when no goal
// is reachable
func solveAction(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	if cmd.NArg() != 1 {
		return cli.Exit("solve takes exactly one config id", 2)
	}
	configID := cmd.Args().First()

	strategy, err := parseStrategy(cmd.String("strategy"))
	if err != nil {
		return err
	}

	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}
	cfg, err := manager.LoadConfig(configID)
	if err != nil {
		return err
	}

	start := startFor(cmd, cfg)
	finder := labyrinth.NewFinder(labyrinth.WithStrategy(strategy))
	result, err := finder.SolveContext(ctx, cfg.Grid(), start)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if !result.Found {
		fmt.Fprintf(out, "%s: no goal reachable from (%d,%d), %d cells explored\n",
			configID, start.X, start.Y, result.Explored)
		return cli.Exit("", 1)
	}

	fmt.Fprintln(out, result.Grid.String())
	fmt.Fprintf(out, "%s: goal (%d,%d) reached from (%d,%d), path %d, %d cells explored\n",
		configID, result.Goal.X, result.Goal.Y, start.X, start.Y, len(result.Trail), result.Explored)
	return nil
}

// initializeServices wires the config and run managers into the solver
// service. The returned run manager is used by the maintenance routines.
func initializeServices(configDir, runsDir string) (service.SolverService, *run.Manager, run.RunPersistence, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := run.NewFilePersistence(runsDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create run persistence: %w", err)
	}

	runManager := run.NewManagerWithPersistence(persistence)
	if loaded, err := runManager.LoadPersisted(); err != nil {
		log.Printf("Warning: Failed to load persisted runs: %v", err)
	} else if loaded > 0 {
		log.Printf("Loaded %d persisted runs", loaded)
	}

	return service.NewSolverService(runManager, configManager), runManager, persistence, nil
}

// newHandler combines the API server with a POST /mcp endpoint backed by
// mcpClient
func newHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// serveAction starts the HTTP server and, when enabled, an ngrok tunnel
// serving the same handler
func serveAction(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)
	log.Printf("Starting %s v%s (mode: serve)", AppName, Version)

	solverService, runManager, persistence, err := initializeServices(cmd.String("config-dir"), cmd.String("runs-dir"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go runCleanupRoutine(ctx, runManager)
	go filesystemSyncRoutine(ctx, runManager, persistence)

	hub := websocket.NewHub()
	go hub.Run()

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	handler := newHandler(api.NewServer(solverService, hub), mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?config=<config_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), handler)
		}()
	}

	var runErr error
	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case runErr = <-serveErr:
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return runErr
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx ends
func runNgrokTunnel(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?config=<config_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// runCleanupRoutine drops in-memory runs older than the retention window.
// Persisted copies stay on disk.
func runCleanupRoutine(ctx context.Context, manager *run.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpired(runRetention); removed > 0 {
				log.Printf("Cleaned up %d expired runs", removed)
			}
		}
	}
}

// filesystemSyncRoutine forgets runs whose files were deleted from the runs
// directory behind the server's back. Runs younger than one tick are left
// alone so a run is never pruned between its creation and its save.
func filesystemSyncRoutine(ctx context.Context, manager *run.Manager, persistence run.RunPersistence) {
	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := syncWithFilesystem(manager, persistence, syncInterval); pruned > 0 {
				log.Printf("Filesystem sync: pruned %d orphaned runs from memory", pruned)
			}
		}
	}
}

// syncWithFilesystem drops in-memory runs at least minAge old that have no
// file and returns how many it dropped
func syncWithFilesystem(manager *run.Manager, persistence run.RunPersistence, minAge time.Duration) int {
	if persistence == nil {
		return 0
	}

	pruned := 0
	for _, item := range manager.List() {
		if time.Since(item.CreatedAt) < minAge || persistence.Exists(item.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(item.ID); err == nil {
			pruned++
		}
	}
	return pruned
}

// mcpAction runs an MCP stdio server. It reuses the API at --api-url when
// it answers; otherwise it starts an internal API on a random loopback port.
func mcpAction(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	externalURL := cmd.String("api-url")
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	if !apiReachable(externalURL) {
		log.Printf("No external API server found, starting internal HTTP server")

		solverService, _, _, err := initializeServices(cmd.String("config-dir"), cmd.String("runs-dir"))
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run()

		httpServer := &http.Server{Handler: api.NewServer(solverService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		log.Printf("Internal HTTP server for MCP stdio on %s", baseURL)
	} else {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiReachable reports whether a pathfinder API answers at baseURL
func apiReachable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
