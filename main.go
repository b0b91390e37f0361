// Command songparty-server starts the Song Party game server.
//
// It supports two modes:
//  1. the default mode runs the HTTP server exposing the WebSocket game
//     transport, read-only REST views, and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server proxying a running HTTP API
//
// Flags control host/port, debug logging, version output, and optional
// ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/songparty/server/api"
	"github.com/songparty/server/game/config"
	"github.com/songparty/server/game/player"
	"github.com/songparty/server/game/room"
	"github.com/songparty/server/game/service"
	"github.com/songparty/server/transport/mcp"
	"github.com/songparty/server/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Song Party Game Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	cmd := &cli.Command{
		Name:    "songparty-server",
		Usage:   "real-time multi-room song party game server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "HTTP server host (overrides SONGPARTY_HOST)"},
			&cli.IntFlag{Name: "port", Usage: "HTTP server port (overrides SONGPARTY_PORT)"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
			&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel"},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token (or NGROK_AUTHTOKEN env var)"},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain (optional)"},
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:  "mcp",
				Usage: "run an MCP stdio server proxying a running HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "api-url",
						Value: "http://localhost:2023",
						Usage: "base URL of the running HTTP API",
					},
				},
				Action: runStdioMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// runServer starts the HTTP server with the WebSocket hub, REST views, and
// an /mcp proxy endpoint. If ngrok is enabled it also provisions a public
// tunnel.
func runServer(ctx context.Context, cmd *cli.Command) error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if cmd.IsSet("host") {
		settings.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		settings.Port = int(cmd.Int("port"))
	}
	if cmd.Bool("debug") {
		settings.Debug = true
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	log.Printf("Starting %s v%s", AppName, Version)

	// Wire registries, service, and transports
	rooms := room.NewRegistry(nil)
	players := player.NewRegistry()
	gameService := service.NewGameService(rooms, players)

	hub := websocket.NewHub(gameService, players, settings)
	go hub.Run()

	apiServer := api.NewServer(gameService, hub)

	addr := settings.Addr()
	baseURL := fmt.Sprintf("http://%s", addr)
	mcpClient := mcp.NewClient(baseURL)

	// Main router combines the API server and the MCP endpoint
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
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

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Sweep idle rooms so abandoned ones don't accumulate forever
	go roomSweepRoutine(serveCtx, gameService, settings)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("WebSocket: ws://%s/ws", addr)
		log.Printf("REST views: %s/api/rooms", baseURL)
		log.Printf("MCP endpoint: %s/mcp", baseURL)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if ngrokShouldRun(cmd) {
		go runNgrokTunnel(serveCtx, cmd, mainRouter)
	}

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("Server stopped")
	return nil
}

// roomSweepRoutine periodically removes rooms that have been idle longer
// than the configured TTL.
func roomSweepRoutine(ctx context.Context, svc service.GameService, settings *config.Settings) {
	ticker := time.NewTicker(settings.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := svc.PruneIdleRooms(ctx, settings.RoomTTL); removed > 0 {
				log.Printf("Swept %d idle rooms", removed)
			}
		}
	}
}

// ngrokShouldRun reports whether the tunnel is enabled by flag or env.
func ngrokShouldRun(cmd *cli.Command) bool {
	if cmd.Bool("ngrok") {
		return true
	}
	env := os.Getenv("NGROK_ENABLED")
	return env == "true" || env == "1"
}

// runNgrokTunnel provisions an ngrok endpoint serving the main router.
func runNgrokTunnel(ctx context.Context, cmd *cli.Command, handler http.Handler) {
	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	domain := cmd.String("ngrok-domain")
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

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
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server against an already-running HTTP API.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := cmd.String("api-url")
	mcpClient := mcp.NewClient(baseURL)

	log.Printf("MCP stdio server ready (proxying %s)", baseURL)
	return mcpserver.ServeStdio(mcpClient.GetMCPServer())
}
