/*
main.go - Application entry point

PURPOSE:
  Starts the flex saldo HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (defaults, YAML, FLEX_* env)
  2. Open and migrate the SQLite store
  3. Build the flex calculator and API handler
  4. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config path (default: config/application.yaml)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection

EXAMPLES:
  ./server -config=./config/application.yaml
  FLEX_DB_PATH=":memory:" FLEX_SERVER_PORT=3000 ./server

SEE ALSO:
  - api/server.go: Router configuration
  - internal/config: Configuration keys
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/solinor/solinor-invoice-checking-sub000/api"
	"github.com/solinor/solinor-invoice-checking-sub000/internal/app"
	"github.com/solinor/solinor-invoice-checking-sub000/internal/config"
)

func main() {
	configPath := flag.String("config", "config/application.yaml", "YAML config path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ConfigureLogging()

	deps, err := app.NewDependencies(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer deps.Close()

	handler := api.NewHandler(deps.Store, deps.Calculator, cfg.Flex.Concurrency)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on http://localhost:%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
