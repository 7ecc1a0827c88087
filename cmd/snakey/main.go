// Package main is the entry point for snakey.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"

	"github.com/chungwong/snakey/internal/config"
	"github.com/chungwong/snakey/internal/game"
	"github.com/chungwong/snakey/internal/replay"
	"github.com/chungwong/snakey/internal/sim"
	"github.com/chungwong/snakey/internal/stream"
	"github.com/chungwong/snakey/internal/telemetry"
	"github.com/chungwong/snakey/internal/ui"
)

func main() {
	os.Exit(run())
}

// run starts the game and returns the process exit code. Deferred closes
// run before main exits.
func run() int {
	// config.Load also reads a .env file for local development,
	// which makes HONEYCOMB_SNAKEY_API_KEY available
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 1
	}

	logOut, closeLog := openLog(cfg.LogFile)
	defer closeLog()
	logger := telemetry.NewLogger(logOut, cfg.LogVerbosity)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Without Setup the global tracer provider is a no-op.
	if cfg.TelemetryEnabled {
		defer setupTelemetry(ctx, logger)()
	}

	session := sim.NewSession(cfg.Session(), sim.WithLogger(logger.WithName("sim")))

	opts := []game.Option{game.WithLogger(logger.WithName("game"))}

	if cfg.ReplayPath != "" {
		rec, err := replay.Create(cfg.ReplayPath, replay.Header{
			SessionID: session.ID(),
			Width:     cfg.Arena.Width,
			Height:    cfg.Arena.Height,
			Seed:      cfg.Seed,
		}, logger)
		if err != nil {
			log.Printf("Failed to start replay: %v", err)
			return 1
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Printf("Error closing replay: %v", err)
			}
		}()
		opts = append(opts, game.WithRecorder(rec))
	}

	if cfg.StreamAddr != "" {
		hub := stream.NewHub(logger)
		go func() {
			if err := stream.Serve(ctx, cfg.StreamAddr, hub); err != nil {
				logger.Error(err, "stream server stopped")
			}
		}()
		opts = append(opts, game.WithHub(hub))
	}

	screen, err := ui.NewScreen()
	if err != nil {
		log.Printf("Failed to initialize screen: %v", err)
		return 1
	}

	g := game.New(screen, session, game.Config{
		FrameInterval: cfg.FrameInterval.Std(),
		MoveInterval:  cfg.MoveInterval.Std(),
		SpawnInterval: cfg.SpawnInterval.Std(),
	}, opts...)

	if err := g.Run(ctx); err != nil {
		log.Printf("Game error: %v", err)
		return 1
	}
	return 0
}

// openLog opens the log file. The terminal belongs to the game while it runs,
// so logs are discarded when no file is configured or it cannot be opened.
func openLog(path string) (io.Writer, func()) {
	if path == "" {
		return io.Discard, func() {}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("Warning: log directory not created: %v", err)
			return io.Discard, func() {}
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: log file not opened: %v", err)
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}

// setupTelemetry starts the OTLP exporter and returns a function that flushes it.
// The game still runs without it.
func setupTelemetry(ctx context.Context, logger logr.Logger) func() {
	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	shutdown, err := telemetry.Setup(ctx, logger)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Game will run without observability")
		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	apiKey := os.Getenv("HONEYCOMB_SNAKEY_API_KEY")
	dataset := os.Getenv("HONEYCOMB_SNAKEY_DATASET")
	if dataset == "" {
		dataset = "snakey" // default dataset name
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
