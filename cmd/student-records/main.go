// main is the entry point of the Student Records API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file + env vars + optional .env)
//  2. Initialise the logger
//  3. Open the storage backend selected by the connection string
//  4. Register all HTTP routes and middleware
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, close storage, exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/student-records --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/student-records
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anuj-patel/student-records/internal/config"
	"github.com/anuj-patel/student-records/internal/http/handlers/home"
	"github.com/anuj-patel/student-records/internal/http/handlers/student"
	"github.com/anuj-patel/student-records/internal/http/middleware"
	"github.com/anuj-patel/student-records/internal/storage"
	"github.com/anuj-patel/student-records/internal/storage/memory"
	"github.com/anuj-patel/student-records/internal/storage/postgres"
	"github.com/anuj-patel/student-records/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config (plus env overrides) and exits if
	// anything is wrong. If it returns, the config is guaranteed valid.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog is Go's structured logger (stdlib since Go 1.21). Structured
	// logging writes key=value pairs rather than plain strings, making
	// logs easy to filter/search in tools like Loki or Datadog.
	log := setupLogger(cfg.Env)

	// Handlers log through the package-level slog functions; pointing the
	// default logger at ours keeps every line in the same format.
	slog.SetDefault(log)

	log.Info("starting student-records",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Open Storage ───────────────────────────────────────────────────
	// The connection string alone decides which backend runs: the
	// in-memory store, the embedded SQLite file, or a remote PostgreSQL
	// database. We hold the result as the storage.Storage INTERFACE, so
	// the rest of the program never knows which one it got.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg.StorageDSN)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1) // non-zero exit code signals failure to the OS / CI system
	}

	log.Info("storage initialised",
		slog.String("backend", string(storage.BackendFor(cfg.StorageDSN))))

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	// The student handlers are FACTORIES — they receive `store` and
	// return the actual handler (dependency injection via closures).
	// "GET /{$}" matches the root path exactly; a bare "GET /" would
	// swallow every unmatched path on the server.
	router := http.NewServeMux()
	router.HandleFunc("GET /{$}", home.Greet())
	student.RegisterRoutes(router, store)

	// Middleware wraps the whole router: every request gets an ID first,
	// then an access-log line on the way out.
	handler := middleware.RequestID(middleware.Logging(log, router))

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr, // e.g. "localhost:8082"
		Handler: handler,

		// Production hardening — timeouts prevent slow-client attacks.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks forever, so it runs in its own goroutine and
	// the main goroutine waits for the shutdown signal below.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected — not an error worth logging.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	// The NotifyContext above cancels ctx on SIGINT/SIGTERM.
	<-ctx.Done()

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	// Give in-flight requests 5 seconds to finish, then close the
	// storage backend so connection pools and file handles are released.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := store.Close(); err != nil {
		log.Error("failed to close storage",
			slog.String("error", err.Error()))
	}

	log.Info("server stopped gracefully")
}

// openStorage dispatches on the connection string. This switch is the
// ONLY place in the repo that knows more than one backend exists.
func openStorage(ctx context.Context, dsn string) (storage.Storage, error) {
	switch storage.BackendFor(dsn) {
	case storage.BackendMemory:
		return memory.New(), nil
	case storage.BackendPostgres:
		return postgres.New(ctx, dsn)
	default:
		return sqlite.New(dsn)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level —
// easy to ingest by log aggregators (Loki, CloudWatch, etc.)
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo, // INFO and above in production
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug, // more verbose in staging
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug, // all levels in development
			}),
		)
	}
}
