// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/raido/internal/api"
	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/catalogservice"
	"github.com/starford/raido/internal/fetch"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/sse"
	"github.com/starford/raido/internal/store"
	"github.com/starford/raido/internal/syncer"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := newLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("source", sourceName(cfg)),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, svc, err := buildServices(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// Restore the previously synced catalog, if any.
	if err := svc.Load(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	// SSE broker.
	broker := sse.NewBroker(30 * time.Second)
	defer broker.Close()

	runCycle := func(cycleCtx context.Context, force bool) {
		res, syncErr := svc.Sync(cycleCtx, force)
		if syncErr != nil {
			if !errors.Is(syncErr, apperr.ErrSyncRunning) {
				logger.Warn("sync cycle failed", slog.String("error", syncErr.Error()))
			}
			return
		}
		items := 0
		if res.Catalog != nil {
			items = res.Catalog.Meta.TotalItems
		}
		broker.PublishSyncEvent(res.Stored, items)
	}

	if cfg.Sync.OnStart {
		runCycle(ctx, false)
	}

	// Build API router.
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Scheduled sync cycles.
	if cfg.Sync.Interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.Sync.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-gCtx.Done():
					return nil
				case <-ticker.C:
					runCycle(gCtx, false)
				}
			}
		})
	}

	// File source mode: re-sync when the local document changes.
	if cfg.Source.File != "" {
		g.Go(func() error {
			return fetch.Watch(gCtx, cfg.Source.File, logger, func() {
				runCycle(gCtx, false)
			})
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunSync executes a single sync cycle and exits.
func RunSync(ctx context.Context, cfg *Config, force bool) error {
	logger := newLogger(cfg)

	db, svc, err := buildServices(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := svc.Sync(ctx, force)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if !res.Stored {
		logger.Info("Catalog unchanged")
		return nil
	}
	logger.Info("Catalog stored",
		slog.Int("items", res.Catalog.Meta.TotalItems),
		slog.Int("categories", len(res.Catalog.Tree)))
	return nil
}

// RunMCP serves the catalog over MCP stdio transport. Logs go to stderr so
// they cannot corrupt the protocol stream on stdout.
func RunMCP(_ context.Context, cfg *Config) error {
	logger := newLoggerTo(os.Stderr, cfg)

	db, svc, err := buildServices(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := svc.Load(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	return mcpserver.New(svc).ServeStdio()
}

// buildServices wires store, source, syncer, and catalog service from config.
func buildServices(cfg *Config, logger *slog.Logger) (*store.DB, *catalogservice.Service, error) {
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	var source fetch.Source
	if cfg.Source.File != "" {
		source = fetch.NewFileSource(cfg.Source.File)
	} else {
		source = fetch.NewHTTPSource(cfg.Source.URL, cfg.Source.UserAgent)
	}

	sy := syncer.New(source, db, logger)
	svc := catalogservice.New(db, sy, logger)
	return db, svc, nil
}

func newLogger(cfg *Config) *slog.Logger {
	return newLoggerTo(os.Stdout, cfg)
}

func newLoggerTo(w io.Writer, cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func sourceName(cfg *Config) string {
	if cfg.Source.File != "" {
		return cfg.Source.File
	}
	return cfg.Source.URL
}
