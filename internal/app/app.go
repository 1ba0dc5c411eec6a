// Package app provides the unified application lifecycle for the
// Plantaxis dashboard server.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	httpapi "github.com/plantaxis/plantaxis/internal/api/http"
	"github.com/plantaxis/plantaxis/internal/config"
	"github.com/plantaxis/plantaxis/internal/dataset"
	"github.com/plantaxis/plantaxis/internal/explorer"
	"github.com/plantaxis/plantaxis/internal/observability"
	"github.com/plantaxis/plantaxis/internal/server"
	"github.com/plantaxis/plantaxis/internal/storage"
)

// App manages the dashboard server's lifecycle: dataset source, memoized
// loader, SQL explorer, and the HTTP API server.
type App struct {
	cfg *config.Config

	source   storage.DatasetSource
	cache    *dataset.Cache
	explorer *explorer.Explorer
	stats    *observability.RenderStats
	shutdown *server.ShutdownManager

	httpServer *http.Server

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a new App with the given configuration.
func New(cfg *config.Config) (*App, error) {
	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	return &App{
		cfg:   cfg,
		cache: dataset.NewCache(),
		stats: observability.NewRenderStats(),
	}, nil
}

// Start initializes the dataset source, warms the loader, and starts the
// HTTP server. A missing required dataset is not fatal: the API serves
// 503 until a reload finds it.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("app is already running")
	}
	a.running = true
	a.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.shutdown = server.NewShutdownManager(server.DefaultShutdownConfig())

	if err := a.initSource(ctx); err != nil {
		return err
	}
	if err := a.syncDatasets(ctx); err != nil {
		return err
	}

	bundle, err := a.cache.Get(a.cfg.DataDir)
	if err != nil {
		log.Printf("Warning: initial dataset load failed: %v", err)
	}

	if a.cfg.Explorer.Enabled {
		exp, err := explorer.New(a.cfg.Explorer.MaxRows, a.cfg.Explorer.QueryTimeout)
		if err != nil {
			return fmt.Errorf("failed to initialize sql explorer: %w", err)
		}
		a.explorer = exp
		a.shutdown.RegisterCloser(exp)
		if bundle != nil {
			if err := exp.Mount(ctx, bundle); err != nil {
				return fmt.Errorf("failed to mount datasets: %w", err)
			}
		}
		log.Printf("SQL explorer enabled: max_rows=%d, timeout=%s",
			a.cfg.Explorer.MaxRows, a.cfg.Explorer.QueryTimeout)
	}

	dashboard := httpapi.NewDashboard(a.cfg.DataDir, a.cache, a.explorer, a.stats)
	handler := server.ShutdownMiddleware(a.shutdown)(dashboard.Routes())

	a.httpServer = &http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		IdleTimeout:  a.cfg.HTTP.IdleTimeout,
	}
	a.shutdown.RegisterCloser(server.CloserFunc(func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(shutdownCtx)
	}))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		log.Printf("Dashboard HTTP server listening on %s", a.cfg.HTTP.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	log.Printf("Plantaxis started: data_dir=%s storage=%s", a.cfg.DataDir, a.cfg.Storage.Type)
	return nil
}

// initSource constructs the dataset source for the configured storage.
func (a *App) initSource(ctx context.Context) error {
	var err error
	switch a.cfg.Storage.Type {
	case "local":
		a.source, err = storage.NewLocalSource(a.cfg.DataDir)
	case "s3":
		s3Cfg := storage.S3Config{
			Region:   a.cfg.Storage.S3.Region,
			Endpoint: a.cfg.Storage.S3.Endpoint,
		}
		a.source, err = storage.NewS3Source(ctx, a.cfg.Storage.S3.Bucket, s3Cfg)
	default:
		return fmt.Errorf("unsupported storage type: %s", a.cfg.Storage.Type)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Printf("Dataset source initialized: type=%s", a.cfg.Storage.Type)
	return nil
}

// syncDatasets downloads the dataset files from remote storage before
// the first load. Local storage reads in place.
func (a *App) syncDatasets(ctx context.Context) error {
	if a.cfg.Storage.Type != "s3" {
		return nil
	}

	synced, err := storage.SyncDatasets(ctx, a.source, a.cfg.Storage.S3.Prefix, a.cfg.Storage.SyncDir)
	if err != nil {
		return fmt.Errorf("failed to sync datasets from s3: %w", err)
	}
	a.cfg.DataDir = a.cfg.Storage.SyncDir
	log.Printf("Synced %d dataset files from s3://%s", len(synced), a.cfg.Storage.S3.Bucket)
	return nil
}

// Stop gracefully stops the HTTP server and releases resources.
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return nil
	}
	a.running = false
	a.mu.Unlock()

	log.Printf("Initiating graceful shutdown...")

	if a.cancel != nil {
		a.cancel()
	}

	err := a.shutdown.Shutdown(ctx, "stop requested")

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		log.Printf("Shutdown timeout, some goroutines may not have finished")
	}

	log.Printf("Plantaxis stopped")
	return err
}

// WaitForShutdown blocks until a shutdown signal is received.
func (a *App) WaitForShutdown(ctx context.Context) error {
	return a.shutdown.ListenForSignals(ctx)
}
