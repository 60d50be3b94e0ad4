// Package server initializes and runs the blobhost server.
// It opens the configured storage backend, starts the HTTP API and the
// metrics listener, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/blobhost/internal/logging"
	"github.com/dmitrijs2005/blobhost/internal/server/config"
	"github.com/dmitrijs2005/blobhost/internal/server/httpapi"
	"github.com/dmitrijs2005/blobhost/internal/server/metrics"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blobhost/internal/server/services"
	"github.com/dustin/go-humanize"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	metrics *metrics.Metrics
	blobs   *services.BlobService
}

// openRepositories is swapped in tests.
var openRepositories = repomanager.Open

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repos, err := openRepositories(ctx, c.StoreSettings())
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	m := metrics.New()
	blobs := services.NewBlobService(repos, c.ChunkSize, logger,
		services.WithMaxIDAttempts(c.MaxIDAttempts),
		services.WithMetrics(m),
	)

	logger.Info(ctx, "store ready",
		"backend", c.StoreBackend,
		"chunk_size", humanize.Bytes(uint64(c.ChunkSize)),
		"max_document", humanize.IBytes(uint64(repos.MaxDocumentSize())),
	)

	return &App{config: c, logger: logger, repos: repos, metrics: m, blobs: blobs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.BindAddr, app.logger, app.blobs, app.metrics, httpapi.Options{
		UploadPassword:  app.config.UploadPassword,
		MaxUploadBytes:  app.config.MaxUploadBytes,
		RequestTimeout:  app.config.RequestTimeout,
		ShutdownTimeout: app.config.ShutdownTimeout,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.metrics.Serve(ctx, app.config.MetricsAddr, app.logger); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a signal arrives, then closes the
// store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(context.Background(), "closing store", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
