// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/contact-scraper/internal/checkpoint"
	"github.com/JakeFAU/contact-scraper/internal/clock/system"
	"github.com/JakeFAU/contact-scraper/internal/config"
	"github.com/JakeFAU/contact-scraper/internal/id/uuid"
	"github.com/JakeFAU/contact-scraper/internal/logging"
	"github.com/JakeFAU/contact-scraper/internal/metrics"
	"github.com/JakeFAU/contact-scraper/internal/output"
	"github.com/JakeFAU/contact-scraper/internal/runner"
	"github.com/JakeFAU/contact-scraper/internal/scrapejob"
)

// App holds all the shared, long-lived services for one scraper run.
type App struct {
	cfg        config.Config
	logger     *zap.Logger
	closeLog   func() error
	session    *runner.Session
	metricsSrv *http.Server
	closeOnce  sync.Once
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetConfig returns the configuration the App was built from.
func (a *App) GetConfig() config.Config {
	return a.cfg
}

// GetSession returns the pipeline session.
func (a *App) GetSession() *runner.Session {
	return a.session
}

// NewApp builds the logger, job API client, poller, checkpoint store, output
// writer and session described by cfg. It fails fast when any of them cannot
// be created.
func NewApp(_ context.Context, cfg config.Config) (*App, error) {
	logger, closeLog, err := logging.NewWithFile(cfg.Logging.Development, cfg.Files.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.Info("Initializing application services...")

	client, err := scrapejob.NewClient(scrapejob.ClientConfig{
		SubmitURL: cfg.API.SubmitURL,
		StatusURL: cfg.API.StatusURL,
		Token:     cfg.API.Token,
		UserAgent: cfg.API.UserAgent,
		Timeout:   cfg.HTTPTimeout(),
	}, system.New())
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init job client: %w", err)
	}

	poller := scrapejob.NewPoller(
		client,
		scrapejob.NewFixedIntervalPolicy(cfg.Poll.Interval, cfg.Poll.MaxAttempts),
		nil,
		logger.Named("poller"),
	)

	store, err := checkpoint.New(cfg.Files.Checkpoint, logger.Named("checkpoint"))
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init checkpoint store: %w", err)
	}

	writer, err := output.NewContactWriter(cfg.Files.Output)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init output writer: %w", err)
	}

	session := runner.New(
		client,
		poller,
		store,
		writer,
		uuid.New(),
		runner.Config{JobDelay: cfg.Run.JobDelay},
		logger.Named("runner"),
	)

	a := &App{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		session:  session,
	}
	if cfg.Metrics.Addr != "" {
		a.startMetricsServer(cfg.Metrics.Addr)
	}

	logger.Info("Application services initialized successfully.")
	return a, nil
}

func (a *App) startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	a.metricsSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.logger.Info("Starting metrics server", zap.String("addr", addr))
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
}

// Close gracefully shuts down all services in the App container.
// It is called by a Cobra hook after the command finishes execution, or by
// the command itself when it fails. Calls after the first do nothing.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.logger.Info("Shutting down application services...")
		if a.metricsSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.metricsSrv.Shutdown(ctx); err != nil {
				a.logger.Warn("Error shutting down metrics server", zap.Error(err))
			}
		}
		if a.closeLog != nil {
			_ = a.closeLog()
		}
	})
}
