package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SignalRelay/internal/domain/repository"
	"SignalRelay/internal/handler/api"
	"SignalRelay/pkg/config"
	xhttp "SignalRelay/pkg/http"
	applogger "SignalRelay/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	handler    *api.WebhookHandler
	deduper    repository.Deduper
	publisher  repository.Publisher
	log        *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	handler *api.WebhookHandler,
	deduper repository.Deduper,
	publisher repository.Publisher,
	log *applogger.Logger,
) *App {
	return &App{
		cfg:       cfg,
		handler:   handler,
		deduper:   deduper,
		publisher: publisher,
		log:       log,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("gateway started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Bool("auth_open", a.cfg.AuthDisabled()),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
		applogger.Bool("redis", a.cfg.Redis.Enabled),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}

	if err := a.deduper.Close(); err != nil {
		a.log.Warn("deduper close error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}
