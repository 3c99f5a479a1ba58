package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	applogger "StockPulse/pkg/logger"
)

// HTTPServer is what App needs from pkg/http.Server.
type HTTPServer interface {
	Start() error
	Stop(ctx context.Context) error
}

// App runs the HTTP server until the context ends or the process is
// signalled, then shuts it down.
type App struct {
	server       HTTPServer
	log          *applogger.Logger
	stopTimeout  time.Duration
	signals      []os.Signal
	beforeStart  []func(context.Context)
	afterStopped []func()
}

type AppOption func(*App)

// WithStopTimeout bounds graceful shutdown.
func WithStopTimeout(d time.Duration) AppOption {
	return func(a *App) { a.stopTimeout = d }
}

// WithBackground runs fn with the app context before the server starts.
// fn must not block.
func WithBackground(fn func(context.Context)) AppOption {
	return func(a *App) { a.beforeStart = append(a.beforeStart, fn) }
}

// WithOnStop registers fn to run after the server stopped. Hooks run in
// reverse registration order.
func WithOnStop(fn func()) AppOption {
	return func(a *App) { a.afterStopped = append(a.afterStopped, fn) }
}

func New(srv HTTPServer, l *applogger.Logger, opts ...AppOption) *App {
	a := &App{
		server:      srv,
		log:         l,
		stopTimeout: 15 * time.Second,
		signals:     []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts the application and blocks until ctx is canceled or an
// interrupt arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, a.signals...)
	defer stop()

	for _, fn := range a.beforeStart {
		fn(ctx)
	}

	if err := a.server.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		a.runStopHooks()
		return fmt.Errorf("start: %w", err)
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.stopTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	a.runStopHooks()

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}

func (a *App) runStopHooks() {
	for i := len(a.afterStopped) - 1; i >= 0; i-- {
		a.afterStopped[i]()
	}
}
