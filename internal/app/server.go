package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 30 * time.Second

func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

		<-sigint

		terminateChan <- struct{}{}
		close(terminateChan)

		slog.Info("application gracefully shutdown")
	}()

	return terminateChan
}

// ShutdownTimeout bounds Stop. Running imports get this long to drain.
func (a *App) ShutdownTimeout() time.Duration {
	if d := a.config.GetDuration("server.shutdown_timeout"); d > 0 {
		return d
	}
	return defaultShutdownTimeout
}

// Stop closes the HTTP server, lets running imports drain until ctx ends,
// then cancels whatever is left and releases resources.
func (a *App) Stop(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for running imports to finish", "running", a.goroutine.Running())
	a.goroutine.Shutdown()
	if err := a.goroutine.WaitContext(ctx); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	} else {
		slog.InfoContext(ctx, "all goroutines have finished successfully")
	}

	if a.cancel != nil {
		a.cancel()
	}

	for name, closer := range a.closerFn {
		if name == "HTTP Server" {
			continue
		}
		if err := closer(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", name, "error", err)
		}
	}
}
