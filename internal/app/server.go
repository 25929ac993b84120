package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// healthHandler answers liveness probes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(a.prom, promhttp.HandlerOpts{}))
	return mux
}

// startServer binds addr and serves the health and metrics endpoints in the
// background.
func (a *App) startServer(ctx context.Context, addr string) error {
	a.logger.Debug("Configuring health and metrics server.")
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	a.httpServer = &http.Server{
		Handler:     a.handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		a.logger.Info("Health and metrics server starting.", "address", ln.Addr().String())
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Health and metrics server failed unexpectedly.", "error", err)
		}
	}()
	return nil
}

func (a *App) stopServer(ctx context.Context) {
	if a.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	a.logger.Debug("Shutting down health and metrics server.")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Health and metrics server shutdown failed.", "error", err)
	}
}
