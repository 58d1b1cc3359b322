package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// healthHandler reports OK once the graph has completed its build.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("health check endpoint hit", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// startHealthcheckServer initializes and runs the health check HTTP server.
func (a *App) startHealthcheckServer(port int) {
	a.logger.Debug("configuring health check server", "port", port)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)

	a.httpServer = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	a.logger.Info("health check server starting", "address", fmt.Sprintf("http://localhost:%d/health", port))
	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("health check server failed", "error", err)
	}
}

func (a *App) closeHealthcheckServer(ctx context.Context) error {
	if a.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	a.logger.Debug("shutting down health check server")
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("health check server shutdown failed", "error", err)
		return err
	}
	return nil
}
