package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// startMetricsServer serves the prometheus collectors and a health
// endpoint in a background goroutine; the server shuts down when ctx is
// cancelled.
func (a *App) startMetricsServer(ctx context.Context, metricsPort int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	addr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		a.logger.Info("metrics server starting", "address", fmt.Sprintf("http://localhost%s/metrics", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed unexpectedly", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics server shutdown failed", "error", err)
		}
	}()
}
