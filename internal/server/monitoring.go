package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// NewMonitoringHandler routes /metrics to the registry and /healthz to a
// HealthChecker over storage.
func NewMonitoringHandler(log *slog.Logger, gatherer prometheus.Gatherer, storage StoragePinger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.Handle("/healthz", NewHealthChecker(storage, log))

	return mux
}

// StartMonitoringServer serves the monitoring handler on port until ctx is
// cancelled, then shuts the server down.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	gatherer prometheus.Gatherer,
	storage StoragePinger,
	port int,
) {
	log = log.With(slog.String("division", "monitoring"))

	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(port)),
		Handler:           NewMonitoringHandler(log, gatherer, storage),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Monitoring server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.ErrorContext(shutdownCtx, "Monitoring server shutdown failed", sl.Err(err))
			return
		}
		log.InfoContext(shutdownCtx, "Monitoring server stopped")
	case err := <-serverErr:
		if err != nil {
			log.ErrorContext(ctx, "Monitoring server failed", sl.Err(err))
		}
	}
}
