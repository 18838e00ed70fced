package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/txlens/internal/config"
)

const metricsShutdownTimeout = 5 * time.Second

// MetricsServer exposes the Prometheus registry over HTTP.
type MetricsServer struct {
	server *http.Server
	logger *zap.Logger
}

func NewMetricsServer(cfg config.MetricsConfig, gatherer prometheus.Gatherer, logger *zap.Logger) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &MetricsServer{
		server: &http.Server{
			Addr:              cfg.Address,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until the context is cancelled, then shuts the server down.
func (m *MetricsServer) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		m.logger.Info("Serving metrics", zap.String("address", m.server.Addr))
		serveErr <- m.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrMetricsServerFailed, err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := m.server.Shutdown(shutdownCtx); err != nil {
			m.logger.Warn("Metrics server did not shut down cleanly", zap.Error(err))
		}
		return ctx.Err()
	}
}
