package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config selects how the process reports about itself.
type Config struct {
	ServiceName    string
	LogLevel       string
	MetricsAddress string
}

// Observability bundles the logger, metrics and tracer handed to modules.
type Observability struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  PredictionMetrics
	Tracer   trace.Tracer

	metricsServer *http.Server
}

// Init builds the observability components. The tracer comes from the
// global otel provider, which is a no-op unless an exporter was installed.
func Init(cfg Config) *Observability {
	logger := NewLogger(cfg.LogLevel, nil).With(slog.String("service", cfg.ServiceName))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Observability{
		Logger:   logger,
		Registry: registry,
		Metrics:  NewPredictionMetrics(registry, ""),
		Tracer:   otel.Tracer(cfg.ServiceName),
		metricsServer: &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// ServeMetrics exposes the registry until Shutdown is called.
func (o *Observability) ServeMetrics() {
	if o.metricsServer.Addr == "" {
		o.Logger.Info("Metrics address not configured, skipping metrics server")
		return
	}
	go func() {
		o.Logger.Info("Starting metrics server", slog.String("address", o.metricsServer.Addr))
		if err := o.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			o.Logger.Error("Metrics server failed", slog.Any("error", err))
		}
	}()
}

// Shutdown stops the metrics server.
func (o *Observability) Shutdown(ctx context.Context) error {
	return o.metricsServer.Shutdown(ctx)
}
