package tracing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"contrib.go.opencensus.io/exporter/jaeger"
	"contrib.go.opencensus.io/exporter/prometheus"
	"contrib.go.opencensus.io/exporter/zipkin"
	"contrib.go.opencensus.io/integrations/ocsql"
	zipkinmodel "github.com/openzipkin/zipkin-go/model"
	zipkinhttp "github.com/openzipkin/zipkin-go/reporter/http"
	"go.opencensus.io/plugin/ochttp"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/trace"

	"github.com/lumiere-academy/backend/config"
	"github.com/lumiere-academy/backend/pkg/logger"
)

// Shutdown flushes exporters and stops the metrics server, if any
type Shutdown func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitTracing initializes OpenCensus tracing and metrics with the given configuration.
// codecov:ignore:start
func InitTracing(cfg *config.TracingConfig, log logger.Logger) (Shutdown, error) {
	if !cfg.Enabled {
		return noopShutdown, nil
	}

	trace.ApplyConfig(trace.Config{
		DefaultSampler: trace.ProbabilitySampler(cfg.SamplingProbability),
	})

	var flushers []func()
	flush, err := initTraceExporter(cfg, log)
	if err != nil {
		return nil, err
	}
	if flush != nil {
		flushers = append(flushers, flush)
	}

	var metricsServer *http.Server
	if isEnabled(cfg.MetricsExporter) {
		metricsServer, err = initMetricsExporter(cfg, log)
		if err != nil {
			return nil, err
		}
	}

	if err := RegisterViews(); err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"trace_exporter":   cfg.TraceExporter,
		"metrics_exporter": cfg.MetricsExporter,
		"sampling":         cfg.SamplingProbability,
	}).Info("OpenCensus initialized")

	return func(ctx context.Context) error {
		for _, f := range flushers {
			f()
		}
		if metricsServer != nil {
			return metricsServer.Shutdown(ctx)
		}
		return nil
	}, nil
}

// codecov:ignore:end

func isEnabled(exporter string) bool {
	exporter = strings.TrimSpace(exporter)
	return exporter != "" && exporter != "none"
}

// initTraceExporter registers the configured span exporter. The returned
// function flushes buffered spans; it is nil when nothing needs flushing.
func initTraceExporter(cfg *config.TracingConfig, log logger.Logger) (func(), error) {
	switch strings.TrimSpace(cfg.TraceExporter) {
	case "jaeger":
		return initJaegerExporter(cfg, log)
	case "zipkin":
		return nil, initZipkinExporter(cfg, log)
	case "none", "":
		log.Debug("No trace exporter configured")
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
}

func initJaegerExporter(cfg *config.TracingConfig, log logger.Logger) (func(), error) {
	if cfg.JaegerEndpoint == "" {
		return nil, errors.New("jaeger endpoint is required for the jaeger exporter")
	}

	je, err := jaeger.NewExporter(jaeger.Options{
		CollectorEndpoint: cfg.JaegerEndpoint,
		Process: jaeger.Process{
			ServiceName: cfg.ServiceName,
		},
		OnError: func(err error) {
			log.WithField("error", err.Error()).Warn("Jaeger exporter error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create jaeger exporter: %w", err)
	}

	trace.RegisterExporter(je)
	log.WithField("endpoint", cfg.JaegerEndpoint).Info("Jaeger exporter initialized")
	return je.Flush, nil
}

func initZipkinExporter(cfg *config.TracingConfig, log logger.Logger) error {
	if cfg.ZipkinEndpoint == "" {
		return errors.New("zipkin endpoint is required for the zipkin exporter")
	}

	endpoint := &zipkinmodel.Endpoint{ServiceName: cfg.ServiceName}
	reporter := zipkinhttp.NewReporter(cfg.ZipkinEndpoint)
	trace.RegisterExporter(zipkin.NewExporter(reporter, endpoint))

	log.WithField("endpoint", cfg.ZipkinEndpoint).Info("Zipkin exporter initialized")
	return nil
}

// initMetricsExporter registers the Prometheus exporter and, when a port is
// configured, serves it on /metrics
func initMetricsExporter(cfg *config.TracingConfig, log logger.Logger) (*http.Server, error) {
	if strings.TrimSpace(cfg.MetricsExporter) != "prometheus" {
		return nil, fmt.Errorf("unsupported metrics exporter: %s", cfg.MetricsExporter)
	}

	pe, err := prometheus.NewExporter(prometheus.Options{
		Namespace: metricsNamespace(cfg.ServiceName),
		OnError: func(err error) {
			log.WithField("error", err.Error()).Warn("Prometheus exporter error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	view.RegisterExporter(pe)

	if cfg.PrometheusPort <= 0 {
		log.Info("Prometheus metrics server not started (port not configured)")
		return nil, nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", pe)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.PrometheusPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.PrometheusPort).Info("Starting Prometheus metrics server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithField("error", err.Error()).Error("Prometheus metrics server failed")
		}
	}()

	return server, nil
}

// metricsNamespace turns a service name into a valid Prometheus namespace
func metricsNamespace(serviceName string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(serviceName)
}

// RegisterViews registers the HTTP, database and automation views
func RegisterViews() error {
	if err := view.Register(ochttp.DefaultServerViews...); err != nil {
		return fmt.Errorf("failed to register HTTP server views: %w", err)
	}
	if err := view.Register(ocsql.DefaultViews...); err != nil {
		return fmt.Errorf("failed to register database views: %w", err)
	}
	if err := view.Register(AutomationViews...); err != nil {
		return fmt.Errorf("failed to register automation views: %w", err)
	}
	return nil
}
