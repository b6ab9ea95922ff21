package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats/view"

	"github.com/lumiere-academy/backend/config"
	"github.com/lumiere-academy/backend/pkg/logger"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(&config.TracingConfig{Enabled: false}, logger.NewTestLogger(t))
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_InvalidExporters(t *testing.T) {
	log := logger.NewTestLogger(t)

	_, err := InitTracing(&config.TracingConfig{Enabled: true, TraceExporter: "xray"}, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported trace exporter")

	_, err = InitTracing(&config.TracingConfig{Enabled: true, TraceExporter: "none", MetricsExporter: "statsd"}, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported metrics exporter")
}

func TestInitTraceExporter_MissingEndpoints(t *testing.T) {
	log := logger.NewTestLogger(t)

	_, err := initTraceExporter(&config.TracingConfig{TraceExporter: "jaeger"}, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jaeger endpoint is required")

	_, err = initTraceExporter(&config.TracingConfig{TraceExporter: "zipkin"}, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zipkin endpoint is required")

	flush, err := initTraceExporter(&config.TracingConfig{TraceExporter: "none"}, log)
	require.NoError(t, err)
	assert.Nil(t, flush)
}

func TestInitTraceExporter_Zipkin(t *testing.T) {
	flush, err := initTraceExporter(&config.TracingConfig{
		TraceExporter:  "zipkin",
		ZipkinEndpoint: "http://localhost:9411/api/v2/spans",
		ServiceName:    "lumiere-api",
	}, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Nil(t, flush)
}

func TestIsEnabled(t *testing.T) {
	assert.False(t, isEnabled(""))
	assert.False(t, isEnabled("none"))
	assert.False(t, isEnabled("  "))
	assert.True(t, isEnabled("prometheus"))
}

func TestMetricsNamespace(t *testing.T) {
	assert.Equal(t, "lumiere_api", metricsNamespace("lumiere-api"))
	assert.Equal(t, "lumiere_backend_v2", metricsNamespace("lumiere.backend v2"))
}

func TestRegisterViewsAndRecord(t *testing.T) {
	require.NoError(t, RegisterViews())
	// registering the same views twice is a no-op
	require.NoError(t, RegisterViews())

	ctx := context.Background()
	RecordWorkflowRun(ctx, "completed")
	RecordWorkflowRun(ctx, "completed")
	RecordWorkflowAction(ctx, "failed")
	RecordInactivityClaim(ctx, "duplicate")
	RecordFormSubmission(ctx)
	RecordRateLimitRejected(ctx)

	rows, err := view.RetrieveData("lumiere/workflow_runs_total")
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	var completed int64
	for _, row := range rows {
		for _, tg := range row.Tags {
			if tg.Key == KeyStatus && tg.Value == "completed" {
				completed = row.Data.(*view.CountData).Value
			}
		}
	}
	assert.GreaterOrEqual(t, completed, int64(2))
}
