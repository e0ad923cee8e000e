package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"vaxclean/internal/config"
)

const (
	ServiceName = "vaxclean"
	MeterName   = "vaxclean"
	TracerName  = "vaxclean.pipeline"
)

// Telemetry holds the tracing and metrics providers for one run. Disabled
// signals are backed by no-op implementations so callers never nil-check.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *promclient.Registry
	Metrics        *PipelineMetrics
	logger         *slog.Logger
}

// PipelineMetrics holds the cleaning pipeline instruments
type PipelineMetrics struct {
	StageDuration metric.Float64Histogram
	StageErrors   metric.Int64Counter
	RowsProcessed metric.Int64Counter
	RowsDropped   metric.Int64Counter
	ValuesNulled  metric.Int64Counter
}

// InitializeTelemetry sets up tracing and metrics. Spans go to traceOut
// (stderr when nil) when the stdout exporter is selected.
func InitializeTelemetry(cfg config.TelemetryConfig, traceOut io.Writer, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	)

	t := &Telemetry{logger: logger}

	switch cfg.TraceExporter {
	case "stdout":
		if traceOut == nil {
			traceOut = os.Stderr
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(traceOut))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.TracerProvider = sdktrace.NewTracerProvider(
			// Synchronous export: a batch run is short and spans must not be lost on exit
			sdktrace.WithSyncer(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
		)
		t.Tracer = t.TracerProvider.Tracer(TracerName, trace.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
		t.Tracer = tracenoop.NewTracerProvider().Tracer(TracerName)
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if cfg.EnableMetrics {
		t.Registry = promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(t.Registry))
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		t.MeterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		t.Meter = t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
	} else {
		t.Meter = metricnoop.NewMeterProvider().Meter(MeterName)
	}

	metrics, err := CreatePipelineMetrics(t.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	t.Metrics = metrics

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	return t, nil
}

// NoopTelemetry returns telemetry with every signal disabled
func NoopTelemetry() *Telemetry {
	t, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: "none"}, nil, slog.Default())
	if err != nil {
		// no-op instruments cannot fail to register
		panic(err)
	}
	return t
}

// CreatePipelineMetrics creates the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	stageDuration, err := meter.Float64Histogram(
		"vaxclean_stage_duration",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stageErrors, err := meter.Int64Counter(
		"vaxclean_stage_errors",
		metric.WithDescription("Total number of failed pipeline stages"),
	)
	if err != nil {
		return nil, err
	}

	rowsProcessed, err := meter.Int64Counter(
		"vaxclean_rows_processed",
		metric.WithDescription("Rows leaving each pipeline stage"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"vaxclean_rows_dropped",
		metric.WithDescription("Rows removed from the dataset, by reason"),
	)
	if err != nil {
		return nil, err
	}

	valuesNulled, err := meter.Int64Counter(
		"vaxclean_values_nulled",
		metric.WithDescription("Zero population values replaced with null, by column"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		StageDuration: stageDuration,
		StageErrors:   stageErrors,
		RowsProcessed: rowsProcessed,
		RowsDropped:   rowsDropped,
		ValuesNulled:  valuesNulled,
	}, nil
}

// RecordDropped counts rows removed for a reason
func (m *PipelineMetrics) RecordDropped(ctx context.Context, reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RowsDropped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordNulled counts values replaced with null in a column
func (m *PipelineMetrics) RecordNulled(ctx context.Context, column string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.ValuesNulled.Add(ctx, int64(n), metric.WithAttributes(attribute.String("column", column)))
}

// WriteMetricsTextfile dumps the metrics registry in Prometheus text format,
// for collection by a node exporter textfile collector.
func (t *Telemetry) WriteMetricsTextfile(path string) error {
	if t.Registry == nil {
		return fmt.Errorf("metrics are disabled")
	}
	return promclient.WriteToTextfile(path, t.Registry)
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}

	t.logger.DebugContext(ctx, "Telemetry shutdown complete")
	return nil
}
