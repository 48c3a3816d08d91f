package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"ecomkpi/internal/config"
	"ecomkpi/pkg/contracts/domain"
)

// MeterName is the instrumentation scope of the pipeline
const MeterName = "ecomkpi/pipeline"

// Telemetry holds the tracing and metrics providers of one run
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prometheus.Registry
	Tracer         trace.Tracer
	Metrics        *PipelineMetrics
	logger         *slog.Logger
}

// PipelineMetrics are the instruments recorded by the pipeline stages
type PipelineMetrics struct {
	Rows          metric.Int64Gauge
	StageDuration metric.Float64Histogram
	Errors        metric.Int64Counter
	KPI           metric.Float64Gauge
}

// InitializeTelemetry sets up tracing (stdout or none) and metrics exported
// through a private Prometheus registry. traceOut receives spans when the
// stdout exporter is selected.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger, traceOut io.Writer) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(config.AppVersion),
	)

	t := &Telemetry{logger: logger}

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(traceOut),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithResource(res),
		)
		t.Tracer = t.TracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
		t.Tracer = noop.NewTracerProvider().Tracer(MeterName)
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	t.Registry = prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	meter := t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
	t.Metrics, err = createPipelineMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	logger.Debug("Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("service", cfg.ServiceName))

	return t, nil
}

func createPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rows, err := meter.Int64Gauge(
		"pipeline_rows",
		metric.WithDescription("Rows held after each pipeline stage"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"pipeline_stage_duration",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter(
		"pipeline_errors",
		metric.WithDescription("Errors raised by pipeline stages, fatal or not"),
	)
	if err != nil {
		return nil, err
	}

	kpi, err := meter.Float64Gauge(
		"pipeline_kpi",
		metric.WithDescription("Headline KPI values of the last run"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		Rows:          rows,
		StageDuration: duration,
		Errors:        errs,
		KPI:           kpi,
	}, nil
}

// StartSpan starts a span for a pipeline stage
func (t *Telemetry) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.Tracer.Start(ctx, name)
}

// RecordStage records the outcome of one stage on its span and instruments
func (t *Telemetry) RecordStage(ctx context.Context, stage string, rows int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("stage", stage))

	t.Metrics.StageDuration.Record(ctx, duration.Seconds(), attrs)
	if rows >= 0 {
		t.Metrics.Rows.Record(ctx, int64(rows), attrs)
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Int("rows", rows))
	if err != nil {
		t.RecordError(ctx, stage)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// RecordError counts one error raised by a stage
func (t *Telemetry) RecordError(ctx context.Context, stage string) {
	t.Metrics.Errors.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordKPIs publishes the summary values as gauges
func (t *Telemetry) RecordKPIs(ctx context.Context, summary domain.KPISummary) {
	record := func(name string, v float64) {
		t.Metrics.KPI.Record(ctx, v, metric.WithAttributes(attribute.String("kpi", name)))
	}
	record("total_revenue", summary.TotalRevenue)
	record("total_orders", float64(summary.TotalOrders))
	record("average_order_value", summary.AverageOrderValue)
	record("unique_customers", float64(summary.UniqueCustomers))
}

// WriteMetrics writes the current registry contents in the Prometheus text
// format, for a textfile collector to pick up
func (t *Telemetry) WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, t.Registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
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
	return nil
}
