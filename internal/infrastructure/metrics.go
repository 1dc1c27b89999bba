package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Export outcomes reported on runrate_exports_total.
const (
	OutcomeSuccess    = "success"
	OutcomeNoData     = "no_data"
	OutcomeNoColumns  = "no_columns"
	OutcomeBadRequest = "bad_request"
	OutcomeError      = "error"
)

// BusinessMetrics holds all application-specific metrics
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Pipeline metrics
	PassesTotal  metric.Int64Counter
	PassDuration metric.Float64Histogram
	RowsOutput   metric.Int64Histogram
	ExportsTotal metric.Int64Counter

	// Dataset metrics
	DatasetReloads metric.Int64Counter
	DatasetRows    metric.Int64Gauge

	// System metrics
	SystemErrors metric.Int64Counter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.PassesTotal, err = meter.Int64Counter(
		"runrate_passes_total",
		metric.WithDescription("Total number of forecast pipeline passes"),
	); err != nil {
		return nil, err
	}

	if m.PassDuration, err = meter.Float64Histogram(
		"runrate_pass_duration_seconds",
		metric.WithDescription("Forecast pipeline pass duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.RowsOutput, err = meter.Int64Histogram(
		"runrate_rows_output",
		metric.WithDescription("Rows produced by a forecast pipeline pass"),
		metric.WithExplicitBucketBoundaries(0, 1, 10, 50, 100, 500, 1000, 5000, 10000),
	); err != nil {
		return nil, err
	}

	if m.ExportsTotal, err = meter.Int64Counter(
		"runrate_exports_total",
		metric.WithDescription("Total number of export attempts by format and outcome"),
	); err != nil {
		return nil, err
	}

	if m.DatasetReloads, err = meter.Int64Counter(
		"runrate_dataset_reloads_total",
		metric.WithDescription("Total number of dataset loads by outcome"),
	); err != nil {
		return nil, err
	}

	if m.DatasetRows, err = meter.Int64Gauge(
		"runrate_dataset_rows",
		metric.WithDescription("Rows in the currently loaded dataset"),
	); err != nil {
		return nil, err
	}

	if m.SystemErrors, err = meter.Int64Counter(
		"system_errors_total",
		metric.WithDescription("Total number of system errors"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordPass records one forecast pipeline pass.
func RecordPass(ctx context.Context, m *BusinessMetrics, level, window string, rows int, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("level", level),
		attribute.String("window", window),
	)
	m.PassesTotal.Add(ctx, 1, attrs)
	m.PassDuration.Record(ctx, duration.Seconds(), attrs)
	m.RowsOutput.Record(ctx, int64(rows), attrs)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("runrate.level", level),
			attribute.String("runrate.window", window),
			attribute.Int("runrate.rows", rows),
		)
	}
}

// RecordExport records an export attempt.
func RecordExport(ctx context.Context, m *BusinessMetrics, format, outcome string) {
	if m == nil {
		return
	}

	m.ExportsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("format", format),
		attribute.String("outcome", outcome),
	))
}

// RecordDatasetLoad records a dataset load. rows is ignored on failure.
func RecordDatasetLoad(ctx context.Context, m *BusinessMetrics, rows int, err error) {
	if m == nil {
		return
	}

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
		m.SystemErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("component", "dataset")))
	} else {
		m.DatasetRows.Record(ctx, int64(rows))
	}
	m.DatasetReloads.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
