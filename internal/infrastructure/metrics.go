package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Run outcomes recorded by PipelineMetrics
const (
	OutcomeSuccess     = "success"
	OutcomeParseError  = "parse_error"
	OutcomeSchemaError = "schema_error"
	OutcomeValueError  = "value_error"
	OutcomeCanceled    = "canceled"
	OutcomeError       = "error"
)

// PipelineMetrics holds the service's instruments. A nil *PipelineMetrics
// records nothing.
type PipelineMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Pipeline metrics
	RunsTotal       metric.Int64Counter
	RunDuration     metric.Float64Histogram
	StageDuration   metric.Float64Histogram
	RecordsAnalyzed metric.Int64Counter
	BytesIngested   metric.Int64Counter
}

// CreatePipelineMetrics creates the service's instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	httpActiveRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	runsTotal, err := meter.Int64Counter(
		"analysis_runs_total",
		metric.WithDescription("Total number of analysis runs by outcome"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"analysis_run_duration_seconds",
		metric.WithDescription("Analysis run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"analysis_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	recordsAnalyzed, err := meter.Int64Counter(
		"analysis_records_total",
		metric.WithDescription("Total number of sales records analyzed"),
	)
	if err != nil {
		return nil, err
	}

	bytesIngested, err := meter.Int64Counter(
		"analysis_ingested_bytes",
		metric.WithDescription("Total bytes of spreadsheet data ingested"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		HTTPActiveRequests:  httpActiveRequests,
		RunsTotal:           runsTotal,
		RunDuration:         runDuration,
		StageDuration:       stageDuration,
		RecordsAnalyzed:     recordsAnalyzed,
		BytesIngested:       bytesIngested,
	}, nil
}

// RecordStage records the duration of one pipeline stage
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	m.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// RecordRun records a finished run and the number of records it analyzed
func (m *PipelineMetrics) RecordRun(ctx context.Context, outcome string, duration time.Duration, records int) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.RunsTotal.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, duration.Seconds(), attrs)
	if records > 0 {
		m.RecordsAnalyzed.Add(ctx, int64(records))
	}
}

// RecordIngest records the size of an ingested file
func (m *PipelineMetrics) RecordIngest(ctx context.Context, format string, size int64) {
	if m == nil {
		return
	}
	m.BytesIngested.Add(ctx, size, metric.WithAttributes(attribute.String("format", format)))
}

// RecordHTTPRequest records one served request
func (m *PipelineMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// AddActiveRequest adjusts the in-flight request gauge
func (m *PipelineMetrics) AddActiveRequest(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.HTTPActiveRequests.Add(ctx, delta)
}
