package dataprocessing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/config"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/infrastructure"
	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

// Pipeline stage names, used for spans, metrics and logs
const (
	StageIngest    = "ingest"
	StageNormalize = "normalize"
	StageDerive    = "derive"
	StageAggregate = "aggregate"
)

// Input is one spreadsheet to analyze
type Input struct {
	Reader    io.Reader
	Filename  string
	HeaderRow int
}

// Pipeline runs ingestion, normalization, derivation and the five views.
// A Pipeline holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	schema  Schema
	window  int
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
	now     func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithSchema overrides the default sales sheet schema
func WithSchema(s Schema) Option {
	return func(p *Pipeline) { p.schema = s }
}

// WithMetrics records stage and run metrics
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithTracer overrides the global tracer
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// WithClock overrides the report timestamp source
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a pipeline for the default schema
func NewPipeline(logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	p := &Pipeline{
		schema: DefaultSchema(),
		window: config.RollingWindow,
		logger: infrastructure.WithComponent(logger, "pipeline"),
		tracer: otel.Tracer("bakery.pipeline"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Schema returns the schema the pipeline validates against
func (p *Pipeline) Schema() Schema {
	return p.schema
}

// Run analyzes one spreadsheet. The first failing stage ends the run and no
// views are returned.
func (p *Pipeline) Run(ctx context.Context, in Input) (report *domain.AnalysisReport, err error) {
	runID := uuid.New().String()
	start := time.Now()
	logger := p.logger.With(
		slog.String("run_id", runID),
		slog.String("file", in.Filename),
		slog.Int("header_row", in.HeaderRow),
	)

	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("file.name", in.Filename),
		attribute.Int("file.header_row", in.HeaderRow),
	))
	defer func() {
		records := 0
		if report != nil {
			records = report.RecordCount
		}
		outcome := Outcome(err)
		p.metrics.RecordRun(ctx, outcome, time.Since(start), records)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.WarnContext(ctx, "Analysis run failed",
				slog.String("outcome", outcome),
				slog.String("error", err.Error()))
		} else {
			logger.InfoContext(ctx, "Analysis run completed",
				slog.Int("records", records),
				slog.Duration("duration", time.Since(start)))
		}
		span.End()
	}()

	logger.DebugContext(ctx, "Analysis run started")

	var raw *Table
	if err = p.stage(ctx, StageIngest, func(ctx context.Context) error {
		data, readErr := io.ReadAll(in.Reader)
		if readErr != nil {
			return newParseError(in.Filename, "failed to read input", readErr)
		}
		p.metrics.RecordIngest(ctx, strings.ToLower(filepath.Ext(in.Filename)), int64(len(data)))
		var stageErr error
		raw, stageErr = ReadTable(bytes.NewReader(data), in.Filename, in.HeaderRow)
		return stageErr
	}); err != nil {
		return nil, err
	}

	var table *Table
	if err = p.stage(ctx, StageNormalize, func(context.Context) error {
		var stageErr error
		table, stageErr = Normalize(raw, p.schema)
		return stageErr
	}); err != nil {
		return nil, err
	}

	var ds *Dataset
	if err = p.stage(ctx, StageDerive, func(context.Context) error {
		var stageErr error
		ds, stageErr = Derive(table, p.schema)
		return stageErr
	}); err != nil {
		return nil, err
	}

	if err = p.stage(ctx, StageAggregate, func(context.Context) error {
		report = p.buildReport(ds)
		return nil
	}); err != nil {
		return nil, err
	}

	report.RunID = runID
	report.SourceFile = in.Filename
	report.HeaderRow = in.HeaderRow
	report.Columns = table.Columns
	report.DroppedColumns = DroppedColumns(raw, p.schema)
	return report, nil
}

// stage runs fn in its own span after checking for cancellation
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := p.tracer.Start(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	p.metrics.RecordStage(ctx, name, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// buildReport computes the five views over a derived dataset
func (p *Pipeline) buildReport(ds *Dataset) *domain.AnalysisReport {
	report := &domain.AnalysisReport{
		RecordCount:        len(ds.Records),
		Summary:            Summarize(ds.Records),
		WeekdayAverage:     WeekdayAverages(ds.Records),
		MonthlySeasonality: MonthlySeasonality(ds.Records, ds.Schema.ProductColumns),
		Trend:              Trend(ds.Records, p.window),
		PromotionEffect:    PromotionEffect(ds),
		GeneratedAt:        p.now().UTC(),
	}

	if n := len(report.Trend.Points); n > 0 {
		report.DateRange = &domain.DateRange{
			From: report.Trend.Points[0].Date,
			To:   report.Trend.Points[n-1].Date,
		}
	}
	return report
}

// Outcome classifies a run error for metrics and logs
func Outcome(err error) string {
	var (
		parseErr  *ParseError
		schemaErr *SchemaError
		valueErr  *ValueError
	)
	switch {
	case err == nil:
		return infrastructure.OutcomeSuccess
	case errors.As(err, &parseErr):
		return infrastructure.OutcomeParseError
	case errors.As(err, &schemaErr):
		return infrastructure.OutcomeSchemaError
	case errors.As(err, &valueErr):
		return infrastructure.OutcomeValueError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return infrastructure.OutcomeCanceled
	default:
		return infrastructure.OutcomeError
	}
}
