package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/config"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/dataprocessing"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/exporter"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/validation"
	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

// Export formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Content types of exported files
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// ExportResult is a rendered export ready to be sent or saved
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Report      *domain.AnalysisReport
}

// BatchResult is the outcome of one file in a batch. Err is set when that
// file failed; other files are unaffected.
type BatchResult struct {
	Path     string
	Report   *domain.AnalysisReport
	Err      error
	Duration time.Duration
}

// AnalysisService runs the sales pipeline for uploads and local files and
// renders the results for export
type AnalysisService struct {
	pipeline  *dataprocessing.Pipeline
	validator *validation.FileValidator
	xlsx      *exporter.XLSXWriter
	cfg       config.AnalysisConfig
	logger    *slog.Logger
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(pipeline *dataprocessing.Pipeline, validator *validation.FileValidator, cfg config.AnalysisConfig, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		pipeline:  pipeline,
		validator: validator,
		xlsx:      exporter.NewXLSXWriter(logger),
		cfg:       cfg,
		logger:    logger.With(slog.String("service", "analysis")),
	}
}

// DefaultHeaderRow is the header row used when a caller gives none
func (s *AnalysisService) DefaultHeaderRow() int {
	return s.cfg.HeaderRow
}

// Validator returns the file validator shared with transport layers
func (s *AnalysisService) Validator() *validation.FileValidator {
	return s.validator
}

// Analyze runs the full pipeline over one spreadsheet
func (s *AnalysisService) Analyze(ctx context.Context, r io.Reader, filename string, headerRow int) (*domain.AnalysisReport, error) {
	return s.pipeline.Run(ctx, dataprocessing.Input{
		Reader:    r,
		Filename:  filename,
		HeaderRow: headerRow,
	})
}

// Preview returns the first rows of a spreadsheet. rows outside
// 1..MaxPreviewRows falls back to the configured default.
func (s *AnalysisService) Preview(ctx context.Context, r io.Reader, filename string, rows int) (*domain.SheetPreview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rows <= 0 || rows > config.MaxPreviewRows {
		rows = s.cfg.PreviewRows
	}
	return dataprocessing.Preview(r, filename, rows)
}

// Export analyzes a spreadsheet and renders it as an XLSX workbook with
// every view, or as the CSV of a single view
func (s *AnalysisService) Export(ctx context.Context, r io.Reader, filename string, headerRow int, format, view string) (*ExportResult, error) {
	format = strings.ToLower(format)
	switch format {
	case FormatXLSX:
	case FormatCSV:
		if !exporter.IsView(view) {
			return nil, fmt.Errorf("%w %q", ErrUnknownView, view)
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}

	report, err := s.Analyze(ctx, r, filename, headerRow)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	var buf bytes.Buffer
	result := &ExportResult{Report: report}

	if format == FormatXLSX {
		if err := s.xlsx.WriteWorkbook(&buf, report); err != nil {
			return nil, err
		}
		result.Filename = base + "_analysis.xlsx"
		result.ContentType = ContentTypeXLSX
	} else {
		table, err := exporter.ViewTableByName(report, view)
		if err != nil {
			return nil, err
		}
		if err := exporter.NewCSVWriter("", s.logger).WriteView(&buf, table); err != nil {
			return nil, err
		}
		result.Filename = base + "_" + view + ".csv"
		result.ContentType = ContentTypeCSV
	}

	result.Data = buf.Bytes()
	s.logger.InfoContext(ctx, "Report exported",
		slog.String("run_id", report.RunID),
		slog.String("format", format),
		slog.String("filename", result.Filename),
		slog.Int("bytes", len(result.Data)))
	return result, nil
}

// AnalyzeFile validates and analyzes a spreadsheet on disk
func (s *AnalysisService) AnalyzeFile(ctx context.Context, path string, headerRow int) (*domain.AnalysisReport, error) {
	if err := s.validator.ValidateFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.Analyze(ctx, f, filepath.Base(path), headerRow)
}

// PreviewFile previews a spreadsheet on disk
func (s *AnalysisService) PreviewFile(ctx context.Context, path string, rows int) (*domain.SheetPreview, error) {
	if err := s.validator.ValidateFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.Preview(ctx, f, filepath.Base(path), rows)
}

// AnalyzeBatch analyzes independent files in parallel, at most
// BatchConcurrency at a time. Results keep the order of paths.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, paths []string, headerRow int) []BatchResult {
	results := make([]BatchResult, len(paths))

	limit := s.cfg.BatchConcurrency
	if limit <= 0 {
		limit = config.DefaultBatchConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			start := time.Now()
			report, err := s.AnalyzeFile(gctx, path, headerRow)
			results[i] = BatchResult{
				Path:     path,
				Report:   report,
				Err:      err,
				Duration: time.Since(start),
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.InfoContext(ctx, "Batch analysis completed",
		slog.Int("files", len(paths)),
		slog.Int("failed", failed))
	return results
}

// SaveReport writes report under dir in the given format and returns the
// written paths. CSV writes one file per view, XLSX a single workbook.
func (s *AnalysisService) SaveReport(report *domain.AnalysisReport, dir, format string) ([]string, error) {
	if err := s.validator.ValidateOutputDirectory(dir); err != nil {
		return nil, err
	}
	prefix := strings.TrimSuffix(report.SourceFile, filepath.Ext(report.SourceFile))

	switch strings.ToLower(format) {
	case FormatCSV:
		return exporter.NewCSVWriter(dir, s.logger).WriteReport(report, prefix)
	case FormatXLSX:
		path := filepath.Join(dir, prefix+"_analysis.xlsx")
		if err := s.xlsx.SaveWorkbook(path, report); err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}
