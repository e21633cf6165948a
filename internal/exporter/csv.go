package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "github.com/EbinDavis252/Analysis-of-Bakery/internal/errors"
	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes report views as CSV files under one output directory
type CSVWriter struct {
	outputDir string
	logger    *slog.Logger
}

// NewCSVWriter creates a writer rooted at outputDir
func NewCSVWriter(outputDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		outputDir: outputDir,
		logger:    logger.With(slog.String("component", "csv_exporter")),
	}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes a CSV file, creating its directory. Relative paths are
// resolved against the output directory.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Debug("Writing CSV file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return apperrors.NewStorageError("failed to create file", err).WithContext("path", fullPath)
	}
	defer file.Close()

	if err := writeRecords(file, options); err != nil {
		return apperrors.NewStorageError("failed to write csv", err).WithContext("path", fullPath)
	}
	return file.Close()
}

// WriteView writes one view as BOM-prefixed CSV to out
func (w *CSVWriter) WriteView(out io.Writer, table ViewTable) error {
	return writeRecords(out, WriteOptions{
		Headers:   table.Headers,
		Records:   viewRecords(table),
		BOMPrefix: true,
	})
}

// WriteReport writes every view of report to <prefix>_<view>.csv, or
// <view>.csv when prefix is empty, and returns the written paths
func (w *CSVWriter) WriteReport(report *domain.AnalysisReport, prefix string) ([]string, error) {
	tables := ViewTables(report)
	paths := make([]string, 0, len(tables))

	for _, table := range tables {
		name := table.Name + ".csv"
		if prefix != "" {
			name = prefix + "_" + name
		}
		if err := w.WriteCSV(name, WriteOptions{
			Headers:   table.Headers,
			Records:   viewRecords(table),
			BOMPrefix: true,
		}); err != nil {
			return paths, err
		}
		paths = append(paths, w.resolvePath(name))
	}

	w.logger.Info("Report exported",
		slog.String("run_id", report.RunID),
		slog.String("output_dir", w.outputDir),
		slog.Int("files", len(paths)))
	return paths, nil
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.outputDir, filePath)
}

func writeRecords(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func viewRecords(table ViewTable) [][]string {
	records := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		record := make([]string, len(row))
		for j, cell := range row {
			record[j] = formatCell(cell)
		}
		records[i] = record
	}
	return records
}
