package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/EbinDavis252/Analysis-of-Bakery/internal/errors"
	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

// RunSheet is the workbook sheet describing the run itself
const RunSheet = "run"

const xlsxDateFormat = "yyyy-mm-dd"

// XLSXWriter writes a report as a workbook with one sheet per view
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger.With(slog.String("component", "xlsx_exporter"))}
}

// WriteWorkbook streams the workbook for report to out
func (w *XLSXWriter) WriteWorkbook(out io.Writer, report *domain.AnalysisReport) error {
	f, err := w.build(report)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook for report to path
func (w *XLSXWriter) SaveWorkbook(path string, report *domain.AnalysisReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).WithContext("path", path)
	}

	f, err := w.build(report)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}

	w.logger.Info("Workbook exported",
		slog.String("run_id", report.RunID),
		slog.String("path", path))
	return nil
}

func (w *XLSXWriter) build(report *domain.AnalysisReport) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	dateFormat := xlsxDateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create date style: %w", err)
	}

	for i, table := range ViewTables(report) {
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), table.Name)
		} else {
			_, err = f.NewSheet(table.Name)
		}
		if err == nil {
			err = writeSheet(f, table, headerStyle, dateStyle)
		}
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", table.Name, err)
		}
	}

	if err := writeRunSheet(f, report, headerStyle); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write sheet %s: %w", RunSheet, err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, table ViewTable, headerStyle, dateStyle int) error {
	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(table.Name, "A1", &header); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(table.Headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(table.Name, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(table.Name, "A", lastCol, 16); err != nil {
		return err
	}

	for r, row := range table.Rows {
		values := make([]interface{}, len(row))
		for c, cell := range row {
			values[c] = cellValue(cell)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(table.Name, cell, &values); err != nil {
			return err
		}
		for c, v := range values {
			if _, ok := v.(time.Time); !ok {
				continue
			}
			dateCell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(table.Name, dateCell, dateCell, dateStyle); err != nil {
				return err
			}
		}
	}

	if table.Note != "" {
		noteCell, err := excelize.CoordinatesToCellName(1, len(table.Rows)+3)
		if err != nil {
			return err
		}
		return f.SetCellValue(table.Name, noteCell, table.Note)
	}
	return nil
}

func writeRunSheet(f *excelize.File, report *domain.AnalysisReport, headerStyle int) error {
	if _, err := f.NewSheet(RunSheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"field", "value"},
		{"source_file", report.SourceFile},
		{"run_id", report.RunID},
		{"header_row", report.HeaderRow},
		{"records", report.RecordCount},
		{"columns", strings.Join(report.Columns, ", ")},
		{"dropped_columns", strings.Join(report.DroppedColumns, ", ")},
		{"generated_at", report.GeneratedAt.Format(time.RFC3339)},
	}
	if report.DateRange != nil {
		rows = append(rows,
			[]interface{}{"date_from", report.DateRange.From.Format(DateLayout)},
			[]interface{}{"date_to", report.DateRange.To.Format(DateLayout)})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(RunSheet, cell, &r); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(RunSheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(RunSheet, "A", "B", 24)
}
