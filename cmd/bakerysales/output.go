package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/exporter"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/services"
	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

const dateLayout = "2006-01-02"

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeReportTable prints a run header followed by every view as a table
func writeReportTable(w io.Writer, report *domain.AnalysisReport) error {
	fmt.Fprintf(w, "File:     %s\n", report.SourceFile)
	fmt.Fprintf(w, "Run:      %s\n", report.RunID)
	fmt.Fprintf(w, "Records:  %d\n", report.RecordCount)
	if report.DateRange != nil {
		fmt.Fprintf(w, "Range:    %s to %s\n",
			report.DateRange.From.Format(dateLayout),
			report.DateRange.To.Format(dateLayout))
	}
	if len(report.DroppedColumns) > 0 {
		fmt.Fprintf(w, "Dropped:  %s\n", strings.Join(report.DroppedColumns, ", "))
	}

	for _, view := range exporter.ViewTables(report) {
		fmt.Fprintf(w, "\n== %s ==\n", view.Name)
		if view.Note != "" && len(view.Rows) == 0 {
			fmt.Fprintln(w, view.Note)
			continue
		}

		tw := newTabWriter(w)
		fmt.Fprintln(tw, strings.Join(view.Headers, "\t"))
		for _, record := range view.Records() {
			fmt.Fprintln(tw, strings.Join(record, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if view.Note != "" {
			fmt.Fprintln(w, view.Note)
		}
	}
	return nil
}

// writePreviewTable prints raw rows prefixed with their 0-based index, the
// number to pass as --header-row
func writePreviewTable(w io.Writer, preview *domain.SheetPreview) error {
	fmt.Fprintf(w, "Sheet %q: showing %d of %d rows\n\n", preview.SheetName, len(preview.Rows), preview.TotalRows)

	tw := newTabWriter(w)
	for i, row := range preview.Rows {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, strconv.Itoa(i))
		for _, cell := range row {
			cells = append(cells, strings.TrimSpace(cell))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func writeBatchTable(w io.Writer, results []services.BatchResult) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "FILE\tRECORDS\tFROM\tTO\tMEAN_TOTAL\tSTATUS")
	for _, r := range results {
		name := filepath.Base(r.Path)
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\tFAILED: %s\n", name, r.Err)
			continue
		}

		from, to := "-", "-"
		if r.Report.DateRange != nil {
			from = r.Report.DateRange.From.Format(dateLayout)
			to = r.Report.DateRange.To.Format(dateLayout)
		}
		mean := "-"
		if m := r.Report.Summary.Mean; m != nil {
			mean = strconv.FormatFloat(*m, 'f', 2, 64)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\tok\n", name, r.Report.RecordCount, from, to, mean)
	}
	return tw.Flush()
}

type batchEntry struct {
	File       string                 `json:"file"`
	DurationMS int64                  `json:"duration_ms"`
	Error      string                 `json:"error,omitempty"`
	Report     *domain.AnalysisReport `json:"report,omitempty"`
}

func batchJSON(results []services.BatchResult) []batchEntry {
	out := make([]batchEntry, len(results))
	for i, r := range results {
		out[i] = batchEntry{
			File:       r.Path,
			DurationMS: r.Duration.Milliseconds(),
			Report:     r.Report,
		}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return out
}
