package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/config"
	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

// sheet is the first worksheet of a file, exactly as read
type sheet struct {
	Name     string
	Rows     [][]string
	Date1904 bool
}

// ReadTable reads the first sheet of a spreadsheet and uses the 0-based row
// headerRow as the header. Rows above the header are discarded and fully
// blank data rows are skipped. The format is chosen from the filename
// extension.
func ReadTable(r io.Reader, filename string, headerRow int) (*Table, error) {
	if headerRow < 0 {
		return nil, newParseError(filename, fmt.Sprintf("header row must not be negative, got %d", headerRow), nil)
	}

	sh, err := readSheet(r, filename)
	if err != nil {
		return nil, err
	}

	if headerRow >= len(sh.Rows) {
		return nil, newParseError(filename,
			fmt.Sprintf("header row %d is beyond the end of sheet %q (%d rows)", headerRow, sh.Name, len(sh.Rows)), nil)
	}

	// Cells past the last header cell become columns with blank names,
	// which normalization drops as placeholders. A blank header row yields
	// only such columns and fails schema validation.
	width := 0
	for _, row := range sh.Rows[headerRow:] {
		if len(row) > width {
			width = len(row)
		}
	}

	table := &Table{
		Columns:  padRow(sh.Rows[headerRow], width),
		Date1904: sh.Date1904,
	}
	for i := headerRow + 1; i < len(sh.Rows); i++ {
		if isBlankRow(sh.Rows[i]) {
			continue
		}
		table.Rows = append(table.Rows, padRow(sh.Rows[i], width))
		table.SourceRows = append(table.SourceRows, i+1)
	}

	return table, nil
}

// Preview returns the first limit rows of the first sheet with no header
// interpretation, so a caller can pick the header row.
func Preview(r io.Reader, filename string, limit int) (*domain.SheetPreview, error) {
	if limit <= 0 {
		limit = config.DefaultPreviewRows
	}

	sh, err := readSheet(r, filename)
	if err != nil {
		return nil, err
	}

	n := len(sh.Rows)
	if n > limit {
		n = limit
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = append([]string{}, sh.Rows[i]...)
	}

	return &domain.SheetPreview{
		SourceFile: filename,
		SheetName:  sh.Name,
		Rows:       rows,
		TotalRows:  len(sh.Rows),
	}, nil
}

// IsSupportedFile reports whether the filename has a readable extension
func IsSupportedFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, supported := range config.SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

func readSheet(r io.Reader, filename string) (*sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newParseError(filename, "failed to read input", err)
	}
	if len(data) == 0 {
		return nil, newParseError(filename, "file is empty", nil)
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		return readXLSX(data, filename)
	case ".xls":
		return readXLS(data, filename)
	case ".csv":
		return readCSV(data, filename)
	default:
		return nil, newParseError(filename, fmt.Sprintf("unsupported file type %q", ext), nil)
	}
}

func readXLSX(data []byte, filename string) (*sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, newParseError(filename, "not a valid xlsx workbook", err)
	}
	defer func() { _ = f.Close() }()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, newParseError(filename, "no worksheet found", nil)
	}

	// Raw values keep dates as serial numbers and amounts unformatted
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, newParseError(filename, fmt.Sprintf("failed to read sheet %q", name), err)
	}

	sh := &sheet{Name: name, Rows: rows}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		sh.Date1904 = *props.Date1904
	}
	return sh, nil
}

func readXLS(data []byte, filename string) (sh *sheet, err error) {
	// The xls decoder panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			sh, err = nil, newParseError(filename, "not a valid xls workbook", fmt.Errorf("%v", r))
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, newParseError(filename, "not a valid xls workbook", err)
	}
	if wb.NumSheets() == 0 {
		return nil, newParseError(filename, "no worksheet found", nil)
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, newParseError(filename, "no worksheet found", nil)
	}

	rows := make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}

	// Trailing empty rows carry no data
	for len(rows) > 0 && isBlankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}

	return &sheet{Name: ws.Name, Rows: rows}, nil
}

func readCSV(data []byte, filename string) (*sheet, error) {
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newParseError(filename, "malformed csv", err)
		}
		rows = append(rows, record)
	}

	return &sheet{Name: strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)), Rows: rows}, nil
}

func padRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
