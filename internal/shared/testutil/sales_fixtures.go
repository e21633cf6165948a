package testutil

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// SalesHeaderRow is the 0-based header row of workbooks built by SalesWorkbook
const SalesHeaderRow = 3

// SalesStart is the first day of DefaultWorkbook
var SalesStart = time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC)

// SalesHeader mirrors a real export: an unnamed index column, padded names,
// the daywk helper column and a promotion column
var SalesHeader = []interface{}{"", " Date ", "daywk", "Cakes", "Pies", "Cookies", "Smoothies", "Coffee ", "promotion"}

// SalesRows builds n consecutive days starting at start. Cakes grow by one
// each day, so day i totals 45+i. Every fifth day carries a promotion.
func SalesRows(start time.Time, n int) [][]interface{} {
	rows := make([][]interface{}, 0, n)
	for i := 0; i < n; i++ {
		date := start.AddDate(0, 0, i)
		promo := "none"
		if i%5 == 0 {
			promo = "Promo"
		}
		rows = append(rows, []interface{}{
			i, date, date.Weekday().String()[:3],
			10 + i, 5, 20, 3, 7, promo,
		})
	}
	return rows
}

// DropColumn removes the column called name from a header and its rows
func DropColumn(header []interface{}, rows [][]interface{}, name string) ([]interface{}, [][]interface{}) {
	idx := -1
	for i, h := range header {
		if h == name {
			idx = i
		}
	}
	if idx < 0 {
		return header, rows
	}
	without := func(r []interface{}) []interface{} {
		out := append([]interface{}{}, r[:idx]...)
		return append(out, r[idx+1:]...)
	}
	outRows := make([][]interface{}, len(rows))
	for i, r := range rows {
		outRows[i] = without(r)
	}
	return without(header), outRows
}

// SalesWorkbook writes an xlsx with a banner above the header, the header on
// SalesHeaderRow and the data rows below it
func SalesWorkbook(t *testing.T, header []interface{}, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetCellValue(sheet, "A1", "La Petit Bakery"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "Daily sales"))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, SalesHeaderRow+2+i)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// DefaultWorkbook is 35 days from SalesStart, spanning January and February
func DefaultWorkbook(t *testing.T) []byte {
	t.Helper()
	return SalesWorkbook(t, SalesHeader, SalesRows(SalesStart, 35))
}

// SalesCSV renders header and rows as CSV text with the header on the first
// line. Dates are written as 2006-01-02.
func SalesCSV(header []interface{}, rows [][]interface{}) []byte {
	var buf bytes.Buffer
	writeLine := func(cells []interface{}) {
		for i, c := range cells {
			if i > 0 {
				buf.WriteByte(',')
			}
			switch v := c.(type) {
			case time.Time:
				buf.WriteString(v.Format("2006-01-02"))
			default:
				buf.WriteString(fmt.Sprint(v))
			}
		}
		buf.WriteByte('\n')
	}
	writeLine(header)
	for _, r := range rows {
		writeLine(r)
	}
	return buf.Bytes()
}
