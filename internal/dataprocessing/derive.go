package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

// Largest serial Excel can represent (9999-12-31)
const maxExcelSerial = 2958465

// TotalSalesColumn names the derived total in value errors
const TotalSalesColumn = "total_sales"

// dateLayouts are the textual date forms accepted in the date column
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04",
	"2006/01/02",
	"2006.01.02",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

// Dataset is the derived, immutable record set of one run
type Dataset struct {
	Schema       Schema
	Records      []domain.SalesRecord
	HasPromotion bool
}

// Derive coerces the date column, sums product columns into total sales and
// adds the weekday and month names. The table must have passed Normalize.
// Empty product cells count as zero; any date or amount that cannot be
// coerced rejects the whole table.
func Derive(t *Table, s Schema) (*Dataset, error) {
	dateIdx := t.ColumnIndex(s.DateColumn)
	productIdx := make([]int, len(s.ProductColumns))
	var missing []string
	if dateIdx < 0 {
		missing = append(missing, s.DateColumn)
	}
	for i, product := range s.ProductColumns {
		productIdx[i] = t.ColumnIndex(product)
		if productIdx[i] < 0 {
			missing = append(missing, product)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	promoIdx := -1
	if s.PromotionColumn != "" {
		promoIdx = t.ColumnIndex(s.PromotionColumn)
	}

	ds := &Dataset{
		Schema:       s,
		Records:      make([]domain.SalesRecord, 0, len(t.Rows)),
		HasPromotion: promoIdx >= 0,
	}

	for r, row := range t.Rows {
		line := t.sourceRow(r)

		date, err := ParseDate(row[dateIdx], t.Date1904)
		if err != nil {
			return nil, &ValueError{Column: s.DateColumn, Row: line, Value: row[dateIdx], Reason: err.Error()}
		}

		rec := domain.SalesRecord{
			Date:      date,
			Products:  make(map[string]float64, len(s.ProductColumns)),
			DayOfWeek: date.Weekday().String(),
			Month:     date.Month().String(),
			SourceRow: line,
		}

		for i, product := range s.ProductColumns {
			cell := row[productIdx[i]]
			amount, err := ParseAmount(cell)
			if err != nil {
				return nil, &ValueError{Column: product, Row: line, Value: cell, Reason: err.Error()}
			}
			rec.Products[product] = amount
			rec.TotalSales += amount
		}
		if math.IsInf(rec.TotalSales, 0) {
			return nil, &ValueError{
				Column: TotalSalesColumn,
				Row:    line,
				Value:  strconv.FormatFloat(rec.TotalSales, 'g', -1, 64),
				Reason: "sum of product values overflows",
			}
		}

		if promoIdx >= 0 {
			rec.Promotion = strings.TrimSpace(row[promoIdx])
		}

		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

// ParseDate accepts an Excel serial date or one of the common text layouts
func ParseDate(value string, date1904 bool) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial >= 1 && serial <= maxExcelSerial {
			return excelize.ExcelDateToTime(serial, date1904)
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("not a recognised date")
}

// ParseAmount converts a product cell to a number. Empty cells are zero and
// thousands separators are ignored.
func ParseAmount(value string) (float64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, nil
	}
	v = strings.ReplaceAll(v, ",", "")

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a number")
	}
	return f, nil
}
