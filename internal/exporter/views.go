package exporter

import (
	"fmt"
	"slices"

	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

// View names, in report order
const (
	ViewSummary            = "summary"
	ViewWeekdayAverage     = "weekday_average"
	ViewMonthlySeasonality = "monthly_seasonality"
	ViewTrend              = "trend"
	ViewPromotionEffect    = "promotion_effect"
)

// ViewNames lists every view in the order they are exported
var ViewNames = []string{
	ViewSummary,
	ViewWeekdayAverage,
	ViewMonthlySeasonality,
	ViewTrend,
	ViewPromotionEffect,
}

// ViewTable is one view flattened to a header and rows. Cells hold float64,
// *float64 (nil when undefined), int, string or time.Time values.
type ViewTable struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
	// Note explains an empty view, such as a missing promotion column
	Note string
}

// Records renders the rows as text, the same way they are written to CSV
func (t ViewTable) Records() [][]string {
	return viewRecords(t)
}

// IsView reports whether name is a known view
func IsView(name string) bool {
	return slices.Contains(ViewNames, name)
}

// ViewTables flattens all five views of a report
func ViewTables(report *domain.AnalysisReport) []ViewTable {
	return []ViewTable{
		summaryTable(report.Summary),
		weekdayTable(report.WeekdayAverage),
		seasonalityTable(report.MonthlySeasonality),
		trendTable(report.Trend),
		promotionTable(report.PromotionEffect),
	}
}

// ViewTableByName flattens a single view
func ViewTableByName(report *domain.AnalysisReport, name string) (ViewTable, error) {
	switch name {
	case ViewSummary:
		return summaryTable(report.Summary), nil
	case ViewWeekdayAverage:
		return weekdayTable(report.WeekdayAverage), nil
	case ViewMonthlySeasonality:
		return seasonalityTable(report.MonthlySeasonality), nil
	case ViewTrend:
		return trendTable(report.Trend), nil
	case ViewPromotionEffect:
		return promotionTable(report.PromotionEffect), nil
	default:
		return ViewTable{}, fmt.Errorf("unknown view %q", name)
	}
}

func summaryTable(s domain.SummaryStatistics) ViewTable {
	return ViewTable{
		Name:    ViewSummary,
		Headers: []string{"statistic", "total_sales"},
		Rows: [][]interface{}{
			{"count", s.Count},
			{"mean", s.Mean},
			{"std", s.Std},
			{"min", s.Min},
			{"25%", s.Q25},
			{"50%", s.Median},
			{"75%", s.Q75},
			{"max", s.Max},
		},
	}
}

func weekdayTable(days []domain.CategoryValue) ViewTable {
	t := ViewTable{
		Name:    ViewWeekdayAverage,
		Headers: []string{"day_of_week", "records", "mean_total_sales"},
	}
	for _, d := range days {
		t.Rows = append(t.Rows, []interface{}{d.Label, d.Count, d.Mean})
	}
	return t
}

func seasonalityTable(m domain.MonthlySeasonality) ViewTable {
	t := ViewTable{
		Name:    ViewMonthlySeasonality,
		Headers: []string{"month"},
	}
	for _, s := range m.Series {
		t.Headers = append(t.Headers, s.Product)
	}
	for i, month := range m.Months {
		row := []interface{}{month}
		for _, s := range m.Series {
			row = append(row, s.Values[i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func trendTable(tr domain.Trend) ViewTable {
	t := ViewTable{
		Name:    ViewTrend,
		Headers: []string{"date", "total_sales", fmt.Sprintf("rolling_mean_%d", tr.Window)},
	}
	for _, p := range tr.Points {
		t.Rows = append(t.Rows, []interface{}{p.Date, p.TotalSales, p.RollingMean})
	}
	return t
}

func promotionTable(p domain.PromotionEffect) ViewTable {
	t := ViewTable{
		Name:    ViewPromotionEffect,
		Headers: []string{"promotion", "records", "mean_total_sales"},
	}
	if !p.Available {
		t.Note = p.Reason
		return t
	}
	for _, g := range p.Groups {
		t.Rows = append(t.Rows, []interface{}{g.Label, g.Count, g.Mean})
	}
	return t
}
