package exporter

import (
	"time"

	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

func f64(v float64) *float64 { return &v }

// sampleReport is a small hand-built report: three January days, no
// February, and a promotion column
func sampleReport() *domain.AnalysisReport {
	day := func(d int) time.Time { return time.Date(2023, time.January, d, 0, 0, 0, 0, time.UTC) }

	months := make([]string, 12)
	cakes := make([]*float64, 12)
	pies := make([]*float64, 12)
	for i := range months {
		months[i] = time.Month(i + 1).String()
	}
	cakes[0], pies[0] = f64(11), f64(5)

	weekdays := []domain.CategoryValue{
		{Label: "Monday", Count: 1, Mean: f64(40)},
		{Label: "Tuesday", Count: 1, Mean: f64(50.5)},
		{Label: "Wednesday"},
		{Label: "Thursday"},
		{Label: "Friday"},
		{Label: "Saturday"},
		{Label: "Sunday", Count: 1, Mean: f64(30)},
	}

	return &domain.AnalysisReport{
		RunID:       "run-1",
		SourceFile:  "sales.xlsx",
		HeaderRow:   3,
		RecordCount: 3,
		Columns:     []string{"Date", "Cakes", "Pies", "promotion"},
		DateRange:   &domain.DateRange{From: day(1), To: day(3)},
		Summary: domain.SummaryStatistics{
			Count: 3, Mean: f64(40.166667), Std: f64(10.25),
			Min: f64(30), Q25: f64(35), Median: f64(40), Q75: f64(45.25), Max: f64(50.5),
		},
		WeekdayAverage: weekdays,
		MonthlySeasonality: domain.MonthlySeasonality{
			Months: months,
			Series: []domain.ProductSeries{
				{Product: "Cakes", Values: cakes},
				{Product: "Pies", Values: pies},
			},
		},
		Trend: domain.Trend{
			Window: 2,
			Points: []domain.TrendPoint{
				{Date: day(1), TotalSales: 30},
				{Date: day(2), TotalSales: 40, RollingMean: f64(35)},
				{Date: day(3), TotalSales: 50.5, RollingMean: f64(45.25)},
			},
		},
		PromotionEffect: domain.PromotionEffect{
			Available: true,
			Groups: []domain.CategoryValue{
				{Label: "No Promotion", Count: 3, Mean: f64(40.166667)},
				{Label: "Promotion Applied"},
			},
		},
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}
