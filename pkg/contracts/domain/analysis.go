package domain

import (
	"time"
)

// SalesRecord is one derived day of sales. Records are built once by the
// derivation stage and never modified afterwards.
type SalesRecord struct {
	Date       time.Time          `json:"date"`
	Products   map[string]float64 `json:"products"`
	Promotion  string             `json:"promotion,omitempty"`
	TotalSales float64            `json:"total_sales"`
	DayOfWeek  string             `json:"day_of_week"`
	Month      string             `json:"month"`
	SourceRow  int                `json:"source_row"`
}

// SummaryStatistics is the descriptive summary of total sales.
// Pointer fields are nil when the value is undefined for the input.
type SummaryStatistics struct {
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"p25"`
	Median *float64 `json:"p50"`
	Q75    *float64 `json:"p75"`
	Max    *float64 `json:"max"`
}

// CategoryValue is a labelled mean, used for weekday and promotion groups
type CategoryValue struct {
	Label string   `json:"label"`
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
}

// ProductSeries holds one product's mean per calendar month
type ProductSeries struct {
	Product string     `json:"product"`
	Values  []*float64 `json:"values"`
}

// MonthlySeasonality is a months x products matrix of mean sales
type MonthlySeasonality struct {
	Months []string        `json:"months"`
	Series []ProductSeries `json:"series"`
}

// TrendPoint is one record of the date-ordered trend
type TrendPoint struct {
	Date        time.Time `json:"date"`
	TotalSales  float64   `json:"total_sales"`
	RollingMean *float64  `json:"rolling_mean"`
}

// Trend is the date-ordered total sales series with its rolling mean
type Trend struct {
	Window int          `json:"window"`
	Points []TrendPoint `json:"points"`
}

// PromotionEffect compares mean total sales with and without a promotion
type PromotionEffect struct {
	Available bool            `json:"available"`
	Reason    string          `json:"reason,omitempty"`
	Groups    []CategoryValue `json:"groups,omitempty"`
}

// DateRange is the first and last sales date of a run
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// AnalysisReport is the complete result of one analysis run
type AnalysisReport struct {
	RunID              string             `json:"run_id"`
	SourceFile         string             `json:"source_file"`
	HeaderRow          int                `json:"header_row"`
	RecordCount        int                `json:"record_count"`
	Columns            []string           `json:"columns"`
	DroppedColumns     []string           `json:"dropped_columns,omitempty"`
	DateRange          *DateRange         `json:"date_range,omitempty"`
	Summary            SummaryStatistics  `json:"summary"`
	WeekdayAverage     []CategoryValue    `json:"weekday_average"`
	MonthlySeasonality MonthlySeasonality `json:"monthly_seasonality"`
	Trend              Trend              `json:"trend"`
	PromotionEffect    PromotionEffect    `json:"promotion_effect"`
	GeneratedAt        time.Time          `json:"generated_at"`
}

// SheetPreview is the first rows of a sheet with no header interpretation
type SheetPreview struct {
	SourceFile string     `json:"source_file"`
	SheetName  string     `json:"sheet_name"`
	Rows       [][]string `json:"rows"`
	TotalRows  int        `json:"total_rows"`
}
