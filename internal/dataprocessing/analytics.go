package dataprocessing

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

// Promotion group labels
const (
	LabelNoPromotion      = "No Promotion"
	LabelPromotionApplied = "Promotion Applied"
)

const promotionPrefix = "promo"

// WeekdayOrder is the canonical Monday to Sunday order of weekday views
var WeekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// MonthOrder is the canonical January to December order of month views
var MonthOrder = []time.Month{
	time.January, time.February, time.March, time.April, time.May, time.June,
	time.July, time.August, time.September, time.October, time.November, time.December,
}

// Summarize describes total sales: count, mean, sample standard deviation,
// min, quartiles and max. Quartiles interpolate linearly between ranks.
func Summarize(records []domain.SalesRecord) domain.SummaryStatistics {
	values := make([]float64, len(records))
	for i, rec := range records {
		values[i] = rec.TotalSales
	}

	stats := domain.SummaryStatistics{Count: len(values)}
	if len(values) == 0 {
		return stats
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean := meanOf(values)
	stats.Mean = ptr(mean)
	if len(values) > 1 {
		var ss float64
		for _, v := range values {
			ss += (v - mean) * (v - mean)
		}
		stats.Std = ptr(math.Sqrt(ss / float64(len(values)-1)))
	}
	stats.Min = ptr(sorted[0])
	stats.Q25 = ptr(quantile(sorted, 0.25))
	stats.Median = ptr(quantile(sorted, 0.50))
	stats.Q75 = ptr(quantile(sorted, 0.75))
	stats.Max = ptr(sorted[len(sorted)-1])

	return stats
}

// WeekdayAverages returns mean total sales per weekday, always seven entries
// from Monday to Sunday. Days without records have a nil mean.
func WeekdayAverages(records []domain.SalesRecord) []domain.CategoryValue {
	sums := make(map[time.Weekday]float64, 7)
	counts := make(map[time.Weekday]int, 7)
	for _, rec := range records {
		day := rec.Date.Weekday()
		sums[day] += rec.TotalSales
		counts[day]++
	}

	out := make([]domain.CategoryValue, 0, len(WeekdayOrder))
	for _, day := range WeekdayOrder {
		cv := domain.CategoryValue{Label: day.String(), Count: counts[day]}
		if counts[day] > 0 {
			cv.Mean = ptr(sums[day] / float64(counts[day]))
		}
		out = append(out, cv)
	}
	return out
}

// MonthlySeasonality returns the mean of each product per calendar month,
// always twelve months from January to December
func MonthlySeasonality(records []domain.SalesRecord, products []string) domain.MonthlySeasonality {
	counts := make(map[time.Month]int, 12)
	sums := make(map[time.Month]map[string]float64, 12)
	for _, rec := range records {
		m := rec.Date.Month()
		counts[m]++
		if sums[m] == nil {
			sums[m] = make(map[string]float64, len(products))
		}
		for _, p := range products {
			sums[m][p] += rec.Products[p]
		}
	}

	view := domain.MonthlySeasonality{
		Months: make([]string, len(MonthOrder)),
		Series: make([]domain.ProductSeries, len(products)),
	}
	for i, m := range MonthOrder {
		view.Months[i] = m.String()
	}
	for j, p := range products {
		series := domain.ProductSeries{Product: p, Values: make([]*float64, len(MonthOrder))}
		for i, m := range MonthOrder {
			if counts[m] > 0 {
				series.Values[i] = ptr(sums[m][p] / float64(counts[m]))
			}
		}
		view.Series[j] = series
	}
	return view
}

// Trend orders records by date (ties keep file order) and pairs each total
// with the trailing rolling mean over window records
func Trend(records []domain.SalesRecord, window int) domain.Trend {
	ordered := append([]domain.SalesRecord(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	totals := make([]float64, len(ordered))
	for i, rec := range ordered {
		totals[i] = rec.TotalSales
	}
	rolling := RollingMean(totals, window)

	trend := domain.Trend{Window: window, Points: make([]domain.TrendPoint, len(ordered))}
	for i, rec := range ordered {
		trend.Points[i] = domain.TrendPoint{
			Date:        rec.Date,
			TotalSales:  rec.TotalSales,
			RollingMean: rolling[i],
		}
	}
	return trend
}

// RollingMean returns the mean of values[i-window+1..i] at each position i,
// nil until window values have accumulated
func RollingMean(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		out[i] = ptr(meanOf(values[i-window+1 : i+1]))
	}
	return out
}

// PromotionLabel maps a raw promotion value to its group label. Any value
// starting with "promo" in any case counts as a promotion.
func PromotionLabel(value string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(value)), promotionPrefix) {
		return LabelPromotionApplied
	}
	return LabelNoPromotion
}

// PromotionEffect compares mean total sales with and without a promotion.
// Without a promotion column the view is reported unavailable.
func PromotionEffect(ds *Dataset) domain.PromotionEffect {
	if !ds.HasPromotion {
		return domain.PromotionEffect{
			Available: false,
			Reason:    "no " + ds.Schema.PromotionColumn + " column found in the dataset",
		}
	}

	sums := map[string]float64{}
	counts := map[string]int{}
	for _, rec := range ds.Records {
		label := PromotionLabel(rec.Promotion)
		sums[label] += rec.TotalSales
		counts[label]++
	}

	effect := domain.PromotionEffect{Available: true}
	for _, label := range []string{LabelNoPromotion, LabelPromotionApplied} {
		cv := domain.CategoryValue{Label: label, Count: counts[label]}
		if counts[label] > 0 {
			cv.Mean = ptr(sums[label] / float64(counts[label]))
		}
		effect.Groups = append(effect.Groups, cv)
	}
	return effect
}

// quantile interpolates linearly between the closest ranks of sorted
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func ptr(v float64) *float64 {
	return &v
}
