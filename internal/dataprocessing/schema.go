package dataprocessing

import (
	"strings"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/config"
)

// Schema is the column contract a sales sheet is validated against
type Schema struct {
	DateColumn      string
	ProductColumns  []string
	PromotionColumn string

	// DropMarkers are case-insensitive substrings of placeholder column names
	DropMarkers []string
	// DropColumns are exact (case-insensitive) names of non-data columns
	DropColumns []string
}

// DefaultSchema returns the bakery sales sheet contract
func DefaultSchema() Schema {
	return Schema{
		DateColumn:      config.DateColumn,
		ProductColumns:  append([]string(nil), config.ProductColumns...),
		PromotionColumn: config.PromotionColumn,
		DropMarkers:     append([]string(nil), config.DropColumnMarkers...),
		DropColumns:     append([]string(nil), config.DropColumns...),
	}
}

// RequiredColumns returns the date column followed by the product columns
func (s Schema) RequiredColumns() []string {
	required := make([]string, 0, len(s.ProductColumns)+1)
	required = append(required, s.DateColumn)
	return append(required, s.ProductColumns...)
}

// isSchemaColumn reports whether name is a required or promotion column
func (s Schema) isSchemaColumn(name string) bool {
	if s.PromotionColumn != "" && name == s.PromotionColumn {
		return true
	}
	for _, col := range s.RequiredColumns() {
		if name == col {
			return true
		}
	}
	return false
}

// isDropped reports whether a trimmed column name is a placeholder or a
// known non-data column
func (s Schema) isDropped(name string) bool {
	if name == "" {
		return true
	}
	lower := strings.ToLower(name)
	for _, marker := range s.DropMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	for _, col := range s.DropColumns {
		if strings.EqualFold(name, col) {
			return true
		}
	}
	return false
}
