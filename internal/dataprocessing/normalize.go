package dataprocessing

import (
	"slices"
	"strings"
)

// Normalize trims column names, drops placeholder and non-data columns, and
// validates the result against the schema. It returns a new table and never
// modifies t. Normalizing an already normalized table returns an equal table.
//
// A repeated schema column is ambiguous and rejected. Any other repeated
// column keeps its first occurrence.
func Normalize(t *Table, s Schema) (*Table, error) {
	keep := make([]int, 0, len(t.Columns))
	names := make([]string, 0, len(t.Columns))
	seen := make(map[string]bool, len(t.Columns))
	var duplicates []string

	for i, col := range t.Columns {
		name := strings.TrimSpace(col)
		if s.isDropped(name) {
			continue
		}
		if seen[name] {
			if s.isSchemaColumn(name) && !slices.Contains(duplicates, name) {
				duplicates = append(duplicates, name)
			}
			continue
		}
		seen[name] = true
		keep = append(keep, i)
		names = append(names, name)
	}

	var missing []string
	for _, required := range s.RequiredColumns() {
		if !seen[required] {
			missing = append(missing, required)
		}
	}

	if len(duplicates) > 0 || len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Duplicates: duplicates}
	}

	out := &Table{
		Columns:    names,
		Rows:       make([][]string, len(t.Rows)),
		SourceRows: append([]int(nil), t.SourceRows...),
		Date1904:   t.Date1904,
	}
	for r, row := range t.Rows {
		cells := make([]string, len(keep))
		for j, idx := range keep {
			if idx < len(row) {
				cells[j] = row[idx]
			}
		}
		out.Rows[r] = cells
	}

	return out, nil
}

// DroppedColumns lists the non-blank column names Normalize would remove,
// including repeats of extraneous columns
func DroppedColumns(t *Table, s Schema) []string {
	var dropped []string
	seen := make(map[string]bool, len(t.Columns))
	for _, col := range t.Columns {
		name := strings.TrimSpace(col)
		if name == "" {
			continue
		}
		if s.isDropped(name) || (seen[name] && !s.isSchemaColumn(name)) {
			dropped = append(dropped, name)
		}
		seen[name] = true
	}
	return dropped
}
