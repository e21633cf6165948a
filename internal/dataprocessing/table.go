package dataprocessing

// Table is a rectangular block of string cells read from the first sheet of a
// spreadsheet. Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string

	// SourceRows holds the 1-based spreadsheet row number of each entry in
	// Rows, so that value errors can point at the offending line.
	SourceRows []int

	// Date1904 is set when the workbook uses the 1904 date system.
	Date1904 bool
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := &Table{
		Columns:    append([]string(nil), t.Columns...),
		Rows:       make([][]string, len(t.Rows)),
		SourceRows: append([]int(nil), t.SourceRows...),
		Date1904:   t.Date1904,
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// ColumnIndex returns the position of the named column or -1
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has the named column
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// sourceRow returns the spreadsheet row number for data row i
func (t *Table) sourceRow(i int) int {
	if i < len(t.SourceRows) {
		return t.SourceRows[i]
	}
	return i + 1
}
