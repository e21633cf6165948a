// Package exporter writes analysis reports for spreadsheet users.
//
// Every view of a report is first flattened into a ViewTable. CSVWriter
// writes one BOM-prefixed CSV per view, which Excel opens as UTF-8.
// XLSXWriter writes a single workbook with one sheet per view plus a run
// sheet describing the source file. Undefined statistics are empty cells.
package exporter
