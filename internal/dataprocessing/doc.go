// Package dataprocessing turns a bakery sales spreadsheet into the analysis
// report served by the API and printed by the CLI.
//
// # Architecture
//
// A run passes through four stages, each returning a new value:
//
//  1. Ingestion (ReadTable): reads the first sheet of an .xlsx, .xlsm, .xls
//     or .csv file and takes the configured row as the header.
//  2. Normalization (Normalize): trims column names, drops placeholder
//     columns and validates the date and product columns.
//  3. Derivation (Derive): coerces dates, sums product columns into total
//     sales and adds weekday and month names.
//  4. Aggregation: Summarize, WeekdayAverages, MonthlySeasonality, Trend
//     and PromotionEffect, each a read-only view over the derived records.
//
// # Usage
//
//	p := dataprocessing.NewPipeline(logger, dataprocessing.WithMetrics(metrics))
//	report, err := p.Run(ctx, dataprocessing.Input{
//	    Reader:    file,
//	    Filename:  "sales.xlsx",
//	    HeaderRow: 3,
//	})
//
// # Error Handling
//
// Runs fail fast. The error is one of:
//
//	- *ParseError: the file is unreadable or the header row is out of range
//	- *SchemaError: required columns are missing or duplicated
//	- *ValueError: a date or amount cell cannot be coerced
//
// A missing promotion column is not an error; the promotion view is
// reported as unavailable instead.
package dataprocessing
