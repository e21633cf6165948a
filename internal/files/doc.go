// Package files discovers input spreadsheets on disk for batch analysis.
//
// Discovery takes an acceptance function so callers decide which names
// count as spreadsheets; the CLI passes the file validator's check, which
// also rejects office lock files.
//
//	discovery := files.NewDiscovery("", validator.IsSpreadsheet)
//	sheets, err := discovery.FindSpreadsheets("data/2024")
package files
