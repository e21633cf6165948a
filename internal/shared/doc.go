// Package shared holds code used across packages that belongs to no single
// layer. Today that is the testutil subpackage:
//
//   - a capturing slog handler for asserting on structured log output
//   - sales workbook fixtures shared by the pipeline, service and HTTP tests
//
// Nothing here is imported by production code.
package shared
