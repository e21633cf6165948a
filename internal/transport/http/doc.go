// Package http implements the HTTP handlers of the bakery sales service.
// Handlers stay thin: they parse the multipart upload and its form fields,
// call the analysis service and render the result.
//
// # Endpoints
//
//	POST /api/analysis          analysis report as JSON
//	POST /api/analysis/preview  first rows of the sheet, uninterpreted
//	POST /api/analysis/export   XLSX workbook or single-view CSV attachment
//	GET  /api/health[/live|/ready], /api/version
//	GET  /metrics
//
// Every upload endpoint takes the spreadsheet in the "file" field. Errors
// are RFC 7807 problem documents; pipeline failures carry the offending
// columns, row and value as extension members.
package http
