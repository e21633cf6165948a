// Package services is the application layer between transports and the
// sales pipeline.
//
// AnalysisService validates input, runs the pipeline and renders exports.
// It serves both the HTTP handlers, which work on uploaded readers, and the
// command line tool, which works on paths and batches of paths. Pipeline
// failures are returned unchanged; AsAPIError translates them into API
// errors that name the offending columns, row and value.
//
// HealthService answers liveness, readiness and version probes. Readiness
// is the conjunction of checks registered at wiring time.
package services
