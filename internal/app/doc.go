// Package app wires the bakery sales service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, an optional YAML file and BAKERY_* variables
//	2. Initialize logging and OpenTelemetry
//	3. Build the pipeline, file validator and services
//	4. Set up HTTP handlers and middleware
//	5. Configure the HTTP server
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM: in-flight requests are given
// Server.ShutdownTimeout to complete and telemetry is flushed. The package
// never calls os.Exit; errors are returned to main.
package app
