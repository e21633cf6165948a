// Package config provides centralized configuration management for the
// bakery sales analysis service and CLI.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BAKERY_<SECTION>_<FIELD>:
//
//	BAKERY_SERVER_PORT=8080
//	BAKERY_LOGGING_LEVEL=debug
//	BAKERY_ANALYSIS_HEADER_ROW=3
//	BAKERY_TELEMETRY_TRACING_EXPORTER=stdout
//
// BAKERY_CONFIG_FILE points at an explicit YAML file. Without it the
// loader looks for config.yaml and configs/config.yaml.
//
// # Sales Sheet Constants
//
// constants.go holds the sales sheet contract: the date and promotion
// column names, the product column set, and the placeholder columns that
// normalization drops.
package config
