package config

import "time"

// Application constants
const (
	AppName     = "Bakery Sales Analysis"
	ServiceName = "bakery-sales"

	// HTTP
	DefaultRequestTimeout = 60 * time.Second
	DefaultRateLimit      = 20 // requests per second
	DefaultBurstSize      = 40

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/bakery.log"

	// Analysis
	DefaultHeaderRow        = 3 // 0-based; the sheet carries a three row banner
	DefaultPreviewRows      = 10
	MaxPreviewRows          = 500
	DefaultMaxUploadBytes   = 32 << 20
	DefaultBatchConcurrency = 4
	RollingWindow           = 30
)

// Sales sheet columns
const (
	DateColumn      = "Date"
	PromotionColumn = "promotion"
)

// ProductColumns lists the product columns every sales sheet must carry,
// in reporting order.
var ProductColumns = []string{"Cakes", "Pies", "Cookies", "Smoothies", "Coffee"}

// DropColumnMarkers are substrings (case-insensitive) of column names
// produced by spreadsheet tools for blank header cells.
var DropColumnMarkers = []string{"unnamed"}

// DropColumns are known non-data columns removed during normalization
var DropColumns = []string{"daywk"}

// SupportedExtensions lists the spreadsheet formats accepted for analysis
var SupportedExtensions = []string{".xlsx", ".xlsm", ".xls", ".csv"}
