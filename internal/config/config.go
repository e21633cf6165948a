package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/EbinDavis252/Analysis-of-Bakery/internal/errors"
)

// EnvPrefix is the namespace of every environment variable read by Load
const EnvPrefix = "BAKERY"

// ConfigFileEnv names the variable that points at an explicit YAML file
const ConfigFileEnv = "BAKERY_CONFIG_FILE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// TelemetryConfig controls tracing and metrics
type TelemetryConfig struct {
	ServiceName     string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment     string `yaml:"environment" envconfig:"ENVIRONMENT"`
	TracingExporter string `yaml:"tracing_exporter" envconfig:"TRACING_EXPORTER"`
	MetricsEnabled  bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// AnalysisConfig contains spreadsheet analysis settings
type AnalysisConfig struct {
	HeaderRow        int   `yaml:"header_row" envconfig:"HEADER_ROW"`
	PreviewRows      int   `yaml:"preview_rows" envconfig:"PREVIEW_ROWS"`
	MaxUploadBytes   int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
	BatchConcurrency int   `yaml:"batch_concurrency" envconfig:"BATCH_CONCURRENCY"`
}

// Load builds the configuration from defaults, an optional YAML file and
// BAKERY_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	// Unset variables leave the file and default values untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	switch c.Logging.Output {
	case "console", "stderr", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q", c.Logging.Output)
	}

	if c.Logging.Format != "json" {
		// Only JSON logs are produced
		c.Logging.Format = "json"
	}

	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	switch strings.ToLower(c.Telemetry.TracingExporter) {
	case "stdout", "none", "":
	default:
		return fmt.Errorf("unsupported tracing exporter %q", c.Telemetry.TracingExporter)
	}

	if c.Analysis.HeaderRow < 0 {
		return fmt.Errorf("analysis header row must not be negative: %d", c.Analysis.HeaderRow)
	}

	if c.Analysis.PreviewRows <= 0 || c.Analysis.PreviewRows > MaxPreviewRows {
		return fmt.Errorf("analysis preview rows must be between 1 and %d", MaxPreviewRows)
	}

	if c.Analysis.MaxUploadBytes <= 0 {
		return fmt.Errorf("analysis max upload bytes must be positive")
	}

	if c.Analysis.BatchConcurrency <= 0 {
		return fmt.Errorf("analysis batch concurrency must be positive")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName:     ServiceName,
			Environment:     "development",
			TracingExporter: "none",
			MetricsEnabled:  true,
		},
		Analysis: AnalysisConfig{
			HeaderRow:        DefaultHeaderRow,
			PreviewRows:      DefaultPreviewRows,
			MaxUploadBytes:   DefaultMaxUploadBytes,
			BatchConcurrency: DefaultBatchConcurrency,
		},
	}
}
