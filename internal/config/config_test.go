package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/EbinDavis252/Analysis-of-Bakery/internal/errors"
)

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars and no file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, DefaultHeaderRow, cfg.Analysis.HeaderRow)
				assert.Equal(t, DefaultPreviewRows, cfg.Analysis.PreviewRows)
				assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Analysis.MaxUploadBytes)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)
			},
		},
		{
			name: "env vars override defaults",
			env: map[string]string{
				"BAKERY_SERVER_PORT":         "9090",
				"BAKERY_ANALYSIS_HEADER_ROW": "0",
				"BAKERY_LOGGING_LEVEL":       "debug",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 0, cfg.Analysis.HeaderRow)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "file overlays defaults",
			fileContent: `
server:
  port: 7070
analysis:
  preview_rows: 25
  batch_concurrency: 2
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 25, cfg.Analysis.PreviewRows)
				assert.Equal(t, 2, cfg.Analysis.BatchConcurrency)
				// Untouched keys keep defaults
				assert.Equal(t, DefaultHeaderRow, cfg.Analysis.HeaderRow)
			},
		},
		{
			name:        "env takes precedence over file",
			env:         map[string]string{"BAKERY_SERVER_PORT": "6060"},
			fileContent: "server:\n  port: 7070\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 6060, cfg.Server.Port)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"BAKERY_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "negative header row",
			env:     map[string]string{"BAKERY_ANALYSIS_HEADER_ROW": "-1"},
			wantErr: true,
		},
		{
			name:    "unknown tracing exporter",
			env:     map[string]string{"BAKERY_TELEMETRY_TRACING_EXPORTER": "jaeger"},
			wantErr: true,
		},
		{
			name:        "malformed yaml",
			fileContent: "server: [port",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.fileContent != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.fileContent), 0o600))
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				require.Error(t, err)
				var appErr *apperrors.AppError
				assert.True(t, errors.As(err, &appErr))
				assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
				return
			}

			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ExplicitFileEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bakery.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  header_row: 1\n"), 0o600))
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Analysis.HeaderRow)
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, []string{"Cakes", "Pies", "Cookies", "Smoothies", "Coffee"}, ProductColumns)
}

func TestValidate_FilePathFilledForFileOutput(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = ""
	cfg.Logging.Format = "text"

	require.NoError(t, cfg.validate())
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
	assert.Equal(t, "json", cfg.Logging.Format)
}
