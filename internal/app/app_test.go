package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/config"
	apierrors "github.com/EbinDavis252/Analysis-of-Bakery/internal/errors"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/shared/testutil"
	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

func newTestApplication(t *testing.T, mutate func(*config.Config)) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	cfg := config.Default()
	cfg.Server.Port = 0
	if mutate != nil {
		mutate(cfg)
	}

	app, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.OTelProviders.Shutdown(context.Background())
	})
	return app
}

func uploadRequest(t *testing.T, target string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", "sales.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestNew(t *testing.T) {
	app := newTestApplication(t, nil)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.Metrics)
	assert.NotNil(t, app.Services.Analysis)
	assert.NotNil(t, app.Services.Health)
	assert.Equal(t, ":0", app.Server.Addr)
	assert.Equal(t, app.Config.Server.ReadTimeout, app.Server.ReadTimeout)
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApplication(t, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/api/health", http.StatusOK},
		{"liveness", http.MethodGet, "/api/health/live", http.StatusOK},
		{"readiness", http.MethodGet, "/api/health/ready", http.StatusOK},
		{"version", http.MethodGet, "/api/version", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/forecast", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/api/analysis", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestApplication_NotFoundProblem(t *testing.T) {
	app := newTestApplication(t, nil)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeNotFound, problem["type"])
	assert.Equal(t, rec.Header().Get("X-Request-ID"), problem["trace_id"])
}

func TestApplication_AnalysisEndToEnd(t *testing.T) {
	app := newTestApplication(t, nil)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, uploadRequest(t, "/api/analysis", testutil.DefaultWorkbook(t), nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	var report domain.AnalysisReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 35, report.RecordCount)
	assert.Equal(t, testutil.SalesHeaderRow, report.HeaderRow)
	assert.Equal(t, 30, report.Trend.Window)

	// The run shows up on the scrape endpoint
	metrics := httptest.NewRecorder()
	app.Router.ServeHTTP(metrics, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "analysis_runs")
	assert.Contains(t, metrics.Body.String(), "http_requests")
}

func TestApplication_RateLimit(t *testing.T) {
	app := newTestApplication(t, func(cfg *config.Config) {
		cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	})

	first := httptest.NewRecorder()
	app.Router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	second := httptest.NewRecorder()
	app.Router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Scrapes are not rate limited
	scrape := httptest.NewRecorder()
	app.Router.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, scrape.Code)
}

func TestApplication_MetricsDisabled(t *testing.T) {
	app := newTestApplication(t, func(cfg *config.Config) {
		cfg.Telemetry.MetricsEnabled = false
	})

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestApplication_StartStop(t *testing.T) {
	app := newTestApplication(t, func(cfg *config.Config) {
		cfg.Server.ShutdownTimeout = 2 * time.Second
	})
	app.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	assert.NoError(t, app.Stop(context.Background()))
}
