package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/shared/testutil"
	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts"
)

func TestHealthService_HealthAndLiveness(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("0.3.0", "", "", logger)

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, StatusOK, health.Status)
	assert.Equal(t, "0.3.0", health.Version)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, StatusAlive, live.Status)
	assert.Contains(t, live.Runtime, "goroutines")
	assert.Contains(t, live.Runtime, "go_version")
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	ready := func(context.Context) ServiceHealth { return ServiceHealth{Status: StatusReady} }
	down := func(context.Context) ServiceHealth {
		return ServiceHealth{Status: StatusNotReady, Message: "meter provider not initialized"}
	}

	tests := []struct {
		name       string
		checks     map[string]HealthCheckFunc
		wantStatus string
	}{
		{name: "no checks", checks: nil, wantStatus: StatusReady},
		{name: "all ready", checks: map[string]HealthCheckFunc{"pipeline": ready, "metrics": ready}, wantStatus: StatusReady},
		{name: "one not ready", checks: map[string]HealthCheckFunc{"pipeline": ready, "metrics": down}, wantStatus: StatusNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			hs := NewHealthService("0.3.0", "", "", logger)
			for name, check := range tt.checks {
				hs.RegisterCheck(name, check)
			}

			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Len(t, status.Services, len(tt.checks))
			if tt.wantStatus == StatusNotReady {
				assert.Equal(t, "meter provider not initialized", status.Services["metrics"].Message)
				testutil.AssertLogContains(t, logs, slog.LevelWarn, "Readiness check failed")
			}
		})
	}
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService("0.3.0", "2024-05-01T00:00:00Z", "abc123", nil)

	info := hs.Version()

	require.Equal(t, "0.3.0", info["version"])
	assert.Equal(t, "2024-05-01T00:00:00Z", info["build_time"])
	assert.Equal(t, "abc123", info["build_id"])
	assert.Equal(t, false, info["prerelease"])
	assert.Equal(t, contracts.APIVersion, info["api_version"])

	bare := NewHealthService("0.3.0", "", "", nil).Version()
	assert.NotContains(t, bare, "build_time")
	assert.NotContains(t, bare, "build_id")
}
