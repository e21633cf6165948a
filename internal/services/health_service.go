package services

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts"
)

// Health statuses
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthCheckFunc reports the readiness of one dependency
type HealthCheckFunc func(ctx context.Context) ServiceHealth

// HealthService answers health, readiness, liveness and version probes
type HealthService struct {
	version   string
	buildTime string
	buildID   string
	startTime time.Time
	logger    *slog.Logger

	mu     sync.RWMutex
	checks map[string]HealthCheckFunc
}

// NewHealthService creates a health service with build information
func NewHealthService(version, buildTime, buildID string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		buildID:   buildID,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
		checks:    make(map[string]HealthCheckFunc),
	}
}

// RegisterCheck adds a named readiness check, replacing any with that name
func (hs *HealthService) RegisterCheck(name string, check HealthCheckFunc) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.checks[name] = check
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck runs every registered check. The service is ready only
// when all of them are.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	hs.mu.RLock()
	checks := make(map[string]HealthCheckFunc, len(hs.checks))
	names := make([]string, 0, len(hs.checks))
	for name, check := range hs.checks {
		checks[name] = check
		names = append(names, name)
	}
	hs.mu.RUnlock()
	sort.Strings(names)

	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]ServiceHealth, len(names)),
	}
	for _, name := range names {
		result := checks[name](ctx)
		status.Services[name] = result
		if result.Status != StatusReady {
			status.Status = StatusNotReady
			hs.logger.WarnContext(ctx, "Readiness check failed",
				slog.String("check", name),
				slog.String("message", result.Message))
		}
	}
	return status
}

// LivenessCheck returns liveness status with runtime details
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"prerelease":   contracts.IsPrerelease(),
		"api_version":  contracts.APIVersion,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.buildID != "" {
		result["build_id"] = hs.buildID
	}
	return result
}
