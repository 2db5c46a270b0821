package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// HealthStatus represents the overall health of the system.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentStatus represents the health of an individual component.
type ComponentStatus string

const (
	ComponentStatusUp       ComponentStatus = "up"
	ComponentStatusDown     ComponentStatus = "down"
	ComponentStatusDegraded ComponentStatus = "degraded"
)

// Health is the complete health check response.
type Health struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth describes one system component.
type ComponentHealth struct {
	Status    ComponentStatus `json:"status"`
	Message   string          `json:"message,omitempty"`
	LatencyMs float64         `json:"latency_ms,omitempty"`
	Details   any             `json:"details,omitempty"`
}

// PageDetails reports the published page's current state.
type PageDetails struct {
	Published bool      `json:"published"`
	SizeBytes int64     `json:"size_bytes,omitempty"`
	Modified  time.Time `json:"modified,omitempty"`
}

// HandleHealth provides the detailed health check endpoint.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.checkHealth()

	statusCode := http.StatusOK
	if health.Status == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(health)
}

// HandleReady provides a readiness probe: can we reach the target
// directory?
func (s *Server) HandleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(filepath.Dir(s.cfg.Store.Path())); err != nil {
		http.Error(w, `{"status":"not_ready","message":"target directory unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleLive provides a liveness probe.
func (s *Server) HandleLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
	})
}

// checkHealth runs all component checks and aggregates them.
func (s *Server) checkHealth() Health {
	health := Health{
		Timestamp:  time.Now(),
		Version:    s.cfg.Build.Version,
		Components: make(map[string]ComponentHealth),
	}

	health.Components["storage"] = s.checkStorageHealth()
	if s.cfg.Mirror != nil {
		health.Components["mirror"] = s.checkMirrorHealth()
	}

	health.Status = overallHealth(health.Components)
	return health
}

// checkStorageHealth verifies the target directory is reachable and
// reports the published page's state.
func (s *Server) checkStorageHealth() ComponentHealth {
	if _, err := os.Stat(filepath.Dir(s.cfg.Store.Path())); err != nil {
		return ComponentHealth{
			Status:  ComponentStatusDown,
			Message: "target directory unavailable: " + err.Error(),
		}
	}

	exists, size, modTime, err := s.cfg.Store.Stat()
	if err != nil {
		return ComponentHealth{
			Status:  ComponentStatusDegraded,
			Message: "could not stat target file: " + err.Error(),
		}
	}

	details := PageDetails{Published: exists}
	message := "no page published yet"
	if exists {
		details.SizeBytes = size
		details.Modified = modTime
		message = "storage healthy"
	}

	return ComponentHealth{
		Status:  ComponentStatusUp,
		Message: message,
		Details: details,
	}
}

// checkMirrorHealth checks connectivity to the mirror bucket.
func (s *Server) checkMirrorHealth() ComponentHealth {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The publish path succeeds without the mirror, so an unreachable
	// mirror degrades the system rather than taking it down.
	if err := s.cfg.Mirror.Check(ctx); err != nil {
		return ComponentHealth{
			Status:  ComponentStatusDegraded,
			Message: "mirror unavailable: " + err.Error(),
		}
	}

	latency := time.Since(start).Milliseconds()

	status := ComponentStatusUp
	message := "mirror healthy"
	if latency > 2000 {
		status = ComponentStatusDegraded
		message = "mirror latency high"
	}

	return ComponentHealth{
		Status:    status,
		Message:   message,
		LatencyMs: float64(latency),
	}
}

// overallHealth folds component statuses into one system status.
func overallHealth(components map[string]ComponentHealth) HealthStatus {
	var downCount, degradedCount int

	for _, component := range components {
		switch component.Status {
		case ComponentStatusDown:
			downCount++
		case ComponentStatusDegraded:
			degradedCount++
		}
	}

	if downCount > 0 {
		return HealthStatusUnhealthy
	}
	if degradedCount > 0 {
		return HealthStatusDegraded
	}
	return HealthStatusHealthy
}
