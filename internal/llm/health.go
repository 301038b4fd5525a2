package llm

import (
	"context"
	"sync"
	"time"
)

// Health states
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus is the outcome of the most recent probe of a provider
type HealthStatus struct {
	Provider  string        `json:"provider" yaml:"provider"`
	Status    string        `json:"status" yaml:"status"`
	Latency   time.Duration `json:"latency" yaml:"latency"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	LastCheck time.Time     `json:"last_check" yaml:"last_check"`
}

// Healthy reports whether the last probe succeeded
func (h HealthStatus) Healthy() bool {
	return h.Status == StatusHealthy
}

// HealthMonitor probes providers with a tiny structured request and
// remembers the latest result per provider
type HealthMonitor struct {
	mu       sync.RWMutex
	statuses map[string]HealthStatus
	now      func() time.Time
}

// NewHealthMonitor creates an empty monitor
func NewHealthMonitor() *HealthMonitor {
	return &HealthMonitor{
		statuses: make(map[string]HealthStatus),
		now:      time.Now,
	}
}

// Check runs one probe through s and records the result.
// s should not carry a cache or a stale answer masks an outage.
func (m *HealthMonitor) Check(ctx context.Context, s *Structurer) HealthStatus {
	status := HealthStatus{
		Provider:  s.ProviderName(),
		LastCheck: m.now(),
	}

	start := time.Now()
	var probe HealthCheck
	err := s.Generate(ctx, "Return status 'healthy'.", &probe)
	if err != nil {
		status.Status = StatusUnhealthy
		status.Error = err.Error()
	} else {
		status.Status = StatusHealthy
		status.Latency = time.Since(start)
	}

	m.mu.Lock()
	m.statuses[status.Provider] = status
	m.mu.Unlock()

	return status
}

// Status returns the last recorded status for a provider
func (m *HealthMonitor) Status(provider string) (HealthStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status, ok := m.statuses[provider]
	return status, ok
}
