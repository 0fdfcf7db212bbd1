package utils

import (
	"context"
	"sync"
	"time"
)

// Pinger is any backing service that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// Healthy reports whether every checked service answered.
func (h HealthStatus) Healthy() bool {
	for _, ok := range h.Services {
		if !ok {
			return false
		}
	}
	return true
}

// HealthMonitor keeps the latest health snapshot in memory.
type HealthMonitor struct {
	targets map[string]Pinger

	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(targets map[string]Pinger) *HealthMonitor {
	return &HealthMonitor{targets: targets}
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Check pings every target once and stores the result.
func (m *HealthMonitor) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Services: make(map[string]bool, len(m.targets)), CheckedAt: time.Now()}
	for name, target := range m.targets {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		status.Services[name] = target.Ping(pingCtx) == nil
		cancel()
	}

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
	return status
}

// Start performs periodic health checks until ctx is done.
func (m *HealthMonitor) Start(ctx context.Context, interval time.Duration) {
	m.Check(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}
