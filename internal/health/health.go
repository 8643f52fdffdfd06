// Package health provides dependency health monitoring and the HTTP
// status endpoints.
package health

import (
	"context"
	"sync"
	"time"
)

// SystemStatus represents the overall health state of the daemon or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusCritical SystemStatus = "critical"
)

// Check probes one dependency. A nil return means healthy.
type Check func(ctx context.Context) error

// ComponentHealth is the probe result for one dependency.
type ComponentHealth struct {
	Name   string       `json:"name"`
	Status SystemStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
}

// Report contains the full health report.
type Report struct {
	SystemStatus SystemStatus               `json:"system_status"`
	Components   map[string]ComponentHealth `json:"components"`
}

// Monitor runs registered dependency checks on demand.
type Monitor struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewMonitor creates an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{checks: make(map[string]Check)}
}

// Register adds a named dependency check.
func (m *Monitor) Register(name string, check Check) {
	m.mu.Lock()
	m.checks[name] = check
	m.mu.Unlock()
}

// CheckHealth probes every registered dependency. Each probe gets a
// bounded slice of the request context.
func (m *Monitor) CheckHealth(ctx context.Context) Report {
	m.mu.RLock()
	checks := make(map[string]Check, len(m.checks))
	for name, c := range m.checks {
		checks[name] = c
	}
	m.mu.RUnlock()

	report := Report{
		SystemStatus: StatusHealthy,
		Components:   make(map[string]ComponentHealth, len(checks)),
	}

	for name, check := range checks {
		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check(probeCtx)
		cancel()

		ch := ComponentHealth{Name: name, Status: StatusHealthy}
		if err != nil {
			ch.Status = StatusCritical
			ch.Error = err.Error()
			report.SystemStatus = StatusCritical
		}
		report.Components[name] = ch
	}
	return report
}
