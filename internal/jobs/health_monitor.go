// Package jobs runs background work on cron schedules.
package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const checkTimeout = 5 * time.Second

// Check probes one dependency; a nil error means healthy
type Check func(ctx context.Context) error

// Status is the outcome of the last probe of one dependency
type Status struct {
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// HealthMonitor probes the database (and Redis when configured) on a cron
// schedule and keeps the latest result for the health endpoint
type HealthMonitor struct {
	cron     *cron.Cron
	schedule string
	checks   map[string]Check
	now      func() time.Time

	mu     sync.RWMutex
	status map[string]Status
}

// NewHealthMonitor creates a monitor; schedule uses cron syntax or
// descriptors such as "@every 1m"
func NewHealthMonitor(schedule string, checks map[string]Check) *HealthMonitor {
	return &HealthMonitor{
		cron:     cron.New(),
		schedule: schedule,
		checks:   checks,
		now:      time.Now,
		status:   make(map[string]Status, len(checks)),
	}
}

// Start runs a first probe synchronously and then schedules the rest
func (m *HealthMonitor) Start() error {
	m.RunOnce(context.Background())

	if _, err := m.cron.AddFunc(m.schedule, func() {
		m.RunOnce(context.Background())
	}); err != nil {
		return err
	}
	m.cron.Start()
	log.Printf("✅ Health monitor started [%s]", m.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running probe
func (m *HealthMonitor) Stop() {
	<-m.cron.Stop().Done()
	log.Println("🛑 Health monitor stopped")
}

// RunOnce probes every dependency now
func (m *HealthMonitor) RunOnce(ctx context.Context) {
	for name, check := range m.checks {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := check(checkCtx)
		cancel()

		st := Status{Healthy: err == nil, CheckedAt: m.now()}
		if err != nil {
			st.Error = err.Error()
			log.Printf("⚠️ Health check %s failed: %v", name, err)
		}

		m.mu.Lock()
		m.status[name] = st
		m.mu.Unlock()
	}
}

// Snapshot returns a copy of the latest statuses and whether all are healthy.
// A dependency that was never probed counts as unhealthy.
func (m *HealthMonitor) Snapshot() (map[string]Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Status, len(m.checks))
	healthy := true
	for name := range m.checks {
		st, ok := m.status[name]
		if !ok || !st.Healthy {
			healthy = false
		}
		out[name] = st
	}
	return out, healthy
}
