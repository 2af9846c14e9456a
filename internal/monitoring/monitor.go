package monitoring

import (
	"sync"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/scheduler"
)

// PassSummary describes the most recent scheduling pass
type PassSummary struct {
	GeneratedAt time.Time `json:"generatedAt"`
	TotalItems  int       `json:"totalItems"`
	TotalOrders int       `json:"totalOrders"`
	DurationMs  float64   `json:"durationMs"`
}

// Snapshot is the kitchen health reported to callers
type Snapshot struct {
	UptimeSeconds float64      `json:"uptimeSeconds"`
	OrdersCreated int64        `json:"ordersCreated"`
	StatusUpdates int64        `json:"statusUpdates"`
	LastPass      *PassSummary `json:"lastPass"`
}

// Monitor keeps a live summary of kitchen activity and forwards it to
// the metrics collector when one is attached
type Monitor struct {
	mu            sync.RWMutex
	startTime     time.Time
	lastPass      *PassSummary
	ordersCreated int64
	statusUpdates int64
	collector     *MetricsCollector
}

// NewMonitor creates a new monitoring instance. collector may be nil.
func NewMonitor(collector *MetricsCollector) *Monitor {
	return &Monitor{
		startTime: time.Now(),
		collector: collector,
	}
}

// RecordPass records a finished scheduling pass
func (m *Monitor) RecordPass(plan scheduler.Plan, took time.Duration) {
	m.mu.Lock()
	m.lastPass = &PassSummary{
		GeneratedAt: plan.GeneratedAt,
		TotalItems:  plan.TotalItems,
		TotalOrders: plan.TotalOrders,
		DurationMs:  float64(took) / float64(time.Millisecond),
	}
	m.mu.Unlock()

	if m.collector != nil {
		m.collector.RecordPass(plan, took)
	}
}

// RecordItemStatus records an order line status change
func (m *Monitor) RecordItemStatus(status string) {
	m.mu.Lock()
	m.statusUpdates++
	m.mu.Unlock()

	if m.collector != nil {
		m.collector.RecordItemStatus(status)
	}
}

// RecordOrderCreated records a new order
func (m *Monitor) RecordOrderCreated() {
	m.mu.Lock()
	m.ordersCreated++
	m.mu.Unlock()

	if m.collector != nil {
		m.collector.RecordOrderCreated()
	}
}

// Snapshot returns a copy of the current state
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		UptimeSeconds: time.Since(m.startTime).Seconds(),
		OrdersCreated: m.ordersCreated,
		StatusUpdates: m.statusUpdates,
	}
	if m.lastPass != nil {
		last := *m.lastPass
		snap.LastPass = &last
	}
	return snap
}
