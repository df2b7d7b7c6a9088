// Package monitoring collects operation and occupancy metrics for the
// warehouse service and exposes them to Prometheus.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"warespace/internal/models"
)

// Monitor records registry operation outcomes and the live status breakdown
type Monitor struct {
	operations *prometheus.CounterVec
	statuses   *prometheus.GaugeVec
	startTime  time.Time
}

// NewMonitor creates a monitor and registers its collectors with reg
func NewMonitor(reg prometheus.Registerer) *Monitor {
	m := &Monitor{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "warehouse_operations_total",
			Help: "Registry operations by operation and result.",
		}, []string{"op", "result"}),
		statuses: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "warehouse_location_status",
			Help: "Number of locations currently in each status.",
		}, []string{"status"}),
		startTime: time.Now(),
	}
	reg.MustRegister(m.operations, m.statuses)
	return m
}

// RecordOperation counts one registry operation outcome
func (m *Monitor) RecordOperation(op, result string) {
	m.operations.WithLabelValues(op, result).Inc()
}

// SetStatusCounts refreshes the per-status occupancy gauge
func (m *Monitor) SetStatusCounts(counts map[models.LocationStatus]int) {
	for _, status := range []models.LocationStatus{
		models.StatusFree, models.StatusOccupied, models.StatusReserved,
		models.StatusBlocked, models.StatusMaint,
	} {
		m.statuses.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}

// Uptime returns seconds since the monitor was created
func (m *Monitor) Uptime() float64 {
	return time.Since(m.startTime).Seconds()
}
