package monitoring

import (
	"net/http"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector handles metrics collection and reporting
type MetricsCollector struct {
	registry *prometheus.Registry
	metrics  map[string]prometheus.Collector
}

// NewMetricsCollector creates a collector with its own registry
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	passDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "thunderbolts_cooking_sequence_duration_seconds",
			Help:    "Time taken to build a cooking plan",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	pendingItems := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "thunderbolts_cooking_sequence_items",
			Help: "Order lines waiting on the kitchen in the latest plan",
		},
	)

	stationBacklog := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "thunderbolts_station_backlog_minutes",
			Help: "Projected minutes of work queued per station",
		},
		[]string{"station"},
	)

	statusUpdates := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thunderbolts_item_status_updates_total",
			Help: "Order line status changes by target status",
		},
		[]string{"status"},
	)

	ordersCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "thunderbolts_orders_created_total",
			Help: "Orders accepted from the floor",
		},
	)

	metrics := map[string]prometheus.Collector{
		"pass_duration":   passDuration,
		"pending_items":   pendingItems,
		"station_backlog": stationBacklog,
		"status_updates":  statusUpdates,
		"orders_created":  ordersCreated,
	}

	for _, metric := range metrics {
		registry.MustRegister(metric)
	}

	return &MetricsCollector{
		registry: registry,
		metrics:  metrics,
	}
}

// RecordPass records the outcome of one scheduling pass
func (mc *MetricsCollector) RecordPass(plan scheduler.Plan, took time.Duration) {
	mc.metrics["pass_duration"].(prometheus.Histogram).Observe(took.Seconds())
	mc.metrics["pending_items"].(prometheus.Gauge).Set(float64(plan.TotalItems))

	backlog := mc.metrics["station_backlog"].(*prometheus.GaugeVec)
	for _, station := range scheduler.Stations {
		backlog.WithLabelValues(string(station)).Set(float64(plan.EstimatedTimes[station].TotalTime))
	}
}

// RecordItemStatus counts an order line status change
func (mc *MetricsCollector) RecordItemStatus(status string) {
	mc.metrics["status_updates"].(*prometheus.CounterVec).WithLabelValues(status).Inc()
}

// RecordOrderCreated counts a new order
func (mc *MetricsCollector) RecordOrderCreated() {
	mc.metrics["orders_created"].(prometheus.Counter).Inc()
}

// Registry exposes the underlying registry
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// Handler serves the registry in the Prometheus exposition format
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{Registry: mc.registry})
}
