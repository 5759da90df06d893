package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floorplan_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "floorplan_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// TableOperationsCounter counts table mutations by operation and result.
	TableOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floorplan_table_operations_total",
			Help: "Table mutations by operation and result",
		},
		[]string{"operation", "result"},
	)

	BatchPositionSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "floorplan_batch_position_updates",
			Help:    "Number of tables per batch position update",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	LayoutCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floorplan_layout_cache_lookups_total",
			Help: "Zone layout cache lookups by result",
		},
		[]string{"result"},
	)

	FloorSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "floorplan_ws_subscribers",
			Help: "Connected floor event websocket clients",
		},
	)
)

func ObserveTableOperation(op string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	TableOperationsCounter.WithLabelValues(op, result).Inc()
}
