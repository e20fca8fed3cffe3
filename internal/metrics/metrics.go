package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "medtrack_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	storeMutations *prometheus.CounterVec

	monitorScans       *prometheus.CounterVec
	monitorScanLatency prometheus.Histogram
	alertEvents        *prometheus.CounterVec

	reportExports *prometheus.CounterVec
)

// Init registers the service metrics with the default registry. Calling it
// more than once is a no-op; until it is called every recorder does nothing.
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		)
		storeMutations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "store_mutations_total",
				Help: "Total store mutations by collection, operation and outcome",
			},
			[]string{"collection", "op", "outcome"},
		)
		monitorScans = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "monitor_scans_total",
				Help: "Total monitor scans by result",
			},
			[]string{"result"},
		)
		monitorScanLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "monitor_scan_duration_seconds",
				Help:    "Monitor scan latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)
		alertEvents = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alert_events_total",
				Help: "Total alert lifecycle events by type and event",
			},
			[]string{"type", "event"},
		)
		reportExports = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_exports_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			storeMutations,
			monitorScans,
			monitorScanLatency,
			alertEvents,
			reportExports,
		)
	})
}

// ObserveHTTP records one served request.
func ObserveHTTP(route, method, status string, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(route, method, status).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(route, method).Observe(duration.Seconds())
	}
}

// IncMutation counts a store write.
func IncMutation(collection, op, outcome string) {
	if storeMutations != nil {
		storeMutations.WithLabelValues(collection, op, outcome).Inc()
	}
}

// ObserveScan records a monitor scan.
func ObserveScan(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if monitorScans != nil {
		monitorScans.WithLabelValues(result).Inc()
	}
	if monitorScanLatency != nil {
		monitorScanLatency.Observe(duration.Seconds())
	}
}

// IncAlertEvent counts alert lifecycle events (raised, acknowledged, resolved).
func IncAlertEvent(alertType, event string) {
	if event == "" {
		event = "unknown"
	}
	if alertEvents != nil {
		alertEvents.WithLabelValues(alertType, event).Inc()
	}
}

func IncReportExport(format, result string) {
	if result == "" {
		result = ResultSuccess
	}
	if reportExports != nil {
		reportExports.WithLabelValues(format, result).Inc()
	}
}
