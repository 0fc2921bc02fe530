package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	activations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_activations_total",
			Help: "Customer activation attempts by result",
		},
		[]string{"result"},
	)

	deactivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_deactivations_total",
			Help: "Customer deactivations, labelled by whether the lead status was reverted",
		},
		[]string{"status_reverted"},
	)

	reportCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_report_cache_lookups_total",
			Help: "Campaign detail cache lookups by result",
		},
		[]string{"result"},
	)

	notificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_notifications_published_total",
			Help: "Notifications handed to the broker",
		},
		[]string{"kind", "result"},
	)
)

func ObserveHTTP(method, route string, status int, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordActivation takes "ok" or the business rule code that rejected it.
func RecordActivation(result string) {
	activations.WithLabelValues(result).Inc()
}

func RecordDeactivation(statusReverted bool) {
	deactivations.WithLabelValues(strconv.FormatBool(statusReverted)).Inc()
}

// RecordCacheLookup takes "hit", "miss" or "error".
func RecordCacheLookup(result string) {
	reportCacheLookups.WithLabelValues(result).Inc()
}

func RecordNotification(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	notificationsPublished.WithLabelValues(kind, result).Inc()
}
