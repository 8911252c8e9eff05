// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Sale metrics
	PurchasesTotal     prometheus.Counter
	PurchaseRejections *prometheus.CounterVec
	TokensSold         prometheus.Gauge
	PaymentCollected   prometheus.Gauge
	FinalizationsTotal prometheus.Counter

	// Latency metrics
	PurchaseLatency prometheus.Histogram
	HTTPDuration    *prometheus.HistogramVec

	// Event metrics
	EventsEmitted     *prometheus.CounterVec
	EventSinkErrors   *prometheus.CounterVec
	ActiveSubscribers prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "crowdsale"
	}

	return &Metrics{
		// Sale metrics
		PurchasesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "purchases_total",
			Help:      "Total number of successful purchases",
		}),
		PurchaseRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "purchase_rejections_total",
			Help:      "Total number of rejected purchases by reason",
		}, []string{"reason"}),
		TokensSold: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "tokens_sold",
			Help:      "Cumulative tokens sold in base units",
		}),
		PaymentCollected: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "payment_collected",
			Help:      "Cumulative payment collected in base units",
		}),
		FinalizationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "finalizations_total",
			Help:      "Total number of finalizations (0 or 1)",
		}),

		// Latency metrics
		PurchaseLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "purchase_latency_seconds",
			Help:      "Purchase processing latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "status"}),

		// Event metrics
		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "emitted_total",
			Help:      "Total number of sale events emitted by kind",
		}, []string{"kind"}),
		EventSinkErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "sink_errors_total",
			Help:      "Total number of event sink delivery errors by sink",
		}, []string{"sink"}),
		ActiveSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "active_subscribers",
			Help:      "Current number of WebSocket subscribers",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPurchase records a successful purchase and updates the totals.
func RecordPurchase(tokensSold, paymentCollected uint64, latencySeconds float64) {
	DefaultMetrics.PurchasesTotal.Inc()
	DefaultMetrics.TokensSold.Set(float64(tokensSold))
	DefaultMetrics.PaymentCollected.Set(float64(paymentCollected))
	DefaultMetrics.PurchaseLatency.Observe(latencySeconds)
}

// RecordRejection records a rejected purchase by reason.
func RecordRejection(reason string) {
	DefaultMetrics.PurchaseRejections.WithLabelValues(reason).Inc()
}

// RecordFinalize records a finalization and the final totals.
func RecordFinalize(tokensSold, paymentCollected uint64) {
	DefaultMetrics.FinalizationsTotal.Inc()
	DefaultMetrics.TokensSold.Set(float64(tokensSold))
	DefaultMetrics.PaymentCollected.Set(float64(paymentCollected))
}

// RecordEventEmitted increments the emitted event counter for a kind.
func RecordEventEmitted(kind string) {
	DefaultMetrics.EventsEmitted.WithLabelValues(kind).Inc()
}

// RecordSinkError records an event sink delivery error.
func RecordSinkError(sink string) {
	DefaultMetrics.EventSinkErrors.WithLabelValues(sink).Inc()
}

// UpdateSubscribers updates the WebSocket subscriber gauge.
func UpdateSubscribers(n int) {
	DefaultMetrics.ActiveSubscribers.Set(float64(n))
}

// RecordHTTPRequest records HTTP request duration.
func RecordHTTPRequest(path, status string, seconds float64) {
	DefaultMetrics.HTTPDuration.WithLabelValues(path, status).Observe(seconds)
}
