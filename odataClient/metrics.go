package odataClient

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records request counts and durations. It is safe for concurrent use.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates metrics on a private registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

// NewMetricsWithRegistry creates metrics registered with registerer.
func NewMetricsWithRegistry(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		requestsTotal: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "odata_requests_total",
				Help: "Total number of OData requests made",
			},
			[]string{"method", "status_code"},
		),
		requestDuration: promauto.With(registerer).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "odata_request_duration_seconds",
				Help:    "Duration of OData requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
	if registry, ok := registerer.(*prometheus.Registry); ok {
		metrics.registry = registry
	}
	return metrics
}

// RecordRequest records one request. A status of zero means no response was received.
func (metrics *Metrics) RecordRequest(method string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	metrics.requestsTotal.WithLabelValues(method, status).Inc()
	metrics.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// Registry returns the registry the metrics were created on, or nil for a foreign registerer.
func (metrics *Metrics) Registry() *prometheus.Registry {
	return metrics.registry
}
