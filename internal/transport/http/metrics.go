// Package http exposes the pipeline over HTTP: a multipart upload
// endpoint that cleans and aligns a table in memory and streams the
// result back as CSV, plus health and Prometheus metrics endpoints.
package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the pipeline endpoint.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RowsProcessed   prometheus.Counter
	ProcessDuration prometheus.Histogram
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adapter_pipeline_requests_total",
			Help: "Pipeline requests by outcome.",
		}, []string{"status"}),
		RowsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "adapter_pipeline_rows_processed_total",
			Help: "Data rows written back to clients.",
		}),
		ProcessDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "adapter_pipeline_duration_seconds",
			Help:    "Time spent cleaning and aligning one upload.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
