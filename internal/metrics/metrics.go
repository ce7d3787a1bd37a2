// Package metrics provides Prometheus collectors for the gateway.
// A nil *Metrics is valid and records nothing, which keeps tests free of registries.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names.
const (
	MetricSupplierRequestsTotal   = "supplier_gateway_supplier_requests_total"
	MetricSupplierRequestDuration = "supplier_gateway_supplier_request_duration_seconds"
	MetricUnpricedLinesTotal      = "supplier_gateway_unpriced_lines_total"
	MetricCredentialLookupsTotal  = "supplier_gateway_credential_lookups_total"
)

// Credential lookup results.
const (
	CredentialHit   = "hit"
	CredentialMiss  = "miss"
	CredentialError = "error"
)

// Metrics holds the gateway's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	supplierRequests  *prometheus.CounterVec
	supplierDuration  *prometheus.HistogramVec
	unpricedLines     *prometheus.CounterVec
	credentialLookups *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		supplierRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricSupplierRequestsTotal,
			Help: "Supplier pricing and order calls by outcome.",
		}, []string{"supplier", "action", "environment", "outcome"}),
		supplierDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricSupplierRequestDuration,
			Help:    "Latency of supplier pricing and order calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"supplier", "action"}),
		unpricedLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricUnpricedLinesTotal,
			Help: "Cart lines a supplier returned without a price.",
		}, []string{"supplier"}),
		credentialLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricCredentialLookupsTotal,
			Help: "Credential cache lookups by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.supplierRequests,
		m.supplierDuration,
		m.unpricedLines,
		m.credentialLookups,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveSupplierCall records one pricing or order call.
func (m *Metrics) ObserveSupplierCall(supplier, action, environment string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.supplierRequests.WithLabelValues(supplier, action, environment, outcome).Inc()
	m.supplierDuration.WithLabelValues(supplier, action).Observe(elapsed.Seconds())
}

// AddUnpricedLines records per-line pricing failures.
func (m *Metrics) AddUnpricedLines(supplier string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.unpricedLines.WithLabelValues(supplier).Add(float64(n))
}

// ObserveCredential records a credential cache lookup result.
func (m *Metrics) ObserveCredential(result string) {
	if m == nil {
		return
	}
	m.credentialLookups.WithLabelValues(result).Inc()
}
