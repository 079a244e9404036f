// Package metrics exposes prometheus collectors for the registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dtroode/landregistry-server/internal/model"
)

// Metrics holds the registry collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	purchases           *prometheus.CounterVec
	purchaseDuration    *prometheus.HistogramVec
	ledgerVerifications *prometheus.CounterVec
	ledgerLatency       prometheus.Histogram
	registrations       *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		purchases: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landregistry_purchases_total",
			Help: "Purchase attempts by final state and rejection reason",
		}, []string{"state", "reason"}),
		purchaseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "landregistry_purchase_duration_seconds",
			Help:    "Time from purchase request to commit or rejection",
			Buckets: prometheus.DefBuckets,
		}, []string{"state"}),
		ledgerVerifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landregistry_ledger_verifications_total",
			Help: "Ledger verification calls by outcome",
		}, []string{"outcome"}),
		ledgerLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "landregistry_ledger_verification_duration_seconds",
			Help:    "Latency of single ledger verification calls",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landregistry_registrations_total",
			Help: "Registered entities by kind",
		}, []string{"kind"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landregistry_http_requests_total",
			Help: "HTTP requests by route pattern and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "landregistry_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) ObservePurchase(state model.TransferState, reason string, d time.Duration) {
	if m == nil {
		return
	}
	m.purchases.WithLabelValues(string(state), reason).Inc()
	m.purchaseDuration.WithLabelValues(string(state)).Observe(d.Seconds())
}

func (m *Metrics) ObserveLedgerVerification(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ledgerVerifications.WithLabelValues(outcome).Inc()
	m.ledgerLatency.Observe(d.Seconds())
}

// IncRegistration counts a new user or parcel.
func (m *Metrics) IncRegistration(kind string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
