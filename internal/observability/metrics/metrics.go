package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BridgeMetrics exposes counters/histograms for the lookup and submission flows.
type BridgeMetrics struct {
	lookupsTotal     *prometheus.CounterVec
	submissionsTotal *prometheus.CounterVec
	storeLatency     *prometheus.HistogramVec
	storeOpsTotal    *prometheus.CounterVec
}

// Lookup outcomes.
const (
	LookupFound        = "found"
	LookupNotFound     = "not_found"
	LookupInvalidPhone = "invalid_phone"
	LookupError        = "error"
)

// Submission outcomes.
const (
	SubmissionCreated      = "created"
	SubmissionUpdated      = "updated"
	SubmissionInvalid      = "invalid"
	SubmissionInvalidPhone = "invalid_phone"
	SubmissionError        = "error"
)

// NewBridgeMetrics registers the bridge collectors on reg, or on the default
// registerer when reg is nil.
func NewBridgeMetrics(reg prometheus.Registerer) *BridgeMetrics {
	m := &BridgeMetrics{
		lookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contact_bridge",
			Subsystem: "lookup",
			Name:      "requests_total",
			Help:      "Contact lookups by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contact_bridge",
			Subsystem: "pending",
			Name:      "submissions_total",
			Help:      "Pending-contact submissions by schema and outcome",
		}, []string{"schema", "outcome"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "contact_bridge",
			Subsystem: "store",
			Name:      "operation_seconds",
			Help:      "Latency of document store operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "op"}),
		storeOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contact_bridge",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Document store operations by outcome",
		}, []string{"backend", "op", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.lookupsTotal, m.submissionsTotal, m.storeLatency, m.storeOpsTotal)
	return m
}

// ObserveLookup counts one lookup on endpoint with the given outcome.
func (m *BridgeMetrics) ObserveLookup(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.lookupsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// ObserveSubmission counts one submission. An empty schema is recorded as
// "unknown".
func (m *BridgeMetrics) ObserveSubmission(schema, outcome string) {
	if m == nil {
		return
	}
	if schema == "" {
		schema = "unknown"
	}
	m.submissionsTotal.WithLabelValues(schema, outcome).Inc()
}

// ObserveStoreOp satisfies store.OpObserver.
func (m *BridgeMetrics) ObserveStoreOp(backend, op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.storeLatency.WithLabelValues(backend, op).Observe(elapsed.Seconds())
	m.storeOpsTotal.WithLabelValues(backend, op, outcome).Inc()
}
