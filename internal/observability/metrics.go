package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "finance"

// Metrics holds the service's domain counters. HTTP request metrics are
// collected separately by the fiber prometheus middleware. A nil *Metrics is a no-op.
type Metrics struct {
	errors        *prometheus.CounterVec
	logins        *prometheus.CounterVec
	sweepDeleted  prometheus.Counter
	sweepFailures prometheus.Counter
	sweepSkipped  prometheus.Counter
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Error responses by method and error code.",
		}, []string{"method", "code"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		sweepDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration_sweep",
			Name:      "deleted_users_total",
			Help:      "Unconfirmed users removed by the registration sweep.",
		}),
		sweepFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration_sweep",
			Name:      "failures_total",
			Help:      "Sweep iterations that failed.",
		}),
		sweepSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration_sweep",
			Name:      "skipped_total",
			Help:      "Sweep iterations skipped because another replica held the lease.",
		}),
	}
}

// RecordError increments error counters.
func (m *Metrics) RecordError(method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, code).Inc()
}

// RecordLogin counts a login attempt.
func (m *Metrics) RecordLogin(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

// RecordSweep adds the number of users deleted by one sweep.
func (m *Metrics) RecordSweep(deleted int64) {
	if m == nil || deleted <= 0 {
		return
	}
	m.sweepDeleted.Add(float64(deleted))
}

// RecordSweepFailure counts a failed sweep iteration.
func (m *Metrics) RecordSweepFailure() {
	if m == nil {
		return
	}
	m.sweepFailures.Inc()
}

// RecordSweepSkipped counts an iteration left to another replica.
func (m *Metrics) RecordSweepSkipped() {
	if m == nil {
		return
	}
	m.sweepSkipped.Inc()
}
