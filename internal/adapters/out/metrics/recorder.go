// Package metrics exports authorization and dispatch outcomes to Prometheus.
package metrics

import (
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/order"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dispatch"

// PrometheusRecorder implements ports.DecisionRecorder and also instruments
// background jobs. Labels carry role and permission names only, never actor
// or tenant identifiers.
type PrometheusRecorder struct {
	checks      *prometheus.CounterVec
	transitions *prometheus.CounterVec
	jobRuns     *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	released    prometheus.Counter
}

// NewPrometheusRecorder registers the collectors against registerer. Passing
// prometheus.DefaultRegisterer twice panics, so build it once in the
// composition root.
func NewPrometheusRecorder(registerer prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(registerer)

	return &PrometheusRecorder{
		checks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "authorization_checks_total",
				Help:      "Total number of permission checks by role, permission and outcome",
			},
			[]string{"role", "permission", "outcome"},
		),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "order_transitions_total",
				Help:      "Total number of requested order status transitions by outcome",
			},
			[]string{"role", "from", "to", "outcome"},
		),
		jobRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_runs_total",
				Help:      "Total number of background job runs by job and result",
			},
			[]string{"job", "result"},
		),
		jobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "job_duration_seconds",
				Help:      "Duration of background job runs in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"job"},
		),
		released: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_assignments_released_total",
			Help:      "Total number of orders returned to pending after their assignment went stale",
		}),
	}
}

func (r *PrometheusRecorder) RecordCheck(role access.Role, permission access.Permission, approved bool) {
	outcome := "denied"
	if approved {
		outcome = "approved"
	}
	r.checks.WithLabelValues(role.String(), string(permission), outcome).Inc()
}

func (r *PrometheusRecorder) RecordTransition(role access.Role, from, to order.Status, outcome string) {
	r.transitions.WithLabelValues(role.String(), from.String(), to.String(), outcome).Inc()
}

// ObserveJobRun records one run of a background job.
func (r *PrometheusRecorder) ObserveJobRun(job string, started time.Time, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	r.jobRuns.WithLabelValues(job, result).Inc()
	r.jobDuration.WithLabelValues(job).Observe(time.Since(started).Seconds())
}

// AddReleased counts orders released by the stale assignment job.
func (r *PrometheusRecorder) AddReleased(n int) {
	if n > 0 {
		r.released.Add(float64(n))
	}
}
