package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PredictionMetrics records prediction engine activity.
type PredictionMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string, tournamentID string)
	RecordOperationSuccess(ctx context.Context, operation string, tournamentID string)
	RecordOperationFailure(ctx context.Context, operation string, tournamentID string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordPredictionSubmitted(ctx context.Context, tournamentID string)
	RecordPredictionRejected(ctx context.Context, tournamentID string, reason string)
	RecordDefaultsApplied(ctx context.Context, tournamentID string, count int)
	RecordMatchdayScored(ctx context.Context, tournamentID string, participants int)
}

type prometheusMetrics struct {
	attempts    *prometheus.CounterVec
	successes   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	submitted   *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	defaults    *prometheus.CounterVec
	scoredTotal *prometheus.CounterVec
}

// NewPredictionMetrics registers the prediction collectors on registry.
func NewPredictionMetrics(registry prometheus.Registerer, prefix string) PredictionMetrics {
	ns := prefix
	if ns == "" {
		ns = "matchday"
	}

	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "prediction", Name: "operation_attempts_total",
			Help: "Service operations started.",
		}, []string{"operation", "tournament_id"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "prediction", Name: "operation_success_total",
			Help: "Service operations that completed.",
		}, []string{"operation", "tournament_id"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "prediction", Name: "operation_failure_total",
			Help: "Service operations that returned an error.",
		}, []string{"operation", "tournament_id"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "prediction", Name: "operation_duration_seconds",
			Help:    "Service operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "prediction", Name: "submitted_total",
			Help: "Predictions accepted.",
		}, []string{"tournament_id"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "prediction", Name: "rejected_total",
			Help: "Predictions refused, by reason.",
		}, []string{"tournament_id", "reason"}),
		defaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "prediction", Name: "defaults_applied_total",
			Help: "Default predictions persisted by the admin action.",
		}, []string{"tournament_id"}),
		scoredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "matchday", Name: "scored_participants_total",
			Help: "Participant aggregates published for finished matchdays.",
		}, []string{"tournament_id"}),
	}

	if registry != nil {
		registry.MustRegister(m.attempts, m.successes, m.failures, m.durations,
			m.submitted, m.rejected, m.defaults, m.scoredTotal)
	}
	return m
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation, tournamentID string) {
	m.attempts.WithLabelValues(operation, tournamentID).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation, tournamentID string) {
	m.successes.WithLabelValues(operation, tournamentID).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation, tournamentID string) {
	m.failures.WithLabelValues(operation, tournamentID).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordPredictionSubmitted(_ context.Context, tournamentID string) {
	m.submitted.WithLabelValues(tournamentID).Inc()
}

func (m *prometheusMetrics) RecordPredictionRejected(_ context.Context, tournamentID, reason string) {
	m.rejected.WithLabelValues(tournamentID, reason).Inc()
}

func (m *prometheusMetrics) RecordDefaultsApplied(_ context.Context, tournamentID string, count int) {
	m.defaults.WithLabelValues(tournamentID).Add(float64(count))
}

func (m *prometheusMetrics) RecordMatchdayScored(_ context.Context, tournamentID string, participants int) {
	m.scoredTotal.WithLabelValues(tournamentID).Add(float64(participants))
}

// NoOpMetrics satisfies PredictionMetrics without recording anything.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string)         {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string)         {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string)         {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordPredictionSubmitted(context.Context, string)              {}
func (NoOpMetrics) RecordPredictionRejected(context.Context, string, string)       {}
func (NoOpMetrics) RecordDefaultsApplied(context.Context, string, int)             {}
func (NoOpMetrics) RecordMatchdayScored(context.Context, string, int)              {}
