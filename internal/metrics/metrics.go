// Package metrics registers the process's Prometheus collectors,
// generalized from the teacher's api_gateway/src/gateway package
// (request counter + duration histogram registered once at startup,
// read later by promhttp.Handler) to the round-loop's own signals:
// round duration, optimizer deadline hits, penalty totals by code, and
// mirror anomaly counts (SPEC_FULL.md §11).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry bundles every collector the orchestrator and its
// subcomponents update, so callers pass one value around instead of
// reaching for prometheus's default global registry directly.
type Registry struct {
	RoundDuration       prometheus.Histogram
	OptimizerDeadlineHits prometheus.Counter
	PenaltyTotal        *prometheus.CounterVec
	MirrorAnomalies     prometheus.Counter
	RoundsCompleted     prometheus.Counter
}

// NewRegistry builds and registers every collector against reg (pass
// prometheus.NewRegistry() in production, a fresh one per test).
func NewRegistry(reg *prometheus.Registry) *Registry {
	m := &Registry{
		RoundDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kitagent_round_duration_seconds",
			Help:    "Wall-clock duration of one orchestrator tick.",
			Buckets: prometheus.DefBuckets,
		}),
		OptimizerDeadlineHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kitagent_optimizer_deadline_hits_total",
			Help: "Number of rounds where the optimizer's search was cut short by its deadline.",
		}),
		PenaltyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitagent_penalty_total",
			Help: "Cumulative penalty amount observed from the evaluation server, by penalty code.",
		}, []string{"code"}),
		MirrorAnomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kitagent_mirror_anomalies_total",
			Help: "Number of MirrorAnomaly warnings absorbed by the state mirror.",
		}),
		RoundsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kitagent_rounds_completed_total",
			Help: "Number of rounds successfully submitted to the evaluation server.",
		}),
	}
	reg.MustRegister(
		m.RoundDuration,
		m.OptimizerDeadlineHits,
		m.PenaltyTotal,
		m.MirrorAnomalies,
		m.RoundsCompleted,
	)
	return m
}
