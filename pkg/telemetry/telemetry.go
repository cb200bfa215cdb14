// Package telemetry exposes process-local Prometheus counters for
// engine and sweep/matrix activity: ticks processed, agent actions
// attempted/succeeded/failed, and sweep/matrix rounds completed. These
// counters are observability only — nothing in the core reads them back,
// so their presence or absence never affects artifact bytes.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/model"
)

// Registry bundles the metrics this module exposes, so a caller (the CLI
// or a sweep/matrix runner) can register one set per process without
// colliding with prometheus's default global registry.
type Registry struct {
	reg *prometheus.Registry

	TicksProcessed   prometheus.Counter
	ActionsAttempted prometheus.Counter
	ActionsSucceeded prometheus.Counter
	ActionsFailed    prometheus.Counter
	RunsCompleted    *prometheus.CounterVec
}

// NewRegistry builds and registers a fresh set of counters.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		TicksProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentforge_ticks_processed_total",
			Help: "Total number of simulation ticks processed.",
		}),
		ActionsAttempted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentforge_actions_attempted_total",
			Help: "Total number of agent actions attempted.",
		}),
		ActionsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentforge_actions_succeeded_total",
			Help: "Total number of agent actions that succeeded.",
		}),
		ActionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentforge_actions_failed_total",
			Help: "Total number of agent actions that failed.",
		}),
		RunsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agentforge_runs_completed_total",
			Help: "Total number of sweep/matrix runs completed, labeled by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(r.TicksProcessed, r.ActionsAttempted, r.ActionsSucceeded, r.ActionsFailed, r.RunsCompleted)
	return r
}

// Handler returns an http.Handler suitable for mounting an opt-in local
// /metrics endpoint from the sweep/matrix orchestrator's fan-out.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// RecordRun increments RunsCompleted for outcome ("passed" or "failed" from
// the sweep/matrix runners); an outcome that is not a valid Prometheus
// label value is recorded as "other".
func (r *Registry) RecordRun(outcome string) {
	lv := model.LabelValue(outcome)
	if !lv.IsValid() {
		outcome = "other"
	}
	r.RunsCompleted.WithLabelValues(outcome).Inc()
}
