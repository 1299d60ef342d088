// Package metrics provides Prometheus metrics for the contribution agent.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the agent.
type Metrics struct {
	DiscoveryRunsTotal   *prometheus.CounterVec
	RepositoriesScored   prometheus.Counter
	OpportunitiesTotal   *prometheus.CounterVec
	GitHubRequestsTotal  *prometheus.CounterVec
	GitHubRetriesTotal   prometheus.Counter
	SimulationsTotal     *prometheus.CounterVec
	SimulationDuration   prometheus.Histogram
	FeedbackEventsTotal  *prometheus.CounterVec
	SubmissionsTotal     *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		DiscoveryRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contrib_discovery_runs_total",
				Help: "Total discovery runs by result.",
			},
			[]string{"result"},
		),
		RepositoriesScored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "contrib_repositories_scored_total",
				Help: "Total repositories that passed filters and were scored.",
			},
		),
		OpportunitiesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contrib_opportunities_total",
				Help: "Opportunities by contribution type and filter outcome.",
			},
			[]string{"type", "outcome"},
		),
		GitHubRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contrib_github_requests_total",
				Help: "GitHub API requests by operation and status.",
			},
			[]string{"operation", "status"},
		),
		GitHubRetriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "contrib_github_retries_total",
				Help: "GitHub API calls that needed at least one retry.",
			},
		),
		SimulationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contrib_simulations_total",
				Help: "Lifecycle simulations by terminal status.",
			},
			[]string{"status"},
		),
		SimulationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "contrib_simulation_days",
				Help:    "Simulated days to resolution.",
				Buckets: []float64{1, 2, 3, 5, 7, 14, 21},
			},
		),
		FeedbackEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contrib_feedback_events_total",
				Help: "Recorded feedback events by contribution type and success.",
			},
			[]string{"type", "success"},
		),
		SubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contrib_submissions_total",
				Help: "Contribution submissions by stage and result.",
			},
			[]string{"stage", "result"},
		),
		registry: reg,
	}

	reg.MustRegister(m.DiscoveryRunsTotal)
	reg.MustRegister(m.RepositoriesScored)
	reg.MustRegister(m.OpportunitiesTotal)
	reg.MustRegister(m.GitHubRequestsTotal)
	reg.MustRegister(m.GitHubRetriesTotal)
	reg.MustRegister(m.SimulationsTotal)
	reg.MustRegister(m.SimulationDuration)
	reg.MustRegister(m.FeedbackEventsTotal)
	reg.MustRegister(m.SubmissionsTotal)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
