package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SolveOutcomes counts solves by outcome (ok, infeasible, time_limit, invalid, error).
	SolveOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solver_solves_total", Help: "Solves by outcome."},
		[]string{"outcome"},
	)
	// SolveDuration records wall-clock solve time in seconds.
	SolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "solver_solve_duration_seconds", Help: "Solve wall-clock time in seconds.", Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}},
	)
	// SearchIterations records improvement iterations per solve.
	SearchIterations = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "solver_search_iterations", Help: "Improvement iterations per solve.", Buckets: prometheus.ExponentialBuckets(1, 4, 10)},
	)
	// PenaltyRounds records guided local search penalty rounds per solve.
	PenaltyRounds = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "solver_penalty_rounds", Help: "Guided local search penalty rounds per solve.", Buckets: prometheus.ExponentialBuckets(1, 2, 12)},
	)
	// ObjectiveImprovement records (construction - best) / construction per solve.
	ObjectiveImprovement = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "solver_objective_improvement_ratio", Help: "Relative objective improvement over the construction phase.", Buckets: prometheus.LinearBuckets(0, 0.05, 10)},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SolveOutcomes)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(SearchIterations)
		Registry.MustRegister(PenaltyRounds)
		Registry.MustRegister(ObjectiveImprovement)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
