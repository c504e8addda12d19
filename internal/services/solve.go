package services

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"drone-route-service/internal/dimension"
	"drone-route-service/internal/domain"
	"drone-route-service/internal/model"
	"drone-route-service/internal/ports"

	"go.uber.org/zap"
)

const (
	DefaultTimeLimit      = time.Second
	defaultMaxStallRounds = 250
	defaultLambda         = 0.1
)

// Metaheuristic selects how the improvement phase escapes local optima.
type Metaheuristic string

const (
	// GuidedLocalSearch penalises high-utility arcs of each local optimum.
	GuidedLocalSearch Metaheuristic = "guided_local_search"
	// GreedyDescent stops at the first local optimum.
	GreedyDescent Metaheuristic = "greedy_descent"
)

// ParseMetaheuristic accepts the names used by the API and config files.
func ParseMetaheuristic(s string) (Metaheuristic, error) {
	switch Metaheuristic(s) {
	case "", GuidedLocalSearch:
		return GuidedLocalSearch, nil
	case GreedyDescent:
		return GreedyDescent, nil
	default:
		return "", fmt.Errorf("%w: unknown metaheuristic %q", domain.ErrInvalidProblem, s)
	}
}

// Options tunes the search. Zero values select the defaults.
type Options struct {
	Metaheuristic Metaheuristic
	// Workers evaluating candidate moves; defaults to GOMAXPROCS.
	Workers int
	// Penalty rounds without a new best solution before GLS reports convergence.
	MaxStallRounds int
	// Improvement iterations cap; 0 means unbounded.
	IterationLimit int
	// GLS lambda coefficient applied to (local optimum cost / arcs).
	Lambda float64
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Metaheuristic == "" {
		o.Metaheuristic = GuidedLocalSearch
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.MaxStallRounds <= 0 {
		o.MaxStallRounds = defaultMaxStallRounds
	}
	if o.Lambda <= 0 {
		o.Lambda = defaultLambda
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// StopReason tells why the improvement phase ended.
type StopReason string

const (
	StopTimeLimit      StopReason = "time_limit"
	StopConverged      StopReason = "converged"
	StopCanceled       StopReason = "canceled"
	StopIterationLimit StopReason = "iteration_limit"
)

// SearchStats summarises one solve.
type SearchStats struct {
	Iterations       int
	Improvements     int
	PenaltyRounds    int
	ConstructionCost float64
	BestCost         float64
	Elapsed          time.Duration
	StopReason       StopReason
}

// SolveRequest carries every input of a solve.
type SolveRequest struct {
	Nodes      []domain.Node
	Vehicles   []domain.Vehicle
	Dimensions []model.Dimension
	// TimeLimit bounds construction plus improvement; defaults to one second.
	TimeLimit time.Duration
	// Provider computes arc distances; nil selects the WGS84 geodesic.
	Provider ports.DistanceProvider
	Options  Options
}

// Solve builds the problem model and returns the best feasible solution
// found within the time limit.
//
// It fails with domain.ErrInfeasibleInstance when some node cannot be seated
// during construction, and with domain.ErrTimeLimitTooSmall when the limit
// expires before construction completes. Running out of time during
// improvement is not an error.
func Solve(ctx context.Context, req SolveRequest) (*domain.Solution, SearchStats, error) {
	p, err := model.NewProblem(ctx, req.Nodes, req.Vehicles, req.Dimensions, req.Provider)
	if err != nil {
		return nil, SearchStats{}, fmt.Errorf("solve: %w", err)
	}
	return SolveProblem(ctx, p, req.TimeLimit, req.Options)
}

// SolveProblem runs construction and improvement on an already built model.
func SolveProblem(ctx context.Context, p *model.Problem, timeLimit time.Duration, opts Options) (*domain.Solution, SearchStats, error) {
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}
	opts = opts.withDefaults()

	start := time.Now()
	e := newEngine(p, dimension.NewTracker(p), opts, start.Add(timeLimit))

	bound := p.Bound()
	e.log.Info("solve started",
		zap.Int("nodes", p.NodeCount()),
		zap.Int("vehicles", p.VehicleCount()),
		zap.Strings("dimensions", p.DimensionNames()),
		zap.Duration("time_limit", timeLimit),
		zap.String("metaheuristic", string(opts.Metaheuristic)),
		zap.Float64s("bbox", []float64{bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()}),
	)

	routes, err := e.construct(ctx)
	if err != nil {
		e.log.Warn("construction failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, SearchStats{Elapsed: time.Since(start)}, fmt.Errorf("solve: %w", err)
	}

	best, stats := e.improve(ctx, routes)
	stats.Elapsed = time.Since(start)

	sol, err := Extract(p, best)
	if err != nil {
		return nil, stats, fmt.Errorf("solve: %w", err)
	}

	e.log.Info("solve finished",
		zap.Float64("construction_cost", stats.ConstructionCost),
		zap.Float64("objective", sol.Objective),
		zap.Int("iterations", stats.Iterations),
		zap.Int("improvements", stats.Improvements),
		zap.Int("penalty_rounds", stats.PenaltyRounds),
		zap.String("stop_reason", string(stats.StopReason)),
		zap.Duration("elapsed", stats.Elapsed),
	)

	return sol, stats, nil
}
