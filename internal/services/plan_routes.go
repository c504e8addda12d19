package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drone-route-service/internal/domain"
	"drone-route-service/internal/model"
	"drone-route-service/internal/platform/obs"
	"drone-route-service/internal/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PlanRoutesRequest struct {
	// Nodes overrides the repository node table when non-empty.
	Nodes      []domain.Node
	Vehicles   []domain.Vehicle
	Dimensions []model.Dimension
	TimeLimit  time.Duration
	Options    Options
}

// PlanRoutes loads the node table, solves the instance and records solve
// metrics. repo may be nil when req.Nodes is set.
func PlanRoutes(
	ctx context.Context,
	req PlanRoutesRequest,
	repo ports.NodeRepository,
	provider ports.DistanceProvider,
) (sol *domain.Solution, stats SearchStats, err error) {
	defer obs.Time(ctx, "services.PlanRoutes")(&err)

	nodes := req.Nodes
	if len(nodes) == 0 {
		if repo == nil {
			return nil, SearchStats{}, fmt.Errorf("plan routes: %w: no nodes and no repository", domain.ErrInvalidProblem)
		}
		nodes, err = repo.ListNodes(ctx)
		if err != nil {
			return nil, SearchStats{}, fmt.Errorf("plan routes: list nodes: %w", err)
		}
	}

	opts := req.Options
	if opts.Logger == nil {
		opts.Logger = zap.L()
	}
	opts.Logger = opts.Logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("req_id", obs.RequestID(ctx)),
	)

	start := time.Now()
	sol, stats, err = Solve(ctx, SolveRequest{
		Nodes:      nodes,
		Vehicles:   req.Vehicles,
		Dimensions: req.Dimensions,
		TimeLimit:  req.TimeLimit,
		Provider:   provider,
		Options:    opts,
	})
	obs.SolveDuration.Observe(time.Since(start).Seconds())
	obs.SolveOutcomes.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return nil, stats, fmt.Errorf("plan routes: %w", err)
	}

	obs.SearchIterations.Observe(float64(stats.Iterations))
	obs.PenaltyRounds.Observe(float64(stats.PenaltyRounds))
	if stats.ConstructionCost > 0 {
		obs.ObjectiveImprovement.Observe((stats.ConstructionCost - stats.BestCost) / stats.ConstructionCost)
	}
	return sol, stats, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrTimeLimitTooSmall):
		return "time_limit"
	case errors.Is(err, domain.ErrInfeasibleInstance):
		return "infeasible"
	case errors.Is(err, domain.ErrInvalidProblem),
		errors.Is(err, domain.ErrInvalidCoordinate),
		errors.Is(err, domain.ErrUnknownVehicleClass):
		return "invalid"
	default:
		return "error"
	}
}
