package services

import (
	"context"
	"time"

	"drone-route-service/internal/dimension"
	"drone-route-service/internal/model"

	"go.uber.org/zap"
)

// Moves must lower the (augmented) cost by more than this many metres.
const improvementEps = 1e-6

// engine holds the state of one solve. Routes are per-vehicle slices of
// customer node ids; the depot is implicit at both ends.
//
// penalties and lambda are written only by the goroutine running improve,
// between parallel evaluation rounds.
type engine struct {
	p        *model.Problem
	tr       *dimension.Tracker
	opts     Options
	log      *zap.Logger
	deadline time.Time

	penalties []float64
	lambda    float64
}

func newEngine(p *model.Problem, tr *dimension.Tracker, opts Options, deadline time.Time) *engine {
	n := p.NodeCount()
	return &engine{
		p:         p,
		tr:        tr,
		opts:      opts,
		log:       opts.Logger,
		deadline:  deadline,
		penalties: make([]float64, n*n),
	}
}

func (e *engine) expired(ctx context.Context) bool {
	return ctx.Err() != nil || !time.Now().Before(e.deadline)
}

// routeCost is the arc cost of depot -> route... -> depot.
func (e *engine) routeCost(route []int) float64 {
	if len(route) == 0 {
		return 0
	}
	depot := e.p.Depot()
	total := 0.0
	prev := depot
	for _, node := range route {
		total += e.p.ArcCost(prev, node)
		prev = node
	}
	return total + e.p.ArcCost(prev, depot)
}

func (e *engine) routePenalty(route []int) float64 {
	if len(route) == 0 || e.lambda == 0 {
		return 0
	}
	n := e.p.NodeCount()
	depot := e.p.Depot()
	total := 0.0
	prev := depot
	for _, node := range route {
		total += e.penalties[prev*n+node]
		prev = node
	}
	return total + e.penalties[prev*n+depot]
}

// augmented is the cost judged by local search under guided local search.
func (e *engine) augmented(route []int) float64 {
	return e.routeCost(route) + e.lambda*e.routePenalty(route)
}

func (e *engine) totalCost(routes [][]int) float64 {
	total := 0.0
	for _, r := range routes {
		total += e.routeCost(r)
	}
	return total
}

func cloneRoutes(routes [][]int) [][]int {
	out := make([][]int, len(routes))
	for i, r := range routes {
		out[i] = append([]int(nil), r...)
	}
	return out
}

func insertAt(route []int, pos, node int) []int {
	out := make([]int, 0, len(route)+1)
	out = append(out, route[:pos]...)
	out = append(out, node)
	return append(out, route[pos:]...)
}
