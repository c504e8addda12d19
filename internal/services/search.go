package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// improve runs local search from the constructed routes until the deadline,
// cancellation, the iteration limit or convergence. Under guided local
// search the moves are judged on the penalty-augmented cost, while the best
// solution is tracked on the real arc cost; the returned routes never cost
// more than the input.
func (e *engine) improve(ctx context.Context, routes [][]int) ([][]int, SearchStats) {
	parent := ctx
	ctx, cancel := context.WithDeadline(ctx, e.deadline)
	defer cancel()

	cur := cloneRoutes(routes)
	best := cloneRoutes(routes)
	bestCost := e.totalCost(best)
	stats := SearchStats{ConstructionCost: bestCost, BestCost: bestCost}

	stall := 0
	for {
		if ctx.Err() != nil {
			stats.StopReason = e.stopReason(parent)
			break
		}
		if e.opts.IterationLimit > 0 && stats.Iterations >= e.opts.IterationLimit {
			stats.StopReason = StopIterationLimit
			break
		}

		mv, ok, err := e.bestMove(ctx, cur)
		if err != nil {
			stats.StopReason = e.stopReason(parent)
			break
		}
		stats.Iterations++

		if ok {
			apply(cur, mv)
			if cost := e.totalCost(cur); cost < bestCost-improvementEps {
				best = cloneRoutes(cur)
				bestCost = cost
				stats.Improvements++
				stall = 0
				e.log.Debug("new best",
					zap.Float64("cost", cost),
					zap.Stringer("move", mv.kind),
					zap.Int("iteration", stats.Iterations),
				)
			}
			continue
		}

		// local optimum of the (augmented) cost
		if e.opts.Metaheuristic == GreedyDescent {
			stats.StopReason = StopConverged
			break
		}
		if e.lambda == 0 {
			arcs := arcCount(cur)
			if arcs == 0 {
				stats.StopReason = StopConverged
				break
			}
			e.lambda = e.opts.Lambda * e.totalCost(cur) / float64(arcs)
			if e.lambda == 0 {
				stats.StopReason = StopConverged
				break
			}
		}
		e.penalize(cur)
		stats.PenaltyRounds++
		stall++
		if stall >= e.opts.MaxStallRounds {
			stats.StopReason = StopConverged
			break
		}
	}

	stats.BestCost = bestCost
	return best, stats
}

func (e *engine) stopReason(parent context.Context) StopReason {
	if err := parent.Err(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return StopCanceled
	}
	return StopTimeLimit
}

// arcCount counts the arcs of every used route, depot legs included.
func arcCount(routes [][]int) int {
	n := 0
	for _, r := range routes {
		if len(r) > 0 {
			n += len(r) + 1
		}
	}
	return n
}

// penalize increments the penalty of every arc in routes whose utility
// cost/(1+penalty) is maximal.
func (e *engine) penalize(routes [][]int) {
	n := e.p.NodeCount()
	depot := e.p.Depot()

	var arcs []int
	maxUtil := -1.0
	visit := func(from, to int) {
		arc := from*n + to
		u := e.p.ArcCost(from, to) / (1 + e.penalties[arc])
		switch {
		case u > maxUtil+1e-12:
			maxUtil = u
			arcs = append(arcs[:0], arc)
		case u >= maxUtil-1e-12:
			arcs = append(arcs, arc)
		}
	}
	for _, r := range routes {
		if len(r) == 0 {
			continue
		}
		prev := depot
		for _, node := range r {
			visit(prev, node)
			prev = node
		}
		visit(prev, depot)
	}
	for _, arc := range arcs {
		e.penalties[arc]++
	}
}
