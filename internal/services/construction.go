package services

import (
	"context"
	"fmt"
	"math"

	"drone-route-service/internal/domain"

	"go.uber.org/zap"
)

type insertion struct {
	node, vehicle, pos int
	delta              float64
}

// construct seats every customer by global cheapest feasible insertion.
//
// Each step scans all (unassigned node, vehicle, position) triples and
// applies the one with the smallest arc-cost increase that the dimension
// tracker accepts. Ties keep the first triple in (node, vehicle, position)
// order, so construction is deterministic.
func (e *engine) construct(ctx context.Context) ([][]int, error) {
	routes := make([][]int, e.p.VehicleCount())

	unassigned := make([]int, 0, e.p.NodeCount()-1)
	for i := 0; i < e.p.NodeCount(); i++ {
		if i != e.p.Depot() {
			unassigned = append(unassigned, i)
		}
	}

	var scratch []int
	for len(unassigned) > 0 {
		best := insertion{node: -1, delta: math.Inf(1)}
		bestIdx := -1

		for ui, node := range unassigned {
			if e.expired(ctx) {
				return nil, fmt.Errorf("construct: %d of %d nodes unseated: %w",
					len(unassigned), e.p.NodeCount()-1, domain.ErrTimeLimitTooSmall)
			}

			seatable := false
			for v, route := range routes {
				for pos := 0; pos <= len(route); pos++ {
					delta := e.insertionDelta(route, pos, node)
					better := delta < best.delta
					if !better && seatable {
						continue
					}
					scratch = append(append(append(scratch[:0], route[:pos]...), node), route[pos:]...)
					if !e.tr.Feasible(v, scratch) {
						continue
					}
					seatable = true
					if better {
						best = insertion{node: node, vehicle: v, pos: pos, delta: delta}
						bestIdx = ui
					}
				}
			}
			if !seatable {
				return nil, fmt.Errorf("construct: node %d fits no vehicle: %w", node, domain.ErrInfeasibleInstance)
			}
		}

		routes[best.vehicle] = insertAt(routes[best.vehicle], best.pos, best.node)
		unassigned = append(unassigned[:bestIdx], unassigned[bestIdx+1:]...)
	}

	e.log.Debug("construction done", zap.Float64("cost", e.totalCost(routes)))
	return routes, nil
}

// insertionDelta is prev->node + node->next - prev->next.
func (e *engine) insertionDelta(route []int, pos, node int) float64 {
	depot := e.p.Depot()
	prev, next := depot, depot
	if pos > 0 {
		prev = route[pos-1]
	}
	if pos < len(route) {
		next = route[pos]
	}
	return e.p.ArcCost(prev, node) + e.p.ArcCost(node, next) - e.p.ArcCost(prev, next)
}
