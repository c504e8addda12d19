package services

import (
	"fmt"

	"drone-route-service/internal/dimension"
	"drone-route-service/internal/domain"
	"drone-route-service/internal/model"
)

// Extract renders per-vehicle customer sequences as a Solution: one plan per
// vehicle with the depot at both ends, the cumuls of every dimension at each
// stop, the route distance and the objective (sum of ArcCost over every
// traversed arc).
//
// routes must hold one entry per vehicle. Engine output always satisfies the
// dimensions; a route that does not yields an ErrCapacityExceeded error.
func Extract(p *model.Problem, routes [][]int) (*domain.Solution, error) {
	if len(routes) != p.VehicleCount() {
		return nil, fmt.Errorf("extract: %d routes for %d vehicles: %w", len(routes), p.VehicleCount(), domain.ErrInvalidProblem)
	}

	tr := dimension.NewTracker(p)
	names := p.DimensionNames()
	depot := p.Depot()

	sol := &domain.Solution{
		Plans:      make([]domain.RoutePlan, 0, len(routes)),
		Dimensions: names,
	}
	for v, route := range routes {
		cumuls, err := tr.Cumuls(v, route)
		if err != nil {
			return nil, fmt.Errorf("extract: %w", err)
		}

		ids := make([]int, 0, len(route)+2)
		ids = append(append(append(ids, depot), route...), depot)

		plan := domain.RoutePlan{
			VehicleID: p.Vehicle(v).ID,
			Class:     p.Vehicle(v).Class,
			Stops:     make([]domain.RouteStop, len(ids)),
		}
		for pos, node := range ids {
			stop := domain.RouteStop{NodeID: node, Cumuls: make(map[string]float64, len(names))}
			for d, name := range names {
				stop.Cumuls[name] = cumuls[pos][d]
			}
			plan.Stops[pos] = stop
			if pos > 0 {
				plan.TotalDistanceMeters += p.ArcCost(ids[pos-1], node)
			}
		}

		sol.Objective += plan.TotalDistanceMeters
		sol.Plans = append(sol.Plans, plan)
	}
	return sol, nil
}
