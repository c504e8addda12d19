// Package dimension enforces cumulative resource constraints along routes.
//
// Every dimension starts at zero at the route start and accumulates its
// per-step contribution; an extension is rejected as soon as any dimension
// exceeds the vehicle capacity (inclusive bound) or drops below the previous
// value by more than the dimension's slack.
package dimension

import (
	"fmt"

	"drone-route-service/internal/domain"
	"drone-route-service/internal/model"
)

// Relative tolerance on capacity comparisons, absorbing float summation error.
const tolerance = 1e-9

// Tracker evaluates dimension cumuls for one problem. It holds no mutable
// state and is safe for concurrent use.
type Tracker struct {
	p *model.Problem
}

func NewTracker(p *model.Problem) *Tracker {
	return &Tracker{p: p}
}

// Start returns the cumul vector at every route start: all zeros.
func (t *Tracker) Start() []float64 {
	return make([]float64, t.p.DimensionCount())
}

// TryExtend computes the cumuls after vehicle moves prev -> next, writing
// them into out (allocated when nil or short). ok is false when any
// dimension would leave its feasible range.
func (t *Tracker) TryExtend(vehicle int, current []float64, prev, next int, out []float64) ([]float64, bool) {
	k := t.p.DimensionCount()
	if cap(out) < k {
		out = make([]float64, k)
	}
	out = out[:k]
	v := t.p.Vehicle(vehicle)
	for d := 0; d < k; d++ {
		c := current[d] + t.p.Transit(d, vehicle, prev, next, current)
		if exceeds(c, v.CapacityFor(d)) {
			return out, false
		}
		if c < current[d]-t.p.Dimension(d).Slack || c < 0 {
			return out, false
		}
		out[d] = c
	}
	return out, true
}

func exceeds(value, capacity float64) bool {
	return value > capacity+tolerance*max(1, capacity)
}

// Feasible reports whether the depot-bounded route of customer nodes
// satisfies every dimension for vehicle. The depot is implicit at both ends.
func (t *Tracker) Feasible(vehicle int, route []int) bool {
	if t.p.DimensionCount() == 0 {
		return true
	}
	cur := t.Start()
	next := make([]float64, len(cur))
	prev := t.p.Depot()
	for _, node := range route {
		var ok bool
		next, ok = t.TryExtend(vehicle, cur, prev, node, next)
		if !ok {
			return false
		}
		cur, next = next, cur
		prev = node
	}
	_, ok := t.TryExtend(vehicle, cur, prev, t.p.Depot(), next)
	return ok
}

// Cumuls returns the cumul vector on arrival at every position of the
// depot-bounded route (start depot, customers, end depot).
func (t *Tracker) Cumuls(vehicle int, route []int) ([][]float64, error) {
	out := make([][]float64, 0, len(route)+2)
	cur := t.Start()
	out = append(out, cur)
	prev := t.p.Depot()
	stops := append(append(make([]int, 0, len(route)+1), route...), t.p.Depot())
	for pos, node := range stops {
		next, ok := t.TryExtend(vehicle, cur, prev, node, nil)
		if !ok {
			return nil, fmt.Errorf("%w: vehicle %d at position %d (node %d): %s",
				domain.ErrCapacityExceeded, vehicle, pos+1, node, t.violated(vehicle, cur, prev, node))
		}
		out = append(out, next)
		cur = next
		prev = node
	}
	return out, nil
}

func (t *Tracker) violated(vehicle int, cur []float64, prev, next int) string {
	v := t.p.Vehicle(vehicle)
	for d := 0; d < t.p.DimensionCount(); d++ {
		c := cur[d] + t.p.Transit(d, vehicle, prev, next, cur)
		if exceeds(c, v.CapacityFor(d)) {
			return fmt.Sprintf("dimension %q reaches %.3f over capacity %.3f", t.p.Dimension(d).Name, c, v.CapacityFor(d))
		}
	}
	return "dimension decreased"
}
