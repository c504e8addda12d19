package services

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

type moveKind int

const (
	// relocate moves routes[r1][i] to position j of routes[r2].
	relocate moveKind = iota
	// exchange swaps routes[r1][i] with routes[r2][j].
	exchange
	// twoOpt reverses routes[r1][i..j].
	twoOpt
	// twoOptStar swaps the tails routes[r1][i:] and routes[r2][j:].
	twoOptStar
)

func (k moveKind) String() string {
	switch k {
	case relocate:
		return "relocate"
	case exchange:
		return "exchange"
	case twoOpt:
		return "two_opt"
	case twoOptStar:
		return "two_opt_star"
	default:
		return "unknown"
	}
}

type move struct {
	kind  moveKind
	r1, i int
	r2, j int
	delta float64
}

// candidates lists every move of the current routes in a fixed order.
func candidates(routes [][]int) []move {
	var out []move
	for r1, a := range routes {
		for r2, b := range routes {
			for i := range a {
				if r1 == r2 {
					for j := 0; j <= len(a); j++ {
						if j != i && j != i+1 {
							out = append(out, move{kind: relocate, r1: r1, i: i, r2: r2, j: j})
						}
					}
					continue
				}
				for j := 0; j <= len(b); j++ {
					out = append(out, move{kind: relocate, r1: r1, i: i, r2: r2, j: j})
				}
			}
		}
	}
	for r1, a := range routes {
		for i := range a {
			for j := i + 1; j < len(a); j++ {
				out = append(out, move{kind: exchange, r1: r1, i: i, r2: r1, j: j})
			}
			for r2 := r1 + 1; r2 < len(routes); r2++ {
				for j := range routes[r2] {
					out = append(out, move{kind: exchange, r1: r1, i: i, r2: r2, j: j})
				}
			}
		}
	}
	for r1, a := range routes {
		for i := 0; i < len(a); i++ {
			for j := i + 1; j < len(a); j++ {
				out = append(out, move{kind: twoOpt, r1: r1, i: i, r2: r1, j: j})
			}
		}
	}
	for r1 := range routes {
		for r2 := r1 + 1; r2 < len(routes); r2++ {
			for i := 0; i <= len(routes[r1]); i++ {
				for j := 0; j <= len(routes[r2]); j++ {
					if (i == 0 && j == 0) || (i == len(routes[r1]) && j == len(routes[r2])) {
						continue
					}
					out = append(out, move{kind: twoOptStar, r1: r1, i: i, r2: r2, j: j})
				}
			}
		}
	}
	return out
}

// build returns the rewritten routes for mv. b is nil for intra-route moves.
func build(routes [][]int, mv move) (a, b []int) {
	src := routes[mv.r1]
	switch mv.kind {
	case relocate:
		node := src[mv.i]
		rest := make([]int, 0, len(src)-1)
		rest = append(append(rest, src[:mv.i]...), src[mv.i+1:]...)
		if mv.r1 == mv.r2 {
			pos := mv.j
			if pos > mv.i {
				pos--
			}
			return insertAt(rest, pos, node), nil
		}
		return rest, insertAt(routes[mv.r2], mv.j, node)
	case exchange:
		if mv.r1 == mv.r2 {
			a = append([]int(nil), src...)
			a[mv.i], a[mv.j] = a[mv.j], a[mv.i]
			return a, nil
		}
		a = append([]int(nil), src...)
		b = append([]int(nil), routes[mv.r2]...)
		a[mv.i], b[mv.j] = b[mv.j], a[mv.i]
		return a, b
	case twoOpt:
		a = append([]int(nil), src...)
		for l, r := mv.i, mv.j; l < r; l, r = l+1, r-1 {
			a[l], a[r] = a[r], a[l]
		}
		return a, nil
	case twoOptStar:
		dst := routes[mv.r2]
		a = make([]int, 0, mv.i+len(dst)-mv.j)
		a = append(append(a, src[:mv.i]...), dst[mv.j:]...)
		b = make([]int, 0, mv.j+len(src)-mv.i)
		b = append(append(b, dst[:mv.j]...), src[mv.i:]...)
		return a, b
	}
	return nil, nil
}

// evaluate scores mv against the current routes without mutating them.
// ok is false when the move does not improve the augmented cost by more
// than improvementEps or breaks a dimension.
func (e *engine) evaluate(routes [][]int, mv move) (move, bool) {
	a, b := build(routes, mv)
	before := e.augmented(routes[mv.r1])
	after := e.augmented(a)
	if b != nil {
		before += e.augmented(routes[mv.r2])
		after += e.augmented(b)
	}
	mv.delta = after - before
	if mv.delta >= -improvementEps {
		return mv, false
	}
	if !e.tr.Feasible(mv.r1, a) {
		return mv, false
	}
	if b != nil && !e.tr.Feasible(mv.r2, b) {
		return mv, false
	}
	return mv, true
}

// bestMove evaluates all candidates over the read-only routes snapshot,
// splitting them across workers. The result does not depend on the worker
// count: ties go to the candidate listed first.
func (e *engine) bestMove(ctx context.Context, routes [][]int) (move, bool, error) {
	moves := candidates(routes)
	if len(moves) == 0 {
		return move{}, false, nil
	}

	workers := min(e.opts.Workers, len(moves))
	type result struct {
		mv    move
		index int
	}
	results := make([]result, workers)
	chunk := (len(moves) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, len(moves))
		results[w] = result{index: -1, mv: move{delta: math.Inf(1)}}
		g.Go(func() error {
			best := result{index: -1, mv: move{delta: math.Inf(1)}}
			for idx := lo; idx < hi; idx++ {
				if idx%256 == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				mv, ok := e.evaluate(routes, moves[idx])
				if ok && mv.delta < best.mv.delta {
					best = result{mv: mv, index: idx}
				}
			}
			results[w] = best
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return move{}, false, err
	}

	best := result{index: -1, mv: move{delta: math.Inf(1)}}
	for _, r := range results {
		if r.index < 0 {
			continue
		}
		if r.mv.delta < best.mv.delta || (r.mv.delta == best.mv.delta && r.index < best.index) {
			best = r
		}
	}
	return best.mv, best.index >= 0, nil
}

// apply writes mv into routes. Only the search goroutine calls it.
func apply(routes [][]int, mv move) {
	a, b := build(routes, mv)
	routes[mv.r1] = a
	if b != nil {
		routes[mv.r2] = b
	}
}
