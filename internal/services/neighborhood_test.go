package services

import (
	"testing"
)

func TestBuild(t *testing.T) {
	routes := [][]int{{1, 2, 3, 4}, {5, 6}}

	tests := []struct {
		name  string
		mv    move
		wantA []int
		wantB []int
	}{
		{"relocate inter route", move{kind: relocate, r1: 0, i: 1, r2: 1, j: 1}, []int{1, 3, 4}, []int{5, 2, 6}},
		{"relocate forward in route", move{kind: relocate, r1: 0, i: 0, r2: 0, j: 3}, []int{2, 3, 1, 4}, nil},
		{"relocate to route end", move{kind: relocate, r1: 0, i: 0, r2: 0, j: 4}, []int{2, 3, 4, 1}, nil},
		{"relocate backward in route", move{kind: relocate, r1: 0, i: 3, r2: 0, j: 1}, []int{1, 4, 2, 3}, nil},
		{"exchange inter route", move{kind: exchange, r1: 0, i: 0, r2: 1, j: 1}, []int{6, 2, 3, 4}, []int{5, 1}},
		{"exchange in route", move{kind: exchange, r1: 0, i: 0, r2: 0, j: 3}, []int{4, 2, 3, 1}, nil},
		{"two opt", move{kind: twoOpt, r1: 0, i: 1, r2: 0, j: 3}, []int{1, 4, 3, 2}, nil},
		{"two opt star", move{kind: twoOptStar, r1: 0, i: 2, r2: 1, j: 1}, []int{1, 2, 6}, []int{5, 3, 4}},
		{"two opt star empties a route", move{kind: twoOptStar, r1: 0, i: 0, r2: 1, j: 2}, []int{}, []int{5, 6, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := build(routes, tt.mv)
			if !equalInts(a, tt.wantA) {
				t.Fatalf("a = %v, want %v", a, tt.wantA)
			}
			if !equalInts(b, tt.wantB) {
				t.Fatalf("b = %v, want %v", b, tt.wantB)
			}
		})
	}

	// build must not touch its input
	if !equalInts(routes[0], []int{1, 2, 3, 4}) || !equalInts(routes[1], []int{5, 6}) {
		t.Fatalf("routes mutated: %v", routes)
	}
}

func TestCandidates_SkipNoOps(t *testing.T) {
	for _, mv := range candidates([][]int{{1, 2, 3}, {}}) {
		switch mv.kind {
		case relocate:
			if mv.r1 == mv.r2 && (mv.j == mv.i || mv.j == mv.i+1) {
				t.Fatalf("no-op relocate listed: %+v", mv)
			}
		case twoOptStar:
			if mv.i == 0 && mv.j == 0 {
				t.Fatalf("whole-route swap listed: %+v", mv)
			}
		}
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
