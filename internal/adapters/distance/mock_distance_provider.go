package distance

import (
	"context"
	"fmt"

	"drone-route-service/internal/domain"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   float64
}

// MockDistanceProvider serves fixed distances, for tests that need exact arc lengths.
type MockDistanceProvider struct {
	m map[string]float64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		m[p.From.Key()+"|"+p.To.Key()] = p.Meters
	}
	return &MockDistanceProvider{m: m}
}

// NewMockMatrixProvider maps points[i] -> points[j] to meters[i][j].
func NewMockMatrixProvider(points []domain.Coordinates, meters [][]float64) *MockDistanceProvider {
	pairs := make([]MockPair, 0, len(points)*len(points))
	for i := range points {
		for j := range points {
			if i == j {
				continue
			}
			pairs = append(pairs, MockPair{From: points[i], To: points[j], Meters: meters[i][j]})
		}
	}
	return NewMockDistanceProvider(pairs)
}

func (p *MockDistanceProvider) Distance(ctx context.Context, origin, destination domain.Coordinates) (float64, error) {
	if origin == destination {
		return 0, nil
	}
	r, ok := p.m[origin.Key()+"|"+destination.Key()]
	if !ok {
		return 0, fmt.Errorf("missing pair %q -> %q", origin.Key(), destination.Key())
	}

	return r, nil
}
