package ports

import (
	"context"

	"drone-route-service/internal/domain"
)

// Optional extension of DistanceProvider that supports batched lookups.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return distances from one origin to many destinations, in destination order.
	Distances(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates) ([]float64, error)
}
