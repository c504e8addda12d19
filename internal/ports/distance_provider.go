package ports

import (
	"context"

	"drone-route-service/internal/domain"
)

// Contract for retrieving the travel distance between two coordinates.
type DistanceProvider interface {
	// Return the distance in metres from origin to destination.
	Distance(ctx context.Context, origin, destination domain.Coordinates) (float64, error)
}
