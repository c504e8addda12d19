package ports

import "context"

// Persistent store for origin->destination distances keyed by coordinate keys.
type DistanceCache interface {
	// Fetch cached distances for one origin; missing destinations are absent from the map.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]float64, error)
	// Store distances for one origin.
	PutMany(ctx context.Context, origin string, results map[string]float64) error
}
