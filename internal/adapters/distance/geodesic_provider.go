package distance

import (
	"context"
	"errors"
	"fmt"

	"drone-route-service/internal/domain"
	"drone-route-service/internal/geo"
	"drone-route-service/internal/platform/obs"
	"drone-route-service/internal/ports"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const defaultMemoSize = 1 << 16

type pairKey struct {
	from, to domain.Coordinates
}

// GeodesicProvider implements DistanceMatrixProvider on top of the WGS84
// geodesic distance.
//
// It coordinates:
//   - An in-process LRU memo of computed pairs
//   - An optional persistent distance cache shared across runs
//
// The provider is safe for concurrent use.
type GeodesicProvider struct {
	memo  *lru.Cache[pairKey, float64]
	cache ports.DistanceCache
	log   *zap.Logger
}

// NewGeodesicProvider builds a provider; cache may be nil.
func NewGeodesicProvider(cache ports.DistanceCache, memoSize int, log *zap.Logger) (*GeodesicProvider, error) {
	if memoSize <= 0 {
		memoSize = defaultMemoSize
	}
	memo, err := lru.New[pairKey, float64](memoSize)
	if err != nil {
		return nil, fmt.Errorf("new geodesic provider: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GeodesicProvider{memo: memo, cache: cache, log: log}, nil
}

// Distance delegates to the batched path to reuse caching.
func (g *GeodesicProvider) Distance(ctx context.Context, origin, destination domain.Coordinates) (float64, error) {
	res, err := g.Distances(ctx, origin, []domain.Coordinates{destination})
	if err != nil {
		return 0, fmt.Errorf("geodesic distance %q -> %q: %w", origin.Key(), destination.Key(), err)
	}
	return res[0], nil
}

// Distances computes distances from a single origin to many destinations.
// Lookups go memo -> persistent cache -> geodesic; computed values are written back.
func (g *GeodesicProvider) Distances(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (_ []float64, err error) {
	defer obs.Time(ctx, "geodesic.Distances")(&err)

	if err := origin.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, len(destinations))
	missing := make(map[string][]int)
	for i, d := range destinations {
		if d == origin {
			continue
		}
		if v, ok := g.memo.Get(pairKey{origin, d}); ok {
			out[i] = v
			continue
		}
		missing[d.Key()] = append(missing[d.Key()], i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	originKey := origin.Key()
	if g.cache != nil {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		cached, cerr := g.cache.GetMany(ctx, originKey, keys)
		if cerr != nil {
			// A broken cache degrades to recomputation.
			g.log.Warn("distance cache read failed", zap.String("origin", originKey), zap.Error(cerr))
		}
		for k, v := range cached {
			idx, ok := missing[k]
			if !ok {
				continue
			}
			for _, i := range idx {
				out[i] = v
				g.memo.Add(pairKey{origin, destinations[i]}, v)
			}
			delete(missing, k)
		}
	}

	computed := make(map[string]float64, len(missing))
	for k, idx := range missing {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := destinations[idx[0]]
		v, gerr := geo.Distance(origin, d)
		if gerr != nil {
			return nil, fmt.Errorf("geodesic distances from %q: %w", originKey, gerr)
		}
		for _, i := range idx {
			out[i] = v
		}
		g.memo.Add(pairKey{origin, d}, v)
		g.memo.Add(pairKey{d, origin}, v)
		computed[k] = v
	}

	if g.cache != nil && len(computed) > 0 {
		if perr := g.cache.PutMany(ctx, originKey, computed); perr != nil && !errors.Is(perr, context.Canceled) {
			g.log.Warn("distance cache write failed", zap.String("origin", originKey), zap.Error(perr))
		}
	}

	return out, nil
}
