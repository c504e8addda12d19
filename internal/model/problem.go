package model

import (
	"context"
	"fmt"
	"math"

	"drone-route-service/internal/domain"
	"drone-route-service/internal/geo"
	"drone-route-service/internal/ports"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
)

// Distances below this many metres are treated as coincident points.
const zeroDistance = 1e-6

// Problem is the canonical, read-only view of a routing instance:
// nodes, fleet, dimensions and a precomputed arc distance matrix.
// It is never mutated after NewProblem returns and is safe for concurrent reads.
type Problem struct {
	nodes      []domain.Node
	depot      int
	vehicles   []domain.Vehicle
	profiles   []domain.EnergyProfile
	dims       []Dimension
	payloadIdx []int
	n          int
	dist       []float64
}

type geodesic struct{}

func (geodesic) Distance(_ context.Context, a, b domain.Coordinates) (float64, error) {
	return geo.Distance(a, b)
}

// NewProblem validates the instance and precomputes every arc distance through
// provider. A nil provider uses the WGS84 geodesic distance.
func NewProblem(
	ctx context.Context,
	nodes []domain.Node,
	vehicles []domain.Vehicle,
	dims []Dimension,
	provider ports.DistanceProvider,
) (*Problem, error) {
	if provider == nil {
		provider = geodesic{}
	}

	p := &Problem{
		nodes:    append([]domain.Node(nil), nodes...),
		depot:    -1,
		vehicles: make([]domain.Vehicle, len(vehicles)),
		profiles: make([]domain.EnergyProfile, len(vehicles)),
		dims:     append([]Dimension(nil), dims...),
		n:        len(nodes),
	}

	if err := p.validateNodes(); err != nil {
		return nil, fmt.Errorf("new problem: %w", err)
	}
	if err := p.validateDimensions(); err != nil {
		return nil, fmt.Errorf("new problem: %w", err)
	}

	if len(vehicles) == 0 {
		return nil, fmt.Errorf("new problem: %w: fleet must not be empty", domain.ErrInvalidProblem)
	}
	for i, v := range vehicles {
		if v.ID != i {
			return nil, fmt.Errorf("new problem: %w: vehicle at index %d has id %d", domain.ErrInvalidProblem, i, v.ID)
		}
		if err := v.Validate(len(dims)); err != nil {
			return nil, fmt.Errorf("new problem: %w", err)
		}
		profile, _ := domain.ProfileFor(v.Class)
		p.profiles[i] = profile
		v.Capacities = append([]float64(nil), v.Capacities...)
		p.vehicles[i] = v
	}

	if err := p.buildMatrix(ctx, provider); err != nil {
		return nil, fmt.Errorf("new problem: %w", err)
	}

	return p, nil
}

func (p *Problem) validateNodes() error {
	if p.n == 0 {
		return fmt.Errorf("%w: node table is empty", domain.ErrInvalidProblem)
	}
	for i, nd := range p.nodes {
		if nd.ID != i {
			return fmt.Errorf("%w: node at index %d has id %d", domain.ErrInvalidProblem, i, nd.ID)
		}
		if err := nd.Coordinates.Validate(); err != nil {
			return fmt.Errorf("node %d: %w", nd.ID, err)
		}
		if nd.Demand < 0 || math.IsNaN(nd.Demand) {
			return fmt.Errorf("%w: node %d has negative demand", domain.ErrInvalidProblem, nd.ID)
		}
		if nd.IsDepot {
			if p.depot >= 0 {
				return fmt.Errorf("%w: nodes %d and %d are both depots", domain.ErrInvalidProblem, p.depot, nd.ID)
			}
			p.depot = i
		}
	}
	if p.depot < 0 {
		return fmt.Errorf("%w: no depot node", domain.ErrInvalidProblem)
	}
	return nil
}

func (p *Problem) validateDimensions() error {
	index := make(map[string]int, len(p.dims))
	for i, d := range p.dims {
		if d.Name == "" {
			return fmt.Errorf("%w: dimension #%d has no name", domain.ErrInvalidProblem, i)
		}
		if _, dup := index[d.Name]; dup {
			return fmt.Errorf("%w: duplicate dimension %q", domain.ErrInvalidProblem, d.Name)
		}
		index[d.Name] = i
		if d.Slack != 0 {
			return fmt.Errorf("%w: dimension %q: only zero slack is supported", domain.ErrInvalidProblem, d.Name)
		}
		if !d.StartAtZero {
			return fmt.Errorf("%w: dimension %q: cumul must start at zero", domain.ErrInvalidProblem, d.Name)
		}
	}

	p.payloadIdx = make([]int, len(p.dims))
	for i, d := range p.dims {
		p.payloadIdx[i] = -1
		switch d.Kind {
		case DemandDimension:
		case EnergyDimension:
			j, ok := index[d.PayloadDimension]
			if !ok || j == i {
				return fmt.Errorf("%w: dimension %q: unknown payload dimension %q",
					domain.ErrInvalidProblem, d.Name, d.PayloadDimension)
			}
			p.payloadIdx[i] = j
		case CustomDimension:
			if d.Transit == nil {
				return fmt.Errorf("%w: dimension %q: custom dimension needs a transit", domain.ErrInvalidProblem, d.Name)
			}
		default:
			return fmt.Errorf("%w: dimension %q: unknown kind %d", domain.ErrInvalidProblem, d.Name, d.Kind)
		}
	}
	return nil
}

// buildMatrix fetches one row per origin with bounded concurrency.
func (p *Problem) buildMatrix(ctx context.Context, provider ports.DistanceProvider) error {
	p.dist = make([]float64, p.n*p.n)
	coords := make([]domain.Coordinates, p.n)
	for i, nd := range p.nodes {
		coords[i] = nd.Coordinates
	}

	mp, hasMatrix := provider.(ports.DistanceMatrixProvider)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)
	for from := 0; from < p.n; from++ {
		g.Go(func() error {
			row := p.dist[from*p.n : (from+1)*p.n]
			if hasMatrix {
				res, err := mp.Distances(gctx, coords[from], coords)
				if err != nil {
					return fmt.Errorf("distances from node %d: %w", from, err)
				}
				if len(res) != p.n {
					return fmt.Errorf("%w: distances from node %d: got %d results, want %d",
						domain.ErrInvalidProblem, from, len(res), p.n)
				}
				copy(row, res)
			} else {
				for to := 0; to < p.n; to++ {
					if to == from {
						continue
					}
					d, err := provider.Distance(gctx, coords[from], coords[to])
					if err != nil {
						return fmt.Errorf("distance from node %d to %d: %w", from, to, err)
					}
					row[to] = d
				}
			}
			for to := range row {
				switch {
				case to == from:
					row[to] = 0
				case math.IsNaN(row[to]) || row[to] < 0:
					return fmt.Errorf("%w: distance from node %d to %d is %v", domain.ErrInvalidProblem, from, to, row[to])
				case row[to] < zeroDistance:
					row[to] = 0
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("build distance matrix: %w", err)
	}
	return nil
}

func (p *Problem) NodeCount() int { return p.n }
func (p *Problem) Depot() int { return p.depot }
func (p *Problem) Node(i int) domain.Node { return p.nodes[i] }
func (p *Problem) VehicleCount() int { return len(p.vehicles) }
func (p *Problem) Vehicle(i int) domain.Vehicle { return p.vehicles[i] }
func (p *Problem) DimensionCount() int { return len(p.dims) }
func (p *Problem) Dimension(i int) Dimension { return p.dims[i] }

// DimensionNames returns the registered dimension names in order.
func (p *Problem) DimensionNames() []string {
	names := make([]string, len(p.dims))
	for i, d := range p.dims {
		names[i] = d.Name
	}
	return names
}

// ArcCost is the quantity the search minimises, summed over traversed arcs.
func (p *Problem) ArcCost(from, to int) float64 {
	return p.dist[from*p.n+to]
}

// NodeDemand is the capacity contribution of visiting node.
func (p *Problem) NodeDemand(node int) float64 {
	return p.nodes[node].Demand
}

// ArcEnergy is distance(from, to) * unit energy cost of class at payload.
func (p *Problem) ArcEnergy(from, to int, payload float64, class domain.VehicleClass) (float64, error) {
	unit, err := domain.UnitEnergyCost(class, domain.Cruise, payload)
	if err != nil {
		return 0, fmt.Errorf("arc energy %d->%d: %w", from, to, err)
	}
	return p.ArcCost(from, to) * unit, nil
}

// Transit returns the contribution of dimension dim when vehicle moves
// from -> to, given the cumul vector at from. Re-entering the depot adds
// no demand.
func (p *Problem) Transit(dim, vehicle, from, to int, cumuls []float64) float64 {
	d := &p.dims[dim]
	switch d.Kind {
	case DemandDimension:
		if to == p.depot {
			return 0
		}
		return p.nodes[to].Demand
	case EnergyDimension:
		payload := cumuls[p.payloadIdx[dim]]
		return p.ArcCost(from, to) * p.profiles[vehicle].Cruise.At(payload)
	default:
		return d.Transit(p.vehicles[vehicle], from, to, p.ArcCost(from, to), cumuls)
	}
}

// Bound is the bounding box of every node of the instance.
func (p *Problem) Bound() orb.Bound {
	mp := make(orb.MultiPoint, len(p.nodes))
	for i, nd := range p.nodes {
		mp[i] = nd.Coordinates.Point()
	}
	return mp.Bound()
}
