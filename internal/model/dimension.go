package model

import "drone-route-service/internal/domain"

// DimensionKind selects how a dimension's per-step contribution is computed.
type DimensionKind int

const (
	// DemandDimension adds the demand of the node being entered.
	DemandDimension DimensionKind = iota
	// EnergyDimension adds distance * unit energy cost of the vehicle class,
	// evaluated at the payload dimension's cumul on the arc origin.
	EnergyDimension
	// CustomDimension delegates to Dimension.Transit.
	CustomDimension
)

func (k DimensionKind) String() string {
	switch k {
	case DemandDimension:
		return "demand"
	case EnergyDimension:
		return "energy"
	case CustomDimension:
		return "custom"
	default:
		return "unknown"
	}
}

// ArcTransit computes a custom dimension contribution for traversing
// from -> to, given the arc distance and the cumul vector at from.
// It must return a non-negative value.
type ArcTransit func(v domain.Vehicle, from, to int, distance float64, cumuls []float64) float64

// Dimension is a named cumulative resource tracked along every route.
// Per-vehicle capacities live on domain.Vehicle.Capacities, indexed by the
// dimension's registration order.
type Dimension struct {
	Name             string
	Kind             DimensionKind
	PayloadDimension string
	Slack            float64
	StartAtZero      bool
	Transit          ArcTransit
}

const (
	CapacityName = "Capacity"
	EnergyName   = "Energy"
)

// CapacityDimension is the payload dimension fed by node demands.
func CapacityDimension() Dimension {
	return Dimension{Name: CapacityName, Kind: DemandDimension, StartAtZero: true}
}

// EnergyDimensionOf is the energy dimension whose payload is read from the named dimension.
func EnergyDimensionOf(payload string) Dimension {
	return Dimension{Name: EnergyName, Kind: EnergyDimension, PayloadDimension: payload, StartAtZero: true}
}
