package domain

import "fmt"

// VehicleClass selects which energy formula applies to a vehicle.
// Values match the drone_type codes used in fleet data files.
type VehicleClass int

const (
	VTOL        VehicleClass = 1
	Multicopter VehicleClass = 2
)

func (c VehicleClass) String() string {
	switch c {
	case VTOL:
		return "vtol"
	case Multicopter:
		return "multicopter"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// ParseVehicleClass accepts the class names used in configuration files.
func ParseVehicleClass(s string) (VehicleClass, error) {
	switch s {
	case "vtol", "VTOL", "1":
		return VTOL, nil
	case "multicopter", "Multicopter", "2":
		return Multicopter, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVehicleClass, s)
	}
}

// FlightMode picks the cruise or hover formula of an energy profile.
type FlightMode int

const (
	Cruise FlightMode = iota
	Hover
)

// AffineCost is unit = PerPayload*payload + Base.
type AffineCost struct {
	PerPayload float64
	Base       float64
}

func (a AffineCost) At(payload float64) float64 { return a.PerPayload*payload + a.Base }

// EnergyProfile holds the per-metre energy formulas of one vehicle class.
type EnergyProfile struct {
	Cruise AffineCost
	Hover  AffineCost
}

var energyProfiles = map[VehicleClass]EnergyProfile{
	VTOL: {
		Cruise: AffineCost{PerPayload: 0.2, Base: 3},
		Hover:  AffineCost{PerPayload: 1.5, Base: 20},
	},
	Multicopter: {
		Cruise: AffineCost{PerPayload: 1.0, Base: 10},
		Hover:  AffineCost{PerPayload: 1.0, Base: 10},
	},
}

// ProfileFor returns the energy profile registered for class.
func ProfileFor(class VehicleClass) (EnergyProfile, error) {
	p, ok := energyProfiles[class]
	if !ok {
		return EnergyProfile{}, fmt.Errorf("%w: %v", ErrUnknownVehicleClass, class)
	}
	return p, nil
}

// UnitEnergyCost is the energy per metre of flight for class carrying payload.
func UnitEnergyCost(class VehicleClass, mode FlightMode, payload float64) (float64, error) {
	p, err := ProfileFor(class)
	if err != nil {
		return 0, err
	}
	if mode == Hover {
		return p.Hover.At(payload), nil
	}
	return p.Cruise.At(payload), nil
}

// A fleet member. Capacities[i] bounds the i-th registered dimension.
type Vehicle struct {
	ID         int
	Class      VehicleClass
	Capacities []float64
}

// CapacityFor returns the upper bound of dimension index dim.
func (v Vehicle) CapacityFor(dim int) float64 {
	return v.Capacities[dim]
}

// Validate checks the class and the capacity vector length.
func (v Vehicle) Validate(dimensions int) error {
	if _, err := ProfileFor(v.Class); err != nil {
		return fmt.Errorf("vehicle %d: %w", v.ID, err)
	}
	if len(v.Capacities) != dimensions {
		return fmt.Errorf("%w: vehicle %d has %d capacities for %d dimensions",
			ErrInvalidProblem, v.ID, len(v.Capacities), dimensions)
	}
	for i, c := range v.Capacities {
		if c < 0 {
			return fmt.Errorf("%w: vehicle %d capacity #%d is negative", ErrInvalidProblem, v.ID, i)
		}
	}
	return nil
}
