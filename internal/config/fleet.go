package config

import (
	"fmt"
	"os"
	"strings"

	"drone-route-service/internal/domain"
	"drone-route-service/internal/model"

	"gopkg.in/yaml.v3"
)

const (
	// PresetDrone is the energy-constrained fleet: two VTOL drones with
	// Capacity 1500 and Energy 1500 each.
	PresetDrone = "drone"
	// PresetLibrary is the capacity-only fleet with capacities 1500 and 500.
	PresetLibrary = "library"
)

// VehicleSpec describes one vehicle in a fleet file or request.
type VehicleSpec struct {
	Class      string    `yaml:"class" json:"class"`
	Capacities []float64 `yaml:"capacities" json:"capacities"`
}

// FleetSpec is the YAML fleet file. A preset fills vehicles and dimensions
// that the file leaves empty.
//
//	preset: drone
//	dimensions: [Capacity, Energy]
//	vehicles:
//	  - class: vtol
//	    capacities: [1500, 1500]
type FleetSpec struct {
	Preset     string        `yaml:"preset"`
	Dimensions []string      `yaml:"dimensions"`
	Vehicles   []VehicleSpec `yaml:"vehicles"`
}

// Fleet is a resolved set of vehicles and the dimensions they are sized for.
type Fleet struct {
	Vehicles   []domain.Vehicle
	Dimensions []model.Dimension
}

var presets = map[string]FleetSpec{
	PresetDrone: {
		Dimensions: []string{model.CapacityName, model.EnergyName},
		Vehicles: []VehicleSpec{
			{Class: "vtol", Capacities: []float64{1500, 1500}},
			{Class: "vtol", Capacities: []float64{1500, 1500}},
		},
	},
	PresetLibrary: {
		Dimensions: []string{model.CapacityName},
		Vehicles: []VehicleSpec{
			{Class: "vtol", Capacities: []float64{1500}},
			{Class: "vtol", Capacities: []float64{500}},
		},
	},
}

// Preset returns a built-in fleet by name.
func Preset(name string) (Fleet, error) {
	spec, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Fleet{}, fmt.Errorf("fleet preset %q: %w", name, domain.ErrInvalidProblem)
	}
	return BuildFleet(spec.Dimensions, spec.Vehicles)
}

// LoadFleet reads a YAML fleet file.
func LoadFleet(path string) (Fleet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fleet{}, fmt.Errorf("load fleet: read %q: %w", path, err)
	}
	return ParseFleet(data)
}

// ParseFleet decodes a YAML fleet document.
func ParseFleet(data []byte) (Fleet, error) {
	var spec FleetSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Fleet{}, fmt.Errorf("parse fleet: %w", err)
	}

	if spec.Preset != "" {
		base, ok := presets[strings.ToLower(spec.Preset)]
		if !ok {
			return Fleet{}, fmt.Errorf("parse fleet: preset %q: %w", spec.Preset, domain.ErrInvalidProblem)
		}
		if len(spec.Dimensions) == 0 {
			spec.Dimensions = base.Dimensions
		}
		if len(spec.Vehicles) == 0 {
			spec.Vehicles = base.Vehicles
		}
	}

	f, err := BuildFleet(spec.Dimensions, spec.Vehicles)
	if err != nil {
		return Fleet{}, fmt.Errorf("parse fleet: %w", err)
	}
	return f, nil
}

// BuildFleet resolves dimension names and vehicle specs. "Energy" consumes
// the Capacity cumul as payload, so Capacity must be listed before it.
func BuildFleet(dimensions []string, vehicles []VehicleSpec) (Fleet, error) {
	dims, err := Dimensions(dimensions)
	if err != nil {
		return Fleet{}, err
	}
	if len(vehicles) == 0 {
		return Fleet{}, fmt.Errorf("%w: fleet has no vehicles", domain.ErrInvalidProblem)
	}

	out := Fleet{Dimensions: dims, Vehicles: make([]domain.Vehicle, 0, len(vehicles))}
	for i, vs := range vehicles {
		class, err := domain.ParseVehicleClass(strings.TrimSpace(vs.Class))
		if err != nil {
			return Fleet{}, fmt.Errorf("vehicle %d: %w", i, err)
		}
		v := domain.Vehicle{ID: i, Class: class, Capacities: append([]float64(nil), vs.Capacities...)}
		if err := v.Validate(len(dims)); err != nil {
			return Fleet{}, err
		}
		out.Vehicles = append(out.Vehicles, v)
	}
	return out, nil
}

// Dimensions maps dimension names to their definitions.
func Dimensions(names []string) ([]model.Dimension, error) {
	dims := make([]model.Dimension, 0, len(names))
	haveCapacity := false
	for _, raw := range names {
		switch name := strings.TrimSpace(raw); strings.ToLower(name) {
		case "capacity":
			dims = append(dims, model.CapacityDimension())
			haveCapacity = true
		case "energy":
			if !haveCapacity {
				return nil, fmt.Errorf("%w: Energy requires Capacity listed before it", domain.ErrInvalidProblem)
			}
			dims = append(dims, model.EnergyDimensionOf(model.CapacityName))
		default:
			return nil, fmt.Errorf("%w: unknown dimension %q", domain.ErrInvalidProblem, name)
		}
	}
	return dims, nil
}

// DimensionNames lists the fleet's dimensions in registration order.
func (f Fleet) DimensionNames() []string {
	names := make([]string, len(f.Dimensions))
	for i, d := range f.Dimensions {
		names[i] = d.Name
	}
	return names
}
