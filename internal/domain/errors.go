package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCoordinate marks malformed input geometry.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrUnknownVehicleClass marks a vehicle whose class has no energy profile.
	ErrUnknownVehicleClass = errors.New("unknown vehicle class")

	// ErrInvalidProblem marks structurally broken instances (ids, depot, capacities).
	ErrInvalidProblem = errors.New("invalid problem")

	// ErrInfeasibleInstance is returned when some node cannot be seated on any vehicle.
	ErrInfeasibleInstance = errors.New("infeasible instance")

	// ErrTimeLimitTooSmall is returned when the deadline expires before every
	// node is seated. It matches ErrInfeasibleInstance under errors.Is.
	ErrTimeLimitTooSmall = fmt.Errorf("%w: time limit too small to complete construction", ErrInfeasibleInstance)

	// ErrCapacityExceeded marks a route whose cumulative dimension value exceeds a vehicle capacity.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)
