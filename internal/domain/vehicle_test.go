package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitEnergyCost(t *testing.T) {
	vtol, err := UnitEnergyCost(VTOL, Cruise, 10)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, vtol, 1e-9)

	multi, err := UnitEnergyCost(Multicopter, Cruise, 10)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, multi, 1e-9)

	hover, err := UnitEnergyCost(VTOL, Hover, 10)
	require.NoError(t, err)
	assert.InDelta(t, 35.0, hover, 1e-9)
}

func TestUnitEnergyCost_UnknownClass(t *testing.T) {
	_, err := UnitEnergyCost(VehicleClass(7), Cruise, 1)
	assert.True(t, errors.Is(err, ErrUnknownVehicleClass))
}

func TestParseVehicleClass(t *testing.T) {
	c, err := ParseVehicleClass("vtol")
	require.NoError(t, err)
	assert.Equal(t, VTOL, c)

	c, err = ParseVehicleClass("2")
	require.NoError(t, err)
	assert.Equal(t, Multicopter, c)

	_, err = ParseVehicleClass("blimp")
	assert.ErrorIs(t, err, ErrUnknownVehicleClass)
}

func TestVehicleValidate(t *testing.T) {
	v := Vehicle{ID: 0, Class: VTOL, Capacities: []float64{1500, 1500}}
	assert.NoError(t, v.Validate(2))
	assert.ErrorIs(t, v.Validate(1), ErrInvalidProblem)

	bad := Vehicle{ID: 1, Class: VehicleClass(0), Capacities: []float64{1}}
	assert.ErrorIs(t, bad.Validate(1), ErrUnknownVehicleClass)

	neg := Vehicle{ID: 2, Class: Multicopter, Capacities: []float64{-1}}
	assert.ErrorIs(t, neg.Validate(1), ErrInvalidProblem)
}

func TestCoordinatesValidate(t *testing.T) {
	assert.NoError(t, Coordinates{Lat: 35.53, Lon: 139.70}.Validate())
	assert.NoError(t, Coordinates{Lat: -90, Lon: 180}.Validate())
	assert.ErrorIs(t, Coordinates{Lat: 90.5, Lon: 0}.Validate(), ErrInvalidCoordinate)
	assert.ErrorIs(t, Coordinates{Lat: 0, Lon: -181}.Validate(), ErrInvalidCoordinate)
}

func TestTimeLimitTooSmallIsInfeasible(t *testing.T) {
	assert.ErrorIs(t, ErrTimeLimitTooSmall, ErrInfeasibleInstance)
	assert.NotErrorIs(t, ErrInfeasibleInstance, ErrTimeLimitTooSmall)
}

func TestRoutePlanNodeIDs(t *testing.T) {
	plan := RoutePlan{Stops: []RouteStop{{NodeID: 0}, {NodeID: 3}, {NodeID: 1}, {NodeID: 0}}}
	assert.Equal(t, []int{0, 3, 1, 0}, plan.NodeIDs())
}
