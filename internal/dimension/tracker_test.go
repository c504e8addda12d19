package dimension

import (
	"context"
	"testing"

	"drone-route-service/internal/adapters/distance"
	"drone-route-service/internal/domain"
	"drone-route-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineInstance places nodes along a line with 100m between neighbours.
func lineInstance(t *testing.T, demands []float64, capacities [][]float64, dims []model.Dimension) *model.Problem {
	t.Helper()
	n := len(demands) + 1
	points := make([]domain.Coordinates, n)
	meters := make([][]float64, n)
	for i := range points {
		points[i] = domain.Coordinates{Lat: 35 + float64(i)*0.001, Lon: 139}
		meters[i] = make([]float64, n)
	}
	for i := range meters {
		for j := range meters[i] {
			d := float64(i - j)
			if d < 0 {
				d = -d
			}
			meters[i][j] = 100 * d
		}
	}
	nodes := []domain.Node{{ID: 0, Coordinates: points[0], IsDepot: true}}
	for i, d := range demands {
		nodes = append(nodes, domain.Node{ID: i + 1, Coordinates: points[i+1], Demand: d})
	}
	vehicles := make([]domain.Vehicle, len(capacities))
	for i, c := range capacities {
		vehicles[i] = domain.Vehicle{ID: i, Class: domain.VTOL, Capacities: c}
	}
	p, err := model.NewProblem(context.Background(), nodes, vehicles, dims,
		distance.NewMockMatrixProvider(points, meters))
	require.NoError(t, err)
	return p
}

func TestTryExtend_InclusiveCapacity(t *testing.T) {
	p := lineInstance(t, []float64{5, 5}, [][]float64{{10}}, []model.Dimension{model.CapacityDimension()})
	tr := NewTracker(p)

	c, ok := tr.TryExtend(0, tr.Start(), 0, 1, nil)
	require.True(t, ok)
	assert.Equal(t, []float64{5}, c)

	c, ok = tr.TryExtend(0, c, 1, 2, nil)
	require.True(t, ok, "capacity equal to total demand must be accepted")
	assert.Equal(t, []float64{10}, c)

	assert.True(t, tr.Feasible(0, []int{1, 2}))
}

func TestTryExtend_RejectsOverCapacity(t *testing.T) {
	p := lineInstance(t, []float64{6, 6}, [][]float64{{10}}, []model.Dimension{model.CapacityDimension()})
	tr := NewTracker(p)

	c, ok := tr.TryExtend(0, tr.Start(), 0, 1, nil)
	require.True(t, ok)
	_, ok = tr.TryExtend(0, c, 1, 2, nil)
	assert.False(t, ok)
	assert.False(t, tr.Feasible(0, []int{1, 2}))
	assert.True(t, tr.Feasible(0, []int{2}))
}

func TestTryExtend_AllDimensionsMustHold(t *testing.T) {
	dims := []model.Dimension{model.CapacityDimension(), model.EnergyDimensionOf(model.CapacityName)}
	// VTOL energy per metre is 0.2*payload + 3.
	// Route 0 -> 1 -> 0 with demand 5: 100*3 + 100*(5*0.2+3) = 700.
	p := lineInstance(t, []float64{5}, [][]float64{{10, 700}, {10, 699}}, dims)
	tr := NewTracker(p)

	assert.True(t, tr.Feasible(0, []int{1}))
	assert.False(t, tr.Feasible(1, []int{1}), "energy alone must reject")

	cumuls, err := tr.Cumuls(0, []int{1})
	require.NoError(t, err)
	require.Len(t, cumuls, 3)
	assert.Equal(t, []float64{0, 0}, cumuls[0])
	assert.InDeltaSlice(t, []float64{5, 300}, cumuls[1], 1e-9)
	assert.InDeltaSlice(t, []float64{5, 700}, cumuls[2], 1e-9)

	_, err = tr.Cumuls(1, []int{1})
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Contains(t, err.Error(), `"Energy"`)
}

func TestStart_IsZero(t *testing.T) {
	dims := []model.Dimension{model.CapacityDimension(), model.EnergyDimensionOf(model.CapacityName)}
	p := lineInstance(t, []float64{1}, [][]float64{{10, 10000}}, dims)
	tr := NewTracker(p)

	assert.Equal(t, []float64{0, 0}, tr.Start())
	cumuls, err := tr.Cumuls(0, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0}, {0, 0}}, cumuls)
}

func TestFeasible_NoDimensions(t *testing.T) {
	p := lineInstance(t, []float64{100, 100}, [][]float64{{}}, nil)
	tr := NewTracker(p)
	assert.True(t, tr.Feasible(0, []int{1, 2}))
}
