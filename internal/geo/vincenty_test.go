package geo

import (
	"testing"

	"drone-route-service/internal/domain"

	orbgeo "github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_FlindersPeakToBuninyong(t *testing.T) {
	flinders := domain.Coordinates{Lat: -37.95103342, Lon: 144.42486789}
	buninyong := domain.Coordinates{Lat: -37.65282114, Lon: 143.92649554}

	d, err := Distance(flinders, buninyong)
	require.NoError(t, err)
	assert.InDelta(t, 54972.271, d, 0.01)
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]domain.Coordinates{
		{{Lat: 35.5308, Lon: 139.7029}, {Lat: 35.5760, Lon: 139.6596}},
		{{Lat: 55.7558, Lon: 37.6176}, {Lat: 59.9343, Lon: 30.3351}},
		{{Lat: -33.8688, Lon: 151.2093}, {Lat: 51.5074, Lon: -0.1278}},
		{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 90}},
	}
	for _, p := range pairs {
		ab, err := Distance(p[0], p[1])
		require.NoError(t, err)
		ba, err := Distance(p[1], p[0])
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
		assert.Greater(t, ab, 0.0)
	}
}

func TestDistance_SamePoint(t *testing.T) {
	p := domain.Coordinates{Lat: 35.5308, Lon: 139.7029}
	d, err := Distance(p, p)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, d, 1e-9)
}

func TestDistance_CloseToHaversine(t *testing.T) {
	moscow := domain.Coordinates{Lat: 55.7558, Lon: 37.6176}
	spb := domain.Coordinates{Lat: 59.9343, Lon: 30.3351}

	d, err := Distance(moscow, spb)
	require.NoError(t, err)
	h := orbgeo.DistanceHaversine(moscow.Point(), spb.Point())
	assert.InEpsilon(t, h, d, 0.005)
}

func TestDistance_NearlyAntipodalFallsBack(t *testing.T) {
	a := domain.Coordinates{Lat: 0, Lon: 0}
	b := domain.Coordinates{Lat: 0.5, Lon: 179.7}

	d, err := Distance(a, b)
	require.NoError(t, err)
	assert.Greater(t, d, 19_000_000.0)
	assert.Less(t, d, 20_100_000.0)
}

func TestDistance_InvalidCoordinate(t *testing.T) {
	_, err := Distance(domain.Coordinates{Lat: 91, Lon: 0}, domain.Coordinates{})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinate)

	_, err = Distance(domain.Coordinates{}, domain.Coordinates{Lat: 0, Lon: 200})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinate)
}
