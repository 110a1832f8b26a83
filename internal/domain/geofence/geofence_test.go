package geofence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceToSelfIsZero(t *testing.T) {
	points := [][2]float64{{0, 0}, {40, -75}, {-33.8688, 151.2093}, {89.9, 179.9}, {-90, -180}}
	for _, p := range points {
		assert.Zero(t, DistanceMiles(p[0], p[1], p[0], p[1]), "point %v", p)
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	pairs := [][4]float64{
		{40, -75, 40.0015, -75},
		{35.2226, -97.4395, 41.8781, -87.6298},
		{-33.8688, 151.2093, 51.5074, -0.1278},
	}
	for _, p := range pairs {
		assert.Equal(t, DistanceMiles(p[0], p[1], p[2], p[3]), DistanceMiles(p[2], p[3], p[0], p[1]))
	}
}

func TestDistanceKnownValues(t *testing.T) {
	// one degree of latitude on a 3959 mi sphere
	assert.InDelta(t, 69.0976, DistanceMiles(0, 0, 1, 0), 0.001)
	assert.InDelta(t, 0.10365, DistanceMiles(40, -75, 40.0015, -75), 0.0001)
}

func TestDistanceAntipodalDoesNotNaN(t *testing.T) {
	d := DistanceMiles(0, 0, 0, 180)
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*EarthRadiusMiles, d, 1e-6)

	d = DistanceMiles(90, 0, -90, 0)
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*EarthRadiusMiles, d, 1e-6)
}

func TestWithinRadiusBoundary(t *testing.T) {
	assert.True(t, WithinRadius(0))
	assert.True(t, WithinRadius(0.1))
	assert.False(t, WithinRadius(0.1000001))
	assert.False(t, WithinRadius(12))
}

func TestWithinGeofence(t *testing.T) {
	assert.True(t, WithinGeofence(40, -75, 40, -75))
	assert.True(t, WithinGeofence(40.0007, -75, 40, -75))
	// ~0.1035 mi away
	assert.False(t, WithinGeofence(40.0015, -75, 40, -75))
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(40, -75))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.False(t, ValidCoordinates(91, 0))
	assert.False(t, ValidCoordinates(0, 181))
	assert.False(t, ValidCoordinates(math.NaN(), 0))
	assert.False(t, ValidCoordinates(0, math.Inf(1)))
}
