// Package geofence decides whether a reported position is close enough to an
// event to count as attendance.
package geofence

import (
	"math"

	"github.com/golang/geo/s2"
)

const (
	// EarthRadiusMiles is the sphere radius used by DistanceMiles.
	EarthRadiusMiles = 3959.0
	// RadiusMiles is the inclusive verification threshold.
	RadiusMiles = 0.1
)

// DistanceMiles returns the haversine great-circle distance between two
// points given in degrees.
func DistanceMiles(lat1, long1, lat2, long2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLong := toRadians(long2 - long1)
	sinLat := math.Sin(dLat / 2)
	sinLong := math.Sin(dLong / 2)

	a := sinLat*sinLat + math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*sinLong*sinLong
	// floating point can push a just outside [0,1] for antipodal points
	a = math.Max(0, math.Min(1, a))

	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(a))
}

// WithinRadius reports whether distance passes the threshold. Exactly
// RadiusMiles passes.
func WithinRadius(distance float64) bool {
	return distance <= RadiusMiles
}

// WithinGeofence reports whether the user position is within RadiusMiles of
// the event position.
func WithinGeofence(userLat, userLong, eventLat, eventLong float64) bool {
	return WithinRadius(DistanceMiles(userLat, userLong, eventLat, eventLong))
}

// ValidCoordinates reports whether lat/long form a usable position: finite,
// latitude within [-90, 90] and longitude within [-180, 180].
func ValidCoordinates(lat, long float64) bool {
	if math.IsNaN(lat) || math.IsNaN(long) || math.IsInf(lat, 0) || math.IsInf(long, 0) {
		return false
	}
	return s2.LatLngFromDegrees(lat, long).IsValid()
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
