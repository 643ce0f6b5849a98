package matching

import (
	"math"

	"caregiver-matcher/internal/models"
)

// EarthRadiusMiles is the mean Earth radius used for great-circle distances.
const EarthRadiusMiles = 3959.0

// Distance returns the Haversine great-circle distance between a and b in miles.
// NaN inputs yield NaN.
func Distance(a, b models.Coordinates) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMiles * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// BoundingBox returns the lat/lon box that contains every point within radius
// miles of center. Repositories use it as a coarse prefilter before the exact
// distance check. Near the antimeridian minLon may fall below -180 or maxLon
// above 180; callers querying stored longitudes must wrap the overflow.
func BoundingBox(center models.Coordinates, radius float64) (minLat, maxLat, minLon, maxLon float64) {
	dLat := radius / EarthRadiusMiles * 180 / math.Pi
	minLat, maxLat = center.Latitude-dLat, center.Latitude+dLat

	cosLat := math.Cos(toRadians(center.Latitude))
	if cosLat < 1e-9 {
		return minLat, maxLat, -180, 180
	}
	dLon := dLat / cosLat
	if dLon >= 180 {
		return minLat, maxLat, -180, 180
	}
	return minLat, maxLat, center.Longitude - dLon, center.Longitude + dLon
}
