package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in kilometers between two
// points given in signed decimal degrees. The result is non-negative, zero
// for identical points, and symmetric in its arguments.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// FormatDistance renders a distance in kilometers for display.
// Sub-kilometer distances render in whole meters ("850m"); anything else
// renders with one decimal place ("12.3km").
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%.0fm", km*1000)
	}
	return fmt.Sprintf("%.1fkm", km)
}

// BoundingBox returns a box around a point with the given radius in
// kilometers. Used as a cheap prefilter before exact distance checks.
func BoundingBox(lat, lon, radiusKm float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusKm / 111.32
	lonDelta := radiusKm / (111.32 * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
