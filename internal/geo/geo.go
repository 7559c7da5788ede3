// Package geo provides the small amount of spherical geometry the photo
// collection flow needs: great-circle distance, geofence containment and
// human-readable distance formatting.
package geo

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// coordinates, using the haversine formula.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Within reports whether the point (lat, lng) lies inside the circle of
// radiusMeters around (centerLat, centerLng). Points exactly on the boundary
// count as inside.
func Within(centerLat, centerLng, lat, lng, radiusMeters float64) bool {
	return Distance(centerLat, centerLng, lat, lng) <= radiusMeters
}

// FormatDistance renders a distance in meters as "850 m" below one kilometer
// and "1.2 km" above.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}
