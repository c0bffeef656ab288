/*
Package geo provides the great-circle distance calculation used by the
proximity resolver.

The haversine formula with a fixed spherical Earth radius is accurate to well
under a meter at chat-range scale, which is all the proximity predicate needs.
*/
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two points
// given in decimal degrees (WGS84). The result is non-negative, symmetric in
// its arguments, and zero (up to floating-point precision) when the points
// coincide.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	// Floating-point error can push a just outside [0, 1], which would feed
	// Sqrt a negative argument for near-antipodal points. Clamp before atan2.
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}
