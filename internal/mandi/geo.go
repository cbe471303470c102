// internal/mandi/geo.go
package mandi

import "math"

// EarthRadiusKM is the mean Earth radius used by DistanceKm.
const EarthRadiusKM = 6371.0

// GeoPoint is a coordinate in decimal degrees. Values are not range checked.
type GeoPoint struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lng" yaml:"lng"`
}

// DistanceKm returns the great-circle distance between two points using the
// Haversine formula, rounded to one decimal place.
//
//	a = sin²(Δφ/2) + cos φ1 ⋅ cos φ2 ⋅ sin²(Δλ/2)
//	c = 2 ⋅ atan2(√a, √(1−a))
//	d = R ⋅ c
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return roundTo1(EarthRadiusKM * c)
}

// Distance is DistanceKm between two points.
func Distance(from, to GeoPoint) float64 {
	return DistanceKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// roundTo1 rounds to one decimal place, ties toward positive infinity.
func roundTo1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// roundHalfUp rounds to an integer, ties toward positive infinity, so
// -2.5 becomes -2 and 2.5 becomes 3.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
