// Package geofence evaluates coordinates against a circular project boundary.
package geofence

import "math"

const earthRadiusMeters = 6371000.0

// Circle is a circular fence around a site center.
type Circle struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Result reports whether a coordinate is on site and how far it is from the
// fence center.
type Result struct {
	Inside         bool
	DistanceMeters float64
}

// Evaluate returns the fence verdict for a coordinate. It is a pure function:
// same inputs, same result.
func Evaluate(c Circle, lat, lon float64) Result {
	distance := Distance(c.Latitude, c.Longitude, lat, lon)
	return Result{
		Inside:         distance <= c.RadiusMeters,
		DistanceMeters: distance,
	}
}

// Distance computes the great-circle distance between two points in meters
// using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := lat1 * math.Pi / 180.0
	φ2 := lat2 * math.Pi / 180.0
	Δφ := (lat2 - lat1) * math.Pi / 180.0
	Δλ := (lon2 - lon1) * math.Pi / 180.0

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
