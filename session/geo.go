package session

import (
	"math"
	"time"
)

const earthRadiusKm = 6371.0

// maxTravelSpeedKmh is the fastest plausible legitimate movement between
// two observed logins. Commercial flight tops out around 900 km/h.
const maxTravelSpeedKmh = 1000.0

// Point is a geographic coordinate resolved from a request's network
// address by whatever geolocation source the caller uses.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Haversine returns the great-circle distance between two points in
// kilometers.
func Haversine(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// ImpossibleTravel reports whether moving between two observed locations in
// the given elapsed time would require faster-than-plausible travel. A
// non-positive elapsed time with any real distance is impossible by
// definition.
func ImpossibleTravel(from, to Point, elapsed time.Duration) bool {
	distance := Haversine(from, to)
	if distance < 1 {
		return false
	}
	if elapsed <= 0 {
		return true
	}
	speed := distance / elapsed.Hours()
	return speed > maxTravelSpeedKmh
}
