package geolocation

import (
	"math"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
)

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance between two points in kilometers
// using the haversine formula.
func Distance(from, to entities.Location) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	deltaLat := (to.Latitude - from.Latitude) * math.Pi / 180
	deltaLon := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
