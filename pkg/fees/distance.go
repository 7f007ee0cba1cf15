package fees

import (
	"fmt"
	"math"

	"github.com/chris/jastip-settlement/pkg/models"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometres between two points, rounded to 2 decimals.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push a just past 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(EarthRadiusKm*c*100) / 100
}

// DistanceKm returns the haversine distance between two coordinates.
// It panics if the computed distance is negative or not a number, which can only happen on corrupted input.
func DistanceKm(origin, dest models.Coordinate) float64 {
	km := Haversine(origin.Lat, origin.Lon, dest.Lat, dest.Lon)
	if math.IsNaN(km) || km < 0 {
		panic(fmt.Sprintf("fees: invalid distance %v between %+v and %+v", km, origin, dest))
	}
	return km
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
