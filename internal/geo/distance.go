package geo

import "math"

// Distance returns the great-circle distance between two points in
// kilometers using the Haversine formula.
func Distance(a, b Coordinate) float64 {
	const earthRadiusKm = 6371

	lat1Rad := toRadians(a.Lat)
	lon1Rad := toRadians(a.Lon)
	lat2Rad := toRadians(b.Lat)
	lon2Rad := toRadians(b.Lon)

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
