package suggest

import "math"

const earthRadiusMiles = 3959.0

// milesPerDegree is the length of one degree of latitude.
const milesPerDegree = earthRadiusMiles * math.Pi / 180

// Haversine calculates the great-circle distance in miles between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

// BoundingBox returns a box around a point that contains every point within
// radiusMiles. Longitudes may fall outside [-180, 180] near the antimeridian.
func BoundingBox(lat, lon, radiusMiles float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMiles / milesPerDegree

	lonDelta := 180.0
	if cos := math.Cos(toRad(lat)); cos > 1e-6 {
		lonDelta = math.Min(radiusMiles/(milesPerDegree*cos), 180)
	}

	return math.Max(lat-latDelta, -90), lon - lonDelta, math.Min(lat+latDelta, 90), lon + lonDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
