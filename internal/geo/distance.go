package geo

import "math"

// Haversine calculates the great-circle distance between two geographic
// points in kilometers, on a sphere of Earth's mean radius.
func Haversine(p1, p2 Point) float64 {
	const R = 6371 // Earth radius in km

	phi1 := p1.Lat * deg
	phi2 := p2.Lat * deg
	dPhi := (p2.Lat - p1.Lat) * deg
	dLambda := (p2.Lon - p1.Lon) * deg

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}
