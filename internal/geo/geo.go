// Package geo provides the coordinate math for the coverage engine: the
// Lambert-93 projection of the survey dataset and great-circle distances.
package geo

// Point is a geographic coordinate pair in decimal degrees (WGS84).
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}
