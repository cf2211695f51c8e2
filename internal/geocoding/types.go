package geocoding

// featureCollection mirrors the GeoJSON payload returned by the BAN address
// API (api-adresse.data.gouv.fr).
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Geometry   geometry   `json:"geometry"`
	Properties properties `json:"properties"`
}

type geometry struct {
	// Coordinates is [longitude, latitude].
	Coordinates []float64 `json:"coordinates"`
}

type properties struct {
	City     string `json:"city"`
	Context  string `json:"context"`
	Label    string `json:"label"`
	Name     string `json:"name"`
	Postcode string `json:"postcode"`
	Street   string `json:"street"`
}

// Address is the trimmed reverse-geocoding result: only the fields the API
// surface exposes, absent ones omitted.
type Address struct {
	City     string `json:"city,omitempty"`
	Context  string `json:"context,omitempty"`
	Label    string `json:"label,omitempty"`
	Name     string `json:"name,omitempty"`
	Postcode string `json:"postcode,omitempty"`
	Street   string `json:"street,omitempty"`
}
