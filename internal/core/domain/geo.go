package domain

// GeoPoint represents a geographic coordinate (WGS 84).
// Longitude is the x component, latitude the y component.
type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// IsOrigin reports whether the point is the (0,0) sentinel stored when an
// address could not be geocoded.
func (p GeoPoint) IsOrigin() bool {
	return p.Longitude == 0 && p.Latitude == 0
}

// Valid reports whether the point lies inside the WGS 84 coordinate range.
func (p GeoPoint) Valid() bool {
	return p.Longitude >= -180 && p.Longitude <= 180 &&
		p.Latitude >= -90 && p.Latitude <= 90
}

// Address is the street address sent to the geocoder.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}
