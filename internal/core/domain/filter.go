package domain

import "time"

// FilterAny is the sentinel that disables the propertyType and amenities
// filters ("any" in the UI).
const FilterAny = "any"

// DefaultSearchRadiusKm is the radius applied when a search supplies a
// center point.
const DefaultSearchRadiusKm = 1000.0

// RawSearchFilter carries search parameters exactly as the transport layer
// received them. Numeric fields arrive as strings and are parsed by the
// service; invalid or empty values mean "no constraint", never an error.
type RawSearchFilter struct {
	FavoriteIDs   string `json:"favorite_ids"`
	PriceMin      string `json:"price_min"`
	PriceMax      string `json:"price_max"`
	Beds          string `json:"beds"`
	Baths         string `json:"baths"`
	PropertyType  string `json:"property_type"`
	SquareFeetMin string `json:"square_feet_min"`
	SquareFeetMax string `json:"square_feet_max"`
	Amenities     string `json:"amenities"`
	AvailableFrom string `json:"available_from"`
	Latitude      string `json:"latitude"`
	Longitude     string `json:"longitude"`
}

// SearchFilter is the normalized filter set. Nil pointers and empty slices
// mean the corresponding constraint is absent. Center is set only when both
// coordinates were supplied together.
type SearchFilter struct {
	FavoriteIDs   []string
	PriceMin      *float64
	PriceMax      *float64
	Beds          *int
	Baths         *int
	PropertyType  string
	SquareFeetMin *float64
	SquareFeetMax *float64
	Amenities     []string
	AvailableFrom *time.Time
	Center        *GeoPoint
}
