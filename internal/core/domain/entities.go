package domain

import (
	"time"
)

// Location is the stored address of a property plus its spatial point.
// A location row is written once at property creation and never updated,
// except that the geocode backfill worker may replace an origin-sentinel
// point with a later successful resolution.
type Location struct {
	ID         string   `json:"id"`
	Address    string   `json:"address"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Country    string   `json:"country"`
	PostalCode string   `json:"postal_code"`
	Point      GeoPoint `json:"coordinates"`

	// RawPoint is the WKT text as scanned from the store
	// (e.g. "POINT(-2.935 43.263)"). Decoded into Point by the service.
	RawPoint string `json:"-"`
}

// Property is a rental listing joined with its location.
type Property struct {
	ID                string    `json:"id"`
	ManagerID         string    `json:"manager_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	PricePerMonth     float64   `json:"price_per_month"`
	SecurityDeposit   float64   `json:"security_deposit"`
	ApplicationFee    float64   `json:"application_fee"`
	Beds              int       `json:"beds"`
	Baths             int       `json:"baths"`
	SquareFeet        float64   `json:"square_feet"`
	PropertyType      string    `json:"property_type"`
	Amenities         []string  `json:"amenities"`
	Highlights        []string  `json:"highlights,omitempty"`
	PhotoURLs         []string  `json:"photo_urls,omitempty"`
	IsPetsAllowed     bool      `json:"is_pets_allowed"`
	IsParkingIncluded bool      `json:"is_parking_included"`
	PostedDate        time.Time `json:"posted_date"`
	Location          Location  `json:"location"`

	// AvailableFrom is the earliest lease start date for this property,
	// computed per query response. Nil when the property has no leases.
	AvailableFrom *time.Time `json:"available_from,omitempty"`

	// Distance in meters from the search center. Set only on radius searches.
	Distance *float64 `json:"distance,omitempty"`
}

// ListingStats holds aggregate counts for the stats endpoint.
type ListingStats struct {
	Properties    int    `json:"properties"`
	Locations     int    `json:"locations"`
	Leases        int    `json:"leases"`
	Ungeocoded    int    `json:"ungeocoded"`
	NewestListing string `json:"newest_listing,omitempty"`
}

// Lease is a tenancy agreement on a property. Only the read side is modeled
// here; it feeds the availability subquery and the per-property listing.
type Lease struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	TenantID   string    `json:"tenant_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Rent       float64   `json:"rent"`
	Deposit    float64   `json:"deposit"`
}
