package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/avelarde/rentmap/internal/core/domain"
)

// SearchPropertiesHandler runs a filtered listing search. Every filter is
// optional and arrives as a raw query string; normalization happens in the
// service, so invalid values relax the search instead of rejecting it.
func SearchPropertiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := domain.RawSearchFilter{
			FavoriteIDs:   c.Query("favoriteIds"),
			PriceMin:      c.Query("priceMin"),
			PriceMax:      c.Query("priceMax"),
			Beds:          c.Query("beds"),
			Baths:         c.Query("baths"),
			PropertyType:  c.Query("propertyType"),
			SquareFeetMin: c.Query("squareFeetMin"),
			SquareFeetMax: c.Query("squareFeetMax"),
			Amenities:     c.Query("amenities"),
			AvailableFrom: c.Query("availableFrom"),
			Latitude:      c.Query("latitude"),
			Longitude:     c.Query("longitude"),
		}

		props, err := deps.Properties.Search(c.Context(), raw)
		if err != nil {
			return errInternal(c, err.Error())
		}

		// Offset/limit pagination over the result set; row order is preserved.
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		total := len(props)
		if offset >= total {
			props = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			props = props[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: props, Pagination: pg})
	}
}

// GetPropertyHandler returns a single property by ID.
func GetPropertyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "property id is required")
		}
		prop, err := deps.Properties.GetByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "property not found")
			}
			return errInternal(c, err.Error())
		}
		return c.JSON(prop)
	}
}

// createPropertyRequest is the POST /v1/properties payload.
type createPropertyRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	PricePerMonth     float64  `json:"price_per_month"`
	SecurityDeposit   float64  `json:"security_deposit"`
	ApplicationFee    float64  `json:"application_fee"`
	Beds              int      `json:"beds"`
	Baths             int      `json:"baths"`
	SquareFeet        float64  `json:"square_feet"`
	PropertyType      string   `json:"property_type"`
	Amenities         []string `json:"amenities"`
	Highlights        []string `json:"highlights"`
	PhotoURLs         []string `json:"photo_urls"`
	IsPetsAllowed     bool     `json:"is_pets_allowed"`
	IsParkingIncluded bool     `json:"is_parking_included"`
	Address           struct {
		Street     string `json:"street"`
		City       string `json:"city"`
		State      string `json:"state"`
		Country    string `json:"country"`
		PostalCode string `json:"postal_code"`
	} `json:"address"`
}

// CreatePropertyHandler creates a property plus its location in one unit.
// The calling manager is identified by the X-Manager-ID header. Geocoding
// happens inline; an unresolved address still creates the listing.
func CreatePropertyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		managerID := c.Get("X-Manager-ID")
		if managerID == "" {
			return errUnauthorized(c, "X-Manager-ID header is required")
		}

		var req createPropertyRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Name == "" {
			return errBadRequest(c, "name is required")
		}
		if req.Address.Street == "" || req.Address.City == "" {
			return errBadRequest(c, "address street and city are required")
		}

		prop := &domain.Property{
			Name:              req.Name,
			Description:       req.Description,
			PricePerMonth:     req.PricePerMonth,
			SecurityDeposit:   req.SecurityDeposit,
			ApplicationFee:    req.ApplicationFee,
			Beds:              req.Beds,
			Baths:             req.Baths,
			SquareFeet:        req.SquareFeet,
			PropertyType:      req.PropertyType,
			Amenities:         req.Amenities,
			Highlights:        req.Highlights,
			PhotoURLs:         req.PhotoURLs,
			IsPetsAllowed:     req.IsPetsAllowed,
			IsParkingIncluded: req.IsParkingIncluded,
		}
		addr := domain.Address{
			Street:     req.Address.Street,
			City:       req.Address.City,
			State:      req.Address.State,
			Country:    req.Address.Country,
			PostalCode: req.Address.PostalCode,
		}

		created, err := deps.Properties.Create(c.Context(), prop, addr, managerID)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.Status(201).JSON(created)
	}
}

// PropertyLeasesHandler lists the leases attached to a property.
func PropertyLeasesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "property id is required")
		}
		leases, err := deps.Leases.ListByProperty(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if leases == nil {
			leases = []domain.Lease{}
		}
		return c.JSON(leases)
	}
}

// ListingStatsHandler returns aggregate counts over the listing tables.
func ListingStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := deps.Properties.Stats(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}
