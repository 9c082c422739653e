package ports

import (
	"context"

	"github.com/avelarde/rentmap/internal/core/domain"
)

// PropertyRepository persists properties and their locations.
type PropertyRepository interface {
	// Search executes the filter set against the property/location join and
	// returns rows with their encoded location point and derived
	// availability date. Store ordering is preserved; no sort is imposed.
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Property, error)

	// GetByID returns a single property joined with its location.
	GetByID(ctx context.Context, id string) (*domain.Property, error)

	// Create inserts the location row and the property row referencing it as
	// one atomic unit. encodedPoint is the EWKT literal for the location's
	// coordinates.
	Create(ctx context.Context, p *domain.Property, encodedPoint string) error

	// UpdateLocationPoint replaces a location's coordinates, but only while
	// the stored point is still the origin sentinel. Used by the geocode
	// backfill worker. Returns the number of rows changed.
	UpdateLocationPoint(ctx context.Context, locationID, encodedPoint string) (int64, error)

	// Stats returns aggregate listing counts for the stats endpoint.
	Stats(ctx context.Context) (*domain.ListingStats, error)
}

// LeaseRepository reads leases.
type LeaseRepository interface {
	ListByProperty(ctx context.Context, propertyID string) ([]domain.Lease, error)
}
