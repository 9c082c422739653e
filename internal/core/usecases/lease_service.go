package usecases

import (
	"context"

	"github.com/avelarde/rentmap/internal/core/domain"
	"github.com/avelarde/rentmap/internal/core/ports"
)

// LeaseService exposes the read side of leases.
type LeaseService struct {
	leases ports.LeaseRepository
}

// NewLeaseService creates a new LeaseService.
func NewLeaseService(leases ports.LeaseRepository) *LeaseService {
	return &LeaseService{leases: leases}
}

// ListByProperty returns the leases on a property ordered by start date.
// An unknown property id yields an empty list, not an error.
func (s *LeaseService) ListByProperty(ctx context.Context, propertyID string) ([]domain.Lease, error) {
	return s.leases.ListByProperty(ctx, propertyID)
}
