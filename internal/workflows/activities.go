package workflows

import (
	"context"
	"fmt"

	"github.com/avelarde/rentmap/internal/core/domain"
	"github.com/avelarde/rentmap/internal/core/ports"
	"github.com/avelarde/rentmap/internal/pkg/geospatial"
)

// ResolveResult carries the outcome of a geocode activity across the
// workflow boundary.
type ResolveResult struct {
	Point    domain.GeoPoint
	Resolved bool
}

// GeocodeActivities holds the activity implementations for the geocode
// backfill workflow.
type GeocodeActivities struct {
	Properties ports.PropertyRepository
	Geocoder   ports.Geocoder
}

// ResolveAddress asks the geocoding provider for the address's point. An
// unresolved answer is a normal result, not an activity error — the retry
// policy only covers transport failures surfaced by the client itself.
func (a *GeocodeActivities) ResolveAddress(ctx context.Context, addr domain.Address) (ResolveResult, error) {
	point, resolved := a.Geocoder.Resolve(ctx, addr)
	return ResolveResult{Point: point, Resolved: resolved}, nil
}

// UpdateLocationPoint writes the resolved point over the origin placeholder.
// Returns the number of rows changed: zero means the location was already
// geocoded and the write was skipped.
func (a *GeocodeActivities) UpdateLocationPoint(ctx context.Context, locationID string, point domain.GeoPoint) (int64, error) {
	n, err := a.Properties.UpdateLocationPoint(ctx, locationID, geospatial.EncodePoint(point))
	if err != nil {
		return 0, fmt.Errorf("update location %s: %w", locationID, err)
	}
	return n, nil
}
