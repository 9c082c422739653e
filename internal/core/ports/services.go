package ports

import (
	"context"

	"github.com/avelarde/rentmap/internal/core/domain"
)

// Geocoder resolves a street address to geographic coordinates.
// resolved is false when the lookup failed or returned no candidate; the
// returned point is then meaningless and callers choose their own fallback.
// Resolution failures are never fatal.
type Geocoder interface {
	Resolve(ctx context.Context, addr domain.Address) (point domain.GeoPoint, resolved bool)
}

// EventPublisher publishes listing events to a message broker.
type EventPublisher interface {
	PublishPropertyCreated(ctx context.Context, p *domain.Property) error
	PublishGeocodeUnresolved(ctx context.Context, propertyID string, locationID string, addr domain.Address) error
}

// CacheService provides read-through caching for aggregate endpoints.
// Search results and geocode responses are never cached.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
