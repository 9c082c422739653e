package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avelarde/rentmap/internal/core/domain"
	"github.com/avelarde/rentmap/internal/core/ports"
	"github.com/avelarde/rentmap/internal/pkg/geospatial"
	"github.com/avelarde/rentmap/internal/pkg/metrics"
)

// PropertyService orchestrates property search and creation: it normalizes
// raw filter input, decodes stored points, and sequences geocoding before
// the transactional write.
type PropertyService struct {
	properties ports.PropertyRepository
	geocoder   ports.Geocoder
	events     ports.EventPublisher
	cache      ports.CacheService
}

// NewPropertyService creates a new PropertyService. events and cache may be
// nil; both are best-effort collaborators.
func NewPropertyService(properties ports.PropertyRepository, geocoder ports.Geocoder,
	events ports.EventPublisher, cache ports.CacheService) *PropertyService {
	return &PropertyService{properties: properties, geocoder: geocoder, events: events, cache: cache}
}

// Search normalizes the raw filter set, runs the spatial query, and decodes
// every result's point. Invalid optional fields are dropped, never rejected.
// The store's row order is preserved.
func (s *PropertyService) Search(ctx context.Context, raw domain.RawSearchFilter) ([]domain.Property, error) {
	filter := NormalizeFilter(raw)

	metrics.SearchesTotal.Inc()
	start := time.Now()
	props, err := s.properties.Search(ctx, filter)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	for i := range props {
		s.decodePoint(ctx, &props[i])
		if filter.Center != nil {
			d := geospatial.Haversine(
				filter.Center.Latitude, filter.Center.Longitude,
				props[i].Location.Point.Latitude, props[i].Location.Point.Longitude,
			)
			props[i].Distance = &d
		}
	}
	return props, nil
}

// GetByID returns a single property with its point decoded.
// Returns domain.ErrNotFound when no row matches.
func (s *PropertyService) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decodePoint(ctx, p)
	return p, nil
}

// Create geocodes the address, encodes the resulting point, and persists the
// location and property rows as one atomic unit. A failed geocode never
// blocks creation: the origin sentinel is stored instead and an unresolved
// event is emitted so the backfill worker can retry asynchronously.
func (s *PropertyService) Create(ctx context.Context, p *domain.Property, addr domain.Address, managerID string) (*domain.Property, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.ManagerID = managerID
	if p.PostedDate.IsZero() {
		p.PostedDate = time.Now().UTC()
	}
	p.Location = domain.Location{
		ID:         uuid.NewString(),
		Address:    addr.Street,
		City:       addr.City,
		State:      addr.State,
		Country:    addr.Country,
		PostalCode: addr.PostalCode,
	}

	point, resolved := s.geocoder.Resolve(ctx, addr)
	if !resolved {
		point = domain.GeoPoint{}
		slog.Warn("geocode unresolved, storing origin point",
			"property_id", p.ID, "city", addr.City)
	}
	p.Location.Point = point

	if err := s.properties.Create(ctx, p, geospatial.EncodePoint(point)); err != nil {
		return nil, err
	}
	metrics.PropertiesCreated.Inc()

	if s.events != nil {
		if err := s.events.PublishPropertyCreated(ctx, p); err != nil {
			slog.Warn("publish property created failed", "property_id", p.ID, "error", err)
		}
		if !resolved {
			if err := s.events.PublishGeocodeUnresolved(ctx, p.ID, p.Location.ID, addr); err != nil {
				slog.Warn("publish geocode unresolved failed", "property_id", p.ID, "error", err)
			}
		}
	}

	return p, nil
}

// Stats returns aggregate listing counts, cached briefly since the numbers
// only move on writes.
func (s *PropertyService) Stats(ctx context.Context) (*domain.ListingStats, error) {
	const cacheKey = "listings:stats"
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var stats domain.ListingStats
			if err := json.Unmarshal(data, &stats); err == nil {
				metrics.CacheHits.WithLabelValues("stats").Inc()
				return &stats, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("stats").Inc()
	}

	stats, err := s.properties.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}
	return stats, nil
}

// decodePoint parses the row's stored WKT text into Location.Point. A
// malformed point is reported and replaced with the origin so one bad record
// never fails a listing.
func (s *PropertyService) decodePoint(ctx context.Context, p *domain.Property) {
	point, err := geospatial.DecodePoint(p.Location.RawPoint)
	if err != nil {
		var mpe *domain.MalformedPointError
		if errors.As(err, &mpe) {
			metrics.MalformedPoints.Inc()
		}
		slog.WarnContext(ctx, "stored point failed decoding",
			"property_id", p.ID, "location_id", p.Location.ID, "error", err)
		point = domain.GeoPoint{}
	}
	p.Location.Point = point
}

// NormalizeFilter turns the transport layer's raw string parameters into a
// typed filter set. Empty or unparseable optional fields become "no
// constraint"; a zero value on numeric fields likewise means "any",
// mirroring the UI convention. A center requires longitude and latitude
// together — a lone coordinate is ignored.
func NormalizeFilter(raw domain.RawSearchFilter) domain.SearchFilter {
	f := domain.SearchFilter{
		FavoriteIDs:   splitList(raw.FavoriteIDs),
		PriceMin:      parseOptFloat(raw.PriceMin),
		PriceMax:      parseOptFloat(raw.PriceMax),
		Beds:          parseOptInt(raw.Beds),
		Baths:         parseOptInt(raw.Baths),
		PropertyType:  strings.TrimSpace(raw.PropertyType),
		SquareFeetMin: parseOptFloat(raw.SquareFeetMin),
		SquareFeetMax: parseOptFloat(raw.SquareFeetMax),
		AvailableFrom: parseOptDate(raw.AvailableFrom),
	}

	if a := strings.TrimSpace(raw.Amenities); a != "" && a != domain.FilterAny {
		f.Amenities = splitList(a)
	}

	lat := parseOptFloat(raw.Latitude)
	lon := parseOptFloat(raw.Longitude)
	if lat != nil && lon != nil {
		f.Center = &domain.GeoPoint{Longitude: *lon, Latitude: *lat}
	}

	return f
}

func parseOptFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == 0 {
		return nil
	}
	return &v
}

func parseOptInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v == 0 {
		return nil
	}
	return &v
}

// parseOptDate accepts a date or RFC 3339 timestamp; anything else silently
// yields no constraint.
func parseOptDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == domain.FilterAny {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
