package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avelarde/rentmap/internal/core/domain"
	"github.com/avelarde/rentmap/internal/core/usecases"
)

// --- Mock PropertyRepository ---

type mockPropertyRepo struct {
	searchFn      func(ctx context.Context, filter domain.SearchFilter) ([]domain.Property, error)
	getByIDFn     func(ctx context.Context, id string) (*domain.Property, error)
	createFn      func(ctx context.Context, p *domain.Property, encodedPoint string) error
	updatePointFn func(ctx context.Context, locationID, encodedPoint string) (int64, error)
	statsFn       func(ctx context.Context) (*domain.ListingStats, error)
}

func (m *mockPropertyRepo) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Property, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockPropertyRepo) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPropertyRepo) Create(ctx context.Context, p *domain.Property, encodedPoint string) error {
	if m.createFn != nil {
		return m.createFn(ctx, p, encodedPoint)
	}
	return nil
}

func (m *mockPropertyRepo) UpdateLocationPoint(ctx context.Context, locationID, encodedPoint string) (int64, error) {
	if m.updatePointFn != nil {
		return m.updatePointFn(ctx, locationID, encodedPoint)
	}
	return 0, nil
}

func (m *mockPropertyRepo) Stats(ctx context.Context) (*domain.ListingStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &domain.ListingStats{}, nil
}

// --- Mock Geocoder ---

type mockGeocoder struct {
	point    domain.GeoPoint
	resolved bool
	calls    int
}

func (m *mockGeocoder) Resolve(ctx context.Context, addr domain.Address) (domain.GeoPoint, bool) {
	m.calls++
	return m.point, m.resolved
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	created    []string
	unresolved []string
}

func (m *mockPublisher) PublishPropertyCreated(ctx context.Context, p *domain.Property) error {
	m.created = append(m.created, p.ID)
	return nil
}

func (m *mockPublisher) PublishGeocodeUnresolved(ctx context.Context, propertyID, locationID string, addr domain.Address) error {
	m.unresolved = append(m.unresolved, propertyID)
	return nil
}

// --- Normalization ---

func TestNormalizeFilter_Empty(t *testing.T) {
	f := usecases.NormalizeFilter(domain.RawSearchFilter{})
	if f.PriceMin != nil || f.PriceMax != nil || f.Beds != nil || f.Baths != nil ||
		f.SquareFeetMin != nil || f.SquareFeetMax != nil ||
		f.AvailableFrom != nil || f.Center != nil ||
		len(f.FavoriteIDs) != 0 || len(f.Amenities) != 0 || f.PropertyType != "" {
		t.Errorf("expected empty filter, got %+v", f)
	}
}

func TestNormalizeFilter_ZeroMeansAny(t *testing.T) {
	f := usecases.NormalizeFilter(domain.RawSearchFilter{Beds: "0", Baths: "0", PriceMin: "0"})
	if f.Beds != nil || f.Baths != nil || f.PriceMin != nil {
		t.Errorf("zero values should mean no constraint, got %+v", f)
	}

	f = usecases.NormalizeFilter(domain.RawSearchFilter{Beds: "2"})
	if f.Beds == nil || *f.Beds != 2 {
		t.Errorf("beds=2 should constrain, got %+v", f.Beds)
	}
}

func TestNormalizeFilter_InvalidNumbersDropped(t *testing.T) {
	f := usecases.NormalizeFilter(domain.RawSearchFilter{
		PriceMin: "cheap", Beds: "several", SquareFeetMax: "",
	})
	if f.PriceMin != nil || f.Beds != nil || f.SquareFeetMax != nil {
		t.Errorf("invalid numerics should be dropped, got %+v", f)
	}
}

func TestNormalizeFilter_Lists(t *testing.T) {
	f := usecases.NormalizeFilter(domain.RawSearchFilter{
		FavoriteIDs: "a,b, c",
		Amenities:   "Pool,Gym",
	})
	if len(f.FavoriteIDs) != 3 || f.FavoriteIDs[2] != "c" {
		t.Errorf("favorite ids = %v", f.FavoriteIDs)
	}
	if len(f.Amenities) != 2 || f.Amenities[0] != "Pool" {
		t.Errorf("amenities = %v", f.Amenities)
	}
}

func TestNormalizeFilter_AmenitiesAnySentinel(t *testing.T) {
	f := usecases.NormalizeFilter(domain.RawSearchFilter{Amenities: "any"})
	if len(f.Amenities) != 0 {
		t.Errorf("amenities=any should yield no constraint, got %v", f.Amenities)
	}
}

func TestNormalizeFilter_CenterRequiresBothCoordinates(t *testing.T) {
	f := usecases.NormalizeFilter(domain.RawSearchFilter{Latitude: "43.263"})
	if f.Center != nil {
		t.Error("lone latitude must not form a center")
	}

	f = usecases.NormalizeFilter(domain.RawSearchFilter{Latitude: "43.263", Longitude: "-2.935"})
	if f.Center == nil {
		t.Fatal("expected center")
	}
	if f.Center.Longitude != -2.935 || f.Center.Latitude != 43.263 {
		t.Errorf("center = %+v", f.Center)
	}
}

func TestNormalizeFilter_UnparseableDateDropped(t *testing.T) {
	f := usecases.NormalizeFilter(domain.RawSearchFilter{AvailableFrom: "soonish"})
	if f.AvailableFrom != nil {
		t.Errorf("bad date should be dropped, got %v", f.AvailableFrom)
	}

	f = usecases.NormalizeFilter(domain.RawSearchFilter{AvailableFrom: "2026-03-01"})
	if f.AvailableFrom == nil || f.AvailableFrom.Year() != 2026 {
		t.Errorf("date = %v", f.AvailableFrom)
	}
}

// --- Search ---

func TestPropertyService_Search_DecodesPoints(t *testing.T) {
	repo := &mockPropertyRepo{
		searchFn: func(ctx context.Context, filter domain.SearchFilter) ([]domain.Property, error) {
			return []domain.Property{
				{ID: "1", Location: domain.Location{RawPoint: "POINT(-2.935 43.263)"}},
			}, nil
		},
	}

	svc := usecases.NewPropertyService(repo, &mockGeocoder{}, nil, nil)
	props, err := svc.Search(context.Background(), domain.RawSearchFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(props) != 1 {
		t.Fatalf("expected 1 property, got %d", len(props))
	}
	pt := props[0].Location.Point
	if pt.Longitude != -2.935 || pt.Latitude != 43.263 {
		t.Errorf("point = %+v", pt)
	}
}

func TestPropertyService_Search_MalformedPointFallsBack(t *testing.T) {
	repo := &mockPropertyRepo{
		searchFn: func(ctx context.Context, filter domain.SearchFilter) ([]domain.Property, error) {
			return []domain.Property{
				{ID: "1", Location: domain.Location{RawPoint: "garbage"}},
				{ID: "2", Location: domain.Location{RawPoint: "POINT(1 2)"}},
			}, nil
		},
	}

	svc := usecases.NewPropertyService(repo, &mockGeocoder{}, nil, nil)
	props, err := svc.Search(context.Background(), domain.RawSearchFilter{})
	if err != nil {
		t.Fatalf("one bad point must not fail the listing: %v", err)
	}
	if !props[0].Location.Point.IsOrigin() {
		t.Errorf("bad point should fall back to origin, got %+v", props[0].Location.Point)
	}
	if props[1].Location.Point.Longitude != 1 {
		t.Errorf("good point mangled: %+v", props[1].Location.Point)
	}
}

func TestPropertyService_Search_DistanceOnRadiusSearch(t *testing.T) {
	repo := &mockPropertyRepo{
		searchFn: func(ctx context.Context, filter domain.SearchFilter) ([]domain.Property, error) {
			if filter.Center == nil {
				t.Fatal("expected center in filter")
			}
			return []domain.Property{
				{ID: "1", Location: domain.Location{RawPoint: "POINT(-2.9288 43.2630)"}},
			}, nil
		},
	}

	svc := usecases.NewPropertyService(repo, &mockGeocoder{}, nil, nil)
	props, err := svc.Search(context.Background(), domain.RawSearchFilter{
		Latitude: "43.2609", Longitude: "-2.9253",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if props[0].Distance == nil {
		t.Fatal("expected distance on radius search")
	}
	if *props[0].Distance <= 0 || *props[0].Distance > 2000 {
		t.Errorf("distance = %v m", *props[0].Distance)
	}
}

func TestPropertyService_Search_ExecutionErrorPropagates(t *testing.T) {
	boom := &domain.SearchExecutionError{Err: errors.New("connection refused")}
	repo := &mockPropertyRepo{
		searchFn: func(ctx context.Context, filter domain.SearchFilter) ([]domain.Property, error) {
			return nil, boom
		},
	}

	svc := usecases.NewPropertyService(repo, &mockGeocoder{}, nil, nil)
	_, err := svc.Search(context.Background(), domain.RawSearchFilter{})
	var see *domain.SearchExecutionError
	if !errors.As(err, &see) {
		t.Fatalf("expected SearchExecutionError, got %v", err)
	}
}

// --- GetByID ---

func TestPropertyService_GetByID_NotFound(t *testing.T) {
	svc := usecases.NewPropertyService(&mockPropertyRepo{}, &mockGeocoder{}, nil, nil)
	_, err := svc.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPropertyService_GetByID_DecodesPoint(t *testing.T) {
	repo := &mockPropertyRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Property, error) {
			return &domain.Property{ID: id, Location: domain.Location{RawPoint: "POINT(2.5 -1.5)"}}, nil
		},
	}
	svc := usecases.NewPropertyService(repo, &mockGeocoder{}, nil, nil)
	p, err := svc.GetByID(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Location.Point.Longitude != 2.5 || p.Location.Point.Latitude != -1.5 {
		t.Errorf("point = %+v", p.Location.Point)
	}
}

// --- Create ---

func TestPropertyService_Create_ResolvedPoint(t *testing.T) {
	var gotEncoded string
	repo := &mockPropertyRepo{
		createFn: func(ctx context.Context, p *domain.Property, encodedPoint string) error {
			gotEncoded = encodedPoint
			return nil
		},
	}
	geo := &mockGeocoder{point: domain.GeoPoint{Longitude: -2.935, Latitude: 43.263}, resolved: true}
	pub := &mockPublisher{}

	svc := usecases.NewPropertyService(repo, geo, pub, nil)
	p, err := svc.Create(context.Background(),
		&domain.Property{Name: "Casco Viejo loft", PricePerMonth: 1500},
		domain.Address{Street: "Gran Via 1", City: "Bilbao", Country: "Spain", PostalCode: "48001"},
		"mgr-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotEncoded != "SRID=4326;POINT(-2.935 43.263)" {
		t.Errorf("encoded point = %q", gotEncoded)
	}
	if p.ID == "" || p.Location.ID == "" {
		t.Error("ids should be minted")
	}
	if p.ManagerID != "mgr-1" {
		t.Errorf("manager = %q", p.ManagerID)
	}
	if geo.calls != 1 {
		t.Errorf("geocoder calls = %d", geo.calls)
	}
	if len(pub.created) != 1 || len(pub.unresolved) != 0 {
		t.Errorf("events: created=%v unresolved=%v", pub.created, pub.unresolved)
	}
}

func TestPropertyService_Create_GeocodeFallback(t *testing.T) {
	var gotEncoded string
	repo := &mockPropertyRepo{
		createFn: func(ctx context.Context, p *domain.Property, encodedPoint string) error {
			gotEncoded = encodedPoint
			return nil
		},
	}
	pub := &mockPublisher{}

	svc := usecases.NewPropertyService(repo, &mockGeocoder{resolved: false}, pub, nil)
	p, err := svc.Create(context.Background(),
		&domain.Property{Name: "Nowhere flat"},
		domain.Address{Street: "Unknown 99", City: "Atlantis"},
		"mgr-1")
	if err != nil {
		t.Fatalf("geocode failure must not block creation: %v", err)
	}

	if gotEncoded != "SRID=4326;POINT(0 0)" {
		t.Errorf("encoded point = %q", gotEncoded)
	}
	if !p.Location.Point.IsOrigin() {
		t.Errorf("point = %+v", p.Location.Point)
	}
	if len(pub.unresolved) != 1 || pub.unresolved[0] != p.ID {
		t.Errorf("unresolved events = %v", pub.unresolved)
	}
}

func TestPropertyService_Create_TransactionErrorPropagates(t *testing.T) {
	repo := &mockPropertyRepo{
		createFn: func(ctx context.Context, p *domain.Property, encodedPoint string) error {
			return &domain.TransactionError{Op: "insert property", Err: errors.New("constraint violation")}
		},
	}
	pub := &mockPublisher{}

	svc := usecases.NewPropertyService(repo, &mockGeocoder{resolved: true}, pub, nil)
	_, err := svc.Create(context.Background(), &domain.Property{}, domain.Address{}, "mgr-1")

	var te *domain.TransactionError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransactionError, got %v", err)
	}
	if len(pub.created) != 0 {
		t.Error("no event should be published on a failed create")
	}
}

// --- Stats ---

type mapCache struct {
	data map[string][]byte
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func TestPropertyService_Stats_CachesResult(t *testing.T) {
	calls := 0
	repo := &mockPropertyRepo{
		statsFn: func(ctx context.Context) (*domain.ListingStats, error) {
			calls++
			return &domain.ListingStats{Properties: 7}, nil
		},
	}

	svc := usecases.NewPropertyService(repo, &mockGeocoder{}, nil, &mapCache{data: map[string][]byte{}})

	for i := 0; i < 3; i++ {
		stats, err := svc.Stats(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.Properties != 7 {
			t.Errorf("properties = %d", stats.Properties)
		}
	}
	if calls != 1 {
		t.Errorf("repo calls = %d, want 1 (cached)", calls)
	}
}

// --- Leases ---

type mockLeaseRepo struct {
	listFn func(ctx context.Context, propertyID string) ([]domain.Lease, error)
}

func (m *mockLeaseRepo) ListByProperty(ctx context.Context, propertyID string) ([]domain.Lease, error) {
	if m.listFn != nil {
		return m.listFn(ctx, propertyID)
	}
	return nil, nil
}

func TestLeaseService_ListByProperty(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockLeaseRepo{
		listFn: func(ctx context.Context, propertyID string) ([]domain.Lease, error) {
			return []domain.Lease{{ID: "l1", PropertyID: propertyID, StartDate: start}}, nil
		},
	}

	svc := usecases.NewLeaseService(repo)
	leases, err := svc.ListByProperty(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leases) != 1 || leases[0].PropertyID != "p1" {
		t.Errorf("leases = %+v", leases)
	}
}
