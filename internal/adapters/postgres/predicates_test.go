package postgres

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/avelarde/rentmap/internal/core/domain"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestBuildPredicates_EmptyFilter(t *testing.T) {
	frags := BuildPredicates(domain.SearchFilter{})
	if len(frags) != 0 {
		t.Fatalf("expected no fragments, got %d", len(frags))
	}

	where, args := composeWhere(frags, 1)
	if where != "" || args != nil {
		t.Errorf("expected empty WHERE, got %q with %v", where, args)
	}
}

func TestBuildPredicates_AnySentinelSkipped(t *testing.T) {
	frags := BuildPredicates(domain.SearchFilter{PropertyType: "any"})
	if len(frags) != 0 {
		t.Errorf("propertyType=any should yield no fragment, got %d", len(frags))
	}
}

func TestBuildPredicates_PropertyType(t *testing.T) {
	frags := BuildPredicates(domain.SearchFilter{PropertyType: "Apartment"})
	if len(frags) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(frags))
	}
	if frags[0].Cond != "p.property_type = ?" {
		t.Errorf("cond = %q", frags[0].Cond)
	}
	if frags[0].Args[0] != "Apartment" {
		t.Errorf("args = %v", frags[0].Args)
	}
}

func TestBuildPredicates_BedsLowerBound(t *testing.T) {
	frags := BuildPredicates(domain.SearchFilter{Beds: iptr(2)})
	if len(frags) != 1 || frags[0].Cond != "p.beds >= ?" {
		t.Fatalf("unexpected fragments: %+v", frags)
	}
	if frags[0].Args[0] != 2 {
		t.Errorf("args = %v", frags[0].Args)
	}
}

func TestBuildPredicates_PriceRange(t *testing.T) {
	frags := BuildPredicates(domain.SearchFilter{
		PriceMin: fptr(1000),
		PriceMax: fptr(2000),
	})
	if len(frags) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(frags))
	}
	if frags[0].Cond != "p.price_per_month >= ?" || frags[1].Cond != "p.price_per_month <= ?" {
		t.Errorf("conds = %q, %q", frags[0].Cond, frags[1].Cond)
	}
}

func TestBuildPredicates_InvertedRangeAllowed(t *testing.T) {
	// min > max is permitted; it fails closed with an empty result set.
	frags := BuildPredicates(domain.SearchFilter{
		PriceMin: fptr(2000),
		PriceMax: fptr(1000),
	})
	if len(frags) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(frags))
	}
}

func TestBuildPredicates_Amenities(t *testing.T) {
	frags := BuildPredicates(domain.SearchFilter{Amenities: []string{"Pool", "Gym"}})
	if len(frags) != 1 || frags[0].Cond != "p.amenities @> ?" {
		t.Fatalf("unexpected fragments: %+v", frags)
	}
	got, ok := frags[0].Args[0].([]string)
	if !ok || len(got) != 2 {
		t.Errorf("args = %v", frags[0].Args)
	}
}

func TestBuildPredicates_AvailableFrom(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	frags := BuildPredicates(domain.SearchFilter{AvailableFrom: &date})
	if len(frags) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(frags))
	}
	if !strings.Contains(frags[0].Cond, "EXISTS") || !strings.Contains(frags[0].Cond, "le.start_date >= ?") {
		t.Errorf("cond = %q", frags[0].Cond)
	}
}

func TestBuildPredicates_Radius(t *testing.T) {
	frags := BuildPredicates(domain.SearchFilter{
		Center: &domain.GeoPoint{Longitude: -2.935, Latitude: 43.263},
	})
	if len(frags) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(frags))
	}
	f := frags[0]
	if !strings.Contains(f.Cond, "ST_DWithin") || !strings.Contains(f.Cond, "ST_SetSRID(ST_MakePoint(?, ?), 4326)") {
		t.Errorf("cond = %q", f.Cond)
	}
	if len(f.Args) != 3 {
		t.Fatalf("args = %v", f.Args)
	}
	if f.Args[0] != -2.935 || f.Args[1] != 43.263 {
		t.Errorf("center args = %v", f.Args[:2])
	}
	degrees, ok := f.Args[2].(float64)
	if !ok || math.Abs(degrees-1000.0/111.0) > 1e-9 {
		t.Errorf("degree radius = %v, want 1000/111", f.Args[2])
	}
}

func TestComposeWhere_RenumbersPlaceholders(t *testing.T) {
	frags := []Fragment{
		{"p.price_per_month >= ?", []any{1000.0}},
		{"ST_DWithin(l.coordinates::geometry, ST_SetSRID(ST_MakePoint(?, ?), 4326), ?)", []any{-2.9, 43.2, 9.0}},
	}

	where, args := composeWhere(frags, 1)
	want := " WHERE p.price_per_month >= $1 AND ST_DWithin(l.coordinates::geometry, ST_SetSRID(ST_MakePoint($2, $3), 4326), $4)"
	if where != want {
		t.Errorf("where = %q\nwant    %q", where, want)
	}
	if len(args) != 4 {
		t.Errorf("args = %v", args)
	}
}

func TestComposeWhere_StartOffset(t *testing.T) {
	frags := []Fragment{{"p.beds >= ?", []any{2}}}
	where, _ := composeWhere(frags, 3)
	if where != " WHERE p.beds >= $3" {
		t.Errorf("where = %q", where)
	}
}
