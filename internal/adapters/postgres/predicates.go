package postgres

import (
	"strconv"
	"strings"

	"github.com/avelarde/rentmap/internal/core/domain"
	"github.com/avelarde/rentmap/internal/pkg/geospatial"
)

// Fragment is one boolean condition over the property/location join row,
// with `?` placeholders for its bound arguments. Fragments are independent
// and commutative; they are only ever composed with AND.
type Fragment struct {
	Cond string
	Args []any
}

// BuildPredicates translates a normalized filter set into predicate
// fragments, one per populated field. An empty filter yields no fragments,
// meaning "match all". No range validation happens here: priceMin > priceMax
// is allowed and simply matches nothing.
func BuildPredicates(f domain.SearchFilter) []Fragment {
	var frags []Fragment

	if len(f.FavoriteIDs) > 0 {
		frags = append(frags, Fragment{"p.id = ANY(?)", []any{f.FavoriteIDs}})
	}

	if f.PriceMin != nil {
		frags = append(frags, Fragment{"p.price_per_month >= ?", []any{*f.PriceMin}})
	}
	if f.PriceMax != nil {
		frags = append(frags, Fragment{"p.price_per_month <= ?", []any{*f.PriceMax}})
	}

	// Zero means "any", not "zero or more"; normalization leaves the
	// pointer nil in that case, so a set pointer is always a constraint.
	if f.Beds != nil {
		frags = append(frags, Fragment{"p.beds >= ?", []any{*f.Beds}})
	}
	if f.Baths != nil {
		frags = append(frags, Fragment{"p.baths >= ?", []any{*f.Baths}})
	}

	if f.SquareFeetMin != nil {
		frags = append(frags, Fragment{"p.square_feet >= ?", []any{*f.SquareFeetMin}})
	}
	if f.SquareFeetMax != nil {
		frags = append(frags, Fragment{"p.square_feet <= ?", []any{*f.SquareFeetMax}})
	}

	if f.PropertyType != "" && f.PropertyType != domain.FilterAny {
		frags = append(frags, Fragment{"p.property_type = ?", []any{f.PropertyType}})
	}

	if len(f.Amenities) > 0 {
		frags = append(frags, Fragment{"p.amenities @> ?", []any{f.Amenities}})
	}

	if f.AvailableFrom != nil {
		frags = append(frags, Fragment{
			`EXISTS (SELECT 1 FROM leases le WHERE le.property_id = p.id AND le.start_date >= ?)`,
			[]any{*f.AvailableFrom},
		})
	}

	if f.Center != nil {
		degrees := geospatial.DegreesFromKilometers(domain.DefaultSearchRadiusKm)
		frags = append(frags, Fragment{
			`ST_DWithin(l.coordinates::geometry, ST_SetSRID(ST_MakePoint(?, ?), 4326), ?)`,
			[]any{f.Center.Longitude, f.Center.Latitude, degrees},
		})
	}

	return frags
}

// composeWhere joins fragments with AND and renumbers `?` placeholders into
// positional `$n` parameters starting at next. It returns the WHERE clause
// (empty string when there are no fragments) and the flattened args.
func composeWhere(frags []Fragment, next int) (string, []any) {
	if len(frags) == 0 {
		return "", nil
	}

	var args []any
	conds := make([]string, 0, len(frags))
	for _, f := range frags {
		cond := f.Cond
		for range f.Args {
			cond = strings.Replace(cond, "?", "$"+strconv.Itoa(next), 1)
			next++
		}
		conds = append(conds, cond)
		args = append(args, f.Args...)
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}
