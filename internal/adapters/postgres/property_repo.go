package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/avelarde/rentmap/internal/core/domain"
)

// searchProjection is shared by Search and GetByID: the property columns,
// the location payload, the encoded point, and the derived availability
// date. The point is projected as WKT text and decoded by the service; the
// MIN(start_date) subquery runs for every row regardless of whether the
// availability filter was applied.
const searchProjection = `
	SELECT p.id, p.manager_id, p.name, COALESCE(p.description, ''),
	       p.price_per_month, p.security_deposit, p.application_fee,
	       p.beds, p.baths, p.square_feet, p.property_type,
	       p.amenities, p.highlights, p.photo_urls,
	       p.is_pets_allowed, p.is_parking_included, p.posted_date,
	       l.id, l.address, l.city, l.state, l.country, l.postal_code,
	       ST_AsText(l.coordinates::geometry) AS point,
	       (SELECT MIN(le.start_date) FROM leases le WHERE le.property_id = p.id) AS available_from
	FROM properties p
	JOIN locations l ON p.location_id = l.id`

// PropertyRepo implements ports.PropertyRepository with pgx.
type PropertyRepo struct {
	db *DB
}

// NewPropertyRepo creates a new PropertyRepo.
func NewPropertyRepo(db *DB) *PropertyRepo {
	return &PropertyRepo{db: db}
}

// Search composes the filter's predicate fragments into one query against
// the property/location join and returns the matching rows. The store's row
// order is preserved; failures wrap as *domain.SearchExecutionError.
func (r *PropertyRepo) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Property, error) {
	where, args := composeWhere(BuildPredicates(filter), 1)

	rows, err := r.db.Pool.Query(ctx, searchProjection+where, args...)
	if err != nil {
		return nil, &domain.SearchExecutionError{Err: err}
	}
	defer rows.Close()

	var props []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, &domain.SearchExecutionError{Err: err}
		}
		props = append(props, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.SearchExecutionError{Err: err}
	}
	return props, nil
}

// GetByID returns a single property joined with its location.
func (r *PropertyRepo) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	row := r.db.Pool.QueryRow(ctx, searchProjection+` WHERE p.id = $1`, id)

	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get property %s: %w", id, err)
	}
	return p, nil
}

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var p domain.Property
	err := row.Scan(
		&p.ID, &p.ManagerID, &p.Name, &p.Description,
		&p.PricePerMonth, &p.SecurityDeposit, &p.ApplicationFee,
		&p.Beds, &p.Baths, &p.SquareFeet, &p.PropertyType,
		&p.Amenities, &p.Highlights, &p.PhotoURLs,
		&p.IsPetsAllowed, &p.IsParkingIncluded, &p.PostedDate,
		&p.Location.ID, &p.Location.Address, &p.Location.City,
		&p.Location.State, &p.Location.Country, &p.Location.PostalCode,
		&p.Location.RawPoint, &p.AvailableFrom,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the location row and the property row referencing it inside
// one transaction. If either insert fails both are rolled back and the error
// wraps as *domain.TransactionError.
func (r *PropertyRepo) Create(ctx context.Context, p *domain.Property, encodedPoint string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return &domain.TransactionError{Op: "begin", Err: err}
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO locations (id, address, city, state, country, postal_code, coordinates)
		VALUES ($1, $2, $3, $4, $5, $6, ST_GeogFromText($7))
	`, p.Location.ID, p.Location.Address, p.Location.City, p.Location.State,
		p.Location.Country, p.Location.PostalCode, encodedPoint)
	if err != nil {
		return &domain.TransactionError{Op: "insert location", Err: err}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO properties (id, manager_id, location_id, name, description,
		                        price_per_month, security_deposit, application_fee,
		                        beds, baths, square_feet, property_type,
		                        amenities, highlights, photo_urls,
		                        is_pets_allowed, is_parking_included, posted_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`, p.ID, p.ManagerID, p.Location.ID, p.Name, p.Description,
		p.PricePerMonth, p.SecurityDeposit, p.ApplicationFee,
		p.Beds, p.Baths, p.SquareFeet, p.PropertyType,
		p.Amenities, p.Highlights, p.PhotoURLs,
		p.IsPetsAllowed, p.IsParkingIncluded, p.PostedDate)
	if err != nil {
		return &domain.TransactionError{Op: "insert property", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &domain.TransactionError{Op: "commit", Err: err}
	}
	return nil
}

// UpdateLocationPoint replaces a location's coordinates with a later geocode
// resolution. The guard keeps it from overwriting a point that was resolved
// in the meantime: only the origin sentinel is replaced.
func (r *PropertyRepo) UpdateLocationPoint(ctx context.Context, locationID, encodedPoint string) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE locations
		SET coordinates = ST_GeogFromText($2)
		WHERE id = $1 AND ST_AsText(coordinates::geometry) = 'POINT(0 0)'
	`, locationID, encodedPoint)
	if err != nil {
		return 0, fmt.Errorf("update location point: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Stats returns aggregate listing counts.
func (r *PropertyRepo) Stats(ctx context.Context) (*domain.ListingStats, error) {
	var s domain.ListingStats
	row := r.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM properties),
			(SELECT count(*) FROM locations),
			(SELECT count(*) FROM leases),
			(SELECT count(*) FROM locations WHERE ST_AsText(coordinates::geometry) = 'POINT(0 0)'),
			COALESCE((SELECT max(posted_date)::text FROM properties), '')
	`)
	if err := row.Scan(&s.Properties, &s.Locations, &s.Leases, &s.Ungeocoded, &s.NewestListing); err != nil {
		return nil, fmt.Errorf("listing stats: %w", err)
	}
	return &s, nil
}
