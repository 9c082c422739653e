package postgres

import (
	"context"

	"github.com/avelarde/rentmap/internal/core/domain"
)

// LeaseRepo implements ports.LeaseRepository.
type LeaseRepo struct {
	db *DB
}

func NewLeaseRepo(db *DB) *LeaseRepo {
	return &LeaseRepo{db: db}
}

func (r *LeaseRepo) ListByProperty(ctx context.Context, propertyID string) ([]domain.Lease, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, property_id, tenant_id, start_date, end_date, rent, deposit
		FROM leases WHERE property_id = $1
		ORDER BY start_date
	`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []domain.Lease
	for rows.Next() {
		var l domain.Lease
		if err := rows.Scan(&l.ID, &l.PropertyID, &l.TenantID,
			&l.StartDate, &l.EndDate, &l.Rent, &l.Deposit); err != nil {
			return nil, err
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}
