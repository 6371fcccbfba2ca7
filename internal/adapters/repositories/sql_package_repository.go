package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"donation-match-service/internal/domain"
)

type packageRepo struct {
	tx *sql.Tx
}

const packageColumns = `
	p.id, p.restaurant_id, p.quantity, p.label_code, p.status, p.created_at, p.expires_at,
	i.id, i.name, i.unit
`

// ClaimInStock selects the claimable set, then applies the guarded update and
// verifies the affected count matches. Join rows of past donations stick
// around (the intent chain is never deleted), so the in_stock status is the
// single source of truth for what is claimable; a returned basket must be
// claimable again by a later release.
func (r *packageRepo) ClaimInStock(ctx context.Context, restaurantID string) ([]*domain.Package, error) {
	query := `
	SELECT ` + packageColumns + `
	FROM packages p
	JOIN items i ON i.id = p.item_id
	WHERE p.restaurant_id = $1 AND p.status = 'in_stock'
	ORDER BY p.id;
	`

	pkgs, err := r.queryPackages(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("claim in stock: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, nil
	}

	res, err := r.tx.ExecContext(ctx,
		`UPDATE packages SET status = 'committed' WHERE restaurant_id = $1 AND status = 'in_stock';`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("claim in stock: commit packages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("claim in stock: rows affected: %w", err)
	}
	// Select and update run in one transaction; a mismatch means the isolation
	// level failed us and the claim must not stand.
	if int(n) != len(pkgs) {
		return nil, fmt.Errorf("claim in stock: claimed %d of %d selected packages", n, len(pkgs))
	}

	for _, p := range pkgs {
		p.Status = domain.PackageCommitted
	}
	return pkgs, nil
}

func (r *packageRepo) ReleaseCommitted(ctx context.Context, donationID string) (int, error) {
	res, err := r.tx.ExecContext(ctx, `
	UPDATE packages SET status = 'in_stock'
	WHERE status = 'committed'
	  AND id IN (SELECT package_id FROM donation_packages WHERE donation_id = $1);
	`, donationID)
	if err != nil {
		return 0, fmt.Errorf("release committed: exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("release committed: rows affected: %w", err)
	}
	return int(n), nil
}

func (r *packageRepo) MarkDelivered(ctx context.Context, donationID string) ([]*domain.Package, error) {
	res, err := r.tx.ExecContext(ctx, `
	UPDATE packages SET status = 'delivered'
	WHERE status = 'committed'
	  AND id IN (SELECT package_id FROM donation_packages WHERE donation_id = $1);
	`, donationID)
	if err != nil {
		return nil, fmt.Errorf("mark delivered: exec: %w", err)
	}
	if _, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("mark delivered: rows affected: %w", err)
	}

	pkgs, err := r.ListByDonation(ctx, donationID)
	if err != nil {
		return nil, fmt.Errorf("mark delivered: %w", err)
	}
	return pkgs, nil
}

func (r *packageRepo) ListByDonation(ctx context.Context, donationID string) ([]*domain.Package, error) {
	query := `
	SELECT ` + packageColumns + `
	FROM packages p
	JOIN items i ON i.id = p.item_id
	JOIN donation_packages dp ON dp.package_id = p.id
	WHERE dp.donation_id = $1
	ORDER BY p.id;
	`

	pkgs, err := r.queryPackages(ctx, query, donationID)
	if err != nil {
		return nil, fmt.Errorf("list by donation: %w", err)
	}
	return pkgs, nil
}

func (r *packageRepo) queryPackages(ctx context.Context, query string, args ...any) ([]*domain.Package, error) {
	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query packages: %w", err)
	}
	defer rows.Close()

	pkgs := make([]*domain.Package, 0, 8)
	for rows.Next() {
		var (
			p       domain.Package
			status  string
			expires sql.NullTime
		)
		err := rows.Scan(
			&p.ID, &p.RestaurantID, &p.Quantity, &p.LabelCode, &status, &p.CreatedAt, &expires,
			&p.Item.ID, &p.Item.Name, &p.Item.Unit,
		)
		if err != nil {
			return nil, fmt.Errorf("scan package row: %w", err)
		}

		p.Status = domain.PackageStatus(status)
		if expires.Valid {
			t := expires.Time
			p.ExpiresAt = &t
		}
		pkgs = append(pkgs, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("package row iteration: %w", err)
	}

	return pkgs, nil
}
