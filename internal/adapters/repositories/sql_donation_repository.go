package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"donation-match-service/internal/domain"
)

type donationRepo struct {
	tx *sql.Tx
}

func (r *donationRepo) Create(ctx context.Context, d *domain.Donation, packageIDs []string) error {
	_, err := r.tx.ExecContext(ctx,
		`INSERT INTO donations (id, restaurant_id, created_at, picked_up_at) VALUES ($1, $2, $3, NULL);`,
		d.ID, d.RestaurantID, d.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create donation: insert: %w", err)
	}

	stmt, err := r.tx.PrepareContext(ctx,
		`INSERT INTO donation_packages (donation_id, package_id) VALUES ($1, $2);`,
	)
	if err != nil {
		return fmt.Errorf("create donation: prepare join insert: %w", err)
	}
	defer stmt.Close()

	for _, pkgID := range packageIDs {
		if _, err := stmt.ExecContext(ctx, d.ID, pkgID); err != nil {
			return fmt.Errorf("create donation: bind package %q: %w", pkgID, err)
		}
	}

	return nil
}

func (r *donationRepo) Get(ctx context.Context, id string) (*domain.Donation, error) {
	query := `
	SELECT id, restaurant_id, created_at, picked_up_at
	FROM donations
	WHERE id = $1;
	`

	var (
		d        domain.Donation
		pickedUp sql.NullTime
	)
	err := r.tx.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.RestaurantID, &d.CreatedAt, &pickedUp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get donation %q: not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get donation: query row: %w", err)
	}

	if pickedUp.Valid {
		t := pickedUp.Time
		d.PickedUpAt = &t
	}
	return &d, nil
}

// MarkPickedUp is guarded on the pickup timestamp still being empty, so two
// concurrent confirmations cannot both succeed.
func (r *donationRepo) MarkPickedUp(ctx context.Context, id string, at time.Time) error {
	res, err := r.tx.ExecContext(ctx,
		`UPDATE donations SET picked_up_at = $1 WHERE id = $2 AND picked_up_at IS NULL;`,
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark picked up: exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark picked up: rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrWrongStatus
	}
	return nil
}
