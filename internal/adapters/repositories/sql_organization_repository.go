package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"donation-match-service/internal/domain"
)

type organizationRepo struct {
	tx *sql.Tx
}

func (r *organizationRepo) Get(ctx context.Context, id string) (*domain.Organization, error) {
	query := `
	SELECT id, name, lat, lng, active, last_received_at
	FROM organizations
	WHERE id = $1;
	`

	org, err := scanOrganization(r.tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get organization %q: not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

func (r *organizationRepo) ListActive(ctx context.Context) ([]*domain.Organization, error) {
	query := `
	SELECT id, name, lat, lng, active, last_received_at
	FROM organizations
	WHERE active = 1
	ORDER BY id;
	`

	rows, err := r.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active organizations: query: %w", err)
	}
	defer rows.Close()

	orgs := make([]*domain.Organization, 0, 16)
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("list active organizations: %w", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active organizations: row iteration: %w", err)
	}

	return orgs, nil
}

func (r *organizationRepo) SetLastReceived(ctx context.Context, id string, at time.Time) error {
	res, err := r.tx.ExecContext(ctx,
		`UPDATE organizations SET last_received_at = $1 WHERE id = $2;`,
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set last received: exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set last received: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set last received: organization %q not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (*domain.Organization, error) {
	var (
		org    domain.Organization
		active int
		last   sql.NullTime
	)
	if err := row.Scan(&org.ID, &org.Name, &org.Location.Lat, &org.Location.Lng, &active, &last); err != nil {
		return nil, err
	}

	org.Active = active != 0
	if last.Valid {
		t := last.Time
		org.LastReceivedAt = &t
	}
	return &org, nil
}
