package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"donation-match-service/internal/domain"
)

type intentRepo struct {
	tx *sql.Tx
}

const intentColumns = `id, donation_id, organization_id, security_code, status, created_at, expires_at`

func (r *intentRepo) Create(ctx context.Context, i *domain.Intent) error {
	_, err := r.tx.ExecContext(ctx, `
	INSERT INTO donation_intents (`+intentColumns+`)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`,
		i.ID, i.DonationID, i.OrganizationID, i.SecurityCode.Reveal(), string(i.Status),
		i.CreatedAt.UTC(), i.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create intent: insert: %w", err)
	}
	return nil
}

func (r *intentRepo) GetByCode(ctx context.Context, code domain.SecurityCode) (*domain.Intent, error) {
	query := `
	SELECT ` + intentColumns + `
	FROM donation_intents
	WHERE security_code = $1;
	`

	intent, err := scanIntent(r.tx.QueryRowContext(ctx, query, code.Reveal()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrIntentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get intent by code: %w", err)
	}
	return intent, nil
}

func (r *intentRepo) ListByDonation(ctx context.Context, donationID string) ([]*domain.Intent, error) {
	query := `
	SELECT ` + intentColumns + `
	FROM donation_intents
	WHERE donation_id = $1
	ORDER BY created_at, id;
	`

	rows, err := r.tx.QueryContext(ctx, query, donationID)
	if err != nil {
		return nil, fmt.Errorf("list intents: query: %w", err)
	}
	defer rows.Close()

	intents := make([]*domain.Intent, 0, 4)
	for rows.Next() {
		intent, err := scanIntent(rows)
		if err != nil {
			return nil, fmt.Errorf("list intents: %w", err)
		}
		intents = append(intents, intent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list intents: row iteration: %w", err)
	}

	return intents, nil
}

// UpdateStatus is an optimistic guard: the transition only applies while the
// intent still holds the expected status, so a lost race surfaces instead of
// overwriting a concurrent transition.
func (r *intentRepo) UpdateStatus(ctx context.Context, id string, from, to domain.IntentStatus) error {
	res, err := r.tx.ExecContext(ctx,
		`UPDATE donation_intents SET status = $1 WHERE id = $2 AND status = $3;`,
		string(to), id, string(from),
	)
	if err != nil {
		return fmt.Errorf("update intent status: exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update intent status: rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrIntentNotWaiting
	}
	return nil
}

func (r *intentRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.SecurityCode, error) {
	query := `
	SELECT security_code
	FROM donation_intents
	WHERE status = 'waiting_response' AND expires_at < $1
	ORDER BY expires_at
	LIMIT $2;
	`

	rows, err := r.tx.QueryContext(ctx, query, now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list due intents: query: %w", err)
	}
	defer rows.Close()

	var codes []domain.SecurityCode
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("list due intents: scan row: %w", err)
		}
		codes = append(codes, domain.SecurityCode(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list due intents: row iteration: %w", err)
	}

	return codes, nil
}

func scanIntent(row rowScanner) (*domain.Intent, error) {
	var (
		i      domain.Intent
		code   string
		status string
	)
	if err := row.Scan(&i.ID, &i.DonationID, &i.OrganizationID, &code, &status, &i.CreatedAt, &i.ExpiresAt); err != nil {
		return nil, err
	}

	i.SecurityCode = domain.SecurityCode(code)
	i.Status = domain.IntentStatus(status)
	return &i, nil
}
