package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"donation-match-service/internal/domain"
)

type restaurantRepo struct {
	tx *sql.Tx
}

func (r *restaurantRepo) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	query := `
	SELECT id, name, lat, lng, active
	FROM restaurants
	WHERE id = $1;
	`

	var (
		rest     domain.Restaurant
		lat, lng sql.NullFloat64
		active   int
	)
	err := r.tx.QueryRowContext(ctx, query, id).Scan(&rest.ID, &rest.Name, &lat, &lng, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant: query row: %w", err)
	}

	rest.Active = active != 0
	if lat.Valid && lng.Valid {
		rest.Location = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &rest, nil
}

func (r *restaurantRepo) PartnerIDs(ctx context.Context, restaurantID string) ([]string, error) {
	query := `
	SELECT organization_id
	FROM partnerships
	WHERE restaurant_id = $1;
	`

	rows, err := r.tx.QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("partner ids: query partnerships table: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("partner ids: scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("partner ids: row iteration: %w", err)
	}

	return ids, nil
}
