package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

type RestaurantSeed struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	Active bool     `json:"active"`
}

type OrganizationSeed struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Active bool    `json:"active"`
}

type ItemSeed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type PackageSeed struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurant_id"`
	ItemID       string  `json:"item_id"`
	Quantity     float64 `json:"quantity"`
	LabelCode    string  `json:"label_code"`
}

type PartnershipSeed struct {
	RestaurantID   string `json:"restaurant_id"`
	OrganizationID string `json:"organization_id"`
}

type SeedFile struct {
	Restaurants   []RestaurantSeed   `json:"restaurants"`
	Organizations []OrganizationSeed `json:"organizations"`
	Items         []ItemSeed         `json:"items"`
	Packages      []PackageSeed      `json:"packages"`
	Partnerships  []PartnershipSeed  `json:"partnerships"`
}

// SeedFromJSON populates demo data for local runs. Existing rows with the
// same ids are replaced; packages always start in_stock.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	for i, r := range data.Restaurants {
		if strings.TrimSpace(r.ID) == "" {
			return fmt.Errorf("seed: restaurant at index %d: id cannot be empty", i)
		}
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO restaurants (id, name, lat, lng, active) VALUES ($1, $2, $3, $4, $5);`,
			r.ID, r.Name, r.Lat, r.Lng, boolToInt(r.Active),
		); err != nil {
			return fmt.Errorf("seed: insert restaurant %q: %w", r.ID, err)
		}
	}

	for i, o := range data.Organizations {
		if strings.TrimSpace(o.ID) == "" {
			return fmt.Errorf("seed: organization at index %d: id cannot be empty", i)
		}
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO organizations (id, name, lat, lng, active, last_received_at)
			 VALUES ($1, $2, $3, $4, $5, NULL);`,
			o.ID, o.Name, o.Lat, o.Lng, boolToInt(o.Active),
		); err != nil {
			return fmt.Errorf("seed: insert organization %q: %w", o.ID, err)
		}
	}

	for _, it := range data.Items {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO items (id, name, unit) VALUES ($1, $2, $3);`,
			it.ID, it.Name, it.Unit,
		); err != nil {
			return fmt.Errorf("seed: insert item %q: %w", it.ID, err)
		}
	}

	for _, p := range data.Packages {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO packages (id, restaurant_id, item_id, quantity, label_code, status, created_at, expires_at)
			 VALUES ($1, $2, $3, $4, $5, 'in_stock', $6, NULL);`,
			p.ID, p.RestaurantID, p.ItemID, p.Quantity, p.LabelCode, now,
		); err != nil {
			return fmt.Errorf("seed: insert package %q: %w", p.ID, err)
		}
	}

	for _, pt := range data.Partnerships {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO partnerships (restaurant_id, organization_id) VALUES ($1, $2);`,
			pt.RestaurantID, pt.OrganizationID,
		); err != nil {
			return fmt.Errorf("seed: insert partnership %s/%s: %w", pt.RestaurantID, pt.OrganizationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
