package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"donation-match-service/internal/ports"
)

// Driver flavors accepted by the store. SQLite serializes writers on its own;
// Postgres transactions are opened serializable so read-then-write sequences
// cannot interleave.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLStore implements the unit-of-work port over database/sql. The same SQL
// runs on both drivers: placeholders are $1..$N, each used once in order, and
// no driver-specific syntax is used.
type SQLStore struct {
	db     *sql.DB
	driver string
}

func NewSQLStore(db *sql.DB, driver string) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("sql store: db is nil")
	}
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("sql store: unknown driver %q", driver)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

// WithinTx runs fn inside one transaction, committing only when fn returns
// nil. Domain errors pass through unwrapped so callers can branch on codes.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	opts := &sql.TxOptions{}
	if s.driver == DriverPostgres {
		opts.Isolation = sql.LevelSerializable
	}

	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("within tx: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, &sqlTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("within tx: commit: %w", err)
	}
	return nil
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Restaurants() ports.RestaurantRepository     { return &restaurantRepo{tx: t.tx} }
func (t *sqlTx) Organizations() ports.OrganizationRepository { return &organizationRepo{tx: t.tx} }
func (t *sqlTx) Packages() ports.PackageRepository           { return &packageRepo{tx: t.tx} }
func (t *sqlTx) Donations() ports.DonationRepository         { return &donationRepo{tx: t.tx} }
func (t *sqlTx) Intents() ports.IntentRepository             { return &intentRepo{tx: t.tx} }
