package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"donation-match-service/internal/domain"
	"donation-match-service/internal/platform/metrics"
	"donation-match-service/internal/platform/obs"
	"donation-match-service/internal/ports"
)

// Ledger owns the transactional creation of donations: claiming a
// restaurant's in-stock packages, picking the first recipient and opening the
// first intent, all as one atomic unit.
type Ledger struct {
	Store    ports.Store
	Notifier ports.Notifier
	Metrics  metrics.Sink
	Log      zerolog.Logger
	Cfg      MatchConfig

	// Now is swappable in tests; nil means time.Now.
	Now func() time.Time
}

type ReleaseResult struct {
	DonationID   string
	SecurityCode domain.SecurityCode
}

// Release claims every in_stock package of the restaurant, matches the
// nearest eligible organization and opens the first intent. Two concurrent
// calls for one restaurant can never commit the same package: the claim is a
// guarded update inside the transaction, so the loser sees an empty stock.
// The notification fires only after the transaction commits.
func (l *Ledger) Release(ctx context.Context, restaurantID string) (_ *ReleaseResult, err error) {
	defer obs.Time(ctx, l.Log, "ledger.release")(&err)

	now := l.now()

	var result ReleaseResult
	var pending *ports.IntentNotification

	err = l.Store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		pkgs, err := tx.Packages().ClaimInStock(ctx, restaurantID)
		if err != nil {
			return fmt.Errorf("release: claim packages: %w", err)
		}
		if len(pkgs) == 0 {
			return domain.ErrNoPackagesInStock
		}

		restaurant, err := tx.Restaurants().Get(ctx, restaurantID)
		if err != nil {
			return fmt.Errorf("release: load restaurant: %w", err)
		}
		if restaurant.Location == nil {
			return domain.ErrRestaurantNotFound
		}

		pool, radius, err := candidatePool(ctx, tx, restaurantID, l.Cfg)
		if err != nil {
			return fmt.Errorf("release: %w", err)
		}

		candidate, err := SelectCandidate(*restaurant.Location, pool, nil, radius)
		if err != nil {
			return err
		}

		donation := &domain.Donation{
			ID:           uuid.NewString(),
			RestaurantID: restaurantID,
			CreatedAt:    now,
		}
		ids := make([]string, 0, len(pkgs))
		for _, p := range pkgs {
			ids = append(ids, p.ID)
		}
		if err := tx.Donations().Create(ctx, donation, ids); err != nil {
			return fmt.Errorf("release: insert donation: %w", err)
		}

		intent, err := createIntent(ctx, tx, donation.ID, candidate.ID, now, l.Cfg.IntentTTL)
		if err != nil {
			return fmt.Errorf("release: %w", err)
		}

		n, err := buildNotification(ctx, tx, intent)
		if err != nil {
			return fmt.Errorf("release: %w", err)
		}
		pending = &n

		result = ReleaseResult{DonationID: donation.ID, SecurityCode: intent.SecurityCode}
		return nil
	})
	if err != nil {
		l.Metrics.RecordRelease(releaseOutcome(err))
		return nil, err
	}

	l.Metrics.RecordRelease("released")
	l.Log.Info().
		Str("donation_id", result.DonationID).
		Str("restaurant_id", restaurantID).
		Msg("donation released")

	dispatchNotification(ctx, l.Log, l.Notifier, pending)

	return &result, nil
}

func (l *Ledger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func releaseOutcome(err error) string {
	var derr *domain.Error
	if ok := asDomainError(err, &derr); ok {
		return derr.Code
	}
	return "error"
}
