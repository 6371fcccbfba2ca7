package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"donation-match-service/internal/domain"
	"donation-match-service/internal/platform/metrics"
	"donation-match-service/internal/platform/obs"
	"donation-match-service/internal/ports"
)

// Pickup finalizes an accepted donation: packages go committed → delivered
// and the donation becomes terminally picked_up. Pickup happens exactly once.
type Pickup struct {
	Store   ports.Store
	Metrics metrics.Sink
	Log     zerolog.Logger

	Now func() time.Time
}

type PickupResult struct {
	DonationID string
	Packages   []*domain.Package
}

// Confirm requires the intent behind the code to be accepted. A repeat call
// after success fails with WRONG_STATUS; the guarded pickup timestamp makes
// the check race-safe.
func (p *Pickup) Confirm(ctx context.Context, code domain.SecurityCode) (_ *PickupResult, err error) {
	defer obs.Time(ctx, p.Log, "pickup.confirm")(&err)

	now := p.now()

	var result PickupResult

	err = p.Store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		intent, err := tx.Intents().GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if intent.Status != domain.IntentAccepted {
			return domain.ErrWrongStatus
		}

		if err := tx.Donations().MarkPickedUp(ctx, intent.DonationID, now); err != nil {
			return err
		}

		pkgs, err := tx.Packages().MarkDelivered(ctx, intent.DonationID)
		if err != nil {
			return fmt.Errorf("confirm pickup: deliver packages: %w", err)
		}

		result = PickupResult{DonationID: intent.DonationID, Packages: pkgs}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.Metrics.RecordPickup()
	p.Log.Info().
		Str("donation_id", result.DonationID).
		Int("packages", len(result.Packages)).
		Msg("pickup confirmed")
	return &result, nil
}

func (p *Pickup) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
