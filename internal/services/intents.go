package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"donation-match-service/internal/domain"
	"donation-match-service/internal/platform/metrics"
	"donation-match-service/internal/platform/obs"
	"donation-match-service/internal/ports"
)

// Intents owns the lifecycle of individual offers: acceptance, denial, expiry
// and the automatic reroute to the next candidate. Closing one intent and
// opening its successor always happens in a single transaction, so no
// observer can see a donation with two open offers, or none while a reroute
// is in flight.
type Intents struct {
	Store    ports.Store
	Notifier ports.Notifier
	Metrics  metrics.Sink
	Log      zerolog.Logger
	Cfg      MatchConfig

	Now func() time.Time
}

const sweepBatchSize = 100

// Accept marks the intent accepted; this is terminal for the donation.
//
// An accept racing past the offer window first flips the intent to expired
// (with the usual reroute) and still reports INTENT_EXPIRED, never a stale
// success. That side effect commits even though the caller gets an error.
func (s *Intents) Accept(ctx context.Context, code domain.SecurityCode) (err error) {
	defer obs.Time(ctx, s.Log, "intents.accept")(&err)

	now := s.now()

	var lateExpiry bool
	var pending *ports.IntentNotification

	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		intent, err := tx.Intents().GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if intent.Terminal() {
			return domain.ErrIntentNotWaiting
		}

		if intent.ExpiredAt(now) {
			pending, err = s.closeAndReroute(ctx, tx, intent, domain.IntentExpired, now)
			if err != nil {
				return err
			}
			lateExpiry = true
			return nil
		}

		if err := tx.Intents().UpdateStatus(ctx, intent.ID, domain.IntentWaitingResponse, domain.IntentAccepted); err != nil {
			return err
		}

		s.Log.Info().
			Str("intent_id", intent.ID).
			Str("donation_id", intent.DonationID).
			Str("organization_id", intent.OrganizationID).
			Msg("intent accepted")
		return nil
	})
	if err != nil {
		return err
	}

	if lateExpiry {
		s.Metrics.RecordIntentTransition(string(domain.IntentExpired))
		dispatchNotification(ctx, s.Log, s.Notifier, pending)
		return domain.ErrIntentExpired
	}

	s.Metrics.RecordIntentTransition(string(domain.IntentAccepted))
	return nil
}

// Deny marks the intent denied and reroutes the donation to the next
// candidate. When no candidate remains the donation is terminally unmatched
// and its packages return to stock.
func (s *Intents) Deny(ctx context.Context, code domain.SecurityCode) (err error) {
	defer obs.Time(ctx, s.Log, "intents.deny")(&err)

	now := s.now()

	var pending *ports.IntentNotification

	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		intent, err := tx.Intents().GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if intent.Terminal() {
			return domain.ErrIntentNotWaiting
		}

		pending, err = s.closeAndReroute(ctx, tx, intent, domain.IntentDenied, now)
		return err
	})
	if err != nil {
		return err
	}

	s.Metrics.RecordIntentTransition(string(domain.IntentDenied))
	dispatchNotification(ctx, s.Log, s.Notifier, pending)
	return nil
}

// Expire applies the expiry transition to one intent. It is the callable unit
// behind the periodic sweep: a not-yet-due or already-closed intent is
// skipped quietly, since the sweep races against recipient actions by design.
func (s *Intents) Expire(ctx context.Context, code domain.SecurityCode) (err error) {
	defer obs.Time(ctx, s.Log, "intents.expire")(&err)

	now := s.now()

	var closed bool
	var pending *ports.IntentNotification

	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		intent, err := tx.Intents().GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if intent.Terminal() || !intent.ExpiredAt(now) {
			return nil
		}

		pending, err = s.closeAndReroute(ctx, tx, intent, domain.IntentExpired, now)
		if err != nil {
			return err
		}
		closed = true
		return nil
	})
	if err != nil {
		return err
	}

	if closed {
		s.Metrics.RecordIntentTransition(string(domain.IntentExpired))
		dispatchNotification(ctx, s.Log, s.Notifier, pending)
	}
	return nil
}

// SweepExpired closes every due intent, one transaction each so a single
// conflict cannot wedge the whole batch. Returns how many intents were due.
func (s *Intents) SweepExpired(ctx context.Context) (int, error) {
	now := s.now()

	var due []domain.SecurityCode
	err := s.Store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		due, err = tx.Intents().ListDue(ctx, now, sweepBatchSize)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("sweep expired: list due intents: %w", err)
	}

	closed := 0
	for _, code := range due {
		if err := s.Expire(ctx, code); err != nil {
			if errors.Is(err, domain.ErrIntentNotFound) {
				continue
			}
			s.Log.Error().Err(err).Str("security_code", code.String()).Msg("expire transition failed")
			continue
		}
		closed++
	}

	if closed > 0 {
		s.Metrics.RecordSweep(closed)
		s.Log.Info().Int("closed", closed).Msg("expiry sweep done")
	}
	return closed, nil
}

// closeAndReroute finishes one intent and, when candidates remain, opens the
// successor for the next-best organization inside the same transaction. On
// exhaustion the donation's packages revert to in_stock; that is a terminal
// outcome, not an error.
func (s *Intents) closeAndReroute(
	ctx context.Context,
	tx ports.Tx,
	intent *domain.Intent,
	terminal domain.IntentStatus,
	now time.Time,
) (*ports.IntentNotification, error) {
	if err := tx.Intents().UpdateStatus(ctx, intent.ID, domain.IntentWaitingResponse, terminal); err != nil {
		return nil, err
	}

	chain, err := tx.Intents().ListByDonation(ctx, intent.DonationID)
	if err != nil {
		return nil, fmt.Errorf("reroute: load intent chain: %w", err)
	}
	excluded := make(map[string]struct{}, len(chain))
	for _, prev := range chain {
		excluded[prev.OrganizationID] = struct{}{}
	}

	donation, err := tx.Donations().Get(ctx, intent.DonationID)
	if err != nil {
		return nil, fmt.Errorf("reroute: load donation: %w", err)
	}
	restaurant, err := tx.Restaurants().Get(ctx, donation.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("reroute: load restaurant: %w", err)
	}
	if restaurant.Location == nil {
		return nil, domain.ErrRestaurantNotFound
	}

	pool, radius, err := candidatePool(ctx, tx, donation.RestaurantID, s.Cfg)
	if err != nil {
		return nil, fmt.Errorf("reroute: %w", err)
	}

	candidate, err := SelectCandidate(*restaurant.Location, pool, excluded, radius)
	if errors.Is(err, domain.ErrNoOSCAvailable) {
		// Candidate chain exhausted: release the basket back to stock so a
		// future release can re-offer the packages.
		released, err := tx.Packages().ReleaseCommitted(ctx, intent.DonationID)
		if err != nil {
			return nil, fmt.Errorf("reroute: release packages: %w", err)
		}
		s.Log.Info().
			Str("donation_id", intent.DonationID).
			Int("packages", released).
			Msg("donation unmatched, inventory released")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	next, err := createIntent(ctx, tx, intent.DonationID, candidate.ID, now, s.Cfg.IntentTTL)
	if err != nil {
		return nil, fmt.Errorf("reroute: %w", err)
	}

	n, err := buildNotification(ctx, tx, next)
	if err != nil {
		return nil, fmt.Errorf("reroute: %w", err)
	}

	s.Log.Info().
		Str("donation_id", intent.DonationID).
		Str("closed_intent", intent.ID).
		Str("next_intent", next.ID).
		Str("organization_id", candidate.ID).
		Msg("donation rerouted")
	return &n, nil
}

func (s *Intents) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
