package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"donation-match-service/internal/domain"
	"donation-match-service/internal/ports"
)

// PartnerFilter policies for restaurants with an explicit partner whitelist.
const (
	// PartnerFilterStrict applies the radius bound to the partner pool as
	// well. Inactive organizations are always filtered regardless of policy.
	PartnerFilterStrict = "strict"
	// PartnerFilterBypass offers to partners at any distance.
	PartnerFilterBypass = "bypass"
)

// MatchConfig tunes candidate selection and the offer window.
type MatchConfig struct {
	RadiusKm      float64
	PartnerFilter string
	IntentTTL     time.Duration
}

const maxCodeAttempts = 5

// candidatePool assembles the organizations eligible for one restaurant plus
// the effective radius bound. If the restaurant has explicit partners the
// pool is restricted to them; otherwise it is all active organizations.
func candidatePool(ctx context.Context, tx ports.Tx, restaurantID string, cfg MatchConfig) ([]*domain.Organization, float64, error) {
	orgs, err := tx.Organizations().ListActive(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("candidate pool: list active organizations: %w", err)
	}

	partners, err := tx.Restaurants().PartnerIDs(ctx, restaurantID)
	if err != nil {
		return nil, 0, fmt.Errorf("candidate pool: list partners: %w", err)
	}
	if len(partners) == 0 {
		return orgs, cfg.RadiusKm, nil
	}

	allowed := make(map[string]struct{}, len(partners))
	for _, id := range partners {
		allowed[id] = struct{}{}
	}

	pool := make([]*domain.Organization, 0, len(partners))
	for _, org := range orgs {
		if _, ok := allowed[org.ID]; ok {
			pool = append(pool, org)
		}
	}

	radius := cfg.RadiusKm
	if cfg.PartnerFilter == PartnerFilterBypass {
		radius = 0
	}
	return pool, radius, nil
}

// createIntent inserts a fresh waiting_response intent with a unique security
// code, regenerating on the rare collision, and bumps the organization's
// fairness cursor.
func createIntent(ctx context.Context, tx ports.Tx, donationID, orgID string, now time.Time, ttl time.Duration) (*domain.Intent, error) {
	var code domain.SecurityCode
	for attempt := 0; ; attempt++ {
		if attempt == maxCodeAttempts {
			return nil, fmt.Errorf("create intent: no unique security code after %d attempts", maxCodeAttempts)
		}

		candidate, err := domain.NewSecurityCode()
		if err != nil {
			return nil, fmt.Errorf("create intent: %w", err)
		}

		_, err = tx.Intents().GetByCode(ctx, candidate)
		if errors.Is(err, domain.ErrIntentNotFound) {
			code = candidate
			break
		}
		if err != nil {
			return nil, fmt.Errorf("create intent: check code uniqueness: %w", err)
		}
	}

	intent := &domain.Intent{
		ID:             uuid.NewString(),
		DonationID:     donationID,
		OrganizationID: orgID,
		SecurityCode:   code,
		Status:         domain.IntentWaitingResponse,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
	}
	if err := tx.Intents().Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("create intent: insert: %w", err)
	}

	if err := tx.Organizations().SetLastReceived(ctx, orgID, now); err != nil {
		return nil, fmt.Errorf("create intent: bump fairness cursor: %w", err)
	}

	return intent, nil
}

// buildNotification resolves the display names the dispatcher needs.
func buildNotification(ctx context.Context, tx ports.Tx, intent *domain.Intent) (ports.IntentNotification, error) {
	donation, err := tx.Donations().Get(ctx, intent.DonationID)
	if err != nil {
		return ports.IntentNotification{}, fmt.Errorf("build notification: load donation: %w", err)
	}

	restaurant, err := tx.Restaurants().Get(ctx, donation.RestaurantID)
	if err != nil {
		return ports.IntentNotification{}, fmt.Errorf("build notification: load restaurant: %w", err)
	}

	org, err := tx.Organizations().Get(ctx, intent.OrganizationID)
	if err != nil {
		return ports.IntentNotification{}, fmt.Errorf("build notification: load organization: %w", err)
	}

	return ports.IntentNotification{
		IntentID:     intent.ID,
		DonationID:   intent.DonationID,
		Restaurant:   restaurant.Name,
		Organization: org.Name,
		SecurityCode: intent.SecurityCode,
		ExpiresAt:    intent.ExpiresAt,
	}, nil
}

func asDomainError(err error, target **domain.Error) bool {
	return errors.As(err, target)
}

// dispatchNotification fires the dispatcher after the owning transaction has
// committed. Failure is logged and dropped: the intent state is already
// durable and must not be affected.
func dispatchNotification(ctx context.Context, log zerolog.Logger, notifier ports.Notifier, n *ports.IntentNotification) {
	if n == nil || notifier == nil {
		return
	}
	if err := notifier.NotifyIntentCreated(ctx, *n); err != nil {
		log.Error().Err(err).
			Str("intent_id", n.IntentID).
			Str("donation_id", n.DonationID).
			Msg("notification dispatch failed")
	}
}
