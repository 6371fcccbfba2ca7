package services

import (
	"context"

	"donation-match-service/internal/domain"
	"donation-match-service/internal/ports"
)

// DonationDetails is the read-side view a recipient sees before responding to
// an offer.
type DonationDetails struct {
	Donation     *domain.Donation
	Status       domain.DonationStatus
	Restaurant   string
	Organization string
	Intent       *domain.Intent
	Packages     []*domain.Package
}

// Details resolves the donation behind a security code: summary, both party
// names, the addressed intent and the package list. The donation status is
// derived from the latest intent in the chain plus pickup completion.
func (l *Ledger) Details(ctx context.Context, code domain.SecurityCode) (*DonationDetails, error) {
	var details DonationDetails

	err := l.Store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		intent, err := tx.Intents().GetByCode(ctx, code)
		if err != nil {
			return err
		}

		donation, err := tx.Donations().Get(ctx, intent.DonationID)
		if err != nil {
			return err
		}

		restaurant, err := tx.Restaurants().Get(ctx, donation.RestaurantID)
		if err != nil {
			return err
		}
		org, err := tx.Organizations().Get(ctx, intent.OrganizationID)
		if err != nil {
			return err
		}

		chain, err := tx.Intents().ListByDonation(ctx, donation.ID)
		if err != nil {
			return err
		}
		var latest *domain.Intent
		if len(chain) > 0 {
			latest = chain[len(chain)-1]
		}

		pkgs, err := tx.Packages().ListByDonation(ctx, donation.ID)
		if err != nil {
			return err
		}

		details = DonationDetails{
			Donation:     donation,
			Status:       domain.DeriveDonationStatus(latest, donation.PickedUpAt != nil),
			Restaurant:   restaurant.Name,
			Organization: org.Name,
			Intent:       intent,
			Packages:     pkgs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &details, nil
}
