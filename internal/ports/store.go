package ports

import (
	"context"
	"time"

	"donation-match-service/internal/domain"
)

// Store is the unit-of-work boundary. Every read-then-write sequence in the
// matching workflow runs inside WithinTx; the function either commits as a
// whole or leaves no trace. Concurrent release calls for one restaurant, or
// concurrent transitions on one intent, must serialize here.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the repositories bound to one open transaction.
type Tx interface {
	Restaurants() RestaurantRepository
	Organizations() OrganizationRepository
	Packages() PackageRepository
	Donations() DonationRepository
	Intents() IntentRepository
}

type RestaurantRepository interface {
	// Get returns domain.ErrRestaurantNotFound when the id is unknown.
	Get(ctx context.Context, id string) (*domain.Restaurant, error)
	// PartnerIDs returns the explicit partner whitelist for a restaurant.
	// Empty means no partnership restriction applies.
	PartnerIDs(ctx context.Context, restaurantID string) ([]string, error)
}

type OrganizationRepository interface {
	Get(ctx context.Context, id string) (*domain.Organization, error)
	// ListActive returns all organizations currently able to receive offers.
	ListActive(ctx context.Context) ([]*domain.Organization, error)
	// SetLastReceived bumps the fairness cursor after an intent is created.
	SetLastReceived(ctx context.Context, id string, at time.Time) error
}

type PackageRepository interface {
	// ClaimInStock atomically flips every in_stock package of the restaurant
	// to committed and returns them. An empty result means nothing to release.
	ClaimInStock(ctx context.Context, restaurantID string) ([]*domain.Package, error)
	// ReleaseCommitted returns a donation's committed packages to in_stock,
	// reporting how many rows flipped.
	ReleaseCommitted(ctx context.Context, donationID string) (int, error)
	// MarkDelivered flips a donation's committed packages to delivered and
	// returns them.
	MarkDelivered(ctx context.Context, donationID string) ([]*domain.Package, error)
	ListByDonation(ctx context.Context, donationID string) ([]*domain.Package, error)
}

type DonationRepository interface {
	// Create inserts the donation and the join rows binding its packages.
	Create(ctx context.Context, d *domain.Donation, packageIDs []string) error
	Get(ctx context.Context, id string) (*domain.Donation, error)
	// MarkPickedUp records pickup exactly once: it fails with
	// domain.ErrWrongStatus when the donation was already picked up.
	MarkPickedUp(ctx context.Context, id string, at time.Time) error
}

type IntentRepository interface {
	Create(ctx context.Context, i *domain.Intent) error
	// GetByCode returns domain.ErrIntentNotFound when no intent carries the
	// token. Lookup by token is the only authorization check for recipient
	// actions.
	GetByCode(ctx context.Context, code domain.SecurityCode) (*domain.Intent, error)
	// ListByDonation returns the full intent chain ordered by creation time.
	ListByDonation(ctx context.Context, donationID string) ([]*domain.Intent, error)
	// UpdateStatus transitions the intent only if it still has the expected
	// status; zero affected rows surface as domain.ErrIntentNotWaiting so a
	// lost race never double-applies a transition.
	UpdateStatus(ctx context.Context, id string, from, to domain.IntentStatus) error
	// ListDue returns codes of waiting intents whose window closed before now.
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.SecurityCode, error)
}
