package domain

import "time"

// DonationStatus is derived, never stored: the donation row only records
// creation and pickup timestamps, and the status is computed from the most
// recent intent plus pickup completion.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationAccepted  DonationStatus = "accepted"
	DonationPickedUp  DonationStatus = "picked_up"
	DonationDenied    DonationStatus = "denied"
	DonationExpired   DonationStatus = "expired"
	DonationUnmatched DonationStatus = "unmatched"
)

// Donation is an immutable basket of packages released by one restaurant.
// It is created once and never re-targeted; targeting lives in the intent
// chain.
type Donation struct {
	ID           string
	RestaurantID string
	CreatedAt    time.Time
	PickedUpAt   *time.Time
}

// DeriveDonationStatus computes the donation-level status from the most
// recently created intent. A terminal non-accepted latest intent means the
// candidate chain was exhausted and the packages went back to stock.
func DeriveDonationStatus(latest *Intent, pickedUp bool) DonationStatus {
	if pickedUp {
		return DonationPickedUp
	}
	if latest == nil {
		return DonationUnmatched
	}

	switch latest.Status {
	case IntentWaitingResponse:
		return DonationPending
	case IntentAccepted:
		return DonationAccepted
	case IntentDenied:
		return DonationDenied
	case IntentExpired:
		return DonationExpired
	default:
		return DonationUnmatched
	}
}
