package domain

import "time"

type IntentStatus string

const (
	IntentWaitingResponse IntentStatus = "waiting_response"
	IntentAccepted        IntentStatus = "accepted"
	IntentDenied          IntentStatus = "denied"
	IntentExpired         IntentStatus = "expired"
	// IntentReRouted is part of the stored vocabulary for intents closed
	// administratively rather than by the recipient or the expiry sweep. The
	// state machine itself only writes denied/expired, but derived status and
	// exclusion sets must treat re_routed rows as terminal non-accepted.
	IntentReRouted IntentStatus = "re_routed"
)

// Intent is one timed offer of a donation to one organization. Intents are
// never deleted; the chain per donation is the audit trail, totally ordered
// by CreatedAt, and at most one of them is waiting_response at any instant.
type Intent struct {
	ID             string
	DonationID     string
	OrganizationID string
	SecurityCode   SecurityCode
	Status         IntentStatus
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// Terminal reports whether the intent can no longer change.
func (i *Intent) Terminal() bool {
	return i.Status != IntentWaitingResponse
}

// ExpiredAt reports whether the offer window has closed at the given time.
func (i *Intent) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
