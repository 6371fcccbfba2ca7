package ports

import (
	"context"
	"time"

	"donation-match-service/internal/domain"
)

// IntentNotification tells the dispatcher that one organization must be told
// about one open offer. Delivery and retries belong to the dispatcher, not
// the core.
type IntentNotification struct {
	IntentID     string
	DonationID   string
	Restaurant   string
	Organization string
	SecurityCode domain.SecurityCode
	ExpiresAt    time.Time
}

// Notifier is the boundary to the notification dispatcher. Implementations
// are invoked strictly after the owning transaction commits; their errors are
// logged and dropped, never propagated into the triggering operation.
type Notifier interface {
	NotifyIntentCreated(ctx context.Context, n IntentNotification) error
}
