package notify

import (
	"context"

	"github.com/rs/zerolog"

	"donation-match-service/internal/ports"
)

// LogNotifier is the dev fallback: the log line is the delivery channel, so
// this is the one place the raw security code is written out deliberately.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n *LogNotifier) NotifyIntentCreated(_ context.Context, event ports.IntentNotification) error {
	n.Log.Info().
		Str("intent_id", event.IntentID).
		Str("donation_id", event.DonationID).
		Str("restaurant", event.Restaurant).
		Str("organization", event.Organization).
		Str("security_code", event.SecurityCode.Reveal()).
		Time("expires_at", event.ExpiresAt).
		Msg("new donation offer")
	return nil
}
