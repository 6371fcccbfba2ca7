package notify

import (
	"context"
	"errors"

	"donation-match-service/internal/ports"
)

// MultiNotifier fans one event out to several backends. All backends are
// attempted; errors are joined.
type MultiNotifier struct {
	backends []ports.Notifier
}

func NewMultiNotifier(backends ...ports.Notifier) *MultiNotifier {
	return &MultiNotifier{backends: backends}
}

func (n *MultiNotifier) NotifyIntentCreated(ctx context.Context, event ports.IntentNotification) error {
	var errs []error
	for _, b := range n.backends {
		if err := b.NotifyIntentCreated(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopNotifier discards events; used when no dispatcher is configured.
type NopNotifier struct{}

func (NopNotifier) NotifyIntentCreated(context.Context, ports.IntentNotification) error { return nil }
