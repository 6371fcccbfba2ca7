package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"donation-match-service/internal/ports"
)

const DefaultQueue = "notifications:intents"

// RedisNotifier enqueues notification events on a Redis list for an external
// dispatcher process to drain. The queued payload carries the raw security
// code: the queue is the delivery channel, not a log.
type RedisNotifier struct {
	client *redis.Client
	queue  string
}

type queuedNotification struct {
	IntentID     string    `json:"intent_id"`
	DonationID   string    `json:"donation_id"`
	Restaurant   string    `json:"restaurant"`
	Organization string    `json:"organization"`
	SecurityCode string    `json:"security_code"`
	ExpiresAt    time.Time `json:"expires_at"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
}

func NewRedisNotifier(addr, queue string) *RedisNotifier {
	if queue == "" {
		queue = DefaultQueue
	}
	return &RedisNotifier{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		queue:  queue,
	}
}

func (n *RedisNotifier) NotifyIntentCreated(ctx context.Context, event ports.IntentNotification) error {
	payload, err := json.Marshal(queuedNotification{
		IntentID:     event.IntentID,
		DonationID:   event.DonationID,
		Restaurant:   event.Restaurant,
		Organization: event.Organization,
		SecurityCode: event.SecurityCode.Reveal(),
		ExpiresAt:    event.ExpiresAt,
		EnqueuedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("redis notify: marshal payload: %w", err)
	}

	if err := n.client.LPush(ctx, n.queue, payload).Err(); err != nil {
		return fmt.Errorf("redis notify: enqueue: %w", err)
	}
	return nil
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
