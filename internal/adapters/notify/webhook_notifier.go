package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"donation-match-service/internal/ports"
)

const confirmPath = "/confirm-donation"

// WebhookNotifier posts a chat message (Discord-style webhook) telling the
// organization about a fresh offer, with a confirmation link built from the
// recipient app URL.
type WebhookNotifier struct {
	WebhookURL string
	AppURL     string
	Client     *http.Client
}

func NewWebhookNotifier(webhookURL, appURL string) *WebhookNotifier {
	return &WebhookNotifier{
		WebhookURL: webhookURL,
		AppURL:     strings.TrimRight(appURL, "/"),
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) NotifyIntentCreated(ctx context.Context, event ports.IntentNotification) error {
	link := n.AppURL + confirmPath + "/" + event.SecurityCode.Reveal()
	content := strings.Join([]string{
		"📢 **Nova Doação!**",
		"**Restaurante:** " + event.Restaurant,
		"**Confira a doação pelo link e faça o aceite ou rejeite:** " + link,
	}, "\n")

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("webhook notify: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook notify: post: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("webhook notify: unexpected status %d", res.StatusCode)
	}
	return nil
}
