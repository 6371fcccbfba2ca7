package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"donation-match-service/internal/ports"
)

func testEvent() ports.IntentNotification {
	return ports.IntentNotification{
		IntentID:     "i1",
		DonationID:   "d1",
		Restaurant:   "Cantina Bella",
		Organization: "Instituto Prato Cheio",
		SecurityCode: "ABCDEFGHJK",
		ExpiresAt:    time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifierPostsConfirmationLink(t *testing.T) {
	var got struct {
		Content string `json:"content"`
	}
	var contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("parse body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, "https://app.example.com/")
	if err := n.NotifyIntentCreated(context.Background(), testEvent()); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if contentType != "application/json" {
		t.Fatalf("content type = %q", contentType)
	}
	if !strings.Contains(got.Content, "Cantina Bella") {
		t.Fatalf("message misses the restaurant name: %q", got.Content)
	}
	if !strings.Contains(got.Content, "https://app.example.com/confirm-donation/ABCDEFGHJK") {
		t.Fatalf("message misses the confirmation link: %q", got.Content)
	}
}

func TestWebhookNotifierRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, "https://app.example.com")
	if err := n.NotifyIntentCreated(context.Background(), testEvent()); err == nil {
		t.Fatal("non-2xx response must surface an error")
	}
}
