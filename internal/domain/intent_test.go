package domain

import (
	"testing"
	"time"
)

func TestIntentTerminal(t *testing.T) {
	if (&Intent{Status: IntentWaitingResponse}).Terminal() {
		t.Fatal("waiting_response should not be terminal")
	}
	for _, s := range []IntentStatus{IntentAccepted, IntentDenied, IntentExpired, IntentReRouted} {
		if !(&Intent{Status: s}).Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
}

func TestIntentExpiredAt(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	intent := &Intent{ExpiresAt: deadline}

	if intent.ExpiredAt(deadline.Add(-time.Second)) {
		t.Fatal("intent should still be open before the deadline")
	}
	if intent.ExpiredAt(deadline) {
		t.Fatal("intent should still be open exactly at the deadline")
	}
	if !intent.ExpiredAt(deadline.Add(time.Second)) {
		t.Fatal("intent should be expired past the deadline")
	}
}
