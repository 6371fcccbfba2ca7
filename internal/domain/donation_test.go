package domain

import "testing"

func TestDeriveDonationStatus(t *testing.T) {
	cases := []struct {
		name     string
		latest   *Intent
		pickedUp bool
		want     DonationStatus
	}{
		{"no intents", nil, false, DonationUnmatched},
		{"waiting", &Intent{Status: IntentWaitingResponse}, false, DonationPending},
		{"accepted", &Intent{Status: IntentAccepted}, false, DonationAccepted},
		{"denied", &Intent{Status: IntentDenied}, false, DonationDenied},
		{"expired", &Intent{Status: IntentExpired}, false, DonationExpired},
		{"re_routed", &Intent{Status: IntentReRouted}, false, DonationUnmatched},
		{"picked up wins", &Intent{Status: IntentAccepted}, true, DonationPickedUp},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveDonationStatus(tc.latest, tc.pickedUp); got != tc.want {
				t.Fatalf("status = %q, want %q", got, tc.want)
			}
		})
	}
}
