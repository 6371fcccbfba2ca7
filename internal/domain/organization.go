package domain

import "time"

// Organization (OSC) is a recipient entity eligible to receive donations.
//
// LastReceivedAt is the fairness cursor: it is bumped whenever an intent is
// created for the organization, whether or not the offer is later accepted.
// Never-yet-offered organizations carry a nil cursor and rank before any
// recently served one on a distance tie.
type Organization struct {
	ID             string
	Name           string
	Location       Coordinates
	Active         bool
	LastReceivedAt *time.Time
}
