package dto

import "time"

type ReleaseRequest struct {
	// RestaurantID is only honored when JWT auth is disabled; with auth on,
	// the identity always comes from the token.
	RestaurantID string `json:"restaurant_id"`
}

type ReleaseResponse struct {
	DonationID   string `json:"donation_id"`
	SecurityCode string `json:"security_code"`
}

type ItemResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type PackageResponse struct {
	ID        string       `json:"id"`
	Quantity  float64      `json:"quantity"`
	Status    string       `json:"status"`
	LabelCode string       `json:"label_code"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt *time.Time   `json:"expires_at"`
	Item      ItemResponse `json:"item"`
}

type PickupResponse struct {
	DonationID string            `json:"donation_id"`
	Status     string            `json:"status"`
	Packages   []PackageResponse `json:"packages"`
}

type DonationDetailsResponse struct {
	DonationID string            `json:"donation_id"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	PickedUpAt *time.Time        `json:"picked_up_at"`
	Restaurant string            `json:"restaurant"`
	OSC        string            `json:"osc"`
	ExpiresAt  time.Time         `json:"expires_at"`
	Packages   []PackageResponse `json:"packages"`
}
