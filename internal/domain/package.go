package domain

import "time"

type PackageStatus string

const (
	PackageInStock   PackageStatus = "in_stock"
	PackageCommitted PackageStatus = "committed"
	PackageDelivered PackageStatus = "delivered"
	PackageExpired   PackageStatus = "expired"
)

// Item describes what a package contains.
type Item struct {
	ID   string
	Name string
	Unit string
}

// Package is a single unit of surplus food owned by one restaurant.
// It may be committed to at most one donation at a time; delivered is
// terminal.
type Package struct {
	ID           string
	RestaurantID string
	Item         Item
	Quantity     float64
	LabelCode    string
	Status       PackageStatus
	CreatedAt    time.Time
	ExpiresAt    *time.Time
}
