package domain

// Restaurant is the donor side: it owns packages and triggers releases.
// Location may be absent for accounts that never completed geocoding; a
// release from such a restaurant cannot be matched.
type Restaurant struct {
	ID       string
	Name     string
	Location *Coordinates
	Active   bool
}
