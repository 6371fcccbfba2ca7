package services

import (
	"donation-match-service/internal/domain"
)

// SelectCandidate ranks the pool by great-circle distance from the origin and
// returns the single best organization not yet tried for this donation.
//
// Ties on distance break toward the older fairness cursor, so organizations
// that never received an offer rank before recently served ones. A final
// tie-break on ID keeps selection deterministic. Selection never mutates
// organization state; the fairness cursor is bumped only when an intent is
// actually created.
//
// radiusKm bounds the search when positive; zero disables the bound. An empty
// filtered pool returns domain.ErrNoOSCAvailable whether the pool was empty
// to begin with or every candidate was excluded.
func SelectCandidate(
	origin domain.Coordinates,
	pool []*domain.Organization,
	excluded map[string]struct{},
	radiusKm float64,
) (*domain.Organization, error) {
	var best *domain.Organization
	var bestDist float64

	for _, org := range pool {
		if org == nil || !org.Active {
			continue
		}
		if _, skip := excluded[org.ID]; skip {
			continue
		}

		dist := origin.DistanceKm(org.Location)
		if radiusKm > 0 && dist > radiusKm {
			continue
		}

		if best == nil || closer(dist, org, bestDist, best) {
			best = org
			bestDist = dist
		}
	}

	if best == nil {
		return nil, domain.ErrNoOSCAvailable
	}
	return best, nil
}

func closer(dist float64, org *domain.Organization, bestDist float64, best *domain.Organization) bool {
	if dist != bestDist {
		return dist < bestDist
	}

	// Equal distance: least recently served wins; a nil cursor means never
	// served and outranks any timestamp.
	switch {
	case org.LastReceivedAt == nil && best.LastReceivedAt != nil:
		return true
	case org.LastReceivedAt != nil && best.LastReceivedAt == nil:
		return false
	case org.LastReceivedAt != nil && best.LastReceivedAt != nil:
		if !org.LastReceivedAt.Equal(*best.LastReceivedAt) {
			return org.LastReceivedAt.Before(*best.LastReceivedAt)
		}
	}

	return org.ID < best.ID
}
