package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"donation-match-service/internal/api/dto"
	"donation-match-service/internal/domain"
	"donation-match-service/internal/services"
)

// DonationHandler exposes the restaurant-side operations: releasing a basket
// and confirming pickup, plus the detail view a recipient loads from their
// notification link.
type DonationHandler struct {
	Ledger *services.Ledger
	Pickup *services.Pickup
	Log    zerolog.Logger

	// RestaurantID extracts the caller identity set by the auth middleware.
	RestaurantID func(r *http.Request) string
}

func (h *DonationHandler) Release(w http.ResponseWriter, r *http.Request) {
	restaurantID := ""
	if h.RestaurantID != nil {
		restaurantID = h.RestaurantID(r)
	}
	if restaurantID == "" {
		// Auth disabled: local runs pass the id in the body.
		var req dto.ReleaseRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, h.Log, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
			return
		}
		restaurantID = strings.TrimSpace(req.RestaurantID)
	}
	if restaurantID == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "MISSING_RESTAURANT_ID", "restaurant_id is required")
		return
	}

	result, err := h.Ledger.Release(r.Context(), restaurantID)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.ReleaseResponse{
		DonationID:   result.DonationID,
		SecurityCode: result.SecurityCode.Reveal(),
	})
}

func (h *DonationHandler) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	var req dto.CodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return
	}

	code := domain.SecurityCode(strings.TrimSpace(req.SecurityCode))
	if code.IsZero() {
		writeError(w, r, h.Log, http.StatusBadRequest, "MISSING_CODE", "security_code is required")
		return
	}

	result, err := h.Pickup.Confirm(r.Context(), code)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.PickupResponse{
		DonationID: result.DonationID,
		Status:     string(domain.DonationPickedUp),
		Packages:   packageResponses(result.Packages),
	})
}

func (h *DonationHandler) Details(w http.ResponseWriter, r *http.Request) {
	code := domain.SecurityCode(chi.URLParam(r, "securityCode"))
	if code.IsZero() {
		writeError(w, r, h.Log, http.StatusBadRequest, "MISSING_CODE", "security_code is required")
		return
	}

	details, err := h.Ledger.Details(r.Context(), code)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.DonationDetailsResponse{
		DonationID: details.Donation.ID,
		Status:     string(details.Status),
		CreatedAt:  details.Donation.CreatedAt,
		PickedUpAt: details.Donation.PickedUpAt,
		Restaurant: details.Restaurant,
		OSC:        details.Organization,
		ExpiresAt:  details.Intent.ExpiresAt,
		Packages:   packageResponses(details.Packages),
	})
}

func packageResponses(pkgs []*domain.Package) []dto.PackageResponse {
	out := make([]dto.PackageResponse, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, dto.PackageResponse{
			ID:        p.ID,
			Quantity:  p.Quantity,
			Status:    string(p.Status),
			LabelCode: p.LabelCode,
			CreatedAt: p.CreatedAt,
			ExpiresAt: p.ExpiresAt,
			Item: dto.ItemResponse{
				ID:   p.Item.ID,
				Name: p.Item.Name,
				Unit: p.Item.Unit,
			},
		})
	}
	return out
}
