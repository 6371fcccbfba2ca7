package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"donation-match-service/internal/api/dto"
	"donation-match-service/internal/domain"
	"donation-match-service/internal/services"
)

// IntentHandler exposes the recipient-side responses to an offer. The
// security code in the body is the whole authorization.
type IntentHandler struct {
	Intents *services.Intents
	Log     zerolog.Logger
}

func (h *IntentHandler) Accept(w http.ResponseWriter, r *http.Request) {
	code, ok := h.code(w, r)
	if !ok {
		return
	}

	if err := h.Intents.Accept(r.Context(), code); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *IntentHandler) Deny(w http.ResponseWriter, r *http.Request) {
	code, ok := h.code(w, r)
	if !ok {
		return
	}

	if err := h.Intents.Deny(r.Context(), code); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *IntentHandler) code(w http.ResponseWriter, r *http.Request) (domain.SecurityCode, bool) {
	var req dto.CodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "INVALID_BODY", "invalid json body")
		return "", false
	}

	code := domain.SecurityCode(strings.TrimSpace(req.SecurityCode))
	if code.IsZero() {
		writeError(w, r, h.Log, http.StatusBadRequest, "MISSING_CODE", "security_code is required")
		return "", false
	}
	return code, true
}
