package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"donation-match-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, log zerolog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("encode response failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, status int, code, msg string) {
	writeJSON(w, r, log, status, map[string]string{"code": code, "message": msg})
}

// writeDomainError maps stable domain error codes to the HTTP statuses of the
// public contract; anything else is a generic 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, r, log, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	status := http.StatusConflict
	switch derr.Code {
	case "RESTAURANT_NOT_FOUND", "NO_OSC_AVAILABLE", "INTENT_NOT_FOUND":
		status = http.StatusNotFound
	case "INTENT_EXPIRED":
		status = http.StatusGone
	}

	writeError(w, r, log, status, derr.Code, derr.Message)
}

// decodeBody enforces a single JSON object with no unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}
