package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"donation-match-service/internal/platform/obs"
)

type ctxKey string

const restaurantIDKey ctxKey = "restaurant_id"

// RestaurantID returns the authenticated caller identity, or "" when auth is
// disabled.
func RestaurantID(r *http.Request) string {
	id, _ := r.Context().Value(restaurantIDKey).(string)
	return id
}

// statusWriter captures the final HTTP status code and number of bytes written.
// This helps distinguish "handler returned 200" from "client received a response".
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware tags every request with an id and logs end-to-end
// duration and response size.
func loggingMiddleware(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := uuid.NewString()
			ctx := context.WithValue(r.Context(), obs.RequestIDKey, reqID)
			w.Header().Set("X-Request-Id", reqID)

			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r.WithContext(ctx))

			log.Info().
				Str("req_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.RequestURI()).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Int64("dur_ms", time.Since(start).Milliseconds()).
				Msg("request")
		})
	}
}

// restaurantAuth validates the restaurant bearer token and stores the caller
// identity in the context. An empty secret disables the check for local runs.
func restaurantAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				http.Error(w, `{"code":"MISSING_JWT","message":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, `{"code":"INVALID_JWT","message":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			id, _ := claims["restaurant_id"].(string)
			if id == "" {
				if sub, err := claims.GetSubject(); err == nil {
					id = sub
				}
			}
			if id == "" {
				http.Error(w, `{"code":"INVALID_JWT","message":"token carries no restaurant identity"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), restaurantIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
