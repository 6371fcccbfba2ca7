package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"donation-match-service/internal/api/handlers"
	"donation-match-service/internal/platform/metrics"
	"donation-match-service/internal/services"
)

// RouterConfig carries the API-level knobs; services arrive fully built.
type RouterConfig struct {
	JWTSecret      string
	MetricsEnabled bool
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(
	ledger *services.Ledger,
	intents *services.Intents,
	pickup *services.Pickup,
	log zerolog.Logger,
	cfg RouterConfig,
) http.Handler {
	donationHandler := &handlers.DonationHandler{
		Ledger:       ledger,
		Pickup:       pickup,
		Log:          log,
		RestaurantID: RestaurantID,
	}
	intentHandler := &handlers.IntentHandler{Intents: intents, Log: log}

	r := chi.NewRouter()
	r.Use(loggingMiddleware(log))

	r.Get("/health", handlers.Health)
	if cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	// Restaurant-side operations require the restaurant bearer token.
	r.Group(func(r chi.Router) {
		r.Use(restaurantAuth(cfg.JWTSecret))
		r.Post("/donations/release", donationHandler.Release)
		r.Post("/donations/pickup", donationHandler.ConfirmPickup)
	})

	// Recipient-side operations authorize through the security code alone.
	r.Post("/intents/accept", intentHandler.Accept)
	r.Post("/intents/deny", intentHandler.Deny)
	r.Get("/donations/{securityCode}", donationHandler.Details)

	return r
}
