package main

import (
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"donation-match-service/internal/adapters/notify"
	"donation-match-service/internal/adapters/repositories"
	"donation-match-service/internal/api"
	"donation-match-service/internal/config"
	"donation-match-service/internal/platform/db"
	"donation-match-service/internal/platform/logging"
	"donation-match-service/internal/platform/metrics"
	"donation-match-service/internal/ports"
	"donation-match-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, notification backends) behind ports
// and starts the HTTP server.
func main() {
	log := logging.New("server")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found (using environment variables)")
	}

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file (yaml or json)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	database, err := openDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer database.Close()

	// Schema init is idempotent; local runs also get demo data.
	if err := repositories.InitSchema(database); err != nil {
		log.Fatal().Err(err).Msg("init schema")
	}
	if cfg.Database.SeedPath != "" {
		if err := repositories.SeedFromJSON(database, cfg.Database.SeedPath); err != nil {
			log.Fatal().Err(err).Msg("seed database")
		}
	}

	store, err := repositories.NewSQLStore(database, cfg.Database.Driver)
	if err != nil {
		log.Fatal().Err(err).Msg("build store")
	}

	notifier := buildNotifier(cfg)

	var sink metrics.Sink = metrics.NopSink{}
	if cfg.Metrics.Enabled {
		promSink, err := metrics.NewPromSink(nil)
		if err != nil {
			log.Fatal().Err(err).Msg("register metrics")
		}
		sink = promSink
	}

	matchCfg := services.MatchConfig{
		RadiusKm:      cfg.Matching.RadiusKm,
		PartnerFilter: cfg.Matching.PartnerFilter,
		IntentTTL:     cfg.Matching.IntentTTL(),
	}

	ledger := &services.Ledger{Store: store, Notifier: notifier, Metrics: sink, Log: logging.New("ledger"), Cfg: matchCfg}
	intents := &services.Intents{Store: store, Notifier: notifier, Metrics: sink, Log: logging.New("intents"), Cfg: matchCfg}
	pickup := &services.Pickup{Store: store, Metrics: sink, Log: logging.New("pickup")}

	router := api.NewRouter(ledger, intents, pickup, logging.New("api"), api.RouterConfig{
		JWTSecret:      cfg.Auth.JWTSecret,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	log.Info().Str("addr", cfg.Server.Addr).Msg("server listening")
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		return db.Open(cfg.Database.URL)
	case "sqlite":
		return db.OpenSQLite(cfg.Database.Path)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func buildNotifier(cfg *config.Config) ports.Notifier {
	backends := make([]ports.Notifier, 0, len(cfg.Notify.Backends))
	for _, b := range cfg.Notify.Backends {
		switch b {
		case "webhook":
			backends = append(backends, notify.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.AppURL))
		case "redis":
			backends = append(backends, notify.NewRedisNotifier(cfg.Notify.RedisAddr, cfg.Notify.RedisQueue))
		case "log":
			backends = append(backends, &notify.LogNotifier{Log: logging.New("notify")})
		}
	}

	switch len(backends) {
	case 0:
		return notify.NopNotifier{}
	case 1:
		return backends[0]
	default:
		return notify.NewMultiNotifier(backends...)
	}
}
