package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"donation-match-service/internal/adapters/notify"
	"donation-match-service/internal/adapters/repositories"
	"donation-match-service/internal/config"
	"donation-match-service/internal/platform/db"
	"donation-match-service/internal/platform/logging"
	"donation-match-service/internal/platform/metrics"
	"donation-match-service/internal/services"
)

// sweeper is the external cron driving the expiry transition: every interval
// it closes due intents, rerouting each donation to its next candidate.
func main() {
	log := logging.New("sweeper")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found (using environment variables)")
	}

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file (yaml or json)")
	once := flag.Bool("once", false, "run a single sweep and exit")
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

	store, err := repositories.NewSQLStore(database, cfg.Database.Driver)
	if err != nil {
		log.Fatal().Err(err).Msg("build store")
	}

	intents := &services.Intents{
		Store:    store,
		Notifier: &notify.LogNotifier{Log: logging.New("notify")},
		Metrics:  metrics.NopSink{},
		Log:      logging.New("intents"),
		Cfg: services.MatchConfig{
			RadiusKm:      cfg.Matching.RadiusKm,
			PartnerFilter: cfg.Matching.PartnerFilter,
			IntentTTL:     cfg.Matching.IntentTTL(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		if _, err := intents.SweepExpired(ctx); err != nil {
			log.Fatal().Err(err).Msg("sweep failed")
		}
		return
	}

	interval := cfg.Sweep.Interval()
	log.Info().Dur("interval", interval).Msg("sweeper running")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sweeper stopped")
			return
		case <-ticker.C:
			if _, err := intents.SweepExpired(ctx); err != nil {
				log.Error().Err(err).Msg("sweep failed")
			}
		}
	}
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
