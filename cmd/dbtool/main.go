package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"donation-match-service/internal/adapters/repositories"
	"donation-match-service/internal/config"
	"donation-match-service/internal/platform/db"
	"donation-match-service/internal/platform/logging"
)

// dbtool initializes the schema and loads seed data, for both local SQLite
// files and a real Postgres instance.
func main() {
	log := logging.New("dbtool")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found (using environment variables)")
	}

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file (yaml or json)")
	seedPath := flag.String("seed", "", "seed data file (overrides config)")
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

	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(database); err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}
	log.Info().Msg("schema ready")

	path := cfg.Database.SeedPath
	if *seedPath != "" {
		path = *seedPath
	}
	if path == "" {
		log.Info().Msg("no seed path configured, done")
		return
	}

	log.Info().Str("path", path).Msg("seeding database")
	if err := repositories.SeedFromJSON(database, path); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Msg("seeding complete")
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
