package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Matching MatchingConfig `json:"matching"`
	Notify   NotifyConfig   `json:"notify"`
	Auth     AuthConfig     `json:"auth"`
	Sweep    SweepConfig    `json:"sweep"`
	Metrics  MetricsConfig  `json:"metrics"`
}

type ServerConfig struct {
	Addr string `json:"addr"`
}

type DatabaseConfig struct {
	// Driver selects the backend: "postgres" or "sqlite".
	Driver string `json:"driver"`
	// URL is the Postgres connection string.
	URL string `json:"url"`
	// Path is the SQLite file location.
	Path string `json:"path"`
	// SeedPath optionally loads demo data on startup. The seed statements are
	// SQLite-flavored, so this is only valid with the sqlite driver.
	SeedPath string `json:"seed_path"`
}

type MatchingConfig struct {
	// RadiusKm bounds candidate search; 0 means unbounded.
	RadiusKm float64 `json:"radius_km"`
	// PartnerFilter is "strict" (radius applies to partner pools too) or
	// "bypass" (partners are offered at any distance).
	PartnerFilter string `json:"partner_filter"`
	// IntentTTLMinutes is the response window per offer.
	IntentTTLMinutes int `json:"intent_ttl_minutes"`
}

func (c MatchingConfig) IntentTTL() time.Duration {
	return time.Duration(c.IntentTTLMinutes) * time.Minute
}

type NotifyConfig struct {
	// Backends lists enabled dispatchers: "webhook", "redis", "log".
	Backends   []string `json:"backends"`
	WebhookURL string   `json:"webhook_url"`
	AppURL     string   `json:"app_url"`
	RedisAddr  string   `json:"redis_addr"`
	RedisQueue string   `json:"redis_queue"`
}

type AuthConfig struct {
	// JWTSecret signs restaurant bearer tokens. Empty disables the check for
	// local runs; the release endpoint then reads restaurant_id from the body.
	JWTSecret string `json:"jwt_secret"`
}

type SweepConfig struct {
	IntervalSeconds int `json:"interval_seconds"`
}

func (c SweepConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

type MetricsConfig struct {
	Enabled bool `json:"enabled"`
}

// Load reads the config file (yaml or json), then applies DMS_-prefixed
// environment overrides (DMS_DATABASE__URL → database.url). An empty path
// skips the file and uses defaults plus environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("DMS_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "dms_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/app.db"
	}
	if c.Matching.PartnerFilter == "" {
		c.Matching.PartnerFilter = "strict"
	}
	if c.Matching.IntentTTLMinutes == 0 {
		c.Matching.IntentTTLMinutes = 60
	}
	if len(c.Notify.Backends) == 0 {
		c.Notify.Backends = []string{"log"}
	}
	if c.Notify.RedisQueue == "" {
		c.Notify.RedisQueue = "notifications:intents"
	}
	if c.Sweep.IntervalSeconds == 0 {
		c.Sweep.IntervalSeconds = 60
	}
}

func (c *Config) Validate() error {
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.URL == "" {
		return fmt.Errorf("database.url is required for the postgres driver")
	}
	if c.Database.Driver == "postgres" && c.Database.SeedPath != "" {
		return fmt.Errorf("database.seed_path is only supported with the sqlite driver")
	}
	if c.Matching.PartnerFilter != "strict" && c.Matching.PartnerFilter != "bypass" {
		return fmt.Errorf("unknown partner filter %q", c.Matching.PartnerFilter)
	}
	if c.Matching.RadiusKm < 0 {
		return fmt.Errorf("matching.radius_km must not be negative")
	}
	for _, b := range c.Notify.Backends {
		switch b {
		case "webhook", "redis", "log":
		default:
			return fmt.Errorf("unknown notify backend %q", b)
		}
		if b == "webhook" && c.Notify.WebhookURL == "" {
			return fmt.Errorf("notify.webhook_url is required for the webhook backend")
		}
		if b == "redis" && c.Notify.RedisAddr == "" {
			return fmt.Errorf("notify.redis_addr is required for the redis backend")
		}
	}
	return nil
}
