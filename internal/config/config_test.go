package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
server:
  addr: ":9090"
database:
  driver: sqlite
  path: /tmp/dms.db
matching:
  radius_km: 25
  partner_filter: bypass
  intent_ttl_minutes: 30
notify:
  backends: ["webhook", "log"]
  webhook_url: https://hooks.example.com/x
  app_url: https://app.example.com
sweep:
  interval_seconds: 15
metrics:
  enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "/tmp/dms.db", cfg.Database.Path)
	require.Equal(t, 25.0, cfg.Matching.RadiusKm)
	require.Equal(t, "bypass", cfg.Matching.PartnerFilter)
	require.Equal(t, 30*time.Minute, cfg.Matching.IntentTTL())
	require.Equal(t, []string{"webhook", "log"}, cfg.Notify.Backends)
	require.Equal(t, 15*time.Second, cfg.Sweep.Interval())
	require.True(t, cfg.Metrics.Enabled)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "data/app.db", cfg.Database.Path)
	require.Equal(t, "strict", cfg.Matching.PartnerFilter)
	require.Equal(t, time.Hour, cfg.Matching.IntentTTL())
	require.Equal(t, []string{"log"}, cfg.Notify.Backends)
	require.Equal(t, "notifications:intents", cfg.Notify.RedisQueue)
	require.Equal(t, time.Minute, cfg.Sweep.Interval())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DMS_SERVER__ADDR", ":7070")
	t.Setenv("DMS_MATCHING__PARTNER_FILTER", "bypass")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ":7070", cfg.Server.Addr)
	require.Equal(t, "bypass", cfg.Matching.PartnerFilter)
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unknown driver", "database:\n  driver: mysql\n"},
		{"postgres without url", "database:\n  driver: postgres\n"},
		{"postgres with seed path", "database:\n  driver: postgres\n  url: postgres://localhost/dms\n  seed_path: data/seeds/demo.json\n"},
		{"unknown partner filter", "matching:\n  partner_filter: maybe\n"},
		{"negative radius", "matching:\n  radius_km: -1\n"},
		{"unknown backend", "notify:\n  backends: [\"carrier-pigeon\"]\n"},
		{"webhook without url", "notify:\n  backends: [\"webhook\"]\n"},
		{"redis without addr", "notify:\n  backends: [\"redis\"]\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, "config.yaml", tc.content)
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "x = 1\n")
	_, err := Load(path)
	require.Error(t, err)
}
