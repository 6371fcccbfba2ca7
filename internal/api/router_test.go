package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"donation-match-service/internal/adapters/notify"
	"donation-match-service/internal/adapters/repositories"
	"donation-match-service/internal/platform/db"
	"donation-match-service/internal/platform/metrics"
	"donation-match-service/internal/services"
)

func newTestServer(t *testing.T, secret string) (*httptest.Server, *sql.DB) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := repositories.InitSchema(database); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	fixtures := []string{
		`INSERT INTO restaurants (id, name, lat, lng, active) VALUES ('r1', 'Cantina', 0, 0, 1);`,
		`INSERT INTO organizations (id, name, lat, lng, active, last_received_at) VALUES ('o1', 'Org', 0, 1, 1, NULL);`,
		`INSERT INTO items (id, name, unit) VALUES ('i1', 'Soup', 'l');`,
	}
	for _, stmt := range fixtures {
		if _, err := database.Exec(stmt); err != nil {
			t.Fatalf("exec fixture: %v", err)
		}
	}
	if _, err := database.Exec(
		`INSERT INTO packages (id, restaurant_id, item_id, quantity, label_code, status, created_at, expires_at)
		 VALUES ('p1', 'r1', 'i1', 3, 'L-1', 'in_stock', $1, NULL);`,
		time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	); err != nil {
		t.Fatalf("exec package fixture: %v", err)
	}

	store, err := repositories.NewSQLStore(database, repositories.DriverSQLite)
	if err != nil {
		t.Fatalf("build store: %v", err)
	}

	cfg := services.MatchConfig{PartnerFilter: services.PartnerFilterStrict, IntentTTL: time.Hour}
	log := zerolog.Nop()

	ledger := &services.Ledger{Store: store, Notifier: notify.NopNotifier{}, Metrics: metrics.NopSink{}, Log: log, Cfg: cfg}
	intents := &services.Intents{Store: store, Notifier: notify.NopNotifier{}, Metrics: metrics.NopSink{}, Log: log, Cfg: cfg}
	pickup := &services.Pickup{Store: store, Metrics: metrics.NopSink{}, Log: log}

	srv := httptest.NewServer(NewRouter(ledger, intents, pickup, log, RouterConfig{JWTSecret: secret}))
	t.Cleanup(srv.Close)
	return srv, database
}

func signToken(t *testing.T, secret, restaurantID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"restaurant_id": restaurantID}).
		SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	var payload map[string]any
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("parse response %q: %v", raw, err)
		}
	}
	return res.StatusCode, payload
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")

	status, body := doJSON(t, http.MethodGet, srv.URL+"/health", "", nil)
	if status != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health = %d %v", status, body)
	}
}

func TestReleaseRequiresToken(t *testing.T) {
	srv, _ := newTestServer(t, "s3cret")

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/donations/release", "", map[string]string{"restaurant_id": "r1"})
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}

	forged := signToken(t, "wrong-secret", "r1")
	status, _ = doJSON(t, http.MethodPost, srv.URL+"/donations/release", forged, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("forged token status = %d, want 401", status)
	}
}

func TestDonationWorkflowOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t, "s3cret")
	token := signToken(t, "s3cret", "r1")

	// Release: the identity comes from the token, not the body.
	status, body := doJSON(t, http.MethodPost, srv.URL+"/donations/release", token, nil)
	if status != http.StatusOK {
		t.Fatalf("release = %d %v", status, body)
	}
	code, _ := body["security_code"].(string)
	if code == "" {
		t.Fatalf("release body misses security_code: %v", body)
	}

	// The detail view the recipient loads from the notification link.
	status, body = doJSON(t, http.MethodGet, srv.URL+"/donations/"+code, "", nil)
	if status != http.StatusOK || body["status"] != "pending" {
		t.Fatalf("details = %d %v", status, body)
	}
	if body["restaurant"] != "Cantina" || body["osc"] != "Org" {
		t.Fatalf("details parties = %v", body)
	}
	pkgs, _ := body["packages"].([]any)
	if len(pkgs) != 1 {
		t.Fatalf("details packages = %v", body["packages"])
	}

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/intents/accept", "", map[string]string{"security_code": code})
	if status != http.StatusNoContent {
		t.Fatalf("accept = %d", status)
	}

	status, body = doJSON(t, http.MethodPost, srv.URL+"/intents/accept", "", map[string]string{"security_code": code})
	if status != http.StatusConflict || body["code"] != "INTENT_NOT_WAITING" {
		t.Fatalf("repeat accept = %d %v", status, body)
	}

	status, body = doJSON(t, http.MethodPost, srv.URL+"/donations/pickup", token, map[string]string{"security_code": code})
	if status != http.StatusOK || body["status"] != "picked_up" {
		t.Fatalf("pickup = %d %v", status, body)
	}

	status, body = doJSON(t, http.MethodPost, srv.URL+"/donations/pickup", token, map[string]string{"security_code": code})
	if status != http.StatusConflict || body["code"] != "WRONG_STATUS" {
		t.Fatalf("repeat pickup = %d %v", status, body)
	}

	// Stock is drained, so a fresh release has nothing to claim.
	status, body = doJSON(t, http.MethodPost, srv.URL+"/donations/release", token, nil)
	if status != http.StatusConflict || body["code"] != "NO_PACKAGES_IN_STOCK" {
		t.Fatalf("drained release = %d %v", status, body)
	}
}

func TestIntentErrorMapping(t *testing.T) {
	srv, _ := newTestServer(t, "")

	status, body := doJSON(t, http.MethodPost, srv.URL+"/intents/accept", "", map[string]string{"security_code": "UNKNOWN999"})
	if status != http.StatusNotFound || body["code"] != "INTENT_NOT_FOUND" {
		t.Fatalf("unknown code = %d %v", status, body)
	}

	status, body = doJSON(t, http.MethodPost, srv.URL+"/intents/deny", "", map[string]string{"security_code": "  "})
	if status != http.StatusBadRequest || body["code"] != "MISSING_CODE" {
		t.Fatalf("blank code = %d %v", status, body)
	}

	status, body = doJSON(t, http.MethodPost, srv.URL+"/intents/deny", "", map[string]string{"unexpected": "field"})
	if status != http.StatusBadRequest || body["code"] != "INVALID_BODY" {
		t.Fatalf("unknown field = %d %v", status, body)
	}

	status, body = doJSON(t, http.MethodGet, srv.URL+"/donations/UNKNOWN999", "", nil)
	if status != http.StatusNotFound || body["code"] != "INTENT_NOT_FOUND" {
		t.Fatalf("unknown details = %d %v", status, body)
	}
}

func TestReleaseWithoutAuthReadsBody(t *testing.T) {
	srv, _ := newTestServer(t, "")

	status, body := doJSON(t, http.MethodPost, srv.URL+"/donations/release", "", map[string]string{"restaurant_id": "r1"})
	if status != http.StatusOK {
		t.Fatalf("release = %d %v", status, body)
	}
	if id, _ := body["donation_id"].(string); id == "" {
		t.Fatalf("incomplete release body: %v", body)
	}
	if code, _ := body["security_code"].(string); code == "" {
		t.Fatalf("incomplete release body: %v", body)
	}

	status, body = doJSON(t, http.MethodPost, srv.URL+"/donations/release", "", map[string]string{"restaurant_id": "  "})
	if status != http.StatusBadRequest || body["code"] != "MISSING_RESTAURANT_ID" {
		t.Fatalf("missing id = %d %v", status, body)
	}
}
