package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartbin/internal/config"
	"smartbin/internal/middleware"
	"smartbin/internal/services"
	"smartbin/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, config.Config) {
	t.Helper()
	cfg := config.Config{
		Port:      "0",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
	r := SetupRouter(store.NewMemoryStore(), cfg, zerolog.Nop())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, cfg
}

func postJSON(t *testing.T, url, token string, body interface{}) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func getJSON(t *testing.T, url, token string) map[string]interface{} {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestFullUserJourney(t *testing.T) {
	srv, _ := newTestServer(t)

	// Register, then collide on the same email.
	body := postJSON(t, srv.URL+"/api/register", "", map[string]string{
		"name": "Alice", "email": "a@x.com", "password": "pw",
	})
	assert.Equal(t, "ok", body["status"])

	body = postJSON(t, srv.URL+"/api/register", "", map[string]string{
		"name": "Impostor", "email": "a@x.com", "password": "other",
	})
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Duplicate Email", body["error"])

	// Login, wrong password first.
	body = postJSON(t, srv.URL+"/api/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	assert.Equal(t, "error", body["status"])

	body = postJSON(t, srv.URL+"/api/login", "", map[string]string{
		"email": "a@x.com", "password": "pw",
	})
	require.Equal(t, "ok", body["status"])
	require.NotEmpty(t, body["token"])
	assert.Equal(t, "user", body["role"])
	token := body["token"].(string)

	// Fresh dashboard: zero balances.
	body = getJSON(t, srv.URL+"/api/dashboard", token)
	require.Equal(t, "ok", body["status"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, 0.0, user["walletBalance"])
	assert.Equal(t, 0.0, user["ecoPoints"])

	// Plastic pays the high tier, anything else the low tier.
	body = postJSON(t, srv.URL+"/api/add-waste", token, map[string]string{"wasteType": "Plastic"})
	require.Equal(t, "ok", body["status"])
	assert.Equal(t, 10.0, body["rewardAdded"])

	body = postJSON(t, srv.URL+"/api/add-waste", token, map[string]string{"wasteType": "Glass"})
	require.Equal(t, "ok", body["status"])
	assert.Equal(t, 7.0, body["rewardAdded"])

	body = getJSON(t, srv.URL+"/api/dashboard", token)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, 17.0, user["walletBalance"])
	assert.Equal(t, 70.0, user["ecoPoints"])
	assert.Len(t, user["logs"], 2)

	// Over-redeem rejected without mutating state.
	body = postJSON(t, srv.URL+"/api/redeem", token, map[string]interface{}{
		"item": "Coupon", "cost": 100, "type": "money",
	})
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Insufficient Funds", body["message"])

	body = getJSON(t, srv.URL+"/api/dashboard", token)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, 17.0, user["walletBalance"])

	// Affordable redeem goes through.
	body = postJSON(t, srv.URL+"/api/redeem", token, map[string]interface{}{
		"item": "Coupon", "cost": 10, "type": "money",
	})
	require.Equal(t, "ok", body["status"])

	body = postJSON(t, srv.URL+"/api/redeem", token, map[string]interface{}{
		"item": "Tote Bag", "cost": 50, "type": "points",
	})
	require.Equal(t, "ok", body["status"])

	body = getJSON(t, srv.URL+"/api/dashboard", token)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, 7.0, user["walletBalance"])
	assert.Equal(t, 20.0, user["ecoPoints"])
	assert.Len(t, user["redemptions"], 2)
}

func TestAuthBoundaries(t *testing.T) {
	srv, cfg := newTestServer(t)

	// No token and a forged token both bounce with the body contract.
	body := getJSON(t, srv.URL+"/api/dashboard", "")
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Invalid Token", body["error"])

	forged := services.NewAuthService("other-secret", time.Hour, zerolog.Nop())
	forgedToken, err := forged.GenerateToken("a@x.com", "user")
	require.NoError(t, err)

	body = getJSON(t, srv.URL+"/api/dashboard", forgedToken)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Invalid Token", body["error"])

	// Valid signature but missing account.
	auth := services.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, zerolog.Nop())
	ghostToken, err := auth.GenerateToken("ghost@x.com", "user")
	require.NoError(t, err)

	body = getJSON(t, srv.URL+"/api/dashboard", ghostToken)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Account Not Found", body["error"])
}

func TestAdminEndpointRequiresAdminRole(t *testing.T) {
	srv, cfg := newTestServer(t)
	auth := services.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, zerolog.Nop())

	postJSON(t, srv.URL+"/api/register", "", map[string]string{
		"name": "Alice", "email": "a@x.com", "password": "pw",
	})

	userToken, err := auth.GenerateToken("a@x.com", "user")
	require.NoError(t, err)
	body := getJSON(t, srv.URL+"/api/admin/users", userToken)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Forbidden", body["error"])

	adminToken, err := auth.GenerateToken("admin@x.com", "admin")
	require.NoError(t, err)
	body = getJSON(t, srv.URL+"/api/admin/users", adminToken)
	require.Equal(t, "ok", body["status"])
	users := body["users"].([]interface{})
	assert.Len(t, users, 1)

	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, 1.0, stats["userCount"])
	assert.Equal(t, 0.0, stats["totalWalletBalance"])
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
