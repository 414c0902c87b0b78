package webapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amirasaad/coinshop/app"
	"github.com/amirasaad/coinshop/infra/memory"
	"github.com/amirasaad/coinshop/pkg/config"
	"github.com/amirasaad/coinshop/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.App{
		Env:       "test",
		Server:    &config.Server{Host: "localhost", Port: 3000},
		Log:       &config.Log{Format: "text"},
		DB:        &config.DB{},
		Jwt:       &config.Jwt{Secret: "test-secret", Expiry: time.Hour},
		RateLimit: &config.RateLimit{MaxRequests: 10000, Window: time.Minute},
		Purchase:  &config.Purchase{CommitRetries: 3},
	}
	deps := &config.Deps{
		Uow:    memory.NewUoW(memory.NewStore()),
		Logger: slog.Default(),
		Config: cfg,
	}
	return webapi.SetupApp(app.New(deps, cfg))
}

func doJSON(
	t *testing.T,
	fiberApp *fiber.App,
	method, path, token string,
	body any,
) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp, parsed
}

func register(t *testing.T, fiberApp *fiber.App, username, role string) {
	t.Helper()
	resp, _ := doJSON(t, fiberApp, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": username,
		"password": "s3cret",
		"role":     role,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, fiberApp *fiber.App, username string) string {
	t.Helper()
	resp, body := doJSON(t, fiberApp, http.MethodPost, "/auth/login", "", fiber.Map{
		"username": username,
		"password": "s3cret",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "login response has no data")
	token, ok := data["token"].(string)
	require.True(t, ok, "login response has no token")
	return token
}

func TestShopFlow(t *testing.T) {
	fiberApp := newTestApp(t)

	register(t, fiberApp, "seller", "seller")
	register(t, fiberApp, "buyer", "buyer")

	sellerToken := login(t, fiberApp, "seller")
	resp, body := doJSON(t, fiberApp, http.MethodPost, "/products", sellerToken, fiber.Map{
		"name":     "cola",
		"price":    100,
		"quantity": 10,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	productID := body["data"].(map[string]any)["id"].(string)

	buyerToken := login(t, fiberApp, "buyer")
	for i := 0; i < 2; i++ {
		resp, body = doJSON(t, fiberApp, http.MethodPost, "/deposit", buyerToken, fiber.Map{
			"coin": 100,
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	assert.EqualValues(t, 200, body["data"].(map[string]any)["balance"])

	resp, body = doJSON(t, fiberApp, http.MethodPost, "/buy", buyerToken, fiber.Map{
		"product_id": productID,
		"quantity":   1,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	txn := body["data"].(map[string]any)
	assert.EqualValues(t, 100, txn["total_spent"])
	assert.Equal(t, []any{float64(100)}, txn["change"].([]any))

	// balance was reset to zero, stock went down by one
	resp, body = doJSON(t, fiberApp, http.MethodGet, "/products/"+productID, "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 9, body["data"].(map[string]any)["quantity"])

	resp, body = doJSON(t, fiberApp, http.MethodGet, "/transactions", buyerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]any), 1)
}

func TestRoleGating(t *testing.T) {
	fiberApp := newTestApp(t)
	register(t, fiberApp, "seller", "seller")
	register(t, fiberApp, "buyer", "buyer")
	sellerToken := login(t, fiberApp, "seller")
	buyerToken := login(t, fiberApp, "buyer")

	resp, _ := doJSON(t, fiberApp, http.MethodPost, "/products", buyerToken, fiber.Map{
		"name": "cola", "price": 100, "quantity": 10,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "buyers cannot list products for sale")

	resp, _ = doJSON(t, fiberApp, http.MethodPost, "/deposit", sellerToken, fiber.Map{
		"coin": 100,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "sellers cannot deposit")

	resp, _ = doJSON(t, fiberApp, http.MethodGet, "/users", buyerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "account admin is seller-gated")

	resp, _ = doJSON(t, fiberApp, http.MethodGet, "/users", sellerToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestBadToken(t *testing.T) {
	fiberApp := newTestApp(t)

	resp, _ := doJSON(t, fiberApp, http.MethodGet, "/transactions", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRevokedToken(t *testing.T) {
	fiberApp := newTestApp(t)
	register(t, fiberApp, "buyer", "buyer")
	token := login(t, fiberApp, "buyer")

	resp, _ := doJSON(t, fiberApp, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// signature still verifies, but the session is gone
	resp, _ = doJSON(t, fiberApp, http.MethodGet, "/transactions", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSecondLoginRejected(t *testing.T) {
	fiberApp := newTestApp(t)
	register(t, fiberApp, "buyer", "buyer")
	_ = login(t, fiberApp, "buyer")

	resp, _ := doJSON(t, fiberApp, http.MethodPost, "/auth/login", "", fiber.Map{
		"username": "buyer",
		"password": "s3cret",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestValidationErrors(t *testing.T) {
	fiberApp := newTestApp(t)
	register(t, fiberApp, "buyer", "buyer")
	token := login(t, fiberApp, "buyer")

	resp, _ := doJSON(t, fiberApp, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": "x", "password": "s3cret", "role": "buyer",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "username too short")

	resp, _ = doJSON(t, fiberApp, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": "carol", "password": "s3cret", "role": "admin",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "unknown role")

	resp, _ = doJSON(t, fiberApp, http.MethodPost, "/deposit", token, fiber.Map{
		"coin": 3,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "coin not a denomination")

	resp, _ = doJSON(t, fiberApp, http.MethodGet, "/products/not-a-uuid", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMalformedBody(t *testing.T) {
	fiberApp := newTestApp(t)

	req := httptest.NewRequest(
		http.MethodPost, "/auth/register", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := fiberApp.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var problem map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	assert.Equal(t, "Invalid request body", problem["title"])
	assert.EqualValues(t, fiber.StatusBadRequest, problem["status"])
}

func TestNotFound(t *testing.T) {
	fiberApp := newTestApp(t)
	register(t, fiberApp, "buyer", "buyer")
	token := login(t, fiberApp, "buyer")

	resp, _ := doJSON(t, fiberApp, http.MethodPost, "/buy", token, fiber.Map{
		"product_id": "c2d29867-3d0b-4497-9e13-8b1c0c7fb3e4",
		"quantity":   1,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
