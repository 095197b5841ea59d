package handlers_test

import (
	"net/http"
	"testing"

	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestEnv(t)
	creds := handler.CredentialsRequest{Username: "clerk", Password: "password1"}

	w := env.postJSON("/register", creds, nil)
	expectStatus(t, w, http.StatusCreated)
	var reg handler.RegisterResult
	decodeEnvelope(t, w, &reg)
	if reg.Token == "" {
		t.Error("expected a token on registration")
	}

	w = env.postJSON("/register", creds, nil)
	expectStatus(t, w, http.StatusConflict)
	if env := decodeEnvelope(t, w, nil); env.Code != "CONFLICT" {
		t.Errorf("expected CONFLICT, got %s", env.Code)
	}

	w = env.postJSON("/login", creds, nil)
	expectStatus(t, w, http.StatusOK)
	var login handler.LoginResult
	decodeEnvelope(t, w, &login)
	if login.Token == "" {
		t.Error("expected a token on login")
	}

	w = env.postJSON("/login", handler.CredentialsRequest{Username: "clerk", Password: "wrong-password"}, nil)
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	env := setupTestEnv(t)
	tests := []struct {
		name  string
		creds handler.CredentialsRequest
	}{
		{"missing username", handler.CredentialsRequest{Password: "password1"}},
		{"short username", handler.CredentialsRequest{Username: "ab", Password: "password1"}},
		{"short password", handler.CredentialsRequest{Username: "clerk", Password: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.postJSON("/register", tt.creds, nil)
			expectStatus(t, w, http.StatusBadRequest)
			if env := decodeEnvelope(t, w, nil); env.Code != "VALIDATION_ERROR" {
				t.Errorf("expected VALIDATION_ERROR, got %s", env.Code)
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupTestEnv(t)
	env.token = ""

	for _, path := range []string{"/products", "/reports/dashboard", "/stock/product/1/warehouses"} {
		w := env.get(path)
		expectStatus(t, w, http.StatusUnauthorized)
	}

	req, _ := http.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	expectStatus(t, env.do(req), http.StatusUnauthorized)
}

func TestLoginIsRateLimited(t *testing.T) {
	env := setupTestEnvWithLimiter(t, rl.New(0.001, 2))
	creds := handler.CredentialsRequest{Username: "admin", Password: "secret"}

	for range 2 {
		expectStatus(t, env.postJSON("/login", creds, nil), http.StatusOK)
	}

	w := env.postJSON("/login", creds, nil)
	expectStatus(t, w, http.StatusTooManyRequests)
	if env := decodeEnvelope(t, w, nil); env.Code != "RATE_LIMITED" {
		t.Errorf("expected RATE_LIMITED, got %s", env.Code)
	}
}

func TestHealthz(t *testing.T) {
	env := setupTestEnv(t)
	env.token = ""

	w := env.get("/healthz")
	expectStatus(t, w, http.StatusOK)
	var status map[string]string
	decodeEnvelope(t, w, &status)
	if status["database"] != "up" {
		t.Errorf("expected database up, got %v", status)
	}
}
