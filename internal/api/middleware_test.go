package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nandobmont/ano-safra/internal/config"
	"github.com/nandobmont/ano-safra/internal/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.Config
		apiKey string
		want   int
	}{
		{"development without key passes", config.Config{Env: config.EnvDevelopment}, "", http.StatusOK},
		{"missing key", config.Config{Env: config.EnvProduction, APIKey: "secret"}, "", http.StatusUnauthorized},
		{"wrong key", config.Config{Env: config.EnvProduction, APIKey: "secret"}, "guess", http.StatusUnauthorized},
		{"valid key", config.Config{Env: config.EnvProduction, APIKey: "secret"}, "secret", http.StatusOK},
		{"staging without configured key rejects", config.Config{Env: config.EnvStaging}, "anything", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			handler := AuthMiddleware(&cfg, logger.Discard())(okHandler())

			req := httptest.NewRequest("POST", "/api/v1/days/seed", nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("Status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRequestIDMiddleware_PropagatesClientID(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "client-7")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen != "client-7" {
		t.Errorf("context request id = %q, want %q", seen, "client-7")
	}
	if got := rr.Header().Get(RequestIDHeader); got != "client-7" {
		t.Errorf("response header = %q, want %q", got, "client-7")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	handler := CORSMiddleware()(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("OPTIONS", "/api/v1/harvest-year", nil))

	if rr.Code != http.StatusNoContent {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS origin header")
	}
}
