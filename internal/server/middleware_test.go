package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestAPIKeyAuthMissing verifies a request without an API key is a 401.
func TestAPIKeyAuthMissing(t *testing.T) {
	h := APIKeyAuth("secret")(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestAPIKeyAuthInvalid verifies a wrong API key is a 403.
func TestAPIKeyAuthInvalid(t *testing.T) {
	h := APIKeyAuth("secret")(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

// TestAPIKeyAuthValid verifies the correct key passes through.
func TestAPIKeyAuthValid(t *testing.T) {
	h := APIKeyAuth("secret")(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestRequestIDGenerated verifies an id is minted, echoed in the response
// header, and visible to downstream handlers via the context.
func TestRequestIDGenerated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if seen == "" {
		t.Error("no request id in context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("X-Request-ID header = %q, want %q", got, seen)
	}
}

// TestRequestIDPreserved verifies a caller-supplied id is kept.
func TestRequestIDPreserved(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if seen != "caller-id" {
		t.Errorf("request id = %q, want caller-id", seen)
	}
}

// TestCORSPreflight verifies OPTIONS requests short-circuit with 204 and
// the CORS headers set.
func TestCORSPreflight(t *testing.T) {
	h := CORS(okHandler())
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
}
