package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsServe(t *testing.T, origins []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	handler := CORS(origins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, "/api/agent/sessions", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCORSExplicitOrigin(t *testing.T) {
	w := corsServe(t, []string{"https://dashboard.example.com"}, http.MethodGet, "https://dashboard.example.com")

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("explicit origin should allow credentials, got %q", got)
	}
}

func TestCORSWildcardWithoutCredentials(t *testing.T) {
	w := corsServe(t, []string{"*"}, http.MethodGet, "https://anywhere.example.com")

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("wildcard match must not allow credentials, got %q", got)
	}
}

func TestCORSUnknownOrigin(t *testing.T) {
	w := corsServe(t, []string{"https://dashboard.example.com"}, http.MethodGet, "https://evil.example.com")

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin must get no CORS headers, got %q", got)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	w := corsServe(t, []string{"*"}, http.MethodOptions, "https://dashboard.example.com")

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
}
