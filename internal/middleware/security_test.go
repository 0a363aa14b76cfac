package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders("https://cdn.test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "SAMEORIGIN"},
		{"X-XSS-Protection", "0"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Permissions-Policy", "interest-cohort=()"},
		{"Content-Security-Policy", ContentSecurityPolicy("https://cdn.test")},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got := rr.Header().Get(tt.header)
			if got != tt.want {
				t.Errorf("%s: got %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestContentSecurityPolicy(t *testing.T) {
	csp := ContentSecurityPolicy("https://bucket.s3.test", "https://cdn.test")

	for _, want := range []string{
		"default-src 'self'",
		"img-src 'self' data: https://bucket.s3.test https://cdn.test",
		"style-src 'self' 'unsafe-inline'",
		"script-src 'unsafe-hashes' 'sha256-",
		"object-src 'none'",
	} {
		if !strings.Contains(csp, want) {
			t.Errorf("policy missing %q: %s", want, csp)
		}
	}
	if strings.Contains(csp, "'unsafe-eval'") {
		t.Error("policy must not allow eval")
	}
}
