package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	"union-ganadera/internal/platform/logger"
	"union-ganadera/internal/ports/auth"
)

type fakeVerifier struct {
	claims auth.Claims
	err    error
}

func (f fakeVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, errors.New("bad token")
	}
	return f.claims, f.err
}

func echoClaims(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := GetClaims(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(c.UserID + "/" + string(c.Role)))
	})
}

func TestAuthContext_DevHeaders(t *testing.T) {
	h := AuthContext(nil)(echoClaims(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "u1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Body.String() != "u1/owner" {
		t.Fatalf("default role: %q", rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "v1")
	req.Header.Set("X-Debug-User-Role", "Veterinarian")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Body.String() != "v1/veterinarian" {
		t.Fatalf("vet role: %q", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no headers should leave claims empty, got %d", rr.Code)
	}
}

func TestAuthContext_BannedIsForbidden(t *testing.T) {
	h := AuthContext(nil)(echoClaims(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "u9")
	req.Header.Set("X-Debug-User-Role", "banned")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestAuthContext_Verifier(t *testing.T) {
	v := fakeVerifier{claims: auth.Claims{UserID: "u1", Role: auth.RoleAdmin}}
	h := AuthContext(v)(echoClaims(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Body.String() != "u1/admin" {
		t.Fatalf("got %q", rr.Body.String())
	}

	// los headers de debug no aplican con verifier
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	req.Header.Set("X-Debug-User-ID", "u1")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token should yield no claims, got %d", rr.Code)
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf})

	h := chimw.RequestID(AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/animals", nil))

	line := buf.String()
	for _, want := range []string{"method=GET", "path=/animals", "status=418", "request_id="} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %q", line, want)
		}
	}
}
