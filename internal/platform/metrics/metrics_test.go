package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_EventSubmittedCounter(t *testing.T) {
	m := New()
	m.EventSubmitted("weight", "ok")
	m.EventSubmitted("weight", "ok")
	m.EventSubmitted("vaccination", "unauthorized")

	if got := testutil.ToFloat64(m.eventsSubmitted.WithLabelValues("weight", "ok")); got != 2 {
		t.Fatalf("expected 2 weight/ok, got %v", got)
	}
	if got := testutil.ToFloat64(m.eventsSubmitted.WithLabelValues("vaccination", "unauthorized")); got != 1 {
		t.Fatalf("expected 1 vaccination/unauthorized, got %v", got)
	}
}

func TestMetrics_MiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/animals/{animalID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/animals/abc", nil))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `route="/animals/{animalID}"`) || !strings.Contains(body, `status="418"`) {
		t.Fatalf("expected labelled histogram in output, got:\n%s", body)
	}
}
