package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los colectores del servicio sobre un registry propio
// (evita colisiones con el registry global en tests).
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.HistogramVec
	eventsSubmitted *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duración de requests HTTP por ruta, método y status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		eventsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_submitted_total",
			Help: "Eventos enviados al despachador por tipo y resultado.",
		}, []string{"kind", "outcome"}),
	}

	reg.MustRegister(
		m.requests,
		m.eventsSubmitted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry se expone para tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// EventSubmitted cuenta un envío al despachador. outcome: ok|not_found|unauthorized|validation|error.
func (m *Metrics) EventSubmitted(kind, outcome string) {
	if m == nil {
		return
	}
	m.eventsSubmitted.WithLabelValues(kind, outcome).Inc()
}

// Middleware mide la duración usando el patrón de ruta de chi (no el path crudo).
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
