package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddlewareRecordsRouteAndStatus(t *testing.T) {
	m := NewMetrics()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return m.Middleware(next)
	})
	r.Get("/sales/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/sales/abc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := scrape(t, m)
	require.Contains(t, body, `meridian_http_requests_total{code="404",route="/sales/{id}"} 1`)
	require.Contains(t, body, `meridian_http_request_duration_seconds_count{route="/sales/{id}"} 1`)
}

func TestEventCounters(t *testing.T) {
	m := NewMetrics()

	m.EventPublished("sale:created")
	m.EventPublished("sale:created")
	m.EventDropped("sale:updated")
	m.EventHandled("sale:canceled")

	body := scrape(t, m)
	require.Contains(t, body, `meridian_sale_events_published_total{type="sale:created"} 2`)
	require.Contains(t, body, `meridian_sale_events_dropped_total{type="sale:updated"} 1`)
	require.Contains(t, body, `meridian_sale_events_handled_total{type="sale:canceled"} 1`)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics

	m.EventPublished("sale:created")
	m.EventDropped("sale:created")
	m.EventHandled("sale:created")

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
