package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/gobank/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		pattern    string
		statusCode int
	}{
		{
			name:       "uses account route pattern",
			method:     http.MethodGet,
			path:       "/api/v1/accounts/42",
			pattern:    "/api/v1/accounts/{id}",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "uses movement route pattern",
			method:     http.MethodDelete,
			path:       "/api/v1/movements/7",
			pattern:    "/api/v1/movements/{id}",
			statusCode: http.StatusNoContent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())

			handler := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
			}

			r := chi.NewRouter()
			r.Use(Metrics(m))
			r.Get("/api/v1/accounts/{id}", handler)
			r.Delete("/api/v1/movements/{id}", handler)

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if got := testutil.ToFloat64(m.HTTPInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			counter := m.HTTPRequests.WithLabelValues(tc.method, tc.pattern, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestRoutePatternWithoutRouter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if got := routePattern(req); got != "unmatched" {
		t.Fatalf("expected unmatched, got %q", got)
	}
}
