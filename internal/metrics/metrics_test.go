package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		// Known exact routes.
		{"/healthz", "/healthz"},
		{"/readyz", "/readyz"},
		{"/metrics", "/metrics"},
		{"/", "/"},
		{"/api/v1/sites", "/api/v1/sites"},
		{"/api/v1/windows", "/api/v1/windows"},
		{"/api/v1/search", "/api/v1/search"},
		{"/api/v1/candidates", "/api/v1/candidates"},

		// Unknown/bot paths collapse to "other".
		{"/wp-admin", "other"},
		{"/robots.txt", "other"},
		{"/.env", "other"},
		{"/api/v2/something", "other"},
		{"/api/v1/candidates/2025abc", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeRoute(tt.path))
		})
	}
}

// TestMetricsCardinality verifies that 100 unknown paths produce exactly one
// distinct path label.
func TestMetricsCardinality(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[normalizeRoute("/probe/"+strconv.Itoa(i))] = true
	}
	assert.Len(t, seen, 1)
}

func TestMiddlewareUsesChiPattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/v1/sites", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/v1/sites", http.MethodGet, "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sites", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/v1/sites", http.MethodGet, "418"))
	assert.Equal(t, before+1, after)
}

func TestRecordHelpers(t *testing.T) {
	okBefore := testutil.ToFloat64(catalogFetchTotal.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(catalogFetchTotal.WithLabelValues("error"))
	RecordFetch(time.Second, nil)
	RecordFetch(time.Second, errors.New("boom"))
	assert.Equal(t, okBefore+1, testutil.ToFloat64(catalogFetchTotal.WithLabelValues("ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(catalogFetchTotal.WithLabelValues("error")))

	qBefore := testutil.ToFloat64(selectionCandidates.WithLabelValues(OutcomeQualified))
	AddSelectionOutcome(OutcomeQualified, 3)
	AddSelectionOutcome(OutcomeQualified, 0)
	assert.Equal(t, qBefore+3, testutil.ToFloat64(selectionCandidates.WithLabelValues(OutcomeQualified)))

	SetSearchInFlight(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(searchTasksInFlight))
	SetSearchInFlight(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(searchTasksInFlight))
}
