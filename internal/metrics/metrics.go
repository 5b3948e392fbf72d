package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Selection outcome labels.
const (
	OutcomeMagnitude      = "magnitude"
	OutcomeDate           = "date"
	OutcomeNotVisible     = "not_visible"
	OutcomeIgnored        = "ignored"
	OutcomeTransformError = "transform_error"
	OutcomeQualified      = "qualified"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snwatch_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snwatch_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	catalogFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snwatch_catalog_fetch_total",
			Help: "Catalog fetch attempts by result.",
		},
		[]string{"result"},
	)

	catalogFetchSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snwatch_catalog_fetch_duration_seconds",
			Help:    "Catalog fetch duration in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
	)

	catalogRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snwatch_catalog_rows_total",
			Help: "Catalog table rows by parse result.",
		},
		[]string{"result"},
	)

	catalogSnapshotRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "snwatch_catalog_snapshot_records",
			Help: "Number of records in the retained catalog snapshot.",
		},
	)

	catalogSnapshotAge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "snwatch_catalog_snapshot_age_seconds",
			Help: "Seconds since the retained catalog snapshot was fetched.",
		},
	)

	selectionCandidates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snwatch_selection_candidates_total",
			Help: "Catalog records evaluated by the selector, by outcome.",
		},
		[]string{"outcome"},
	)

	selectionSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snwatch_selection_duration_seconds",
			Help:    "Duration of one selection pass in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	searchTasksInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "snwatch_search_tasks_in_flight",
			Help: "Background search tasks currently running (0 or 1).",
		},
	)

	searchTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snwatch_search_tasks_total",
			Help: "Background search triggers by disposition.",
		},
		[]string{"disposition"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(catalogFetchTotal)
	prometheus.MustRegister(catalogFetchSeconds)
	prometheus.MustRegister(catalogRows)
	prometheus.MustRegister(catalogSnapshotRecords)
	prometheus.MustRegister(catalogSnapshotAge)
	prometheus.MustRegister(selectionCandidates)
	prometheus.MustRegister(selectionSeconds)
	prometheus.MustRegister(searchTasksInFlight)
	prometheus.MustRegister(searchTasksTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordFetch records one catalog fetch attempt.
func RecordFetch(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	catalogFetchTotal.WithLabelValues(result).Inc()
	catalogFetchSeconds.Observe(d.Seconds())
}

// AddRowsParsed counts rows that produced a catalog record.
func AddRowsParsed(n int) {
	catalogRows.WithLabelValues("parsed").Add(float64(n))
}

// AddRowsSkipped counts rows dropped by the parser.
func AddRowsSkipped(n int) {
	catalogRows.WithLabelValues("skipped").Add(float64(n))
}

// SetSnapshotRecords sets the size of the retained snapshot.
func SetSnapshotRecords(n int) {
	catalogSnapshotRecords.Set(float64(n))
}

// SetSnapshotAge sets the age of the retained snapshot.
func SetSnapshotAge(seconds float64) {
	catalogSnapshotAge.Set(seconds)
}

// AddSelectionOutcome counts n records that ended with outcome.
func AddSelectionOutcome(outcome string, n int) {
	if n == 0 {
		return
	}
	selectionCandidates.WithLabelValues(outcome).Add(float64(n))
}

// ObserveSelection records the duration of one selection pass.
func ObserveSelection(d time.Duration) {
	selectionSeconds.Observe(d.Seconds())
}

// SetSearchInFlight marks whether a background search is running.
func SetSearchInFlight(running bool) {
	if running {
		searchTasksInFlight.Set(1)
		return
	}
	searchTasksInFlight.Set(0)
}

// IncSearchTrigger counts a trigger by how the coordinator handled it:
// "started", "queued" or "ignored".
func IncSearchTrigger(disposition string) {
	searchTasksTotal.WithLabelValues(disposition).Inc()
}

// knownRoutes are the exact paths served by the API. Anything else is
// reported as "other" to bound label cardinality.
var knownRoutes = map[string]bool{
	"/":                  true,
	"/healthz":           true,
	"/readyz":            true,
	"/metrics":           true,
	"/api/v1/sites":      true,
	"/api/v1/windows":    true,
	"/api/v1/search":     true,
	"/api/v1/candidates": true,
}

// normalizeRoute maps a raw request path to a bounded label value.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// routeLabel prefers the chi route pattern matched for r.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" && knownRoutes[p] {
			return p
		}
	}
	return normalizeRoute(r.URL.Path)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		path := routeLabel(r)

		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}
