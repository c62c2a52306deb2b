package mgmt

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/go-pkgz/lgr"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics provides registration of fetch and api counters for prometheus.
// Implements metrics interfaces of hook and fetcher.
type Metrics struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchRetries  prometheus.Counter
	cacheHits     prometheus.Counter
	apiRequests   *prometheus.CounterVec
	apiDuration   *prometheus.HistogramVec
}

// NewMetrics creates metrics object with all counters registered
func NewMetrics() *Metrics {
	res := &Metrics{}

	res.fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_total",
			Help: "Number of fetch hook calls by outcome.",
		},
		[]string{"outcome"},
	)

	res.fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fetch_duration_seconds",
		Help:    "Duration of fetches made by the plugin.",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15, 30},
	}, []string{"outcome"})

	res.fetchRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fetch_retries_total",
		Help: "Number of fetches repeated without compression.",
	})

	res.cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Number of feeds served from the host cache.",
	})

	res.apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Number of management api requests by status.",
		},
		[]string{"status"},
	)

	res.apiDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_response_time_seconds",
		Help:    "Duration of management api requests.",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 2},
	}, []string{"route"})

	collectors := map[string]prometheus.Collector{
		"fetchTotal": res.fetchTotal, "fetchDuration": res.fetchDuration, "fetchRetries": res.fetchRetries,
		"cacheHits": res.cacheHits, "apiRequests": res.apiRequests, "apiDuration": res.apiDuration,
	}
	for name, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			log.Printf("[WARN] can't register prometheus %s, %v", name, err)
		}
	}
	return res
}

// IncCacheHits counts feed served from the host cache
func (m *Metrics) IncCacheHits() {
	m.cacheHits.Inc()
}

// ObserveFetch counts fetch outcome and its duration
func (m *Metrics) ObserveFetch(outcome string, d time.Duration) {
	m.fetchTotal.WithLabelValues(outcome).Inc()
	m.fetchDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// IncRetries counts fetch repeated without compression
func (m *Metrics) IncRetries() {
	m.fetchRetries.Inc()
}

// Middleware counts api requests by status and measures duration by route pattern.
// Should be used inside chi router, unmatched requests reported as "[unmatched]".
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := time.Now()
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		m.apiRequests.WithLabelValues(strconv.Itoa(rw.statusCode)).Inc()
		m.apiDuration.WithLabelValues(routePattern(r)).Observe(time.Since(st).Seconds())
	})
}

// routePattern extracts the route pattern from chi context
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "[unmatched]"
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

// WriteHeader wraps http.ResponseWriter and stores status code
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
