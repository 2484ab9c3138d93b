package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	cartOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_cart_operations_total",
			Help: "Cart operations by kind and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	ordersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookstore_orders_created_total",
			Help: "Orders successfully created from carts.",
		},
	)
	orderValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookstore_order_value",
			Help:    "Total amount of created orders.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)
	bookCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_book_cache_lookups_total",
			Help: "Book catalogue cache lookups by result.",
		},
		[]string{"result"},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

func ObserveCartOperation(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}

	cartOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

func ObserveOrderCreated(total float64) {
	ordersCreatedTotal.Inc()
	orderValue.Observe(total)
}

func ObserveBookCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}

	bookCacheLookups.WithLabelValues(result).Inc()
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware must wrap the ServeMux directly: the mux records the matched
// route on the request it is handed, which keeps the path label bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		defer func() {
			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}

			httpRequestsTotal.WithLabelValues(strconv.Itoa(rw.statusCode), r.Method, path).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
			httpRequestsInFlight.Dec()
		}()

		next.ServeHTTP(rw, r)
	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
