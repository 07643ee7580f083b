package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flightfinder",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flightfinder",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"method", "path"})

	// Upstream metrics
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flightfinder",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Requests sent to upstream APIs by outcome",
	}, []string{"provider", "operation", "outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flightfinder",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of upstream API requests",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"provider", "operation"})

	TokenCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flightfinder",
		Subsystem: "upstream",
		Name:      "token_cache_total",
		Help:      "Access token lookups by result (hit or miss)",
	}, []string{"result"})

	// Domain metrics
	SweepSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flightfinder",
		Subsystem: "sweep",
		Name:      "searches_total",
		Help:      "Date-shifted searches issued by the bulk sweep",
	}, []string{"direction", "outcome"})

	Suggestions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flightfinder",
		Subsystem: "suggest",
		Name:      "lookups_total",
		Help:      "Nearby-airport suggestion lookups by outcome",
	}, []string{"outcome"})
)

// ObserveUpstream records one upstream call.
func ObserveUpstream(provider, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequests.WithLabelValues(provider, operation, outcome).Inc()
	UpstreamDuration.WithLabelValues(provider, operation).Observe(time.Since(start).Seconds())
}

// Middleware records request metrics.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			method := c.Request().Method

			httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler serves the Prometheus /metrics endpoint.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
