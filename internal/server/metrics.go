package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	inFlight  prometheus.Gauge
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	tokens    *prometheus.CounterVec
	batchSize *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "glmtok_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		}),
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glmtok_http_requests_total",
				Help: "Total number of HTTP requests served.",
			},
			[]string{"code", "method", "route"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glmtok_http_request_duration_seconds",
				Help:    "HTTP request latencies.",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"route"},
		),
		tokens: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glmtok_tokens_total",
				Help: "Tokens encoded or decoded.",
			},
			[]string{"op"},
		),
		batchSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glmtok_batch_size",
				Help:    "Number of requests per batch call.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 6),
			},
			[]string{"op"},
		),
	}
}

// Middleware records request counts and latencies per route.
func (m *Metrics) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		err := next(c)
		if err != nil {
			// Let the error handler pick the status before it is recorded.
			c.Error(err)
		}

		route := c.Path()
		m.requests.WithLabelValues(strconv.Itoa(c.Response().Status), c.Request().Method, route).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return nil
	}
}

func (m *Metrics) observeTokens(op string, n int) {
	m.tokens.WithLabelValues(op).Add(float64(n))
}

func (m *Metrics) observeBatch(op string, n int) {
	m.batchSize.WithLabelValues(op).Observe(float64(n))
}
