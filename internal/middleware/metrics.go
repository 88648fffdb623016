package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the HTTP collectors.  It is built once and registered with
// the registry exposed on /metrics.
type Metrics struct {
    requests *prometheus.CounterVec
    latency  *prometheus.HistogramVec
}

// NewMetrics registers request collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
    m := &Metrics{
        requests: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: "storefront",
            Name:      "http_requests_total",
            Help:      "HTTP requests by route, method and status.",
        }, []string{"route", "method", "status"}),
        latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
            Namespace: "storefront",
            Name:      "http_request_duration_seconds",
            Help:      "HTTP request latency by route.",
            Buckets:   prometheus.DefBuckets,
        }, []string{"route", "method"}),
    }
    reg.MustRegister(m.requests, m.latency)
    return m
}

// Middleware records one observation per request, labelled by the matched
// route pattern rather than the raw path to keep cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            status := c.Response().Status
            if err != nil {
                if he, ok := err.(*echo.HTTPError); ok {
                    status = he.Code
                }
            }
            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            method := c.Request().Method
            m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
            m.latency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
            return err
        }
    }
}
