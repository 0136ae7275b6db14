// Package metrics exposes Prometheus counters for HTTP traffic and redirects.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Redirect outcomes recorded by RedirectsTotal.
const (
	OutcomeRedirected = "redirected"
	OutcomeNoURL      = "no_url"
	OutcomeNotFound   = "not_found"
	OutcomeError      = "error"
)

// Metrics holds all Prometheus collectors of the service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RedirectsTotal      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		RedirectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "course_redirects_total",
			Help: "Affiliate redirects by outcome",
		}, []string{"outcome"}),
		gatherer: reg,
	}
	reg.MustRegister(m.HTTPRequestsTotal, m.HTTPRequestDuration, m.RedirectsTotal)
	return m
}

// Redirect counts one redirect with the given outcome.
func (m *Metrics) Redirect(outcome string) {
	m.RedirectsTotal.WithLabelValues(outcome).Inc()
}

// Middleware records request count and latency labelled by route template,
// so /course/:slug is one series regardless of the slug.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
