// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so several instances can coexist in tests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RecipesCreated   *prometheus.CounterVec
	RecipesDeleted   prometheus.Counter
	UsersRegistered  prometheus.Counter
	AIRequests       *prometheus.CounterVec
	ImageStoreErrors *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gfgm_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gfgm_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		RecipesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gfgm_recipes_created_total",
			Help: "Recipes created, split by origin (manual or ai)",
		}, []string{"origin"}),
		RecipesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gfgm_recipes_deleted_total",
			Help: "Recipes deleted by owners or administrators",
		}),
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "gfgm_users_registered_total",
			Help: "Successful user registrations",
		}),
		AIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gfgm_ai_requests_total",
			Help: "Calls to the AI prediction service by outcome",
		}, []string{"outcome"}),
		ImageStoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gfgm_image_store_errors_total",
			Help: "Image storage failures by operation",
		}, []string{"op"}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency per matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) RecipeCreated(ai bool) {
	if m == nil {
		return
	}
	origin := "manual"
	if ai {
		origin = "ai"
	}
	m.RecipesCreated.WithLabelValues(origin).Inc()
}

func (m *Metrics) RecipeDeleted() {
	if m != nil {
		m.RecipesDeleted.Inc()
	}
}

func (m *Metrics) UserRegistered() {
	if m != nil {
		m.UsersRegistered.Inc()
	}
}

func (m *Metrics) AIRequest(outcome string) {
	if m != nil {
		m.AIRequests.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ImageStoreError(op string) {
	if m != nil {
		m.ImageStoreErrors.WithLabelValues(op).Inc()
	}
}
