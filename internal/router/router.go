// Package router assembles the gin engine: core middleware chain,
// public pages, and the role-gated page groups.
package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jeevanhealth/portal/internal/middleware"
	"github.com/jeevanhealth/portal/internal/model"
	"github.com/jeevanhealth/portal/internal/view"
)

// Handler mounts a set of page routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine   *gin.Engine
	gate     *middleware.SessionGate
	authH    Handler
	patientH Handler
	doctorH  Handler
	adminH   []Handler
	healthH  Handler
	metrics  *routerMetrics
	registry *prometheus.Registry
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	RateLimit      float64
	RateBurst      int
	MetricsPrefix  string
	RequestTimeout time.Duration
}

func NewRouter(
	gate *middleware.SessionGate,
	authH Handler,
	patientH Handler,
	doctorH Handler,
	healthH Handler,
	config RouterConfig,
	adminH ...Handler,
) (*Router, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	tmpl, err := view.NewTemplates()
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tmpl)

	r := &Router{
		engine:   engine,
		gate:     gate,
		authH:    authH,
		patientH: patientH,
		doctorH:  doctorH,
		adminH:   adminH,
		healthH:  healthH,
		metrics:  initRouterMetrics(config.MetricsPrefix),
		registry: prometheus.NewRegistry(),
	}
	r.registry.MustRegister(
		r.metrics.requestDuration,
		r.metrics.requestTotal,
		r.metrics.errorTotal,
	)

	engine.Use(
		middleware.Recovery(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.RequestID(),
		middleware.Timeout(config.RequestTimeout),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r, nil
}

func (r *Router) Setup() {
	r.engine.GET("/static/portal.css", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/css; charset=utf-8", view.CSS)
	})

	ops := r.engine.Group("")
	r.healthH.RegisterRoutes(ops)
	ops.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))

	// Public pages carry the session when one exists so the navbar can
	// reflect it.
	public := r.engine.Group("", r.gate.Optional())
	r.authH.RegisterRoutes(public)

	patient := r.engine.Group("/patient", r.gate.RequireRole(model.RolePatient))
	r.patientH.RegisterRoutes(patient)

	doctor := r.engine.Group("/doctor", r.gate.RequireRole(model.RoleDoctor))
	r.doctorH.RegisterRoutes(doctor)

	admin := r.engine.Group("/admin", r.gate.RequireRole(model.RoleAdmin))
	for _, h := range r.adminH {
		h.RegisterRoutes(admin)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
