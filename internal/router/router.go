package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/LucasNeuro/fta-form-sub000/internal/handler"
	"github.com/LucasNeuro/fta-form-sub000/internal/middleware"
)

// Handler is anything that can attach its routes to a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	Timeout        time.Duration
	CORS           middleware.CORSConfig
	Log            zerolog.Logger
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	healthH *handler.HealthHandler
	authH   *handler.AuthHandler
	accessH *handler.AccessHandler
	linkH   *handler.LinkHandler
	admin   []Handler
	metrics *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	healthH *handler.HealthHandler,
	authH *handler.AuthHandler,
	accessH *handler.AccessHandler,
	linkH *handler.LinkHandler,
	cfg Config,
	admin ...Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:  engine,
		auth:    auth,
		healthH: healthH,
		authH:   authH,
		accessH: accessH,
		linkH:   linkH,
		admin:   admin,
		metrics: initRouterMetrics(),
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(cfg.Log),
		r.metricsMiddleware(),
		middleware.Timeout(timeout),
		middleware.CORS(cfg.CORS),
		middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit(),
	)

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	r.healthH.RegisterRoutes(api)

	// Public: login, the access gate and self-registration.
	r.authH.RegisterRoutes(api)
	r.accessH.RegisterRoutes(api)
	r.linkH.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.authH.RegisterProtectedRoutes(protected)
	r.linkH.RegisterRoutes(protected)
	for _, h := range r.admin {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics() *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "fta_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fta_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fta_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
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
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path).Inc()
		}
	}
}
