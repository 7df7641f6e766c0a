package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/hospitalops/hospital-api/internal/handler/health"
	"github.com/hospitalops/hospital-api/internal/handler/prometheus"
	"github.com/hospitalops/hospital-api/internal/handler/staff"
	"github.com/hospitalops/hospital-api/internal/middleware"
	"github.com/hospitalops/hospital-api/pkg/logger"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimit rate.Limit
	RateBurst int
	// RequireAuth gates the domain routes behind JWT authentication.
	// Health, metrics and login stay public either way.
	RequireAuth bool
	// Logger backs the recovery middleware; a default is built when nil.
	Logger *logger.Logger
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	config  Config
	metrics *prometheus.Handler

	healthH *health.Handler
	staffH  *staff.Handler
	domainH []Handler
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	healthH *health.Handler,
	staffH *staff.Handler,
	config Config,
	domainHandlers ...Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	metrics := prometheus.New()

	r := &Router{
		engine:  engine,
		auth:    auth,
		config:  config,
		metrics: metrics,
		healthH: healthH,
		staffH:  staffH,
		domainH: domainHandlers,
	}

	if config.Logger == nil {
		config.Logger = logger.NewLogger(nil)
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(config.Logger),
		middleware.Logger(),
		middleware.ErrorHandler(),
		metrics.Middleware(),
	)

	if config.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.healthH.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", r.metrics.Handler())

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	// Login stays public.
	r.staffH.RegisterAuthRoutes(api)

	protected := api.Group("")
	if r.config.RequireAuth {
		protected.Use(r.auth.Authenticate())
	}

	r.staffH.RegisterRoutes(protected)
	for _, h := range r.domainH {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
