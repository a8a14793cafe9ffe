package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Joaovenera/wms-sub000/internal/api/handlers"
	"github.com/Joaovenera/wms-sub000/internal/application"
	"github.com/Joaovenera/wms-sub000/internal/cache"
	"github.com/Joaovenera/wms-sub000/internal/ratelimit"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
	"github.com/Joaovenera/wms-sub000/pkg/metrics"
	"github.com/Joaovenera/wms-sub000/pkg/middleware"
)

// Dependencies collects everything the router wires together
type Dependencies struct {
	Compositions *application.CompositionService
	UCPs         *application.UCPService
	Inventory    *application.InventoryService
	Cache        cache.Store
	Limiter      ratelimit.Limiter
	Logger       *logging.Logger
	Metrics      *metrics.Metrics
	ServiceName  string
	ReadyCheck   func() error
}

// NewRouter builds the gin engine with the standard middleware chain
// and all service routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	middleware.Setup(router, middleware.DefaultConfig(deps.ServiceName, deps.Logger.Logger))
	router.Use(middleware.TracingMiddleware(middleware.DefaultTracingConfig(deps.ServiceName)))
	if deps.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(deps.Metrics))
	}
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(deps.ServiceName))
	readyCheck := deps.ReadyCheck
	if readyCheck == nil {
		readyCheck = func() error { return nil }
	}
	router.GET("/ready", middleware.ReadinessCheck(deps.ServiceName, readyCheck))
	if deps.Metrics != nil {
		router.GET("/metrics", middleware.MetricsEndpoint(deps.Metrics))
	}

	v1 := router.Group("/api/v1")

	handlers.NewCompositionHandlers(deps.Compositions, deps.Limiter, deps.Logger, deps.Metrics).RegisterRoutes(v1)
	handlers.NewUCPHandlers(deps.UCPs, deps.Logger).RegisterRoutes(v1)
	handlers.NewInventoryHandlers(deps.Inventory, deps.UCPs, deps.Logger).RegisterRoutes(v1)
	if deps.Cache != nil {
		handlers.NewCacheHandlers(deps.Cache, deps.Logger).RegisterRoutes(v1)
	}

	return router
}
