package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// New returns an engine with the global middleware chain and /metrics.
// ErrorHandler sits innermost so logging and metrics see its status.
func New(logger zerolog.Logger, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.Metrics(),
		middleware.CORS(allowedOrigins),
		middleware.ErrorHandler(),
	)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

// SetupRouter configures the application routes
func SetupRouter(logger zerolog.Logger, allowedOrigins []string, db *gorm.DB, services api.Services) *gin.Engine {
	router := New(logger, allowedOrigins)
	api.RegisterRoutes(router, db, services)
	return router
}
