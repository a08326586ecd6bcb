package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/auth"
)

// RouterConfig holds the optional cross-cutting settings of the router.
type RouterConfig struct {
	// AllowOrigins defaults to every origin.
	AllowOrigins []string

	// JWT enables bearer auth on the extract routes when set.
	JWT *auth.JWTManager
}

// NewRouter sets up the API router
func NewRouter(handler *Handler, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Create gin router
	router := gin.New()

	// Set up middleware
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	// Set up CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes
	router.GET("/", handler.HealthCheck)
	router.GET("/health", handler.HealthCheck)

	extract := router.Group("/extract")
	if cfg.JWT != nil {
		extract.Use(AuthMiddleware(cfg.JWT, logger))
	}
	{
		extract.POST("", handler.Extract)
		extract.POST("/raw", handler.ExtractRaw)
		extract.POST("/batch", handler.ExtractBatch)
	}

	return router
}
