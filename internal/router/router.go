package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/cookpress/backend/config"
	"github.com/cookpress/backend/internal/api"
	"github.com/cookpress/backend/internal/middleware"
	"github.com/cookpress/backend/internal/service"
	"github.com/cookpress/backend/internal/store"
)

// Setup configures the application routes. redisClient and share may be
// nil, disabling rate limiting and the share endpoint respectively.
func Setup(
	cfg *config.Config,
	sessions *store.Sessions,
	extractor *service.ExtractionService,
	share *service.ShareService,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), middleware.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://frontend:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		ExposeHeaders:    []string{middleware.TokenHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Everything under /api/v1 is session-scoped.
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Session(cfg.JWTSecret, cfg.SessionTTL))

	var extractGuards []gin.HandlerFunc
	if redisClient != nil {
		limiter := middleware.NewExtractionRateLimiter(redisClient)
		extractGuards = append(extractGuards, limiter.RateLimitMiddleware())
	}

	recipeHandler := api.NewRecipeHandler(sessions, extractor)
	exportHandler := api.NewExportHandler(sessions, cfg.CookbookTitle, share)

	recipeHandler.RegisterRoutes(v1, extractGuards...)
	exportHandler.RegisterRoutes(v1)

	return router
}
