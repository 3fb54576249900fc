package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth          service.IAuthService
	Users         service.IUserService
	Recipes       service.IRecipeService
	Lists         service.IListService
	ShoppingList  service.IShoppingListService
	ShortLinks    service.IShortLinkService
	Subscriptions service.ISubscriptionService
	Ingredients   service.IIngredientService
	Tags          service.ITagService

	// Optional; nil disables the corresponding limit.
	CreationLimiter     *middleware.RateLimiter
	ModificationLimiter *middleware.RateLimiter

	// SiteHostname is where short links redirect to.
	SiteHostname string
}

// HealthCheck reports whether the database answers.
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Foodgram API is running",
		})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, s Services) {
	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck(db))

	NewShortLinkHandler(s.ShortLinks, s.SiteHostname).RegisterRoutes(router)

	api := router.Group("/api")
	NewAuthHandler(s.Auth).RegisterRoutes(api)
	NewUserHandler(s.Auth, s.Users, s.Subscriptions, s.Recipes).RegisterRoutes(api)
	NewReferenceHandler(s.Ingredients, s.Tags).RegisterRoutes(api)
	NewRecipeHandler(s.Recipes, s.Lists, s.ShoppingList, s.ShortLinks, s.Auth).
		WithRateLimits(s.CreationLimiter, s.ModificationLimiter).
		RegisterRoutes(api)
}
