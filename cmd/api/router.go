package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketing-asset-backend/internal/shared/middleware"
	"marketing-asset-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.Identity(c.JWTManager),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAssetRoutes(v1, c)
		setupReviewRoutes(v1, c)
	}

	return router
}

// ========================================
// ASSET ROUTES
// ========================================
func setupAssetRoutes(v1 *gin.RouterGroup, c *container.Container) {
	assets := v1.Group("/assets")
	{
		assets.GET("", c.AssetHandler.ListAssets)
		assets.GET("/:id", c.AssetHandler.GetAsset)
		assets.GET("/:id/linkable", c.AssetHandler.CheckLinkable)

		// Writes require a resolved caller identity.
		assets.POST("", middleware.RequirePrincipal(), c.AssetHandler.CreateAsset)
		assets.POST("/:id/activate", middleware.RequirePrincipal(), c.AssetHandler.ActivateLinking)
		assets.POST("/:id/link", middleware.RequirePrincipal(), c.AssetHandler.Link)
		assets.POST("/:id/unlink", middleware.RequirePrincipal(), c.AssetHandler.Unlink)
		assets.POST("/:id/archive", middleware.RequirePrincipal(), c.AssetHandler.Archive)
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reviews := v1.Group("/assets/:id/reviews")
	{
		reviews.POST("", middleware.RequirePrincipal(), c.ReviewHandler.SubmitReview)
		reviews.GET("", c.ReviewHandler.ListReviews)
		reviews.GET("/stats", c.ReviewHandler.GetStatistics)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "unavailable"
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = "unavailable"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"name":        c.Config.App.Name,
			"version":     c.Config.App.Version,
			"environment": c.Config.App.Environment,
			"database":    dbStatus,
			"cache":       cacheStatus,
		})
	}
}
