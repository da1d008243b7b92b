package main

import (
	"context"
	"net/http"
	"time"

	_ "campus-sublets/docs"
	"campus-sublets/internal/middleware"
	"campus-sublets/pkg/cache"
	"campus-sublets/pkg/database"
	"campus-sublets/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	a.setupStaticRoutes()
	a.setupHealthCheck()
	a.setupAPIRoutes()
}

// setupStaticRoutes configures the API documentation and metrics endpoints
func (a *App) setupStaticRoutes() {
	// Serve Swagger UI and doc.json
	a.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Expose Prometheus metrics endpoint
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupHealthCheck configures health check endpoint
func (a *App) setupHealthCheck() {
	a.Router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := database.Ping(ctx); err != nil {
			logger.GlobalLogger.Warnf("MongoDB ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "MongoDB unavailable"})
			return
		}

		if err := cache.Ping(ctx); err != nil {
			logger.GlobalLogger.Warnf("Redis ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Redis unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "browse_sessions": a.Browse.Len()})
	})
}

// setupAPIRoutes configures API routes
func (a *App) setupAPIRoutes() {
	requireAuth := middleware.AuthMiddleware(a.Config.JWT.Secret)

	api := a.Router.Group("/api")
	{
		// Public routes
		api.POST("/register", a.UserHandler.Register)
		api.POST("/login", a.UserHandler.Login)
		api.POST("/geocoding", a.GeocodingHandler.Geocode)
		api.POST("/places-autocomplete", a.GeocodingHandler.Autocomplete)

		listings := api.Group("/listings")
		{
			listings.GET("", a.ListingHandler.ListListings)
			listings.GET("/map", a.ListingHandler.MapListings)
			listings.GET("/mine", requireAuth, a.ListingHandler.MyListings)
			listings.GET("/:id", a.ListingHandler.GetListing)
			listings.POST("", requireAuth, a.ListingHandler.CreateListing)
			listings.PUT("/:id", requireAuth, a.ListingHandler.UpdateListing)
			listings.DELETE("/:id", requireAuth, a.ListingHandler.DeleteListing)
		}

		browse := api.Group("/browse")
		{
			browse.POST("", a.BrowseHandler.CreateSession)
			browse.GET("/:id", a.BrowseHandler.GetSession)
			browse.PATCH("/:id", a.BrowseHandler.UpdateFilters)
			browse.POST("/:id/refresh", a.BrowseHandler.RefreshSession)
			browse.GET("/:id/suggestions", a.BrowseHandler.Suggestions)
			browse.POST("/:id/markers/:listingId/activate", a.BrowseHandler.ActivateMarker)
			browse.DELETE("/:id", a.BrowseHandler.DeleteSession)
		}

		profiles := api.Group("/profiles")
		{
			profiles.GET("/me", requireAuth, a.ProfileHandler.GetMyProfile)
			profiles.PUT("/me", requireAuth, a.ProfileHandler.UpdateProfile)
			profiles.GET("/:id", a.ProfileHandler.GetProfile)
			profiles.PUT("/:id", requireAuth, a.ProfileHandler.UpdateProfile)
		}

		// Protected routes
		messages := api.Group("/messages")
		messages.Use(requireAuth)
		{
			messages.POST("", a.MessageHandler.SendMessage)
			messages.GET("", a.MessageHandler.ListMessages)
			messages.GET("/conversations/:userId", a.MessageHandler.Conversation)
			messages.PATCH("/:id/read", a.MessageHandler.MarkRead)
		}
	}
}
