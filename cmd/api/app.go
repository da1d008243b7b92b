package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"campus-sublets/internal/browse"
	"campus-sublets/internal/filters"
	"campus-sublets/internal/handlers"
	"campus-sublets/internal/mapsync"
	"campus-sublets/internal/middleware"
	"campus-sublets/internal/repositories"
	"campus-sublets/internal/services"
	"campus-sublets/internal/transformers"
	"campus-sublets/internal/validators"
	"campus-sublets/pkg/cache"
	"campus-sublets/pkg/config"
	"campus-sublets/pkg/database"
	"campus-sublets/pkg/geocoding"
	"campus-sublets/pkg/logger"
	"campus-sublets/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const (
	rateLimiterSweepInterval = time.Minute
	browseSweepInterval      = time.Minute
)

// App represents the application structure
type App struct {
	Config           *config.Config
	Router           *gin.Engine
	ListingHandler   *handlers.ListingHandler
	GeocodingHandler *handlers.GeocodingHandler
	MessageHandler   *handlers.MessageHandler
	ProfileHandler   *handlers.ProfileHandler
	UserHandler      *handlers.UserHandler
	BrowseHandler    *handlers.BrowseHandler
	RateLimiter      *middleware.RateLimiter
	Browse           *browse.Registry
	Server           *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{Config: cfg, ctx: ctx, cancel: cancel}

	// Initialize infrastructure
	app.initializeDatabase()
	app.initializeCache()
	app.initializeMetrics()
	app.initializeRateLimiter()

	// Initialize business logic
	app.initializeDependencies()

	// Initialize web layer
	app.initializeRouter()

	return app
}

// initialize the database connection
func (a *App) initializeDatabase() {
	err := database.InitDB(database.Config{
		URI:    a.Config.Database.URI,
		DBName: a.Config.Database.DBName,
	})
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize database: %v", err)
		os.Exit(1)
	}
}

// initialize the Redis cache
func (a *App) initializeCache() {
	err := cache.InitRedis(cache.Config{
		Host:        a.Config.Redis.Host,
		Port:        a.Config.Redis.Port,
		Password:    a.Config.Redis.Password,
		DB:          a.Config.Redis.DB,
		TLSEnabled:  a.Config.Redis.TLSEnabled,
		TLSCertFile: a.Config.Redis.TLSCertFile,
	})
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize the rate limiter
func (a *App) initializeRateLimiter() {
	a.RateLimiter = middleware.NewRateLimiter(middleware.PerMinute(a.Config.RateLimit.RequestsPerMinute), a.Config.RateLimit.Burst)
	go a.RateLimiter.Cleanup(a.ctx, rateLimiterSweepInterval)
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	cfg := a.Config

	// repositories
	listingRepo := repositories.NewListingRepository()
	listingCache := repositories.NewListingCache()
	geocodeCache := repositories.NewGeocodeCache()
	messageRepo := repositories.NewMessageRepository()
	profileRepo := repositories.NewProfileRepository()
	userRepo := repositories.NewUserRepository()

	// transformers
	addrTrans := transformers.NewAddressTransformer()
	normalizer := transformers.NewListingNormalizer(transformers.NormalizerOptions{
		NoImageURL: cfg.Listings.NoImageURL,
		Fallbacks: transformers.Fallbacks{
			Rating:      cfg.Listings.Fallbacks.Rating,
			ReviewCount: cfg.Listings.Fallbacks.ReviewCount,
			StartDate:   cfg.Listings.Fallbacks.StartDate,
			EndDate:     cfg.Listings.Fallbacks.EndDate,
		},
	})

	// validators
	listingValidator := validators.NewListingValidator()
	messageValidator := validators.NewMessageValidator()
	userValidator := validators.NewUserValidator()

	// gateways
	mapsClient := geocoding.NewClient(cfg.Maps.APIKey,
		geocoding.WithBaseURLs(cfg.Maps.GeocodeURL, cfg.Maps.AutocompleteURL),
		geocoding.WithHTTPClient(&http.Client{Timeout: cfg.Maps.Timeout()}),
		geocoding.WithMaxRetries(cfg.Maps.MaxRetries),
	)

	// services
	viewport := mapsync.ViewportConfig{
		Width:   cfg.Map.WidthPx,
		Height:  cfg.Map.HeightPx,
		Padding: cfg.Map.PaddingPx,
		Center:  mapsync.LatLng{Lat: cfg.Map.DefaultLat, Lng: cfg.Map.DefaultLng},
		Zoom:    cfg.Map.DefaultZoom,
	}
	geocodingService := services.NewGeocodingService(mapsClient, geocodeCache, cfg.Maps.CacheTTL())
	listingService := services.NewListingService(listingRepo, listingCache, normalizer, addrTrans, listingValidator, geocodingService, services.ListingSettings{
		CacheTTL:        cfg.Listings.CacheTTL(),
		Bounds:          filters.PriceBounds{Min: cfg.Listings.PriceFloor, Max: cfg.Listings.PriceCeiling},
		DefaultPriceMin: cfg.Listings.DefaultPriceMin,
		DefaultPriceMax: cfg.Listings.DefaultPriceMax,
		Viewport:        viewport,
		MaxZoom:         cfg.Map.MaxZoom,
	})
	messageService := services.NewMessageService(messageRepo, messageValidator)
	profileService := services.NewProfileService(profileRepo)
	userService := services.NewUserService(userRepo, profileRepo, userValidator, cfg.JWT.Secret)

	// browse sessions
	a.Browse = browse.NewRegistry(listingService, geocodingService, browse.Config{
		InitialState:       listingService.DefaultState(),
		Viewport:           viewport,
		MaxZoom:            listingService.MaxZoom(),
		AutocompleteQuiet:  cfg.Browse.AutocompleteQuiet(),
		AutocompleteMinLen: cfg.Browse.AutocompleteMinLen,
	}, cfg.Browse.SessionTTL())
	go a.Browse.Cleanup(a.ctx, browseSweepInterval)

	// handlers
	a.ListingHandler = handlers.NewListingHandler(listingService)
	a.GeocodingHandler = handlers.NewGeocodingHandler(geocodingService)
	a.MessageHandler = handlers.NewMessageHandler(messageService)
	a.ProfileHandler = handlers.NewProfileHandler(profileService)
	a.UserHandler = handlers.NewUserHandler(userService)
	a.BrowseHandler = handlers.NewBrowseHandler(a.Browse)
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	a.Router = gin.New()
	a.setupMiddleware()
	a.setupRoutes()
}

// cleanup operations
func (a *App) cleanup() {
	a.cancel()
	if a.Browse != nil {
		a.Browse.Close()
	}
	database.CloseDB()
	cache.CloseRedis()
}
