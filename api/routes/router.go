// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"cleangrid/internal/admin"
	"cleangrid/internal/auth"
	"cleangrid/internal/bookings"
	"cleangrid/internal/cancellation"
	"cleangrid/internal/catalog"
	"cleangrid/internal/onboarding"
	"cleangrid/internal/properties"
	"cleangrid/internal/quotes"
	"cleangrid/internal/reviews"
	"cleangrid/internal/shared/config"
	"cleangrid/internal/shared/database"
	"cleangrid/internal/territory"
	"cleangrid/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	cacheService cache.Service
	notifier     bookings.Notifier
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service, notifier bookings.Notifier) *Router {
	return &Router{
		config:       cfg,
		db:           db,
		cacheService: cacheService,
		notifier:     notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// Catalog feeds the quote engine, so it is wired first.
		catalogService := r.setupCatalogRoutes(api)
		quoteService := r.setupQuoteRoutes(api, catalogService)
		territoryService := r.setupTerritoryRoutes(api)
		r.setupOnboardingRoutes(api, territoryService)
		propertyService := r.setupPropertyRoutes(api)
		bookingRepo := r.setupBookingRoutes(api, quoteService, territoryService, propertyService)
		r.setupCancellationRoutes(api, bookingRepo)
		r.setupReviewRoutes(api, bookingRepo)
		r.setupAdminRoutes(api, bookingRepo)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cleangrid-api",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cleangrid-api",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	authRouter.SetupRoutes(rg)
}

func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) catalog.Service {
	catalogRepo := catalog.NewRepository(r.db.GetPostgreSQL())
	catalogService := catalog.NewServiceWithCache(catalogRepo, r.cacheService)
	catalogController := catalog.NewController(catalogService)

	catalog.SetupCatalogRoutes(rg, catalogController, r.config)
	return catalogService
}

func (r *Router) setupQuoteRoutes(rg *gin.RouterGroup, catalogService catalog.Service) quotes.Service {
	engine := quotes.NewEngine(quotes.DefaultPricingConfig())
	quoteService := quotes.NewService(engine, catalogService)
	quoteController := quotes.NewController(quoteService)

	quotes.SetupQuoteRoutes(rg, quoteController)
	return quoteService
}

func (r *Router) setupTerritoryRoutes(rg *gin.RouterGroup) territory.Service {
	territoryRepo := territory.NewRepository(r.db.GetPostgreSQL())
	territoryService := territory.NewServiceWithCache(territoryRepo, r.cacheService)
	territoryController := territory.NewController(territoryService)

	territory.SetupTerritoryRoutes(rg, territoryController, r.config)
	return territoryService
}

func (r *Router) setupOnboardingRoutes(rg *gin.RouterGroup, territoryService territory.Service) {
	onboardingRepo := onboarding.NewRepository(r.db.GetPostgreSQL())
	userRepo := auth.NewRepository(r.db.GetPostgreSQL())
	onboardingService := onboarding.NewService(onboardingRepo, userRepo, territoryService)
	onboardingController := onboarding.NewController(onboardingService)

	onboarding.SetupOnboardingRoutes(rg, onboardingController, r.config)
}

func (r *Router) setupPropertyRoutes(rg *gin.RouterGroup) properties.Service {
	propertyRepo := properties.NewRepository(r.db.GetPostgreSQL())
	propertyService := properties.NewService(propertyRepo)
	propertyController := properties.NewController(propertyService)

	properties.SetupPropertyRoutes(rg, propertyController, r.config)
	return propertyService
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup, quoteService quotes.Service,
	territoryService territory.Service, propertyService properties.Service) bookings.Repository {

	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, quoteService, territoryService, propertyService, r.config)

	// Property deactivation needs to see open bookings, and booking
	// creation needs properties. Both services exist now, close the loop.
	propertyService.SetBookingChecker(bookingService)

	if r.notifier != nil {
		bookingService.SetNotifier(r.notifier)
	}

	bookingController := bookings.NewController(bookingService)
	bookings.SetupBookingRoutes(rg, bookingController, r.config)
	return bookingRepo
}

func (r *Router) setupCancellationRoutes(rg *gin.RouterGroup, bookingRepo bookings.Repository) {
	cancellationService := cancellation.NewService(bookingRepo, r.config)
	if r.notifier != nil {
		cancellationService.SetNotifier(r.notifier)
	}
	cancellationController := cancellation.NewController(cancellationService)

	cancellation.SetupCancellationRoutes(rg, cancellationController, r.config)
}

func (r *Router) setupReviewRoutes(rg *gin.RouterGroup, bookingRepo bookings.Repository) {
	reviewRepo := reviews.NewRepository(r.db.GetPostgreSQL())
	reviewService := reviews.NewService(reviewRepo, bookingRepo)
	reviewController := reviews.NewController(reviewService)

	reviews.SetupReviewRoutes(rg, reviewController, r.config)
}

func (r *Router) setupAdminRoutes(rg *gin.RouterGroup, bookingRepo bookings.Repository) {
	territoryRepo := territory.NewRepository(r.db.GetPostgreSQL())
	userRepo := auth.NewRepository(r.db.GetPostgreSQL())
	adminService := admin.NewService(bookingRepo, territoryRepo, userRepo, r.cacheService)
	adminController := admin.NewController(adminService)

	admin.SetupAdminRoutes(rg, adminController, r.config)
}
