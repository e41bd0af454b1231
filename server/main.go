package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cleangrid/api/routes"
	"cleangrid/internal/auth"
	"cleangrid/internal/bookings"
	"cleangrid/internal/notifications"
	"cleangrid/internal/shared/config"
	"cleangrid/internal/shared/database"
	"cleangrid/pkg/cache"
	"cleangrid/pkg/logger"
	"cleangrid/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect databases", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	cacheService := cache.NewService(db.GetRedisClient())

	// Rate limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiterConfig := &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			PublicRequests:  cfg.RateLimit.PublicRequests,
			AuthRequests:    cfg.RateLimit.AuthRequests,
			QuoteRequests:   cfg.RateLimit.QuoteRequests,
			BookingRequests: cfg.RateLimit.BookingRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		}

		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), rateLimiterConfig)
		appLogger.Info("Rate limiter initialized",
			slog.Bool("enabled", cfg.RateLimit.Enabled),
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Booking event pipeline: producer feeds Kafka, consumer drains it
	// into customer emails. Both are optional; without Kafka the API
	// runs with a no-op publisher.
	notifier, stopNotifications := setupNotifications(cfg, db, appLogger)
	defer stopNotifications()

	router := setupRouter(cfg, db, cacheService, rateLimiter, notifier)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupNotifications(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (bookings.Notifier, func()) {
	producer, err := notifications.NewKafkaProducer(notifications.ProducerConfigFrom(cfg))
	if err != nil {
		appLogger.Error("Failed to initialize Kafka producer", slog.Any("error", err))
		appLogger.Info("Continuing without booking notifications")
		return notifications.NoopProducer{}, func() {}
	}

	var emailService notifications.EmailService
	smtpConfig := notifications.SMTPConfigFrom(cfg)
	if smtpConfig.IsConfigured() {
		emailService, err = notifications.NewSMTPEmailService(smtpConfig)
		if err != nil {
			appLogger.Error("Failed to initialize SMTP email service", slog.Any("error", err))
			emailService = notifications.NewMockEmailService()
		}
	} else {
		appLogger.Info("SMTP not configured, booking emails will be logged only")
		emailService = notifications.NewMockEmailService()
	}

	var smsService notifications.SMSService
	twilioSettings := notifications.TwilioSettingsFrom(cfg)
	if twilioSettings.IsConfigured() {
		smsService, err = notifications.NewTwilioSMSService(twilioSettings)
		if err != nil {
			appLogger.Error("Failed to initialize Twilio SMS service", slog.Any("error", err))
			smsService = notifications.NewMockSMSService()
		}
	} else {
		appLogger.Info("Twilio not configured, booking texts will be logged only")
		smsService = notifications.NewMockSMSService()
	}

	userDirectory := auth.NewRepository(db.GetPostgreSQL())
	consumer, err := notifications.NewKafkaConsumer(
		notifications.ConsumerConfigFrom(cfg), emailService, smsService, userDirectory, producer)
	if err != nil {
		appLogger.Error("Failed to initialize Kafka consumer", slog.Any("error", err))
		return producer, func() {
			if err := producer.Close(); err != nil {
				appLogger.Error("Error closing Kafka producer", slog.Any("error", err))
			}
		}
	}

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	if err := consumer.Start(consumerCtx, 3); err != nil {
		appLogger.Error("Failed to start booking event consumer", slog.Any("error", err))
	}

	appLogger.Info("Booking notification pipeline started")

	return producer, func() {
		consumerCancel()
		if err := consumer.Stop(); err != nil {
			appLogger.Error("Error stopping booking event consumer", slog.Any("error", err))
		}
		if err := producer.Close(); err != nil {
			appLogger.Error("Error closing Kafka producer", slog.Any("error", err))
		}
	}
}

func setupRouter(cfg *config.Config, db *database.DB, cacheService cache.Service,
	rateLimiter *ratelimit.RateLimiter, notifier bookings.Notifier) *gin.Engine {

	engine := gin.New()
	appLogger := logger.GetDefault()

	// Built-in middleware: logs requests + recovers from panics
	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	// CORS configuration
	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true // allow every origin dynamically
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-RateLimit-*"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	appRouter := routes.NewRouter(cfg, db, cacheService, notifier)
	appRouter.SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
