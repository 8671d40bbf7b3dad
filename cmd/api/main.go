package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	_ "github.com/skillbridge/backend/docs"
	"github.com/skillbridge/backend/internal/handlers"
	"github.com/skillbridge/backend/internal/notification"
	"github.com/skillbridge/backend/internal/payment"
	"github.com/skillbridge/backend/internal/repositories"
	"github.com/skillbridge/backend/internal/services"
	"github.com/skillbridge/backend/internal/storage"
	"github.com/skillbridge/backend/libs/auth/service"
	"github.com/skillbridge/backend/libs/config"
	sharedHandlers "github.com/skillbridge/backend/libs/handlers"
	"github.com/skillbridge/backend/libs/logger"
	loggerMiddleware "github.com/skillbridge/backend/libs/logger/middleware"
	sharedMiddleware "github.com/skillbridge/backend/libs/middlewares"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title SkillBridge API
// @version 1.0
// @description Course marketplace API: catalog, cart, payments, enrollment and learning progress

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting SkillBridge API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis. Webhook deduplication degrades to database idempotency while Redis is down.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn("Redis is unreachable, continuing without event deduplication cache", zap.Error(err))
	}

	// Create Asynq client for background emails
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize JWT token generator
	tokenGenerator := service.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Initialize payment gateway
	var gateway services.PaymentGateway
	if cfg.Stripe.Enabled() {
		gateway = payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	} else {
		logger.Logger.Warn("Stripe keys are not configured, payments are disabled")
		gateway = payment.NewDisabledGateway()
	}

	// Initialize notification
	smtpMailer := notification.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	queueMailer := notification.NewQueueMailer(asynqClient, notification.QueueDefault)
	dedup := notification.NewEventDeduplicator(rdb, cfg.Worker.WebhookEventTTL)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	userTokenRepo := repositories.NewUserTokenRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	contentRepo := repositories.NewCourseContentRepository(db, logger.Logger)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)
	progressRepo := repositories.NewProgressRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	mediaRepo := repositories.NewMediaRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, userTokenRepo, tokenGenerator, smtpMailer, services.AuthSettings{
		OTPExpiry:        cfg.Auth.OTPExpiry,
		ResetTokenExpiry: cfg.Auth.ResetTokenExpiry,
		ResetPasswordURL: cfg.Auth.ResetPasswordURL,
	}, logger.Logger)
	profileService := services.NewProfileService(userRepo, courseRepo, enrollmentRepo, logger.Logger)
	categoryService := services.NewCategoryService(categoryRepo)
	contactService := services.NewContactService(contactRepo)
	courseService := services.NewCourseService(courseRepo, categoryRepo, contentRepo, enrollmentRepo, logger.Logger)
	contentService := services.NewContentService(courseRepo, contentRepo, logger.Logger)
	cartService := services.NewCartService(cartRepo, courseRepo, enrollmentRepo)
	ratingService := services.NewRatingService(ratingRepo, courseRepo, logger.Logger)
	enrollmentService := services.NewEnrollmentService(courseRepo, enrollmentRepo, cartRepo, userRepo, gateway, dedup, queueMailer, services.CheckoutSettings{
		Currency:   cfg.Stripe.Currency,
		SuccessURL: cfg.Stripe.SuccessURL,
		CancelURL:  cfg.Stripe.CancelURL,
	}, logger.Logger)
	progressService := services.NewProgressService(progressRepo, enrollmentRepo, courseRepo, contentRepo, logger.Logger)
	mediaService := services.NewMediaService(mediaRepo, storage.NewLocalStorage(cfg.Media.BasePath), services.MediaSettings{
		BaseURL:      cfg.Media.BaseURL,
		MaxImageSize: cfg.Media.MaxImageSize,
		MaxVideoSize: cfg.Media.MaxVideoSize,
	}, logger.Logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, profileService, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry, logger.Logger)
	catalogHandler := handlers.NewCatalogHandler(categoryService, contactService, logger.Logger)
	courseHandler := handlers.NewCourseHandler(courseService, contentService, logger.Logger)
	cartHandler := handlers.NewCartHandler(cartService, logger.Logger)
	ratingHandler := handlers.NewRatingHandler(ratingService, logger.Logger)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService, progressService, logger.Logger)
	mediaHandler := handlers.NewMediaHandler(mediaService, logger.Logger)

	// Initialize auth middleware
	guards := handlers.NewGuards(tokenGenerator)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(sharedMiddleware.RequestID)
	r.Use(loggerMiddleware.RequestLogger(logger.Logger))
	r.Use(sharedMiddleware.Recoverer(logger.Logger))
	r.Use(sharedMiddleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(rateLimit(100, time.Minute))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api
	r.Route("/api", func(r chi.Router) {
		// Uploads stream large bodies; their size is bounded by the media limits instead
		mediaHandler.RegisterRoutes(r, guards)

		r.Group(func(r chi.Router) {
			r.Use(sharedMiddleware.BodyLimit(cfg.Server.MaxRequestSize))

			// Credential endpoints get a stricter limit
			r.Group(func(r chi.Router) {
				r.Use(rateLimit(20, time.Minute))
				authHandler.RegisterRoutes(r, guards)
			})

			catalogHandler.RegisterRoutes(r, guards)
			courseHandler.RegisterRoutes(r, guards)
			cartHandler.RegisterRoutes(r, guards)
			ratingHandler.RegisterRoutes(r, guards)
			enrollmentHandler.RegisterRoutes(r, guards)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// rateLimit limits requests per client IP and rejects the excess with the standard envelope
func rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			sharedHandlers.WriteEnvelope(w, http.StatusTooManyRequests, "too many requests")
		}),
	)
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "skillbridge_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directories if running from cmd/api
		for _, dir := range []string{"../migrations", "../../migrations"} {
			if _, err := os.Stat(dir); err == nil {
				migrationPath = "file://" + dir
				break
			}
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
