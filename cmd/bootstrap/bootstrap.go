package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"physio-marketplace/config"
	"physio-marketplace/internal/delivery/dto"
	deliveryHttp "physio-marketplace/internal/delivery/http"
	"physio-marketplace/internal/delivery/http/handler"
	"physio-marketplace/internal/delivery/http/middleware"
	"physio-marketplace/internal/domain/entity"
	"physio-marketplace/internal/infrastructure/cache"
	"physio-marketplace/internal/infrastructure/database"
	"physio-marketplace/internal/repository"
	"physio-marketplace/internal/service"
	"physio-marketplace/internal/usecase"
	"physio-marketplace/pkg/jwt"
	"physio-marketplace/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config       *config.Config
	DB           *gorm.DB
	RedisClient  *redis.Client
	Server       *http.Server
	RetryService *service.EventRetryService
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Run database migrations
	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logrus.Info("Database migrations applied")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Seed reference data (booking statuses, payment methods)
	if err := seedReferenceData(db); err != nil {
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}

	// Initialize all layers
	server, retryService := initializeServer(cfg, db, redisClient)
	app.Server = server
	app.RetryService = retryService

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// seedReferenceData upserts the rows the booking and payment flows resolve
// by name at runtime. Safe to run on every start.
func seedReferenceData(db *gorm.DB) error {
	statusRepo := repository.NewBookingStatusRepository()
	if err := statusRepo.UpsertByName(db, entity.AllBookingStatuses()); err != nil {
		return err
	}

	paymentRepo := repository.NewPaymentRepository()
	return paymentRepo.UpsertMethodByName(db, []entity.PaymentMethod{
		{Name: entity.PaymentMethodCard},
	})
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, *service.EventRetryService) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	physioRepo := repository.NewPhysiotherapistRepository()
	availabilityRepo := repository.NewAvailabilityRepository()
	bookingRepo := repository.NewBookingRepository()
	statusRepo := repository.NewBookingStatusRepository()
	clinicRepo := repository.NewClinicRepository()
	treatmentTypeRepo := repository.NewTreatmentTypeRepository()
	paymentRepo := repository.NewPaymentRepository()
	auditRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	auditService := service.NewAuditService(log, auditRepo)
	slotCache := service.NewSlotCache(log, redisClient, cfg.Booking.SlotCacheTTL)
	gateway := service.NewHTTPPaymentGateway(log, cfg.Payment.GatewayURL, cfg.Payment.SecretKey)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, physioRepo, jwtService, redisClient)
	slotUsecase := usecase.NewSlotUsecase(db, log, physioRepo, availabilityRepo, bookingRepo, slotCache, cfg.Booking)
	bookingUsecase := usecase.NewBookingUsecase(db, log, bookingRepo, statusRepo, physioRepo, clinicRepo, userRepo, treatmentTypeRepo, auditService, slotCache, cfg.Booking)
	paymentUsecase := usecase.NewPaymentUsecase(db, log, paymentRepo, bookingRepo, statusRepo, gateway, auditService, slotCache, cfg.App, cfg.Payment)
	therapistUsecase := usecase.NewTherapistUsecase(db, log, physioRepo, bookingRepo, statusRepo, availabilityRepo, auditService, slotCache)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, availabilityRepo, physioRepo, clinicRepo, auditService, slotCache)
	treatmentTypeUsecase := usecase.NewTreatmentTypeUsecase(db, log, treatmentTypeRepo)
	clinicUsecase := usecase.NewClinicUsecase(db, log, clinicRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditRepo)

	// Deferred gateway events are replayed through the same reconciliation
	// path the webhook handler uses.
	retryService := service.NewEventRetryService(log, redisClient, func(ctx context.Context, rawEvent []byte) error {
		var event dto.GatewayEvent
		if err := json.Unmarshal(rawEvent, &event); err != nil {
			return err
		}
		return paymentUsecase.ApplyGatewayEvent(ctx, &event)
	})

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	therapistHandler := handler.NewTherapistHandler(therapistUsecase, slotUsecase)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUsecase, customValidator)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	paymentHandler := handler.NewPaymentHandler(log, paymentUsecase, retryService, customValidator, cfg.Payment)
	clinicHandler := handler.NewClinicHandler(clinicUsecase, customValidator)
	treatmentTypeHandler := handler.NewTreatmentTypeHandler(treatmentTypeUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		therapistHandler,
		availabilityHandler,
		bookingHandler,
		paymentHandler,
		clinicHandler,
		treatmentTypeHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}

	return server, retryService
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start the deferred-event replay loop
	app.RetryService.Start()

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop background workers before the server stops accepting traffic
	app.RetryService.Stop()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
