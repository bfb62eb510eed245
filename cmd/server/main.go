package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nahimba/MotoCRM-sub001/internal/config"
	"github.com/Nahimba/MotoCRM-sub001/internal/handler"
	"github.com/Nahimba/MotoCRM-sub001/internal/logger"
	"github.com/Nahimba/MotoCRM-sub001/internal/middleware"
	"github.com/Nahimba/MotoCRM-sub001/internal/repository"
	"github.com/Nahimba/MotoCRM-sub001/internal/scheduler"
	"github.com/Nahimba/MotoCRM-sub001/internal/service"
	"github.com/Nahimba/MotoCRM-sub001/internal/session"
	"github.com/Nahimba/MotoCRM-sub001/internal/utils"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logWriter := logger.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)

	// --- Database Connection ---
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()
	dbPool, err := config.ConnectDB(startupCtx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(startupCtx, dbPool); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	profileRepo := repository.NewProfileRepository(dbPool)
	accountRepo := repository.NewAccountRepository(dbPool)
	serviceRepo := repository.NewServiceRepository(dbPool)
	enrollmentRepo := repository.NewEnrollmentRepository(dbPool)
	attendanceRepo := repository.NewAttendanceRepository(dbPool)
	ledgerRepo := repository.NewLedgerRepository(dbPool)

	// --- Initialize Services ---
	profileService := service.NewProfileService(profileRepo)
	authService := service.NewAuthService(userRepo, profileService, cfg.Auth.InitialAdminEmail)
	accountService := service.NewAccountService(accountRepo)
	ledgerService := service.NewLedgerService(ledgerRepo)
	catalogService := service.NewCatalogService(serviceRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, attendanceRepo, accountRepo, catalogService)

	// --- Sessions ---
	broker := session.NewBroker()
	defer broker.Close()
	unsubscribe := broker.Subscribe(func(e session.Event) {
		logger.WithService("session").WithFields(log.Fields{
			"event":   e.Kind,
			"user_id": e.UserID,
		}).Info("Session event")
	})
	defer unsubscribe()

	jwtUtil := utils.NewJWTUtil(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL(), cfg.Auth.RefreshTTL())
	sessions := session.NewManager(jwtUtil, profileService, broker, session.CookieOptions{
		Secure: cfg.Auth.CookieSecure,
		Domain: cfg.Auth.CookieDomain,
	})

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService, sessions)
	accountHandler := handler.NewAccountHandler(profileService, accountService, ledgerService, enrollmentService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, catalogService)

	// --- Setup Gin Router ---
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		ginlogger.SetLogger(
			ginlogger.WithUTC(true),
			ginlogger.WithWriter(logWriter),
			ginlogger.WithSkipPath([]string{"/health"}),
		),
		gin.Recovery(),
		middleware.CORS(cfg.Server.CORSOrigins),
	)

	// Health sits outside the access layer so probes never get redirected.
	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Register Routes ---
	middleware.InstallSession(router, sessions)
	app := &router.RouterGroup
	staff := app.Group("/staff")
	admin := app.Group("/admin", middleware.AdminMiddleware())

	authHandler.RegisterAuthRoutes(app)
	accountHandler.RegisterAccountRoutes(app, staff, admin)
	ledgerHandler.RegisterLedgerRoutes(app, admin, middleware.BookkeeperMiddleware())
	enrollmentHandler.RegisterEnrollmentRoutes(app, staff, admin, middleware.InstructorMiddleware())

	// --- Scheduler ---
	if cfg.Scheduler.ReconcileEnabled() {
		sched, err := scheduler.New(cfg.Scheduler.ReconcileBalances, accountService)
		if err != nil {
			log.Fatalf("Failed to set up scheduler: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	} else {
		log.Info("Balance reconcile job disabled")
	}

	// --- Start Server ---
	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting")
}
