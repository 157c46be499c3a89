package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/invoicedesk/backend/docs"
	directoryapp "github.com/invoicedesk/backend/internal/application/directory"
	identityapp "github.com/invoicedesk/backend/internal/application/identity"
	invoiceapp "github.com/invoicedesk/backend/internal/application/invoice"
	membershipapp "github.com/invoicedesk/backend/internal/application/membership"
	profileapp "github.com/invoicedesk/backend/internal/application/profile"
	sessionapp "github.com/invoicedesk/backend/internal/application/session"
	"github.com/invoicedesk/backend/internal/infrastructure/auth"
	"github.com/invoicedesk/backend/internal/infrastructure/config"
	"github.com/invoicedesk/backend/internal/infrastructure/event"
	"github.com/invoicedesk/backend/internal/infrastructure/logger"
	"github.com/invoicedesk/backend/internal/infrastructure/persistence"
	"github.com/invoicedesk/backend/internal/infrastructure/scheduler"
	"github.com/invoicedesk/backend/internal/infrastructure/storage"
	"github.com/invoicedesk/backend/internal/infrastructure/telemetry"
	"github.com/invoicedesk/backend/internal/interfaces/http/handler"
	"github.com/invoicedesk/backend/internal/interfaces/http/middleware"
	"github.com/invoicedesk/backend/internal/interfaces/http/router"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

//	@title			InvoiceDesk API
//	@version		1.0
//	@description	Multi-tenant invoice management: organizations, members and the invoice review workflow.

//	@contact.name	API Support
//	@contact.url	https://github.com/invoicedesk/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// objectStorage is what both the logo and the invoice document flows need
type objectStorage interface {
	invoiceapp.FileStorage
	profileapp.ObjectStorage
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log, cfg.App.Env)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting InvoiceDesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	healthChecks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}

	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisClient, err := auth.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		log.Info("Token blacklist backed by redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis disabled, revoked tokens are tracked in memory only")
	}

	var files objectStorage
	switch cfg.Storage.Provider {
	case "s3":
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare storage bucket", zap.Error(err))
		}
		files = s3Storage
	default:
		files = storage.NewStubObjectStorage(cfg.Storage.PublicBaseURL)
		log.Warn("Using in-memory object storage", zap.String("provider", cfg.Storage.Provider))
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	organizationRepo := persistence.NewGormOrganizationRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	invitationRepo := persistence.NewGormInvitationRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, profileRepo, jwtService, blacklist, log)
	directoryService := directoryapp.NewService(organizationRepo, membershipRepo, log)
	sessionService := sessionapp.NewService(userRepo, profileRepo, directoryService, log)
	membershipService := membershipapp.NewService(membershipRepo, invitationRepo, profileRepo, userRepo, cfg.Invitation.TTL, log)
	profileService := profileapp.NewService(organizationRepo, membershipRepo, files, log)
	invoiceService := invoiceapp.NewService(invoiceRepo, membershipRepo, files, profileService, log)

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	authService.SetEventPublisher(eventBus)
	directoryService.SetEventPublisher(eventBus)
	membershipService.SetEventPublisher(eventBus)
	profileService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)

	jobs := scheduler.NewScheduler(scheduler.DefaultSchedulerConfig(), log)
	if err := jobs.Add(invitationSweep(membershipService, cfg.Invitation.SweepInterval, log)); err != nil {
		log.Error("Failed to register invitation sweep", zap.Error(err))
		return
	}
	jobs.Start(ctx)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := jobs.Stop(stopCtx); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	corsConfig.ExposeHeaders = append(corsConfig.ExposeHeaders, "X-RateLimit-Limit", "X-RateLimit-Remaining")
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled()))
	engine.Use(middleware.SpanAttributes())

	requireAuth := middleware.RequireAuth(authService, log)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, requireAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	credentialLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, cfg.HTTP.AuthRateWindow)
	go credentialLimiter.Run(ctx)

	r := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(middleware.Timeout(cfg.HTTP.RequestTimeout))
	r.Register(router.APIRoutes(router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Session:      handler.NewSessionHandler(sessionService, authService),
		Organization: handler.NewOrganizationHandler(directoryService, profileService),
		Membership:   handler.NewMembershipHandler(membershipService),
		Invoice:      handler.NewInvoiceHandler(invoiceService),
		Health:       handler.NewHealthHandler(healthChecks),
	}, router.Guards{
		Auth:            requireAuth,
		CredentialLimit: middleware.RateLimit(credentialLimiter),
	})...)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// invitationSweep marks pending invitations past their deadline as expired
func invitationSweep(memberships *membershipapp.Service, interval time.Duration, log *zap.Logger) scheduler.Task {
	return scheduler.Task{
		Name:     "invitation_sweep",
		Interval: interval,
		Run: func(ctx context.Context, now time.Time) error {
			expired, err := memberships.ExpireInvitations(ctx, now)
			if err != nil {
				return err
			}
			if expired > 0 {
				log.Info("Expired invitations", zap.Int("count", expired))
			}
			return nil
		},
	}
}
