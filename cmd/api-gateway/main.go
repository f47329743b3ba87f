package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/simdok/simdok-api/api/swagger"
	"github.com/simdok/simdok-api/internal/handler"
	"github.com/simdok/simdok-api/internal/middleware"
	"github.com/simdok/simdok-api/internal/models"
	"github.com/simdok/simdok-api/internal/repository"
	"github.com/simdok/simdok-api/internal/service"
	"github.com/simdok/simdok-api/pkg/cache"
	"github.com/simdok/simdok-api/pkg/config"
	"github.com/simdok/simdok-api/pkg/database"
	"github.com/simdok/simdok-api/pkg/export"
	"github.com/simdok/simdok-api/pkg/jobs"
	"github.com/simdok/simdok-api/pkg/logger"
	corsmiddleware "github.com/simdok/simdok-api/pkg/middleware/cors"
	reqidmiddleware "github.com/simdok/simdok-api/pkg/middleware/requestid"
	"github.com/simdok/simdok-api/pkg/qrcode"
	"github.com/simdok/simdok-api/pkg/storage"
)

// @title SIMDOK API
// @version 1.0.0
// @description Document lifecycle and movement tracking for government offices
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, tracking cache disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	files, err := storage.NewLocalStorage(cfg.Documents.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare document storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Documents.SignedURLSecret, cfg.Documents.SignedURLTTL)

	userRepo := repository.NewUserRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	trailRepo := repository.NewTrailRepository(db)
	txRunner := repository.NewTxRunner(db)

	metricsSvc := service.NewMetricsService()

	notificationSvc := service.NewNotificationService(notificationRepo, nil, logr)
	notificationQueue := jobs.NewQueue("notifications", notificationSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	})
	notificationSvc = service.NewNotificationService(notificationRepo, notificationQueue, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	notificationQueue.Start(ctx)
	defer notificationQueue.Stop()

	authSvc := service.NewAuthService(userRepo, validator.New(), logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "simdok-api",
		SingleSession:      false,
	})

	documentSvc := service.NewDocumentService(
		txRunner,
		documentRepo,
		movementRepo,
		approvalRepo,
		trailRepo,
		notificationSvc,
		userRepo,
		files,
		qrcode.NewGenerator(256),
		logr,
		service.DocumentServiceConfig{
			MaxFileSize:  cfg.Documents.MaxFileSizeBytes,
			CodeAttempts: cfg.Documents.CodeAttempts,
		},
	)

	trailSvc := service.NewTrailService(trailRepo, userRepo, logr)
	exportSvc := service.NewExportService(documentRepo, movementRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)
	trackSvc := service.NewTrackService(documentRepo, movementRepo, signer, redisClient, metricsSvc, logr, service.TrackServiceConfig{
		CacheTTL:  cfg.Tracking.CacheTTL,
		APIPrefix: cfg.APIPrefix,
	})

	authHandler := handler.NewAuthHandler(authSvc)
	documentHandler := handler.NewDocumentHandler(documentSvc, exportSvc, metricsSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	trailHandler := handler.NewTrailHandler(trailSvc)
	trackHandler := handler.NewTrackHandler(trackSvc, signer, files)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	if cfg.Tracking.Enabled {
		api.GET("/track/:code", trackHandler.Track)
		api.GET("/track/:code/qr", trackHandler.QRCode)
	}

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	documents := api.Group("/documents", middleware.JWT(authSvc))
	documents.POST("", middleware.Audit(userRepo, models.AuditActionDocumentUpload, "document"), documentHandler.Upload)
	documents.GET("", documentHandler.List)
	documents.GET("/:id", documentHandler.Get)
	documents.GET("/:id/history", documentHandler.History)
	documents.GET("/:id/export", documentHandler.Export)
	documents.POST("/:id/move", documentHandler.Move)
	documents.POST("/:id/decision", documentHandler.Decide)
	documents.POST("/:id/done", documentHandler.MarkDone)

	notifications := api.Group("/notifications", middleware.JWT(authSvc))
	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)
	notifications.POST("/read-all", notificationHandler.MarkAllRead)
	notifications.POST("/:id/read", notificationHandler.MarkRead)

	trails := api.Group("/trails", middleware.JWT(authSvc))
	trails.GET("", trailHandler.List)
	trails.GET("/:id", trailHandler.Get)
	admin := trails.Group("", middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor))
	admin.POST("", trailHandler.Create)
	admin.PUT("/:id", trailHandler.Update)
	admin.DELETE("/:id", trailHandler.Deactivate)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
