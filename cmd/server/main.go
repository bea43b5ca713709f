// Package main runs the event administration HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/samridhi-events/backend/config"
	"github.com/samridhi-events/backend/internal/auth"
	"github.com/samridhi-events/backend/internal/emaillogs"
	"github.com/samridhi-events/backend/internal/events"
	"github.com/samridhi-events/backend/internal/middleware"
	"github.com/samridhi-events/backend/internal/models"
	"github.com/samridhi-events/backend/internal/realtime"
	"github.com/samridhi-events/backend/internal/registrations"
	"github.com/samridhi-events/backend/internal/users"
	"github.com/samridhi-events/backend/pkg/database"
	"github.com/samridhi-events/backend/pkg/queue"
	"github.com/samridhi-events/backend/pkg/redis"
	"github.com/samridhi-events/backend/pkg/response"
	"github.com/samridhi-events/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			PostersBucket:        cfg.AWS.PostersBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Realtime core: one hub per process owning the room subscriber sets.
	hub := realtime.NewHub(logger)

	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)
	authorizer := realtime.NewAuthorizer(jwtService, authRepo, logger)
	relay := realtime.NewRelay(hub, logger)

	userRepo := users.NewRepository(pool)
	userHandler := users.NewHandler(userRepo, hub, logger)

	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, s3Client, hub, logger)

	jobQueue := queue.NewQueue(rdb.Client, logger)
	registrationRepo := registrations.NewRepository(pool)
	registrationHandler := registrations.NewHandler(registrationRepo, eventRepo, jobQueue, logger)

	emailLogsRepo := emaillogs.NewRepository(pool)
	emailLogsHandler := emaillogs.NewHandler(emailLogsRepo, registrationRepo, jobQueue, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public: attendee registration
	router.POST("/events/:id/register", registrationHandler.Register)

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Update relay trigger (used by CRUD callers and ops tooling)
	router.POST("/send-update", relay.SendUpdate)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users (super only)
		api.GET("/users", middleware.RequireRole(string(models.RoleSuper)), userHandler.List)
		api.PATCH("/users/:id/role", middleware.RequireRole(string(models.RoleSuper)), userHandler.SetRole)
		api.DELETE("/users/:id", middleware.RequireRole(string(models.RoleSuper)), userHandler.Delete)

		// Events
		api.GET("/events", eventHandler.List)
		api.POST("/events", middleware.RequireRole(string(models.RoleCoordinator), string(models.RoleSuper)), eventHandler.Create)
		api.GET("/events/:id", eventHandler.GetByID)
		api.PATCH("/events/:id", eventHandler.Update)
		api.PATCH("/events/:id/status", middleware.RequireRole(string(models.RoleSuper)), eventHandler.SetStatus)
		api.DELETE("/events/:id", eventHandler.Delete)
		api.POST("/events/:id/poster", eventHandler.UploadPoster)
		api.GET("/events/:id/poster-url", eventHandler.PosterDownloadURL)

		// Registrations
		api.GET("/events/:id/registrations", middleware.RequireRole(string(models.RoleSuper), string(models.RoleAdmin), string(models.RoleCoordinator)), registrationHandler.ListByEvent)
		api.PATCH("/registrations/:id/attend", middleware.RequireRole(string(models.RoleSuper), string(models.RoleCoordinator)), registrationHandler.MarkAttended)

		// Email logs
		api.GET("/events/:id/emails", middleware.RequireRole(string(models.RoleSuper)), emailLogsHandler.ListByEvent)
		api.POST("/events/:id/emails/resend", middleware.RequireRole(string(models.RoleSuper)), emailLogsHandler.Resend)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, authorizer, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
