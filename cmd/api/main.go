// @title           Todo Hub API
// @version         1.0
// @description     Personal task board API with nested project documents and file attachments

// @contact.name   API Support
// @contact.email  support@todohub.dev

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
// @description Session JWT issued by the auth service.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "todo-hub-api/docs" // Swagger docs import

	"todo-hub-api/internal/client"
	"todo-hub-api/internal/config"
	"todo-hub-api/internal/database"
	"todo-hub-api/internal/job"
	"todo-hub-api/internal/metrics"
	"todo-hub-api/internal/middleware"
	"todo-hub-api/internal/repository"
	"todo-hub-api/internal/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Todo Hub API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("auth_api_url", cfg.AuthAPI.BaseURL),
	)

	// Initialize database; a failed connect does not kill the pod, the
	// router answers 503 until the background retry succeeds
	dbConfig := database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	// Initialize metrics
	m := metrics.NewWithLogger(logger)

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Warn("Failed to connect to database on startup, will retry in background",
			zap.Error(err))
		database.NewAsync(dbConfig, 5*time.Second, logger)
	} else {
		logger.Info("Database connected successfully")

		if err := database.AutoMigrate(db); err != nil {
			logger.Warn("Failed to run database migrations", zap.Error(err))
		} else {
			logger.Info("Database migrations completed")
		}

		database.RegisterMetricsCallbacks(db, m)
		database.StartDBStatsCollector(db, m)
	}

	// Initialize Redis for signed-URL caching; the service degrades to
	// presigning every request when Redis is unavailable
	redisClient, err := database.NewRedis(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Failed to connect to Redis, signed URL caching disabled", zap.Error(err))
		redisClient = nil
	}

	// Initialize S3 client
	var s3Client client.S3ClientInterface
	realS3, err := client.NewS3Client(&cfg.S3)
	if err != nil {
		logger.Warn("Failed to initialize S3 client, attachment features disabled", zap.Error(err))
	} else {
		s3Client = realS3
		logger.Info("S3 client initialized",
			zap.String("image_bucket", cfg.S3.ImageBucket),
			zap.String("pdf_bucket", cfg.S3.PDFBucket),
			zap.String("region", cfg.S3.Region),
		)
	}

	// Token validation goes through the auth service when configured;
	// otherwise tokens are verified locally with the shared secret
	var authClient middleware.TokenValidator
	if cfg.AuthAPI.BaseURL != "" {
		authClient = client.NewAuthClient(cfg.AuthAPI.BaseURL, cfg.AuthAPI.Timeout, logger, m)
		logger.Info("Auth client initialized", zap.String("auth_api_url", cfg.AuthAPI.BaseURL))
	}

	// Schedule the orphaned attachment sweep
	scheduler := cron.New()
	if db != nil && s3Client != nil {
		sweep := job.NewSweepJob(repository.NewProjectRepository(db), s3Client, logger)
		if _, err := scheduler.AddJob("@hourly", sweep); err != nil {
			logger.Error("Failed to schedule attachment sweep", zap.Error(err))
		} else {
			scheduler.Start()
			logger.Info("Attachment sweep scheduled hourly")
		}
	}

	// Collect business gauges in the background
	if db != nil {
		collector := metrics.NewBusinessMetricsCollector(db, m, logger)
		collector.Start()
		defer collector.Stop()
	}

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:          db,
		Logger:      logger,
		JWTSecret:   cfg.JWT.Secret,
		AuthClient:  authClient,
		Metrics:     m,
		S3Client:    s3Client,
		RedisClient: redisClient,
		BasePath:    cfg.Server.BasePath,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Todo Hub API started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s%s/swagger/index.html", cfg.Server.Port, cfg.Server.BasePath)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	scheduler.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
