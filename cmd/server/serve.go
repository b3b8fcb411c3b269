package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/siteapi/internal/config"
	"github.com/example/siteapi/internal/database"
	"github.com/example/siteapi/internal/handlers"
	"github.com/example/siteapi/internal/logger"
	"github.com/example/siteapi/internal/middleware"
	"github.com/example/siteapi/internal/routes"
	"github.com/example/siteapi/internal/services"
	"github.com/example/siteapi/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Bootstrap the database and start the HTTP server",
	RunE:  runServe,
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the database if missing, migrate it and apply the bootstrap script",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Close()

		if _, err := openDatabase(cfg); err != nil {
			return err
		}
		logger.Log.Info("Database bootstrap complete")
		return nil
	},
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Bootstrap(db, cfg.BootstrapScript); err != nil {
		return nil, fmt.Errorf("bootstrap database: %w", err)
	}
	return db, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	sms := services.NewTwilioService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	if !sms.Configured() {
		logger.Log.Warn("Twilio credentials missing, send-otp will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reels, err := storage.NewS3Store(ctx, cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.AWSRegion, cfg.BucketName)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}
	if !cfg.StorageConfigured() {
		logger.Log.Warn("BUCKET_NAME not set, reel endpoints will fail")
	}

	app := fiber.New(handlers.AppConfig(cfg.BodyLimit()))

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics())

	routes.Register(app, db, routes.Dependencies{SMS: sms, Reels: reels})

	go func() {
		<-ctx.Done()
		logger.Log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Log.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Log.Info("Starting server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		return fmt.Errorf("fiber.Listen: %w", err)
	}
	return nil
}
