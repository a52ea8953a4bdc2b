// main.go
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"venue-booking/cmd"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/events"
	"venue-booking/internal/wire"
	"venue-booking/pkg/database"
	"venue-booking/pkg/mailer"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Redis backs the rate limiter only, run without it if absent
	rdb, err := database.InitRedis(config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	mail := mailer.New(config.Email, logger)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	publisher := newPublisher(config.RabbitMQ, logger)
	defer publisher.Close()

	if config.RabbitMQ.URL != "" {
		consumer := events.NewConsumer(config.RabbitMQ.URL, config.RabbitMQ.Exchange, repos.User, mail, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Booking consumer stopped", zap.Error(err))
			}
		}()
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, wire.Infra{
		DB:        db,
		Redis:     rdb,
		Mailer:    mail,
		Publisher: publisher,
	}, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func newPublisher(cfg utils.RabbitMQConfig, logger *zap.Logger) events.Publisher {
	if cfg.URL == "" {
		logger.Info("RABBITMQ_URL not set, booking events disabled")
		return events.NewNoopPublisher(logger)
	}

	publisher, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange, logger)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, booking events disabled", zap.Error(err))
		return events.NewNoopPublisher(logger)
	}
	return publisher
}
