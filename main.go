package main

import (
	"os"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/sportsacademy/academy-backend/config"
	"github.com/sportsacademy/academy-backend/internal/consumer"
	"github.com/sportsacademy/academy-backend/internal/handler"
	"github.com/sportsacademy/academy-backend/internal/middleware"
	"github.com/sportsacademy/academy-backend/internal/repository"
	"github.com/sportsacademy/academy-backend/internal/service"
	"github.com/sportsacademy/academy-backend/pkg/database"
	"github.com/sportsacademy/academy-backend/pkg/rabbitmq"
	"github.com/sportsacademy/academy-backend/pkg/sms"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().
		Timestamp().Str("app", "academy-backend").Logger()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ: outbound SMS dispatch plus inbound delivery receipts.
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer publisher.Close()

	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect RabbitMQ consumer")
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start consuming")
	}

	// Repositories
	sessionRepo := repository.NewSessionRepository(db)
	programRepo := repository.NewProgramRepository(db)
	userRepo := repository.NewUserRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	waitlistRepo := repository.NewWaitlistRepository(db)
	freezeRepo := repository.NewFreezeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	consumer.NewSMSStatusConsumer(notificationRepo, logger).Start(msgs)

	// Services
	transport := sms.NewAMQPTransport(publisher)
	notifier := service.NewNotifier(notificationRepo, subscriptionRepo, programRepo, transport, logger)
	scheduleSvc := service.NewScheduleService(sessionRepo, programRepo, userRepo, branchRepo, subscriptionRepo, notifier, logger)
	reminderSvc := service.NewReminderService(sessionRepo, subscriptionRepo, programRepo, transport, logger)
	waitlistSvc := service.NewWaitlistService(waitlistRepo, programRepo, playerRepo, subscriptionRepo, notifier, logger)
	freezeSvc := service.NewFreezeService(freezeRepo, subscriptionRepo, programRepo, branchRepo, playerRepo, notifier, logger)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logger.Info().Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Msg("request")
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "academy-backend"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	handler.NewScheduleHandler(scheduleSvc).RegisterRoutes(api)
	handler.NewWaitlistHandler(waitlistSvc).RegisterRoutes(api)
	handler.NewFreezeHandler(freezeSvc).RegisterRoutes(api)
	handler.NewJobsHandler(reminderSvc, waitlistSvc, freezeSvc).RegisterRoutes(api)

	logger.Info().Str("port", cfg.ServerPort).Msg("academy backend starting")
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
