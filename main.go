package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"venue_manager/config"
	"venue_manager/database"
	"venue_manager/handler"
	"venue_manager/helper"
	"venue_manager/jobs"
	"venue_manager/logger"
	"venue_manager/messaging"
	"venue_manager/router"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	l, err := logger.Init(settings.LogLevel, settings.AppEnv == "production")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	if err := database.ConnectDB(); err != nil {
		zap.S().Fatal(err)
	}
	database.ConnectRedis(settings.RedisAddr)
	defer database.CloseRedis()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if settings.GeminiAPIKey != "" {
		gen, err := helper.NewGeminiNoteGenerator(ctx, settings.GeminiAPIKey, settings.GeminiModel)
		if err != nil {
			zap.S().Warnf("calendar note generator disabled: %v", err)
		} else {
			handler.NoteGenerator = gen
		}
	}

	var sms messaging.SMSSender
	if settings.SMSAccountSID != "" {
		sms = messaging.NewSMSClient(messaging.SMSConfig{
			BaseURL:        settings.SMSBaseURL,
			AccountSID:     settings.SMSAccountSID,
			AuthToken:      settings.SMSAuthToken,
			From:           settings.SMSFrom,
			StatusCallback: strings.TrimRight(settings.PublicURL, "/") + "/api/v1/webhooks/sms/status",
			RatePerSecond:  settings.SMSRatePerSecond,
			Timeout:        settings.SMSTimeout,
		})
	} else {
		zap.S().Warn("SMS_ACCOUNT_SID not set, SMS messages will fail")
	}
	dispatcher := messaging.NewDispatcher(database.DB, sms, messaging.SMTPSender{})

	if settings.AMQPURL != "" {
		queue, err := messaging.DialRabbit(settings.AMQPURL)
		if err != nil {
			zap.S().Warnf("rabbitmq unavailable, falling back to polling: %v", err)
		} else {
			defer queue.Close()
			messaging.Outbound = queue
			go func() {
				if err := queue.Consume(ctx, dispatcher); err != nil {
					zap.S().Errorf("outbound consumer stopped: %v", err)
				}
			}()
		}
	}

	scheduler, err := jobs.Start(database.DB, dispatcher, helper.VenueLocation())
	if err != nil {
		zap.S().Fatal(err)
	}
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
		AppName:   "venue_manager",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CorsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))
	router.SetupRoutes(app)

	go func() {
		<-ctx.Done()
		zap.S().Info("Shutting down")
		if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
			zap.S().Errorf("shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + settings.Port); err != nil && !errors.Is(err, context.Canceled) {
		zap.S().Error(err)
	}
}
