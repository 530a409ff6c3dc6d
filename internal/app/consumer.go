package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/employee"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/events"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/messaging/kafka/consumer"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/notification"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptorequest"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/shared/connection"
)

// RunConsumer subscribes to the request lifecycle topic and relays
// events into chat DMs.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	webhookURL := os.Getenv("CHAT_WEBHOOK_URL")
	if webhookURL == "" {
		return fmt.Errorf("CHAT_WEBHOOK_URL is required")
	}

	requestRepo := ptorequest.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	messenger := notification.NewWebhookMessenger(webhookURL)

	reader := connection.NewKafkaReader(kafkaBroker, events.PtoRequestLifecycleTopic, "vacay-buddy-notifier")
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePtoRequestLifecycle(ctx, reader, requestRepo, employeeRepo, messenger, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
