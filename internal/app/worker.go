package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/employee"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/messaging/kafka"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/messaging/kafka/producer"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/notification"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/organization"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptorequest"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptotemplate"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/shared/connection"
)

const sweepInterval = 5 * time.Minute

// RunWorker hosts the two background loops: the outbox publisher and
// the approver reminder sweep.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

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

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	webhookURL := os.Getenv("CHAT_WEBHOOK_URL")
	if webhookURL == "" {
		return fmt.Errorf("CHAT_WEBHOOK_URL is required")
	}

	outboxRepo := kafka.NewOutboxRepository(gormDB)
	requestRepo := ptorequest.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	organizationRepo := organization.NewRepository(gormDB)
	templateRepo := ptotemplate.NewRepository(gormDB)

	templateService := ptotemplate.NewService(templateRepo)
	organizationService := organization.NewService(gormDB, organizationRepo, templateService)

	messenger := notification.NewWebhookMessenger(webhookURL)
	scheduler := notification.NewScheduler(requestRepo, employeeRepo, messenger, organizationService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)
	go runNotificationSweep(ctx, scheduler, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func runNotificationSweep(ctx context.Context, scheduler *notification.Scheduler, logger *zap.Logger) {
	log := logger.Named("notification.sweep")
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	log.Info("notification sweep started", zap.Duration("interval", sweepInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("notification sweep stopped")
			return
		case <-ticker.C:
			if _, err := scheduler.RunSweep(ctx, time.Now().UTC()); err != nil {
				log.Error("notification sweep failed", zap.Error(err))
			}
		}
	}
}
