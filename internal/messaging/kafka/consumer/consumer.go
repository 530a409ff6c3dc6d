package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/employee"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/events"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/notification"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptorequest"
)

// ConsumePtoRequestLifecycle turns lifecycle events into chat DMs:
// created and advanced events ping the approver whose turn it is,
// decided events tell the requester the outcome.
func ConsumePtoRequestLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	requestRepo ptorequest.Repository,
	employeeRepo employee.Repository,
	messenger notification.Messenger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.pto_request_lifecycle")
	log.Info("pto request lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("pto request lifecycle consumer stopped")
				return
			}
			log.Error("fetch lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.PtoRequestLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := handleLifecycleEvent(ctx, event, requestRepo, employeeRepo, messenger, log); err != nil {
			log.Error("handle lifecycle event failed",
				zap.String("event_type", event.EventType),
				zap.String("pto_request_id", event.RequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("lifecycle event processed",
			zap.String("event_type", event.EventType),
			zap.String("pto_request_id", event.RequestID),
		)
	}
}

func handleLifecycleEvent(
	ctx context.Context,
	event events.PtoRequestLifecycleEvent,
	requestRepo ptorequest.Repository,
	employeeRepo employee.Repository,
	messenger notification.Messenger,
	log *zap.Logger,
) error {
	switch event.EventType {
	case events.EventTypePtoRequestCreated, events.EventTypePtoRequestAdvanced:
		if event.CurrentApproverID == "" {
			log.Warn("lifecycle event without current approver, skipping",
				zap.String("event_type", event.EventType),
				zap.String("pto_request_id", event.RequestID),
			)
			return nil
		}

		approver, err := employeeRepo.FindByID(ctx, event.CurrentApproverID)
		if err != nil {
			return err
		}
		pending, err := requestRepo.FindPendingApprovalsForApprover(ctx, event.CurrentApproverID)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			// Decided or deleted between publish and consume.
			return nil
		}
		return messenger.SendPendingApprovalsDigest(ctx, approver, pending)

	case events.EventTypePtoRequestDecided:
		requester, err := employeeRepo.FindByID(ctx, event.RequesterID)
		if err != nil {
			return err
		}
		request, err := requestRepo.FindRequestByID(ctx, event.RequestID)
		if err != nil {
			return err
		}
		return messenger.SendDecisionNotice(ctx, requester, request)

	default:
		log.Warn("unknown lifecycle event type, skipping", zap.String("event_type", event.EventType))
		return nil
	}
}
