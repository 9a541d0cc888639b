package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/events"
	"github.com/srihar-15/EMS/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumer loop uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil || event.EmployeeID == "" {
			log.Error("decode employee_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.EventType == events.EmployeeCreatedType {
			HandleEmployeeCreated(ctx, notifier, event)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("employee_created handled",
			zap.String("request_id", event.RequestID),
			zap.String("employee_id", event.EmployeeID),
		)
	}
}

// HandleEmployeeCreated welcomes the new hire and tells HR about them.
func HandleEmployeeCreated(ctx context.Context, notifier notification.Notifier, event events.EmployeeCreatedEvent) {
	notifier.Notify(ctx, event.EmployeeID, notification.Message{
		Severity: notification.SeveritySuccess,
		Text:     fmt.Sprintf("Welcome aboard, %s! Your employee number is %s.", event.Name, event.EmployeeNumber),
		Link:     "/profile",
	})

	notifier.NotifyRole(ctx, domain.RoleHR, notification.Message{
		Severity: notification.SeverityInfo,
		Text:     fmt.Sprintf("New hire %s joined %s.", event.Name, event.Department),
		Link:     "/employees/" + event.EmployeeID,
	})
}
