package app

import (
	"context"
	"fmt"

	"github.com/srihar-15/EMS/internal/audit"
	"github.com/srihar-15/EMS/internal/config"
	"github.com/srihar-15/EMS/internal/employee"
	"github.com/srihar-15/EMS/internal/events"
	"github.com/srihar-15/EMS/internal/messaging/kafka/consumer"
	"github.com/srihar-15/EMS/internal/notification"
	"github.com/srihar-15/EMS/internal/rbac"
	"github.com/srihar-15/EMS/internal/rbac/infra"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer turns employee lifecycle events into welcome notifications.
func RunConsumer(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, sqlDB, err := connectDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	enforcer, err := infra.NewEnforcer(rbac.ModelText, rbac.Rules())
	if err != nil {
		return err
	}
	auditService := audit.NewService(audit.NewRepository(gormDB))
	notificationService := notification.NewService(
		notification.NewRepository(gormDB),
		employee.NewRepository(gormDB),
		rbac.NewService(enforcer, auditService),
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.EmployeeCreatedTopic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	consumer.ConsumeEmployeeLifecycle(ctx, reader, notificationService, logger)

	logger.Info("consumer shutting down")
	return nil
}
