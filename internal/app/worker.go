package app

import (
	"context"
	"fmt"

	"github.com/srihar-15/EMS/internal/config"
	"github.com/srihar-15/EMS/internal/messaging/kafka"
	"github.com/srihar-15/EMS/internal/messaging/kafka/producer"
	"github.com/srihar-15/EMS/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays outbox rows to Kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	_, sqlDB, err := connectDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.Database.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	logger.Info("outbox worker running", zap.Duration("poll_interval", cfg.Kafka.PollInterval))
	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, cfg.Kafka.PollInterval)

	logger.Info("worker shutting down")
	return nil
}
