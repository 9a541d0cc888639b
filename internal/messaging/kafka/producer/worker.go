package producer

import (
	"context"
	"time"

	"github.com/srihar-15/EMS/internal/messaging/kafka"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	batchSize = 50
	// claimLease must outlast one batch of publishes.
	claimLease = 2 * time.Minute
)

var outboxPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ems_outbox_events_total",
	Help: "Outbox events handed to Kafka, by event type and result.",
}, []string{"event_type", "result"})

// ProcessOutboxEvents polls the outbox until ctx is cancelled. Several workers
// may run against the same table.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := processPendingEvents(ctx, repo, writer, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

func processPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) error {
	claimed, err := repo.ClaimPending(ctx, batchSize, claimLease)
	if err != nil {
		return err
	}
	if len(claimed) == 0 {
		return nil
	}

	logger.Debug("claimed outbox events", zap.Int("count", len(claimed)))

	for _, event := range claimed {
		fields := []zap.Field{
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		}

		if err := publishEvent(ctx, writer, event); err != nil {
			result := "failed"
			if event.RetryCount+1 >= kafka.MaxOutboxAttempts {
				result = "dead"
			}
			outboxPublished.WithLabelValues(event.EventType, result).Inc()
			logger.Error("publish outbox event failed",
				append(fields, zap.Int("attempt", event.RetryCount+1), zap.String("result", result), zap.Error(err))...)

			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			continue
		}

		outboxPublished.WithLabelValues(event.EventType, "sent").Inc()
		if err := repo.MarkSent(ctx, event.ID); err != nil {
			// delivery is at-least-once: the row is re-claimed after the lease
			logger.Error("mark outbox sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
			continue
		}

		logger.Info("outbox event sent", fields...)
	}

	return nil
}
