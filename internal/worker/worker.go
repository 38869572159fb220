package worker

import (
	"context"

	"voicepick-service/internal/broker"
	"voicepick-service/internal/models"
	"voicepick-service/internal/redisclient"
	"voicepick-service/internal/util"

	"go.uber.org/zap"
)

// MetricsWorker consumes picking events and folds them into the redis
// productivity counters that back the warehouse metrics feed.
type MetricsWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewMetricsWorker creates a metrics aggregation worker
func NewMetricsWorker(consumer *broker.Consumer, redis *redisclient.Client) *MetricsWorker {
	logger := util.NamedLogger("metrics-worker")
	eventHandler := broker.NewEventHandler()

	eventHandler.OnMutationApplied(func(ctx context.Context, event *models.MutationAppliedEvent) error {
		if event.Status != models.ItemStatusPicked {
			return nil
		}
		if err := redis.IncrItemsPicked(ctx, event.WarehouseID, event.WorkerID, event.QuantityPicked); err != nil {
			logger.Warn("Failed to update items-picked counter",
				zap.Int64("worker_id", event.WorkerID),
				zap.Error(err))
		}
		return nil
	})

	eventHandler.OnSessionCompleted(func(ctx context.Context, event *models.SessionCompletedEvent) error {
		if err := redis.IncrOrdersCompleted(ctx, event.WarehouseID, event.WorkerID); err != nil {
			logger.Warn("Failed to update orders-completed counter",
				zap.Int64("worker_id", event.WorkerID),
				zap.Error(err))
		}
		if err := redis.IncrCompletedToday(ctx, event.WarehouseID); err != nil {
			logger.Warn("Failed to update daily completion counter",
				zap.Int64("warehouse_id", event.WarehouseID),
				zap.Error(err))
		}
		return nil
	})

	return &MetricsWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       logger,
	}
}

// Start starts the worker
func (w *MetricsWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting metrics worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *MetricsWorker) Stop() error {
	w.logger.Info("Stopping metrics worker")
	return w.consumer.Close()
}
