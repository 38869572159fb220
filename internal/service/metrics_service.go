package service

import (
	"context"
	"sort"

	"voicepick-service/internal/models"
	"voicepick-service/internal/redisclient"
	"voicepick-service/internal/store"
	"voicepick-service/internal/util"

	"go.uber.org/zap"
)

// MetricsService serves the warehouse aggregation feed: order totals
// from postgres, live activity and productivity counters from redis.
// Redis reads degrade to zero values so the feed stays available when
// the cache is down.
type MetricsService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewMetricsService creates a metrics service
func NewMetricsService(st *store.Store, redis *redisclient.Client) *MetricsService {
	return &MetricsService{
		store:  st,
		redis:  redis,
		logger: util.NamedLogger("metrics"),
	}
}

// GetWarehouseMetrics aggregates picking activity for one warehouse
func (s *MetricsService) GetWarehouseMetrics(ctx context.Context, warehouseID int64) (*models.WarehouseMetrics, error) {
	ctx, span := util.StartSpan(ctx, "MetricsService.GetWarehouseMetrics")
	defer span.End()

	total, err := s.store.CountOrders(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	pending, err := s.store.CountOrdersByStatus(ctx, warehouseID, models.OrderStatusPending)
	if err != nil {
		return nil, err
	}

	active, err := s.redis.CountActiveSessions(ctx, warehouseID)
	if err != nil {
		s.logger.Warn("Failed to count active sessions", zap.Error(err))
		active = 0
	}
	completedToday, err := s.redis.GetCompletedToday(ctx, warehouseID)
	if err != nil {
		s.logger.Warn("Failed to read completion counter", zap.Error(err))
		completedToday = 0
	}

	productivity, err := s.redis.GetWorkerProductivity(ctx, warehouseID)
	if err != nil {
		s.logger.Warn("Failed to read worker productivity", zap.Error(err))
		productivity = nil
	}

	workers, err := s.store.GetWorkersByWarehouse(ctx, warehouseID)
	if err != nil {
		s.logger.Warn("Failed to load worker names", zap.Error(err))
	}
	names := make(map[int64]string, len(workers))
	for _, w := range workers {
		names[w.ID] = w.Name
	}

	rows := make([]models.WorkerProductivity, 0, len(productivity))
	for workerID, p := range productivity {
		p.WorkerName = names[workerID]
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ItemsPicked > rows[j].ItemsPicked })

	return &models.WarehouseMetrics{
		TotalOrders:        total,
		PendingOrders:      pending,
		ActiveSessions:     active,
		CompletedToday:     completedToday,
		WorkerProductivity: rows,
	}, nil
}
