package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voicepick-service/internal/models"
	"voicepick-service/internal/store"
	"voicepick-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostgresGateway implements Gateway on top of the sqlx store.
type PostgresGateway struct {
	store  *store.Store
	logger *zap.Logger
}

// NewPostgresGateway creates a store-backed gateway
func NewPostgresGateway(st *store.Store) *PostgresGateway {
	return &PostgresGateway{
		store:  st,
		logger: util.GetLogger(),
	}
}

// GetOrder retrieves one order
func (g *PostgresGateway) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "Gateway.GetOrder")
	defer span.End()

	order, err := g.store.GetOrderByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
	}
	return order, err
}

// GetOrderItems retrieves the items of an order joined with products
func (g *PostgresGateway) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	ctx, span := util.StartSpan(ctx, "Gateway.GetOrderItems")
	defer span.End()

	start := time.Now()
	items, err := g.store.GetOrderItemsByOrderID(ctx, orderID)
	util.GatewayLatency.WithLabelValues("get_order_items").Observe(time.Since(start).Seconds())
	return items, err
}

// UpdateItem overwrites status and picked quantity of one item
func (g *PostgresGateway) UpdateItem(ctx context.Context, itemID int64, status string, quantityPicked int) (*models.OrderItem, error) {
	ctx, span := util.StartSpan(ctx, "Gateway.UpdateItem")
	defer span.End()

	start := time.Now()
	item, err := g.store.UpdateOrderItem(ctx, itemID, status, quantityPicked)
	util.GatewayLatency.WithLabelValues("update_item").Observe(time.Since(start).Seconds())

	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrItemNotFound, itemID)
	}
	if err != nil {
		return nil, err
	}

	g.logger.Info("Order item updated",
		zap.Int64("item_id", item.ID),
		zap.String("status", item.Status),
		zap.Int("quantity_picked", item.QuantityPicked))
	return item, nil
}

// StartSession creates a picking session and assigns the order
func (g *PostgresGateway) StartSession(ctx context.Context, workerID, orderID int64) (*models.PickingSession, error) {
	ctx, span := util.StartSpan(ctx, "Gateway.StartSession")
	defer span.End()

	items, err := g.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	picked := 0
	for _, item := range items {
		if item.Status == models.ItemStatusPicked {
			picked++
		}
	}

	session := &models.PickingSession{
		ID:          uuid.New().String(),
		WorkerID:    workerID,
		OrderID:     orderID,
		Status:      models.SessionStatusActive,
		TotalItems:  len(items),
		PickedItems: picked,
		StartedAt:   time.Now().UTC(),
	}

	if err := g.store.CreatePickingSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create picking session: %w", err)
	}

	if err := g.store.UpdateOrderStatus(ctx, orderID, models.OrderStatusPicking, &workerID); err != nil {
		return nil, fmt.Errorf("failed to assign order: %w", err)
	}

	return session, nil
}

// CompleteSession marks a session completed
func (g *PostgresGateway) CompleteSession(ctx context.Context, sessionID string, pickedItems int) error {
	ctx, span := util.StartSpan(ctx, "Gateway.CompleteSession")
	defer span.End()

	return g.store.CompletePickingSession(ctx, sessionID, pickedItems)
}
