package store

import (
	"context"
	"database/sql"
	"fmt"

	"voicepick-service/internal/models"
)

// ErrNotFound marks lookups and updates against unknown rows.
var ErrNotFound = fmt.Errorf("not found")

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByWarehouse retrieves orders for a warehouse, optionally
// filtered by status
func (s *Store) GetOrdersByWarehouse(ctx context.Context, warehouseID int64, status string) ([]models.Order, error) {
	var orders []models.Order
	if status != "" {
		err := s.db.SelectContext(ctx, &orders,
			"SELECT * FROM orders WHERE warehouse_id = $1 AND status = $2 ORDER BY created_at DESC",
			warehouseID, status)
		return orders, err
	}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE warehouse_id = $1 ORDER BY created_at DESC", warehouseID)
	return orders, err
}

// UpdateOrderStatus updates order status and optionally assigns a worker
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string, workerID *int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, assigned_worker_id = COALESCE($2, assigned_worker_id), updated_at = NOW() WHERE id = $3",
		status, workerID, orderID)
	return err
}

// GetOrderItemsByOrderID retrieves the items of an order in pick order,
// each joined with its product
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]int64, len(items))
	for i := range items {
		productIDs[i] = items[i].ProductID
	}

	products, err := s.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[int64]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}
	for i := range items {
		items[i].Product = productMap[items[i].ProductID]
	}

	return items, nil
}

// UpdateOrderItem overwrites status and picked quantity of one item and
// returns the updated row
func (s *Store) UpdateOrderItem(ctx context.Context, itemID int64, status string, quantityPicked int) (*models.OrderItem, error) {
	var item models.OrderItem
	err := s.db.GetContext(ctx, &item, `
		UPDATE order_items
		SET status = $1, quantity_picked = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING *`,
		status, quantityPicked, itemID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: order item %d", ErrNotFound, itemID)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreatePickingSession inserts a new picking session record
func (s *Store) CreatePickingSession(ctx context.Context, session *models.PickingSession) error {
	query := `
		INSERT INTO picking_sessions (id, worker_id, order_id, status, total_items, picked_items, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		session.ID, session.WorkerID, session.OrderID, session.Status,
		session.TotalItems, session.PickedItems, session.StartedAt)
	return err
}

// GetPickingSession retrieves a picking session by ID
func (s *Store) GetPickingSession(ctx context.Context, id string) (*models.PickingSession, error) {
	var session models.PickingSession
	err := s.db.GetContext(ctx, &session, "SELECT * FROM picking_sessions WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: picking session %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CompletePickingSession marks a session completed and records its totals
func (s *Store) CompletePickingSession(ctx context.Context, id string, pickedItems int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE picking_sessions SET status = $1, picked_items = $2, completed_at = NOW() WHERE id = $3",
		models.SessionStatusCompleted, pickedItems, id)
	return err
}

// CountOrdersByStatus counts orders of one status in a warehouse
func (s *Store) CountOrdersByStatus(ctx context.Context, warehouseID int64, status string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM orders WHERE warehouse_id = $1 AND status = $2", warehouseID, status)
	return count, err
}

// CountOrders counts all orders in a warehouse
func (s *Store) CountOrders(ctx context.Context, warehouseID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM orders WHERE warehouse_id = $1", warehouseID)
	return count, err
}
