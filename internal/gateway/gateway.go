// Package gateway defines the warehouse data contract consumed by the
// picking session core. The gateway is the single writer of
// quantity_picked and status on order items; the core never reaches the
// backing store directly.
package gateway

import (
	"context"
	"fmt"

	"voicepick-service/internal/models"
)

// ErrItemNotFound is returned by UpdateItem for an unknown item ID.
var ErrItemNotFound = fmt.Errorf("order item not found")

// ErrOrderNotFound is returned when an order does not exist.
var ErrOrderNotFound = fmt.Errorf("order not found")

// Gateway is the asynchronous warehouse data contract. Callers
// serialize calls per session; at most one update is applied per call.
type Gateway interface {
	// GetOrder retrieves one order.
	GetOrder(ctx context.Context, orderID int64) (*models.Order, error)

	// GetOrderItems retrieves the items of an order in pick order, each
	// joined with its product.
	GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)

	// UpdateItem overwrites status and picked quantity of one item and
	// returns the updated record.
	UpdateItem(ctx context.Context, itemID int64, status string, quantityPicked int) (*models.OrderItem, error)

	// StartSession creates a picking session for a (worker, order) pair
	// and moves the order into picking.
	StartSession(ctx context.Context, workerID, orderID int64) (*models.PickingSession, error)

	// CompleteSession marks a session completed with its final totals.
	CompleteSession(ctx context.Context, sessionID string, pickedItems int) error
}
