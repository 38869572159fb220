package models

import (
	"fmt"
	"time"
)

// Product represents a pickable product and its slot in the warehouse
type Product struct {
	ID            int64     `db:"id" json:"id"`
	SKU           string    `db:"sku" json:"sku"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description,omitempty"`
	LocationAisle string    `db:"location_aisle" json:"location_aisle"`
	LocationShelf string    `db:"location_shelf" json:"location_shelf"`
	LocationBin   string    `db:"location_bin" json:"location_bin"`
	CurrentStock  int       `db:"current_stock" json:"current_stock"`
	ReservedStock int       `db:"reserved_stock" json:"reserved_stock"`
	WarehouseID   int64     `db:"warehouse_id" json:"warehouse_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Location renders the three-part slot as "aisle-shelf-bin", the form
// workers hear in announcements
func (p *Product) Location() string {
	return fmt.Sprintf("%s-%s-%s", p.LocationAisle, p.LocationShelf, p.LocationBin)
}

// Order represents a customer order to be picked
type Order struct {
	ID               int64     `db:"id" json:"id"`
	OrderNumber      string    `db:"order_number" json:"order_number"`
	CustomerName     string    `db:"customer_name" json:"customer_name"`
	Status           string    `db:"status" json:"status"`
	Priority         string    `db:"priority" json:"priority"`
	AssignedWorkerID *int64    `db:"assigned_worker_id" json:"assigned_worker_id,omitempty"`
	WarehouseID      int64     `db:"warehouse_id" json:"warehouse_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem represents one line of an order. Sequence order within the
// order is the pick order presented to the worker.
type OrderItem struct {
	ID              int64     `db:"id" json:"id"`
	OrderID         int64     `db:"order_id" json:"order_id"`
	ProductID       int64     `db:"product_id" json:"product_id"`
	QuantityOrdered int       `db:"quantity_ordered" json:"quantity_ordered"`
	QuantityPicked  int       `db:"quantity_picked" json:"quantity_picked"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`

	Product *Product `db:"-" json:"product,omitempty"`
}

// PickingSession represents one worker working one order from load to
// completion
type PickingSession struct {
	ID          string     `db:"id" json:"id"`
	WorkerID    int64      `db:"worker_id" json:"worker_id"`
	OrderID     int64      `db:"order_id" json:"order_id"`
	Status      string     `db:"status" json:"status"`
	TotalItems  int        `db:"total_items" json:"total_items"`
	PickedItems int        `db:"picked_items" json:"picked_items"`
	StartedAt   time.Time  `db:"started_at" json:"started_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// ParsedCommand is the ephemeral result of classifying one utterance
type ParsedCommand struct {
	Action     string  `json:"action"`
	Quantity   int     `json:"quantity"`
	Confidence float64 `json:"confidence"`
	Original   string  `json:"original"`
	Language   string  `json:"language"`
}

// Worker represents a warehouse worker
type Worker struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Role        string    `db:"role" json:"role"`
	WarehouseID int64     `db:"warehouse_id" json:"warehouse_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// WarehouseMetrics aggregates picking activity for one warehouse
type WarehouseMetrics struct {
	TotalOrders        int                  `json:"total_orders"`
	PendingOrders      int                  `json:"pending_orders"`
	ActiveSessions     int                  `json:"active_picking_sessions"`
	CompletedToday     int                  `json:"completed_today"`
	WorkerProductivity []WorkerProductivity `json:"worker_productivity"`
}

// WorkerProductivity is one worker's picking totals
type WorkerProductivity struct {
	WorkerID        int64  `json:"worker_id"`
	WorkerName      string `json:"worker_name"`
	OrdersCompleted int    `json:"orders_completed"`
	ItemsPicked     int    `json:"items_picked"`
}

// Order statuses
const (
	OrderStatusPending = "pending"
	OrderStatusPicking = "picking"
	OrderStatusPicked  = "picked"
	OrderStatusPacked  = "packed"
	OrderStatusShipped = "shipped"
)

// Order priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// OrderItem statuses
const (
	ItemStatusPending = "pending"
	ItemStatusPicking = "picking"
	ItemStatusPicked  = "picked"
)

// PickingSession statuses
const (
	SessionStatusActive    = "active"
	SessionStatusPaused    = "paused"
	SessionStatusCompleted = "completed"
)

// Command actions
const (
	ActionPick    = "pick"
	ActionConfirm = "confirm"
	ActionSkip    = "skip"
	ActionRepeat  = "repeat"
	ActionHelp    = "help"
	ActionUnknown = "unknown"
)
