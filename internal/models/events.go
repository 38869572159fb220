package models

import "time"

// Event types
const (
	EventTypeSessionStarted   = "SESSION_STARTED"
	EventTypeAnnouncement     = "ANNOUNCEMENT"
	EventTypeMutationApplied  = "MUTATION_APPLIED"
	EventTypeSessionCompleted = "SESSION_COMPLETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionStartedEvent published when a worker opens an order
type SessionStartedEvent struct {
	BaseEvent
	SessionID   string `json:"session_id"`
	OrderID     int64  `json:"order_id"`
	WorkerID    int64  `json:"worker_id"`
	WarehouseID int64  `json:"warehouse_id"`
	TotalItems  int    `json:"total_items"`
}

// AnnouncementEvent published each time the core speaks to the worker
type AnnouncementEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	Language  string `json:"language"`
	ItemIndex int    `json:"item_index"`
}

// MutationAppliedEvent published after an OrderItem is persisted
type MutationAppliedEvent struct {
	BaseEvent
	SessionID      string `json:"session_id"`
	WorkerID       int64  `json:"worker_id"`
	WarehouseID    int64  `json:"warehouse_id"`
	ItemID         int64  `json:"item_id"`
	QuantityPicked int    `json:"quantity_picked"`
	Status         string `json:"status"`
}

// SessionCompletedEvent published exactly once when the last item is
// confirmed or skipped past
type SessionCompletedEvent struct {
	BaseEvent
	SessionID   string `json:"session_id"`
	OrderID     int64  `json:"order_id"`
	WorkerID    int64  `json:"worker_id"`
	WarehouseID int64  `json:"warehouse_id"`
	PickedItems int    `json:"picked_items"`
	TotalItems  int    `json:"total_items"`
}
