package gateway

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"voicepick-service/internal/models"

	"github.com/google/uuid"
)

// MemoryGateway is an in-process Gateway with configurable latency and
// fault injection. It replaces the old process-wide mock array with an
// injectable instance constructed per session or per test.
type MemoryGateway struct {
	mu       sync.Mutex
	orders   map[int64]*models.Order
	items    map[int64]*models.OrderItem
	products map[int64]*models.Product
	sessions map[string]*models.PickingSession

	// Latency is applied before every call.
	Latency time.Duration
	// FailNext makes the next call return this error once.
	FailNext error
}

// NewMemoryGateway creates an empty in-memory gateway
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		orders:   make(map[int64]*models.Order),
		items:    make(map[int64]*models.OrderItem),
		products: make(map[int64]*models.Product),
		sessions: make(map[string]*models.PickingSession),
	}
}

// SeedOrder registers an order with its products and items
func (g *MemoryGateway) SeedOrder(order models.Order, products []models.Product, items []models.OrderItem) {
	g.mu.Lock()
	defer g.mu.Unlock()

	o := order
	g.orders[o.ID] = &o
	for i := range products {
		p := products[i]
		g.products[p.ID] = &p
	}
	for i := range items {
		it := items[i]
		g.items[it.ID] = &it
	}
}

// Item returns a copy of one stored item, for assertions
func (g *MemoryGateway) Item(itemID int64) (models.OrderItem, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	item, ok := g.items[itemID]
	if !ok {
		return models.OrderItem{}, false
	}
	return *item, true
}

// SessionCount reports how many picking sessions were started, for
// assertions
func (g *MemoryGateway) SessionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}

func (g *MemoryGateway) step() error {
	if g.Latency > 0 {
		time.Sleep(g.Latency)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailNext != nil {
		err := g.FailNext
		g.FailNext = nil
		return err
	}
	return nil
}

// GetOrder retrieves one order
func (g *MemoryGateway) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	if err := g.step(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	order, ok := g.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
	}
	o := *order
	return &o, nil
}

// GetOrderItems retrieves the items of an order in item-ID order
func (g *MemoryGateway) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	if err := g.step(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var result []models.OrderItem
	for _, item := range g.items {
		if item.OrderID != orderID {
			continue
		}
		it := *item
		if product, ok := g.products[it.ProductID]; ok {
			p := *product
			it.Product = &p
		}
		result = append(result, it)
	}

	// map iteration order is random; pick order is item-ID order
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// UpdateItem overwrites status and picked quantity of one item
func (g *MemoryGateway) UpdateItem(ctx context.Context, itemID int64, status string, quantityPicked int) (*models.OrderItem, error) {
	if err := g.step(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	item, ok := g.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrItemNotFound, itemID)
	}

	item.Status = status
	item.QuantityPicked = quantityPicked
	item.UpdatedAt = time.Now().UTC()

	it := *item
	if product, ok := g.products[it.ProductID]; ok {
		p := *product
		it.Product = &p
	}
	return &it, nil
}

// StartSession creates a picking session and assigns the order
func (g *MemoryGateway) StartSession(ctx context.Context, workerID, orderID int64) (*models.PickingSession, error) {
	if err := g.step(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	total, picked := 0, 0
	for _, item := range g.items {
		if item.OrderID != orderID {
			continue
		}
		total++
		if item.Status == models.ItemStatusPicked {
			picked++
		}
	}

	session := &models.PickingSession{
		ID:          uuid.New().String(),
		WorkerID:    workerID,
		OrderID:     orderID,
		Status:      models.SessionStatusActive,
		TotalItems:  total,
		PickedItems: picked,
		StartedAt:   time.Now().UTC(),
	}
	g.sessions[session.ID] = session

	if order, ok := g.orders[orderID]; ok {
		order.Status = models.OrderStatusPicking
		order.AssignedWorkerID = &workerID
		order.UpdatedAt = time.Now().UTC()
	}

	s := *session
	return &s, nil
}

// CompleteSession marks a session completed
func (g *MemoryGateway) CompleteSession(ctx context.Context, sessionID string, pickedItems int) error {
	if err := g.step(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	session, ok := g.sessions[sessionID]
	if !ok {
		return fmt.Errorf("picking session not found: %s", sessionID)
	}

	now := time.Now().UTC()
	session.Status = models.SessionStatusCompleted
	session.PickedItems = pickedItems
	session.CompletedAt = &now
	return nil
}
