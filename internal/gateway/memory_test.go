package gateway

import (
	"context"
	"testing"

	"voicepick-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(g *MemoryGateway) {
	g.SeedOrder(
		models.Order{ID: 1, WarehouseID: 1},
		[]models.Product{
			{ID: 10, SKU: "SKU-A001", Name: "Industrial Bearing", LocationAisle: "A", LocationShelf: "3", LocationBin: "15"},
			{ID: 11, SKU: "SKU-B002", Name: "Steel Connector", LocationAisle: "B", LocationShelf: "1", LocationBin: "08"},
		},
		[]models.OrderItem{
			{ID: 2, OrderID: 1, ProductID: 11, QuantityOrdered: 2, Status: models.ItemStatusPending},
			{ID: 1, OrderID: 1, ProductID: 10, QuantityOrdered: 5, Status: models.ItemStatusPicked, QuantityPicked: 5},
		},
	)
}

func TestGetOrderItemsJoinedAndOrdered(t *testing.T) {
	g := NewMemoryGateway()
	seed(g)

	items, err := g.GetOrderItems(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// item-ID order regardless of seed order
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, int64(2), items[1].ID)

	require.NotNil(t, items[0].Product)
	assert.Equal(t, "A-3-15", items[0].Product.Location())
}

func TestUpdateItemNotFound(t *testing.T) {
	g := NewMemoryGateway()
	seed(g)

	_, err := g.UpdateItem(context.Background(), 42, models.ItemStatusPicked, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateItemOverwrites(t *testing.T) {
	g := NewMemoryGateway()
	seed(g)

	updated, err := g.UpdateItem(context.Background(), 2, models.ItemStatusPicked, 2)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusPicked, updated.Status)
	assert.Equal(t, 2, updated.QuantityPicked)
	require.NotNil(t, updated.Product)

	stored, ok := g.Item(2)
	require.True(t, ok)
	assert.Equal(t, 2, stored.QuantityPicked)
}

func TestStartSessionCountsPicked(t *testing.T) {
	g := NewMemoryGateway()
	seed(g)

	sess, err := g.StartSession(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusActive, sess.Status)
	assert.Equal(t, 2, sess.TotalItems)
	assert.Equal(t, 1, sess.PickedItems)
	assert.NotEmpty(t, sess.ID)

	order, err := g.GetOrder(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPicking, order.Status)
	require.NotNil(t, order.AssignedWorkerID)
	assert.Equal(t, int64(7), *order.AssignedWorkerID)
}

func TestFaultInjectionFiresOnce(t *testing.T) {
	g := NewMemoryGateway()
	seed(g)

	g.FailNext = assert.AnError
	_, err := g.GetOrderItems(context.Background(), 1)
	assert.ErrorIs(t, err, assert.AnError)

	_, err = g.GetOrderItems(context.Background(), 1)
	assert.NoError(t, err)
}
