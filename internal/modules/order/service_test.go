package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denizatli/orderhub-backend/internal/cache"
)

func newOrderService(t *testing.T) (*memRepo, Service) {
	t.Helper()
	repo := newMemRepo()
	return repo, NewService(repo, cache.Noop(), 0)
}

func TestCreateOrderStartsEmpty(t *testing.T) {
	_, svc := newOrderService(t)

	o, err := svc.CreateOrder(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusOpen, o.Status)
	assert.Equal(t, 0.0, o.TotalAmount)
	assert.False(t, o.OrderDate.IsZero())
	assert.Empty(t, o.Items)
}

func TestGetOrderNotFound(t *testing.T) {
	_, svc := newOrderService(t)

	_, err := svc.GetOrder(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatus(t *testing.T) {
	_, svc := newOrderService(t)

	o, err := svc.CreateOrder(context.Background())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{Status: StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)

	got, err := svc.GetOrder(context.Background(), o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestUpdateStatusRejectsUnknownCode(t *testing.T) {
	_, svc := newOrderService(t)

	o, err := svc.CreateOrder(context.Background())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{Status: 42})
	require.Error(t, err)
}

func TestDeleteOrderRemovesItems(t *testing.T) {
	repo, svc := newOrderService(t)

	o, err := svc.CreateOrder(context.Background())
	require.NoError(t, err)

	productID := uuid.New().String()
	items := NewItemService(repo, &fakeProducts{prices: map[string]float64{productID: 5.0}}, cache.Noop())
	item, err := items.AddItem(context.Background(), o.ID.String(), AddItemRequest{ProductID: productID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(context.Background(), o.ID.String()))

	_, err = svc.GetOrder(context.Background(), o.ID.String())
	require.ErrorIs(t, err, ErrOrderNotFound)
	_, err = repo.GetItemByID(context.Background(), item.ID.String())
	require.ErrorIs(t, err, ErrItemNotFound)
}
