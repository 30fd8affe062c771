package memoryrepo

import (
	"context"
	"testing"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/order"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, createdAt time.Time) order.Order {
	t.Helper()

	return order.New([]orderitem.OrderItem{
		{Name: "Burger", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 1},
	}, "", createdAt)
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	o := newOrder(t, time.Now())

	require.NoError(t, repo.Create(ctx, o))
	assert.ErrorIs(t, repo.Create(ctx, o), errs.ErrConflict)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Number, got.Number)
	require.Len(t, got.OrderItems, 1)

	got.OrderItems[0].Name = "changed"
	again, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Burger", again.OrderItems[0].Name)
}

func TestOrderRepository_Query(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	now := time.Now()

	old := newOrder(t, now.Add(-10*time.Minute))
	recent := newOrder(t, now.Add(-time.Minute))
	paid := newOrder(t, now)
	for _, o := range []order.Order{old, recent, paid} {
		require.NoError(t, repo.Create(ctx, o))
	}
	_, err := repo.UpdateStatus(ctx, paid.ID, order.StatusPlaced, order.StatusPaid, now)
	require.NoError(t, err)

	got, err := repo.Query(ctx, order.QueryOrdersModel{
		Statuses:     []order.Status{order.StatusPlaced},
		CreatedAfter: now.Add(-3 * time.Minute),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, recent.ID, got[0].ID)

	all, err := repo.Query(ctx, order.QueryOrdersModel{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, old.ID, all[0].ID)

	page, err := repo.Query(ctx, order.QueryOrdersModel{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, recent.ID, page[0].ID)
}

func TestOrderRepository_UpdateStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	o := newOrder(t, time.Now())
	require.NoError(t, repo.Create(ctx, o))

	updated, err := repo.UpdateStatus(ctx, o.ID, order.StatusPlaced, order.StatusPaid, time.Now())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, updated.Status)

	_, err = repo.UpdateStatus(ctx, o.ID, order.StatusPlaced, order.StatusCancelled, time.Now())
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = repo.ReplaceItems(ctx, o.ID, order.StatusPlaced, nil, "", time.Now())
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = repo.UpdateStatus(ctx, order.New(nil, "", time.Now()).ID, order.StatusPlaced, order.StatusPaid, time.Now())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
