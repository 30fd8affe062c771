package iorderrepo

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/models/order"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/orderitem"
	"github.com/google/uuid"
)

// IOrderRepository stores orders together with their items.
//
// Writes that change an existing order take the status the caller observed
// and fail with errs.ErrConflict when the stored status differs.
type IOrderRepository interface {
	// Create persists a new order and its items atomically
	Create(ctx context.Context, o order.Order) error

	// GetByID returns the order with its items or errs.ErrNotFound
	GetByID(ctx context.Context, id uuid.UUID) (order.Order, error)

	// Query returns orders matching the filter, oldest first, with their items
	Query(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)

	// ReplaceItems swaps the item set and notes while the order is still in expected status
	ReplaceItems(
		ctx context.Context,
		id uuid.UUID,
		expected order.Status,
		items []orderitem.OrderItem,
		notes string,
		updatedAt time.Time,
	) (order.Order, error)

	// UpdateStatus moves the order from expected to next
	UpdateStatus(
		ctx context.Context,
		id uuid.UUID,
		expected order.Status,
		next order.Status,
		updatedAt time.Time,
	) (order.Order, error)
}
