package memoryrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/order"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/orderitem"
	"github.com/google/uuid"
)

// OrderRepository keeps orders in process memory.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]order.Order
}

// NewOrderRepository creates an empty in-memory order repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[uuid.UUID]order.Order),
	}
}

func (r *OrderRepository) Create(_ context.Context, o order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; ok {
		return errs.Conflict("order %s already exists", o.ID)
	}
	r.orders[o.ID] = o.Clone()

	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id uuid.UUID) (order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, errs.NotFound("order %s not found", id)
	}

	return o.Clone(), nil
}

func (r *OrderRepository) Query(_ context.Context, filter order.QueryOrdersModel) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make(map[uuid.UUID]struct{}, len(filter.Ids))
	for _, id := range filter.Ids {
		ids[id] = struct{}{}
	}
	statuses := make(map[order.Status]struct{}, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses[s] = struct{}{}
	}

	result := make([]order.Order, 0)
	for _, o := range r.orders {
		if len(ids) > 0 {
			if _, ok := ids[o.ID]; !ok {
				continue
			}
		}
		if len(statuses) > 0 {
			if _, ok := statuses[o.Status]; !ok {
				continue
			}
		}
		if !filter.CreatedAfter.IsZero() && o.CreatedAt.Before(filter.CreatedAfter) {
			continue
		}
		result = append(result, o.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.String() < result[j].ID.String()
		}

		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []order.Order{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

func (r *OrderRepository) ReplaceItems(
	_ context.Context,
	id uuid.UUID,
	expected order.Status,
	items []orderitem.OrderItem,
	notes string,
	updatedAt time.Time,
) (order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, err := r.lockedExpect(id, expected)
	if err != nil {
		return order.Order{}, err
	}

	o.OrderItems = orderitem.Clone(items)
	o.Notes = notes
	o.UpdatedAt = updatedAt
	r.orders[id] = o

	return o.Clone(), nil
}

func (r *OrderRepository) UpdateStatus(
	_ context.Context,
	id uuid.UUID,
	expected order.Status,
	next order.Status,
	updatedAt time.Time,
) (order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, err := r.lockedExpect(id, expected)
	if err != nil {
		return order.Order{}, err
	}

	o.Status = next
	o.UpdatedAt = updatedAt
	r.orders[id] = o

	return o.Clone(), nil
}

// lockedExpect must be called with mu held.
func (r *OrderRepository) lockedExpect(id uuid.UUID, expected order.Status) (order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, errs.NotFound("order %s not found", id)
	}
	if o.Status != expected {
		return order.Order{}, errs.Conflict(
			"order %s was modified concurrently: expected status %s, found %s",
			id, expected, o.Status,
		)
	}

	return o, nil
}
