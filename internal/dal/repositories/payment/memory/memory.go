package memoryrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/payment"
	"github.com/google/uuid"
)

// PaymentRepository keeps payments in process memory.
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]payment.Payment
	byOrder  map[uuid.UUID]uuid.UUID
}

// NewPaymentRepository creates an empty in-memory payment repository.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments: make(map[uuid.UUID]payment.Payment),
		byOrder:  make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *PaymentRepository) Create(_ context.Context, p payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byOrder[p.OrderID]; ok {
		return errs.Conflict("a payment already exists for order %s", p.OrderID)
	}
	if _, ok := r.payments[p.ID]; ok {
		return errs.Conflict("payment %s already exists", p.ID)
	}
	r.payments[p.ID] = p
	r.byOrder[p.OrderID] = p.ID

	return nil
}

func (r *PaymentRepository) GetByID(_ context.Context, id uuid.UUID) (payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[id]
	if !ok {
		return payment.Payment{}, errs.NotFound("payment %s not found", id)
	}

	return p, nil
}

func (r *PaymentRepository) ExistsByOrderID(_ context.Context, orderID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byOrder[orderID]

	return ok, nil
}

func (r *PaymentRepository) List(_ context.Context, limit, offset int) ([]payment.Payment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]payment.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}

		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return []payment.Payment{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	return all[offset:end], total, nil
}

func (r *PaymentRepository) Update(_ context.Context, p payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.payments[p.ID]
	if !ok {
		return errs.NotFound("payment %s not found", p.ID)
	}
	if owner, taken := r.byOrder[p.OrderID]; taken && owner != p.ID {
		return errs.Conflict("a payment already exists for order %s", p.OrderID)
	}

	p.Status = current.Status
	p.CreatedAt = current.CreatedAt
	delete(r.byOrder, current.OrderID)
	r.byOrder[p.OrderID] = p.ID
	r.payments[p.ID] = p

	return nil
}

func (r *PaymentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok {
		return errs.NotFound("payment %s not found", id)
	}
	delete(r.payments, id)
	delete(r.byOrder, p.OrderID)

	return nil
}

func (r *PaymentRepository) CompareAndSetStatus(
	_ context.Context,
	id uuid.UUID,
	expected payment.Status,
	next payment.Status,
	updatedAt time.Time,
) (payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok {
		return payment.Payment{}, errs.NotFound("payment %s not found", id)
	}
	if p.Status != expected {
		return payment.Payment{}, errs.Conflict(
			"payment %s was modified concurrently: expected status %s, found %s",
			id, expected, p.Status,
		)
	}

	p.Status = next
	p.UpdatedAt = updatedAt
	r.payments[id] = p

	return p, nil
}
