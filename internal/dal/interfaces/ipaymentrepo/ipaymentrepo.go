package ipaymentrepo

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/models/payment"
	"github.com/google/uuid"
)

// IPaymentRepository stores payments. At most one payment exists per order id.
type IPaymentRepository interface {
	// Create persists a payment, errs.ErrConflict if the order already has one
	Create(ctx context.Context, p payment.Payment) error

	// GetByID returns the payment or errs.ErrNotFound
	GetByID(ctx context.Context, id uuid.UUID) (payment.Payment, error)

	// ExistsByOrderID reports whether a payment references the order
	ExistsByOrderID(ctx context.Context, orderID uuid.UUID) (bool, error)

	// List returns a page of payments ordered by creation time and the total count
	List(ctx context.Context, limit, offset int) ([]payment.Payment, int, error)

	// Update overwrites the data fields of an existing payment, status excluded
	Update(ctx context.Context, p payment.Payment) error

	// Delete removes the payment or returns errs.ErrNotFound
	Delete(ctx context.Context, id uuid.UUID) error

	// CompareAndSetStatus moves the payment from expected to next atomically.
	// It returns errs.ErrConflict when the stored status is not expected.
	CompareAndSetStatus(
		ctx context.Context,
		id uuid.UUID,
		expected payment.Status,
		next payment.Status,
		updatedAt time.Time,
	) (payment.Payment, error)
}
