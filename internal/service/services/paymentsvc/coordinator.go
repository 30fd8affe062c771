package paymentsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/payment"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultRemoteTimeout bounds the MarkOrderPaid call.
const DefaultRemoteTimeout = 5 * time.Second

// orderClient is the synchronous channel to the order service.
type orderClient interface {
	MarkOrderPaid(ctx context.Context, orderID uuid.UUID) error
}

// notifier announces confirmed payments. It must not fail the confirmation.
type notifier interface {
	PaymentConfirmed(ctx context.Context, p payment.Payment)
}

type paymentStatusStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (payment.Payment, error)
	CompareAndSetStatus(
		ctx context.Context,
		id uuid.UUID,
		expected payment.Status,
		next payment.Status,
		updatedAt time.Time,
	) (payment.Payment, error)
}

// ConfirmationCoordinator confirms a payment locally, asks the order service to
// mark the order paid and rolls the payment back when that call fails.
type ConfirmationCoordinator struct {
	payments paymentStatusStore
	orders   orderClient
	notifier notifier
	timeout  time.Duration
	now      func() time.Time
}

// NewConfirmationCoordinator creates a coordinator. A non-positive timeout
// falls back to DefaultRemoteTimeout.
func NewConfirmationCoordinator(
	payments paymentStatusStore,
	orders orderClient,
	notifier notifier,
	timeout time.Duration,
	now func() time.Time,
) *ConfirmationCoordinator {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	if now == nil {
		now = time.Now
	}

	return &ConfirmationCoordinator{
		payments: payments,
		orders:   orders,
		notifier: notifier,
		timeout:  timeout,
		now:      now,
	}
}

// Confirm runs the confirmation exchange for payment id.
//
// The payment is stored as CONFIRMED before the remote call so that concurrent
// confirmations of the same payment are rejected. On any remote failure the
// payment goes back to AWAITING_CONFIRMATION and the returned error wraps
// errs.ErrRemoteCall together with the remote classification. If the rollback
// itself fails both errors are returned joined.
func (c *ConfirmationCoordinator) Confirm(ctx context.Context, id uuid.UUID) (payment.Payment, error) {
	ctx, span := otel.Tracer("payment-svc").Start(ctx, "ConfirmationCoordinator.Confirm")
	defer span.End()
	span.SetAttributes(attribute.String("payment.id", id.String()))

	current, err := c.payments.GetByID(ctx, id)
	if err != nil {
		return payment.Payment{}, err
	}

	next, err := payment.Transition(current.Status, payment.TriggerConfirm)
	if err != nil {
		return payment.Payment{}, err
	}

	confirmed, err := c.payments.CompareAndSetStatus(ctx, id, payment.Source(payment.TriggerConfirm), next, c.now())
	if errors.Is(err, errs.ErrConflict) {
		return payment.Payment{}, errs.BusinessRule(
			"payment %s is already being confirmed or is no longer %s",
			id, payment.StatusAwaitingConfirmation,
		)
	}
	if err != nil {
		return payment.Payment{}, fmt.Errorf("failed to confirm payment %s: %w", id, err)
	}

	if err := c.markOrderPaid(ctx, confirmed.OrderID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order service rejected payment confirmation")

		return payment.Payment{}, c.compensate(ctx, confirmed, err)
	}

	slog.InfoContext(ctx, "Payment confirmed",
		"payment_id", confirmed.ID,
		"order_id", confirmed.OrderID,
	)

	if c.notifier != nil {
		c.notifier.PaymentConfirmed(ctx, confirmed)
	}

	return confirmed, nil
}

func (c *ConfirmationCoordinator) markOrderPaid(ctx context.Context, orderID uuid.UUID) error {
	ctx, span := otel.Tracer("payment-svc").Start(ctx, "ConfirmationCoordinator.MarkOrderPaid")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.orders.MarkOrderPaid(ctx, orderID)
}

func (c *ConfirmationCoordinator) compensate(ctx context.Context, p payment.Payment, cause error) error {
	// the rollback must run even if the caller has gone away
	ctx, span := otel.Tracer("payment-svc").Start(context.WithoutCancel(ctx), "ConfirmationCoordinator.Compensate")
	defer span.End()

	remoteErr := errs.Wrap(errs.ErrRemoteCall, cause, "failed to mark order %s as paid", p.OrderID)

	previous, err := payment.Transition(p.Status, payment.TriggerCompensate)
	if err == nil {
		_, err = c.payments.CompareAndSetStatus(ctx, p.ID, payment.Source(payment.TriggerCompensate), previous, c.now())
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to roll back payment confirmation",
			"payment_id", p.ID,
			"order_id", p.OrderID,
			"remote_error", cause,
			"error", err,
		)

		return errors.Join(remoteErr, fmt.Errorf("failed to roll back payment %s: %w", p.ID, err))
	}

	slog.WarnContext(ctx, "Payment confirmation rolled back",
		"payment_id", p.ID,
		"order_id", p.OrderID,
		"error", cause,
	)

	return remoteErr
}
