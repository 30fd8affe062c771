package notificationsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/dal/interfaces/iauditrepo"
	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/auditlog"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/event"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/order"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

type orderReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (order.Order, error)
}

// NotificationService records PaymentConfirmed notifications received by the
// order service. It never changes order state.
type NotificationService struct {
	auditRepo iauditrepo.IAuditRepository
	orders    orderReader
	now       func() time.Time
}

// option is a function that configures the NotificationService.
type option func(*NotificationService)

// MustNewNotificationService creates a new NotificationService.
func MustNewNotificationService(opts ...option) *NotificationService {
	s := &NotificationService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if s.auditRepo == nil {
		panic("notificationsvc: audit repository is required")
	}

	return s
}

// WithAuditRepository sets where received notifications are recorded.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(repo iauditrepo.IAuditRepository) option {
	return func(s *NotificationService) {
		s.auditRepo = repo
	}
}

// WithOrderReader enables logging the current order state next to each notification.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderReader(orders orderReader) option {
	return func(s *NotificationService) {
		s.orders = orders
	}
}

// WithClock replaces time.Now.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *NotificationService) {
		s.now = now
	}
}

// ProcessPaymentConfirmed logs and audits a notification. payload is the raw message body.
func (s *NotificationService) ProcessPaymentConfirmed(
	ctx context.Context,
	evt event.PaymentConfirmed,
	payload []byte,
) error {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "NotificationService.ProcessPaymentConfirmed")
	defer span.End()

	attrs := []any{
		"payment_id", evt.PaymentID,
		"order_id", evt.OrderID,
		"amount", evt.Amount.StringFixed(2),
		"currency", evt.Currency,
		"card", evt.MaskedCardNumber,
	}

	if s.orders != nil {
		o, err := s.orders.GetByID(ctx, evt.OrderID)
		switch {
		case errors.Is(err, errs.ErrNotFound):
			slog.WarnContext(ctx, "Payment notification for unknown order", attrs...)
		case err != nil:
			slog.WarnContext(ctx, "Failed to load order for payment notification", append(attrs, "error", err)...)
		default:
			attrs = append(attrs, "order_number", o.Number, "order_status", o.Status)
		}
	}

	entry := auditlog.PaymentNotificationLog{
		PaymentID:        evt.PaymentID,
		OrderID:          evt.OrderID,
		Amount:           evt.Amount,
		Currency:         evt.Currency,
		MaskedCardNumber: evt.MaskedCardNumber,
		Payload:          payload,
		ReceivedAt:       s.now(),
	}
	if err := s.auditRepo.SavePaymentNotification(ctx, entry); err != nil {
		return fmt.Errorf("failed to save payment notification: %w", err)
	}

	slog.InfoContext(ctx, "Payment confirmation received", attrs...)

	return nil
}

// ListPaymentNotifications returns the notifications received for an order.
func (s *NotificationService) ListPaymentNotifications(
	ctx context.Context,
	orderID uuid.UUID,
) ([]auditlog.PaymentNotificationLog, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "NotificationService.ListPaymentNotifications")
	defer span.End()

	return s.auditRepo.ListByOrderID(ctx, orderID)
}
