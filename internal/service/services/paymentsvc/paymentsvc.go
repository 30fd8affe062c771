package paymentsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/dal/interfaces/ipaymentrepo"
	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/payment"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PaymentService is a service for managing payments.
type PaymentService struct {
	paymentRepo   ipaymentrepo.IPaymentRepository
	orderClient   orderClient
	notifier      notifier
	remoteTimeout time.Duration
	now           func() time.Time

	coordinator *ConfirmationCoordinator
}

// option is a function that configures the PaymentService.
type option func(*PaymentService)

// MustNewPaymentService creates a new PaymentService.
func MustNewPaymentService(opts ...option) *PaymentService {
	s := &PaymentService{
		remoteTimeout: DefaultRemoteTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.paymentRepo == nil {
		panic("paymentsvc: payment repository is required")
	}
	if s.orderClient == nil {
		panic("paymentsvc: order client is required")
	}

	s.coordinator = NewConfirmationCoordinator(s.paymentRepo, s.orderClient, s.notifier, s.remoteTimeout, s.now)

	return s
}

// WithPaymentRepository sets the payment repository for the PaymentService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPaymentRepository(repo ipaymentrepo.IPaymentRepository) option {
	return func(s *PaymentService) {
		s.paymentRepo = repo
	}
}

// WithOrderClient sets the client used to mark orders as paid.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderClient(client orderClient) option {
	return func(s *PaymentService) {
		s.orderClient = client
	}
}

// WithNotifier sets who is told about confirmed payments.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithNotifier(n notifier) option {
	return func(s *PaymentService) {
		s.notifier = n
	}
}

// WithRemoteTimeout bounds the call to the order service.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRemoteTimeout(timeout time.Duration) option {
	return func(s *PaymentService) {
		if timeout > 0 {
			s.remoteTimeout = timeout
		}
	}
}

// WithClock replaces time.Now.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *PaymentService) {
		s.now = now
	}
}

// CreatePayment registers a payment awaiting confirmation for an order.
// Only one payment may exist per order.
func (s *PaymentService) CreatePayment(ctx context.Context, d payment.Details) (payment.Payment, error) {
	ctx, span := otel.Tracer("payment-svc").Start(ctx, "PaymentService.CreatePayment")
	defer span.End()

	if err := validateDetails(d); err != nil {
		return payment.Payment{}, err
	}

	exists, err := s.paymentRepo.ExistsByOrderID(ctx, d.OrderID)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("failed to check existing payment: %w", err)
	}
	if exists {
		return payment.Payment{}, errs.Conflict("a payment already exists for order %s", d.OrderID)
	}

	p := payment.New(d, s.now())
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return payment.Payment{}, err
	}

	slog.InfoContext(ctx, "Payment created",
		"payment_id", p.ID,
		"order_id", p.OrderID,
		"amount", p.Amount.StringFixed(2),
		"card", p.MaskedCardNumber,
	)

	return p, nil
}

// GetPayment returns the payment with the given id.
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (payment.Payment, error) {
	ctx, span := otel.Tracer("payment-svc").Start(ctx, "PaymentService.GetPayment")
	defer span.End()

	return s.paymentRepo.GetByID(ctx, id)
}

// ListPayments returns a page of payments. Pages start at 1.
func (s *PaymentService) ListPayments(ctx context.Context, page, size int) (payment.Page, error) {
	ctx, span := otel.Tracer("payment-svc").Start(ctx, "PaymentService.ListPayments")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	items, total, err := s.paymentRepo.List(ctx, size, (page-1)*size)
	if err != nil {
		return payment.Page{}, fmt.Errorf("failed to list payments: %w", err)
	}

	return payment.Page{
		Items:      items,
		Page:       page,
		Size:       size,
		TotalItems: total,
	}, nil
}

// ReplacePayment overwrites the data fields of a payment. Status is untouched.
func (s *PaymentService) ReplacePayment(
	ctx context.Context,
	id uuid.UUID,
	d payment.Details,
) (payment.Payment, error) {
	ctx, span := otel.Tracer("payment-svc").Start(ctx, "PaymentService.ReplacePayment")
	defer span.End()

	if err := validateDetails(d); err != nil {
		return payment.Payment{}, err
	}

	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return payment.Payment{}, err
	}

	p.Apply(d, s.now())
	if err := s.paymentRepo.Update(ctx, p); err != nil {
		return payment.Payment{}, err
	}

	return s.paymentRepo.GetByID(ctx, id)
}

// DeletePayment removes a payment.
func (s *PaymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("payment-svc").Start(ctx, "PaymentService.DeletePayment")
	defer span.End()

	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Payment deleted", "payment_id", id)

	return nil
}

// ConfirmPayment confirms a payment and marks its order as paid.
func (s *PaymentService) ConfirmPayment(ctx context.Context, id uuid.UUID) (payment.Payment, error) {
	return s.coordinator.Confirm(ctx, id)
}

// DeclinePayment records a refusal by the card issuer.
func (s *PaymentService) DeclinePayment(ctx context.Context, id uuid.UUID) (payment.Payment, error) {
	ctx, span := otel.Tracer("payment-svc").Start(ctx, "PaymentService.DeclinePayment")
	defer span.End()

	return s.transition(ctx, id, payment.TriggerDecline)
}

// CancelPayment cancels a payment that was never confirmed.
func (s *PaymentService) CancelPayment(ctx context.Context, id uuid.UUID) (payment.Payment, error) {
	ctx, span := otel.Tracer("payment-svc").Start(ctx, "PaymentService.CancelPayment")
	defer span.End()

	return s.transition(ctx, id, payment.TriggerCancel)
}

func (s *PaymentService) transition(
	ctx context.Context,
	id uuid.UUID,
	trigger payment.Trigger,
) (payment.Payment, error) {
	current, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return payment.Payment{}, err
	}

	next, err := payment.Transition(current.Status, trigger)
	if err != nil {
		return payment.Payment{}, err
	}

	updated, err := s.paymentRepo.CompareAndSetStatus(ctx, id, current.Status, next, s.now())
	if err != nil {
		return payment.Payment{}, err
	}

	slog.InfoContext(ctx, "Payment status changed",
		"payment_id", id,
		"from", current.Status,
		"to", updated.Status,
	)

	return updated, nil
}

func validateDetails(d payment.Details) error {
	var problems []error
	if d.OrderID == uuid.Nil {
		problems = append(problems, errors.New("order id is required"))
	}
	if !d.Amount.IsPositive() {
		problems = append(problems, errors.New("amount must be greater than zero"))
	}
	if d.Method != payment.MethodCredit && d.Method != payment.MethodDebit {
		problems = append(problems, fmt.Errorf("unknown payment method %q", d.Method))
	}
	if len(problems) > 0 {
		return errs.Wrap(errs.ErrValidation, errors.Join(problems...), "invalid payment")
	}

	return nil
}
