package ordersvc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/order"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/orderitem"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"
)

// DefaultDeliveryFee is charged on every order unless configured otherwise.
var DefaultDeliveryFee = decimal.RequireFromString("8.00")

// OrderService is a service for managing orders.
type OrderService struct {
	orderRepo       iorderrepo.IOrderRepository
	detector        *DuplicateDetector
	duplicateWindow time.Duration
	deliveryFee     decimal.Decimal
	now             func() time.Time

	// collapses identical submissions racing inside this process
	createGroup singleflight.Group
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		duplicateWindow: DefaultDuplicateWindow,
		deliveryFee:     DefaultDeliveryFee,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.orderRepo == nil {
		panic("ordersvc: order repository is required")
	}
	s.detector = NewDuplicateDetector(s.orderRepo, s.duplicateWindow, s.now)

	return s
}

// WithOrderRepository sets the order repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *OrderService) {
		s.orderRepo = repo
	}
}

// WithDuplicateWindow sets how far back duplicate submissions are detected.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDuplicateWindow(window time.Duration) option {
	return func(s *OrderService) {
		if window > 0 {
			s.duplicateWindow = window
		}
	}
}

// WithDeliveryFee sets the flat delivery fee.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDeliveryFee(fee decimal.Decimal) option {
	return func(s *OrderService) {
		s.deliveryFee = fee
	}
}

// WithClock replaces time.Now.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *OrderService) {
		s.now = now
	}
}

// DeliveryFee returns the configured delivery fee.
func (s *OrderService) DeliveryFee() decimal.Decimal {
	return s.deliveryFee
}

type createResult struct {
	order   order.Order
	created bool
}

// CreateOrder places a new order, unless an identical PLACED order was
// submitted within the duplicate window. In that case the existing order is
// returned unchanged and created is false.
func (s *OrderService) CreateOrder(
	ctx context.Context,
	items []orderitem.OrderItem,
	notes string,
) (o order.Order, created bool, err error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	if len(items) == 0 {
		return order.Order{}, false, errs.Validation("an order must contain at least one item")
	}

	key := strings.Join(orderitem.Signatures(items), ";")
	// the flight outlives any single caller, each caller waits on its own ctx
	flightCtx := context.WithoutCancel(ctx)
	ch := s.createGroup.DoChan(key, func() (any, error) {
		return s.detectOrCreate(flightCtx, items, notes)
	})

	select {
	case <-ctx.Done():
		return order.Order{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return order.Order{}, false, res.Err
		}
		out := res.Val.(createResult)

		return out.order.Clone(), out.created, nil
	}
}

func (s *OrderService) detectOrCreate(
	ctx context.Context,
	items []orderitem.OrderItem,
	notes string,
) (createResult, error) {
	existing, found, err := s.detector.Detect(ctx, items)
	if err != nil {
		return createResult{}, err
	}
	if found {
		slog.InfoContext(ctx, "Duplicate order submission detected",
			"order_id", existing.ID,
			"order_number", existing.Number,
		)

		return createResult{order: existing}, nil
	}

	o := order.New(items, notes, s.now())
	if err := s.orderRepo.Create(ctx, o); err != nil {
		return createResult{}, fmt.Errorf("failed to create order: %w", err)
	}

	slog.InfoContext(ctx, "Order created",
		"order_id", o.ID,
		"order_number", o.Number,
		"total", o.Total().StringFixed(2),
	)

	return createResult{order: o, created: true}, nil
}

// GetOrder returns the order with its items.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (order.Order, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.GetOrder")
	defer span.End()

	return s.orderRepo.GetByID(ctx, id)
}

// ListOrders returns orders matching filter, oldest first.
func (s *OrderService) ListOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.ListOrders")
	defer span.End()

	orders, err := s.orderRepo.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateOrder replaces the items and notes of a PLACED order.
func (s *OrderService) UpdateOrder(
	ctx context.Context,
	id uuid.UUID,
	items []orderitem.OrderItem,
	notes string,
) (order.Order, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.UpdateOrder")
	defer span.End()

	if len(items) == 0 {
		return order.Order{}, errs.Validation("an order must contain at least one item")
	}

	current, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	if err := order.CheckTransition(current.Status, order.TriggerReplaceItems, current.Status); err != nil {
		return order.Order{}, err
	}

	updated, err := s.orderRepo.ReplaceItems(
		ctx,
		id,
		current.Status,
		order.AdoptItems(id, items),
		notes,
		s.now(),
	)
	if err != nil {
		return order.Order{}, err
	}

	slog.InfoContext(ctx, "Order items replaced", "order_id", id, "items", len(updated.OrderItems))

	return updated, nil
}

// SetStatus moves an order to target through the operational flow.
// PAID can only be reached through MarkPaid.
func (s *OrderService) SetStatus(ctx context.Context, id uuid.UUID, target order.Status) (order.Order, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.SetStatus")
	defer span.End()

	return s.transition(ctx, id, order.TriggerSetStatus, target)
}

// CancelOrder cancels an order that is neither delivered nor already cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) (order.Order, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.CancelOrder")
	defer span.End()

	return s.transition(ctx, id, order.TriggerCancel, order.StatusCancelled)
}

// MarkPaid moves a PLACED order to PAID. It is called by the payment service
// once the payment is confirmed.
func (s *OrderService) MarkPaid(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.MarkPaid")
	defer span.End()

	_, err := s.transition(ctx, id, order.TriggerMarkPaid, order.StatusPaid)

	return err
}

func (s *OrderService) transition(
	ctx context.Context,
	id uuid.UUID,
	trigger order.Trigger,
	target order.Status,
) (order.Order, error) {
	current, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	if err := order.CheckTransition(current.Status, trigger, target); err != nil {
		slog.WarnContext(ctx, "Order transition rejected",
			"order_id", id,
			"trigger", trigger,
			"status", current.Status,
			"target", target,
			"error", err,
		)

		return order.Order{}, err
	}

	next := order.TargetStatus(current.Status, trigger, target)
	updated, err := s.orderRepo.UpdateStatus(ctx, id, current.Status, next, s.now())
	if err != nil {
		return order.Order{}, err
	}

	slog.InfoContext(ctx, "Order status changed",
		"order_id", id,
		"from", current.Status,
		"to", updated.Status,
	)

	return updated, nil
}
