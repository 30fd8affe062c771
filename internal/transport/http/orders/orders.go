// Package orders serves the order REST API.
package orders

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/auditlog"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/order"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/orderpay/pkg/http/request"
	"github.com/corray333/backend-labs/orderpay/pkg/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type service interface {
	CreateOrder(ctx context.Context, items []orderitem.OrderItem, notes string) (order.Order, bool, error)
	GetOrder(ctx context.Context, id uuid.UUID) (order.Order, error)
	ListOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, items []orderitem.OrderItem, notes string) (order.Order, error)
	SetStatus(ctx context.Context, id uuid.UUID, target order.Status) (order.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (order.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID) error
	DeliveryFee() decimal.Decimal
}

type notificationService interface {
	ListPaymentNotifications(ctx context.Context, orderID uuid.UUID) ([]auditlog.PaymentNotificationLog, error)
}

// Handler serves the /orders routes.
type Handler struct {
	orders        service
	notifications notificationService
}

// NewHandler creates a new Handler.
func NewHandler(orders service, notifications notificationService) *Handler {
	return &Handler{
		orders:        orders,
		notifications: notifications,
	}
}

// Routes registers the order routes on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/", h.listOrders)
		r.Get("/{id}", h.getOrder)
		r.Put("/{id}", h.updateOrder)
		r.Patch("/{id}/status", h.setStatus)
		r.Post("/{id}/cancel", h.cancelOrder)
		r.Put("/{id}/paid", h.markPaid)
		r.Get("/{id}/payment-notifications", h.listPaymentNotifications)
	})
}

// createOrder godoc
//
//	@Summary	Place an order
//	@Description	Returns 201 for a new order and 200 with the existing order when an identical one was placed recently.
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	orderResponse
//	@Success	200	{object}	orderResponse
//	@Failure	400	{object}	response.Problem
//	@Router		/api/orders [post]
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, err)

		return
	}

	o, created, err := h.orders.CreateOrder(r.Context(), req.toItems(), req.Notes)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", "/api/orders/"+o.ID.String())
	}

	response.JSON(w, status, newOrderResponse(o, h.orders.DeliveryFee()))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	o, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, newOrderResponse(o, h.orders.DeliveryFee()))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var query listOrdersRequest
	if err := request.DecodeQuery(r, &query); err != nil {
		response.Error(w, r, err)

		return
	}

	filter, err := query.toModel()
	if err != nil {
		response.Error(w, r, errs.Wrap(errs.ErrValidation, err, "invalid status filter"))

		return
	}

	orders, err := h.orders.ListOrders(r.Context(), filter)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	fee := h.orders.DeliveryFee()
	summaries := make([]orderSummaryResponse, len(orders))
	for i, o := range orders {
		summaries[i] = newOrderSummaryResponse(o, fee)
	}

	response.JSON(w, http.StatusOK, summaries)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	var req orderRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, err)

		return
	}

	o, err := h.orders.UpdateOrder(r.Context(), id, req.toItems(), req.Notes)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, newOrderResponse(o, h.orders.DeliveryFee()))
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	var req setStatusRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, err)

		return
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		response.Error(w, r, errs.Wrap(errs.ErrValidation, err, "invalid status"))

		return
	}

	o, err := h.orders.SetStatus(r.Context(), id, target)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, newOrderResponse(o, h.orders.DeliveryFee()))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	o, err := h.orders.CancelOrder(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, newOrderResponse(o, h.orders.DeliveryFee()))
}

// markPaid godoc
//
//	@Summary	Mark an order as paid
//	@Tags		orders
//	@Success	204
//	@Failure	404	{object}	response.Problem
//	@Failure	422	{object}	response.Problem
//	@Router		/api/orders/{id}/paid [put]
func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	if err := h.orders.MarkPaid(r.Context(), id); err != nil {
		response.Error(w, r, err)

		return
	}

	response.NoContent(w)
}

func (h *Handler) listPaymentNotifications(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	if _, err := h.orders.GetOrder(r.Context(), id); err != nil {
		response.Error(w, r, err)

		return
	}

	logs, err := h.notifications.ListPaymentNotifications(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	out := make([]notificationResponse, len(logs))
	for i, l := range logs {
		out[i] = newNotificationResponse(l)
	}

	response.JSON(w, http.StatusOK, out)
}
