// Package payments serves the payment REST API.
package payments

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/orderpay/internal/service/models/payment"
	"github.com/corray333/backend-labs/orderpay/pkg/http/request"
	"github.com/corray333/backend-labs/orderpay/pkg/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type service interface {
	CreatePayment(ctx context.Context, d payment.Details) (payment.Payment, error)
	GetPayment(ctx context.Context, id uuid.UUID) (payment.Payment, error)
	ListPayments(ctx context.Context, page, size int) (payment.Page, error)
	ReplacePayment(ctx context.Context, id uuid.UUID, d payment.Details) (payment.Payment, error)
	DeletePayment(ctx context.Context, id uuid.UUID) error
	ConfirmPayment(ctx context.Context, id uuid.UUID) (payment.Payment, error)
	DeclinePayment(ctx context.Context, id uuid.UUID) (payment.Payment, error)
	CancelPayment(ctx context.Context, id uuid.UUID) (payment.Payment, error)
}

// Handler serves the /payments routes.
type Handler struct {
	payments service
}

// NewHandler creates a new Handler.
func NewHandler(payments service) *Handler {
	return &Handler{payments: payments}
}

// Routes registers the payment routes on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Post("/", h.createPayment)
		r.Get("/", h.listPayments)
		r.Get("/{id}", h.getPayment)
		r.Put("/{id}", h.replacePayment)
		r.Delete("/{id}", h.deletePayment)
		r.Post("/{id}/confirm", h.statusAction(h.payments.ConfirmPayment))
		r.Post("/{id}/decline", h.statusAction(h.payments.DeclinePayment))
		r.Post("/{id}/cancel", h.statusAction(h.payments.CancelPayment))
	})
}

// createPayment godoc
//
//	@Summary	Register a payment for an order
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	paymentResponse
//	@Failure	400	{object}	response.Problem
//	@Failure	409	{object}	response.Problem
//	@Router		/api/payments [post]
func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, err)

		return
	}

	details, err := req.toDetails()
	if err != nil {
		response.Error(w, r, err)

		return
	}

	p, err := h.payments.CreatePayment(r.Context(), details)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	w.Header().Set("Location", "/api/payments/"+p.ID.String())
	response.JSON(w, http.StatusCreated, newPaymentResponse(p))
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	p, err := h.payments.GetPayment(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, newPaymentResponse(p))
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	var query listPaymentsRequest
	if err := request.DecodeQuery(r, &query); err != nil {
		response.Error(w, r, err)

		return
	}

	page, err := h.payments.ListPayments(r.Context(), query.Page, query.Size)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, newPageResponse(page))
}

func (h *Handler) replacePayment(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	var req paymentRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, err)

		return
	}

	details, err := req.toDetails()
	if err != nil {
		response.Error(w, r, err)

		return
	}

	p, err := h.payments.ReplacePayment(r.Context(), id, details)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, newPaymentResponse(p))
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	if err := h.payments.DeletePayment(r.Context(), id); err != nil {
		response.Error(w, r, err)

		return
	}

	response.NoContent(w)
}

// statusAction adapts confirm, decline and cancel to a handler.
func (h *Handler) statusAction(
	action func(ctx context.Context, id uuid.UUID) (payment.Payment, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.Error(w, r, err)

			return
		}

		p, err := action(r.Context(), id)
		if err != nil {
			response.Error(w, r, err)

			return
		}

		response.JSON(w, http.StatusOK, newPaymentResponse(p))
	}
}
