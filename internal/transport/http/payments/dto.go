package payments

import (
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/currency"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// paymentRequest is the body of create and replace payment requests.
// Card data lives only in this struct and is masked by the service.
type paymentRequest struct {
	OrderID      uuid.UUID       `json:"orderId"      validate:"required"`
	Amount       decimal.Decimal `json:"amount"       validate:"gt=0,cents"`
	Currency     string          `json:"currency"`
	PayerName    string          `json:"payerName"    validate:"required,max=100"`
	CardNumber   string          `json:"cardNumber"   validate:"required,numeric,min=13,max=19"`
	CardExpiry   string          `json:"cardExpiry"   validate:"required,card_expiry"`
	SecurityCode string          `json:"securityCode" validate:"required,numeric,len=3"`
	Method       string          `json:"method"       validate:"required"`
}

func (r paymentRequest) toDetails() (payment.Details, error) {
	cur, err := currency.ParseCurrency(r.Currency)
	if err != nil {
		return payment.Details{}, errs.Wrap(errs.ErrValidation, err, "invalid currency %q", r.Currency)
	}

	method, err := payment.ParseMethod(r.Method)
	if err != nil {
		return payment.Details{}, errs.Wrap(errs.ErrValidation, err, "invalid method")
	}

	return payment.Details{
		OrderID:   r.OrderID,
		Amount:    r.Amount,
		Currency:  cur,
		PayerName: r.PayerName,
		Card: payment.CardDetails{
			Number:       r.CardNumber,
			Expiry:       r.CardExpiry,
			SecurityCode: r.SecurityCode,
		},
		Method: method,
	}, nil
}

type listPaymentsRequest struct {
	Page int `schema:"page" validate:"gte=0"`
	Size int `schema:"size" validate:"gte=0,lte=100"`
}

type paymentResponse struct {
	ID               uuid.UUID `json:"id"`
	OrderID          uuid.UUID `json:"orderId"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	PayerName        string    `json:"payerName"`
	MaskedCardNumber string    `json:"maskedCardNumber"`
	CardExpiry       string    `json:"cardExpiry"`
	Method           string    `json:"method"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func newPaymentResponse(p payment.Payment) paymentResponse {
	return paymentResponse{
		ID:               p.ID,
		OrderID:          p.OrderID,
		Amount:           p.Amount.StringFixed(2),
		Currency:         p.Currency.String(),
		PayerName:        p.PayerName,
		MaskedCardNumber: p.MaskedCardNumber,
		CardExpiry:       p.CardExpiry,
		Method:           p.Method.String(),
		Status:           p.Status.String(),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

type pageResponse struct {
	Items      []paymentResponse `json:"items"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalItems int               `json:"totalItems"`
	TotalPages int               `json:"totalPages"`
}

func newPageResponse(p payment.Page) pageResponse {
	items := make([]paymentResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = newPaymentResponse(item)
	}

	return pageResponse{
		Items:      items,
		Page:       p.Page,
		Size:       p.Size,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages(),
	}
}
