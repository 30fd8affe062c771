package payment

import (
	"strings"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/models/currency"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is a card payment for one order. It never carries the full card
// number nor the security code.
type Payment struct {
	ID               uuid.UUID         `json:"id"`
	OrderID          uuid.UUID         `json:"orderId"`
	Amount           decimal.Decimal   `json:"amount"`
	Currency         currency.Currency `json:"currency"`
	PayerName        string            `json:"payerName"`
	MaskedCardNumber string            `json:"maskedCardNumber"`
	CardExpiry       string            `json:"cardExpiry"`
	Method           Method            `json:"method"`
	Status           Status            `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// CardDetails is the card data submitted by a payer. It exists only for the
// lifetime of a request.
type CardDetails struct {
	Number       string
	Expiry       string
	SecurityCode string
}

// Details are the overwritable data fields of a payment.
type Details struct {
	OrderID   uuid.UUID
	Amount    decimal.Decimal
	Currency  currency.Currency
	PayerName string
	Card      CardDetails
	Method    Method
}

// New builds an AWAITING_CONFIRMATION payment from details, masking the card.
func New(d Details, now time.Time) Payment {
	p := Payment{
		ID:        uuid.New(),
		Status:    StatusAwaitingConfirmation,
		CreatedAt: now,
	}
	p.Apply(d, now)

	return p
}

// Apply overwrites the data fields of p with d. Status is left as is.
func (p *Payment) Apply(d Details, now time.Time) {
	p.OrderID = d.OrderID
	p.Amount = d.Amount
	p.Currency = d.Currency
	p.PayerName = d.PayerName
	p.MaskedCardNumber = MaskCardNumber(d.Card.Number)
	p.CardExpiry = d.Card.Expiry
	p.Method = d.Method
	p.UpdatedAt = now
}

// MaskCardNumber keeps the last four digits of number and replaces every
// other character with '*'. Numbers shorter than four characters become "****".
func MaskCardNumber(number string) string {
	if len(number) < 4 {
		return "****"
	}

	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}
