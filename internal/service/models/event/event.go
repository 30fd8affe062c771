package event

import (
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/models/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentConfirmed is published once a payment has been confirmed and the
// order accepted it. It carries the masked card only.
type PaymentConfirmed struct {
	PaymentID        uuid.UUID       `json:"payment_id"`
	OrderID          uuid.UUID       `json:"order_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	PayerName        string          `json:"payer_name"`
	MaskedCardNumber string          `json:"masked_card_number"`
	CardExpiry       string          `json:"card_expiry"`
	Method           string          `json:"method"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	ConfirmedAt      time.Time       `json:"confirmed_at"`
}

// FromPayment builds the event for p.
func FromPayment(p payment.Payment, confirmedAt time.Time) PaymentConfirmed {
	return PaymentConfirmed{
		PaymentID:        p.ID,
		OrderID:          p.OrderID,
		Amount:           p.Amount,
		Currency:         p.Currency.String(),
		PayerName:        p.PayerName,
		MaskedCardNumber: p.MaskedCardNumber,
		CardExpiry:       p.CardExpiry,
		Method:           p.Method.String(),
		Status:           p.Status.String(),
		CreatedAt:        p.CreatedAt,
		ConfirmedAt:      confirmedAt,
	}
}
