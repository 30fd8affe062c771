package auditlog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentNotificationLog records a PaymentConfirmed notification received by
// the order service.
type PaymentNotificationLog struct {
	ID               int64           `json:"id"`
	PaymentID        uuid.UUID       `json:"payment_id"`
	OrderID          uuid.UUID       `json:"order_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	MaskedCardNumber string          `json:"masked_card_number"`
	Payload          []byte          `json:"-"`
	ReceivedAt       time.Time       `json:"received_at"`
}
