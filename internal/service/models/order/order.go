package order

import (
	"strings"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/models/orderitem"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the aggregate root owning its line items.
type Order struct {
	ID         uuid.UUID             `json:"id"`
	Number     string                `json:"number"`
	Status     Status                `json:"status"`
	Notes      string                `json:"notes,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	OrderItems []orderitem.OrderItem `json:"orderItems"`
}

// New builds a PLACED order with fresh identities for the order and its items.
func New(items []orderitem.OrderItem, notes string, now time.Time) Order {
	id := uuid.New()
	o := Order{
		ID:        id,
		Number:    NumberFromID(id),
		Status:    StatusPlaced,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.OrderItems = AdoptItems(id, items)

	return o
}

// AdoptItems copies items, assigns each a new identity and points them at orderID.
func AdoptItems(orderID uuid.UUID, items []orderitem.OrderItem) []orderitem.OrderItem {
	adopted := make([]orderitem.OrderItem, len(items))
	for i, item := range items {
		item.ID = uuid.New()
		item.OrderID = orderID
		adopted[i] = item
	}

	return adopted
}

// NumberFromID derives the friendly display number: "#" and the last five
// hex characters of the id, uppercased.
func NumberFromID(id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")

	return "#" + strings.ToUpper(hex[len(hex)-5:])
}

// Total is the sum of the item subtotals.
func (o Order) Total() decimal.Decimal {
	return orderitem.Total(o.OrderItems)
}

// ItemCount is the number of units across all items.
func (o Order) ItemCount() int {
	count := 0
	for _, item := range o.OrderItems {
		count += item.Quantity
	}

	return count
}

// Clone returns a copy that shares no item slice with o.
func (o Order) Clone() Order {
	o.OrderItems = orderitem.Clone(o.OrderItems)

	return o
}
