package orderitem

import (
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem represents a line item owned by exactly one order.
// OrderID is a back-reference used for lookups and cascades only.
type OrderItem struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"orderId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Note        string          `json:"note,omitempty"`
}

// Subtotal returns unit price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Signature is the composite key used to compare submissions: name, quantity and
// unit price rounded to the cent. Identity, description and note are left out.
func (i OrderItem) Signature() string {
	return i.Name + "|" + strconv.Itoa(i.Quantity) + "|" + i.UnitPrice.StringFixed(2)
}

// Total sums the subtotals of items.
func Total(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	return total
}

// Signatures returns the sorted signatures of items.
func Signatures(items []OrderItem) []string {
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Signature()
	}
	sort.Strings(keys)

	return keys
}

// Clone returns a deep copy of items.
func Clone(items []OrderItem) []OrderItem {
	if items == nil {
		return nil
	}
	out := make([]OrderItem, len(items))
	copy(out, items)

	return out
}
