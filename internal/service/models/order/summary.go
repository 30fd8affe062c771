package order

import "github.com/shopspring/decimal"

// Financials is the price breakdown shown to the customer.
type Financials struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// Financials computes the breakdown of o with the given delivery fee.
// No discounts are granted.
func (o Order) Financials(deliveryFee decimal.Decimal) Financials {
	subtotal := o.Total()

	return Financials{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Discount:    decimal.Zero,
		Total:       subtotal.Add(deliveryFee),
	}
}
