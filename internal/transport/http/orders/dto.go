package orders

import (
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/models/auditlog"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/order"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/orderitem"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// itemRequest represents an item in a create or update order request.
type itemRequest struct {
	Name        string          `json:"name"        validate:"required,max=100"`
	Description string          `json:"description" validate:"max=300"`
	UnitPrice   decimal.Decimal `json:"unitPrice"   validate:"gte=0.01,lte=99999.99,cents"`
	Quantity    int             `json:"quantity"    validate:"min=1,max=50"`
	Note        string          `json:"note"        validate:"max=200"`
}

func (r itemRequest) toModel() orderitem.OrderItem {
	return orderitem.OrderItem{
		Name:        r.Name,
		Description: r.Description,
		UnitPrice:   r.UnitPrice,
		Quantity:    r.Quantity,
		Note:        r.Note,
	}
}

// orderRequest is the body of create and update order requests.
type orderRequest struct {
	Items []itemRequest `json:"items" validate:"required,min=1,dive"`
	Notes string        `json:"notes" validate:"max=300"`
}

func (r orderRequest) toItems() []orderitem.OrderItem {
	items := make([]orderitem.OrderItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = item.toModel()
	}

	return items
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type listOrdersRequest struct {
	Ids          []uuid.UUID `schema:"id"`
	Statuses     []string    `schema:"status"`
	CreatedAfter time.Time   `schema:"createdAfter"`
	Limit        int         `schema:"limit"        validate:"gte=0,lte=1000"`
	Offset       int         `schema:"offset"       validate:"gte=0"`
}

func (q listOrdersRequest) toModel() (order.QueryOrdersModel, error) {
	statuses := make([]order.Status, 0, len(q.Statuses))
	for _, s := range q.Statuses {
		status, err := order.ParseStatus(s)
		if err != nil {
			return order.QueryOrdersModel{}, err
		}
		statuses = append(statuses, status)
	}

	return order.QueryOrdersModel{
		Ids:          q.Ids,
		Statuses:     statuses,
		CreatedAfter: q.CreatedAfter,
		Limit:        q.Limit,
		Offset:       q.Offset,
	}, nil
}

type statusResponse struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func newStatusResponse(s order.Status) statusResponse {
	return statusResponse{
		Code:        s.String(),
		Title:       s.Title(),
		Description: s.Description(),
	}
}

type itemResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UnitPrice   string    `json:"unitPrice"`
	Quantity    int       `json:"quantity"`
	Subtotal    string    `json:"subtotal"`
	Note        string    `json:"note,omitempty"`
}

type financialsResponse struct {
	Subtotal    string `json:"subtotal"`
	DeliveryFee string `json:"deliveryFee"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
}

type orderResponse struct {
	ID         uuid.UUID          `json:"id"`
	Number     string             `json:"number"`
	Status     statusResponse     `json:"status"`
	Notes      string             `json:"notes,omitempty"`
	Items      []itemResponse     `json:"items"`
	ItemCount  int                `json:"itemCount"`
	Financials financialsResponse `json:"financials"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

func newOrderResponse(o order.Order, deliveryFee decimal.Decimal) orderResponse {
	items := make([]itemResponse, len(o.OrderItems))
	for i, item := range o.OrderItems {
		items[i] = itemResponse{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal().StringFixed(2),
			Note:        item.Note,
		}
	}

	f := o.Financials(deliveryFee)

	return orderResponse{
		ID:        o.ID,
		Number:    o.Number,
		Status:    newStatusResponse(o.Status),
		Notes:     o.Notes,
		Items:     items,
		ItemCount: o.ItemCount(),
		Financials: financialsResponse{
			Subtotal:    f.Subtotal.StringFixed(2),
			DeliveryFee: f.DeliveryFee.StringFixed(2),
			Discount:    f.Discount.StringFixed(2),
			Total:       f.Total.StringFixed(2),
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

type orderSummaryResponse struct {
	ID        uuid.UUID      `json:"id"`
	Number    string         `json:"number"`
	Status    statusResponse `json:"status"`
	Subtotal  string         `json:"subtotal"`
	Total     string         `json:"total"`
	ItemCount int            `json:"itemCount"`
	CreatedAt time.Time      `json:"createdAt"`
}

func newOrderSummaryResponse(o order.Order, deliveryFee decimal.Decimal) orderSummaryResponse {
	f := o.Financials(deliveryFee)

	return orderSummaryResponse{
		ID:        o.ID,
		Number:    o.Number,
		Status:    newStatusResponse(o.Status),
		Subtotal:  f.Subtotal.StringFixed(2),
		Total:     f.Total.StringFixed(2),
		ItemCount: o.ItemCount(),
		CreatedAt: o.CreatedAt,
	}
}

type notificationResponse struct {
	ID               int64     `json:"id"`
	PaymentID        uuid.UUID `json:"paymentId"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	MaskedCardNumber string    `json:"maskedCardNumber"`
	ReceivedAt       time.Time `json:"receivedAt"`
}

func newNotificationResponse(l auditlog.PaymentNotificationLog) notificationResponse {
	return notificationResponse{
		ID:               l.ID,
		PaymentID:        l.PaymentID,
		Amount:           l.Amount.StringFixed(2),
		Currency:         l.Currency,
		MaskedCardNumber: l.MaskedCardNumber,
		ReceivedAt:       l.ReceivedAt,
	}
}
