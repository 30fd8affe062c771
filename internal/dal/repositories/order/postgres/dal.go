package postgresrepo

import (
	"fmt"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/models/order"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/orderitem"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// OrderDal represents order data access layer model
type OrderDal struct {
	ID        pgtype.UUID `db:"id"`
	Number    string      `db:"number"`
	Status    string      `db:"status"`
	Notes     string      `db:"notes"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model without items
func (o *OrderDal) ToModel() (order.Order, error) {
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return order.Order{}, err
	}

	return order.Order{
		ID:         uuid.UUID(o.ID.Bytes),
		Number:     o.Number,
		Status:     status,
		Notes:      o.Notes,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		OrderItems: []orderitem.OrderItem{},
	}, nil
}

// OrderDalFromModel converts service layer Order model to OrderDal
func OrderDalFromModel(o order.Order) OrderDal {
	return OrderDal{
		ID:        toPgUUID(o.ID),
		Number:    o.Number,
		Status:    o.Status.String(),
		Notes:     o.Notes,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// OrderItemDal represents order item data access layer model
type OrderItemDal struct {
	ID          pgtype.UUID    `db:"id"`
	OrderID     pgtype.UUID    `db:"order_id"`
	Position    int            `db:"position"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	UnitPrice   pgtype.Numeric `db:"unit_price"`
	Quantity    int            `db:"quantity"`
	Note        string         `db:"note"`
}

// ToModel converts OrderItemDal to service layer OrderItem model
func (i *OrderItemDal) ToModel() (orderitem.OrderItem, error) {
	price, err := fromPgNumeric(i.UnitPrice)
	if err != nil {
		return orderitem.OrderItem{}, fmt.Errorf("invalid unit price of item %s: %w", uuid.UUID(i.ID.Bytes), err)
	}

	return orderitem.OrderItem{
		ID:          uuid.UUID(i.ID.Bytes),
		OrderID:     uuid.UUID(i.OrderID.Bytes),
		Name:        i.Name,
		Description: i.Description,
		UnitPrice:   price,
		Quantity:    i.Quantity,
		Note:        i.Note,
	}, nil
}

// OrderItemDalFromModel converts an item to its row at the given position
func OrderItemDalFromModel(item orderitem.OrderItem, position int) OrderItemDal {
	return OrderItemDal{
		ID:          toPgUUID(item.ID),
		OrderID:     toPgUUID(item.OrderID),
		Position:    position,
		Name:        item.Name,
		Description: item.Description,
		UnitPrice:   toPgNumeric(item.UnitPrice),
		Quantity:    item.Quantity,
		Note:        item.Note,
	}
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func toPgNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromPgNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Zero, fmt.Errorf("not a finite number")
	}

	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}
