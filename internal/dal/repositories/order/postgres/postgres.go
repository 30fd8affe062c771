package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/orderpay/internal/dal/postgres"
	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/order"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/orderitem"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	ordersTable     = "orders"
	orderItemsTable = "order_items"

	uniqueViolationCode = "23505"
)

var (
	orderColumns = []string{"id", "number", "status", "notes", "created_at", "updated_at"}
	itemColumns  = []string{
		"id", "order_id", "position", "name", "description", "unit_price", "quantity", "note",
	}
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OrderRepository implements the order repository for PostgreSQL.
type OrderRepository struct {
	client *postgres.Client
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(client *postgres.Client) *OrderRepository {
	return &OrderRepository{
		client: client,
	}
}

// Create inserts the order and its items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, o order.Order) error {
	dal := OrderDalFromModel(o)

	query, args, err := sq.Insert(ordersTable).
		Columns(orderColumns...).
		Values(dal.ID, dal.Number, dal.Status, dal.Notes, dal.CreatedAt, dal.UpdatedAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert order query: %w", err)
	}

	return pgx.BeginFunc(ctx, r.client.Pool(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				return errs.Conflict("order %s already exists", o.ID)
			}

			return fmt.Errorf("failed to insert order: %w", err)
		}

		return insertItems(ctx, tx, o.OrderItems)
	})
}

// GetByID returns the order with its items.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (order.Order, error) {
	return getByID(ctx, r.client.Pool(), id)
}

// Query retrieves orders based on filter criteria.
func (r *OrderRepository) Query(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select(orderColumns...).
		From(ordersTable).
		OrderBy("created_at ASC", "id ASC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Expr("id = ANY(?)", toPgUUIDs(filter.Ids)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = s.String()
		}
		builder = builder.Where(sq.Eq{"status": statuses})
	}
	if !filter.CreatedAfter.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": filter.CreatedAfter})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select orders query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]order.Order, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	items, err := loadItems(ctx, r.client.Pool(), ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if its, ok := items[orders[i].ID]; ok {
			orders[i].OrderItems = its
		}
	}

	return orders, nil
}

// ReplaceItems swaps the items and notes of an order still in the expected status.
func (r *OrderRepository) ReplaceItems(
	ctx context.Context,
	id uuid.UUID,
	expected order.Status,
	items []orderitem.OrderItem,
	notes string,
	updatedAt time.Time,
) (order.Order, error) {
	var result order.Order

	err := pgx.BeginFunc(ctx, r.client.Pool(), func(tx pgx.Tx) error {
		query, args, err := sq.Update(ordersTable).
			Set("notes", notes).
			Set("updated_at", updatedAt).
			Where(sq.Eq{"id": toPgUUID(id)}).
			Where(sq.Eq{"status": expected.String()}).
			Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update order query: %w", err)
		}

		o, err := scanOrder(tx.QueryRow(ctx, query, args...))
		if errors.Is(err, pgx.ErrNoRows) {
			return missingOrChanged(ctx, tx, id, expected)
		}
		if err != nil {
			return err
		}

		query, args, err = sq.Delete(orderItemsTable).
			Where(sq.Eq{"order_id": toPgUUID(id)}).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete order items query: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}

		if err := insertItems(ctx, tx, items); err != nil {
			return err
		}

		o.OrderItems = orderitem.Clone(items)
		result = o

		return nil
	})
	if err != nil {
		return order.Order{}, err
	}

	return result, nil
}

// UpdateStatus moves the order from expected to next.
func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	expected order.Status,
	next order.Status,
	updatedAt time.Time,
) (order.Order, error) {
	query, args, err := sq.Update(ordersTable).
		Set("status", next.String()).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": toPgUUID(id)}).
		Where(sq.Eq{"status": expected.String()}).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build update order status query: %w", err)
	}

	o, err := scanOrder(r.client.Pool().QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, missingOrChanged(ctx, r.client.Pool(), id, expected)
	}
	if err != nil {
		return order.Order{}, err
	}

	items, err := loadItems(ctx, r.client.Pool(), []uuid.UUID{id})
	if err != nil {
		return order.Order{}, err
	}
	if its, ok := items[id]; ok {
		o.OrderItems = its
	}

	return o, nil
}

func getByID(ctx context.Context, q querier, id uuid.UUID) (order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From(ordersTable).
		Where(sq.Eq{"id": toPgUUID(id)}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build select order query: %w", err)
	}

	o, err := scanOrder(q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, errs.NotFound("order %s not found", id)
	}
	if err != nil {
		return order.Order{}, err
	}

	items, err := loadItems(ctx, q, []uuid.UUID{id})
	if err != nil {
		return order.Order{}, err
	}
	if its, ok := items[id]; ok {
		o.OrderItems = its
	}

	return o, nil
}

// missingOrChanged explains why a conditional update matched no row.
func missingOrChanged(ctx context.Context, q querier, id uuid.UUID, expected order.Status) error {
	current, err := getByID(ctx, q, id)
	if err != nil {
		return err
	}

	return errs.Conflict(
		"order %s was modified concurrently: expected status %s, found %s",
		id, expected, current.Status,
	)
}

func insertItems(ctx context.Context, q querier, items []orderitem.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	builder := sq.Insert(orderItemsTable).
		Columns(itemColumns...).
		PlaceholderFormat(sq.Dollar)

	for i, item := range items {
		dal := OrderItemDalFromModel(item, i)
		builder = builder.Values(
			dal.ID,
			dal.OrderID,
			dal.Position,
			dal.Name,
			dal.Description,
			dal.UnitPrice,
			dal.Quantity,
			dal.Note,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert order items query: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}

	return nil
}

func loadItems(
	ctx context.Context,
	q querier,
	orderIDs []uuid.UUID,
) (map[uuid.UUID][]orderitem.OrderItem, error) {
	query, args, err := sq.Select(itemColumns...).
		From(orderItemsTable).
		Where(sq.Expr("order_id = ANY(?)", toPgUUIDs(orderIDs))).
		OrderBy("order_id", "position").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select order items query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]orderitem.OrderItem, len(orderIDs))
	for rows.Next() {
		var dal OrderItemDal
		err := rows.Scan(
			&dal.ID,
			&dal.OrderID,
			&dal.Position,
			&dal.Name,
			&dal.Description,
			&dal.UnitPrice,
			&dal.Quantity,
			&dal.Note,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		item, err := dal.ToModel()
		if err != nil {
			return nil, err
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func scanOrder(row pgx.Row) (order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.ID,
		&dal.Number,
		&dal.Status,
		&dal.Notes,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, err
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to scan order: %w", err)
	}

	o, err := dal.ToModel()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	return o, nil
}

func toPgUUIDs(ids []uuid.UUID) []pgtype.UUID {
	out := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		out[i] = toPgUUID(id)
	}

	return out
}
