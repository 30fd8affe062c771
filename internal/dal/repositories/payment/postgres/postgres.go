package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/orderpay/internal/dal/postgres"
	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/currency"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/payment"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	paymentsTable = "payments"

	uniqueViolationCode = pq.ErrorCode("23505")
)

var paymentColumns = []string{
	"id",
	"order_id",
	"amount",
	"currency",
	"payer_name",
	"masked_card_number",
	"card_expiry",
	"method",
	"status",
	"created_at",
	"updated_at",
}

// PaymentDal represents payment data access layer model
type PaymentDal struct {
	ID               uuid.UUID       `db:"id"`
	OrderID          uuid.UUID       `db:"order_id"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	PayerName        string          `db:"payer_name"`
	MaskedCardNumber string          `db:"masked_card_number"`
	CardExpiry       string          `db:"card_expiry"`
	Method           string          `db:"method"`
	Status           string          `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// ToModel converts PaymentDal to service layer Payment model
func (p *PaymentDal) ToModel() (payment.Payment, error) {
	cur, err := currency.ParseCurrency(p.Currency)
	if err != nil {
		return payment.Payment{}, err
	}
	method, err := payment.ParseMethod(p.Method)
	if err != nil {
		return payment.Payment{}, err
	}
	status, err := payment.ParseStatus(p.Status)
	if err != nil {
		return payment.Payment{}, err
	}

	return payment.Payment{
		ID:               p.ID,
		OrderID:          p.OrderID,
		Amount:           p.Amount,
		Currency:         cur,
		PayerName:        p.PayerName,
		MaskedCardNumber: p.MaskedCardNumber,
		CardExpiry:       p.CardExpiry,
		Method:           method,
		Status:           status,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}, nil
}

// PaymentDalFromModel converts service layer Payment model to PaymentDal
func PaymentDalFromModel(p payment.Payment) PaymentDal {
	return PaymentDal{
		ID:               p.ID,
		OrderID:          p.OrderID,
		Amount:           p.Amount,
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

// PaymentRepository implements the payment repository for PostgreSQL.
type PaymentRepository struct {
	client *postgres.DBClient
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(client *postgres.DBClient) *PaymentRepository {
	return &PaymentRepository{
		client: client,
	}
}

// Create inserts a payment. The unique order_id constraint reports duplicates.
func (r *PaymentRepository) Create(ctx context.Context, p payment.Payment) error {
	dal := PaymentDalFromModel(p)

	query, args, err := sq.Insert(paymentsTable).
		Columns(paymentColumns...).
		Values(
			dal.ID,
			dal.OrderID,
			dal.Amount,
			dal.Currency,
			dal.PayerName,
			dal.MaskedCardNumber,
			dal.CardExpiry,
			dal.Method,
			dal.Status,
			dal.CreatedAt,
			dal.UpdatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert payment query: %w", err)
	}

	if _, err := r.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return errs.Conflict("a payment already exists for order %s", p.OrderID)
		}

		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// GetByID returns the payment with the given id.
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (payment.Payment, error) {
	query, args, err := sq.Select(paymentColumns...).
		From(paymentsTable).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return payment.Payment{}, fmt.Errorf("failed to build select payment query: %w", err)
	}

	var dal PaymentDal
	if err := r.client.DB().GetContext(ctx, &dal, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payment.Payment{}, errs.NotFound("payment %s not found", id)
		}

		return payment.Payment{}, fmt.Errorf("failed to get payment: %w", err)
	}

	return dal.ToModel()
}

// ExistsByOrderID reports whether a payment references the order.
func (r *PaymentRepository) ExistsByOrderID(ctx context.Context, orderID uuid.UUID) (bool, error) {
	query, args, err := sq.Select("1").
		Prefix("SELECT EXISTS (").
		From(paymentsTable).
		Where(sq.Eq{"order_id": orderID}).
		Suffix(")").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists payment query: %w", err)
	}

	var exists bool
	if err := r.client.DB().GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("failed to check payment existence: %w", err)
	}

	return exists, nil
}

// List returns a page of payments ordered by creation time and the total count.
func (r *PaymentRepository) List(ctx context.Context, limit, offset int) ([]payment.Payment, int, error) {
	countQuery, countArgs, err := sq.Select("COUNT(*)").
		From(paymentsTable).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count payments query: %w", err)
	}

	var total int
	if err := r.client.DB().GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query, args, err := sq.Select(paymentColumns...).
		From(paymentsTable).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list payments query: %w", err)
	}

	var dals []PaymentDal
	if err := r.client.DB().SelectContext(ctx, &dals, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]payment.Payment, 0, len(dals))
	for i := range dals {
		p, err := dals[i].ToModel()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to convert payment dal to model: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, total, nil
}

// Update overwrites the data fields of a payment. Status and created_at are kept.
func (r *PaymentRepository) Update(ctx context.Context, p payment.Payment) error {
	dal := PaymentDalFromModel(p)

	query, args, err := sq.Update(paymentsTable).
		Set("order_id", dal.OrderID).
		Set("amount", dal.Amount).
		Set("currency", dal.Currency).
		Set("payer_name", dal.PayerName).
		Set("masked_card_number", dal.MaskedCardNumber).
		Set("card_expiry", dal.CardExpiry).
		Set("method", dal.Method).
		Set("updated_at", dal.UpdatedAt).
		Where(sq.Eq{"id": dal.ID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update payment query: %w", err)
	}

	res, err := r.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.Conflict("a payment already exists for order %s", p.OrderID)
		}

		return fmt.Errorf("failed to update payment: %w", err)
	}

	return expectOneRow(res, p.ID)
}

// Delete removes the payment with the given id.
func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := sq.Delete(paymentsTable).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete payment query: %w", err)
	}

	res, err := r.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	return expectOneRow(res, id)
}

// CompareAndSetStatus moves the payment from expected to next in one statement.
func (r *PaymentRepository) CompareAndSetStatus(
	ctx context.Context,
	id uuid.UUID,
	expected payment.Status,
	next payment.Status,
	updatedAt time.Time,
) (payment.Payment, error) {
	query, args, err := sq.Update(paymentsTable).
		Set("status", next.String()).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"status": expected.String()}).
		Suffix("RETURNING *").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return payment.Payment{}, fmt.Errorf("failed to build update payment status query: %w", err)
	}

	var dal PaymentDal
	err = r.client.DB().GetContext(ctx, &dal, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return payment.Payment{}, getErr
		}

		return payment.Payment{}, errs.Conflict(
			"payment %s was modified concurrently: expected status %s, found %s",
			id, expected, current.Status,
		)
	}
	if err != nil {
		return payment.Payment{}, fmt.Errorf("failed to update payment status: %w", err)
	}

	return dal.ToModel()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}

func expectOneRow(res sql.Result, id uuid.UUID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return errs.NotFound("payment %s not found", id)
	}

	return nil
}
