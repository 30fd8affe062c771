package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/orderpay/internal/dal/postgres"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/auditlog"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// AuditRepository stores received payment notifications in PostgreSQL.
type AuditRepository struct {
	pgClient *postgres.Client
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(pgClient *postgres.Client) *AuditRepository {
	return &AuditRepository{
		pgClient: pgClient,
	}
}

// SavePaymentNotification appends a notification to the audit log.
func (r *AuditRepository) SavePaymentNotification(
	ctx context.Context,
	entry auditlog.PaymentNotificationLog,
) error {
	query, args, err := sq.Insert("payment_notifications").
		Columns(
			"payment_id",
			"order_id",
			"amount",
			"currency",
			"masked_card_number",
			"payload",
			"received_at",
		).
		Values(
			pgtype.UUID{Bytes: entry.PaymentID, Valid: true},
			pgtype.UUID{Bytes: entry.OrderID, Valid: true},
			pgtype.Numeric{Int: entry.Amount.Coefficient(), Exp: entry.Amount.Exponent(), Valid: true},
			entry.Currency,
			entry.MaskedCardNumber,
			string(entry.Payload),
			entry.ReceivedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build audit insert query: %w", err)
	}

	if _, err := r.pgClient.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert payment notification: %w", err)
	}

	return nil
}

// ListByOrderID returns the notifications received for an order, oldest first.
func (r *AuditRepository) ListByOrderID(
	ctx context.Context,
	orderID uuid.UUID,
) ([]auditlog.PaymentNotificationLog, error) {
	query, args, err := sq.Select(
		"id",
		"payment_id",
		"order_id",
		"amount",
		"currency",
		"masked_card_number",
		"payload",
		"received_at",
	).
		From("payment_notifications").
		Where(sq.Expr("order_id = ?", pgtype.UUID{Bytes: orderID, Valid: true})).
		OrderBy("received_at ASC", "id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build audit select query: %w", err)
	}

	rows, err := r.pgClient.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment notifications: %w", err)
	}
	defer rows.Close()

	entries := make([]auditlog.PaymentNotificationLog, 0)
	for rows.Next() {
		var (
			id         int64
			paymentID  pgtype.UUID
			ordID      pgtype.UUID
			amount     pgtype.Numeric
			cur        string
			masked     string
			payload    []byte
			receivedAt time.Time
		)
		if err := rows.Scan(&id, &paymentID, &ordID, &amount, &cur, &masked, &payload, &receivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment notification: %w", err)
		}
		entries = append(entries, auditlog.PaymentNotificationLog{
			ID:               id,
			PaymentID:        uuid.UUID(paymentID.Bytes),
			OrderID:          uuid.UUID(ordID.Bytes),
			Amount:           decimal.NewFromBigInt(amount.Int, amount.Exp),
			Currency:         cur,
			MaskedCardNumber: masked,
			Payload:          payload,
			ReceivedAt:       receivedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}
