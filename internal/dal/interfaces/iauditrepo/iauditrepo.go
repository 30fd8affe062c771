package iauditrepo

import (
	"context"

	"github.com/corray333/backend-labs/orderpay/internal/service/models/auditlog"
	"github.com/google/uuid"
)

// IAuditRepository keeps the log of payment notifications received by the order service.
type IAuditRepository interface {
	SavePaymentNotification(ctx context.Context, entry auditlog.PaymentNotificationLog) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]auditlog.PaymentNotificationLog, error)
}
