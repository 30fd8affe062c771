package memory

import (
	"context"
	"sync"

	"github.com/corray333/backend-labs/orderpay/internal/service/models/auditlog"
	"github.com/google/uuid"
)

// AuditRepository keeps received payment notifications in process memory.
type AuditRepository struct {
	mu      sync.RWMutex
	entries []auditlog.PaymentNotificationLog
}

// NewAuditRepository creates an empty in-memory audit log.
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) SavePaymentNotification(_ context.Context, entry auditlog.PaymentNotificationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, entry)

	return nil
}

func (r *AuditRepository) ListByOrderID(_ context.Context, orderID uuid.UUID) ([]auditlog.PaymentNotificationLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]auditlog.PaymentNotificationLog, 0)
	for _, e := range r.entries {
		if e.OrderID == orderID {
			result = append(result, e)
		}
	}

	return result, nil
}
