package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/models/outbox"
)

// OutboxRepository keeps outbox messages in process memory.
type OutboxRepository struct {
	mu       sync.Mutex
	nextID   int64
	messages map[int64]outbox.OutboxMessage
	now      func() time.Time
}

// NewOutboxRepository creates an empty in-memory outbox.
func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{
		messages: make(map[int64]outbox.OutboxMessage),
		now:      time.Now,
	}
}

func (r *OutboxRepository) Insert(_ context.Context, msg outbox.OutboxMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	msg.ID = r.nextID
	r.messages[msg.ID] = msg

	return nil
}

func (r *OutboxRepository) GetPendingMessages(_ context.Context, limit int) ([]outbox.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	pending := make([]outbox.OutboxMessage, 0)
	for _, msg := range r.messages {
		if msg.NextRetryAt.After(now) || msg.RetryCount >= msg.MaxRetries {
			continue
		}
		pending = append(pending, msg)
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].NextRetryAt.Before(pending[j].NextRetryAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	return pending, nil
}

func (r *OutboxRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.messages, id)

	return nil
}

func (r *OutboxRepository) UpdateRetry(
	_ context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok {
		return nil
	}
	msg.RetryCount = retryCount
	msg.LastError = lastError
	msg.NextRetryAt = nextRetryAt
	msg.UpdatedAt = r.now()
	r.messages[id] = msg

	return nil
}

// Len returns the number of stored messages.
func (r *OutboxRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.messages)
}
