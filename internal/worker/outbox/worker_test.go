package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/dal/repositories/outbox/memory"
	outboxmodel "github.com/corray333/backend-labs/orderpay/internal/service/models/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	err       error
	published [][]byte
}

func (s *stubPublisher) Publish(_ context.Context, _, _, _ string, body []byte) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, body)

	return nil
}

func seed(t *testing.T, repo *memory.OutboxRepository) {
	t.Helper()

	now := time.Now()
	require.NoError(t, repo.Insert(context.Background(), outboxmodel.OutboxMessage{
		QueueName:   "payment.confirmed",
		RoutingKey:  "payment.confirmed",
		Payload:     []byte(`{"payment_id":"1"}`),
		ContentType: "application/json",
		MaxRetries:  3,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now.Add(-time.Second),
	}))
}

func TestWorker_PublishesAndDeletes(t *testing.T) {
	repo := memory.NewOutboxRepository()
	seed(t, repo)
	pub := &stubPublisher{}

	w := NewWorker(repo, pub)
	w.processMessages(context.Background())

	assert.Len(t, pub.published, 1)
	assert.Zero(t, repo.Len())
}

func TestWorker_SchedulesRetryOnFailure(t *testing.T) {
	repo := memory.NewOutboxRepository()
	seed(t, repo)
	pub := &stubPublisher{err: errors.New("broker down")}

	w := NewWorker(repo, pub)
	w.processMessages(context.Background())

	assert.Equal(t, 1, repo.Len())
	pending, err := repo.GetPendingMessages(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "message must wait for its backoff")
}

func TestWorker_Backoff(t *testing.T) {
	w := &Worker{retryInterval: 30 * time.Second}

	assert.Equal(t, 60*time.Second, w.backoff(1))
	assert.Equal(t, 240*time.Second, w.backoff(3))
}

func TestWorker_StartStops(t *testing.T) {
	w := NewWorker(memory.NewOutboxRepository(), &stubPublisher{})

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()
	w.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
