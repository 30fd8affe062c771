package relaysvc

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/event"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/outbox"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/payment"
	"go.opentelemetry.io/otel"
)

const (
	DefaultQueue      = "payment.confirmed"
	DefaultMaxRetries = 10

	contentTypeJSON = "application/json"
)

type publisher interface {
	Publish(ctx context.Context, exchange, routingKey, contentType string, body []byte) error
}

// PaymentRelay publishes PaymentConfirmed notifications. Messages that cannot
// be published right away are parked in the outbox for the outbox worker.
type PaymentRelay struct {
	publisher     publisher
	outboxRepo    ioutboxrepo.IOutboxRepository
	queue         string
	maxRetries    int
	retryInterval time.Duration
	now           func() time.Time
}

// option is a function that configures the PaymentRelay.
type option func(*PaymentRelay)

// MustNewPaymentRelay creates a new PaymentRelay.
func MustNewPaymentRelay(opts ...option) *PaymentRelay {
	r := &PaymentRelay{
		queue:         DefaultQueue,
		maxRetries:    DefaultMaxRetries,
		retryInterval: 30 * time.Second,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithPublisher sets the broker the relay publishes to.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPublisher(p publisher) option {
	return func(r *PaymentRelay) {
		r.publisher = p
	}
}

// WithOutboxRepository sets where unpublished messages are parked.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutboxrepo.IOutboxRepository) option {
	return func(r *PaymentRelay) {
		r.outboxRepo = repo
	}
}

// WithQueue sets the destination queue.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithQueue(queue string) option {
	return func(r *PaymentRelay) {
		if queue != "" {
			r.queue = queue
		}
	}
}

// WithRetryPolicy sets the outbox retry limits.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRetryPolicy(maxRetries int, retryInterval time.Duration) option {
	return func(r *PaymentRelay) {
		if maxRetries > 0 {
			r.maxRetries = maxRetries
		}
		if retryInterval > 0 {
			r.retryInterval = retryInterval
		}
	}
}

// WithClock replaces time.Now.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(r *PaymentRelay) {
		r.now = now
	}
}

// Queue returns the destination queue name.
func (r *PaymentRelay) Queue() string {
	return r.queue
}

// PaymentConfirmed publishes the event for p. Failures are logged and the
// message goes to the outbox; the caller is never failed.
func (r *PaymentRelay) PaymentConfirmed(ctx context.Context, p payment.Payment) {
	ctx, span := otel.Tracer("payment-svc").Start(ctx, "PaymentRelay.PaymentConfirmed")
	defer span.End()

	now := r.now()
	body, err := json.Marshal(event.FromPayment(p, now))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to marshal payment confirmed event", "payment_id", p.ID, "error", err)

		return
	}

	if r.publisher == nil {
		slog.InfoContext(ctx, "Payment confirmed event not published, relay has no broker",
			"payment_id", p.ID,
			"order_id", p.OrderID,
		)

		return
	}

	err = r.publisher.Publish(ctx, "", r.queue, contentTypeJSON, body)
	if err == nil {
		slog.InfoContext(ctx, "Payment confirmed event published",
			"payment_id", p.ID,
			"order_id", p.OrderID,
			"queue", r.queue,
		)

		return
	}

	slog.WarnContext(ctx, "Failed to publish payment confirmed event, storing in outbox",
		"payment_id", p.ID,
		"queue", r.queue,
		"error", err,
	)

	if r.outboxRepo == nil {
		slog.ErrorContext(ctx, "Payment confirmed event lost, no outbox configured", "payment_id", p.ID)

		return
	}

	msg := outbox.OutboxMessage{
		QueueName:   r.queue,
		RoutingKey:  r.queue,
		Payload:     body,
		ContentType: contentTypeJSON,
		MaxRetries:  r.maxRetries,
		LastError:   err.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now.Add(r.retryInterval),
	}
	if err := r.outboxRepo.Insert(context.WithoutCancel(ctx), msg); err != nil {
		slog.ErrorContext(ctx, "Failed to store payment confirmed event in outbox",
			"payment_id", p.ID,
			"error", err,
		)
	}
}
