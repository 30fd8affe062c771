package relaysvc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/dal/repositories/outbox/memory"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/event"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	publish func(ctx context.Context, exchange, routingKey, contentType string, body []byte) error
}

func (s *stubPublisher) Publish(ctx context.Context, exchange, routingKey, contentType string, body []byte) error {
	return s.publish(ctx, exchange, routingKey, contentType, body)
}

func confirmedPayment() payment.Payment {
	p := payment.New(payment.Details{
		OrderID:   uuid.New(),
		Amount:    decimal.RequireFromString("33.50"),
		PayerName: "Ana Souza",
		Card:      payment.CardDetails{Number: "4111111111111111", Expiry: "12/2030", SecurityCode: "999"},
		Method:    payment.MethodCredit,
	}, time.Now())
	p.Status = payment.StatusConfirmed

	return p
}

func TestPaymentConfirmed_Publishes(t *testing.T) {
	var routingKey string
	var body []byte
	pub := &stubPublisher{publish: func(_ context.Context, _, key, _ string, b []byte) error {
		routingKey = key
		body = b

		return nil
	}}
	outboxRepo := memory.NewOutboxRepository()
	relay := MustNewPaymentRelay(WithPublisher(pub), WithOutboxRepository(outboxRepo), WithQueue("payments.test"))

	p := confirmedPayment()
	relay.PaymentConfirmed(context.Background(), p)

	assert.Equal(t, "payments.test", routingKey)
	assert.Zero(t, outboxRepo.Len())

	var evt event.PaymentConfirmed
	require.NoError(t, json.Unmarshal(body, &evt))
	assert.Equal(t, p.ID, evt.PaymentID)
	assert.Equal(t, "************1111", evt.MaskedCardNumber)
	assert.NotContains(t, string(body), "4111111111111111")
}

func TestPaymentConfirmed_FallsBackToOutbox(t *testing.T) {
	pub := &stubPublisher{publish: func(context.Context, string, string, string, []byte) error {
		return errors.New("channel closed")
	}}
	outboxRepo := memory.NewOutboxRepository()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	relay := MustNewPaymentRelay(
		WithPublisher(pub),
		WithOutboxRepository(outboxRepo),
		WithRetryPolicy(3, time.Minute),
		WithClock(func() time.Time { return now }),
	)

	relay.PaymentConfirmed(context.Background(), confirmedPayment())

	require.Equal(t, 1, outboxRepo.Len())
	assert.Equal(t, DefaultQueue, relay.Queue())
}
