package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/event"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// service represents the service layer interface.
type service interface {
	ProcessPaymentConfirmed(ctx context.Context, evt event.PaymentConfirmed, payload []byte) error
}

// broker is the part of the RabbitMQ client the consumer needs.
type broker interface {
	DeclareQueue(cfg rabbitmq.DeclareQueueConfig) (amqp.Queue, error)
	Consume(cfg rabbitmq.ConsumeConfig) (<-chan amqp.Delivery, error)
}

// Consumer reads PaymentConfirmed notifications from RabbitMQ.
type Consumer struct {
	client      broker
	service     service
	queue       amqp.Queue
	consumerTag string
	concurrency int
	stop        chan struct{}
	stopOnce    sync.Once
	done        chan struct{}
}

// NewConsumer declares queueName and creates a new Consumer.
func NewConsumer(client broker, service service, queueName string) *Consumer {
	if queueName == "" {
		panic("consumer: queue name is required")
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueName,
		Durable: true,
	})
	if err != nil {
		panic(err)
	}

	consumerTag := viper.GetString("rabbitmq.consumer_tag")
	if consumerTag == "" {
		consumerTag = "order-svc"
	}
	concurrency := viper.GetInt("rabbitmq.concurrency")
	if concurrency <= 0 {
		concurrency = 50
	}

	return &Consumer{
		client:      client,
		service:     service,
		queue:       queue,
		consumerTag: consumerTag,
		concurrency: concurrency,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Run consumes messages until Shutdown is called or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.client.Consume(rabbitmq.ConsumeConfig{
		Queue:    c.queue.Name,
		Consumer: c.consumerTag,
	})
	if err != nil {
		close(c.done)

		return err
	}

	slog.Info("Consumer started", "queue", c.queue.Name, "consumer_tag", c.consumerTag)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

loop:
	for {
		select {
		case <-c.stop:
			slog.Info("Stopping consumer")

			break loop
		case msg, ok := <-msgs:
			if !ok {
				slog.Info("Message channel closed")

				break loop
			}

			g.Go(func() error {
				c.processMessage(gctx, msg)

				return nil
			})
		}
	}

	err = g.Wait()
	close(c.done)

	return err
}

// processMessage handles one delivery. Malformed messages are dropped,
// messages that failed to be recorded are requeued.
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) {
	ctx = otel.GetTextMapPropagator().Extract(ctx, rabbitmq.HeaderCarrier(msg.Headers))
	ctx, span := otel.Tracer("order-svc").Start(ctx, "Consumer.processMessage")
	defer span.End()

	slog.InfoContext(ctx, "Received message", "delivery_tag", msg.DeliveryTag)

	var evt event.PaymentConfirmed
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		slog.ErrorContext(ctx, "Failed to unmarshal payment notification", "error", err)
		if err := msg.Nack(false, false); err != nil {
			slog.ErrorContext(ctx, "Failed to nack message", "error", err)
		}

		return
	}
	span.SetAttributes(
		attribute.String("payment.id", evt.PaymentID.String()),
		attribute.String("order.id", evt.OrderID.String()),
	)

	if err := c.service.ProcessPaymentConfirmed(ctx, evt, msg.Body); err != nil {
		slog.ErrorContext(ctx, "Failed to process payment notification", "error", err, "payment_id", evt.PaymentID)
		if err := msg.Nack(false, true); err != nil {
			slog.ErrorContext(ctx, "Failed to nack message", "error", err)
		}

		return
	}

	if err := msg.Ack(false); err != nil {
		slog.ErrorContext(ctx, "Failed to ack message", "error", err)

		return
	}

	slog.InfoContext(ctx, "Message processed successfully", "payment_id", evt.PaymentID)
}

// Shutdown stops consuming and waits for in-flight messages.
func (c *Consumer) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer")
	c.stopOnce.Do(func() { close(c.stop) })

	select {
	case <-c.done:
		slog.Info("Consumer stopped successfully")

		return nil
	case <-ctx.Done():
		slog.Warn("Consumer shutdown timeout")

		return ctx.Err()
	case <-time.After(10 * time.Second):
		slog.Warn("Consumer shutdown timeout")

		return nil
	}
}
