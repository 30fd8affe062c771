package paymentapp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/orderpay/internal/dal/interfaces/ipaymentrepo"
	grpcclient "github.com/corray333/backend-labs/orderpay/internal/dal/orderclient/grpc"
	httpclient "github.com/corray333/backend-labs/orderpay/internal/dal/orderclient/http"
	"github.com/corray333/backend-labs/orderpay/internal/dal/postgres"
	"github.com/corray333/backend-labs/orderpay/internal/dal/rabbitmq"
	outboxmemory "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/outbox/memory"
	outboxpostgres "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/outbox/postgres"
	paymentmemory "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/payment/memory"
	paymentpostgres "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/payment/postgres"
	"github.com/corray333/backend-labs/orderpay/internal/otel"
	"github.com/corray333/backend-labs/orderpay/internal/service/services/paymentsvc"
	"github.com/corray333/backend-labs/orderpay/internal/service/services/relaysvc"
	httptransport "github.com/corray333/backend-labs/orderpay/internal/transport/http"
	"github.com/corray333/backend-labs/orderpay/internal/transport/http/docs"
	"github.com/corray333/backend-labs/orderpay/internal/transport/http/payments"
	"github.com/corray333/backend-labs/orderpay/internal/worker/outbox"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

const serviceName = "payment-svc"

type orderClient interface {
	MarkOrderPaid(ctx context.Context, orderID uuid.UUID) error
}

type publisher interface {
	Publish(ctx context.Context, exchange, routingKey, contentType string, body []byte) error
}

// App represents the payment service application.
type App struct {
	transport    *httptransport.HTTPTransport
	outboxWorker *outbox.Worker
	rabbitClient *rabbitmq.Client
	dbClient     *postgres.DBClient
	closeClient  func() error
	otel         *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	a := &App{}

	if viper.GetBool("tracing.enabled") {
		a.otel = otel.MustInitOtel(serviceName)
	}

	var (
		paymentRepo ipaymentrepo.IPaymentRepository
		outboxRepo  ioutboxrepo.IOutboxRepository
	)
	switch driver := viper.GetString("storage.driver"); driver {
	case "memory":
		paymentRepo = paymentmemory.NewPaymentRepository()
		outboxRepo = outboxmemory.NewOutboxRepository()
	case "", "postgres":
		a.dbClient = postgres.MustNewDBClient("PAYMENT")
		paymentRepo = paymentpostgres.NewPaymentRepository(a.dbClient)
		outboxRepo = outboxpostgres.NewOutboxRepository(a.dbClient)
	default:
		panic("unknown storage.driver: " + driver)
	}

	// stays nil when messaging is disabled, the relay then only logs
	var pub publisher
	if viper.GetBool("rabbitmq.enabled") {
		a.rabbitClient = rabbitmq.MustNewClient()
		pub = a.rabbitClient
		a.outboxWorker = outbox.NewWorker(outboxRepo, a.rabbitClient)
	}

	relay := relaysvc.MustNewPaymentRelay(
		relaysvc.WithPublisher(pub),
		relaysvc.WithOutboxRepository(outboxRepo),
		relaysvc.WithQueue(viper.GetString("rabbitmq.queue")),
		relaysvc.WithRetryPolicy(
			viper.GetInt("rabbitmq.outbox.max_retries"),
			time.Duration(viper.GetInt("rabbitmq.outbox.retry_interval_seconds"))*time.Second,
		),
	)

	if a.rabbitClient != nil {
		if _, err := a.rabbitClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
			Name:    relay.Queue(),
			Durable: true,
		}); err != nil {
			panic(err)
		}
	}

	paymentSvc := paymentsvc.MustNewPaymentService(
		paymentsvc.WithPaymentRepository(paymentRepo),
		paymentsvc.WithOrderClient(a.mustNewOrderClient()),
		paymentsvc.WithNotifier(relay),
		paymentsvc.WithRemoteTimeout(viper.GetDuration("order_client.timeout")),
	)

	a.transport = httptransport.NewHTTPTransport(serviceName, docs.PaymentsInstance)
	a.transport.RegisterRoutes(payments.NewHandler(paymentSvc).Routes)

	return a
}

func (a *App) mustNewOrderClient() orderClient {
	switch transport := viper.GetString("order_client.transport"); transport {
	case "", "grpc":
		client := grpcclient.MustNewClient()
		a.closeClient = client.Close

		return client
	case "http":
		return httpclient.MustNewClient()
	default:
		panic("unknown order_client.transport: " + transport)
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if a.outboxWorker != nil {
		go a.outboxWorker.Start(workerCtx)
	}

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if a.outboxWorker != nil {
		a.outboxWorker.Stop()
	}

	if a.closeClient != nil {
		if err := a.closeClient(); err != nil {
			slog.Error("Order client close error", "error", err)
		}
	}

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		} else {
			slog.Info("RabbitMQ connection closed gracefully")
		}
	}

	if a.dbClient != nil {
		if err := a.dbClient.Close(); err != nil {
			slog.Error("Database connection close error", "error", err)
		} else {
			slog.Info("Database connection closed gracefully")
		}
	}

	if a.otel != nil {
		if err := a.otel.Shutdown(ctx); err != nil {
			slog.Error("Tracer provider shutdown error", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
}
