package orderapp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/dal/interfaces/iauditrepo"
	"github.com/corray333/backend-labs/orderpay/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/orderpay/internal/dal/postgres"
	"github.com/corray333/backend-labs/orderpay/internal/dal/rabbitmq"
	auditmemory "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/audit/memory"
	auditpostgres "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/audit/postgres"
	ordermemory "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/order/memory"
	orderpostgres "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/order/postgres"
	"github.com/corray333/backend-labs/orderpay/internal/otel"
	"github.com/corray333/backend-labs/orderpay/internal/service/services/notificationsvc"
	"github.com/corray333/backend-labs/orderpay/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/orderpay/internal/service/services/relaysvc"
	"github.com/corray333/backend-labs/orderpay/internal/transport/consumer"
	grpctransport "github.com/corray333/backend-labs/orderpay/internal/transport/grpc"
	httptransport "github.com/corray333/backend-labs/orderpay/internal/transport/http"
	"github.com/corray333/backend-labs/orderpay/internal/transport/http/docs"
	"github.com/corray333/backend-labs/orderpay/internal/transport/http/orders"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const serviceName = "order-svc"

// App represents the order service application.
type App struct {
	httpTransport  *httptransport.HTTPTransport
	grpcTransport  *grpctransport.GRPCTransport
	consumer       *consumer.Consumer
	rabbitClient   *rabbitmq.Client
	postgresClient *postgres.Client
	otel           *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	a := &App{}

	if viper.GetBool("tracing.enabled") {
		a.otel = otel.MustInitOtel(serviceName)
	}

	var (
		orderRepo iorderrepo.IOrderRepository
		auditRepo iauditrepo.IAuditRepository
	)
	switch driver := viper.GetString("storage.driver"); driver {
	case "memory":
		orderRepo = ordermemory.NewOrderRepository()
		auditRepo = auditmemory.NewAuditRepository()
	case "", "postgres":
		a.postgresClient = postgres.MustNewClient("ORDER")
		orderRepo = orderpostgres.NewOrderRepository(a.postgresClient)
		auditRepo = auditpostgres.NewAuditRepository(a.postgresClient)
	default:
		panic("unknown storage.driver: " + driver)
	}

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderRepo),
		ordersvc.WithDuplicateWindow(viper.GetDuration("orders.duplicate_window")),
		ordersvc.WithDeliveryFee(mustDeliveryFee()),
	)

	notificationSvc := notificationsvc.MustNewNotificationService(
		notificationsvc.WithAuditRepository(auditRepo),
		notificationsvc.WithOrderReader(orderRepo),
	)

	a.httpTransport = httptransport.NewHTTPTransport(serviceName, docs.OrdersInstance)
	a.httpTransport.RegisterRoutes(orders.NewHandler(orderSvc, notificationSvc).Routes)

	if viper.GetBool("server.grpc.enabled") {
		a.grpcTransport = grpctransport.NewGRPCTransport(orderSvc)
	}

	if viper.GetBool("rabbitmq.enabled") {
		a.rabbitClient = rabbitmq.MustNewClient()
		queue := viper.GetString("rabbitmq.queue")
		if queue == "" {
			queue = relaysvc.DefaultQueue
		}
		a.consumer = consumer.NewConsumer(a.rabbitClient, notificationSvc, queue)
	}

	return a
}

func mustDeliveryFee() decimal.Decimal {
	raw := viper.GetString("orders.delivery_fee")
	if raw == "" {
		return ordersvc.DefaultDeliveryFee
	}

	fee, err := decimal.NewFromString(raw)
	if err != nil {
		panic("invalid orders.delivery_fee: " + err.Error())
	}

	return fee
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := a.httpTransport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if a.grpcTransport != nil {
		go func() {
			if err := a.grpcTransport.Run(); err != nil {
				slog.Error("gRPC server error", "error", err)
			}
		}()
	}

	if a.consumer != nil {
		go func() {
			if err := a.consumer.Run(context.Background()); err != nil {
				slog.Error("Consumer error", "error", err)
			}
		}()
	}

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpTransport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if a.grpcTransport != nil {
		if err := a.grpcTransport.Shutdown(ctx); err != nil {
			slog.Error("gRPC server shutdown error", "error", err)
		} else {
			slog.Info("gRPC server stopped gracefully")
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Shutdown(ctx); err != nil {
			slog.Error("Consumer shutdown error", "error", err)
		}
	}

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		} else {
			slog.Info("RabbitMQ connection closed gracefully")
		}
	}

	if a.postgresClient != nil {
		a.postgresClient.Close()
		slog.Info("Database connection closed gracefully")
	}

	if a.otel != nil {
		if err := a.otel.Shutdown(ctx); err != nil {
			slog.Error("Tracer provider shutdown error", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
}
