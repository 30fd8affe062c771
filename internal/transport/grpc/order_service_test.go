package grpctransport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	memoryrepo "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/order/memory"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/order"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/orderpay/internal/service/services/ordersvc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func setup(t *testing.T) (*OrderServer, *ordersvc.OrderService) {
	t.Helper()

	svc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(memoryrepo.NewOrderRepository()),
	)

	return NewOrderServer(svc), svc
}

func placeOrder(t *testing.T, svc *ordersvc.OrderService) order.Order {
	t.Helper()

	o, _, err := svc.CreateOrder(context.Background(), []orderitem.OrderItem{
		{Name: "Pizza", UnitPrice: decimal.RequireFromString("12.00"), Quantity: 1},
	}, "")
	require.NoError(t, err)

	return o
}

func TestMarkOrderPaid(t *testing.T) {
	server, svc := setup(t)
	o := placeOrder(t, svc)

	_, err := server.MarkOrderPaid(context.Background(), wrapperspb.String(o.ID.String()))
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, got.Status)

	_, err = server.MarkOrderPaid(context.Background(), wrapperspb.String(o.ID.String()))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestMarkOrderPaid_Errors(t *testing.T) {
	server, _ := setup(t)

	_, err := server.MarkOrderPaid(context.Background(), wrapperspb.String("not-a-uuid"))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = server.MarkOrderPaid(context.Background(), wrapperspb.String(uuid.NewString()))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

type failingService struct {
	err error
}

func (s failingService) MarkPaid(context.Context, uuid.UUID) error {
	return s.err
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	return &buf
}

func TestMarkOrderPaid_LogLevels(t *testing.T) {
	t.Run("rejection is a warning", func(t *testing.T) {
		logs := captureLogs(t)
		server, _ := setup(t)

		_, err := server.MarkOrderPaid(context.Background(), wrapperspb.String(uuid.NewString()))
		require.Equal(t, codes.NotFound, status.Code(err))

		assert.Contains(t, logs.String(), `"level":"WARN"`)
		assert.NotContains(t, logs.String(), `"level":"ERROR"`)
	})

	t.Run("internal failure is an error", func(t *testing.T) {
		logs := captureLogs(t)
		server := NewOrderServer(failingService{err: errors.New("connection reset")})

		_, err := server.MarkOrderPaid(context.Background(), wrapperspb.String(uuid.NewString()))
		require.Equal(t, codes.Internal, status.Code(err))

		assert.Contains(t, logs.String(), `"level":"ERROR"`)
	})
}
