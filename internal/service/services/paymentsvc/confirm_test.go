package paymentsvc

import (
	"context"
	"net"
	"testing"
	"time"

	grpcclient "github.com/corray333/backend-labs/orderpay/internal/dal/orderclient/grpc"
	ordermemory "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/order/memory"
	paymentmemory "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/payment/memory"
	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/order"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/payment"
	"github.com/corray333/backend-labs/orderpay/internal/service/services/ordersvc"
	grpctransport "github.com/corray333/backend-labs/orderpay/internal/transport/grpc"
	pb "github.com/corray333/backend-labs/orderpay/pkg/api/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

// crossService wires a PaymentService to a real OrderService over an in-memory gRPC connection.
type crossService struct {
	orders   *ordersvc.OrderService
	payments *PaymentService
	conn     *grpc.ClientConn
}

func setupCrossService(t *testing.T) *crossService {
	t.Helper()

	orders := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(ordermemory.NewOrderRepository()),
	)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	pb.RegisterOrderServiceServer(srv, grpctransport.NewOrderServer(orders))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	client := grpcclient.NewClient(conn)
	t.Cleanup(func() { _ = client.Close() })

	return &crossService{
		orders: orders,
		payments: MustNewPaymentService(
			WithPaymentRepository(paymentmemory.NewPaymentRepository()),
			WithOrderClient(client),
			WithRemoteTimeout(time.Second),
		),
		conn: conn,
	}
}

func (c *crossService) placeOrder(t *testing.T) order.Order {
	t.Helper()

	o, _, err := c.orders.CreateOrder(context.Background(), []orderitem.OrderItem{
		{Name: "Feijoada", UnitPrice: decimal.RequireFromString("25.50"), Quantity: 1},
	}, "")
	require.NoError(t, err)

	return o
}

func (c *crossService) assertStates(t *testing.T, p payment.Payment, paymentStatus payment.Status, orderStatus order.Status) {
	t.Helper()
	ctx := context.Background()

	storedPayment, err := c.payments.GetPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, paymentStatus, storedPayment.Status)

	storedOrder, err := c.orders.GetOrder(ctx, p.OrderID)
	require.NoError(t, err)
	assert.Equal(t, orderStatus, storedOrder.Status)
}

func TestConfirmPayment_MarksOrderPaid(t *testing.T) {
	c := setupCrossService(t)
	ctx := context.Background()

	o := c.placeOrder(t)
	p, err := c.payments.CreatePayment(ctx, details(o.ID))
	require.NoError(t, err)

	confirmed, err := c.payments.ConfirmPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusConfirmed, confirmed.Status)

	c.assertStates(t, p, payment.StatusConfirmed, order.StatusPaid)
}

func TestConfirmPayment_CancelledOrderRollsBack(t *testing.T) {
	c := setupCrossService(t)
	ctx := context.Background()

	o := c.placeOrder(t)
	_, err := c.orders.CancelOrder(ctx, o.ID)
	require.NoError(t, err)

	p, err := c.payments.CreatePayment(ctx, details(o.ID))
	require.NoError(t, err)

	_, err = c.payments.ConfirmPayment(ctx, p.ID)
	assert.ErrorIs(t, err, errs.ErrRemoteCall)
	assert.ErrorIs(t, err, errs.ErrBusinessRule)

	c.assertStates(t, p, payment.StatusAwaitingConfirmation, order.StatusCancelled)
}

func TestConfirmPayment_UnreachableOrderServiceLeavesOrderPlaced(t *testing.T) {
	c := setupCrossService(t)
	ctx := context.Background()

	o := c.placeOrder(t)
	p, err := c.payments.CreatePayment(ctx, details(o.ID))
	require.NoError(t, err)

	require.NoError(t, c.conn.Close())

	_, err = c.payments.ConfirmPayment(ctx, p.ID)
	assert.ErrorIs(t, err, errs.ErrRemoteCall)

	c.assertStates(t, p, payment.StatusAwaitingConfirmation, order.StatusPlaced)
}
