package grpc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	pb "github.com/corray333/backend-labs/orderpay/pkg/api/v1"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client represents a gRPC client for the order service.
type Client struct {
	conn   *grpc.ClientConn
	client pb.OrderServiceClient
}

// MustNewClient creates a new gRPC client.
func MustNewClient() *Client {
	addr := viper.GetString("order_client.grpc.addr")
	if addr == "" {
		panic("order_client.grpc.addr is not set in config")
	}

	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to order service: %v", err))
	}

	slog.Info("gRPC client connected to order service", "address", addr)

	return &Client{
		conn:   conn,
		client: pb.NewOrderServiceClient(conn),
	}
}

// NewClient wraps an existing connection.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{
		conn:   conn,
		client: pb.NewOrderServiceClient(conn),
	}
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}

// MarkOrderPaid asks the order service to move the order to PAID.
// The caller bounds the call through ctx.
func (c *Client) MarkOrderPaid(ctx context.Context, orderID uuid.UUID) error {
	ctx, span := otel.Tracer("grpc-client").Start(ctx, "Client.MarkOrderPaid")
	defer span.End()

	_, err := c.client.MarkOrderPaid(ctx, wrapperspb.String(orderID.String()))
	if err != nil {
		return classify(err, orderID)
	}

	return nil
}

func classify(err error, orderID uuid.UUID) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("failed to call order service: %w", err)
	}

	switch st.Code() {
	case codes.NotFound:
		return errs.Wrap(errs.ErrNotFound, err, "order %s not found", orderID)
	case codes.FailedPrecondition:
		return errs.Wrap(errs.ErrBusinessRule, err, "order %s cannot be marked as paid", orderID)
	case codes.Aborted, codes.AlreadyExists:
		return errs.Wrap(errs.ErrConflict, err, "order %s was modified concurrently", orderID)
	case codes.InvalidArgument:
		return errs.Wrap(errs.ErrValidation, err, "order service rejected order id %s", orderID)
	case codes.DeadlineExceeded:
		return fmt.Errorf("order service did not answer in time: %w: %w", context.DeadlineExceeded, err)
	default:
		return fmt.Errorf("failed to call order service: %w", err)
	}
}
