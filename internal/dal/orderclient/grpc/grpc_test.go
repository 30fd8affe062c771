package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	pb "github.com/corray333/backend-labs/orderpay/pkg/api/v1"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type stubServer struct {
	pb.UnimplementedOrderServiceServer
	markOrderPaid func(ctx context.Context, id string) error
}

func (s *stubServer) MarkOrderPaid(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := s.markOrderPaid(ctx, in.GetValue()); err != nil {
		return nil, err
	}

	return &emptypb.Empty{}, nil
}

func newTestClient(t *testing.T, srv *stubServer) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	pb.RegisterOrderServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	client := NewClient(conn)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestMarkOrderPaid_Success(t *testing.T) {
	orderID := uuid.New()
	var got string

	client := newTestClient(t, &stubServer{markOrderPaid: func(_ context.Context, id string) error {
		got = id
		return nil
	}})

	require.NoError(t, client.MarkOrderPaid(context.Background(), orderID))
	assert.Equal(t, orderID.String(), got)
}

func TestMarkOrderPaid_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		code codes.Code
		kind error
	}{
		{"not found", codes.NotFound, errs.ErrNotFound},
		{"not placed", codes.FailedPrecondition, errs.ErrBusinessRule},
		{"aborted", codes.Aborted, errs.ErrConflict},
		{"bad id", codes.InvalidArgument, errs.ErrValidation},
		{"internal", codes.Internal, errs.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &stubServer{markOrderPaid: func(context.Context, string) error {
				return status.Error(tt.code, "boom")
			}})

			err := client.MarkOrderPaid(context.Background(), uuid.New())
			require.Error(t, err)
			assert.Equal(t, tt.kind, errs.Kind(err))
		})
	}
}

func TestMarkOrderPaid_Deadline(t *testing.T) {
	client := newTestClient(t, &stubServer{markOrderPaid: func(ctx context.Context, _ string) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.MarkOrderPaid(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
