package grpctransport

import (
	"context"
	"log/slog"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	pb "github.com/corray333/backend-labs/orderpay/pkg/api/v1"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// OrderServer implements the gRPC OrderService.
type OrderServer struct {
	pb.UnimplementedOrderServiceServer

	service service
}

// NewOrderServer creates a new OrderServer.
func NewOrderServer(service service) *OrderServer {
	return &OrderServer{
		service: service,
	}
}

// MarkOrderPaid handles the mark order paid gRPC request.
func (s *OrderServer) MarkOrderPaid(
	ctx context.Context,
	req *wrapperspb.StringValue,
) (*emptypb.Empty, error) {
	slog.InfoContext(ctx, "Received MarkOrderPaid gRPC request", "order_id", req.GetValue())

	id, err := uuid.Parse(req.GetValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid order id %q", req.GetValue())
	}

	if err := s.service.MarkPaid(ctx, id); err != nil {
		level := slog.LevelWarn
		if errs.Kind(err) == errs.ErrInternal {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "Failed to mark order as paid", "order_id", id, "error", err)

		return nil, toStatus(err)
	}

	slog.InfoContext(ctx, "MarkOrderPaid completed successfully", "order_id", id)

	return &emptypb.Empty{}, nil
}

func toStatus(err error) error {
	switch errs.Kind(err) {
	case errs.ErrNotFound:
		return status.Error(codes.NotFound, err.Error())
	case errs.ErrBusinessRule, errs.ErrConflict:
		return status.Error(codes.FailedPrecondition, err.Error())
	case errs.ErrValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
