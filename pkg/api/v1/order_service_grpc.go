// Package v1 holds the gRPC contract of the order service.
// Messages are protobuf well-known types, see api/orders/v1/order_service.proto.
package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	OrderService_ServiceName                  = "orders.v1.OrderService"
	OrderService_MarkOrderPaid_FullMethodName = "/orders.v1.OrderService/MarkOrderPaid"
)

// OrderServiceClient is the client API for OrderService.
type OrderServiceClient interface {
	MarkOrderPaid(
		ctx context.Context,
		in *wrapperspb.StringValue,
		opts ...grpc.CallOption,
	) (*emptypb.Empty, error)
}

type orderServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewOrderServiceClient creates a client bound to cc.
func NewOrderServiceClient(cc grpc.ClientConnInterface) OrderServiceClient {
	return &orderServiceClient{cc: cc}
}

func (c *orderServiceClient) MarkOrderPaid(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, OrderService_MarkOrderPaid_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// OrderServiceServer is the server API for OrderService.
// Implementations must embed UnimplementedOrderServiceServer.
type OrderServiceServer interface {
	MarkOrderPaid(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	mustEmbedUnimplementedOrderServiceServer()
}

// UnimplementedOrderServiceServer answers every call with codes.Unimplemented.
type UnimplementedOrderServiceServer struct{}

func (UnimplementedOrderServiceServer) MarkOrderPaid(
	context.Context,
	*wrapperspb.StringValue,
) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MarkOrderPaid not implemented")
}

func (UnimplementedOrderServiceServer) mustEmbedUnimplementedOrderServiceServer() {}

// RegisterOrderServiceServer registers srv on s.
func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&OrderService_ServiceDesc, srv)
}

func _OrderService_MarkOrderPaid_Handler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).MarkOrderPaid(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: OrderService_MarkOrderPaid_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServiceServer).MarkOrderPaid(ctx, req.(*wrapperspb.StringValue))
	}

	return interceptor(ctx, in, info, handler)
}

// OrderService_ServiceDesc is the grpc.ServiceDesc for OrderService.
var OrderService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: OrderService_ServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "MarkOrderPaid",
			Handler:    _OrderService_MarkOrderPaid_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "orders/v1/order_service.proto",
}
