package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the internal RPC service. Messages are google.protobuf.Struct
// values carrying the same fields as the REST envelope.
const ServiceName = "gateway.v1.GatewayService"

type GatewayServiceServer interface {
	Health(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ResolveCustomer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	PostPayment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv GatewayServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

var GatewayServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GatewayServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Health", Handler: unaryHandler("Health", GatewayServiceServer.Health)},
		{MethodName: "ResolveCustomer", Handler: unaryHandler("ResolveCustomer", GatewayServiceServer.ResolveCustomer)},
		{MethodName: "PostPayment", Handler: unaryHandler("PostPayment", GatewayServiceServer.PostPayment)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gateway/v1/gateway.proto",
}

func RegisterGatewayServiceServer(registrar grpc.ServiceRegistrar, srv GatewayServiceServer) {
	registrar.RegisterService(&GatewayServiceDesc, srv)
}

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GatewayServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(GatewayServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
