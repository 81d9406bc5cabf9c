package examplev1

import (
	"context"
	"errors"

	"github.com/louisbranch/rpcnode/internal/runtime/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	// ServiceName is the fully qualified RPC service name.
	ServiceName = "example.ros2.v1.ExampleRos2Service"
	// RosTestRpcFullMethodName is the fully qualified RosTestRpc method name.
	RosTestRpcFullMethodName = "/" + ServiceName + "/RosTestRpc"
)

// ExampleRos2ServiceServer is implemented by handlers of ExampleRos2Service.
// Implementations are shared across concurrent calls.
type ExampleRos2ServiceServer interface {
	RosTestRpc(ctx *rpc.Context, req *RosTestRpcRequest) (rpc.Status, *RosTestRpcResponse)
}

// ServiceRegistrar accepts service descriptors and their implementations.
type ServiceRegistrar interface {
	RegisterService(desc *grpc.ServiceDesc, impl any) error
}

// RegisterExampleRos2Service registers srv with r.
func RegisterExampleRos2Service(r ServiceRegistrar, srv ExampleRos2ServiceServer) error {
	if r == nil {
		return errors.New("service registrar is required")
	}
	return r.RegisterService(&ExampleRos2Service_ServiceDesc, srv)
}

func _ExampleRos2Service_RosTestRpc_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RosTestRpcRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req any) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		callCtx := rpc.ContextFromMetadata(RosTestRpcFullMethodName, md)
		st, rsp := srv.(ExampleRos2ServiceServer).RosTestRpc(callCtx, req.(*RosTestRpcRequest))
		if err := st.Err(); err != nil {
			return nil, err
		}
		if rsp == nil {
			rsp = new(RosTestRpcResponse)
		}
		return rsp, nil
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RosTestRpcFullMethodName,
	}
	return interceptor(ctx, in, info, handler)
}

// ExampleRos2Service_ServiceDesc describes ExampleRos2Service for registration.
var ExampleRos2Service_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExampleRos2ServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RosTestRpc",
			Handler:    _ExampleRos2Service_RosTestRpc_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "example/v1/example.go",
}

// ExampleRos2ServiceClient calls ExampleRos2Service.
type ExampleRos2ServiceClient interface {
	RosTestRpc(ctx context.Context, in *RosTestRpcRequest, opts ...grpc.CallOption) (*RosTestRpcResponse, error)
}

type exampleRos2ServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewExampleRos2ServiceClient builds a client over cc.
func NewExampleRos2ServiceClient(cc grpc.ClientConnInterface) ExampleRos2ServiceClient {
	return &exampleRos2ServiceClient{cc: cc}
}

// RosTestRpc invokes the RosTestRpc method. Failed calls carry an error that
// rpc.StatusFromError turns back into the handler's status.
func (c *exampleRos2ServiceClient) RosTestRpc(ctx context.Context, in *RosTestRpcRequest, opts ...grpc.CallOption) (*RosTestRpcResponse, error) {
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(rpc.CodecName)}, opts...)
	out := new(RosTestRpcResponse)
	if err := c.cc.Invoke(ctx, RosTestRpcFullMethodName, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}
