// Package grpchost is a second concrete sirvm.RuntimeHost, forwarding
// Puts calls to a remote collector over a small unary gRPC service built
// from already-generated well-known protobuf message types
// (wrapperspb.StringValue, emptypb.Empty) rather than a hand-authored
// .pb.go, grounded on the teacher's internal/evaluator/builtins_grpc.go
// gRPC client usage generalized to a fixed, compile-time-known service.
package grpchost

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/funvibe/umo/internal/sirvm"
)

const serviceName = "umo.rthost.Collector"
const putsMethod = "/" + serviceName + "/Puts"

// CollectorServer is implemented by anything that can receive Puts calls
// over the wire.
type CollectorServer interface {
	Puts(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error)
}

func putsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CollectorServer).Puts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: putsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CollectorServer).Puts(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// serviceDesc describes the Collector service without any compiled .pb.go.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CollectorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Puts", Handler: putsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/rthost/grpchost/grpchost.go",
}

// RegisterCollectorServer registers srv on s under the Collector service
// name.
func RegisterCollectorServer(s grpc.ServiceRegistrar, srv CollectorServer) {
	s.RegisterService(&serviceDesc, srv)
}

// CollectingServer adapts a sirvm.RuntimeHost into a CollectorServer,
// for standing up a test or production collector process.
type CollectingServer struct {
	Host sirvm.RuntimeHost
}

func (s *CollectingServer) Puts(_ context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	s.Host.Puts(req.GetValue())
	return &emptypb.Empty{}, nil
}

// Host is a sirvm.RuntimeHost that forwards Puts over an established gRPC
// connection to a CollectorServer.
type Host struct {
	Conn *grpc.ClientConn
}

// Dial opens a client connection to target and wraps it as a Host.
func Dial(target string, opts ...grpc.DialOption) (*Host, error) {
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &Host{Conn: conn}, nil
}

// Puts implements sirvm.RuntimeHost by invoking the remote Collector.Puts
// method. Errors are not observable through this interface (spec.md §6
// gives RuntimeHost exactly one fire-and-forget operation); callers that
// need delivery guarantees should use PutsErr directly.
func (h *Host) Puts(s string) {
	_ = h.PutsErr(context.Background(), s)
}

// PutsErr is the error-returning form of Puts, for callers outside the
// sirvm.RuntimeHost contract who want to observe transport failures.
func (h *Host) PutsErr(ctx context.Context, s string) error {
	return h.Conn.Invoke(ctx, putsMethod, wrapperspb.String(s), new(emptypb.Empty))
}

// Close releases the underlying connection.
func (h *Host) Close() error {
	return h.Conn.Close()
}
