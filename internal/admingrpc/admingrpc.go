// Package admingrpc exposes a minimal operator-facing gRPC surface
// (server identity and health) hand-registered against a
// grpc.ServiceDesc rather than generated from a .proto file, since the
// two methods only need well-known protobuf types. It is additive: no
// client of the wire protocol depends on it.
package admingrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/s21platform/codeu-chat/internal/model"
)

// Source supplies the read-only data the admin surface reports;
// view.View satisfies it.
type Source interface {
	GetInfo() model.Info
}

// Server implements the two admin RPCs by hand, without a generated
// server interface.
type Server struct {
	source Source
}

// NewServer creates a Server over source.
func NewServer(source Source) *Server {
	return &Server{source: source}
}

// ServerInfo returns the server's fixed build identity as a string.
func (s *Server) ServerInfo(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(s.source.GetInfo().Version.String()), nil
}

// Health always reports true: the process is up and answering RPCs.
func (s *Server) Health(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(true), nil
}

func serverInfoHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*Server).ServerInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/codeu.chat.admin.Admin/ServerInfo"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(*Server).ServerInfo(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func healthHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*Server).Health(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/codeu.chat.admin.Admin/Health"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(*Server).Health(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the hand-registered description of the admin gRPC
// service, in place of a protoc-generated one.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "codeu.chat.admin.Admin",
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ServerInfo", Handler: serverInfoHandler},
		{MethodName: "Health", Handler: healthHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/admingrpc/admingrpc.go",
}

// Register attaches the admin service to an existing *grpc.Server.
func Register(s *grpc.Server, srv *Server) {
	s.RegisterService(&ServiceDesc, srv)
}
