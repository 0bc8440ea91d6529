package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "settings.v1.SettingsService"

const (
	GetSettingsFullMethod     = "/" + ServiceName + "/GetSettings"
	GetCapabilitiesFullMethod = "/" + ServiceName + "/GetCapabilities"
	PatchSettingsFullMethod   = "/" + ServiceName + "/PatchSettings"
	PingFullMethod            = "/" + ServiceName + "/Ping"
)

// SettingsServiceServer is the server API for the settings service.
type SettingsServiceServer interface {
	GetSettings(context.Context, *emptypb.Empty) (*SettingsResponse, error)
	GetCapabilities(context.Context, *emptypb.Empty) (*CapabilitiesResponse, error)
	PatchSettings(context.Context, *PatchSettingsRequest) (*SettingsResponse, error)
	Ping(context.Context, *emptypb.Empty) (*PingResponse, error)
}

// UnimplementedSettingsServiceServer can be embedded to keep a server
// compiling when methods are added to the service.
type UnimplementedSettingsServiceServer struct{}

func (UnimplementedSettingsServiceServer) GetSettings(context.Context, *emptypb.Empty) (*SettingsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSettings not implemented")
}

func (UnimplementedSettingsServiceServer) GetCapabilities(context.Context, *emptypb.Empty) (*CapabilitiesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCapabilities not implemented")
}

func (UnimplementedSettingsServiceServer) PatchSettings(context.Context, *PatchSettingsRequest) (*SettingsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PatchSettings not implemented")
}

func (UnimplementedSettingsServiceServer) Ping(context.Context, *emptypb.Empty) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

// unaryHandler adapts a typed service method to grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(SettingsServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SettingsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SettingsServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var SettingsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SettingsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSettings",
			Handler:    unaryHandler(GetSettingsFullMethod, SettingsServiceServer.GetSettings),
		},
		{
			MethodName: "GetCapabilities",
			Handler:    unaryHandler(GetCapabilitiesFullMethod, SettingsServiceServer.GetCapabilities),
		},
		{
			MethodName: "PatchSettings",
			Handler:    unaryHandler(PatchSettingsFullMethod, SettingsServiceServer.PatchSettings),
		},
		{
			MethodName: "Ping",
			Handler:    unaryHandler(PingFullMethod, SettingsServiceServer.Ping),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "settings/v1/settings",
}

func RegisterSettingsServiceServer(s grpc.ServiceRegistrar, srv SettingsServiceServer) {
	s.RegisterService(&SettingsServiceDesc, srv)
}

// SettingsServiceClient is the client API for the settings service.
type SettingsServiceClient interface {
	GetSettings(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*SettingsResponse, error)
	GetCapabilities(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*CapabilitiesResponse, error)
	PatchSettings(ctx context.Context, in *PatchSettingsRequest, opts ...grpc.CallOption) (*SettingsResponse, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error)
}

type settingsServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSettingsServiceClient(cc grpc.ClientConnInterface) SettingsServiceClient {
	return &settingsServiceClient{cc: cc}
}

func invoke[Req any, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *settingsServiceClient) GetSettings(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*SettingsResponse, error) {
	return invoke[emptypb.Empty, SettingsResponse](ctx, c.cc, GetSettingsFullMethod, in, opts)
}

func (c *settingsServiceClient) GetCapabilities(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*CapabilitiesResponse, error) {
	return invoke[emptypb.Empty, CapabilitiesResponse](ctx, c.cc, GetCapabilitiesFullMethod, in, opts)
}

func (c *settingsServiceClient) PatchSettings(ctx context.Context, in *PatchSettingsRequest, opts ...grpc.CallOption) (*SettingsResponse, error) {
	return invoke[PatchSettingsRequest, SettingsResponse](ctx, c.cc, PatchSettingsFullMethod, in, opts)
}

func (c *settingsServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[emptypb.Empty, PingResponse](ctx, c.cc, PingFullMethod, in, opts)
}
