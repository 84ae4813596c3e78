package burner

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "burneralarm.v1.BurnerAlarmService"

// Full method names.
const (
	StartTrackingMethod = "/" + ServiceName + "/StartTracking"
	EndTrackingMethod   = "/" + ServiceName + "/EndTracking"
	ResetMethod         = "/" + ServiceName + "/Reset"
	TickMethod          = "/" + ServiceName + "/Tick"
	SetSkillLevelMethod = "/" + ServiceName + "/SetSkillLevel"
	GetStatusMethod     = "/" + ServiceName + "/GetStatus"
	WatchAlertsMethod   = "/" + ServiceName + "/WatchAlerts"
)

// BurnerAlarmServer is the server API of the burner alarm service.
//
//nolint:revive // Stutters to match the gRPC service name.
type BurnerAlarmServer interface {
	// StartTracking begins timing the entity named by the request.
	StartTracking(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error)
	// EndTracking stops timing the entity and reports whether it was tracked.
	EndTracking(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	// Reset drops every tracked entity; the request carries the reason.
	Reset(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error)
	// Tick runs one evaluation pass and returns the number of alerts fired.
	Tick(ctx context.Context, in *wrapperspb.Int64Value) (*wrapperspb.Int64Value, error)
	// SetSkillLevel updates the skill level used by later passes.
	SetSkillLevel(ctx context.Context, in *wrapperspb.Int64Value) (*emptypb.Empty, error)
	// GetStatus returns a snapshot of the scheduler.
	GetStatus(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	// WatchAlerts streams every delivered alert until the client leaves.
	WatchAlerts(in *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error
}

// ServiceDesc describes the burner alarm service for grpc.Server.
//
//nolint:gochecknoglobals // Service descriptors are package-level by convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BurnerAlarmServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "StartTracking",
			Handler: unary(StartTrackingMethod,
				func(s BurnerAlarmServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
					return s.StartTracking(ctx, in)
				}),
		},
		{
			MethodName: "EndTracking",
			Handler: unary(EndTrackingMethod,
				func(s BurnerAlarmServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
					return s.EndTracking(ctx, in)
				}),
		},
		{
			MethodName: "Reset",
			Handler: unary(ResetMethod,
				func(s BurnerAlarmServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
					return s.Reset(ctx, in)
				}),
		},
		{
			MethodName: "Tick",
			Handler: unary(TickMethod,
				func(s BurnerAlarmServer, ctx context.Context, in *wrapperspb.Int64Value) (any, error) {
					return s.Tick(ctx, in)
				}),
		},
		{
			MethodName: "SetSkillLevel",
			Handler: unary(SetSkillLevelMethod,
				func(s BurnerAlarmServer, ctx context.Context, in *wrapperspb.Int64Value) (any, error) {
					return s.SetSkillLevel(ctx, in)
				}),
		},
		{
			MethodName: "GetStatus",
			Handler: unary(GetStatusMethod,
				func(s BurnerAlarmServer, ctx context.Context, in *emptypb.Empty) (any, error) {
					return s.GetStatus(ctx, in)
				}),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchAlerts",
			Handler:       watchAlertsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "burneralarm/v1/burner_alarm.proto",
}

// RegisterBurnerAlarmServer registers srv on the registrar.
func RegisterBurnerAlarmServer(r grpc.ServiceRegistrar, srv BurnerAlarmServer) {
	r.RegisterService(&ServiceDesc, srv)
}

// unary builds a method handler that decodes a Req and calls the server,
// going through the interceptor chain when one is installed.
func unary[Req any](
	method string,
	call func(BurnerAlarmServer, context.Context, *Req) (any, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(BurnerAlarmServer)

		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(*Req)

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}

// watchAlertsHandler adapts the raw stream to the typed WatchAlerts call.
func watchAlertsHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	server, _ := srv.(BurnerAlarmServer)

	return server.WatchAlerts(in, &grpc.GenericServerStream[emptypb.Empty, structpb.Struct]{ServerStream: stream})
}

// BurnerAlarmClient is the client API of the burner alarm service.
//
//nolint:revive // Stutters to match the gRPC service name.
type BurnerAlarmClient struct {
	// cc carries the calls.
	cc grpc.ClientConnInterface
}

// NewBurnerAlarmClient creates a client over the connection.
func NewBurnerAlarmClient(cc grpc.ClientConnInterface) *BurnerAlarmClient {
	return &BurnerAlarmClient{cc: cc}
}

// StartTracking calls the StartTracking RPC.
func (c *BurnerAlarmClient) StartTracking(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, StartTrackingMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// EndTracking calls the EndTracking RPC.
func (c *BurnerAlarmClient) EndTracking(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, EndTrackingMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// Reset calls the Reset RPC.
func (c *BurnerAlarmClient) Reset(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, ResetMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// Tick calls the Tick RPC.
func (c *BurnerAlarmClient) Tick(
	ctx context.Context,
	in *wrapperspb.Int64Value,
	opts ...grpc.CallOption,
) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, TickMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// SetSkillLevel calls the SetSkillLevel RPC.
func (c *BurnerAlarmClient) SetSkillLevel(
	ctx context.Context,
	in *wrapperspb.Int64Value,
	opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, SetSkillLevelMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// GetStatus calls the GetStatus RPC.
func (c *BurnerAlarmClient) GetStatus(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetStatusMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// WatchAlerts opens the WatchAlerts stream.
func (c *BurnerAlarmClient) WatchAlerts(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], WatchAlertsMethod, opts...)
	if err != nil {
		return nil, err
	}

	x := &grpc.GenericClientStream[emptypb.Empty, structpb.Struct]{ClientStream: stream}

	if err := x.SendMsg(in); err != nil {
		return nil, err
	}

	if err := x.CloseSend(); err != nil {
		return nil, err
	}

	return x, nil
}
