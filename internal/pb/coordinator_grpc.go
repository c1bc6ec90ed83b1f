package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// -----------------------------------------------------------------------
// AggregateCoordinatorService: the coordinator's inbound command surface.
// -----------------------------------------------------------------------

const (
	AggregateCoordinatorService_Handle_FullMethodName       = "/angzarr.AggregateCoordinatorService/Handle"
	AggregateCoordinatorService_HandleSync_FullMethodName   = "/angzarr.AggregateCoordinatorService/HandleSync"
	AggregateCoordinatorService_DryRunHandle_FullMethodName = "/angzarr.AggregateCoordinatorService/DryRunHandle"
)

type AggregateCoordinatorServiceClient interface {
	Handle(ctx context.Context, in *CommandBook, opts ...grpc.CallOption) (*CommandResponse, error)
	HandleSync(ctx context.Context, in *SyncCommandBook, opts ...grpc.CallOption) (*CommandResponse, error)
	DryRunHandle(ctx context.Context, in *DryRunRequest, opts ...grpc.CallOption) (*CommandResponse, error)
}

type aggregateCoordinatorServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAggregateCoordinatorServiceClient(cc grpc.ClientConnInterface) AggregateCoordinatorServiceClient {
	return &aggregateCoordinatorServiceClient{cc}
}

func (c *aggregateCoordinatorServiceClient) Handle(ctx context.Context, in *CommandBook, opts ...grpc.CallOption) (*CommandResponse, error) {
	out := new(CommandResponse)
	if err := c.cc.Invoke(ctx, AggregateCoordinatorService_Handle_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aggregateCoordinatorServiceClient) HandleSync(ctx context.Context, in *SyncCommandBook, opts ...grpc.CallOption) (*CommandResponse, error) {
	out := new(CommandResponse)
	if err := c.cc.Invoke(ctx, AggregateCoordinatorService_HandleSync_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aggregateCoordinatorServiceClient) DryRunHandle(ctx context.Context, in *DryRunRequest, opts ...grpc.CallOption) (*CommandResponse, error) {
	out := new(CommandResponse)
	if err := c.cc.Invoke(ctx, AggregateCoordinatorService_DryRunHandle_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type AggregateCoordinatorServiceServer interface {
	Handle(context.Context, *CommandBook) (*CommandResponse, error)
	HandleSync(context.Context, *SyncCommandBook) (*CommandResponse, error)
	DryRunHandle(context.Context, *DryRunRequest) (*CommandResponse, error)
}

// UnimplementedAggregateCoordinatorServiceServer must be embedded for forward compatibility.
type UnimplementedAggregateCoordinatorServiceServer struct{}

func (UnimplementedAggregateCoordinatorServiceServer) Handle(context.Context, *CommandBook) (*CommandResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Handle not implemented")
}

func (UnimplementedAggregateCoordinatorServiceServer) HandleSync(context.Context, *SyncCommandBook) (*CommandResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method HandleSync not implemented")
}

func (UnimplementedAggregateCoordinatorServiceServer) DryRunHandle(context.Context, *DryRunRequest) (*CommandResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DryRunHandle not implemented")
}

func RegisterAggregateCoordinatorServiceServer(s grpc.ServiceRegistrar, srv AggregateCoordinatorServiceServer) {
	s.RegisterService(&AggregateCoordinatorService_ServiceDesc, srv)
}

func _AggregateCoordinatorService_Handle_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CommandBook)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AggregateCoordinatorServiceServer).Handle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AggregateCoordinatorService_Handle_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AggregateCoordinatorServiceServer).Handle(ctx, req.(*CommandBook))
	}
	return interceptor(ctx, in, info, handler)
}

func _AggregateCoordinatorService_HandleSync_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SyncCommandBook)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AggregateCoordinatorServiceServer).HandleSync(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AggregateCoordinatorService_HandleSync_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AggregateCoordinatorServiceServer).HandleSync(ctx, req.(*SyncCommandBook))
	}
	return interceptor(ctx, in, info, handler)
}

func _AggregateCoordinatorService_DryRunHandle_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DryRunRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AggregateCoordinatorServiceServer).DryRunHandle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AggregateCoordinatorService_DryRunHandle_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AggregateCoordinatorServiceServer).DryRunHandle(ctx, req.(*DryRunRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var AggregateCoordinatorService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "angzarr.AggregateCoordinatorService",
	HandlerType: (*AggregateCoordinatorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Handle", Handler: _AggregateCoordinatorService_Handle_Handler},
		{MethodName: "HandleSync", Handler: _AggregateCoordinatorService_HandleSync_Handler},
		{MethodName: "DryRunHandle", Handler: _AggregateCoordinatorService_DryRunHandle_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "angzarr.proto",
}

// -----------------------------------------------------------------------
// EventQueryService: read-only event/snapshot retrieval.
// -----------------------------------------------------------------------

type EventQueryServiceClient interface {
	GetEventBook(ctx context.Context, in *Query, opts ...grpc.CallOption) (*EventBook, error)
	GetEvents(ctx context.Context, in *Query, opts ...grpc.CallOption) (grpc.ServerStreamingClient[EventBook], error)
	GetAggregateRoots(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[AggregateRoot], error)
}

type eventQueryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEventQueryServiceClient(cc grpc.ClientConnInterface) EventQueryServiceClient {
	return &eventQueryServiceClient{cc}
}

func (c *eventQueryServiceClient) GetEventBook(ctx context.Context, in *Query, opts ...grpc.CallOption) (*EventBook, error) {
	out := new(EventBook)
	if err := c.cc.Invoke(ctx, "/angzarr.EventQueryService/GetEventBook", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *eventQueryServiceClient) GetEvents(ctx context.Context, in *Query, opts ...grpc.CallOption) (grpc.ServerStreamingClient[EventBook], error) {
	stream, err := c.cc.NewStream(ctx, &EventQueryService_ServiceDesc.Streams[0], "/angzarr.EventQueryService/GetEvents", opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[Query, EventBook]{ClientStream: stream}
	if err := x.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *eventQueryServiceClient) GetAggregateRoots(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[AggregateRoot], error) {
	stream, err := c.cc.NewStream(ctx, &EventQueryService_ServiceDesc.Streams[1], "/angzarr.EventQueryService/GetAggregateRoots", opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[emptypb.Empty, AggregateRoot]{ClientStream: stream}
	if err := x.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type EventQueryServiceServer interface {
	GetEventBook(context.Context, *Query) (*EventBook, error)
	GetEvents(*Query, grpc.ServerStreamingServer[EventBook]) error
	GetAggregateRoots(*emptypb.Empty, grpc.ServerStreamingServer[AggregateRoot]) error
}

type UnimplementedEventQueryServiceServer struct{}

func (UnimplementedEventQueryServiceServer) GetEventBook(context.Context, *Query) (*EventBook, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEventBook not implemented")
}

func (UnimplementedEventQueryServiceServer) GetEvents(*Query, grpc.ServerStreamingServer[EventBook]) error {
	return status.Error(codes.Unimplemented, "method GetEvents not implemented")
}

func (UnimplementedEventQueryServiceServer) GetAggregateRoots(*emptypb.Empty, grpc.ServerStreamingServer[AggregateRoot]) error {
	return status.Error(codes.Unimplemented, "method GetAggregateRoots not implemented")
}

func RegisterEventQueryServiceServer(s grpc.ServiceRegistrar, srv EventQueryServiceServer) {
	s.RegisterService(&EventQueryService_ServiceDesc, srv)
}

func _EventQueryService_GetEventBook_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Query)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EventQueryServiceServer).GetEventBook(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/angzarr.EventQueryService/GetEventBook",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EventQueryServiceServer).GetEventBook(ctx, req.(*Query))
	}
	return interceptor(ctx, in, info, handler)
}

func _EventQueryService_GetEvents_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(Query)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(EventQueryServiceServer).GetEvents(m, &grpc.GenericServerStream[Query, EventBook]{ServerStream: stream})
}

func _EventQueryService_GetAggregateRoots_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(EventQueryServiceServer).GetAggregateRoots(m, &grpc.GenericServerStream[emptypb.Empty, AggregateRoot]{ServerStream: stream})
}

var EventQueryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "angzarr.EventQueryService",
	HandlerType: (*EventQueryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetEventBook", Handler: _EventQueryService_GetEventBook_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "GetEvents", Handler: _EventQueryService_GetEvents_Handler, ServerStreams: true},
		{StreamName: "GetAggregateRoots", Handler: _EventQueryService_GetAggregateRoots_Handler, ServerStreams: true},
	},
	Metadata: "angzarr.proto",
}

// -----------------------------------------------------------------------
// SpeculativeService: what-if execution without persistence.
// -----------------------------------------------------------------------

type SpeculativeServiceClient interface {
	DryRunCommand(ctx context.Context, in *DryRunRequest, opts ...grpc.CallOption) (*CommandResponse, error)
	SpeculateProjector(ctx context.Context, in *SpeculateProjectorRequest, opts ...grpc.CallOption) (*Projection, error)
	SpeculateSaga(ctx context.Context, in *SpeculateSagaRequest, opts ...grpc.CallOption) (*SagaResponse, error)
	SpeculateProcessManager(ctx context.Context, in *SpeculatePmRequest, opts ...grpc.CallOption) (*ProcessManagerHandleResponse, error)
}

type speculativeServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSpeculativeServiceClient(cc grpc.ClientConnInterface) SpeculativeServiceClient {
	return &speculativeServiceClient{cc}
}

func (c *speculativeServiceClient) DryRunCommand(ctx context.Context, in *DryRunRequest, opts ...grpc.CallOption) (*CommandResponse, error) {
	out := new(CommandResponse)
	if err := c.cc.Invoke(ctx, "/angzarr.SpeculativeService/DryRunCommand", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *speculativeServiceClient) SpeculateProjector(ctx context.Context, in *SpeculateProjectorRequest, opts ...grpc.CallOption) (*Projection, error) {
	out := new(Projection)
	if err := c.cc.Invoke(ctx, "/angzarr.SpeculativeService/SpeculateProjector", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *speculativeServiceClient) SpeculateSaga(ctx context.Context, in *SpeculateSagaRequest, opts ...grpc.CallOption) (*SagaResponse, error) {
	out := new(SagaResponse)
	if err := c.cc.Invoke(ctx, "/angzarr.SpeculativeService/SpeculateSaga", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *speculativeServiceClient) SpeculateProcessManager(ctx context.Context, in *SpeculatePmRequest, opts ...grpc.CallOption) (*ProcessManagerHandleResponse, error) {
	out := new(ProcessManagerHandleResponse)
	if err := c.cc.Invoke(ctx, "/angzarr.SpeculativeService/SpeculateProcessManager", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type SpeculativeServiceServer interface {
	DryRunCommand(context.Context, *DryRunRequest) (*CommandResponse, error)
	SpeculateProjector(context.Context, *SpeculateProjectorRequest) (*Projection, error)
	SpeculateSaga(context.Context, *SpeculateSagaRequest) (*SagaResponse, error)
	SpeculateProcessManager(context.Context, *SpeculatePmRequest) (*ProcessManagerHandleResponse, error)
}

type UnimplementedSpeculativeServiceServer struct{}

func (UnimplementedSpeculativeServiceServer) DryRunCommand(context.Context, *DryRunRequest) (*CommandResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DryRunCommand not implemented")
}

func (UnimplementedSpeculativeServiceServer) SpeculateProjector(context.Context, *SpeculateProjectorRequest) (*Projection, error) {
	return nil, status.Error(codes.Unimplemented, "method SpeculateProjector not implemented")
}

func (UnimplementedSpeculativeServiceServer) SpeculateSaga(context.Context, *SpeculateSagaRequest) (*SagaResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SpeculateSaga not implemented")
}

func (UnimplementedSpeculativeServiceServer) SpeculateProcessManager(context.Context, *SpeculatePmRequest) (*ProcessManagerHandleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SpeculateProcessManager not implemented")
}

func RegisterSpeculativeServiceServer(s grpc.ServiceRegistrar, srv SpeculativeServiceServer) {
	s.RegisterService(&SpeculativeService_ServiceDesc, srv)
}

func _SpeculativeService_DryRunCommand_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DryRunRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SpeculativeServiceServer).DryRunCommand(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/angzarr.SpeculativeService/DryRunCommand",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SpeculativeServiceServer).DryRunCommand(ctx, req.(*DryRunRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SpeculativeService_SpeculateProjector_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SpeculateProjectorRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SpeculativeServiceServer).SpeculateProjector(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/angzarr.SpeculativeService/SpeculateProjector",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SpeculativeServiceServer).SpeculateProjector(ctx, req.(*SpeculateProjectorRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SpeculativeService_SpeculateSaga_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SpeculateSagaRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SpeculativeServiceServer).SpeculateSaga(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/angzarr.SpeculativeService/SpeculateSaga",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SpeculativeServiceServer).SpeculateSaga(ctx, req.(*SpeculateSagaRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SpeculativeService_SpeculateProcessManager_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SpeculatePmRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SpeculativeServiceServer).SpeculateProcessManager(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/angzarr.SpeculativeService/SpeculateProcessManager",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SpeculativeServiceServer).SpeculateProcessManager(ctx, req.(*SpeculatePmRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var SpeculativeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "angzarr.SpeculativeService",
	HandlerType: (*SpeculativeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "DryRunCommand", Handler: _SpeculativeService_DryRunCommand_Handler},
		{MethodName: "SpeculateProjector", Handler: _SpeculativeService_SpeculateProjector_Handler},
		{MethodName: "SpeculateSaga", Handler: _SpeculativeService_SpeculateSaga_Handler},
		{MethodName: "SpeculateProcessManager", Handler: _SpeculativeService_SpeculateProcessManager_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "angzarr.proto",
}
