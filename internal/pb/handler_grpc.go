package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// -----------------------------------------------------------------------
// AggregateService: business logic the coordinator calls out to (§4.6d).
// -----------------------------------------------------------------------

type AggregateServiceClient interface {
	Handle(ctx context.Context, in *ContextualCommand, opts ...grpc.CallOption) (*BusinessResponse, error)
	HandleSync(ctx context.Context, in *ContextualCommand, opts ...grpc.CallOption) (*BusinessResponse, error)
	Replay(ctx context.Context, in *ReplayRequest, opts ...grpc.CallOption) (*ReplayResponse, error)
}

type aggregateServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAggregateServiceClient(cc grpc.ClientConnInterface) AggregateServiceClient {
	return &aggregateServiceClient{cc}
}

func (c *aggregateServiceClient) Handle(ctx context.Context, in *ContextualCommand, opts ...grpc.CallOption) (*BusinessResponse, error) {
	out := new(BusinessResponse)
	if err := c.cc.Invoke(ctx, "/angzarr.AggregateService/Handle", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aggregateServiceClient) HandleSync(ctx context.Context, in *ContextualCommand, opts ...grpc.CallOption) (*BusinessResponse, error) {
	out := new(BusinessResponse)
	if err := c.cc.Invoke(ctx, "/angzarr.AggregateService/HandleSync", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aggregateServiceClient) Replay(ctx context.Context, in *ReplayRequest, opts ...grpc.CallOption) (*ReplayResponse, error) {
	out := new(ReplayResponse)
	if err := c.cc.Invoke(ctx, "/angzarr.AggregateService/Replay", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type AggregateServiceServer interface {
	Handle(context.Context, *ContextualCommand) (*BusinessResponse, error)
	HandleSync(context.Context, *ContextualCommand) (*BusinessResponse, error)
	Replay(context.Context, *ReplayRequest) (*ReplayResponse, error)
}

type UnimplementedAggregateServiceServer struct{}

func (UnimplementedAggregateServiceServer) Handle(context.Context, *ContextualCommand) (*BusinessResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Handle not implemented")
}
func (UnimplementedAggregateServiceServer) HandleSync(context.Context, *ContextualCommand) (*BusinessResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method HandleSync not implemented")
}
func (UnimplementedAggregateServiceServer) Replay(context.Context, *ReplayRequest) (*ReplayResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Replay not implemented")
}

func RegisterAggregateServiceServer(s grpc.ServiceRegistrar, srv AggregateServiceServer) {
	s.RegisterService(&AggregateService_ServiceDesc, srv)
}

func _AggregateService_Handle_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ContextualCommand)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AggregateServiceServer).Handle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/angzarr.AggregateService/Handle"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AggregateServiceServer).Handle(ctx, req.(*ContextualCommand))
	}
	return interceptor(ctx, in, info, handler)
}

func _AggregateService_HandleSync_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ContextualCommand)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AggregateServiceServer).HandleSync(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/angzarr.AggregateService/HandleSync"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AggregateServiceServer).HandleSync(ctx, req.(*ContextualCommand))
	}
	return interceptor(ctx, in, info, handler)
}

func _AggregateService_Replay_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ReplayRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AggregateServiceServer).Replay(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/angzarr.AggregateService/Replay"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AggregateServiceServer).Replay(ctx, req.(*ReplayRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var AggregateService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "angzarr.AggregateService",
	HandlerType: (*AggregateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Handle", Handler: _AggregateService_Handle_Handler},
		{MethodName: "HandleSync", Handler: _AggregateService_HandleSync_Handler},
		{MethodName: "Replay", Handler: _AggregateService_Replay_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "angzarr.proto",
}

// -----------------------------------------------------------------------
// SagaService: two-phase prepare/execute (§4.8).
// -----------------------------------------------------------------------

type SagaServiceClient interface {
	GetDescriptor(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ComponentDescriptor, error)
	Prepare(ctx context.Context, in *SagaPrepareRequest, opts ...grpc.CallOption) (*SagaPrepareResponse, error)
	Execute(ctx context.Context, in *SagaExecuteRequest, opts ...grpc.CallOption) (*SagaResponse, error)
}

type sagaServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSagaServiceClient(cc grpc.ClientConnInterface) SagaServiceClient {
	return &sagaServiceClient{cc}
}

func (c *sagaServiceClient) GetDescriptor(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ComponentDescriptor, error) {
	out := new(ComponentDescriptor)
	if err := c.cc.Invoke(ctx, "/angzarr.SagaService/GetDescriptor", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sagaServiceClient) Prepare(ctx context.Context, in *SagaPrepareRequest, opts ...grpc.CallOption) (*SagaPrepareResponse, error) {
	out := new(SagaPrepareResponse)
	if err := c.cc.Invoke(ctx, "/angzarr.SagaService/Prepare", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sagaServiceClient) Execute(ctx context.Context, in *SagaExecuteRequest, opts ...grpc.CallOption) (*SagaResponse, error) {
	out := new(SagaResponse)
	if err := c.cc.Invoke(ctx, "/angzarr.SagaService/Execute", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type SagaServiceServer interface {
	GetDescriptor(context.Context, *emptypb.Empty) (*ComponentDescriptor, error)
	Prepare(context.Context, *SagaPrepareRequest) (*SagaPrepareResponse, error)
	Execute(context.Context, *SagaExecuteRequest) (*SagaResponse, error)
}

type UnimplementedSagaServiceServer struct{}

func (UnimplementedSagaServiceServer) GetDescriptor(context.Context, *emptypb.Empty) (*ComponentDescriptor, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDescriptor not implemented")
}
func (UnimplementedSagaServiceServer) Prepare(context.Context, *SagaPrepareRequest) (*SagaPrepareResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Prepare not implemented")
}
func (UnimplementedSagaServiceServer) Execute(context.Context, *SagaExecuteRequest) (*SagaResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Execute not implemented")
}

func RegisterSagaServiceServer(s grpc.ServiceRegistrar, srv SagaServiceServer) {
	s.RegisterService(&SagaService_ServiceDesc, srv)
}

func _SagaService_GetDescriptor_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SagaServiceServer).GetDescriptor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/angzarr.SagaService/GetDescriptor"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SagaServiceServer).GetDescriptor(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _SagaService_Prepare_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SagaPrepareRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SagaServiceServer).Prepare(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/angzarr.SagaService/Prepare"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SagaServiceServer).Prepare(ctx, req.(*SagaPrepareRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SagaService_Execute_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SagaExecuteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SagaServiceServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/angzarr.SagaService/Execute"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SagaServiceServer).Execute(ctx, req.(*SagaExecuteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var SagaService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "angzarr.SagaService",
	HandlerType: (*SagaServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetDescriptor", Handler: _SagaService_GetDescriptor_Handler},
		{MethodName: "Prepare", Handler: _SagaService_Prepare_Handler},
		{MethodName: "Execute", Handler: _SagaService_Execute_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "angzarr.proto",
}

// -----------------------------------------------------------------------
// ProcessManagerService: saga mechanism plus own event-sourced state.
// -----------------------------------------------------------------------

type ProcessManagerServiceClient interface {
	GetDescriptor(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ComponentDescriptor, error)
	Prepare(ctx context.Context, in *ProcessManagerPrepareRequest, opts ...grpc.CallOption) (*ProcessManagerPrepareResponse, error)
	Handle(ctx context.Context, in *ProcessManagerHandleRequest, opts ...grpc.CallOption) (*ProcessManagerHandleResponse, error)
}

type processManagerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProcessManagerServiceClient(cc grpc.ClientConnInterface) ProcessManagerServiceClient {
	return &processManagerServiceClient{cc}
}

func (c *processManagerServiceClient) GetDescriptor(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ComponentDescriptor, error) {
	out := new(ComponentDescriptor)
	if err := c.cc.Invoke(ctx, "/angzarr.ProcessManagerService/GetDescriptor", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *processManagerServiceClient) Prepare(ctx context.Context, in *ProcessManagerPrepareRequest, opts ...grpc.CallOption) (*ProcessManagerPrepareResponse, error) {
	out := new(ProcessManagerPrepareResponse)
	if err := c.cc.Invoke(ctx, "/angzarr.ProcessManagerService/Prepare", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *processManagerServiceClient) Handle(ctx context.Context, in *ProcessManagerHandleRequest, opts ...grpc.CallOption) (*ProcessManagerHandleResponse, error) {
	out := new(ProcessManagerHandleResponse)
	if err := c.cc.Invoke(ctx, "/angzarr.ProcessManagerService/Handle", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type ProcessManagerServiceServer interface {
	GetDescriptor(context.Context, *emptypb.Empty) (*ComponentDescriptor, error)
	Prepare(context.Context, *ProcessManagerPrepareRequest) (*ProcessManagerPrepareResponse, error)
	Handle(context.Context, *ProcessManagerHandleRequest) (*ProcessManagerHandleResponse, error)
}

type UnimplementedProcessManagerServiceServer struct{}

func (UnimplementedProcessManagerServiceServer) GetDescriptor(context.Context, *emptypb.Empty) (*ComponentDescriptor, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDescriptor not implemented")
}
func (UnimplementedProcessManagerServiceServer) Prepare(context.Context, *ProcessManagerPrepareRequest) (*ProcessManagerPrepareResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Prepare not implemented")
}
func (UnimplementedProcessManagerServiceServer) Handle(context.Context, *ProcessManagerHandleRequest) (*ProcessManagerHandleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Handle not implemented")
}

func RegisterProcessManagerServiceServer(s grpc.ServiceRegistrar, srv ProcessManagerServiceServer) {
	s.RegisterService(&ProcessManagerService_ServiceDesc, srv)
}

func _ProcessManagerService_GetDescriptor_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProcessManagerServiceServer).GetDescriptor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/angzarr.ProcessManagerService/GetDescriptor"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProcessManagerServiceServer).GetDescriptor(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _ProcessManagerService_Prepare_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ProcessManagerPrepareRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProcessManagerServiceServer).Prepare(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/angzarr.ProcessManagerService/Prepare"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProcessManagerServiceServer).Prepare(ctx, req.(*ProcessManagerPrepareRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ProcessManagerService_Handle_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ProcessManagerHandleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProcessManagerServiceServer).Handle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/angzarr.ProcessManagerService/Handle"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProcessManagerServiceServer).Handle(ctx, req.(*ProcessManagerHandleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var ProcessManagerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "angzarr.ProcessManagerService",
	HandlerType: (*ProcessManagerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetDescriptor", Handler: _ProcessManagerService_GetDescriptor_Handler},
		{MethodName: "Prepare", Handler: _ProcessManagerService_Prepare_Handler},
		{MethodName: "Handle", Handler: _ProcessManagerService_Handle_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "angzarr.proto",
}

// -----------------------------------------------------------------------
// ProjectorService: read-model builder.
// -----------------------------------------------------------------------

type ProjectorServiceClient interface {
	Handle(ctx context.Context, in *EventBook, opts ...grpc.CallOption) (*Projection, error)
	HandleSpeculative(ctx context.Context, in *EventBook, opts ...grpc.CallOption) (*Projection, error)
}

type projectorServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProjectorServiceClient(cc grpc.ClientConnInterface) ProjectorServiceClient {
	return &projectorServiceClient{cc}
}

func (c *projectorServiceClient) Handle(ctx context.Context, in *EventBook, opts ...grpc.CallOption) (*Projection, error) {
	out := new(Projection)
	if err := c.cc.Invoke(ctx, "/angzarr.ProjectorService/Handle", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *projectorServiceClient) HandleSpeculative(ctx context.Context, in *EventBook, opts ...grpc.CallOption) (*Projection, error) {
	out := new(Projection)
	if err := c.cc.Invoke(ctx, "/angzarr.ProjectorService/HandleSpeculative", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type ProjectorServiceServer interface {
	Handle(context.Context, *EventBook) (*Projection, error)
	HandleSpeculative(context.Context, *EventBook) (*Projection, error)
}

type UnimplementedProjectorServiceServer struct{}

func (UnimplementedProjectorServiceServer) Handle(context.Context, *EventBook) (*Projection, error) {
	return nil, status.Error(codes.Unimplemented, "method Handle not implemented")
}
func (UnimplementedProjectorServiceServer) HandleSpeculative(context.Context, *EventBook) (*Projection, error) {
	return nil, status.Error(codes.Unimplemented, "method HandleSpeculative not implemented")
}

func RegisterProjectorServiceServer(s grpc.ServiceRegistrar, srv ProjectorServiceServer) {
	s.RegisterService(&ProjectorService_ServiceDesc, srv)
}

func _ProjectorService_Handle_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(EventBook)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProjectorServiceServer).Handle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/angzarr.ProjectorService/Handle"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProjectorServiceServer).Handle(ctx, req.(*EventBook))
	}
	return interceptor(ctx, in, info, handler)
}

func _ProjectorService_HandleSpeculative_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(EventBook)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProjectorServiceServer).HandleSpeculative(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/angzarr.ProjectorService/HandleSpeculative"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProjectorServiceServer).HandleSpeculative(ctx, req.(*EventBook))
	}
	return interceptor(ctx, in, info, handler)
}

var ProjectorService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "angzarr.ProjectorService",
	HandlerType: (*ProjectorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Handle", Handler: _ProjectorService_Handle_Handler},
		{MethodName: "HandleSpeculative", Handler: _ProjectorService_HandleSpeculative_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "angzarr.proto",
}

// -----------------------------------------------------------------------
// RejectionService: compensation handler invoked by the rejection router.
// -----------------------------------------------------------------------

type RejectionServiceClient interface {
	HandleRejection(ctx context.Context, in *Notification, opts ...grpc.CallOption) (*RevocationResponse, error)
}

type rejectionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRejectionServiceClient(cc grpc.ClientConnInterface) RejectionServiceClient {
	return &rejectionServiceClient{cc}
}

func (c *rejectionServiceClient) HandleRejection(ctx context.Context, in *Notification, opts ...grpc.CallOption) (*RevocationResponse, error) {
	out := new(RevocationResponse)
	if err := c.cc.Invoke(ctx, "/angzarr.RejectionService/HandleRejection", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type RejectionServiceServer interface {
	HandleRejection(context.Context, *Notification) (*RevocationResponse, error)
}

type UnimplementedRejectionServiceServer struct{}

func (UnimplementedRejectionServiceServer) HandleRejection(context.Context, *Notification) (*RevocationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method HandleRejection not implemented")
}

func RegisterRejectionServiceServer(s grpc.ServiceRegistrar, srv RejectionServiceServer) {
	s.RegisterService(&RejectionService_ServiceDesc, srv)
}

func _RejectionService_HandleRejection_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Notification)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RejectionServiceServer).HandleRejection(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/angzarr.RejectionService/HandleRejection"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RejectionServiceServer).HandleRejection(ctx, req.(*Notification))
	}
	return interceptor(ctx, in, info, handler)
}

var RejectionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "angzarr.RejectionService",
	HandlerType: (*RejectionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "HandleRejection", Handler: _RejectionService_HandleRejection_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "angzarr.proto",
}
