package coordinator

import (
	"context"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/pb"
)

// Server adapts a Coordinator to the gRPC AggregateCoordinatorServiceServer
// surface — the coordinator's inbound command ingress.
type Server struct {
	pb.UnimplementedAggregateCoordinatorServiceServer

	coordinator *Coordinator
}

// NewServer wraps coordinator for gRPC registration.
func NewServer(coordinator *Coordinator) *Server {
	return &Server{coordinator: coordinator}
}

// Handle serves a single CommandBook, appending its resulting events and
// publishing them before replying (§4.6).
func (s *Server) Handle(ctx context.Context, cmd *pb.CommandBook) (*pb.CommandResponse, error) {
	committed, err := s.coordinator.Execute(ctx, cmd)
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	return &pb.CommandResponse{Events: committed, CorrelationId: cmd.GetCorrelationId()}, nil
}

// HandleSync serves a SyncCommandBook exactly like Handle. The sync mode is
// not consulted: CASCADE replies as soon as the command is committed and
// published, without waiting for the saga/process-manager fan-out it
// triggers to settle.
func (s *Server) HandleSync(ctx context.Context, req *pb.SyncCommandBook) (*pb.CommandResponse, error) {
	cmd := req.GetCommand()
	committed, err := s.coordinator.Execute(ctx, cmd)
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	return &pb.CommandResponse{Events: committed, CorrelationId: cmd.GetCorrelationId()}, nil
}

// DryRunHandle executes a command against a caller-supplied EventBook
// without touching the store, the lock table or the publisher (§4.10).
func (s *Server) DryRunHandle(ctx context.Context, req *pb.DryRunRequest) (*pb.CommandResponse, error) {
	cmd := req.GetCommand()
	prior := req.GetEvents()
	if prior == nil {
		prior = &pb.EventBook{Cover: cmd.GetCover(), NextSequence: 0}
	}
	result, err := s.coordinator.DryRun(ctx, cmd, prior)
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	return &pb.CommandResponse{Events: result, CorrelationId: cmd.GetCorrelationId()}, nil
}
