package query

import (
	"context"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/pb"
)

// DryRunCommand runs cmd against req.Events (or an empty book, for a
// not-yet-created aggregate) without appending or publishing (§4.10).
func (s *Service) DryRunCommand(ctx context.Context, req *pb.DryRunRequest) (*pb.CommandResponse, error) {
	cmd := req.GetCommand()
	prior := req.GetEvents()
	if prior == nil {
		prior = &pb.EventBook{Cover: cmd.GetCover(), NextSequence: 0}
	}
	result, err := s.dryrun.DryRun(ctx, cmd, prior)
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	return &pb.CommandResponse{Events: result, CorrelationId: cmd.GetCorrelationId()}, nil
}

// SpeculateProjector hands req.Events to projector's speculative surface
// rather than its durable one, so a caller can preview a projection without
// the projector committing any side effect it might otherwise perform.
func (s *Service) SpeculateProjector(ctx context.Context, req *pb.SpeculateProjectorRequest) (*pb.Projection, error) {
	client, err := s.handlers.Projector(req.GetProjector())
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	proj, err := client.HandleSpeculative(ctx, req.GetEvents())
	if err != nil {
		return nil, errs.ToStatus(errs.FromStatus(err))
	}
	return proj, nil
}

// SpeculateSaga runs saga's Execute phase directly against caller-supplied
// source and destination state, skipping Prepare and the dispatcher's own
// destination resolution — the caller has already decided what state to
// speculate against.
func (s *Service) SpeculateSaga(ctx context.Context, req *pb.SpeculateSagaRequest) (*pb.SagaResponse, error) {
	client, err := s.handlers.Saga(req.GetSaga())
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	resp, err := client.Execute(ctx, &pb.SagaExecuteRequest{Source: req.GetSource(), Destinations: req.GetDestinations()})
	if err != nil {
		return nil, errs.ToStatus(errs.FromStatus(err))
	}
	return resp, nil
}

// SpeculateProcessManager mirrors SpeculateSaga for a process manager's
// Handle phase, given caller-supplied trigger, process state and destinations.
func (s *Service) SpeculateProcessManager(ctx context.Context, req *pb.SpeculatePmRequest) (*pb.ProcessManagerHandleResponse, error) {
	client, err := s.handlers.ProcessManager(req.GetProcessManager())
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	resp, err := client.Handle(ctx, &pb.ProcessManagerHandleRequest{
		Trigger:      req.GetTrigger(),
		ProcessState: req.GetProcessState(),
		Destinations: req.GetDestinations(),
	})
	if err != nil {
		return nil, errs.ToStatus(errs.FromStatus(err))
	}
	return resp, nil
}
