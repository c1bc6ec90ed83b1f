// Package query implements the coordinator's read-only surface (§4.10):
// EventQueryService answers point-in-time and range reads composed across
// edition forks the same way the coordinator's own write path does, and
// SpeculativeService runs a command, saga, process manager or projector
// against caller-supplied state without persisting or publishing anything.
package query

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/angzarr-io/angzarr/internal/edition"
	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/metrics"
	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/store"
)

// DryRunner executes a command against caller-supplied prior state without
// touching the store. Satisfied by *coordinator.Coordinator.
type DryRunner interface {
	DryRun(ctx context.Context, cmd *pb.CommandBook, prior *pb.EventBook) (*pb.EventBook, error)
}

// HandlerClients resolves the saga/process-manager/projector clients a
// Speculate* call dispatches to directly, bypassing the two-phase protocol's
// own state loading since the caller supplies Destinations itself.
type HandlerClients interface {
	Saga(name string) (pb.SagaServiceClient, error)
	ProcessManager(name string) (pb.ProcessManagerServiceClient, error)
	Projector(name string) (pb.ProjectorServiceClient, error)
}

// correlationIndex is an optional capability a store.EventStore backend may
// implement to answer query_by_correlation (spec §4.2) directly. None of the
// four bundled backends implements one; Service returns FailedPrecondition
// when the active backend does not satisfy it, rather than
// scanning every stream, which load_by_correlation is not specified to do
// efficiently enough to fake here.
type correlationIndex interface {
	LoadByCorrelation(ctx context.Context, correlationID string) ([]*pb.EventPage, error)
}

// Service answers both EventQueryServiceServer and SpeculativeServiceServer.
type Service struct {
	pb.UnimplementedEventQueryServiceServer
	pb.UnimplementedSpeculativeServiceServer

	events   store.EventStore
	editions *edition.Engine
	dryrun   DryRunner
	handlers HandlerClients
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// New constructs a Service over backend's event store.
func New(backend store.Backend, dryrun DryRunner, handlers HandlerClients, met *metrics.Metrics, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		events:   backend.Events(),
		editions: edition.New(backend.Events()),
		dryrun:   dryrun,
		handlers: handlers,
		metrics:  met,
		log:      log,
	}
}

// GetEventBook resolves q's cover and selection to a single composed
// EventBook (§4.10).
func (s *Service) GetEventBook(ctx context.Context, q *pb.Query) (*pb.EventBook, error) {
	book, err := s.resolve(ctx, q)
	if err != nil {
		return nil, errs.ToStatus(err)
	}
	return book, nil
}

// GetEvents streams the same resolved window as GetEventBook, one page per
// message, so a caller does not need to buffer a long-lived aggregate's
// entire history in memory.
func (s *Service) GetEvents(q *pb.Query, stream grpc.ServerStreamingServer[pb.EventBook]) error {
	book, err := s.resolve(stream.Context(), q)
	if err != nil {
		return errs.ToStatus(err)
	}
	for _, page := range book.GetPages() {
		msg := &pb.EventBook{Cover: book.GetCover(), Pages: []*pb.EventPage{page}, NextSequence: page.GetSequence() + 1}
		if err := stream.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

// GetAggregateRoots streams every aggregate root the store knows about
// across every domain.
func (s *Service) GetAggregateRoots(_ *emptypb.Empty, stream grpc.ServerStreamingServer[pb.AggregateRoot]) error {
	roots, err := s.events.Roots(stream.Context(), "")
	if err != nil {
		return errs.ToStatus(err)
	}
	for _, root := range roots {
		msg := &pb.AggregateRoot{Domain: root.Domain, Root: model.UUIDToProto(root.Root)}
		if err := stream.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

// QueryByCorrelation is an additional read surface beyond the generated
// EventQueryServiceServer interface (the bundled wire schema has no RPC for
// it — see DESIGN.md): it returns every event page across every aggregate
// carrying correlationID, ordered by creation time, when the active backend
// exposes a correlation index.
func (s *Service) QueryByCorrelation(ctx context.Context, correlationID string) ([]*pb.EventPage, error) {
	idx, ok := s.events.(correlationIndex)
	if !ok {
		return nil, errs.FailedPrecondition("query: active store backend has no correlation index")
	}
	pages, err := idx.LoadByCorrelation(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].GetCreatedAt().AsTime().Before(pages[j].GetCreatedAt().AsTime())
	})
	return pages, nil
}

// resolve composes q's selected window: the full edition-aware load, then a
// range or temporal filter applied over the composed pages.
func (s *Service) resolve(ctx context.Context, q *pb.Query) (*pb.EventBook, error) {
	cover := q.GetCover()
	if cover == nil {
		return nil, errs.InvalidArgument("query: request has no cover")
	}
	root, ok := model.RootUUID(cover)
	if !ok {
		return nil, errs.InvalidArgument("query: cover.root is not a valid UUID")
	}
	key := store.AggregateKey{Domain: cover.GetDomain(), Edition: model.Edition(cover), Root: root}

	from := uint32(0)
	if r := q.GetRange(); r != nil {
		from = r.GetLower()
	}

	pages, err := s.editions.Load(ctx, key, cover.GetEdition(), from)
	if err != nil {
		return nil, errs.Wrap(errs.KindTransient, "query: event load failed", err)
	}
	head, err := s.editions.Head(ctx, key, cover.GetEdition())
	if err != nil {
		return nil, errs.Wrap(errs.KindTransient, "query: head lookup failed", err)
	}

	pages = applySelection(pages, q)

	return &pb.EventBook{Cover: cover, Pages: pages, NextSequence: head}, nil
}

// applySelection narrows pages to q's range upper bound or temporal
// point-in-time, whichever (if either) is set. A Query with neither selects
// the whole window returned by resolve's edition-aware load.
func applySelection(pages []*pb.EventPage, q *pb.Query) []*pb.EventPage {
	if r := q.GetRange(); r != nil && r.Upper != nil {
		upper := *r.Upper
		out := pages[:0:0]
		for _, p := range pages {
			if p.GetSequence() <= upper {
				out = append(out, p)
			}
		}
		return out
	}

	t := q.GetTemporal()
	if t == nil {
		return pages
	}
	switch pit := t.PointInTime.(type) {
	case *pb.TemporalQuery_AsOfSequence:
		out := pages[:0:0]
		for _, p := range pages {
			if p.GetSequence() <= pit.AsOfSequence {
				out = append(out, p)
			}
		}
		return out
	case *pb.TemporalQuery_AsOfTime:
		cutoff := pit.AsOfTime.AsTime()
		out := pages[:0:0]
		for _, p := range pages {
			if !p.GetCreatedAt().AsTime().After(cutoff) {
				out = append(out, p)
			}
		}
		return out
	default:
		return pages
	}
}
