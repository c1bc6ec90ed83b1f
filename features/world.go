// Package features holds the godog BDD suite covering spec.md's §8
// scenarios S1-S6. Unlike internal/coordinator's and internal/dispatcher's
// table-driven unit tests, these scenarios wire the full pipeline together
// — coordinator, dispatcher, rejection router and publisher all talking to
// real (if minimal) gRPC servers dialed through handlerclient.Registry —
// the same integration depth the teacher's own features/aggregate_client.go
// exercises for the client side, turned around to exercise the
// coordinator side instead.
package features

import (
	"context"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/angzarr-io/angzarr/internal/coordinator"
	"github.com/angzarr-io/angzarr/internal/dispatcher"
	"github.com/angzarr-io/angzarr/internal/edition"
	"github.com/angzarr-io/angzarr/internal/handlerclient"
	"github.com/angzarr-io/angzarr/internal/lock"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/publisher"
	"github.com/angzarr-io/angzarr/internal/store"
	"github.com/angzarr-io/angzarr/internal/store/memstore"
)

// world holds every scenario's live wiring. A fresh world is built per
// scenario by InitializeScenario's Before hook so scenarios never leak
// state into one another.
type world struct {
	backend    store.Backend
	registry   *coordinator.Registry
	handlers   *handlerclient.Registry
	locks      *lock.Table
	bus        *publisher.Bus
	dispatcher *dispatcher.Dispatcher
	coord      *coordinator.Coordinator
	editions   *edition.Engine

	servers []*grpc.Server

	// scenario-scoped scratch state, set and read by step functions.
	lastBook      *pb.EventBook
	lastErr       error
	lastCover     *pb.Cover
	concurrent    []error
	forkCover     *pb.Cover
	composedPages []*pb.EventPage
	dispatchErr   error
	handled       []*pb.ContextualCommand
	notifications []*pb.Notification
	targetCover   *pb.Cover
	projector     *recordingProjector
	projectorKey  store.AggregateKey

	// mu is a pointer, not an embedded value, so InitializeScenario's Before
	// hook can refresh a scenario's world in place (*w = *newWorld()) without
	// copying a locked sync.Mutex value.
	mu *sync.Mutex
}

// lazyExecutor breaks the construction cycle between the publisher's
// dispatcher (which needs a CommandExecutor) and the coordinator (which
// needs a Publisher backed by that same dispatcher) — the same indirection
// cmd/coordinator's process wiring uses.
type lazyExecutor struct {
	target dispatcher.CommandExecutor
}

func (l *lazyExecutor) Execute(ctx context.Context, cmd *pb.CommandBook) (*pb.EventBook, error) {
	return l.target.Execute(ctx, cmd)
}

func newWorld() *world {
	backend, err := memstore.New()
	if err != nil {
		panic(fmt.Sprintf("features: memstore.New: %v", err))
	}
	registry := coordinator.NewRegistry()
	handlers := handlerclient.NewRegistry()
	locks := lock.New(256)

	w := &world{
		backend:  backend,
		registry: registry,
		handlers: handlers,
		locks:    locks,
		editions: edition.New(backend.Events()),
		mu:       &sync.Mutex{},
	}

	executorRef := &lazyExecutor{}
	w.dispatcher = dispatcher.New(backend, handlers, executorRef, nil, zap.NewNop())
	w.bus = publisher.New(context.Background(), backend, registry, w.dispatcher, nil, zap.NewNop())
	w.coord = coordinator.New(backend, locks, handlers, registry, w.bus, nil, zap.NewNop())
	executorRef.target = w.coord

	return w
}

func (w *world) close() {
	w.bus.Close()
	w.handlers.Close()
	for _, s := range w.servers {
		s.Stop()
	}
	w.backend.Close()
}

// startServer listens on an ephemeral loopback port, registers whatever
// services register adds, serves in the background, and dials it back into
// w.handlers under name — standing in for an out-of-process business-logic
// handler the coordinator calls over gRPC.
func (w *world) startServer(name string, register func(*grpc.Server)) error {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	srv := grpc.NewServer()
	register(srv)
	go func() { _ = srv.Serve(lis) }()
	w.servers = append(w.servers, srv)
	return w.handlers.Dial(name, lis.Addr().String())
}

// --- minimal scriptable service implementations used across scenarios ---

type scriptedAggregate struct {
	pb.UnimplementedAggregateServiceServer
	handle func(*pb.ContextualCommand) (*pb.BusinessResponse, error)
}

func (s *scriptedAggregate) Handle(_ context.Context, in *pb.ContextualCommand) (*pb.BusinessResponse, error) {
	return s.handle(in)
}

func (s *scriptedAggregate) HandleSync(ctx context.Context, in *pb.ContextualCommand) (*pb.BusinessResponse, error) {
	return s.handle(in)
}

type scriptedSaga struct {
	pb.UnimplementedSagaServiceServer
	descriptor *pb.ComponentDescriptor
	prepare    func(*pb.SagaPrepareRequest) (*pb.SagaPrepareResponse, error)
	execute    func(*pb.SagaExecuteRequest) (*pb.SagaResponse, error)
}

func (s *scriptedSaga) GetDescriptor(context.Context, *emptypb.Empty) (*pb.ComponentDescriptor, error) {
	return s.descriptor, nil
}

func (s *scriptedSaga) Prepare(_ context.Context, in *pb.SagaPrepareRequest) (*pb.SagaPrepareResponse, error) {
	return s.prepare(in)
}

func (s *scriptedSaga) Execute(_ context.Context, in *pb.SagaExecuteRequest) (*pb.SagaResponse, error) {
	return s.execute(in)
}

type scriptedRejection struct {
	pb.UnimplementedRejectionServiceServer
	handle func(*pb.Notification) (*pb.RevocationResponse, error)
	seen   []*pb.Notification
}

func (s *scriptedRejection) HandleRejection(_ context.Context, in *pb.Notification) (*pb.RevocationResponse, error) {
	s.seen = append(s.seen, in)
	return s.handle(in)
}

type recordingProjector struct {
	pb.UnimplementedProjectorServiceServer
	mu       sync.Mutex
	received []*pb.EventBook
}

func (p *recordingProjector) Handle(_ context.Context, in *pb.EventBook) (*pb.Projection, error) {
	p.mu.Lock()
	p.received = append(p.received, in)
	p.mu.Unlock()
	return &pb.Projection{Cover: in.GetCover()}, nil
}

func (p *recordingProjector) snapshot() []*pb.EventBook {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*pb.EventBook, len(p.received))
	copy(out, p.received)
	return out
}
