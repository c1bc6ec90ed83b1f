package coordinator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/lock"
	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/store/memstore"
)

// fakeAggregateClient implements pb.AggregateServiceClient with a scriptable
// handler function, standing in for a real business-logic process dialed
// over gRPC.
type fakeAggregateClient struct {
	handle func(*pb.ContextualCommand) (*pb.BusinessResponse, error)
}

func (f *fakeAggregateClient) Handle(ctx context.Context, in *pb.ContextualCommand, opts ...grpc.CallOption) (*pb.BusinessResponse, error) {
	return f.handle(in)
}

func (f *fakeAggregateClient) HandleSync(ctx context.Context, in *pb.ContextualCommand, opts ...grpc.CallOption) (*pb.BusinessResponse, error) {
	return f.handle(in)
}

func (f *fakeAggregateClient) Replay(ctx context.Context, in *pb.ReplayRequest, opts ...grpc.CallOption) (*pb.ReplayResponse, error) {
	return &pb.ReplayResponse{State: mustAny(int64(len(in.GetEvents())))}, nil
}

// fakeHandlers satisfies HandlerClients by returning the same client for
// every name.
type fakeHandlers struct {
	client *fakeAggregateClient
}

func (f *fakeHandlers) Aggregate(name string) (pb.AggregateServiceClient, error) {
	return f.client, nil
}

// recordingPublisher records every batch handed to Publish.
type recordingPublisher struct {
	published []*pb.EventBook
}

func (r *recordingPublisher) Publish(ctx context.Context, committed *pb.EventBook) {
	r.published = append(r.published, committed)
}

func mustAny(n int64) *anypb.Any {
	a, err := anypb.New(wrapperspb.Int64(n))
	if err != nil {
		panic(err)
	}
	return a
}

func newTestCover(domain string) *pb.Cover {
	return model.NewCover(domain, uuid.New(), "corr-"+domain)
}

func newTestCoordinator(t *testing.T, handle func(*pb.ContextualCommand) (*pb.BusinessResponse, error)) (*Coordinator, *recordingPublisher) {
	t.Helper()
	backend, err := memstore.New()
	if err != nil {
		t.Fatalf("memstore.New: %v", err)
	}
	registry := NewRegistry()
	registry.RegisterAggregateHandler("orders", "orders-handler")
	pub := &recordingPublisher{}
	c := New(backend, lock.New(64), &fakeHandlers{client: &fakeAggregateClient{handle: handle}}, registry, pub, nil, nil)
	return c, pub
}

func acceptFirstPage(expectedSeq uint32) func(*pb.ContextualCommand) (*pb.BusinessResponse, error) {
	return func(cc *pb.ContextualCommand) (*pb.BusinessResponse, error) {
		next := cc.GetEvents().GetNextSequence()
		return &pb.BusinessResponse{Result: &pb.BusinessResponse_Events{Events: &pb.EventBook{
			Cover: cc.GetCommand().GetCover(),
			Pages: []*pb.EventPage{{Sequence: next, Event: mustAny(1)}},
		}}}, nil
	}
}

// S1: Fresh aggregate creation — the first command against a brand new
// aggregate is handled at sequence 0 and publishes exactly once.
func TestExecute_FreshAggregateCreation(t *testing.T) {
	c, pub := newTestCoordinator(t, acceptFirstPage(0))
	cover := newTestCover("orders")
	cmd := &pb.CommandBook{
		Cover:         cover,
		CorrelationId: cover.GetCorrelationId(),
		Pages:         []*pb.CommandPage{{Sequence: 0, Command: mustAny(1)}},
	}

	committed, err := c.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := committed.GetNextSequence(); got != 1 {
		t.Fatalf("expected next_sequence 1, got %d", got)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected exactly one publish, got %d", len(pub.published))
	}
}

// Handler-response validation (§4.6e) — a handler response whose page
// sequence doesn't match the aggregate's current head is rejected without
// writing.
func TestExecute_RejectsMismatchedSequence(t *testing.T) {
	// Handler always claims the next page is sequence 7, regardless of the
	// aggregate's actual (zero) head.
	c, pub := newTestCoordinator(t, func(cc *pb.ContextualCommand) (*pb.BusinessResponse, error) {
		return &pb.BusinessResponse{Result: &pb.BusinessResponse_Events{Events: &pb.EventBook{
			Cover: cc.GetCommand().GetCover(),
			Pages: []*pb.EventPage{{Sequence: 7, Event: mustAny(1)}},
		}}}, nil
	})
	cover := newTestCover("orders")
	cmd := &pb.CommandBook{
		Cover:         cover,
		CorrelationId: cover.GetCorrelationId(),
		Pages:         []*pb.CommandPage{{Sequence: 0, Command: mustAny(1)}},
	}

	_, err := c.Execute(context.Background(), cmd)
	if err == nil {
		t.Fatal("expected an error for a non-contiguous handler response")
	}
	if !errs.Is(err, errs.KindInternal) {
		t.Fatalf("expected KindInternal, got %v", errs.KindOf(err))
	}
	if len(pub.published) != 0 {
		t.Fatal("a rejected response must never be published")
	}
}

// A handler that returns a RevocationResponse instead of events surfaces a
// RevocationError and never appends.
func TestExecute_HandlerRevocation(t *testing.T) {
	c, pub := newTestCoordinator(t, func(cc *pb.ContextualCommand) (*pb.BusinessResponse, error) {
		return &pb.BusinessResponse{Result: &pb.BusinessResponse_Revocation{Revocation: &pb.RevocationResponse{
			Abort:  true,
			Reason: "insufficient funds",
		}}}, nil
	})
	cover := newTestCover("orders")
	cmd := &pb.CommandBook{
		Cover:         cover,
		CorrelationId: cover.GetCorrelationId(),
		Pages:         []*pb.CommandPage{{Sequence: 0, Command: mustAny(1)}},
	}

	_, err := c.Execute(context.Background(), cmd)
	var revErr *RevocationError
	if !errors.As(err, &revErr) {
		t.Fatalf("expected *RevocationError, got %v (%T)", err, err)
	}
	if revErr.Response.GetReason() != "insufficient funds" {
		t.Fatalf("unexpected revocation reason: %q", revErr.Response.GetReason())
	}
	if len(pub.published) != 0 {
		t.Fatal("a revoked command must never be published")
	}
}

// Two sequential commands against the same aggregate each see the prior
// command's committed event in their context book, and advance the
// sequence by one each time.
func TestExecute_SequentialCommandsAdvanceSequence(t *testing.T) {
	c, _ := newTestCoordinator(t, func(cc *pb.ContextualCommand) (*pb.BusinessResponse, error) {
		next := cc.GetEvents().GetNextSequence()
		return &pb.BusinessResponse{Result: &pb.BusinessResponse_Events{Events: &pb.EventBook{
			Cover: cc.GetCommand().GetCover(),
			Pages: []*pb.EventPage{{Sequence: next, Event: mustAny(1)}},
		}}}, nil
	})
	cover := newTestCover("orders")

	for i := 0; i < 3; i++ {
		cmd := &pb.CommandBook{
			Cover:         cover,
			CorrelationId: cover.GetCorrelationId(),
			Pages:         []*pb.CommandPage{{Sequence: uint32(i), Command: mustAny(1)}},
		}
		committed, err := c.Execute(context.Background(), cmd)
		if err != nil {
			t.Fatalf("Execute #%d: %v", i, err)
		}
		if got := committed.GetNextSequence(); got != uint32(i+1) {
			t.Fatalf("Execute #%d: expected next_sequence %d, got %d", i, i+1, got)
		}
	}
}
