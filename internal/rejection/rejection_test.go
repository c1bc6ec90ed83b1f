package rejection

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
)

// fakeRejectionClient answers HandleRejection with a canned response,
// recording every Notification it receives.
type fakeRejectionClient struct {
	resp *pb.RevocationResponse
	err  error
	seen []*pb.Notification
}

func (f *fakeRejectionClient) HandleRejection(ctx context.Context, in *pb.Notification, opts ...grpc.CallOption) (*pb.RevocationResponse, error) {
	f.seen = append(f.seen, in)
	return f.resp, f.err
}

// fakeHandlers maps issuer names to canned rejection clients.
type fakeHandlers struct {
	clients map[string]*fakeRejectionClient
}

func (f *fakeHandlers) Rejection(name string) (pb.RejectionServiceClient, error) {
	c, ok := f.clients[name]
	if !ok {
		return nil, errNotFound(name)
	}
	return c, nil
}

type errNotFound string

func (e errNotFound) Error() string { return "no rejection handler for " + string(e) }

// fakeExecutor records every compensation command handed to Execute.
type fakeExecutor struct {
	executed []*pb.CommandBook
}

func (f *fakeExecutor) Execute(ctx context.Context, cmd *pb.CommandBook) (*pb.EventBook, error) {
	f.executed = append(f.executed, cmd)
	return &pb.EventBook{Cover: cmd.GetCover(), NextSequence: 1}, nil
}

func newTestCover(domain string) *pb.Cover {
	return model.NewCover(domain, uuid.New(), "corr")
}

// Route must call the issuer's RejectionService and run any Compensation it
// returns through the CommandExecutor.
func TestRoute_RunsCompensation(t *testing.T) {
	comp := &pb.CommandBook{Cover: newTestCover("billing")}
	client := &fakeRejectionClient{resp: &pb.RevocationResponse{Compensation: comp}}
	handlers := &fakeHandlers{clients: map[string]*fakeRejectionClient{"refund-saga": client}}
	exec := &fakeExecutor{}
	r := New(handlers, exec, nil, nil)

	rejected := &pb.CommandBook{Cover: newTestCover("shipping")}
	err := r.Route(context.Background(), "refund-saga", "saga", newTestCover("shipping"), rejected, 3, "insufficient stock")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(client.seen) != 1 {
		t.Fatalf("expected one notification delivered, got %d", len(client.seen))
	}
	if len(exec.executed) != 1 {
		t.Fatalf("expected compensation command executed, got %d", len(exec.executed))
	}
}

// Route must follow an Escalate+Upstream chain to the next issuer, and stop
// once a handler answers without Escalate.
func TestRoute_EscalatesToUpstream(t *testing.T) {
	leafResp := &pb.RevocationResponse{}
	leaf := &fakeRejectionClient{resp: leafResp}

	upstream := &pb.RejectionNotification{IssuerName: "parent-pm", IssuerType: "process_manager"}
	root := &fakeRejectionClient{resp: &pb.RevocationResponse{Escalate: true, Upstream: upstream}}

	handlers := &fakeHandlers{clients: map[string]*fakeRejectionClient{
		"refund-saga": root,
		"parent-pm":   leaf,
	}}
	exec := &fakeExecutor{}
	r := New(handlers, exec, nil, nil)

	err := r.Route(context.Background(), "refund-saga", "saga", newTestCover("shipping"), &pb.CommandBook{}, 1, "rejected")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(root.seen) != 1 {
		t.Fatalf("expected root issuer notified once, got %d", len(root.seen))
	}
	if len(leaf.seen) != 1 {
		t.Fatalf("expected escalation to reach parent-pm once, got %d", len(leaf.seen))
	}
}

// Route must stop, not error, when Escalate is set with no Upstream link —
// the issuer has no known causal parent to forward to.
func TestRoute_EscalateWithoutUpstreamStops(t *testing.T) {
	client := &fakeRejectionClient{resp: &pb.RevocationResponse{Escalate: true}}
	handlers := &fakeHandlers{clients: map[string]*fakeRejectionClient{"refund-saga": client}}
	r := New(handlers, &fakeExecutor{}, nil, nil)

	err := r.Route(context.Background(), "refund-saga", "saga", newTestCover("shipping"), &pb.CommandBook{}, 1, "rejected")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(client.seen) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(client.seen))
	}
}
