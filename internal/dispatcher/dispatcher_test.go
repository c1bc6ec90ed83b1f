package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/store"
	"github.com/angzarr-io/angzarr/internal/store/memstore"
)

// fakeExecutor records every CommandBook handed to Execute and reports
// success, except for commands whose cover domain equals failDomain, standing
// in for a real Coordinator.
type fakeExecutor struct {
	executed   []*pb.CommandBook
	failDomain string
}

func (f *fakeExecutor) Execute(ctx context.Context, cmd *pb.CommandBook) (*pb.EventBook, error) {
	f.executed = append(f.executed, cmd)
	if f.failDomain != "" && cmd.GetCover().GetDomain() == f.failDomain {
		return nil, errors.New("fake executor: command failed")
	}
	return &pb.EventBook{Cover: cmd.GetCover(), NextSequence: 1}, nil
}

func newTestBackend(t *testing.T) store.Backend {
	t.Helper()
	backend, err := memstore.New()
	if err != nil {
		t.Fatalf("memstore.New: %v", err)
	}
	return backend
}

// ownStateKey must be stable across calls for the same handler name, since
// the dispatcher relies on it to always find the same process-manager
// stream.
func TestOwnStateKey_Deterministic(t *testing.T) {
	a := ownStateKey("refund-pm")
	b := ownStateKey("refund-pm")
	if a.Root != b.Root {
		t.Fatalf("expected deterministic root for the same handler name, got %v and %v", a.Root, b.Root)
	}
	other := ownStateKey("shipping-pm")
	if a.Root == other.Root {
		t.Fatal("expected distinct handler names to map to distinct own-state roots")
	}
}

// dispatchCommands must run every command even when an earlier one fails,
// since saga/PM dispatch has no cross-aggregate atomicity (§4.8).
func TestDispatchCommands_ContinuesPastFailure(t *testing.T) {
	backend := newTestBackend(t)
	exec := &fakeExecutor{failDomain: "shipping"}
	d := New(backend, nil, exec, nil, nil)

	cmds := []*pb.CommandBook{
		{Cover: model.NewCover("shipping", uuid.New(), "c1")},
		{Cover: model.NewCover("billing", uuid.New(), "c2")},
	}
	if err := d.dispatchCommands(context.Background(), "test-saga", "saga", 1, cmds); err == nil {
		t.Fatal("expected the first command's failure to be reported")
	}
	if len(exec.executed) != 2 {
		t.Fatalf("expected both commands executed, got %d", len(exec.executed))
	}
}

// loadDestinations resolves a prepared Cover against an empty store to an
// EventBook at sequence zero, not an error — a saga may legitimately name a
// destination aggregate that has never been written to yet.
func TestLoadDestinations_FreshAggregate(t *testing.T) {
	backend := newTestBackend(t)
	d := New(backend, nil, &fakeExecutor{}, nil, nil)

	cover := model.NewCover("inventory", uuid.New(), "corr")
	books, err := d.loadDestinations(context.Background(), []*pb.Cover{cover})
	if err != nil {
		t.Fatalf("loadDestinations: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("expected one book, got %d", len(books))
	}
	if books[0].GetNextSequence() != 0 {
		t.Fatalf("expected next_sequence 0 for a fresh aggregate, got %d", books[0].GetNextSequence())
	}
}
