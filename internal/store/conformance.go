package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/anypb"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/pb"
)

// RunConformance exercises the invariants every Backend must satisfy,
// regardless of the storage technology behind it (§6): dense monotonic
// sequencing, optimistic-concurrency rejection, snapshot+tail replay
// equivalence, and position-store checkpoint round-tripping. Each backend's
// own _test.go calls this against its constructor.
func RunConformance(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()
	key := AggregateKey{Domain: "orders", Edition: "angzarr", Root: uuid.New()}

	t.Run("append is dense and monotonic", func(t *testing.T) {
		head, err := b.Events().Head(ctx, key)
		if err != nil {
			t.Fatalf("Head: %v", err)
		}
		if head != 0 {
			t.Fatalf("expected empty stream head 0, got %d", head)
		}
		pages := []*pb.EventPage{
			{Sequence: 0, Event: anyOf("OrderCreated")},
			{Sequence: 1, Event: anyOf("OrderLineAdded")},
		}
		if err := b.Events().Append(ctx, key, 0, pages); err != nil {
			t.Fatalf("Append: %v", err)
		}
		head, err = b.Events().Head(ctx, key)
		if err != nil {
			t.Fatalf("Head: %v", err)
		}
		if head != 2 {
			t.Fatalf("expected head 2 after two pages, got %d", head)
		}
	})

	t.Run("append rejects a stale expected sequence", func(t *testing.T) {
		err := b.Events().Append(ctx, key, 0, []*pb.EventPage{{Sequence: 0, Event: anyOf("Stale")}})
		if !errs.Is(err, errs.KindSequenceConflict) {
			t.Fatalf("expected SequenceConflict, got %v", err)
		}
	})

	t.Run("load returns pages in sequence order from a cursor", func(t *testing.T) {
		pages, err := b.Events().Load(ctx, key, 1)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(pages) != 1 || pages[0].GetSequence() != 1 {
			t.Fatalf("expected one page at sequence 1, got %+v", pages)
		}
	})

	t.Run("snapshot plus tail reconstructs the full stream", func(t *testing.T) {
		full, err := b.Events().Load(ctx, key, 0)
		if err != nil {
			t.Fatalf("Load full: %v", err)
		}
		if err := b.Snapshots().Save(ctx, key, &pb.Snapshot{Sequence: 0, State: anyOf("OrderSnapshotV1")}); err != nil {
			t.Fatalf("Save snapshot: %v", err)
		}
		snap, err := b.Snapshots().Load(ctx, key)
		if err != nil {
			t.Fatalf("Load snapshot: %v", err)
		}
		if snap == nil || snap.GetSequence() != 0 {
			t.Fatalf("expected snapshot at sequence 0, got %+v", snap)
		}
		tail, err := b.Events().Load(ctx, key, snap.GetSequence()+1)
		if err != nil {
			t.Fatalf("Load tail: %v", err)
		}
		if len(tail) != len(full)-1 {
			t.Fatalf("expected tail to omit the snapshotted page: full=%d tail=%d", len(full), len(tail))
		}
	})

	t.Run("position store round-trips a handler checkpoint", func(t *testing.T) {
		pos, err := b.Positions().Position(ctx, "projector-a", key)
		if err != nil {
			t.Fatalf("Position: %v", err)
		}
		if pos != 0 {
			t.Fatalf("expected default position 0, got %d", pos)
		}
		if err := b.Positions().Commit(ctx, "projector-a", key, 2); err != nil {
			t.Fatalf("Commit: %v", err)
		}
		pos, err = b.Positions().Position(ctx, "projector-a", key)
		if err != nil {
			t.Fatalf("Position: %v", err)
		}
		if pos != 2 {
			t.Fatalf("expected committed position 2, got %d", pos)
		}
	})

	t.Run("delete stream removes a fork's events", func(t *testing.T) {
		forkKey := AggregateKey{Domain: "orders", Edition: "exp-1", Root: uuid.New()}
		if err := b.Events().Append(ctx, forkKey, 0, []*pb.EventPage{{Sequence: 0, Event: anyOf("ForkedEvent")}}); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if err := b.Events().DeleteStream(ctx, forkKey); err != nil {
			t.Fatalf("DeleteStream: %v", err)
		}
		head, err := b.Events().Head(ctx, forkKey)
		if err != nil {
			t.Fatalf("Head: %v", err)
		}
		if head != 0 {
			t.Fatalf("expected head 0 after delete, got %d", head)
		}
	})

	t.Run("roots reports the aggregate written above", func(t *testing.T) {
		roots, err := b.Events().Roots(ctx, "orders")
		if err != nil {
			t.Fatalf("Roots: %v", err)
		}
		found := false
		for _, r := range roots {
			if r.Root == key.Root {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected root %s among %+v", key.Root, roots)
		}
	})
}

func anyOf(typeName string) *anypb.Any {
	return &anypb.Any{TypeUrl: "type.googleapis.com/orders." + typeName}
}
