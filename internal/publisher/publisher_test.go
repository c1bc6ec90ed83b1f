package publisher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angzarr-io/angzarr/internal/coordinator"
	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/store"
	"github.com/angzarr-io/angzarr/internal/store/memstore"
)

// recordingDeliverer records every delivered batch and signals a channel so
// tests don't need to poll or sleep for the async worker.
type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []*pb.EventBook
	notify    chan struct{}
}

func newRecordingDeliverer() *recordingDeliverer {
	return &recordingDeliverer{notify: make(chan struct{}, 64)}
}

func (r *recordingDeliverer) Deliver(ctx context.Context, handlerName, componentType string, batch *pb.EventBook) error {
	r.mu.Lock()
	r.delivered = append(r.delivered, batch)
	r.mu.Unlock()
	r.notify <- struct{}{}
	return nil
}

func (r *recordingDeliverer) snapshot() []*pb.EventBook {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*pb.EventBook, len(r.delivered))
	copy(out, r.delivered)
	return out
}

func (r *recordingDeliverer) awaitDeliveries(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.notify:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d/%d", i+1, n)
		}
	}
}

func newTestBus(t *testing.T, registry *coordinator.Registry, deliverer Deliverer) (*Bus, store.Backend) {
	t.Helper()
	backend, err := memstore.New()
	if err != nil {
		t.Fatalf("memstore.New: %v", err)
	}
	bus := New(context.Background(), backend, registry, deliverer, nil, nil)
	return bus, backend
}

func committedBook(domain string, root uuid.UUID, seq uint32) *pb.EventBook {
	cover := model.NewCover(domain, root, "corr")
	return &pb.EventBook{
		Cover:        cover,
		Pages:        []*pb.EventPage{{Sequence: seq, Event: nil}},
		NextSequence: seq + 1,
	}
}

// A committed batch on a subscribed domain reaches its subscriber exactly
// once.
func TestPublish_DeliversToSubscriber(t *testing.T) {
	registry := coordinator.NewRegistry()
	registry.RegisterComponent("orders-projector", &pb.ComponentDescriptor{
		Name:          "orders-projector",
		ComponentType: "projector",
		Inputs:        []*pb.Target{{Domain: "orders"}},
	})
	deliverer := newRecordingDeliverer()
	bus, _ := newTestBus(t, registry, deliverer)
	defer bus.Close()

	root := uuid.New()
	bus.Publish(context.Background(), committedBook("orders", root, 0))
	deliverer.awaitDeliveries(t, 1)

	got := deliverer.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected exactly one delivery, got %d", len(got))
	}
	if got[0].GetCover().GetDomain() != "orders" {
		t.Fatalf("unexpected domain delivered: %q", got[0].GetCover().GetDomain())
	}
}

// A batch on a domain with no subscribers is simply not delivered anywhere.
func TestPublish_NoSubscribersIsNoop(t *testing.T) {
	registry := coordinator.NewRegistry()
	deliverer := newRecordingDeliverer()
	bus, _ := newTestBus(t, registry, deliverer)
	defer bus.Close()

	bus.Publish(context.Background(), committedBook("shipping", uuid.New(), 0))

	select {
	case <-deliverer.notify:
		t.Fatal("expected no delivery for an unsubscribed domain")
	case <-time.After(100 * time.Millisecond):
	}
}

// Two successive commits on the same aggregate are delivered in commit
// order to the same handler (per-aggregate FIFO, §4.7).
func TestPublish_PerAggregateFIFO(t *testing.T) {
	registry := coordinator.NewRegistry()
	registry.RegisterComponent("orders-projector", &pb.ComponentDescriptor{
		Name:          "orders-projector",
		ComponentType: "projector",
		Inputs:        []*pb.Target{{Domain: "orders"}},
	})
	deliverer := newRecordingDeliverer()
	bus, _ := newTestBus(t, registry, deliverer)
	defer bus.Close()

	root := uuid.New()
	bus.Publish(context.Background(), committedBook("orders", root, 0))
	bus.Publish(context.Background(), committedBook("orders", root, 1))
	deliverer.awaitDeliveries(t, 2)

	got := deliverer.snapshot()
	if len(got) != 2 {
		t.Fatalf("expected two deliveries, got %d", len(got))
	}
	if got[0].GetPages()[0].GetSequence() != 0 || got[1].GetPages()[0].GetSequence() != 1 {
		t.Fatalf("deliveries out of order: %v then %v", got[0].GetPages()[0].GetSequence(), got[1].GetPages()[0].GetSequence())
	}
}

// Recover replays every known aggregate of a subscribed domain from its
// checkpoint, so a handler started fresh against an already-populated store
// still sees every unacknowledged event.
func TestRecover_ReplaysFromCheckpoint(t *testing.T) {
	registry := coordinator.NewRegistry()
	registry.RegisterComponent("orders-projector", &pb.ComponentDescriptor{
		Name:          "orders-projector",
		ComponentType: "projector",
		Inputs:        []*pb.Target{{Domain: "orders"}},
	})

	backend, err := memstore.New()
	if err != nil {
		t.Fatalf("memstore.New: %v", err)
	}
	root := uuid.New()
	key := store.AggregateKey{Domain: "orders", Edition: model.DefaultEdition, Root: root}
	if err := backend.Events().Append(context.Background(), key, 0, []*pb.EventPage{{Sequence: 0, Event: nil}}); err != nil {
		t.Fatalf("seed append: %v", err)
	}

	deliverer := newRecordingDeliverer()
	bus := New(context.Background(), backend, registry, deliverer, nil, nil)
	defer bus.Close()

	if err := bus.Recover(context.Background()); err != nil {
		t.Fatalf("Recover: %v", err)
	}
	deliverer.awaitDeliveries(t, 1)

	got := deliverer.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected recovery to deliver the pre-existing event once, got %d", len(got))
	}
}
