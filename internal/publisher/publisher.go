// Package publisher implements the fan-out bus (§4.7): after every commit,
// the coordinator hands the committed EventBook to Bus.Publish, which
// delivers it to every subscribed saga, process manager and projector,
// preserving per-aggregate FIFO order and checkpointing delivery in the
// PositionStore so a crashed process resumes exactly where it left off.
package publisher

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/angzarr-io/angzarr/internal/coordinator"
	"github.com/angzarr-io/angzarr/internal/metrics"
	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/store"
)

// DefaultQueueSize bounds each handler's pending-delivery channel.
const DefaultQueueSize = 256

// Deliverer actually hands a batch to a subscribed component, dispatching on
// its declared component_type. internal/dispatcher implements this for
// "saga", "process_manager" and "projector" alike.
type Deliverer interface {
	Deliver(ctx context.Context, handlerName, componentType string, batch *pb.EventBook) error
}

type delivery struct {
	key  store.AggregateKey
	book *pb.EventBook
}

type handlerQueue struct {
	name string
	ch   chan delivery
}

// Bus is the coordinator's fan-out publisher. It satisfies
// coordinator.Publisher.
type Bus struct {
	mu sync.Mutex

	events    store.EventStore
	positions store.PositionStore
	registry  *coordinator.Registry
	deliverer Deliverer
	metrics   *metrics.Metrics
	log       *zap.Logger

	queueSize int
	queues    map[string]*handlerQueue

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a Bus bound to backend's event/position stores, routing
// fan-out decisions through registry and handing matched deliveries to
// deliverer. ctx governs the lifetime of every handler worker goroutine;
// cancelling it drains in-flight deliveries and stops accepting new ones.
func New(ctx context.Context, backend store.Backend, registry *coordinator.Registry, deliverer Deliverer, met *metrics.Metrics, log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	busCtx, cancel := context.WithCancel(ctx)
	return &Bus{
		events:    backend.Events(),
		positions: backend.Positions(),
		registry:  registry,
		deliverer: deliverer,
		metrics:   met,
		log:       log,
		queueSize: DefaultQueueSize,
		queues:    make(map[string]*handlerQueue),
		ctx:       busCtx,
		cancel:    cancel,
	}
}

// Publish implements coordinator.Publisher: it resolves every handler
// subscribed to committed's domain and enqueues delivery to each, falling
// back to an out-of-band replay-from-position, started on its own goroutine,
// when a handler's queue is full (§4.7 backpressure).
func (b *Bus) Publish(ctx context.Context, committed *pb.EventBook) {
	cover := committed.GetCover()
	domain := cover.GetDomain()
	root, ok := model.RootUUID(cover)
	if !ok {
		b.log.Error("publisher: committed book has no valid root", zap.String("domain", domain))
		return
	}
	key := store.AggregateKey{Domain: domain, Edition: model.Edition(cover), Root: root}

	for _, name := range b.registry.SubscribersFor(domain) {
		b.enqueue(name, key, committed)
	}
}

func (b *Bus) queueFor(name string) *handlerQueue {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.queues[name]
	if ok {
		return q
	}
	q = &handlerQueue{name: name, ch: make(chan delivery, b.queueSize)}
	b.queues[name] = q
	b.wg.Add(1)
	go b.runWorker(q)
	return q
}

func (b *Bus) enqueue(name string, key store.AggregateKey, book *pb.EventBook) {
	q := b.queueFor(name)
	select {
	case q.ch <- delivery{key: key, book: book}:
		if b.metrics != nil {
			b.metrics.PublisherQueueDepth.WithLabelValues(name).Set(float64(len(q.ch)))
		}
	default:
		// Queue full: the writer must never block (§4.7 backpressure). Fall
		// back to an out-of-band replay from the handler's last checkpoint
		// instead of dropping the batch on the floor.
		b.log.Warn("publisher queue full, falling back to replay", zap.String("handler", name))
		go b.replay(b.ctx, name, key)
	}
}

func (b *Bus) runWorker(q *handlerQueue) {
	defer b.wg.Done()
	for {
		select {
		case d, ok := <-q.ch:
			if !ok {
				return
			}
			b.deliverOnce(b.ctx, q.name, d.key, d.book)
			if b.metrics != nil {
				b.metrics.PublisherQueueDepth.WithLabelValues(q.name).Set(float64(len(q.ch)))
			}
		case <-b.ctx.Done():
			return
		}
	}
}

// deliverOnce filters book down to pages the handler has not yet
// checkpointed past, delivers the remainder, and advances the checkpoint on
// success. Handlers are expected to be idempotent, so an at-least-once
// redelivery of already-processed pages is safe, but filtering keeps the
// common case cheap.
func (b *Bus) deliverOnce(ctx context.Context, name string, key store.AggregateKey, book *pb.EventBook) {
	pos, err := b.positions.Position(ctx, name, key)
	if err != nil {
		b.log.Error("publisher: position lookup failed", zap.String("handler", name), zap.Error(err))
		return
	}

	pages := pagesAfter(book.GetPages(), pos)
	if len(pages) == 0 {
		return
	}
	batch := &pb.EventBook{Cover: book.GetCover(), Pages: pages, NextSequence: book.GetNextSequence()}

	componentType := b.registry.ComponentType(name)
	outcome := "delivered"
	if err := b.deliverer.Deliver(ctx, name, componentType, batch); err != nil {
		outcome = "failed"
		b.log.Warn("publisher: delivery failed", zap.String("handler", name), zap.Error(err))
	} else {
		last := pages[len(pages)-1].GetSequence()
		if commitErr := b.positions.Commit(ctx, name, key, last); commitErr != nil {
			b.log.Error("publisher: checkpoint commit failed", zap.String("handler", name), zap.Error(commitErr))
		}
	}
	if b.metrics != nil {
		b.metrics.PublisherDeliveriesTotal.WithLabelValues(name, outcome).Inc()
	}
}

// pagesAfter returns the pages whose sequence is strictly greater than pos,
// plus the sequence-0 page when pos is 0 (a position of 0 also means nothing
// has been committed yet).
func pagesAfter(pages []*pb.EventPage, pos uint32) []*pb.EventPage {
	out := make([]*pb.EventPage, 0, len(pages))
	for _, p := range pages {
		if p.GetSequence() > pos || (pos == 0 && p.GetSequence() == 0) {
			out = append(out, p)
		}
	}
	return out
}

// replay reloads key's stream from handler's last checkpoint and delivers
// it synchronously, bypassing the (full) queue entirely.
func (b *Bus) replay(ctx context.Context, name string, key store.AggregateKey) {
	pos, err := b.positions.Position(ctx, name, key)
	if err != nil {
		b.log.Error("publisher: replay position lookup failed", zap.String("handler", name), zap.Error(err))
		return
	}
	pages, err := b.events.Load(ctx, key, pos)
	if err != nil {
		b.log.Error("publisher: replay load failed", zap.String("handler", name), zap.Error(err))
		return
	}
	if len(pages) == 0 {
		return
	}
	book := &pb.EventBook{
		Cover:        &pb.Cover{Domain: key.Domain, Root: model.UUIDToProto(key.Root), Edition: &pb.Edition{Name: key.Edition}},
		Pages:        pages,
		NextSequence: pages[len(pages)-1].GetSequence() + 1,
	}
	b.deliverOnce(ctx, name, key, book)
}

// Recover scans every known aggregate of every subscribed component's input
// domains and resumes delivery from each handler's last committed position
// (§4.6 crash semantics: "no events are ever lost"). Call once at startup
// before accepting new commands.
func (b *Bus) Recover(ctx context.Context) error {
	for _, desc := range b.registry.Components() {
		for _, target := range desc.GetInputs() {
			domain := target.GetDomain()
			if domain == "" || domain == "*" {
				continue
			}
			roots, err := b.events.Roots(ctx, domain)
			if err != nil {
				return err
			}
			for _, key := range roots {
				b.replay(ctx, desc.GetName(), key)
			}
		}
	}
	return nil
}

// Close cancels every handler worker and waits for in-flight deliveries to
// finish.
func (b *Bus) Close() {
	b.cancel()
	b.wg.Wait()
}
