package coordinator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/angzarr-io/angzarr/internal/edition"
	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/lock"
	"github.com/angzarr-io/angzarr/internal/logging"
	"github.com/angzarr-io/angzarr/internal/metrics"
	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/store"
)

// DefaultMaxAppendRetries bounds the load→invoke→append retry loop on
// SequenceConflict (§4.6f) before reporting exhaustion to the caller.
const DefaultMaxAppendRetries = 5

// DefaultSnapshotEvery is how many committed pages accumulate between
// automatic snapshot writes; 0 disables automatic snapshotting.
const DefaultSnapshotEvery = 50

// Publisher hands a freshly committed batch to the fan-out bus (§4.7). The
// coordinator depends only on this narrow interface, so it never imports
// internal/publisher (which imports this package for Registry).
type Publisher interface {
	Publish(ctx context.Context, committed *pb.EventBook)
}

// HandlerClients resolves the outbound AggregateServiceClient for a
// registered handler name. *handlerclient.Registry satisfies this; tests
// substitute a fake that never dials a real connection.
type HandlerClients interface {
	Aggregate(name string) (pb.AggregateServiceClient, error)
}

// RevocationError wraps a RevocationResponse returned by a business-logic
// handler in place of committed events — the handler is refusing to proceed
// and wants compensation decided upstream (§4.9). internal/rejection type-
// asserts for this to build the Notification it routes to the issuer.
type RevocationError struct {
	Cover    *pb.Cover
	Response *pb.RevocationResponse
}

func (e *RevocationError) Error() string {
	return "coordinator: handler declined with revocation: " + e.Response.GetReason()
}

// RevocationResponse and RevocationCover satisfy internal/rejection's local
// revocationResponder interface, letting it recognize a RevocationError
// through errors.As without importing this package.
func (e *RevocationError) RevocationResponse() *pb.RevocationResponse { return e.Response }
func (e *RevocationError) RevocationCover() *pb.Cover                { return e.Cover }

// Coordinator is the exclusive writer for every aggregate (§4.6): it
// serializes access per (domain, edition, root), loads prior state through
// the edition engine, invokes the domain's registered business-logic
// handler, and appends the returned events under optimistic concurrency
// before handing the committed batch to the Publisher.
type Coordinator struct {
	events    store.EventStore
	snapshots store.SnapshotStore
	editions  *edition.Engine
	locks     *lock.Table
	handlers  HandlerClients
	registry  *Registry
	publisher Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	upcasters *store.Registry

	maxRetries       int
	snapshotEvery    uint32
	snapshotStrategy pb.SnapshotStrategy
}

// WithUpcasters attaches the registry of per-domain event upcasters (§4.11)
// applied to every page loaded from storage before a handler sees it.
func (c *Coordinator) WithUpcasters(upcasters *store.Registry) *Coordinator {
	c.upcasters = upcasters
	return c
}

// New constructs a Coordinator. publisher and met may be nil in tests that
// do not exercise publication or metrics.
func New(backend store.Backend, locks *lock.Table, handlers HandlerClients, registry *Registry, publisher Publisher, met *metrics.Metrics, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		events:           backend.Events(),
		snapshots:        backend.Snapshots(),
		editions:         edition.New(backend.Events()),
		locks:            locks,
		handlers:         handlers,
		registry:         registry,
		publisher:        publisher,
		metrics:          met,
		log:              log,
		maxRetries:       DefaultMaxAppendRetries,
		snapshotEvery:    DefaultSnapshotEvery,
		snapshotStrategy: pb.SnapshotStrategy_LATEST,
	}
}

// WithSnapshotStrategy overrides the default LATEST snapshot retention
// strategy (§4.3); COMMUTATIVE retains every snapshot instead of pruning
// older ones.
func (c *Coordinator) WithSnapshotStrategy(strategy pb.SnapshotStrategy) *Coordinator {
	c.snapshotStrategy = strategy
	return c
}

func aggregateKey(cover *pb.Cover) (store.AggregateKey, error) {
	root, ok := model.RootUUID(cover)
	if !ok {
		return store.AggregateKey{}, errs.InvalidArgument("cover.root is not a valid UUID")
	}
	return store.AggregateKey{
		Domain:  cover.GetDomain(),
		Edition: model.Edition(cover),
		Root:    root,
	}, nil
}

// loadContext assembles the EventBook the business handler sees: the latest
// snapshot (if any) plus the tail of events since it, composed across
// timeline forks by the edition engine (§4.6c).
func (c *Coordinator) loadContext(ctx context.Context, key store.AggregateKey, cover *pb.Cover) (*pb.EventBook, error) {
	editionPb := cover.GetEdition()

	var snap *pb.Snapshot
	fromSeq := uint32(0)
	if c.snapshots != nil {
		var err error
		snap, err = c.snapshots.Load(ctx, key)
		if err != nil {
			return nil, errs.Wrap(errs.KindTransient, "coordinator: snapshot load failed", err)
		}
		if snap != nil {
			fromSeq = snap.GetSequence() + 1
		}
	}

	pages, err := c.editions.Load(ctx, key, editionPb, fromSeq)
	if err != nil {
		return nil, errs.Wrap(errs.KindTransient, "coordinator: event load failed", err)
	}
	if c.upcasters != nil {
		pages = c.upcasters.Apply(cover.GetDomain(), pages)
	}
	head, err := c.editions.Head(ctx, key, editionPb)
	if err != nil {
		return nil, errs.Wrap(errs.KindTransient, "coordinator: head lookup failed", err)
	}

	return &pb.EventBook{
		Cover:        cover,
		Snapshot:     snap,
		Pages:        pages,
		NextSequence: head,
	}, nil
}

// Execute runs the full command algorithm (§4.6a-h) for cmd and returns the
// committed EventBook. It is the core the gRPC Handle/HandleSync surface
// wraps, and is also what an in-process saga/PM dispatcher calls directly
// rather than round-tripping through gRPC to reach its own coordinator.
func (c *Coordinator) Execute(ctx context.Context, cmd *pb.CommandBook) (*pb.EventBook, error) {
	if err := model.ValidateCommandBook(cmd); err != nil {
		return nil, err
	}
	cover := cmd.GetCover()
	key, err := aggregateKey(cover)
	if err != nil {
		return nil, err
	}

	lockKey := model.CacheKey(cover)
	waitStart := time.Now()
	release, err := c.locks.Acquire(ctx, lockKey)
	if err != nil {
		return nil, errs.Wrap(errs.KindTransient, "coordinator: lock acquisition cancelled", err)
	}
	defer release()
	if c.metrics != nil {
		c.metrics.LockWaitDuration.Observe(time.Since(waitStart).Seconds())
		c.metrics.LockTableSize.Set(float64(c.locks.Len()))
	}

	domain := cover.GetDomain()
	appendStart := time.Now()
	committed, err := c.invokeAndAppend(ctx, key, cover, cmd, false)
	if c.metrics != nil {
		c.metrics.AppendLatency.WithLabelValues(domain).Observe(time.Since(appendStart).Seconds())
		outcome := "committed"
		switch {
		case errs.Is(err, errs.KindSequenceConflict):
			outcome = "conflict"
		case err != nil:
			outcome = "rejected"
		}
		c.metrics.AppendAttemptsTotal.WithLabelValues(domain, outcome).Inc()
	}
	if err != nil {
		return nil, err
	}

	if c.publisher != nil {
		c.publisher.Publish(ctx, committed)
	}
	return committed, nil
}

// invokeAndAppend runs steps (c)-(f), retrying from (c) on SequenceConflict
// and making at most c.maxRetries attempts in all, as required by §4.6f.
func (c *Coordinator) invokeAndAppend(ctx context.Context, key store.AggregateKey, cover *pb.Cover, cmd *pb.CommandBook, dryRun bool) (*pb.EventBook, error) {
	attempts := c.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		prior, err := c.loadContext(ctx, key, cover)
		if err != nil {
			return nil, err
		}
		expectedNext := prior.GetNextSequence()

		eventsResp, err := c.invokeHandler(ctx, cover, cmd, prior)
		if err != nil {
			return nil, err
		}

		if err := model.ValidateHandlerResponse(cover, expectedNext, eventsResp); err != nil {
			return nil, err
		}
		if err := c.editions.ValidateWrite(ctx, key, cover.GetEdition(), expectedNext); err != nil {
			return nil, err
		}

		if dryRun {
			return eventsResp, nil
		}

		if err := c.events.Append(ctx, key, expectedNext, eventsResp.GetPages()); err != nil {
			if errs.Is(err, errs.KindSequenceConflict) {
				if c.metrics != nil {
					c.metrics.SequenceConflictsTotal.WithLabelValues(cover.GetDomain()).Inc()
				}
				lastErr = err
				c.log.Debug("sequence conflict, retrying", append(logging.ForCover(cover), zap.Int("attempt", attempt))...)
				continue
			}
			return nil, err
		}

		committed := &pb.EventBook{
			Cover:        eventsResp.GetCover(),
			Pages:        eventsResp.GetPages(),
			NextSequence: expectedNext + uint32(len(eventsResp.GetPages())),
		}
		if committed.Cover == nil {
			committed.Cover = cover
		}

		if c.snapshotEvery > 0 && c.snapshots != nil && committed.NextSequence > 0 && committed.NextSequence%c.snapshotEvery == 0 {
			// Snapshotting is acceleration only (§4.3); a failure here must
			// never fail the command that already committed successfully.
			if snapErr := c.maybeSnapshot(ctx, key, cover); snapErr != nil {
				c.log.Warn("snapshot write failed", append(logging.ForCover(cover), zap.Error(snapErr))...)
			}
		}

		return committed, nil
	}

	return nil, errs.Wrap(errs.KindSequenceConflict, "coordinator: optimistic concurrency retries exhausted", lastErr)
}

// maybeSnapshot folds the stream since the last snapshot through the
// handler's Replay RPC and persists the resulting state (§4.3). Under
// SnapshotStrategy_LATEST, SnapshotStore.Save prunes older snapshots for
// key; under COMMUTATIVE every snapshot is retained.
func (c *Coordinator) maybeSnapshot(ctx context.Context, key store.AggregateKey, cover *pb.Cover) error {
	prior, err := c.loadContext(ctx, key, cover)
	if err != nil {
		return err
	}
	if len(prior.GetPages()) == 0 {
		return nil
	}
	name, err := c.registry.AggregateHandlerFor(cover.GetDomain())
	if err != nil {
		return err
	}
	client, err := c.handlers.Aggregate(name)
	if err != nil {
		return err
	}
	resp, err := client.Replay(ctx, &pb.ReplayRequest{Events: prior.GetPages(), BaseSnapshot: prior.GetSnapshot()})
	if err != nil {
		return errs.FromStatus(err)
	}
	last := prior.GetPages()[len(prior.GetPages())-1]
	return c.snapshots.Save(ctx, key, &pb.Snapshot{
		Cover:    cover,
		Sequence: last.GetSequence(),
		State:    resp.GetState(),
		Strategy: c.snapshotStrategy,
	})
}

// invokeHandler calls out to the domain's registered business-logic handler
// (§4.6d) and unwraps its BusinessResponse, surfacing a RevocationError
// when the handler declines instead of returning events.
func (c *Coordinator) invokeHandler(ctx context.Context, cover *pb.Cover, cmd *pb.CommandBook, prior *pb.EventBook) (*pb.EventBook, error) {
	name, err := c.registry.AggregateHandlerFor(cover.GetDomain())
	if err != nil {
		return nil, err
	}
	client, err := c.handlers.Aggregate(name)
	if err != nil {
		return nil, err
	}

	resp, err := client.Handle(ctx, &pb.ContextualCommand{Command: cmd, Events: prior})
	if err != nil {
		return nil, errs.FromStatus(err)
	}
	if rev := resp.GetRevocation(); rev != nil {
		// Wrapped as FailedPrecondition so errs.Is/ToStatus classify a
		// revocation the same way as any other business-rule rejection
		// (§7), while errors.As still reaches the *RevocationError itself
		// through the Error's Unwrap chain for its structured Compensation/
		// Escalate/Upstream fields.
		return nil, errs.Wrap(errs.KindFailedPrecondition, "coordinator: handler declined with revocation: "+rev.GetReason(), &RevocationError{Cover: cover, Response: rev})
	}
	events := resp.GetEvents()
	if events == nil {
		return nil, errs.Internal("handler returned neither events nor revocation")
	}
	return events, nil
}

// DryRun executes the algorithm through validation without locking,
// appending or publishing (§4.10's Speculate / DryRunHandle surface): the
// caller supplies the prior EventBook directly instead of it being loaded
// from the store.
func (c *Coordinator) DryRun(ctx context.Context, cmd *pb.CommandBook, prior *pb.EventBook) (*pb.EventBook, error) {
	if err := model.ValidateCommandBook(cmd); err != nil {
		return nil, err
	}
	cover := cmd.GetCover()
	expectedNext := prior.GetNextSequence()

	eventsResp, err := c.invokeHandler(ctx, cover, cmd, prior)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateHandlerResponse(cover, expectedNext, eventsResp); err != nil {
		return nil, err
	}
	return eventsResp, nil
}
