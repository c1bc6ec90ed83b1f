// Package dispatcher implements the saga/process-manager two-phase dispatch
// protocol (§4.8): Prepare resolves which aggregates a triggering event
// batch concerns, Execute hands the triggering batch plus each destination's
// current state to the component and carries out whatever CommandBooks it
// returns. It is the publisher's Deliverer for "saga" and "process_manager"
// subscribers, and also serves plain "projector" subscribers since nothing
// else in the fan-out path needs its own component.
package dispatcher

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/angzarr-io/angzarr/internal/edition"
	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/handlerclient"
	"github.com/angzarr-io/angzarr/internal/metrics"
	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/rejection"
	"github.com/angzarr-io/angzarr/internal/store"
)

// ownStateDomainPrefix is the reserved domain prefix under which a process
// manager's own event-sourced state is stored, keyed deterministically by
// its handler name rather than by any business aggregate's root.
const ownStateDomainPrefix = model.MetaAngzarrDomain + ":pm:"

// CommandExecutor runs a CommandBook through the aggregate coordinator.
// Satisfied by *coordinator.Coordinator; kept as an interface here so the
// dispatcher never imports the coordinator package; cmd/coordinator supplies
// the coordinator through a lazily resolved executor.
type CommandExecutor interface {
	Execute(ctx context.Context, cmd *pb.CommandBook) (*pb.EventBook, error)
}

// Dispatcher carries out the two-phase saga/process-manager protocol and
// answers plain projector deliveries.
type Dispatcher struct {
	events   store.EventStore
	editions *edition.Engine
	handlers *handlerclient.Registry
	commands CommandExecutor
	rejector *rejection.Router
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// New constructs a Dispatcher over backend's event store, dispatching
// resolved commands through commands and calling out to components through
// handlers. A rejection.Router is built over the same handlers and commands
// to route business rejections (§4.9) back to whichever saga or process
// manager issued the declined command.
func New(backend store.Backend, handlers *handlerclient.Registry, commands CommandExecutor, met *metrics.Metrics, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		events:   backend.Events(),
		editions: edition.New(backend.Events()),
		handlers: handlers,
		commands: commands,
		rejector: rejection.New(handlers, commands, met, log),
		metrics:  met,
		log:      log,
	}
}

// Deliver implements publisher.Deliverer, routing batch to componentType's
// two-phase protocol (saga, process_manager) or its direct Handle surface
// (projector).
func (d *Dispatcher) Deliver(ctx context.Context, handlerName, componentType string, batch *pb.EventBook) error {
	switch componentType {
	case "saga":
		return d.runSaga(ctx, handlerName, batch)
	case "process_manager":
		return d.runProcessManager(ctx, handlerName, batch)
	case "projector":
		return d.runProjector(ctx, handlerName, batch)
	default:
		return errs.FailedPrecondition("dispatcher: unknown component type " + componentType + " for handler " + handlerName)
	}
}

func (d *Dispatcher) runProjector(ctx context.Context, name string, batch *pb.EventBook) error {
	client, err := d.handlers.Projector(name)
	if err != nil {
		return err
	}
	_, err = client.Handle(ctx, batch)
	return err
}

// runSaga carries out §4.8's phase 1/phase 2 protocol for a stateless saga:
// Prepare names the aggregates this batch concerns, Execute is handed their
// current state and returns the commands to run against them.
func (d *Dispatcher) runSaga(ctx context.Context, name string, batch *pb.EventBook) error {
	client, err := d.handlers.Saga(name)
	if err != nil {
		return err
	}
	start := time.Now()
	prepared, err := client.Prepare(ctx, &pb.SagaPrepareRequest{Source: batch})
	if err != nil {
		d.recordFailure(name, "prepare")
		return errs.Wrap(errs.KindTransient, "dispatcher: saga "+name+" prepare failed", err)
	}

	destinations, err := d.loadDestinations(ctx, prepared.GetDestinations())
	if err != nil {
		return err
	}

	resp, err := client.Execute(ctx, &pb.SagaExecuteRequest{Source: batch, Destinations: destinations})
	if err != nil {
		d.recordFailure(name, "execute")
		return errs.Wrap(errs.KindTransient, "dispatcher: saga "+name+" execute failed", err)
	}
	d.recordLatency(name, start)

	return d.dispatchCommands(ctx, name, "saga", batch.GetNextSequence(), resp.GetCommands())
}

// runProcessManager mirrors runSaga but additionally threads the process
// manager's own event-sourced state through Prepare/Handle and persists
// whatever new process events Handle returns (§4.8's "PM own-event-stream"
// case).
func (d *Dispatcher) runProcessManager(ctx context.Context, name string, batch *pb.EventBook) error {
	client, err := d.handlers.ProcessManager(name)
	if err != nil {
		return err
	}

	processKey := ownStateKey(name)
	processState, err := d.loadOwnState(ctx, processKey)
	if err != nil {
		return err
	}

	start := time.Now()
	prepared, err := client.Prepare(ctx, &pb.ProcessManagerPrepareRequest{Trigger: batch, ProcessState: processState})
	if err != nil {
		d.recordFailure(name, "prepare")
		return errs.Wrap(errs.KindTransient, "dispatcher: process manager "+name+" prepare failed", err)
	}

	destinations, err := d.loadDestinations(ctx, prepared.GetDestinations())
	if err != nil {
		return err
	}

	resp, err := client.Handle(ctx, &pb.ProcessManagerHandleRequest{
		Trigger:      batch,
		ProcessState: processState,
		Destinations: destinations,
	})
	if err != nil {
		d.recordFailure(name, "handle")
		return errs.Wrap(errs.KindTransient, "dispatcher: process manager "+name+" handle failed", err)
	}
	d.recordLatency(name, start)

	if events := resp.GetProcessEvents(); events != nil && len(events.GetPages()) > 0 {
		if err := d.events.Append(ctx, processKey, processState.GetNextSequence(), events.GetPages()); err != nil {
			return errs.Wrap(errs.KindInternal, "dispatcher: process manager "+name+" own-state append failed", err)
		}
	}

	return d.dispatchCommands(ctx, name, "process_manager", batch.GetNextSequence(), resp.GetCommands())
}

// loadDestinations resolves each prepared Cover to its current composed
// EventBook, following edition forks the same way the coordinator does.
func (d *Dispatcher) loadDestinations(ctx context.Context, covers []*pb.Cover) ([]*pb.EventBook, error) {
	books := make([]*pb.EventBook, 0, len(covers))
	for _, cover := range covers {
		root, ok := model.RootUUID(cover)
		if !ok {
			return nil, errs.InvalidArgument("dispatcher: prepared destination has no valid root")
		}
		key := store.AggregateKey{Domain: cover.GetDomain(), Edition: model.Edition(cover), Root: root}
		head, err := d.editions.Head(ctx, key, cover.GetEdition())
		if err != nil {
			return nil, err
		}
		pages, err := d.editions.Load(ctx, key, cover.GetEdition(), 0)
		if err != nil {
			return nil, err
		}
		books = append(books, &pb.EventBook{Cover: cover, Pages: pages, NextSequence: head})
	}
	return books, nil
}

// dispatchCommands runs every command independently (§4.8: "dispatch
// without cross-aggregate atomicity"). The coordinator already retries
// optimistic-concurrency conflicts internally; a command that still fails
// with a business-rule rejection is routed back to the issuing component
// (§4.9) instead of merely logged, since name is who issued it and is whose
// RejectionService gets to decide what happens next. Any other failure kind
// (validation, transient, internal) is recorded and skipped rather than
// aborting its siblings.
func (d *Dispatcher) dispatchCommands(ctx context.Context, name, componentType string, sourceSeq uint32, commands []*pb.CommandBook) error {
	var firstErr error
	for _, cmd := range commands {
		_, err := d.commands.Execute(ctx, cmd)
		if err == nil {
			continue
		}
		if resp, destination, ok := rejection.FromError(err); ok {
			if routeErr := d.rejector.Route(ctx, name, componentType, destination, cmd, sourceSeq, resp.GetReason()); routeErr != nil {
				d.log.Warn("dispatcher: rejection routing failed",
					zap.String("component", name),
					zap.String("domain", cmd.GetCover().GetDomain()),
					zap.Error(routeErr))
				if firstErr == nil {
					firstErr = routeErr
				}
			}
			continue
		}
		d.log.Warn("dispatcher: dispatched command failed",
			zap.String("component", name),
			zap.String("domain", cmd.GetCover().GetDomain()),
			zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (d *Dispatcher) loadOwnState(ctx context.Context, key store.AggregateKey) (*pb.EventBook, error) {
	head, err := d.events.Head(ctx, key)
	if err != nil {
		return nil, err
	}
	pages, err := d.events.Load(ctx, key, 0)
	if err != nil {
		return nil, err
	}
	cover := &pb.Cover{Domain: key.Domain, Root: model.UUIDToProto(key.Root), Edition: &pb.Edition{Name: key.Edition}}
	return &pb.EventBook{Cover: cover, Pages: pages, NextSequence: head}, nil
}

// ownStateKey derives a deterministic aggregate key for a process manager's
// own event stream from its handler name, since it has no business root.
func ownStateKey(name string) store.AggregateKey {
	root := uuid.NewSHA1(uuid.Nil, []byte(ownStateDomainPrefix+name))
	return store.AggregateKey{Domain: ownStateDomainPrefix + name, Edition: model.DefaultEdition, Root: root}
}

func (d *Dispatcher) recordFailure(component, phase string) {
	if d.metrics != nil {
		d.metrics.DispatchFailuresTotal.WithLabelValues(component, phase).Inc()
	}
}

func (d *Dispatcher) recordLatency(component string, start time.Time) {
	if d.metrics != nil {
		d.metrics.DispatchLatency.WithLabelValues(component).Observe(time.Since(start).Seconds())
	}
}
