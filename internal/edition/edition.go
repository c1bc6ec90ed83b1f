// Package edition implements the timeline composition engine (§4.5): reading
// a cover's event stream as either the main "angzarr" timeline directly, or
// as a fork composed of the main timeline up to a divergence sequence
// followed by the fork's own writes from that point on.
package edition

import (
	"context"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/store"
)

// Engine composes reads and validates writes across the main timeline and
// its forks. It holds no state of its own; every operation is computed
// fresh from the underlying EventStore.
type Engine struct {
	events store.EventStore
}

// New constructs an Engine over events.
func New(events store.EventStore) *Engine {
	return &Engine{events: events}
}

// Divergence resolves the divergence sequence D for a fork on key's domain:
// the explicit divergence recorded on the cover's Edition, if any; otherwise
// the lowest sequence the fork has ever written for this (domain, root). If
// the fork has never written anything and carries no explicit divergence,
// ok is false and reads should fall back to the main timeline entirely.
func (e *Engine) Divergence(ctx context.Context, key store.AggregateKey, editionPb *pb.Edition) (sequence uint32, ok bool, err error) {
	if model.IsMainTimeline(editionPb) {
		return 0, false, nil
	}
	if d := model.DivergenceFor(editionPb, key.Domain); d >= 0 {
		return uint32(d), true, nil
	}
	pages, err := e.events.Load(ctx, key, 0)
	if err != nil {
		return 0, false, err
	}
	if len(pages) == 0 {
		return 0, false, nil
	}
	min := pages[0].GetSequence()
	for _, p := range pages[1:] {
		if p.GetSequence() < min {
			min = p.GetSequence()
		}
	}
	return min, true, nil
}

// Load returns the composed, ordered event pages for key from fromSequence
// onward. For the main timeline this is a direct store read. For a fork
// with divergence D: main-timeline pages with sequence < D, followed by the
// fork's own pages (whose sequences already continue from D), filtered to
// fromSequence.
func (e *Engine) Load(ctx context.Context, key store.AggregateKey, editionPb *pb.Edition, fromSequence uint32) ([]*pb.EventPage, error) {
	if model.IsMainTimeline(editionPb) {
		return e.events.Load(ctx, key, fromSequence)
	}

	forkKey := key
	divergence, ok, err := e.Divergence(ctx, key, editionPb)
	if err != nil {
		return nil, err
	}
	if !ok {
		mainKey := key
		mainKey.Edition = model.DefaultEdition
		return e.events.Load(ctx, mainKey, fromSequence)
	}

	var pages []*pb.EventPage
	if fromSequence < divergence {
		mainKey := key
		mainKey.Edition = model.DefaultEdition
		mainPages, err := e.events.Load(ctx, mainKey, fromSequence)
		if err != nil {
			return nil, err
		}
		for _, p := range mainPages {
			if p.GetSequence() < divergence {
				pages = append(pages, p)
			}
		}
	}
	forkFrom := fromSequence
	if forkFrom < divergence {
		forkFrom = divergence
	}
	forkPages, err := e.events.Load(ctx, forkKey, forkFrom)
	if err != nil {
		return nil, err
	}
	pages = append(pages, forkPages...)
	return pages, nil
}

// Head returns the next sequence number to write at for key on the given
// edition. A fork that has already diverged reports its own head. A fork
// that has never written reports its explicit divergence sequence for
// key.Domain when the edition declares one, and otherwise defers to the main
// timeline's head, since that is the sequence its first write would need to
// assume as expected.
func (e *Engine) Head(ctx context.Context, key store.AggregateKey, editionPb *pb.Edition) (uint32, error) {
	if model.IsMainTimeline(editionPb) {
		return e.events.Head(ctx, key)
	}
	head, err := e.events.Head(ctx, key)
	if err != nil {
		return 0, err
	}
	if head > 0 {
		return head, nil
	}
	if d := model.DivergenceFor(editionPb, key.Domain); d >= 0 {
		return uint32(d), nil
	}
	mainKey := key
	mainKey.Edition = model.DefaultEdition
	return e.events.Head(ctx, mainKey)
}

// ValidateWrite enforces the fork-write invariant: a fork may never write at
// a sequence below its divergence point, since that range belongs
// immutably to the main timeline it forked from.
func (e *Engine) ValidateWrite(ctx context.Context, key store.AggregateKey, editionPb *pb.Edition, expectedSequence uint32) error {
	if model.IsMainTimeline(editionPb) {
		return nil
	}
	if key.Edition == model.DefaultEdition {
		return errs.Internal("edition: fork write routed to the main timeline key")
	}
	if d := model.DivergenceFor(editionPb, key.Domain); d >= 0 && expectedSequence < uint32(d) {
		return errs.InvalidArgument("edition: write below explicit divergence sequence is forbidden")
	}
	return nil
}

// Delete removes a fork's own events for key, leaving the main timeline
// untouched. Deleting the main timeline ("angzarr") is always rejected.
func (e *Engine) Delete(ctx context.Context, key store.AggregateKey) error {
	if key.Edition == model.DefaultEdition || key.Edition == "" {
		return errs.InvalidArgument("edition: the main timeline can never be bulk-deleted")
	}
	return e.events.DeleteStream(ctx, key)
}
