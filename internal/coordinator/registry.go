// Package coordinator implements the Aggregate Coordinator (§4.6): the
// exclusive writer for each aggregate, serving Execute by loading prior
// state through the edition engine, invoking the domain's registered
// business-logic handler, and appending the returned events under
// optimistic concurrency.
package coordinator

import (
	"context"
	"sync"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/handlerclient"
	"github.com/angzarr-io/angzarr/internal/pb"
)

// Registry maps each domain to the name of its registered aggregate
// handler, and holds the self-reported ComponentDescriptor of every
// saga/process-manager/projector the coordinator dispatches to or fans out
// to (§4.12). Descriptors are fetched once at startup via GetDescriptor,
// extracted from the teacher's aggregate_oo.go/saga_oo.go/pm_oo.go/
// projector_oo.go ComponentDescriptor/Target shape — only the shape is
// kept, not their reflection-based callee dispatch bodies, since those
// belong to the business-logic processes being described, not the
// coordinator describing them.
type Registry struct {
	mu sync.RWMutex

	// aggregateHandlers maps domain -> handler name registered in clients.
	aggregateHandlers map[string]string

	// components holds every saga/PM/projector/rejection-handler descriptor
	// learned at startup, keyed by handler name.
	components map[string]*pb.ComponentDescriptor
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		aggregateHandlers: make(map[string]string),
		components:        make(map[string]*pb.ComponentDescriptor),
	}
}

// RegisterAggregateHandler declares that domain's business logic is served
// by the handler named name (as registered in an handlerclient.Registry).
func (r *Registry) RegisterAggregateHandler(domain, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aggregateHandlers[domain] = name
}

// AggregateHandlerFor returns the handler name registered for domain.
func (r *Registry) AggregateHandlerFor(domain string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.aggregateHandlers[domain]
	if !ok {
		return "", errs.FailedPrecondition("coordinator: no aggregate handler registered for domain " + domain)
	}
	return name, nil
}

// Discover calls GetDescriptor on every client registered in clients and
// records the result, so the publisher's subscription table and the
// dispatcher's saga/PM roster can be built from self-reported descriptors
// instead of duplicating each component's input domains in static config.
func (r *Registry) Discover(ctx context.Context, clients *handlerclient.Registry) error {
	for _, name := range clients.Names() {
		desc, err := handlerclient.GetDescriptor(ctx, clients, name)
		if err != nil {
			// Not every registered endpoint is a saga/PM (aggregate handlers
			// and plain projectors may not implement GetDescriptor); skip
			// silently rather than failing startup.
			continue
		}
		r.mu.Lock()
		r.components[name] = desc
		r.mu.Unlock()
	}
	return nil
}

// RegisterComponent records desc directly, bypassing discovery — used by
// tests and by components that self-register at connection time instead of
// through Discover.
func (r *Registry) RegisterComponent(name string, desc *pb.ComponentDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[name] = desc
}

// Components returns every known component descriptor.
func (r *Registry) Components() []*pb.ComponentDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*pb.ComponentDescriptor, 0, len(r.components))
	for _, d := range r.components {
		out = append(out, d)
	}
	return out
}

// SubscribersFor returns the names of every component whose descriptor
// declares domain among its inputs — the publisher's fan-out subscription
// resolution for a committed batch on that domain.
func (r *Registry) SubscribersFor(domain string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, desc := range r.components {
		for _, target := range desc.GetInputs() {
			if target.GetDomain() == domain || target.GetDomain() == "*" {
				names = append(names, name)
				break
			}
		}
	}
	return names
}

// ComponentType returns the component_type ("saga", "process_manager",
// "projector") registered for name, or "" if unknown.
func (r *Registry) ComponentType(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.components[name]; ok {
		return d.GetComponentType()
	}
	return ""
}
