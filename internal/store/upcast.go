package store

import (
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"

	"github.com/angzarr-io/angzarr/internal/pb"
)

// UpcastHandler transforms a stored event payload into its current version.
type UpcastHandler func(old *anypb.Any) *anypb.Any

type upcastEntry struct {
	suffix  string
	handler UpcastHandler
}

// Upcaster transforms old event versions read back from a store into the
// current version a domain's handler expects. Unlike the original
// client-side UpcasterRouter (applied by the business process that emitted
// an event), this one runs coordinator-side on the read path, so a domain's
// handler never has to know its own event history contains superseded
// schemas — any registered domain upcaster is applied uniformly regardless
// of which store backend served the pages.
type Upcaster struct {
	domain   string
	handlers []upcastEntry
}

// NewUpcaster creates an upcaster for domain. Register per-type transforms
// with On, then apply them to loaded pages with Apply.
func NewUpcaster(domain string) *Upcaster {
	return &Upcaster{domain: domain}
}

// On registers handler for events whose type_url ends in suffix.
func (u *Upcaster) On(suffix string, handler UpcastHandler) *Upcaster {
	u.handlers = append(u.handlers, upcastEntry{suffix: suffix, handler: handler})
	return u
}

// Domain returns the domain this upcaster applies to.
func (u *Upcaster) Domain() string { return u.domain }

// Apply transforms pages loaded from storage, passing through any page
// whose event type has no registered handler unchanged.
func (u *Upcaster) Apply(pages []*pb.EventPage) []*pb.EventPage {
	if len(u.handlers) == 0 {
		return pages
	}
	result := make([]*pb.EventPage, 0, len(pages))
	for _, page := range pages {
		event := page.GetEvent()
		if event == nil {
			result = append(result, page)
			continue
		}
		transformed := false
		for _, entry := range u.handlers {
			if strings.HasSuffix(event.GetTypeUrl(), entry.suffix) {
				newPage := proto.Clone(page).(*pb.EventPage)
				newPage.Event = entry.handler(event)
				result = append(result, newPage)
				transformed = true
				break
			}
		}
		if !transformed {
			result = append(result, page)
		}
	}
	return result
}

// Registry holds one Upcaster per domain. The store backends do not apply
// it; a coordinator.Coordinator given one through WithUpcasters applies it
// to the pages it loads for an aggregate handler.
type Registry struct {
	byDomain map[string]*Upcaster
}

func NewRegistry() *Registry {
	return &Registry{byDomain: make(map[string]*Upcaster)}
}

func (r *Registry) Register(u *Upcaster) {
	r.byDomain[u.Domain()] = u
}

// Apply runs the registered upcaster for domain over pages, if any.
func (r *Registry) Apply(domain string, pages []*pb.EventPage) []*pb.EventPage {
	u, ok := r.byDomain[domain]
	if !ok {
		return pages
	}
	return u.Apply(pages)
}
