// Package rejection implements the §4.9 notification routing: when a
// dispatched saga or process-manager command is declined by its destination
// aggregate, the rejection is handed back to the component that issued the
// command, not surfaced as a bare dispatch failure. The issuing component's
// own RejectionService decides what happens next — compensate, escalate to
// whoever triggered it in turn, or let it stop there.
package rejection

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/metrics"
	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
)

// revocationNotificationPackage is the synthetic package name under which
// RejectionNotification payloads are packed into a Notification's Any, used
// only to build a stable, human-readable type URL (§4.9 carries no real
// protobuf registry for this hand-authored message).
const revocationNotificationPackage = "angzarr.coordinator.v1"

// revocationResponder is satisfied by *coordinator.RevocationError. Declared
// locally, rather than importing internal/coordinator, so rejection stays a
// leaf package dispatcher can depend on without risking a cycle back through
// coordinator (which never imports dispatcher, publisher or rejection
// directly, only through the narrow interfaces each of those defines).
type revocationResponder interface {
	error
	RevocationResponse() *pb.RevocationResponse
	RevocationCover() *pb.Cover
}

// CommandExecutor runs a compensation CommandBook through the aggregate
// coordinator's normal §4.6 Execute path. Satisfied by *coordinator.Coordinator.
type CommandExecutor interface {
	Execute(ctx context.Context, cmd *pb.CommandBook) (*pb.EventBook, error)
}

// HandlerClients resolves the RejectionServiceClient for a registered
// component name. *handlerclient.Registry satisfies this.
type HandlerClients interface {
	Rejection(name string) (pb.RejectionServiceClient, error)
}

// Router carries out §4.9: it detects rejection-worthy failures from a
// dispatched command and notifies the issuing component, following
// Escalate/Upstream chains and running any Compensation the handler returns.
type Router struct {
	handlers HandlerClients
	commands CommandExecutor
	metrics  *metrics.Metrics
	log      *zap.Logger

	// maxHops bounds escalation chains against a handler that never
	// terminates one (e.g. always escalating to itself).
	maxHops int
}

// DefaultMaxEscalationHops bounds how many times a rejection can be
// re-escalated before the router gives up and logs rather than looping.
const DefaultMaxEscalationHops = 16

// New constructs a Router. met and log may be nil in tests.
func New(handlers HandlerClients, commands CommandExecutor, met *metrics.Metrics, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{handlers: handlers, commands: commands, metrics: met, log: log, maxHops: DefaultMaxEscalationHops}
}

// FromError reports whether err is a business-rule rejection a dispatched
// command failed with, extracting the RevocationResponse and Cover it
// carries. Any error whose Kind is FailedPrecondition but that does not
// unwrap to a revocationResponder (e.g. a validation failure the destination
// aggregate raised directly, not through a handler's BusinessResponse) is not
// eligible for routing — only an actual handler-declined revocation is.
func FromError(err error) (*pb.RevocationResponse, *pb.Cover, bool) {
	if err == nil || !errs.Is(err, errs.KindFailedPrecondition) {
		return nil, nil, false
	}
	var rr revocationResponder
	if !errors.As(err, &rr) {
		return nil, nil, false
	}
	return rr.RevocationResponse(), rr.RevocationCover(), true
}

// Route notifies issuerName (a saga or process manager, identified by
// issuerType) that its command — rejected, against destination cover, with
// the given RevocationResponse — needs a decision. It runs any Compensation
// the issuer returns through the Router's CommandExecutor, and recurses
// along Escalate/Upstream chains until a handler declines to escalate
// further or no Upstream link is given (§4.9: "terminates at the first
// issuer with no causal parent").
func (r *Router) Route(ctx context.Context, issuerName, issuerType string, destination *pb.Cover, rejected *pb.CommandBook, sourceSeq uint32, reason string) error {
	notif := &pb.RejectionNotification{
		IssuerName:          issuerName,
		IssuerType:          issuerType,
		SourceEventSequence: sourceSeq,
		RejectionReason:     reason,
		RejectedCommand:     rejected,
		SourceAggregate:     destination,
	}
	return r.deliver(ctx, notif, 0)
}

func (r *Router) deliver(ctx context.Context, notif *pb.RejectionNotification, hop int) error {
	if hop >= r.maxHops {
		r.log.Warn("rejection: escalation chain exceeded max hops, stopping",
			zap.String("issuer", notif.GetIssuerName()),
			zap.Int("hops", hop))
		return errs.Internal("rejection: escalation chain exceeded max hops")
	}

	if r.metrics != nil {
		r.metrics.RejectionNotificationsTotal.WithLabelValues(notif.GetSourceAggregate().GetDomain()).Inc()
	}

	client, err := r.handlers.Rejection(notif.GetIssuerName())
	if err != nil {
		return errs.Wrap(errs.KindUnavailable, "rejection: no rejection handler registered for "+notif.GetIssuerName(), err)
	}

	payload, err := model.PackAny(revocationNotificationPackage, "RejectionNotification", notif)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "rejection: failed to pack notification", err)
	}

	resp, err := client.HandleRejection(ctx, &pb.Notification{Payload: payload})
	if err != nil {
		return errs.FromStatus(err)
	}

	r.log.Info("rejection: notification handled",
		zap.String("issuer", notif.GetIssuerName()),
		zap.String("issuer_type", notif.GetIssuerType()),
		zap.Bool("compensated", resp.GetCompensation() != nil),
		zap.Bool("escalate", resp.GetEscalate()),
		zap.Bool("abort", resp.GetAbort()),
		zap.Bool("dead_letter", resp.GetSendToDeadLetterQueue()))

	var firstErr error
	if comp := resp.GetCompensation(); comp != nil {
		if _, err := r.commands.Execute(ctx, comp); err != nil {
			r.log.Warn("rejection: compensation command failed",
				zap.String("issuer", notif.GetIssuerName()), zap.Error(err))
			firstErr = err
		}
	}

	if resp.GetEscalate() {
		upstream := resp.GetUpstream()
		if upstream == nil {
			r.log.Info("rejection: escalate requested with no upstream link, stopping here",
				zap.String("issuer", notif.GetIssuerName()))
		} else if err := r.deliver(ctx, upstream, hop+1); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
