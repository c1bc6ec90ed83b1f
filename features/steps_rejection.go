package features

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"google.golang.org/grpc"

	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
)

func initRejectionSteps(ctx *godog.ScenarioContext, w *world) {
	ctx.Step(`^a registered aggregate handler for domain "([^"]*)" that declines every command with reason "([^"]*)"$`,
		func(domain, reason string) error {
			return w.startServer(domain, func(s *grpc.Server) {
				pb.RegisterAggregateServiceServer(s, &scriptedAggregate{
					handle: func(cc *pb.ContextualCommand) (*pb.BusinessResponse, error) {
						return &pb.BusinessResponse{Result: &pb.BusinessResponse_Revocation{
							Revocation: &pb.RevocationResponse{Reason: reason},
						}}, nil
					},
				})
			})
		})

	ctx.Step(`^a registered saga "([^"]*)" that targets "([^"]*)", reserves one unit, and compensates rejections against "([^"]*)"$`,
		func(name, targetDomain, compensateDomain string) error {
			w.targetCover = model.NewCover(targetDomain, uuid.New(), "saga-target")
			compensateCover := model.NewCover(compensateDomain, uuid.New(), "compensate-target")
			w.registry.RegisterAggregateHandler(targetDomain, targetDomain)
			w.registry.RegisterAggregateHandler(compensateDomain, compensateDomain)

			return w.startServer(name, func(s *grpc.Server) {
				pb.RegisterSagaServiceServer(s, &scriptedSaga{
					descriptor: &pb.ComponentDescriptor{Name: name, ComponentType: "saga"},
					prepare: func(*pb.SagaPrepareRequest) (*pb.SagaPrepareResponse, error) {
						return &pb.SagaPrepareResponse{Destinations: []*pb.Cover{w.targetCover}}, nil
					},
					execute: func(req *pb.SagaExecuteRequest) (*pb.SagaResponse, error) {
						dest := req.GetDestinations()[0]
						cmd := &pb.CommandBook{
							Cover: dest.GetCover(),
							Pages: []*pb.CommandPage{{Sequence: dest.GetNextSequence(), Command: mustAny(1)}},
						}
						return &pb.SagaResponse{Commands: []*pb.CommandBook{cmd}}, nil
					},
				})
				pb.RegisterRejectionServiceServer(s, &scriptedRejection{
					handle: func(notif *pb.Notification) (*pb.RevocationResponse, error) {
						w.mu.Lock()
						w.notifications = append(w.notifications, notif)
						w.mu.Unlock()
						return &pb.RevocationResponse{
							Compensation: &pb.CommandBook{
								Cover: compensateCover,
								Pages: []*pb.CommandPage{{Sequence: 0, Command: mustAny(1)}},
							},
						}, nil
					},
				})
			})
		})

	ctx.Step(`^the rejection handler received exactly (\d+) notification$`, func(n int) error {
		w.mu.Lock()
		defer w.mu.Unlock()
		if len(w.notifications) != n {
			return fmt.Errorf("expected %d notifications, got %d", n, len(w.notifications))
		}
		return nil
	})

	ctx.Step(`^the notification's reason is "([^"]*)"$`, func(reason string) error {
		w.mu.Lock()
		defer w.mu.Unlock()
		if len(w.notifications) == 0 {
			return fmt.Errorf("no notification recorded")
		}
		var rn pb.RejectionNotification
		if err := model.UnpackAny(w.notifications[0].GetPayload(), &rn); err != nil {
			return err
		}
		if rn.GetRejectionReason() != reason {
			return fmt.Errorf("expected reason %q, got %q", reason, rn.GetRejectionReason())
		}
		return nil
	})

	ctx.Step(`^a compensation command was committed on the "([^"]*)" aggregate$`, func(domain string) error {
		w.mu.Lock()
		defer w.mu.Unlock()
		count := 0
		for _, cc := range w.handled {
			if cc.GetCommand().GetCover().GetDomain() == domain {
				count++
			}
		}
		if count != 1 {
			return fmt.Errorf("expected exactly 1 handled command for domain %s, got %d", domain, count)
		}
		return nil
	})

	ctx.Step(`^no events were recorded for the "([^"]*)" aggregate$`, func(domain string) error {
		if w.targetCover.GetDomain() != domain {
			return fmt.Errorf("scenario wiring error: targetCover domain is %s, not %s", w.targetCover.GetDomain(), domain)
		}
		key := aggregateKeyFor(w.targetCover)
		pages, err := w.backend.Events().Load(context.Background(), key, 0)
		if err != nil {
			return err
		}
		if len(pages) != 0 {
			return fmt.Errorf("expected no stored events for %s, got %d", domain, len(pages))
		}
		return nil
	})
}
