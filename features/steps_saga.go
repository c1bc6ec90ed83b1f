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

func initSagaSteps(ctx *godog.ScenarioContext, w *world) {
	ctx.Step(`^a registered saga "([^"]*)" that targets the "([^"]*)" aggregate and reserves one unit$`,
		func(name, domain string) error {
			w.targetCover = model.NewCover(domain, uuid.New(), "saga-target")
			w.registry.RegisterAggregateHandler(domain, domain)
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
			})
		})

	ctx.Step(`^the saga is delivered a trigger event book for "([^"]*)" at next sequence (\d+)$`,
		func(domain string, seq int) error {
			trigger := &pb.EventBook{
				Cover:        newCover(domain, "trigger"),
				Pages:        []*pb.EventPage{{Sequence: uint32(seq - 1), Event: mustAny(1)}},
				NextSequence: uint32(seq),
			}
			w.dispatchErr = w.dispatcher.Deliver(context.Background(), "reserve-stock", "saga", trigger)
			return nil
		})

	ctx.Step(`^the saga dispatches exactly (\d+) command to the "([^"]*)" aggregate$`,
		func(n int, domain string) error {
			if w.dispatchErr != nil {
				return fmt.Errorf("dispatch failed: %w", w.dispatchErr)
			}
			w.mu.Lock()
			defer w.mu.Unlock()
			count := 0
			for _, cc := range w.handled {
				if cc.GetCommand().GetCover().GetDomain() == domain {
					count++
				}
			}
			if count != n {
				return fmt.Errorf("expected %d dispatched commands to %s, got %d", n, domain, count)
			}
			return nil
		})

	ctx.Step(`^the dispatched command's first page targets sequence (\d+)$`, func(seq int) error {
		w.mu.Lock()
		defer w.mu.Unlock()
		if len(w.handled) == 0 {
			return fmt.Errorf("no command was handled")
		}
		got := w.handled[0].GetCommand().GetPages()[0].GetSequence()
		if got != uint32(seq) {
			return fmt.Errorf("expected first page at sequence %d, got %d", seq, got)
		}
		return nil
	})
}
