package features

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"google.golang.org/grpc"

	"github.com/angzarr-io/angzarr/internal/pb"
)

func initProjectorSteps(ctx *godog.ScenarioContext, w *world) {
	ctx.Step(`^a registered projector "([^"]*)" subscribed to domain "([^"]*)"$`,
		func(name, domain string) error {
			w.projector = &recordingProjector{}
			if err := w.startServer(name, func(s *grpc.Server) {
				pb.RegisterProjectorServiceServer(s, w.projector)
			}); err != nil {
				return err
			}
			w.registry.RegisterComponent(name, &pb.ComponentDescriptor{
				Name:          name,
				ComponentType: "projector",
				Inputs:        []*pb.Target{{Domain: domain}},
			})
			return nil
		})

	ctx.Step(`^the "([^"]*)" aggregate has committed events at sequences (\d+) through (\d+)$`,
		func(domain string, from, to int) error {
			cover := newCover(domain, "shipment-seed")
			w.lastCover = cover
			key := aggregateKeyFor(cover)
			w.projectorKey = key
			pages := make([]*pb.EventPage, 0, to-from+1)
			for seq := from; seq <= to; seq++ {
				pages = append(pages, &pb.EventPage{Sequence: uint32(seq), Event: mustAny(int64(seq))})
			}
			return w.backend.Events().Append(context.Background(), key, uint32(from), pages)
		})

	ctx.Step(`^the projector's checkpoint for that aggregate is at sequence (\d+)$`, func(seq int) error {
		return w.backend.Positions().Commit(context.Background(), "shipment-view", w.projectorKey, uint32(seq))
	})

	ctx.Step(`^the publisher recovers$`, func() error {
		return w.bus.Recover(context.Background())
	})

	ctx.Step(`^the projector received exactly (\d+) events$`, func(n int) error {
		var total int
		for _, book := range w.projector.snapshot() {
			total += len(book.GetPages())
		}
		if total != n {
			return fmt.Errorf("expected %d delivered events, got %d", n, total)
		}
		return nil
	})

	ctx.Step(`^the projector's checkpoint for that aggregate advances to sequence (\d+)$`, func(seq int) error {
		pos, err := w.backend.Positions().Position(context.Background(), "shipment-view", w.projectorKey)
		if err != nil {
			return err
		}
		if pos != uint32(seq) {
			return fmt.Errorf("expected checkpoint at sequence %d, got %d", seq, pos)
		}
		return nil
	})
}
