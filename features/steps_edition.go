package features

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
)

func initEditionSteps(ctx *godog.ScenarioContext, w *world) {
	ctx.Step(`^the "([^"]*)" aggregate's main timeline has (\d+) committed events$`,
		func(domain string, n int) error {
			cover := newCover(domain, "main-seed")
			w.lastCover = cover
			key := aggregateKeyFor(cover)
			pages := make([]*pb.EventPage, n)
			for i := 0; i < n; i++ {
				pages[i] = &pb.EventPage{Sequence: uint32(i), Event: mustAny(int64(100 + i))}
			}
			return w.backend.Events().Append(context.Background(), key, 0, pages)
		})

	ctx.Step(`^a fork edition "([^"]*)" of the "([^"]*)" aggregate diverging at sequence (\d+)$`,
		func(name, domain string, seq int) error {
			root, _ := model.RootUUID(w.lastCover)
			editionPb := model.ExplicitEdition(name, []*pb.DomainDivergence{{Domain: domain, Sequence: uint32(seq)}})
			w.forkCover = model.NewCoverWithEdition(domain, root, w.lastCover.GetCorrelationId(), editionPb)
			return nil
		})

	ctx.Step(`^the fork has (\d+) of its own committed events starting at sequence (\d+)$`,
		func(n, start int) error {
			key := aggregateKeyFor(w.forkCover)
			pages := make([]*pb.EventPage, n)
			for i := 0; i < n; i++ {
				pages[i] = &pb.EventPage{Sequence: uint32(start + i), Event: mustAny(int64(200 + i))}
			}
			return w.backend.Events().Append(context.Background(), key, uint32(start), pages)
		})

	ctx.Step(`^I load the fork's composed event stream from sequence (\d+)$`, func(from int) error {
		key := aggregateKeyFor(w.forkCover)
		pages, err := w.editions.Load(context.Background(), key, w.forkCover.GetEdition(), uint32(from))
		w.composedPages = pages
		return err
	})

	ctx.Step(`^the composed stream has exactly (\d+) pages$`, func(n int) error {
		if len(w.composedPages) != n {
			return fmt.Errorf("expected %d composed pages, got %d", n, len(w.composedPages))
		}
		return nil
	})

	ctx.Step(`^pages 0 and 1 come from the main timeline$`, func() error {
		for i := 0; i < 2; i++ {
			v := unpackInt64(w.composedPages[i].GetEvent())
			if v < 100 || v >= 200 {
				return fmt.Errorf("page %d: expected a main-timeline marker, got %d", i, v)
			}
		}
		return nil
	})

	ctx.Step(`^pages 2 and 3 come from the fork$`, func() error {
		for i := 2; i < 4; i++ {
			v := unpackInt64(w.composedPages[i].GetEvent())
			if v < 200 {
				return fmt.Errorf("page %d: expected a fork marker, got %d", i, v)
			}
		}
		return nil
	})

	ctx.Step(`^I delete the fork edition$`, func() error {
		key := aggregateKeyFor(w.forkCover)
		return w.editions.Delete(context.Background(), key)
	})

	ctx.Step(`^loading the fork's composed event stream again falls back to the main timeline's (\d+) events$`,
		func(n int) error {
			key := aggregateKeyFor(w.lastCover)
			pages, err := w.editions.Load(context.Background(), key, model.MainTimeline(), 0)
			if err != nil {
				return err
			}
			if len(pages) != n {
				return fmt.Errorf("expected %d pages after fork deletion, got %d", n, len(pages))
			}
			for i, p := range pages {
				v := unpackInt64(p.GetEvent())
				if v < 100 || v >= 200 {
					return fmt.Errorf("page %d: expected a main-timeline marker after fallback, got %d", i, v)
				}
			}
			return nil
		})
}
