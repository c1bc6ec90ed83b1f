package features

import (
	"context"
	"fmt"
	"sync"

	"github.com/cucumber/godog"
	"google.golang.org/grpc"

	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/store"
)

func echoingAggregate() *scriptedAggregate {
	return &scriptedAggregate{
		handle: func(cc *pb.ContextualCommand) (*pb.BusinessResponse, error) {
			next := cc.GetEvents().GetNextSequence()
			return &pb.BusinessResponse{Result: &pb.BusinessResponse_Events{Events: &pb.EventBook{
				Cover: cc.GetCommand().GetCover(),
				Pages: []*pb.EventPage{{Sequence: next, Event: mustAny(1)}},
			}}}, nil
		},
	}
}

func initAggregateSteps(ctx *godog.ScenarioContext, w *world) {
	ctx.Step(`^a registered aggregate handler for domain "([^"]*)" that echoes the expected sequence$`,
		func(domain string) error {
			w.registry.RegisterAggregateHandler(domain, domain)
			return w.startServer(domain, func(s *grpc.Server) {
				pb.RegisterAggregateServiceServer(s, echoingAggregate())
			})
		})

	ctx.Step(`^I execute a command on a fresh "([^"]*)" aggregate at sequence (\d+) with correlation "([^"]*)"$`,
		func(domain string, seq int, correlation string) error {
			w.registry.RegisterAggregateHandler(domain, domain)
			cover := newCover(domain, correlation)
			w.lastCover = cover
			cmd := &pb.CommandBook{
				Cover:         cover,
				CorrelationId: correlation,
				Pages:         []*pb.CommandPage{{Sequence: uint32(seq), Command: mustAny(1)}},
			}
			w.lastBook, w.lastErr = w.coord.Execute(context.Background(), cmd)
			return nil
		})

	ctx.Step(`^the command succeeds$`, func() error {
		if w.lastErr != nil {
			return fmt.Errorf("expected success, got error: %w", w.lastErr)
		}
		return nil
	})

	ctx.Step(`^the committed event book has exactly (\d+) page$`, func(n int) error {
		if got := len(w.lastBook.GetPages()); got != n {
			return fmt.Errorf("expected %d pages, got %d", n, got)
		}
		return nil
	})

	ctx.Step(`^the committed event book's correlation id is "([^"]*)"$`, func(want string) error {
		if got := w.lastBook.GetCover().GetCorrelationId(); got != want {
			return fmt.Errorf("expected correlation id %q, got %q", want, got)
		}
		return nil
	})

	ctx.Step(`^the aggregate's stored event stream has exactly (\d+) page at sequence (\d+)$`,
		func(n, seq int) error {
			key := aggregateKeyFor(w.lastCover)
			pages, err := w.backend.Events().Load(context.Background(), key, 0)
			if err != nil {
				return err
			}
			if len(pages) != n {
				return fmt.Errorf("expected %d stored pages, got %d", n, len(pages))
			}
			if pages[0].GetSequence() != uint32(seq) {
				return fmt.Errorf("expected first page at sequence %d, got %d", seq, pages[0].GetSequence())
			}
			return nil
		})

	ctx.Step(`^the "([^"]*)" aggregate already has (\d+) committed events$`,
		func(domain string, n int) error {
			cover := newCover(domain, "seed")
			w.lastCover = cover
			key := aggregateKeyFor(cover)
			pages := make([]*pb.EventPage, n)
			for i := 0; i < n; i++ {
				pages[i] = &pb.EventPage{Sequence: uint32(i), Event: mustAny(int64(i))}
			}
			return w.backend.Events().Append(context.Background(), key, 0, pages)
		})

	ctx.Step(`^(\d+) concurrent commands are executed against it with expected sequence (\d+)$`,
		func(n, seq int) error {
			var wg sync.WaitGroup
			results := make([]error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					cmd := &pb.CommandBook{
						Cover:         w.lastCover,
						CorrelationId: w.lastCover.GetCorrelationId(),
						Pages:         []*pb.CommandPage{{Sequence: uint32(seq), Command: mustAny(1)}},
					}
					_, results[i] = w.coord.Execute(context.Background(), cmd)
				}(i)
			}
			wg.Wait()
			w.concurrent = results
			return nil
		})

	ctx.Step(`^all (\d+) commands succeed$`, func(n int) error {
		var failed []error
		for _, err := range w.concurrent {
			if err != nil {
				failed = append(failed, err)
			}
		}
		if len(failed) != 0 {
			return fmt.Errorf("expected all %d commands to succeed, got %d failures: %v", n, len(failed), failed)
		}
		return nil
	})

	ctx.Step(`^the aggregate's stored event stream has exactly (\d+) pages with no duplicate sequences$`,
		func(n int) error {
			key := aggregateKeyFor(w.lastCover)
			pages, err := w.backend.Events().Load(context.Background(), key, 0)
			if err != nil {
				return err
			}
			if len(pages) != n {
				return fmt.Errorf("expected %d stored pages, got %d", n, len(pages))
			}
			seen := make(map[uint32]bool, len(pages))
			for _, p := range pages {
				if seen[p.GetSequence()] {
					return fmt.Errorf("duplicate sequence %d in stored stream", p.GetSequence())
				}
				seen[p.GetSequence()] = true
			}
			return nil
		})
}

func aggregateKeyFor(cover *pb.Cover) store.AggregateKey {
	root, _ := model.RootUUID(cover)
	return store.AggregateKey{Domain: cover.GetDomain(), Edition: model.Edition(cover), Root: root}
}
