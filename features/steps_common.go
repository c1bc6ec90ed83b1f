package features

import (
	"github.com/cucumber/godog"
	"google.golang.org/grpc"

	"github.com/angzarr-io/angzarr/internal/pb"
)

// initCommonSteps registers steps shared by more than one scenario, so each
// step text is wired exactly once even though several .feature files use it.
func initCommonSteps(ctx *godog.ScenarioContext, w *world) {
	ctx.Step(`^a registered aggregate handler for domain "([^"]*)" that creates the aggregate$`,
		func(domain string) error {
			return w.startServer(domain, func(s *grpc.Server) {
				pb.RegisterAggregateServiceServer(s, &scriptedAggregate{
					handle: func(cc *pb.ContextualCommand) (*pb.BusinessResponse, error) {
						w.mu.Lock()
						w.handled = append(w.handled, cc)
						w.mu.Unlock()
						next := cc.GetEvents().GetNextSequence()
						return &pb.BusinessResponse{Result: &pb.BusinessResponse_Events{Events: &pb.EventBook{
							Cover: cc.GetCommand().GetCover(),
							Pages: []*pb.EventPage{{Sequence: next, Event: mustAny(1)}},
						}}}, nil
					},
				})
			})
		})
}
