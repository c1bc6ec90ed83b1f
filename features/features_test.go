package features

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
)

var opts = godog.Options{
	Output:      colors.Colored(os.Stdout),
	Format:      "progress",
	Paths:       []string{"."},
	Randomize:   0,
	Concurrency: 1,
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options:             &opts,
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status from godog suite")
	}
}

// InitializeScenario is called by godog once per scenario. It wires that
// scenario's step definitions against a *world whose contents are replaced
// fresh in the Before hook (rather than reallocated), so every initXSteps
// closure observes the current scenario's state.
func InitializeScenario(ctx *godog.ScenarioContext) {
	w := &world{}

	ctx.Before(func(goCtx context.Context, sc *godog.Scenario) (context.Context, error) {
		*w = *newWorld()
		return goCtx, nil
	})
	ctx.After(func(goCtx context.Context, sc *godog.Scenario, scenarioErr error) (context.Context, error) {
		w.close()
		return goCtx, scenarioErr
	})

	initCommonSteps(ctx, w)
	initAggregateSteps(ctx, w)
	initEditionSteps(ctx, w)
	initSagaSteps(ctx, w)
	initRejectionSteps(ctx, w)
	initProjectorSteps(ctx, w)
}
