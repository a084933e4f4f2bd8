package e2e

import (
	"context"
	"testing"

	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	if !NewTestContext().Reachable() {
		t.Skip("beautylist server not reachable; set BEAUTYLIST_E2E_URL or start cmd/server")
	}

	suite := godog.TestSuite{
		Name: "beautylist",
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			tc := NewTestContext()
			sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
				return ctx, tc.Reset()
			})
			RegisterSteps(sc, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
