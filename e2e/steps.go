package e2e

import (
	"github.com/cucumber/godog"

	"beautylist/e2e/steps/catalog"
	"beautylist/e2e/steps/common"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (reset, status and notice assertions)
	common.RegisterSteps(ctx, tc)

	// Register catalog-specific steps
	catalog.RegisterSteps(ctx, tc)
}
