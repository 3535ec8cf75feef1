package e2e

import (
	"github.com/cucumber/godog"

	"catwatch/e2e/steps/common"
	"catwatch/e2e/steps/notification"
	"catwatch/e2e/steps/sighting"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (background, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register sighting and session steps
	sighting.RegisterSteps(ctx, tc)

	// Register deletion notification steps
	notification.RegisterSteps(ctx, tc)
}
