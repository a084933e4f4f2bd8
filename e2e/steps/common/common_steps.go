package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Status() int
	Body() []byte
	DecodeBody(v any) error
}

// RegisterSteps registers status and notice assertions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response error should be "([^"]*)"$`, steps.responseErrorShouldBe)
	ctx.Step(`^the notice "([^"]*)" should be shown$`, steps.noticeShouldBeShown)
	ctx.Step(`^no notice should be shown$`, steps.noNoticeShouldBeShown)
}

type commonSteps struct {
	tc TestContext
}

type envelope struct {
	Error   string `json:"error"`
	Notices []struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"notices"`
}

func (s *commonSteps) responseStatusShouldBe(_ context.Context, status int) error {
	if s.tc.Status() != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.tc.Status(), string(s.tc.Body()))
	}
	return nil
}

func (s *commonSteps) responseErrorShouldBe(_ context.Context, code string) error {
	var body envelope
	if err := s.tc.DecodeBody(&body); err != nil {
		return err
	}
	if body.Error != code {
		return fmt.Errorf("expected error %q, got %q", code, body.Error)
	}
	return nil
}

func (s *commonSteps) noticeShouldBeShown(_ context.Context, message string) error {
	var body envelope
	if err := s.tc.DecodeBody(&body); err != nil {
		return err
	}
	for _, n := range body.Notices {
		if n.Message == message {
			return nil
		}
	}
	return fmt.Errorf("notice %q not found in %s", message, string(s.tc.Body()))
}

func (s *commonSteps) noNoticeShouldBeShown(_ context.Context) error {
	var body envelope
	if err := s.tc.DecodeBody(&body); err != nil {
		return err
	}
	if len(body.Notices) > 0 {
		return fmt.Errorf("expected no notices, got %v", body.Notices)
	}
	return nil
}
