//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"audio-bridge/cmd"

	"github.com/cucumber/godog"
)

type cliState struct {
	output *bytes.Buffer
	err    error
}

func initializeDownloadSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^I run the download command for "([^"]*)"$`, iRunTheDownloadCommandFor)
	ctx.Step(`^the command should succeed$`, theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, theCommandShouldFailWith)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^the printed status should be "([^"]*)"$`, thePrintedStatusShouldBe)
}

func iRunTheDownloadCommandFor(url string) error {
	p := SharedPipelineContext
	runner, err := p.runner()
	if err != nil {
		return err
	}

	p.cli.output = &bytes.Buffer{}
	p.cli.err = cmd.RunDownloadWithDependencies(context.Background(), runner, url, p.cli.output)
	return nil
}

func theCommandShouldSucceed() error {
	if err := SharedPipelineContext.cli.err; err != nil {
		return fmt.Errorf("expected success, got %v\noutput:\n%s", err, SharedPipelineContext.cli.output)
	}
	return nil
}

func theCommandShouldFailWith(expected string) error {
	err := SharedPipelineContext.cli.err
	if err == nil {
		return fmt.Errorf("expected failure containing %q", expected)
	}
	if !strings.Contains(err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got %q", expected, err.Error())
	}
	return nil
}

func theOutputShouldContain(expected string) error {
	if out := SharedPipelineContext.cli.output.String(); !strings.Contains(out, expected) {
		return fmt.Errorf("output does not contain %q:\n%s", expected, out)
	}
	return nil
}

func thePrintedStatusShouldBe(expected string) error {
	var result struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(SharedPipelineContext.cli.output.Bytes(), &result); err != nil {
		return fmt.Errorf("output is not a JSON result: %w", err)
	}
	if result.Status != expected {
		return fmt.Errorf("expected status %q, got %q", expected, result.Status)
	}
	return nil
}
