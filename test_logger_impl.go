package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/EduardoSa-Tester/satellite-api-tests/framework"

	"github.com/fatih/color"
)

var (
	failColor = color.New(color.FgRed, color.Bold)
	passColor = color.New(color.FgGreen)
	skipColor = color.New(color.FgYellow)
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		failColor.Fprintf(c.Out, "  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		skipColor.Fprintf(c.Out, "  SKIPPED: %s\n", id)
	} else {
		skipColor.Fprintf(c.Out, "  SKIPPED: %s (%s)\n", id, reason)
	}
}

func printResults(out io.Writer, results framework.Results) {
	skipped := len(results.Skipped())
	if results.OK() {
		passColor.Fprintf(out, "All tests passed (%d run, %d skipped)\n", len(results.Tests), skipped)
		return
	}
	failColor.Fprintf(out, "FAILED TESTS (%d of %d, %d skipped):\n", len(results.Failures), len(results.Tests), skipped)
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  * %s\n", f.TestID)
	}
}
