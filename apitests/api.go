package apitests

import (
	"context"
	"time"

	"github.com/EduardoSa-Tester/satellite-api-tests/config"
	"github.com/EduardoSa-Tester/satellite-api-tests/framework"
	"github.com/EduardoSa-Tester/satellite-api-tests/rules"
	"github.com/EduardoSa-Tester/satellite-api-tests/scenario"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/require"
)

type environment struct {
	harness   *framework.TestHarness
	runner    *scenario.Runner
	config    *config.Config
	validator *rules.PayloadValidator
}

// T represents a test or subtest in the API contract suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, with debug logging captured per test. Those features are provided
// by the lower-level framework package.
//
// It also provides functionality that is specific to these services: running a scenario against
// one of the configured endpoints, with or without a mocked response, and turning the scenario's
// report into test failures.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if it
// were a *testing.T.
type T struct {
	context *framework.Context
	env     *environment
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(&T{context: c, env: t.env})
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Skip stops the test and reports it as skipped with a reason.
func (t *T) Skip(reason string) {
	t.context.SkipWithReason(reason)
}

// Config returns the configuration of the run.
func (t *T) Config() *config.Config {
	return t.env.config
}

// CatalogRules is the rule set applied to every catalog record.
func (t *T) CatalogRules() scenario.RuleSet {
	window := t.env.config.Catalog.RecencyWindowDays
	return func(now time.Time) []rules.RecordRule {
		return rules.CatalogRules(now, window)
	}
}

// Ceiling is the configured response-time ceiling in milliseconds.
func (t *T) Ceiling() ldvalue.OptionalInt {
	return ldvalue.NewOptionalInt(int(t.env.config.ResponseTimeCeiling.Milliseconds()))
}

// RunScenario runs a scenario and returns its report. The scenario's log goes to the test's debug
// output. It does not fail the test by itself.
func (t *T) RunScenario(s scenario.Scenario) scenario.Result {
	if s.Name == "" {
		s.Name = t.context.ID().String()
	}
	result := t.env.runner.Run(context.Background(), s, t.context.DebugLogger())
	t.Debug("%s", result.Summary())
	return result
}

// RequireScenarioPassed runs a scenario and fails the test immediately unless it passed. Every
// failing rule is reported with its record index.
func (t *T) RequireScenarioPassed(s scenario.Scenario) scenario.Result {
	result := t.RunScenario(s)
	t.requirePassed(result)
	return result
}

func (t *T) requirePassed(result scenario.Result) {
	if result.Passed() {
		return
	}
	if err := result.Err(); err != nil {
		t.Errorf("%s", err)
	}
	for _, f := range result.Failures() {
		t.Errorf("%s", f)
	}
	t.FailNow()
}

// RequireRuleFailure fails the test unless the result has a failed outcome for the given rule on
// the given record. This is how a test confirms that a rule detects a known-bad record.
func (t *T) RequireRuleFailure(result scenario.Result, rule string, record int) scenario.RecordOutcome {
	require.NoError(t, result.Err())
	for _, o := range result.OutcomesFor(rule) {
		if o.Record == record {
			require.False(t, o.Passed, "expected rule %q to fail on record %d, but it passed: %s", rule, record, o.Detail)
			return o
		}
	}
	require.Fail(t, "rule was not evaluated", "no outcome for rule %q on record %d", rule, record)
	return scenario.RecordOutcome{}
}

// RequireDeployed skips the test if the result shows the endpoint is not deployed.
func (t *T) RequireDeployed(result scenario.Result) {
	if result.TransportErr == nil && result.Class == scenario.ClassNotDeployed {
		t.Skip("endpoint is not deployed (404 from " + result.Name + ")")
	}
}
