// Package scenario runs one HTTP request against a service under test, optionally with its
// response replaced by a mock, and evaluates the response: the status against an expected set,
// validation rules against every record in the body, and the elapsed time against a ceiling.
package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/EduardoSa-Tester/satellite-api-tests/framework"
	"github.com/EduardoSa-Tester/satellite-api-tests/rules"
	"github.com/EduardoSa-Tester/satellite-api-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Runner executes scenarios through a TestHarness. Scenarios are independent of each other; a
// Runner can be used for any number of them.
type Runner struct {
	harness *framework.TestHarness
	now     func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock sets the clock used to compute each scenario's "now" for record rules.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a Runner.
func NewRunner(harness *framework.TestHarness, opts ...RunnerOption) *Runner {
	r := &Runner{harness: harness, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

type teeLogger []framework.Logger

func (t teeLogger) Printf(message string, args ...interface{}) {
	for _, l := range t {
		l.Printf(message, args...)
	}
}

// Run executes a scenario. It never panics on service misbehavior: transport errors, unexpected
// statuses and rule violations are all reported in the Result.
func (r *Runner) Run(ctx context.Context, s Scenario, logger framework.Logger) (result Result) {
	var captured framework.CapturingLogger
	log := teeLogger{&captured}
	if logger != nil {
		log = append(log, logger)
	}
	result = Result{
		Name:          s.Name,
		State:         NotStarted,
		Expected:      s.Expect,
		CeilingMS:     s.CeilingMS,
		JSON:          ldvalue.Null(),
		WithinCeiling: true,
	}
	defer func() {
		result.Log = captured.Output().Messages()
	}()
	transition := func(next State) {
		log.Printf("[%s] %s -> %s", s.Name, result.State, next)
		result.State = next
	}

	if s.Mock != nil {
		intercept, err := r.registerMock(s, log)
		if err != nil {
			result.SetupErr = &SetupError{Scenario: s.Name, Err: err}
			log.Printf("[%s] %s", s.Name, result.SetupErr)
			transition(Reported)
			return result
		}
		defer func() {
			if intercept.Hits() == 0 {
				log.Printf("[%s] mock @%s was never requested", s.Name, intercept.Alias())
			}
			intercept.Close()
		}()
	}

	transition(RequestSent)
	started := time.Now()
	resp, err := r.harness.Send(ctx, framework.OutgoingRequest{
		Method:  s.Call.Method,
		URL:     s.Call.URL,
		Headers: s.Call.Headers,
		Body:    s.Call.Body,
	}, log)
	result.Elapsed = time.Since(started)
	if err != nil {
		var te *framework.TransportError
		if !errors.As(err, &te) {
			result.SetupErr = &SetupError{Scenario: s.Name, Err: err}
			log.Printf("[%s] %s", s.Name, result.SetupErr)
			transition(Reported)
			return result
		}
		result.TransportErr = err
		transition(TransportFailed)
		return result
	}

	result.Now = r.now()
	result.Status = resp.Status
	result.Class = ClassifyStatus(resp.Status)
	result.Body = resp.Body
	if json.Valid(resp.Body) {
		result.JSON = ldvalue.Parse(resp.Body)
	}
	transition(ResponseReceived)

	if len(s.Expect) != 0 && !containsStatus(s.Expect, resp.Status) {
		result.Unexpected = true
		log.Printf("[%s] status %d (%s) is not one of %v", s.Name, resp.Status, result.Class, s.Expect)
	}

	if result.Class == ClassSuccess {
		result.Outcomes = append(result.Outcomes, applyRecordRules(s, &result)...)
		result.Outcomes = append(result.Outcomes, checkCreatedEcho(s, resp.Body)...)
	}
	if s.CeilingMS.IsDefined() {
		ceiling := time.Duration(s.CeilingMS.IntValue()) * time.Millisecond
		result.WithinCeiling = result.Elapsed <= ceiling
		o := rules.Outcome{
			Rule:   RuleResponseTime,
			Passed: result.WithinCeiling,
			Detail: fmt.Sprintf("%d ms against a ceiling of %d ms", result.Elapsed.Milliseconds(), ceiling.Milliseconds()),
		}
		if !o.Passed {
			o.Kind = rules.KindSchemaViolation
		}
		result.Outcomes = append(result.Outcomes, RecordOutcome{Record: ScenarioLevel, Outcome: o})
	}
	transition(RulesApplied)

	for _, f := range result.Failures() {
		log.Printf("[%s] %s", s.Name, f)
	}
	transition(Reported)
	return result
}

func (r *Runner) registerMock(s Scenario, log framework.Logger) (*framework.Intercept, error) {
	var body []byte
	switch b := s.Mock.Body.(type) {
	case nil:
	case []byte:
		body = b
	case string:
		body = []byte(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encoding mock body for %q: %w", s.Name, err)
		}
		body = data
	}
	var headers http.Header
	if len(body) != 0 {
		headers = http.Header{"Content-Type": []string{"application/json"}}
	}
	alias := s.Mock.Alias
	if alias == "" {
		alias = s.Name
	}
	return r.harness.Intercept(framework.InterceptParams{
		Alias:   alias,
		Method:  s.Call.Method,
		URL:     s.Call.URL,
		Status:  s.Mock.Status,
		Headers: headers,
		Body:    body,
	}, log)
}

func applyRecordRules(s Scenario, result *Result) []RecordOutcome {
	if s.RecordRules == nil {
		return nil
	}
	records, err := servicedef.ParseCatalogRecords(result.Body)
	if err != nil {
		return []RecordOutcome{{
			Record:  ScenarioLevel,
			Outcome: rules.Outcome{Rule: RuleBodyShape, Kind: rules.KindParseError, Detail: err.Error()},
		}}
	}
	result.Records = records
	ruleSet := s.RecordRules(result.Now)
	var ret []RecordOutcome
	for i, rec := range records {
		for _, o := range rules.Apply(rec, ruleSet...) {
			ret = append(ret, RecordOutcome{Record: i, Outcome: o})
		}
	}
	return ret
}

func checkCreatedEcho(s Scenario, body []byte) []RecordOutcome {
	if s.EchoValidator == nil {
		return nil
	}
	var created servicedef.CreatedSpaceObject
	if err := json.Unmarshal(body, &created); err != nil {
		return []RecordOutcome{{
			Record:  ScenarioLevel,
			Outcome: rules.Outcome{Rule: RuleCreatedEcho, Kind: rules.KindParseError, Detail: err.Error()},
		}}
	}
	if created.ID == "" {
		return []RecordOutcome{{
			Record: ScenarioLevel,
			Outcome: rules.Outcome{Rule: RuleCreatedEcho, Kind: rules.KindSchemaViolation,
				Detail: "created object has no id"},
		}}
	}
	ret := []RecordOutcome{{
		Record:  ScenarioLevel,
		Outcome: rules.Outcome{Rule: RuleCreatedEcho, Passed: true, Detail: "created with id " + created.ID},
	}}
	for _, o := range s.EchoValidator.Validate(created.SpaceObjectPayload) {
		ret = append(ret, RecordOutcome{Record: 0, Outcome: o})
	}
	return ret
}

func containsStatus(statuses []int, status int) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
