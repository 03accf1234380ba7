package scenario

import (
	"fmt"
	"strings"
	"time"

	"github.com/EduardoSa-Tester/satellite-api-tests/rules"
	"github.com/EduardoSa-Tester/satellite-api-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DefaultCeilingMS is the response-time ceiling used by timing scenarios.
const DefaultCeilingMS = 5000

// ScenarioLevel is the Record index of outcomes that are about the whole response rather than
// one record.
const ScenarioLevel = -1

// Rule names for scenario-level outcomes.
const (
	RuleResponseTime = "response-time"
	RuleBodyShape    = "body-shape"
	RuleCreatedEcho  = "created-echo"
)

// State is the progress of one scenario.
type State int

const (
	NotStarted State = iota
	RequestSent
	ResponseReceived
	TransportFailed
	RulesApplied
	Reported
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case RequestSent:
		return "RequestSent"
	case ResponseReceived:
		return "ResponseReceived"
	case TransportFailed:
		return "TransportFailed"
	case RulesApplied:
		return "RulesApplied"
	case Reported:
		return "Reported"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// StatusClass groups HTTP statuses for reporting.
type StatusClass string

const (
	ClassNone            StatusClass = ""
	ClassSuccess         StatusClass = "success"
	ClassNotDeployed     StatusClass = "not deployed"
	ClassClientRejection StatusClass = "client/validation rejection"
	ClassServerError     StatusClass = "server error"
)

// ClassifyStatus maps an HTTP status to its class. 404 is kept apart from other 4xx because it
// means the endpoint itself is missing.
func ClassifyStatus(status int) StatusClass {
	switch {
	case status >= 500:
		return ClassServerError
	case status >= 200 && status < 300:
		return ClassSuccess
	case status == 404:
		return ClassNotDeployed
	case status <= 0:
		return ClassNone
	default:
		return ClassClientRejection
	}
}

// Call is the request a scenario makes.
type Call struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    interface{}
}

// Mock is a canned response that replaces the real call for the duration of one scenario.
type Mock struct {
	Alias  string
	Status int
	// Body is sent as-is if it is a []byte or string, and otherwise encoded as JSON. Nil means
	// an empty body.
	Body interface{}
}

// RuleSet builds the record rules for a scenario from the time at which the response arrived.
type RuleSet func(now time.Time) []rules.RecordRule

// Scenario describes one request and what to check about its response.
type Scenario struct {
	Name string
	Call Call
	Mock *Mock
	// Expect lists the acceptable statuses. If empty, any status is accepted.
	Expect []int
	// RecordRules, if set, are applied to every element of a JSON array body.
	RecordRules RuleSet
	// EchoValidator, if set, is applied to the created object echoed in a 2xx response body.
	EchoValidator *rules.PayloadValidator
	// CeilingMS, if defined, is the maximum acceptable wall-clock time for the call.
	CeilingMS ldvalue.OptionalInt
}

// RecordOutcome is a rule outcome tied to the index of the record it was evaluated on, or to
// ScenarioLevel.
type RecordOutcome struct {
	Record int
	rules.Outcome
}

func (o RecordOutcome) String() string {
	if o.Record == ScenarioLevel {
		return o.Outcome.String()
	}
	return fmt.Sprintf("record %d: %s", o.Record, o.Outcome)
}

// UnexpectedStatusError reports a status outside the scenario's expected set.
type UnexpectedStatusError struct {
	Status   int
	Class    StatusClass
	Expected []int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d (%s), expected one of %v", e.Status, e.Class, e.Expected)
}

// SetupError means the scenario could not be started, for example because its mock could not be
// registered. Nothing was sent to the service under test.
type SetupError struct {
	Scenario string
	Err      error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setting up %q: %s", e.Scenario, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// Result is the report of one scenario.
type Result struct {
	Name          string
	State         State
	Status        int
	Class         StatusClass
	Expected      []int
	Body          []byte
	JSON          ldvalue.Value
	Records       []servicedef.CatalogRecord
	Outcomes      []RecordOutcome
	Elapsed       time.Duration
	CeilingMS     ldvalue.OptionalInt
	WithinCeiling bool
	Unexpected    bool
	TransportErr  error
	SetupErr      error
	Now           time.Time
	Log           []string
}

// Err returns the first problem that makes the scenario fail as a whole: a setup error, a transport
// error or an unexpected status. Rule failures are reported through Failures.
func (r Result) Err() error {
	if r.SetupErr != nil {
		return r.SetupErr
	}
	if r.TransportErr != nil {
		return r.TransportErr
	}
	if r.Unexpected {
		return &UnexpectedStatusError{Status: r.Status, Class: r.Class, Expected: r.Expected}
	}
	return nil
}

// Failures returns every failed outcome.
func (r Result) Failures() []RecordOutcome {
	var ret []RecordOutcome
	for _, o := range r.Outcomes {
		if !o.Passed {
			ret = append(ret, o)
		}
	}
	return ret
}

// Passed reports whether the call completed with an expected status and every rule passed.
func (r Result) Passed() bool {
	return r.SetupErr == nil && r.TransportErr == nil && !r.Unexpected && len(r.Failures()) == 0
}

// OutcomesFor returns the outcomes produced by one rule, in record order.
func (r Result) OutcomesFor(rule string) []RecordOutcome {
	var ret []RecordOutcome
	for _, o := range r.Outcomes {
		if o.Rule == rule {
			ret = append(ret, o)
		}
	}
	return ret
}

// Summary describes the result in one line per problem, naming the failing rules and records.
func (r Result) Summary() string {
	var lines []string
	if err := r.Err(); err != nil {
		lines = append(lines, err.Error())
	}
	for _, f := range r.Failures() {
		lines = append(lines, f.String())
	}
	if len(lines) == 0 {
		return fmt.Sprintf("%s: status %d (%s), %d records, all rules passed", r.Name, r.Status, r.Class, len(r.Records))
	}
	return r.Name + ":\n  " + strings.Join(lines, "\n  ")
}
