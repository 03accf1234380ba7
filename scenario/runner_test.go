package scenario

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/EduardoSa-Tester/satellite-api-tests/framework"
	"github.com/EduardoSa-Tester/satellite-api-tests/refservice"
	"github.com/EduardoSa-Tester/satellite-api-tests/rules"
	"github.com/EduardoSa-Tester/satellite-api-tests/servicedef"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func catalogRules(now time.Time) []rules.RecordRule {
	return rules.CatalogRules(now, rules.DefaultRecencyWindowDays)
}

type runnerFixture struct {
	harness *framework.TestHarness
	runner  *Runner
	baseURL string
}

func newRunnerFixture(t *testing.T) runnerFixture {
	server := httptest.NewServer(refservice.New(refservice.Options{Now: clock}))
	t.Cleanup(server.Close)
	harness := framework.NewTestHarness(nil, time.Second*5, nil)
	return runnerFixture{
		harness: harness,
		runner:  NewRunner(harness, WithClock(clock)),
		baseURL: server.URL,
	}
}

func (f runnerFixture) catalogURL(group string) string {
	return f.baseURL + refservice.CatalogPath + "?GROUP=" + group + "&FORMAT=json"
}

func TestClassifyStatus(t *testing.T) {
	for status, class := range map[int]StatusClass{
		200: ClassSuccess,
		201: ClassSuccess,
		204: ClassSuccess,
		400: ClassClientRejection,
		404: ClassNotDeployed,
		422: ClassClientRejection,
		500: ClassServerError,
		503: ClassServerError,
	} {
		assert.Equal(t, class, ClassifyStatus(status), "status %d", status)
	}
}

func TestLiveCatalogRecordsPassAllRules(t *testing.T) {
	f := newRunnerFixture(t)
	result := f.runner.Run(context.Background(), Scenario{
		Name:        "catalog",
		Call:        Call{Method: "GET", URL: f.catalogURL("last-30-days")},
		Expect:      []int{200},
		RecordRules: catalogRules,
	}, nil)

	assert.True(t, result.Passed(), result.Summary())
	assert.Equal(t, Reported, result.State)
	assert.Equal(t, ClassSuccess, result.Class)
	assert.Equal(t, fixedNow, result.Now)
	require.NotEmpty(t, result.Records)
	assert.Len(t, result.Outcomes, len(result.Records)*4)
	assert.Len(t, result.OutcomesFor(rules.RuleRecency), len(result.Records))
	assert.Equal(t, ldvalue.ArrayType, result.JSON.Type())
	assert.Contains(t, result.Log, "[catalog] RulesApplied -> Reported")
}

func TestMockedServerErrorIsReportedAndRemoved(t *testing.T) {
	f := newRunnerFixture(t)
	url := f.catalogURL("last-30-days")
	result := f.runner.Run(context.Background(), Scenario{
		Name:   "server error",
		Call:   Call{Method: "GET", URL: url},
		Mock:   &Mock{Alias: "serverError", Status: 500, Body: map[string]string{"error": "Internal Server Error"}},
		Expect: []int{500},
	}, nil)

	assert.True(t, result.Passed(), result.Summary())
	assert.Equal(t, 500, result.Status)
	assert.Equal(t, ClassServerError, result.Class)
	assert.Equal(t, "Internal Server Error", result.JSON.GetByKey("error").StringValue())
	assert.Equal(t, 0, f.harness.Interceptor().Active())

	after := f.runner.Run(context.Background(), Scenario{Name: "after", Call: Call{URL: url}}, nil)
	assert.Equal(t, 200, after.Status, "mock must not outlive its scenario")
}

func TestMockedEmptyResultHasNoRecords(t *testing.T) {
	f := newRunnerFixture(t)
	result := f.runner.Run(context.Background(), Scenario{
		Name:        "no data",
		Call:        Call{Method: "GET", URL: f.catalogURL("last-30-days")},
		Mock:        &Mock{Status: 204},
		Expect:      []int{200, 204},
		RecordRules: catalogRules,
	}, nil)

	assert.True(t, result.Passed(), result.Summary())
	assert.Equal(t, 204, result.Status)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Outcomes)
}

func TestStaleRecordFailureNamesRecordAndRule(t *testing.T) {
	f := newRunnerFixture(t)
	records := []map[string]interface{}{
		{"EPOCH": "2024-06-14T00:00:00", "OBJECT_ID": "2024-051A", "NORAD_CAT_ID": 59001},
		{"EPOCH": "2024-01-01T00:00:00", "OBJECT_ID": "2024-051B", "NORAD_CAT_ID": 59002},
	}
	result := f.runner.Run(context.Background(), Scenario{
		Name:        "stale",
		Call:        Call{Method: "GET", URL: f.catalogURL("last-30-days")},
		Mock:        &Mock{Status: 200, Body: records},
		Expect:      []int{200},
		RecordRules: catalogRules,
	}, nil)

	assert.False(t, result.Passed())
	assert.Nil(t, result.Err())
	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, 1, failures[0].Record)
	assert.Equal(t, rules.RuleRecency, failures[0].Rule)
	assert.Contains(t, result.Summary(), "record 1: "+rules.RuleRecency)
}

func TestMalformedBodyIsParseError(t *testing.T) {
	f := newRunnerFixture(t)
	result := f.runner.Run(context.Background(), Scenario{
		Name:        "malformed",
		Call:        Call{Method: "GET", URL: f.catalogURL("last-30-days")},
		Mock:        &Mock{Status: 200, Body: "not json"},
		Expect:      []int{200},
		RecordRules: catalogRules,
	}, nil)

	assert.False(t, result.Passed())
	assert.True(t, result.JSON.IsNull())
	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, RuleBodyShape, failures[0].Rule)
	assert.Equal(t, ScenarioLevel, failures[0].Record)
	assert.Equal(t, rules.KindParseError, failures[0].Kind)
}

func TestUnexpectedStatus(t *testing.T) {
	f := newRunnerFixture(t)
	result := f.runner.Run(context.Background(), Scenario{
		Name:   "unprocessable",
		Call:   Call{Method: "POST", URL: f.baseURL + servicedef.SpaceObjectsPath, Body: servicedef.BasePayload()},
		Mock:   &Mock{Status: 422},
		Expect: []int{201},
	}, nil)

	assert.False(t, result.Passed())
	assert.True(t, result.Unexpected)
	assert.Equal(t, ClassClientRejection, result.Class)
	var use *UnexpectedStatusError
	require.True(t, errors.As(result.Err(), &use))
	assert.Equal(t, 422, use.Status)
	assert.Equal(t, []int{201}, use.Expected)
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	url := server.URL
	server.Close()

	harness := framework.NewTestHarness(nil, time.Second*5, nil)
	result := NewRunner(harness).Run(context.Background(), Scenario{
		Name:   "unreachable",
		Call:   Call{URL: url},
		Expect: []int{200},
	}, nil)

	assert.False(t, result.Passed())
	assert.Equal(t, TransportFailed, result.State)
	var te *framework.TransportError
	assert.True(t, errors.As(result.Err(), &te))
	assert.Equal(t, 0, result.Status)
}

func TestMockRegistrationFailureIsSetupError(t *testing.T) {
	f := newRunnerFixture(t)
	result := f.runner.Run(context.Background(), Scenario{
		Name:   "bad mock",
		Call:   Call{URL: "http://svc.example/%zz"},
		Mock:   &Mock{Status: 500},
		Expect: []int{500},
	}, nil)

	assert.False(t, result.Passed())
	assert.Nil(t, result.TransportErr)
	assert.NotEqual(t, TransportFailed, result.State)
	var se *SetupError
	require.True(t, errors.As(result.Err(), &se))
	assert.Equal(t, "bad mock", se.Scenario)
	var te *framework.TransportError
	assert.False(t, errors.As(result.Err(), &te))
	assert.Equal(t, 0, f.harness.Interceptor().Active())
}

func TestCreatedEchoIsValidated(t *testing.T) {
	f := newRunnerFixture(t)
	result := f.runner.Run(context.Background(), Scenario{
		Name:          "create",
		Call:          Call{Method: "POST", URL: f.baseURL + servicedef.SpaceObjectsPath, Body: servicedef.BasePayload()},
		Expect:        []int{201},
		EchoValidator: rules.NewPayloadValidator(servicedef.AllObjectTypes),
	}, nil)

	assert.True(t, result.Passed(), result.Summary())
	echo := result.OutcomesFor(RuleCreatedEcho)
	require.Len(t, echo, 1)
	assert.True(t, echo[0].Passed)
	assert.Len(t, result.OutcomesFor(rules.RulePayload), 1)
}

func TestCreatedEchoWithoutIDFails(t *testing.T) {
	f := newRunnerFixture(t)
	result := f.runner.Run(context.Background(), Scenario{
		Name:          "create",
		Call:          Call{Method: "POST", URL: f.baseURL + servicedef.SpaceObjectsPath, Body: servicedef.BasePayload()},
		Mock:          &Mock{Status: 201, Body: servicedef.BasePayload()},
		Expect:        []int{201},
		EchoValidator: rules.NewPayloadValidator(servicedef.AllObjectTypes),
	}, nil)

	assert.False(t, result.Passed())
	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, RuleCreatedEcho, failures[0].Rule)
}

func TestResponseTimeCeiling(t *testing.T) {
	f := newRunnerFixture(t)
	result := f.runner.Run(context.Background(), Scenario{
		Name:      "fast",
		Call:      Call{URL: f.catalogURL("last-30-days")},
		Expect:    []int{200},
		CeilingMS: ldvalue.NewOptionalInt(DefaultCeilingMS),
	}, nil)
	assert.True(t, result.Passed(), result.Summary())
	assert.True(t, result.WithinCeiling)
	require.Len(t, result.OutcomesFor(RuleResponseTime), 1)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond * 100)
		w.WriteHeader(200)
	}))
	defer slow.Close()
	result = f.runner.Run(context.Background(), Scenario{
		Name:      "slow",
		Call:      Call{URL: slow.URL},
		Expect:    []int{200},
		CeilingMS: ldvalue.NewOptionalInt(10),
	}, nil)
	assert.False(t, result.Passed())
	assert.False(t, result.WithinCeiling)
	assert.Nil(t, result.Err())
	assert.True(t, strings.Contains(result.Summary(), RuleResponseTime))
}

func TestInvalidPayloadAnsweredWithOtherStatusIsUnexpected(t *testing.T) {
	f := newRunnerFixture(t)
	payload := servicedef.BuildPayload(servicedef.WithCosparID("Invalid-123"))
	for status, class := range map[int]StatusClass{404: ClassNotDeployed, 201: ClassSuccess} {
		result := f.runner.Run(context.Background(), Scenario{
			Name:   "invalid cosparId",
			Call:   Call{Method: "POST", URL: f.baseURL + servicedef.SpaceObjectsPath, Body: payload},
			Mock:   &Mock{Status: status},
			Expect: []int{400},
		}, nil)
		assert.Equal(t, Reported, result.State)
		assert.True(t, result.Unexpected, "status %d", status)
		assert.Equal(t, class, result.Class)
		assert.Nil(t, result.TransportErr)
	}
}
