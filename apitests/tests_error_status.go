package apitests

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/EduardoSa-Tester/satellite-api-tests/scenario"
	"github.com/EduardoSa-Tester/satellite-api-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoErrorStatusTests(t *T) {
	createURL := t.Config().SpaceObjectsURL()

	for _, c := range []struct {
		status int
		class  scenario.StatusClass
		body   interface{}
	}{
		{500, scenario.ClassServerError, map[string]string{"error": "Internal Server Error"}},
		{422, scenario.ClassClientRejection, map[string][]string{"errors": {"Unprocessable Entity"}}},
		{404, scenario.ClassNotDeployed, nil},
	} {
		c := c
		t.Run(fmt.Sprintf("%d is classified as %s", c.status, c.class), func(t *T) {
			result := t.RequireScenarioPassed(scenario.Scenario{
				Call:   scenario.Call{Method: http.MethodPost, URL: createURL, Body: servicedef.BasePayload()},
				Mock:   &scenario.Mock{Status: c.status, Body: c.body},
				Expect: []int{c.status},
			})
			assert.Equal(t, c.class, result.Class)
			assert.Equal(t, 0, t.env.harness.Interceptor().Active(), "mock outlived its scenario")
		})
	}

	t.Run("server error from the catalog is reported as unexpected", func(t *T) {
		result := t.RunScenario(scenario.Scenario{
			Call:        scenario.Call{Method: http.MethodGet, URL: t.Config().Catalog.URL},
			Mock:        &scenario.Mock{Status: 500, Body: map[string]string{"error": "Internal Server Error"}},
			Expect:      []int{200},
			RecordRules: t.CatalogRules(),
		})
		assert.False(t, result.Passed())
		assert.Equal(t, scenario.Reported, result.State)
		var use *scenario.UnexpectedStatusError
		require.True(t, errors.As(result.Err(), &use), "expected an unexpected-status error, got %v", result.Err())
		assert.Equal(t, scenario.ClassServerError, use.Class)
		assert.Empty(t, result.Records, "rules must not run on an error body")
	})
}
