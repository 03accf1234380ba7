package apitests

import (
	"net/http"

	"github.com/EduardoSa-Tester/satellite-api-tests/rules"
	"github.com/EduardoSa-Tester/satellite-api-tests/scenario"
	"github.com/EduardoSa-Tester/satellite-api-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invalidPayloadCase struct {
	name     string
	field    string
	override servicedef.PayloadOverride
}

var invalidPayloadCases = []invalidPayloadCase{
	{"invalid cosparId", "cosparId", servicedef.WithCosparID("Invalid-123")},
	{"invalid noradId", "noradId", servicedef.WithNoradID("123")},
	{"invalid objectType", "objectType", servicedef.WithObjectType("InvalidType")},
	{"invalid launchDate format", "launchDate", servicedef.WithLaunchDate("2023-12-08T04:06:32.929Z")},
	{"negative period", "period", servicedef.WithPeriod(-10)},
	{"invalid decay format", "decay", servicedef.WithDecay("2024-12-08T10:00:00")},
	{"negative launchMass", "launchMass", servicedef.WithLaunchMass(-5000)},
	{"zero period", "period", servicedef.WithPeriod(0)},
}

func DoSpaceObjectTests(t *T) {
	createURL := t.Config().SpaceObjectsURL()
	post := func(payload servicedef.SpaceObjectPayload) scenario.Call {
		return scenario.Call{Method: http.MethodPost, URL: createURL, Body: payload}
	}

	t.Run("valid payload is created", func(t *T) {
		payload := servicedef.BasePayload()
		require.True(t, rules.AllPassed(t.env.validator.Validate(payload)), "base payload does not pass the payload rules")

		result := t.RunScenario(scenario.Scenario{
			Call:          post(payload),
			Expect:        []int{201},
			EchoValidator: t.env.validator,
		})
		t.RequireDeployed(result)
		t.requirePassed(result)
	})

	for _, c := range invalidPayloadCases {
		c := c
		t.Run(c.name+" is rejected", func(t *T) {
			payload := servicedef.BuildPayload(c.override)
			violated := rules.ViolatedFields(t.env.validator.Validate(payload))
			require.Contains(t, violated, c.field, "test payload does not violate the %s rule", c.field)

			result := t.RunScenario(scenario.Scenario{
				Call:   post(payload),
				Expect: []int{400},
			})
			t.RequireDeployed(result)
			t.requirePassed(result)
			assert.Equal(t, scenario.ClassClientRejection, result.Class)
		})
	}
}
