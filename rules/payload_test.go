package rules

import (
	"math"
	"testing"

	"github.com/EduardoSa-Tester/satellite-api-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePayloadAcceptsBasePayload(t *testing.T) {
	outcomes := ValidatePayload(servicedef.BasePayload())
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Passed)
	assert.Equal(t, RulePayload, outcomes[0].Rule)
}

func TestValidatePayloadRejectsSingleField(t *testing.T) {
	cases := []struct {
		name     string
		override servicedef.PayloadOverride
		field    string
	}{
		{"cosparId", servicedef.WithCosparID("Invalid-123"), "cosparId"},
		{"noradId", servicedef.WithNoradID("123"), "noradId"},
		{"objectType", servicedef.WithObjectType("InvalidType"), "objectType"},
		{"launchDate with time", servicedef.WithLaunchDate("2023-12-08T04:06:32.929Z"), "launchDate"},
		{"negative period", servicedef.WithPeriod(-10), "period"},
		{"decay with time", servicedef.WithDecay("2024-12-08T10:00:00"), "decay"},
		{"negative launchMass", servicedef.WithLaunchMass(-5000), "launchMass"},
		{"zero period", servicedef.WithPeriod(0), "period"},
		{"zero dryMass", servicedef.WithDryMass(0), "dryMass"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			outcomes := ValidatePayload(servicedef.BuildPayload(c.override))
			assert.Equal(t, []string{c.field}, ViolatedFields(outcomes))
			assert.False(t, AllPassed(outcomes))
		})
	}
}

func TestValidatePayloadAllowsZeroPerigee(t *testing.T) {
	outcomes := ValidatePayload(servicedef.BuildPayload(servicedef.WithPerigee(0)))
	assert.True(t, AllPassed(outcomes))
}

func TestValidatePayloadSignChecks(t *testing.T) {
	period, ok := Find(ValidatePayload(servicedef.BuildPayload(servicedef.WithPeriod(0))), "payload.period")
	require.True(t, ok)
	assert.Equal(t, "period 0 must be greater than 0", period.Detail)

	perigee, ok := Find(ValidatePayload(servicedef.BuildPayload(servicedef.WithPerigee(-1))), "payload.perigee")
	require.True(t, ok)
	assert.Equal(t, "perigee -1 must not be negative", perigee.Detail)

	outcomes := ValidatePayload(servicedef.BuildPayload(servicedef.WithDryMass(math.NaN())))
	assert.Equal(t, []string{"dryMass"}, ViolatedFields(outcomes))
}

func TestValidatePayloadReportsEveryViolation(t *testing.T) {
	p := servicedef.BuildPayload(
		servicedef.WithCosparID("x"),
		servicedef.WithNoradID("123456"),
		servicedef.WithPeriod(0),
	)
	outcomes := ValidatePayload(p)
	assert.Equal(t, []string{"cosparId", "noradId", "period"}, ViolatedFields(outcomes))

	norad, ok := Find(outcomes, "payload.noradId")
	require.True(t, ok)
	assert.Contains(t, norad.Detail, "too long")
}

func TestPayloadValidatorWithCustomObjectTypes(t *testing.T) {
	v := NewPayloadValidator([]string{"Station"})

	assert.False(t, AllPassed(v.Validate(servicedef.BasePayload())))
	assert.True(t, AllPassed(v.Validate(servicedef.BuildPayload(servicedef.WithObjectType("Station")))))
}
