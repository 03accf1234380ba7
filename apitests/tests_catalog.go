package apitests

import (
	"net/http"
	"time"

	"github.com/EduardoSa-Tester/satellite-api-tests/rules"
	"github.com/EduardoSa-Tester/satellite-api-tests/scenario"
	"github.com/EduardoSa-Tester/satellite-api-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staleEpoch = "2022-01-01T00:00:00"

func onlyRule(rule rules.RecordRule) scenario.RuleSet {
	return func(time.Time) []rules.RecordRule { return []rules.RecordRule{rule} }
}

// mockCatalogRecord is a record that passes every catalog rule unless a field is overridden.
func mockCatalogRecord(overrides map[string]interface{}) map[string]interface{} {
	r := map[string]interface{}{
		servicedef.FieldObjectName: "STARLINK-31001",
		servicedef.FieldObjectID:   "2024-051A",
		servicedef.FieldEpoch:      time.Now().UTC().Add(-time.Hour).Format("2006-01-02T15:04:05.000000"),
		servicedef.FieldNoradCatID: 59001,
	}
	for k, v := range overrides {
		r[k] = v
	}
	return r
}

func DoCatalogTests(t *T) {
	catalogURL := t.Config().Catalog.URL
	window := t.Config().Catalog.RecencyWindowDays

	get := func() scenario.Call {
		return scenario.Call{Method: http.MethodGet, URL: catalogURL}
	}
	requireRecords := func(t *T, result scenario.Result) {
		require.NotEmpty(t, result.Records, "catalog returned no records to check")
	}

	t.Run("returns data", func(t *T) {
		result := t.RequireScenarioPassed(scenario.Scenario{Call: get(), Expect: []int{200}})
		require.Equal(t, ldvalue.ArrayType, result.JSON.Type(), "body is not a JSON array: %s", result.Body)
		assert.NotZero(t, result.JSON.Count(), "catalog returned an empty array")
	})

	t.Run("no data returns 204 with empty body", func(t *T) {
		result := t.RequireScenarioPassed(scenario.Scenario{
			Call:        get(),
			Mock:        &scenario.Mock{Alias: "noData", Status: 204},
			Expect:      []int{204},
			RecordRules: t.CatalogRules(),
		})
		assert.Empty(t, result.Body)
		assert.Empty(t, result.Records)
	})

	t.Run("every epoch is within the recency window", func(t *T) {
		result := t.RequireScenarioPassed(scenario.Scenario{
			Call:   get(),
			Expect: []int{200},
			RecordRules: func(now time.Time) []rules.RecordRule {
				return []rules.RecordRule{rules.RecencyRule(now, window)}
			},
		})
		requireRecords(t, result)
	})

	t.Run("stale epoch is detected", func(t *T) {
		result := t.RunScenario(scenario.Scenario{
			Call: get(),
			Mock: &scenario.Mock{
				Alias:  "staleEpoch",
				Status: 200,
				Body:   []interface{}{mockCatalogRecord(map[string]interface{}{servicedef.FieldEpoch: staleEpoch})},
			},
			Expect: []int{200},
			RecordRules: func(now time.Time) []rules.RecordRule {
				return []rules.RecordRule{rules.RecencyRule(now, window)}
			},
		})
		o := t.RequireRuleFailure(result, rules.RuleRecency, 0)
		assert.Equal(t, rules.KindSchemaViolation, o.Kind)
	})

	t.Run("object id is in COSPAR format", func(t *T) {
		result := t.RequireScenarioPassed(scenario.Scenario{
			Call:        get(),
			Expect:      []int{200},
			RecordRules: onlyRule(rules.CosparRule()),
		})
		requireRecords(t, result)
	})

	t.Run("NORAD catalog id has 5 digits", func(t *T) {
		result := t.RequireScenarioPassed(scenario.Scenario{
			Call:        get(),
			Expect:      []int{200},
			RecordRules: onlyRule(rules.NoradRule()),
		})
		requireRecords(t, result)
	})

	for _, c := range []struct {
		name  string
		id    string
		class rules.NoradClass
	}{
		{"NORAD catalog id too long is detected", "123456", rules.NoradTooLong},
		{"NORAD catalog id too short is detected", "123", rules.NoradTooShort},
	} {
		c := c
		t.Run(c.name, func(t *T) {
			result := t.RunScenario(scenario.Scenario{
				Call: get(),
				Mock: &scenario.Mock{
					Status: 200,
					Body:   []interface{}{mockCatalogRecord(map[string]interface{}{servicedef.FieldNoradCatID: c.id})},
				},
				Expect:      []int{200},
				RecordRules: onlyRule(rules.NoradRule()),
			})
			o := t.RequireRuleFailure(result, rules.RuleNoradFormat, 0)
			assert.Contains(t, o.Detail, string(c.class))
		})
	}

	t.Run("required fields are present", func(t *T) {
		result := t.RequireScenarioPassed(scenario.Scenario{
			Call:        get(),
			Expect:      []int{200},
			RecordRules: onlyRule(rules.RequiredFieldsRule(servicedef.RequiredCatalogFields, rules.PresenceStrict)),
		})
		requireRecords(t, result)
	})

	t.Run("responds within the ceiling", func(t *T) {
		result := t.RequireScenarioPassed(scenario.Scenario{
			Call:      get(),
			Expect:    []int{200},
			CeilingMS: t.Ceiling(),
		})
		t.Debug("responded in %s", result.Elapsed)
	})
}
