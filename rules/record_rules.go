package rules

import (
	"strings"
	"time"

	"github.com/EduardoSa-Tester/satellite-api-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Rule names, as they appear in outcomes and reports.
const (
	RuleRecency        = "epoch-recency"
	RuleCosparFormat   = "object-id-cospar"
	RuleNoradFormat    = "norad-cat-id-format"
	RuleRequiredFields = "required-fields"
)

// PresenceMode decides what counts as a missing field.
type PresenceMode int

const (
	// PresenceStrict treats a field as missing only if the key is absent or its value is null.
	PresenceStrict PresenceMode = iota
	// PresenceFalsy also treats "", 0 and false as missing. A legitimate zero such as
	// perigee 0 is reported as missing in this mode.
	PresenceFalsy
)

// MissingFields returns how many of the required fields are missing from the record, and their
// names in the order given.
func MissingFields(record servicedef.CatalogRecord, required []string, mode PresenceMode) (int, []string) {
	var missing []string
	for _, name := range required {
		v, ok := record.Lookup(name)
		if !ok || v.IsNull() || (mode == PresenceFalsy && isFalsy(v)) {
			missing = append(missing, name)
		}
	}
	return len(missing), missing
}

func isFalsy(v ldvalue.Value) bool {
	switch v.Type() {
	case ldvalue.BoolType:
		return !v.BoolValue()
	case ldvalue.NumberType:
		return v.Float64Value() == 0
	case ldvalue.StringType:
		return v.StringValue() == ""
	default:
		return false
	}
}

// RecordRule is one named check over a catalog record.
type RecordRule struct {
	Name  string
	Check func(servicedef.CatalogRecord) Outcome
}

// Apply evaluates every rule against the record. A failing rule does not stop the others.
func Apply(record servicedef.CatalogRecord, rules ...RecordRule) []Outcome {
	ret := make([]Outcome, 0, len(rules))
	for _, r := range rules {
		ret = append(ret, r.Check(record))
	}
	return ret
}

// CheckRecency parses epoch and checks it against the window ending at now. An unparseable
// epoch gives a parse-error outcome rather than a plain "outside window" failure.
func CheckRecency(epoch string, now time.Time, windowDays int) Outcome {
	t, err := ParseEpoch(epoch)
	if err != nil {
		return parseFailure(RuleRecency, err)
	}
	if !IsWithinRecencyWindow(t, now, windowDays) {
		return violation(RuleRecency, "EPOCH %s is outside the %d days before %s",
			epoch, windowDays, now.UTC().Format(time.RFC3339))
	}
	return pass(RuleRecency, "EPOCH %s", epoch)
}

// RecencyRule checks that EPOCH lies within windowDays before now.
func RecencyRule(now time.Time, windowDays int) RecordRule {
	return RecordRule{
		Name: RuleRecency,
		Check: func(r servicedef.CatalogRecord) Outcome {
			epoch, ok := r.Epoch()
			if !ok {
				return violation(RuleRecency, "EPOCH is missing or not a string")
			}
			return CheckRecency(epoch, now, windowDays)
		},
	}
}

// CosparRule checks that OBJECT_ID is an international designator.
func CosparRule() RecordRule {
	return RecordRule{
		Name: RuleCosparFormat,
		Check: func(r servicedef.CatalogRecord) Outcome {
			id, ok := r.ObjectID()
			if !ok {
				return violation(RuleCosparFormat, "OBJECT_ID is missing or not a string")
			}
			if !MatchesCosparFormat(id) {
				return violation(RuleCosparFormat, "OBJECT_ID %q does not match YYYY-NNNL[LL]", id)
			}
			return pass(RuleCosparFormat, "OBJECT_ID %s", id)
		},
	}
}

// NoradRule checks that NORAD_CAT_ID has exactly five digits. The detail names the class of
// failure (too short, too long, not numeric).
func NoradRule() RecordRule {
	return RecordRule{
		Name: RuleNoradFormat,
		Check: func(r servicedef.CatalogRecord) Outcome {
			id, ok := r.NoradCatID()
			if !ok {
				return violation(RuleNoradFormat, "NORAD_CAT_ID is missing or not a string or number")
			}
			if class := ClassifyNorad(id); class != NoradValid {
				return violation(RuleNoradFormat, "NORAD_CAT_ID %q is %s", id, class)
			}
			return pass(RuleNoradFormat, "NORAD_CAT_ID %s", id)
		},
	}
}

// RequiredFieldsRule checks that every named field is present.
func RequiredFieldsRule(fields []string, mode PresenceMode) RecordRule {
	return RecordRule{
		Name: RuleRequiredFields,
		Check: func(r servicedef.CatalogRecord) Outcome {
			count, names := MissingFields(r, fields, mode)
			if count > 0 {
				return violation(RuleRequiredFields, "%d missing: %s", count, strings.Join(names, ", "))
			}
			return pass(RuleRequiredFields, "%d fields present", len(fields))
		},
	}
}

// CatalogRules is the full rule set for catalog records, evaluated relative to now.
func CatalogRules(now time.Time, windowDays int) []RecordRule {
	return []RecordRule{
		RequiredFieldsRule(servicedef.RequiredCatalogFields, PresenceStrict),
		RecencyRule(now, windowDays),
		CosparRule(),
		NoradRule(),
	}
}
