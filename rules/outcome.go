package rules

import "fmt"

// Kind classifies a failed Outcome.
type Kind string

const (
	// KindNone is used for passing outcomes.
	KindNone Kind = ""
	// KindSchemaViolation means a field failed a format, range or enum check.
	KindSchemaViolation Kind = "schema-violation"
	// KindParseError means a field could not be parsed at all, so the rule could not be evaluated.
	KindParseError Kind = "parse-error"
)

// Outcome is the result of applying one rule to one record or payload.
type Outcome struct {
	Rule   string
	Passed bool
	Detail string
	Kind   Kind
}

func (o Outcome) String() string {
	if o.Passed {
		return fmt.Sprintf("%s: ok (%s)", o.Rule, o.Detail)
	}
	return fmt.Sprintf("%s: %s (%s)", o.Rule, o.Kind, o.Detail)
}

func pass(rule, format string, args ...interface{}) Outcome {
	return Outcome{Rule: rule, Passed: true, Detail: fmt.Sprintf(format, args...)}
}

func violation(rule, format string, args ...interface{}) Outcome {
	return Outcome{Rule: rule, Kind: KindSchemaViolation, Detail: fmt.Sprintf(format, args...)}
}

func parseFailure(rule string, err error) Outcome {
	return Outcome{Rule: rule, Kind: KindParseError, Detail: err.Error()}
}

// AllPassed reports whether every outcome passed. An empty list counts as passed.
func AllPassed(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if !o.Passed {
			return false
		}
	}
	return true
}

// Find returns the first outcome produced by the named rule.
func Find(outcomes []Outcome, rule string) (Outcome, bool) {
	for _, o := range outcomes {
		if o.Rule == rule {
			return o, true
		}
	}
	return Outcome{}, false
}
