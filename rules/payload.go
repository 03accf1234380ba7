package rules

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/EduardoSa-Tester/satellite-api-tests/servicedef"

	"github.com/go-playground/validator/v10"
)

// RulePayload names the passing outcome of a payload that has no violations. Failing outcomes are
// named "payload.<jsonField>".
const RulePayload = "payload"

// PayloadValidator checks space-object creation payloads against their struct tags.
type PayloadValidator struct {
	validate *validator.Validate
}

var defaultPayloadValidator = NewPayloadValidator(servicedef.AllObjectTypes)

// NewPayloadValidator creates a validator that accepts the given object types.
func NewPayloadValidator(allowedTypes []string) *PayloadValidator {
	allowed := append([]string(nil), allowedTypes...)
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "cospar", func(fl validator.FieldLevel) bool {
		return MatchesCosparFormat(fl.Field().String())
	})
	mustRegister(v, "norad", func(fl validator.FieldLevel) bool {
		return MatchesNoradFormat(fl.Field().String())
	})
	mustRegister(v, "dateonly", func(fl validator.FieldLevel) bool {
		return IsDateOnly(fl.Field().String())
	})
	mustRegister(v, "objecttype", func(fl validator.FieldLevel) bool {
		return IsAllowedEnum(fl.Field().String(), allowed)
	})
	mustRegister(v, "positive", func(fl validator.FieldLevel) bool {
		return IsPositive(fl.Field().Float(), true)
	})
	mustRegister(v, "nonnegative", func(fl validator.FieldLevel) bool {
		return IsPositive(fl.Field().Float(), false)
	})
	return &PayloadValidator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %q validation: %s", tag, err))
	}
}

// ValidatePayload checks p with the default set of object types.
func ValidatePayload(p servicedef.SpaceObjectPayload) []Outcome {
	return defaultPayloadValidator.Validate(p)
}

// Validate returns one failed outcome per violated field, in struct order, or a single passing
// outcome if there are none.
func (pv *PayloadValidator) Validate(p servicedef.SpaceObjectPayload) []Outcome {
	err := pv.validate.Struct(p)
	if err == nil {
		return []Outcome{pass(RulePayload, "all fields valid")}
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Outcome{parseFailure(RulePayload, err)}
	}
	ret := make([]Outcome, 0, len(verrs))
	for _, fe := range verrs {
		ret = append(ret, violation(RulePayload+"."+fe.Field(), "%s", describeFieldError(fe)))
	}
	return ret
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "cospar":
		return fmt.Sprintf("%s %q does not match YYYY-NNNL[LL]", fe.Field(), fe.Value())
	case "norad":
		s, _ := fe.Value().(string)
		return fmt.Sprintf("%s %q is %s", fe.Field(), s, ClassifyNorad(s))
	case "dateonly":
		return fmt.Sprintf("%s %q is not a YYYY-MM-DD date", fe.Field(), fe.Value())
	case "objecttype":
		return fmt.Sprintf("%s %q is not an allowed object type", fe.Field(), fe.Value())
	case "positive":
		return fmt.Sprintf("%s %v must be greater than 0", fe.Field(), fe.Value())
	case "nonnegative":
		return fmt.Sprintf("%s %v must not be negative", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}

// ViolatedFields returns the JSON names of the fields that failed in outcomes produced by Validate.
func ViolatedFields(outcomes []Outcome) []string {
	var ret []string
	for _, o := range outcomes {
		if !o.Passed && strings.HasPrefix(o.Rule, RulePayload+".") {
			ret = append(ret, strings.TrimPrefix(o.Rule, RulePayload+"."))
		}
	}
	return ret
}
