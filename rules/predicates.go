package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/EduardoSa-Tester/satellite-api-tests/servicedef"
)

const day = 24 * time.Hour

// DefaultRecencyWindowDays is the catalog's lookback interval.
const DefaultRecencyWindowDays = 30

// NoradDigits is the length of a NORAD catalog number.
const NoradDigits = 5

var (
	cosparPattern = regexp.MustCompile(`^\d{4}-\d{3}[A-Z]{1,3}$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)

	epochLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.999999999",
		time.RFC3339Nano,
	}
)

// ErrEmptyTimestamp is returned by ParseEpoch for an empty string.
var ErrEmptyTimestamp = errors.New("empty timestamp")

// ParseEpoch parses a catalog EPOCH. Timestamps without a zone are taken as UTC.
func ParseEpoch(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyTimestamp
	}
	for _, layout := range epochLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// IsWithinRecencyWindow reports whether now-windowDays <= epoch <= now. Both ends are inclusive.
func IsWithinRecencyWindow(epoch, now time.Time, windowDays int) bool {
	earliest := now.Add(-time.Duration(windowDays) * day)
	return !epoch.Before(earliest) && !epoch.After(now)
}

// MatchesCosparFormat reports whether id is an international designator such as 1998-067A.
func MatchesCosparFormat(id string) bool {
	return cosparPattern.MatchString(id)
}

// NoradClass describes how a NORAD catalog number compares with the expected format.
type NoradClass string

const (
	NoradValid      NoradClass = "valid"
	NoradTooShort   NoradClass = "too short"
	NoradTooLong    NoradClass = "too long"
	NoradNotNumeric NoradClass = "not numeric"
)

// ClassifyNorad checks id against the five-digit format. Length is judged before content, so
// "12a" is too short rather than not numeric.
func ClassifyNorad(id string) NoradClass {
	switch {
	case len(id) < NoradDigits:
		return NoradTooShort
	case len(id) > NoradDigits:
		return NoradTooLong
	case !digitsPattern.MatchString(id):
		return NoradNotNumeric
	default:
		return NoradValid
	}
}

// MatchesNoradFormat reports whether id is exactly five ASCII digits.
func MatchesNoradFormat(id string) bool {
	return ClassifyNorad(id) == NoradValid
}

// IsPositive checks value > 0 when exclusive, otherwise value >= 0. NaN is never positive.
func IsPositive(value float64, exclusive bool) bool {
	if exclusive {
		return value > 0
	}
	return value >= 0
}

// IsAllowedEnum reports whether value is one of allowed. Comparison is case-sensitive.
func IsAllowedEnum(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// IsDateOnly reports whether s is a calendar date in YYYY-MM-DD form with nothing else.
func IsDateOnly(s string) bool {
	if len(s) != len(servicedef.DateOnlyFormat) {
		return false
	}
	_, err := time.Parse(servicedef.DateOnlyFormat, s)
	return err == nil
}
