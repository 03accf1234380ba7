package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestParseEpoch(t *testing.T) {
	for _, s := range []string{
		"2024-06-01T10:20:30",
		"2024-06-01T10:20:30.123456",
		"2024-06-01T10:20:30Z",
		"2024-06-01T12:20:30+02:00",
	} {
		t.Run(s, func(t *testing.T) {
			parsed, err := ParseEpoch(s)
			require.NoError(t, err)
			assert.Equal(t, time.Date(2024, time.June, 1, 10, 20, 30, 0, time.UTC), parsed.UTC().Truncate(time.Second))
		})
	}

	t.Run("empty", func(t *testing.T) {
		_, err := ParseEpoch("")
		assert.Equal(t, ErrEmptyTimestamp, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseEpoch("yesterday")
		assert.Error(t, err)
	})
}

func TestIsWithinRecencyWindow(t *testing.T) {
	earliest := fixedNow.Add(-30 * 24 * time.Hour)

	assert.True(t, IsWithinRecencyWindow(fixedNow, fixedNow, 30), "exactly now")
	assert.True(t, IsWithinRecencyWindow(earliest, fixedNow, 30), "exactly now-30d")
	assert.True(t, IsWithinRecencyWindow(fixedNow.Add(-24*time.Hour), fixedNow, 30))
	assert.False(t, IsWithinRecencyWindow(earliest.Add(-time.Second), fixedNow, 30), "now-30d-1s")
	assert.False(t, IsWithinRecencyWindow(fixedNow.Add(time.Second), fixedNow, 30), "in the future")
	assert.False(t, IsWithinRecencyWindow(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), fixedNow, 30))
}

func TestCheckRecency(t *testing.T) {
	t.Run("inside", func(t *testing.T) {
		o := CheckRecency("2024-06-10T00:00:00", fixedNow, 30)
		assert.True(t, o.Passed)
		assert.Equal(t, RuleRecency, o.Rule)
	})

	t.Run("outside", func(t *testing.T) {
		o := CheckRecency("2022-01-01T00:00:00", fixedNow, 30)
		assert.False(t, o.Passed)
		assert.Equal(t, KindSchemaViolation, o.Kind)
	})

	t.Run("malformed is a parse error", func(t *testing.T) {
		o := CheckRecency("01/01/2022", fixedNow, 30)
		assert.False(t, o.Passed)
		assert.Equal(t, KindParseError, o.Kind)
		assert.Contains(t, o.Detail, "01/01/2022")
	})
}

func TestMatchesCosparFormat(t *testing.T) {
	for _, id := range []string{"1998-067A", "2023-001AB", "2023-001ABC", "0000-000Z"} {
		assert.True(t, MatchesCosparFormat(id), id)
	}
	for _, id := range []string{
		"Invalid-123",
		"2023-001",
		"2023-001ABCD",
		"2023-001a",
		"23-001A",
		"2023-01A",
		"2023-0001A",
		"2023001A",
		" 2023-001A",
		"2023-001A ",
		"2023-001A\n",
		"",
	} {
		assert.False(t, MatchesCosparFormat(id), "%q", id)
	}
}

func TestClassifyNorad(t *testing.T) {
	assert.Equal(t, NoradValid, ClassifyNorad("12345"))
	assert.Equal(t, NoradValid, ClassifyNorad("00005"))
	assert.Equal(t, NoradTooShort, ClassifyNorad("123"))
	assert.Equal(t, NoradTooShort, ClassifyNorad(""))
	assert.Equal(t, NoradTooLong, ClassifyNorad("123456"))
	assert.Equal(t, NoradNotNumeric, ClassifyNorad("12a45"))
	assert.Equal(t, NoradNotNumeric, ClassifyNorad("-1234"))

	assert.True(t, MatchesNoradFormat("12345"))
	assert.False(t, MatchesNoradFormat("123"))
	assert.False(t, MatchesNoradFormat("123456"))
}

func TestIsPositive(t *testing.T) {
	assert.False(t, IsPositive(0, true))
	assert.False(t, IsPositive(-10, true))
	assert.True(t, IsPositive(90.5, true))
	assert.True(t, IsPositive(0, false))
	assert.False(t, IsPositive(-0.001, false))
}

func TestIsAllowedEnum(t *testing.T) {
	allowed := []string{"Payload", "Debris"}
	assert.True(t, IsAllowedEnum("Payload", allowed))
	assert.False(t, IsAllowedEnum("payload", allowed))
	assert.False(t, IsAllowedEnum("InvalidType", allowed))
	assert.False(t, IsAllowedEnum("Payload", nil))
}

func TestIsDateOnly(t *testing.T) {
	assert.True(t, IsDateOnly("2023-12-08"))
	assert.False(t, IsDateOnly("2023-12-08T04:06:32.929Z"))
	assert.False(t, IsDateOnly("2024-12-08T10:00:00"))
	assert.False(t, IsDateOnly("2023-13-01"))
	assert.False(t, IsDateOnly("2023-2-01"))
	assert.False(t, IsDateOnly(""))
}
