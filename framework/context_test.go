package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCollectsResults(t *testing.T) {
	var cleanups []string
	logger := &EventRecordingTestLogger{}

	results := Run(nil, logger, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("passes", func(c *Context) {
				c.Defer(func() { cleanups = append(cleanups, "passes") })
			})
			c.Run("fails", func(c *Context) {
				c.Defer(func() { cleanups = append(cleanups, "fails-1") })
				c.Defer(func() { cleanups = append(cleanups, "fails-2") })
				c.Errorf("bad value %d", 3)
				c.FailNow()
				c.Errorf("not reached")
			})
			c.Run("skips", func(c *Context) {
				c.Defer(func() { cleanups = append(cleanups, "skips") })
				c.SkipWithReason("not deployed")
			})
			c.Run("panics", func(c *Context) {
				panic("boom")
			})
		})
	})

	assert.False(t, results.OK())
	require.Len(t, results.Failures, 2)
	assert.Equal(t, "group/fails", results.Failures[0].TestID.String())
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Equal(t, "bad value 3", results.Failures[0].Errors[0].Error())
	assert.Equal(t, "group/panics", results.Failures[1].TestID.String())
	assert.Contains(t, results.Failures[1].Errors[0].Error(), "boom")

	skipped := results.Skipped()
	require.Len(t, skipped, 1)
	assert.Equal(t, "not deployed", skipped[0].SkipReason)

	assert.Equal(t, []string{"passes", "fails-2", "fails-1", "skips"}, cleanups)

	group, ok := results.Find("group")
	require.True(t, ok)
	assert.Empty(t, group.Errors)

	assert.Contains(t, logger.Events(), "finished group/passes ok")
	assert.Contains(t, logger.Events(), "finished group/fails failed")
	assert.Contains(t, logger.Events(), "skipped group/skips: not deployed")
}

func TestRunAppliesFilter(t *testing.T) {
	var ran []string
	filters := RegexFilters{}
	require.NoError(t, filters.MustNotMatch.Set("slow"))

	Run(filters.AsFilter, nil, func(c *Context) {
		c.Run("fast", func(c *Context) { ran = append(ran, c.ID().String()) })
		c.Run("slow", func(c *Context) { ran = append(ran, c.ID().String()) })
	})

	assert.Equal(t, []string{"fast"}, ran)
}

func TestDebugOutputIsCapturedPerTest(t *testing.T) {
	logger := &capturingOutputLogger{}
	Run(nil, logger, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Debug("hello %s", "a")
			LoggerWithPrefix(c.DebugLogger(), "[x] ").Printf("prefixed")
		})
		c.Run("b", func(c *Context) {})
	})

	assert.Equal(t, []string{"hello a", "[x] prefixed"}, logger.outputs["a"].Messages())
	assert.Empty(t, logger.outputs["b"])
}

type capturingOutputLogger struct {
	nullTestLogger
	outputs map[string]CapturedOutput
}

func (l *capturingOutputLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	if l.outputs == nil {
		l.outputs = make(map[string]CapturedOutput)
	}
	l.outputs[id.String()] = debugOutput
}
