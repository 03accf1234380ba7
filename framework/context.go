package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the framework's equivalent of *testing.T. It accumulates failures for one test,
// captures debug output, and runs cleanup functions registered with Defer when the test ends.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
}

// Run executes the top-level action and returns the results of every test run inside it.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil && !c.skipped {
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		c.runCleanups()
		if len(c.id.Path) == 0 {
			return // the root context is not a test
		}
		result := TestResult{
			TestID:     c.id,
			Errors:     c.errors,
			Skipped:    c.skipped,
			SkipReason: c.skipReason,
			Duration:   time.Since(started),
		}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) runCleanups() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.debugLogger.Printf("cleanup panicked: %v", r)
				}
			}()
			c.cleanups[i]()
		}()
	}
	c.cleanups = nil
}

// ID returns the full identifier of the test.
func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest, unless the filter excludes it.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records a failure without stopping the test.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// FailNow stops the test. It must be called from the test's own goroutine.
func (c *Context) FailNow() {
	panic(c)
}

// Failed reports whether the test has recorded any failure so far.
func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer registers a function to run when the test finishes, whether it passed, failed or was
// skipped. Functions run in reverse order of registration.
func (c *Context) Defer(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
