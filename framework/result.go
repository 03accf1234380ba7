package framework

import (
	"fmt"
	"strings"
	"time"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID     TestID
	Errors     []error
	Skipped    bool
	SkipReason string
	Duration   time.Duration
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Skipped returns the tests that were skipped from inside the test, as opposed to excluded by a
// filter (those never produce a result).
func (r Results) Skipped() []TestResult {
	var ret []TestResult
	for _, t := range r.Tests {
		if t.Skipped {
			ret = append(ret, t)
		}
	}
	return ret
}

// Find returns the result for the test with the given full name.
func (r Results) Find(name string) (TestResult, bool) {
	for _, t := range r.Tests {
		if t.TestID.String() == name {
			return t, true
		}
	}
	return TestResult{}, false
}

type TestID struct {
	Path []string
}

// Plus returns the ID of a subtest. The receiver's path is never shared with the result.
func (t TestID) Plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
