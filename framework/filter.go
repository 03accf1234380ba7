package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter matches a test if it or any of its parents matches MustMatch, and neither it nor any
// of its parents matches MustNotMatch. Checking parents lets "-run catalog" select a whole group.
func (r RegexFilters) AsFilter(id TestID) bool {
	var names []string
	for i := 1; i <= len(id.Path); i++ {
		names = append(names, TestID{Path: id.Path[:i]}.String())
	}
	if r.MustMatch.IsDefined() {
		matched := false
		for _, n := range names {
			if r.MustMatch.AnyMatch(n) {
				matched = true
				break
			}
		}
		if !matched && !r.MustMatch.AnyPrefixOf(id.String()) {
			return false
		}
	}
	for _, n := range names {
		if r.MustNotMatch.AnyMatch(n) {
			return false
		}
	}
	return true
}

type RegexList struct {
	patterns []*regexp.Regexp
	sources  []string
}

// ExactNames builds a RegexList that matches exactly the given test names.
func ExactNames(names ...string) RegexList {
	var r RegexList
	for _, n := range names {
		_ = r.Set("^" + regexp.QuoteMeta(n) + "$")
	}
	return r
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	r.sources = append(r.sources, value)
	return nil
}

// Type is called by the command line parser for help output.
func (r *RegexList) Type() string {
	return "regex"
}

// Sources returns the patterns as they were given.
func (r RegexList) Sources() []string {
	return append([]string(nil), r.sources...)
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// AnyPrefixOf reports whether some pattern is an exact-name pattern for a test nested under s,
// so that the parent groups of a selected test are still entered.
func (r RegexList) AnyPrefixOf(s string) bool {
	for _, src := range r.sources {
		if !strings.HasPrefix(src, "^") {
			continue
		}
		literal := strings.TrimSuffix(strings.TrimPrefix(src, "^"), "$")
		if unquoted, ok := unquoteMeta(literal); ok && strings.HasPrefix(unquoted, s+"/") {
			return true
		}
	}
	return false
}

func unquoteMeta(s string) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' {
			if i+1 >= len(s) {
				return "", false
			}
			i++
			b.WriteByte(s[i])
			continue
		}
		if strings.IndexByte(`.+*?()|[]{}^$`, ch) >= 0 {
			return "", false
		}
		b.WriteByte(ch)
	}
	return b.String(), true
}

func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if filters.MustMatch.IsDefined() || filters.MustNotMatch.IsDefined() {
		fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
		if filters.MustMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
		}
		if filters.MustNotMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
		}
		fmt.Fprintln(out)
	}
}
