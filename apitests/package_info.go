// Package apitests contains the contract tests for the GP data catalog and the space-object API.
//
// Tests are grouped by endpoint. Each one describes a scenario (a request, optionally a mocked
// response, the statuses it accepts and the rules its body must satisfy) and lets the scenario
// package run it; T turns the scenario's report into test failures that name the failing rule
// and record.
package apitests
