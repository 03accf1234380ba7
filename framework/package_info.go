// Package framework contains the low-level test harness infrastructure that is not specific to
// any one service under test.
//
// The general model is:
//
// 1. The TestHarness sends HTTP requests to the services under test. Its transport is an
// Interceptor: a test can register a canned response for a (method, URL) pair, and matching
// requests are answered locally instead of going to the network. Everything else goes to the
// real transport.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Cleanup functions registered on a context (such as closing an
// Intercept) run when its test ends, so canned responses never leak into the next test.
//
// The domain-specific code that knows what is being tested is responsible for building the
// requests, registering intercepts, and deciding what counts as a valid response.
package framework
