package framework

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
)

const (
	defaultAwaitInterceptTimeout = time.Second * 5
	// Requests beyond this many unconsumed ones are still served and counted, but not kept for Await.
	interceptHitBuffer = 100
)

// Interceptor is an http.RoundTripper that answers registered requests with canned responses and
// passes everything else to a real transport.
type Interceptor struct {
	base       http.RoundTripper
	intercepts []*Intercept
	logger     Logger
	lock       sync.Mutex
}

// Intercept is one registered (method, URL) → response mapping.
type Intercept struct {
	owner   *Interceptor
	alias   string
	method  string
	target  matchKey
	handler http.Handler
	hits    chan httphelpers.HTTPRequestInfo
	served  int64
	logger  Logger
	closing sync.Once
}

type matchKey struct {
	scheme, host, path, query string
}

// InterceptParams describes the canned response for an Intercept.
type InterceptParams struct {
	// Alias is a short name used in log output and errors.
	Alias string
	// Method restricts the match to one HTTP method; empty matches any method.
	Method string
	// URL must match the request's scheme, host, path and query. Query parameter order is ignored.
	URL     string
	Status  int
	Headers http.Header
	Body    []byte
}

// NewInterceptor creates an Interceptor that falls through to base, or to http.DefaultTransport
// if base is nil.
func NewInterceptor(base http.RoundTripper, logger Logger) *Interceptor {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = NullLogger()
	}
	return &Interceptor{base: base, logger: logger}
}

func keyForURL(u *url.URL) matchKey {
	path := u.Path
	if path == "" {
		path = "/"
	}
	return matchKey{scheme: u.Scheme, host: u.Host, path: path, query: u.Query().Encode()}
}

// Register adds an Intercept. The most recently registered match wins, so a test can shadow an
// earlier registration. The caller must Close it when the test ends.
func (i *Interceptor) Register(params InterceptParams, logger Logger) (*Intercept, error) {
	u, err := url.Parse(params.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid intercept URL %q: %w", params.URL, err)
	}
	if logger == nil {
		logger = i.logger
	}
	alias := params.Alias
	if alias == "" {
		alias = params.URL
	}
	e := &Intercept{
		owner:   i,
		alias:   alias,
		method:  params.Method,
		target:  keyForURL(u),
		handler: httphelpers.HandlerWithResponse(params.Status, params.Headers, params.Body),
		hits:    make(chan httphelpers.HTTPRequestInfo, interceptHitBuffer),
		logger:  logger,
	}
	i.lock.Lock()
	i.intercepts = append(i.intercepts, e)
	i.lock.Unlock()
	logger.Printf("Registered intercept @%s: %s %s -> %d", alias, methodOrAny(params.Method), params.URL, params.Status)
	return e, nil
}

func methodOrAny(method string) string {
	if method == "" {
		return "*"
	}
	return method
}

func (i *Interceptor) match(req *http.Request) *Intercept {
	key := keyForURL(req.URL)
	i.lock.Lock()
	defer i.lock.Unlock()
	for n := len(i.intercepts) - 1; n >= 0; n-- {
		e := i.intercepts[n]
		if e.target == key && (e.method == "" || e.method == req.Method) {
			return e
		}
	}
	return nil
}

// Active returns the number of registered intercepts.
func (i *Interceptor) Active() int {
	i.lock.Lock()
	defer i.lock.Unlock()
	return len(i.intercepts)
}

// RoundTrip implements http.RoundTripper.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	e := i.match(req)
	if e == nil {
		return i.base.RoundTrip(req)
	}
	e.logger.Printf("Intercepted %s %s (@%s)", req.Method, req.URL, e.alias)
	served := req.Clone(req.Context())
	var body []byte
	if req.Body != nil {
		data, err := ioutil.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = data
	}
	served.Body = ioutil.NopCloser(bytes.NewReader(body))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, served)
	e.record(httphelpers.HTTPRequestInfo{Request: served, Body: body})
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

// record never blocks: once the Await buffer is full, further requests are only counted.
func (e *Intercept) record(info httphelpers.HTTPRequestInfo) {
	atomic.AddInt64(&e.served, 1)
	select {
	case e.hits <- info:
	default:
	}
}

// Alias returns the name the intercept was registered with.
func (e *Intercept) Alias() string {
	return e.alias
}

// Await waits for a request to be served by this intercept.
func (e *Intercept) Await(timeout time.Duration) (httphelpers.HTTPRequestInfo, error) {
	if timeout <= 0 {
		timeout = defaultAwaitInterceptTimeout
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case info := <-e.hits:
		return info, nil
	case <-deadline.C:
		return httphelpers.HTTPRequestInfo{}, fmt.Errorf("timed out waiting for a request to @%s", e.alias)
	}
}

// Hits returns the number of requests this intercept has served.
func (e *Intercept) Hits() int {
	return int(atomic.LoadInt64(&e.served))
}

// Close unregisters the intercept. Later matching requests go to the real transport.
func (e *Intercept) Close() {
	e.closing.Do(func() {
		e.owner.lock.Lock()
		for n, other := range e.owner.intercepts {
			if other == e {
				e.owner.intercepts = append(e.owner.intercepts[:n], e.owner.intercepts[n+1:]...)
				break
			}
		}
		e.owner.lock.Unlock()
		e.logger.Printf("Removed intercept @%s", e.alias)
	})
}
