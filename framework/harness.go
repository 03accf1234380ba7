package framework

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"
)

const defaultRequestTimeout = time.Second * 30

// TestHarness sends requests to the services under test. All requests go through an Interceptor,
// so a test can replace the response of a particular endpoint with a canned one.
type TestHarness struct {
	client      *http.Client
	interceptor *Interceptor
	logger      Logger
}

// OutgoingRequest describes one call to a service under test.
type OutgoingRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body is sent as-is if it is a []byte or string, and otherwise encoded as JSON.
	Body interface{}
}

// IncomingResponse is a fully read response.
type IncomingResponse struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// TransportError means no HTTP response was received at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTestHarness creates a TestHarness. Requests that are not intercepted go to base, or to
// http.DefaultTransport if base is nil. Each request is bounded by requestTimeout.
func NewTestHarness(base http.RoundTripper, requestTimeout time.Duration, debugLogger Logger) *TestHarness {
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	interceptor := NewInterceptor(base, debugLogger)
	return &TestHarness{
		client:      &http.Client{Transport: interceptor, Timeout: requestTimeout},
		interceptor: interceptor,
		logger:      debugLogger,
	}
}

// Interceptor returns the harness's request interceptor.
func (h *TestHarness) Interceptor() *Interceptor {
	return h.interceptor
}

// Intercept registers a canned response. Close the returned Intercept when the test ends.
func (h *TestHarness) Intercept(params InterceptParams, logger Logger) (*Intercept, error) {
	return h.interceptor.Register(params, logger)
}

// Send performs one request and reads the whole response body. A failure to get any response is
// returned as a *TransportError; an HTTP error status is not an error here.
func (h *TestHarness) Send(ctx context.Context, r OutgoingRequest, logger Logger) (IncomingResponse, error) {
	if logger == nil {
		logger = h.logger
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	var bodyDesc string
	switch b := r.Body.(type) {
	case nil:
	case []byte:
		body, bodyDesc = bytes.NewReader(b), string(b)
	case string:
		body, bodyDesc = bytes.NewReader([]byte(b)), b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return IncomingResponse{}, fmt.Errorf("encoding request body: %w", err)
		}
		body, bodyDesc = bytes.NewReader(data), string(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return IncomingResponse{}, fmt.Errorf("building request: %w", err)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if bodyDesc != "" {
		logger.Printf(">> %s %s %s", method, r.URL, bodyDesc)
	} else {
		logger.Printf(">> %s %s", method, r.URL)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		logger.Printf("!! %s", err)
		return IncomingResponse{}, &TransportError{Method: method, URL: r.URL, Err: err}
	}
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		logger.Printf("!! error reading response body: %s", err)
		return IncomingResponse{}, &TransportError{Method: method, URL: r.URL, Err: err}
	}
	logger.Printf("<< %d (%d bytes)", resp.StatusCode, len(data))
	return IncomingResponse{Status: resp.StatusCode, Headers: resp.Header, Body: data}, nil
}
