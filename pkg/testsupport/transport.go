package testsupport

import (
	"io"
	"net/http"
	"strings"
	"sync"
)

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// ScriptedResponse is one canned response in a ScriptedTransport sequence.
type ScriptedResponse struct {
	Status int
	Body   string
	Header http.Header
}

// JSONResponse builds a canned response with a JSON content type.
func JSONResponse(status int, body string) ScriptedResponse {
	return ScriptedResponse{
		Status: status,
		Body:   body,
		Header: http.Header{"Content-Type": []string{"application/json"}},
	}
}

// ScriptedTransport replays a fixed sequence of responses, repeating the last
// one once the sequence is exhausted, and records every request it performs.
// Safe for concurrent use.
type ScriptedTransport struct {
	mu        sync.Mutex
	responses []ScriptedResponse
	requests  []*http.Request
}

// NewScriptedTransport creates a transport that will serve the given
// responses in order.
func NewScriptedTransport(responses ...ScriptedResponse) *ScriptedTransport {
	return &ScriptedTransport{responses: responses}
}

// RoundTrip implements http.RoundTripper.
func (s *ScriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	idx := len(s.requests)
	s.requests = append(s.requests, req)
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	scripted := s.responses[idx]
	s.mu.Unlock()

	header := scripted.Header
	if header == nil {
		header = http.Header{"Content-Type": []string{"application/json"}}
	}
	return &http.Response{
		StatusCode: scripted.Status,
		Header:     header.Clone(),
		Body:       io.NopCloser(strings.NewReader(scripted.Body)),
		Request:    req,
	}, nil
}

// Calls reports the number of transport calls performed so far.
func (s *ScriptedTransport) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Request returns the i-th recorded request.
func (s *ScriptedTransport) Request(i int) *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[i]
}

// Client wraps the transport in an *http.Client ready for gridbase.Config.
func (s *ScriptedTransport) Client() *http.Client {
	return &http.Client{Transport: s}
}
