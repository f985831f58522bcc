// Package transporttest provides a deterministic stand-in for the network.
//
// A Transport is constructed with an ordered list of expected calls. Each
// Get/Post consumes the next entry, verifies that the issued call matches it
// exactly, and returns the paired canned response. Any deviation — wrong
// method, wrong URL, wrong request options, or a call after all entries are
// consumed — produces a *VerificationError describing both sides.
package transporttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"stockplot/internal/transport"
)

// Call is one expected request paired with the response to return for it.
type Call struct {
	// Method is the expected HTTP method, http.MethodGet or http.MethodPost.
	Method string

	// URL is the expected request URL.
	URL string

	// Options are the expected request options. They are compared by deep
	// equality: a missing or extra parameter is a mismatch.
	Options transport.RequestOptions

	// Response is returned when the call matches.
	Response transport.Response
}

// VerificationError reports a call that deviated from the expected traffic.
type VerificationError struct {
	Reason   string
	Expected string // rendering of the expected call, empty when exhausted
	Got      string // rendering of the actual call
}

func (e *VerificationError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s, got: %s", e.Reason, e.Got)
	}
	return fmt.Sprintf("%s, expected: %s, got: %s", e.Reason, e.Expected, e.Got)
}

// Transport verifies that requests are issued exactly as declared, in order.
// It is not safe for concurrent use; the clients under test are synchronous.
type Transport struct {
	expected []Call
	next     int
}

// New creates a verifying transport from an ordered list of expected calls.
func New(expected ...Call) *Transport {
	return &Transport{expected: expected}
}

// Get consumes the next expectation as a GET call.
func (t *Transport) Get(url string, opts transport.RequestOptions) (transport.Response, error) {
	return t.consume(http.MethodGet, url, opts)
}

// Post consumes the next expectation as a POST call.
func (t *Transport) Post(url string, opts transport.RequestOptions) (transport.Response, error) {
	return t.consume(http.MethodPost, url, opts)
}

// Remaining returns the number of declared calls not yet consumed.
func (t *Transport) Remaining() int {
	return len(t.expected) - t.next
}

// AssertExhausted fails the test if declared calls were never issued.
func (t *Transport) AssertExhausted(tb testing.TB) {
	tb.Helper()
	if r := t.Remaining(); r > 0 {
		tb.Errorf("verifying transport: %d of %d expected requests never issued", r, len(t.expected))
	}
}

func (t *Transport) consume(method, url string, opts transport.RequestOptions) (transport.Response, error) {
	if t.next >= len(t.expected) {
		return nil, &VerificationError{
			Reason: fmt.Sprintf("expected %d requests", len(t.expected)),
			Got:    formatCall(method, url, opts),
		}
	}

	exp := t.expected[t.next]
	t.next++

	if method != exp.Method {
		return nil, t.mismatch("unexpected method", exp, method, url, opts)
	}
	if url != exp.URL {
		return nil, t.mismatch("unexpected url", exp, method, url, opts)
	}
	if !optionsEqual(exp.Options, opts) {
		return nil, t.mismatch("unexpected request options", exp, method, url, opts)
	}

	return exp.Response, nil
}

func (t *Transport) mismatch(reason string, exp Call, method, url string, opts transport.RequestOptions) error {
	return &VerificationError{
		Reason:   reason,
		Expected: formatCall(exp.Method, exp.URL, exp.Options),
		Got:      formatCall(method, url, opts),
	}
}

// optionsEqual compares request options by deep equality. JSON bodies are
// normalized through a marshal/unmarshal round trip first, so a typed struct
// and an equivalent map compare equal.
func optionsEqual(a, b transport.RequestOptions) bool {
	if !mapsEqual(a.Params, b.Params) || !mapsEqual(a.Headers, b.Headers) {
		return false
	}
	if a.Body != b.Body {
		return false
	}
	return jsonEqual(a.JSON, b.JSON)
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func jsonEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(normalizeJSON(a), normalizeJSON(b))
}

func normalizeJSON(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var norm any
	if err := json.Unmarshal(raw, &norm); err != nil {
		return v
	}
	return norm
}

func formatCall(method, url string, opts transport.RequestOptions) string {
	raw, err := json.Marshal(opts)
	if err != nil {
		raw = []byte(fmt.Sprintf("%+v", opts))
	}
	return fmt.Sprintf("method %q, url %q, options %s", method, url, raw)
}
