package transporttest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockplot/internal/transport"
)

func TestTransport_Get_MatchingCall_ReturnsCannedResponse(t *testing.T) {
	want := &JSONResponse{Status: 200, Body: map[string]any{"ok": true}}
	tr := New(Call{
		Method:   http.MethodGet,
		URL:      "https://example.com/a",
		Options:  transport.RequestOptions{Params: map[string]string{"q": "1"}},
		Response: want,
	})

	resp, err := tr.Get("https://example.com/a", transport.RequestOptions{Params: map[string]string{"q": "1"}})
	require.NoError(t, err)
	assert.Same(t, want, resp.(*JSONResponse))
	assert.Equal(t, 0, tr.Remaining())
}

func TestTransport_ConsumesCallsInDeclarationOrder(t *testing.T) {
	first := &JSONResponse{Status: 200, Body: "first"}
	second := &JSONResponse{Status: 200, Body: "second"}
	tr := New(
		Call{Method: http.MethodGet, URL: "https://example.com/1", Response: first},
		Call{Method: http.MethodGet, URL: "https://example.com/2", Response: second},
	)

	resp, err := tr.Get("https://example.com/1", transport.RequestOptions{})
	require.NoError(t, err)
	assert.Same(t, first, resp.(*JSONResponse))

	resp, err = tr.Get("https://example.com/2", transport.RequestOptions{})
	require.NoError(t, err)
	assert.Same(t, second, resp.(*JSONResponse))
}

func TestTransport_CallAfterExhaustion_ReportsExpectedCount(t *testing.T) {
	tr := New(
		Call{Method: http.MethodGet, URL: "https://example.com/1", Response: &JSONResponse{Status: 200}},
		Call{Method: http.MethodGet, URL: "https://example.com/2", Response: &JSONResponse{Status: 200}},
	)

	_, err := tr.Get("https://example.com/1", transport.RequestOptions{})
	require.NoError(t, err)
	_, err = tr.Get("https://example.com/2", transport.RequestOptions{})
	require.NoError(t, err)

	_, err = tr.Get("https://example.com/3", transport.RequestOptions{})
	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "expected 2 requests")
	assert.Contains(t, verr.Error(), "https://example.com/3")
}

func TestTransport_MethodMismatch_FailsCitingMethod(t *testing.T) {
	opts := transport.RequestOptions{Params: map[string]string{"sessionId": "S1"}}
	tr := New(Call{
		Method:   http.MethodGet,
		URL:      "https://example.com/a",
		Options:  opts,
		Response: &JSONResponse{Status: 200},
	})

	// Identical parameters, wrong verb.
	_, err := tr.Post("https://example.com/a", opts)
	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "unexpected method")
	assert.Contains(t, verr.Error(), `method "GET"`)
	assert.Contains(t, verr.Error(), `method "POST"`)
}

func TestTransport_URLMismatch_RendersBothCalls(t *testing.T) {
	tr := New(Call{Method: http.MethodGet, URL: "https://example.com/expected", Response: &JSONResponse{Status: 200}})

	_, err := tr.Get("https://example.com/actual", transport.RequestOptions{})
	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "unexpected url")
	assert.Contains(t, verr.Error(), "https://example.com/expected")
	assert.Contains(t, verr.Error(), "https://example.com/actual")
}

func TestTransport_OptionsMismatch_ExtraParamFails(t *testing.T) {
	tr := New(Call{
		Method:   http.MethodGet,
		URL:      "https://example.com/a",
		Options:  transport.RequestOptions{Params: map[string]string{"a": "1"}},
		Response: &JSONResponse{Status: 200},
	})

	_, err := tr.Get("https://example.com/a", transport.RequestOptions{
		Params: map[string]string{"a": "1", "b": "2"},
	})
	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "unexpected request options")
}

func TestTransport_OptionsMismatch_MissingHeaderFails(t *testing.T) {
	tr := New(Call{
		Method:   http.MethodPost,
		URL:      "https://example.com/a",
		Options:  transport.RequestOptions{Headers: map[string]string{"content-type": "application/json"}},
		Response: &JSONResponse{Status: 200},
	})

	_, err := tr.Post("https://example.com/a", transport.RequestOptions{})
	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "unexpected request options")
}

func TestTransport_JSONBody_StructAndMapCompareEqual(t *testing.T) {
	type loginBody struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	tr := New(Call{
		Method: http.MethodPost,
		URL:    "https://example.com/login",
		Options: transport.RequestOptions{
			JSON: map[string]any{"username": "user", "password": "pass"},
		},
		Response: &JSONResponse{Status: 200},
	})

	_, err := tr.Post("https://example.com/login", transport.RequestOptions{
		JSON: loginBody{Username: "user", Password: "pass"},
	})
	assert.NoError(t, err)
}

func TestTransport_JSONBody_DifferentValuesFail(t *testing.T) {
	tr := New(Call{
		Method:   http.MethodPost,
		URL:      "https://example.com/login",
		Options:  transport.RequestOptions{JSON: map[string]any{"username": "user"}},
		Response: &JSONResponse{Status: 200},
	})

	_, err := tr.Post("https://example.com/login", transport.RequestOptions{
		JSON: map[string]any{"username": "intruder"},
	})
	var verr *VerificationError
	assert.ErrorAs(t, err, &verr)
}

func TestTransport_IndependentInstances_DoNotShareState(t *testing.T) {
	a := New(Call{Method: http.MethodGet, URL: "https://example.com/a", Response: &JSONResponse{Status: 200}})
	b := New(Call{Method: http.MethodGet, URL: "https://example.com/a", Response: &JSONResponse{Status: 200}})

	_, err := a.Get("https://example.com/a", transport.RequestOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, a.Remaining())
	assert.Equal(t, 1, b.Remaining())
}

func TestJSONResponse_DecodesCannedBody(t *testing.T) {
	resp := &JSONResponse{Status: 200, Body: map[string]any{"sessionId": "S1"}}

	var got struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, resp.JSON(&got))
	assert.Equal(t, "S1", got.SessionID)
	assert.Equal(t, 200, resp.StatusCode())
}

func TestEmptyResponse_JSONAlwaysFails(t *testing.T) {
	resp := &EmptyResponse{Status: 200}

	var got map[string]any
	err := resp.JSON(&got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response body")
}

func TestAssertExhausted_RemainingCalls_FailsTest(t *testing.T) {
	tr := New(Call{Method: http.MethodGet, URL: "https://example.com/a", Response: &JSONResponse{Status: 200}})

	rec := &recordingTB{TB: t}
	tr.AssertExhausted(rec)
	assert.True(t, rec.failed, "AssertExhausted should flag unconsumed expectations")

	_, err := tr.Get("https://example.com/a", transport.RequestOptions{})
	require.NoError(t, err)

	rec = &recordingTB{TB: t}
	tr.AssertExhausted(rec)
	assert.False(t, rec.failed)
}

// recordingTB captures Errorf calls instead of failing the enclosing test.
type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(format string, args ...any) {
	r.failed = true
}
