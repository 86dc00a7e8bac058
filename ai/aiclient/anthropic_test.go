package aiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aierrors "github.com/sezginpak/lifestyles/internal/errors"
	"github.com/sezginpak/lifestyles/internal/profile"
)

func anthropicTestTransport(t *testing.T, handler http.HandlerFunc) *AnthropicTransport {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p := profile.Default()
	p.AIBaseURL = srv.URL
	return NewAnthropicTransport(p, StaticCredentials("test-key"))
}

func TestAnthropicTransportSuccess(t *testing.T) {
	var gotReq anthropicRequest
	var gotHeaders http.Header
	tr := anthropicTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_01",
			"content": [{"type": "text", "text": "hello there"}],
			"usage": {"input_tokens": 42, "output_tokens": 7}
		}`))
	})

	res, err := tr.Complete(context.Background(), Request{
		System:      "be brief",
		Messages:    []Message{{Role: RoleUser, Content: "hi"}},
		Temperature: 0.9,
		MaxTokens:   1024,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", res.Text)
	assert.Equal(t, 42, res.InputTokens)
	assert.Equal(t, 7, res.OutputTokens)

	assert.Equal(t, "test-key", gotHeaders.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, gotHeaders.Get("anthropic-version"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "claude-3-5-haiku-20241022", gotReq.Model)
	assert.Equal(t, 1024, gotReq.MaxTokens)
	assert.InDelta(t, 0.9, gotReq.Temperature, 1e-9)
	assert.Equal(t, "be brief", gotReq.System)
}

func TestAnthropicTransport429(t *testing.T) {
	tr := anthropicTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := tr.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.Error(t, err)
	assert.True(t, aierrors.IsCode(err, aierrors.CodeUpstreamRateLimited))
}

func TestAnthropicTransportAPIErrorEnvelope(t *testing.T) {
	tr := anthropicTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"max_tokens too large"}}`))
	})

	_, err := tr.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.Error(t, err)
	pe, ok := err.(*aierrors.PipelineError)
	require.True(t, ok)
	assert.Equal(t, aierrors.CodeAPIError, pe.Code)
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.Contains(t, pe.Message, "max_tokens too large")
}

func TestAnthropicTransportMalformedErrorBodyFailsClosed(t *testing.T) {
	tr := anthropicTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>gateway error</html>`))
	})

	_, err := tr.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.Error(t, err)
	pe, ok := err.(*aierrors.PipelineError)
	require.True(t, ok)
	assert.Equal(t, aierrors.CodeAPIError, pe.Code)
	assert.Equal(t, http.StatusInternalServerError, pe.StatusCode)
}

func TestAnthropicTransportNoTextSegment(t *testing.T) {
	tr := anthropicTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"msg_02","content":[],"usage":{"input_tokens":1,"output_tokens":0}}`))
	})

	_, err := tr.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.Error(t, err)
	assert.True(t, aierrors.IsCode(err, aierrors.CodeInvalidResponse))
}

func TestAnthropicTransportNetworkFailure(t *testing.T) {
	p := profile.Default()
	p.AIBaseURL = "http://127.0.0.1:1" // nothing listens here
	tr := NewAnthropicTransport(p, StaticCredentials("test-key"))

	_, err := tr.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.Error(t, err)
	assert.True(t, aierrors.IsCode(err, aierrors.CodeNetworkError))
}
