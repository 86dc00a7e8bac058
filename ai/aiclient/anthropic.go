package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	aierrors "github.com/sezginpak/lifestyles/internal/errors"
	"github.com/sezginpak/lifestyles/internal/profile"
)

const anthropicVersion = "2023-06-01"

// AnthropicTransport speaks the Anthropic messages wire protocol.
type AnthropicTransport struct {
	baseURL string
	model   string
	creds   CredentialProvider
	http    *http.Client
}

// NewAnthropicTransport builds the transport from the profile.
func NewAnthropicTransport(p *profile.Profile, creds CredentialProvider) *AnthropicTransport {
	return &AnthropicTransport{
		baseURL: p.AIBaseURL,
		model:   p.AIModel,
		creds:   creds,
		http:    &http.Client{},
	}
}

type anthropicRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicErrorEnvelope struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one request. Exactly one attempt; all failures map onto the
// pipeline error taxonomy.
func (t *AnthropicTransport) Complete(ctx context.Context, req Request) (*Result, error) {
	key, err := t.creds.APIKey()
	if err != nil {
		return nil, aierrors.APIError(0, fmt.Sprintf("credential unavailable: %v", err))
	}

	body, err := json.Marshal(anthropicRequest{
		Model:       t.model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages:    req.Messages,
	})
	if err != nil {
		return nil, aierrors.InvalidResponse(fmt.Sprintf("encode request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, aierrors.NetworkError("build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", key)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := t.http.Do(httpReq)
	if err != nil {
		return nil, aierrors.NetworkError("send request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, aierrors.NetworkError("read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, aierrors.UpstreamRateLimited()
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		// The error envelope is held to its schema; anything else fails
		// closed with the status alone.
		var env anthropicErrorEnvelope
		if err := json.Unmarshal(raw, &env); err == nil && env.Error.Message != "" {
			return nil, aierrors.APIError(resp.StatusCode, env.Error.Message)
		}
		return nil, aierrors.APIError(resp.StatusCode, fmt.Sprintf("upstream returned status %d", resp.StatusCode))
	}

	var decoded anthropicResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, aierrors.InvalidResponse(fmt.Sprintf("decode response: %v", err))
	}

	text := ""
	for _, seg := range decoded.Content {
		if seg.Type == "text" {
			text = seg.Text
			break
		}
	}
	if text == "" {
		return nil, aierrors.InvalidResponse("response carries no text segment")
	}

	return &Result{
		Text:         text,
		InputTokens:  decoded.Usage.InputTokens,
		OutputTokens: decoded.Usage.OutputTokens,
	}, nil
}
