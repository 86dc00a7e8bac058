package aiclient

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	aierrors "github.com/sezginpak/lifestyles/internal/errors"
	"github.com/sezginpak/lifestyles/internal/profile"
)

// ProxyTransport talks to an OpenAI-compatible backend proxy. It is used
// when requests must not carry the vendor key on the device; the proxy
// holds the real credential and this client authenticates to the proxy.
type ProxyTransport struct {
	client *openai.Client
	model  string
}

// NewProxyTransport builds the transport from the profile.
func NewProxyTransport(p *profile.Profile, creds CredentialProvider) (*ProxyTransport, error) {
	key, err := creds.APIKey()
	if err != nil {
		return nil, err
	}
	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = p.AIProxyBaseURL
	return &ProxyTransport{
		client: openai.NewClientWithConfig(cfg),
		model:  p.AIModel,
	}, nil
}

// Complete sends one chat completion. Single attempt, same error mapping as
// the direct transport.
func (t *ProxyTransport) Complete(ctx context.Context, req Request) (*Result, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Messages:    msgs,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
				return nil, aierrors.UpstreamRateLimited()
			}
			return nil, aierrors.APIError(apiErr.HTTPStatusCode, apiErr.Message)
		}
		return nil, aierrors.NetworkError("proxy request", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, aierrors.InvalidResponse("proxy response carries no text")
	}

	return &Result{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}
