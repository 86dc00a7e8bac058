// Package aiclient talks to the remote model API. The Client wraps a wire
// Transport with the request pipeline policy: device security check first,
// client-side rate limit second, then dispatch, then usage accounting.
// Every request is single attempt; rate limit and API errors surface to the
// caller unretried.
package aiclient

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/sezginpak/lifestyles/ai/ratelimit"
	"github.com/sezginpak/lifestyles/ai/security"
	"github.com/sezginpak/lifestyles/ai/usage"
	aierrors "github.com/sezginpak/lifestyles/internal/errors"
	"github.com/sezginpak/lifestyles/internal/observability"
	"github.com/sezginpak/lifestyles/internal/profile"
)

// RequestTimeout bounds a single upstream call.
const RequestTimeout = 30 * time.Second

// Message is one conversation turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request is a fully assembled model call.
type Request struct {
	System      string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Result is a successful model response.
type Result struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Transport speaks one concrete wire protocol.
type Transport interface {
	Complete(ctx context.Context, req Request) (*Result, error)
}

// Client is the pipeline-facing model client.
type Client struct {
	transport Transport
	security  *security.Gate
	limiter   *ratelimit.Limiter
	usage     *usage.Tracker
	maxTokens int
}

// NewClient wires the pipeline client. security, limiter and usage may not
// be nil; the transport is chosen by the caller via NewTransport.
func NewClient(transport Transport, sec *security.Gate, limiter *ratelimit.Limiter, tracker *usage.Tracker, p *profile.Profile) *Client {
	return &Client{
		transport: transport,
		security:  sec,
		limiter:   limiter,
		usage:     tracker,
		maxTokens: p.AIMaxTokens,
	}
}

// Generate sends a single-turn request.
func (c *Client) Generate(ctx context.Context, system, user string, temperature float64) (*Result, error) {
	return c.GenerateWithHistory(ctx, system, []Message{{Role: RoleUser, Content: user}}, temperature)
}

// GenerateWithHistory sends a multi-turn request. The security and rate
// limit checks run before any bytes leave the process, and usage is recorded
// only for requests that produced a decoded response.
func (c *Client) GenerateWithHistory(ctx context.Context, system string, msgs []Message, temperature float64) (*Result, error) {
	rc := observability.Ctx(ctx, "aiclient")

	if err := c.security.Check(); err != nil {
		rc.Warn("request vetoed by security gate")
		return nil, err
	}
	if err := c.limiter.CheckAndReserve(ctx); err != nil {
		rc.Warn("request rejected by client rate limiter")
		return nil, err
	}

	req := Request{
		System:      system,
		Messages:    msgs,
		Temperature: temperature,
		MaxTokens:   c.maxTokens,
	}

	callCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	start := time.Now()
	res, err := c.transport.Complete(callCtx, req)
	if err != nil {
		// A request that produced an upstream response still consumed a
		// slot; one that never left the process must not.
		if reachedUpstream(err) {
			c.limiter.Record(ctx)
		}
		rc.Error("model request failed", err)
		return nil, err
	}

	c.limiter.Record(ctx)
	c.usage.Record(ctx, res.InputTokens, res.OutputTokens)
	rc.Info("model request completed",
		slog.Int("input_tokens", res.InputTokens),
		slog.Int("output_tokens", res.OutputTokens),
		slog.Int64(observability.LogFieldDuration, time.Since(start).Milliseconds()),
	)
	return res, nil
}

// reachedUpstream reports whether the error proves the remote API received
// the request: a 429, an error envelope, or a response we failed to decode.
// Credential and transport failures carry no such proof.
func reachedUpstream(err error) bool {
	return aierrors.IsCode(err, aierrors.CodeUpstreamRateLimited) ||
		aierrors.IsCode(err, aierrors.CodeAPIError) ||
		aierrors.IsCode(err, aierrors.CodeInvalidResponse)
}

// NewTransport builds the wire transport selected by the profile.
func NewTransport(p *profile.Profile, creds CredentialProvider) (Transport, error) {
	switch p.AIProvider {
	case "anthropic":
		return NewAnthropicTransport(p, creds), nil
	case "proxy":
		return NewProxyTransport(p, creds)
	default:
		return nil, errors.Errorf("unsupported AI provider: %s", p.AIProvider)
	}
}
