// Package chat orchestrates the conversational pipeline: consent and quota
// checks, context assembly, prompt composition, the model call, and the
// detached knowledge extraction that follows a successful exchange.
package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/sezginpak/lifestyles/ai/aiclient"
	"github.com/sezginpak/lifestyles/ai/assemble"
	"github.com/sezginpak/lifestyles/ai/knowledge"
	"github.com/sezginpak/lifestyles/ai/privacy"
	"github.com/sezginpak/lifestyles/ai/prompt"
	"github.com/sezginpak/lifestyles/ai/usage"
	aierrors "github.com/sezginpak/lifestyles/internal/errors"
	"github.com/sezginpak/lifestyles/internal/observability"
	"github.com/sezginpak/lifestyles/store"
)

const chatTemperature = 0.9

// extractionWindow is how many recent user utterances feed the extractor.
const extractionWindow = 5

// Message is one conversation turn as the UI layer stores it.
type Message struct {
	Content   string
	IsUser    bool
	Timestamp time.Time
}

// Generator is the model call the service depends on.
type Generator interface {
	Generate(ctx context.Context, system, user string, temperature float64) (*aiclient.Result, error)
}

// Learner receives exchanges for background fact extraction.
type Learner interface {
	Submit(knowledge.Job)
}

// Service is the chat orchestrator.
type Service struct {
	gate      *privacy.Gate
	assembler *assemble.Assembler
	client    Generator
	tracker   *usage.Tracker
	learner   Learner
	logger    *slog.Logger
}

// NewService wires the chat pipeline. learner may be nil to disable
// extraction entirely.
func NewService(gate *privacy.Gate, assembler *assemble.Assembler, client Generator, tracker *usage.Tracker, learner Learner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gate:      gate,
		assembler: assembler,
		client:    client,
		tracker:   tracker,
		learner:   learner,
		logger:    logger,
	}
}

// Ask answers one chat question. A non-nil target pins the conversation to
// that friend. The answer is returned as soon as the model replies;
// knowledge extraction happens afterwards, detached from this call.
func (s *Service) Ask(ctx context.Context, question string, target *store.Friend, history []Message, tier usage.Tier) (string, error) {
	rc := observability.NewRequestContext(s.logger, "chat")
	ctx = observability.WithRequestContext(ctx, rc)

	if !s.gate.FeatureEnabled(privacy.FeatureChat) {
		return "", aierrors.FeatureDisabled("chat")
	}
	if err := s.tracker.CheckQuota(ctx, tier); err != nil {
		return "", err
	}

	assembled := s.assembler.AssembleChat(ctx, question, target)
	system, user := prompt.ComposeChat(assembled, question, toTurns(history))

	res, err := s.client.Generate(ctx, system, user, chatTemperature)
	if err != nil {
		return "", err
	}

	s.tracker.RecordMessage(ctx)
	if s.learner != nil {
		s.learner.Submit(knowledge.Job{Messages: recentUserMessages(history, question)})
	}
	rc.Info("chat answered",
		slog.String(observability.LogFieldIntent, string(assembled.Intent)),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()),
	)
	return res.Text, nil
}

func toTurns(history []Message) []prompt.Turn {
	turns := make([]prompt.Turn, len(history))
	for i, m := range history {
		turns[i] = prompt.Turn{Content: m.Content, IsUser: m.IsUser}
	}
	return turns
}

// recentUserMessages collects the last few user utterances plus the current
// question, oldest first.
func recentUserMessages(history []Message, question string) []string {
	var user []string
	for _, m := range history {
		if m.IsUser {
			user = append(user, m.Content)
		}
	}
	if len(user) >= extractionWindow {
		user = user[len(user)-extractionWindow+1:]
	}
	return append(user, question)
}
