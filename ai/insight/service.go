// Package insight produces the proactive daily insight. An insight is valid
// for one date and time-of-day band; a cache hit bypasses the entire request
// pipeline, so repeated views within one band cost nothing.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sezginpak/lifestyles/ai/aiclient"
	"github.com/sezginpak/lifestyles/ai/assemble"
	"github.com/sezginpak/lifestyles/ai/privacy"
	"github.com/sezginpak/lifestyles/ai/prompt"
	aierrors "github.com/sezginpak/lifestyles/internal/errors"
	"github.com/sezginpak/lifestyles/internal/observability"
	"github.com/sezginpak/lifestyles/store/kv"
)

const insightTemperature = 0.8

// Generator is the model call the service depends on.
type Generator interface {
	Generate(ctx context.Context, system, user string, temperature float64) (*aiclient.Result, error)
}

// Service builds and caches daily insights.
type Service struct {
	gate      *privacy.Gate
	assembler *assemble.Assembler
	client    Generator
	kv        kv.Store
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the insight pipeline.
func NewService(gate *privacy.Gate, assembler *assemble.Assembler, client Generator, store kv.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gate:      gate,
		assembler: assembler,
		client:    client,
		kv:        store,
		logger:    logger,
		now:       time.Now,
	}
}

// SetNowFunc overrides the clock. Tests only.
func (s *Service) SetNowFunc(now func() time.Time) { s.now = now }

// Insight returns the insight for the current date and band, generating it
// on first request and serving the cached text afterwards.
func (s *Service) Insight(ctx context.Context) (string, error) {
	rc := observability.NewRequestContext(s.logger, "insight")
	ctx = observability.WithRequestContext(ctx, rc)

	if !s.gate.FeatureEnabled(privacy.FeatureMorningInsight) {
		return "", aierrors.FeatureDisabled("daily insight")
	}

	now := s.now()
	band := prompt.BandFor(now)
	key := cacheKey(now, band)

	if cached, ok, err := s.kv.Get(ctx, key); err != nil {
		rc.Warn("insight cache read failed", slog.String("error", err.Error()))
	} else if ok {
		rc.Debug("insight cache hit", slog.String(observability.LogFieldBand, string(band)))
		return string(cached), nil
	}

	daily := s.assembler.AssembleDaily(ctx)
	system, user := prompt.ComposeDaily(daily, band)

	res, err := s.client.Generate(ctx, system, user, insightTemperature)
	if err != nil {
		return "", err
	}

	if err := s.kv.Set(ctx, key, []byte(res.Text)); err != nil {
		rc.Warn("insight cache write failed", slog.String("error", err.Error()))
	}
	rc.Info("insight generated",
		slog.String(observability.LogFieldBand, string(band)),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()),
	)
	return res.Text, nil
}

// Invalidate drops the cached insight for the current date and band.
func (s *Service) Invalidate(ctx context.Context) error {
	now := s.now()
	return s.kv.Delete(ctx, cacheKey(now, prompt.BandFor(now)))
}

func cacheKey(now time.Time, band prompt.Band) string {
	return fmt.Sprintf("daily_insight:%s:%s", now.Format("2006-01-02"), band)
}
