package knowledge

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sezginpak/lifestyles/ai/aiclient"
	"github.com/sezginpak/lifestyles/ai/privacy"
	"github.com/sezginpak/lifestyles/internal/observability"
)

// Fallback thresholds: the model is consulted only when the pattern pass
// looks thin relative to the text.
const (
	fallbackMinPatternFacts = 2
	fallbackWordThreshold   = 50
)

const extractionTemperature = 0.3

const extractionSystemPrompt = `You extract durable facts about the user from their messages.
Return ONLY a JSON array, no prose. Each element:
{"category": "personal"|"preference"|"goal"|"fear"|"habit", "key": string, "value": string, "confidence": number}
Only include facts stated by the user about themselves, with confidence between 0 and 1.
Return [] if there are none.`

// Generator is the model call used for the extraction fallback.
type Generator interface {
	Generate(ctx context.Context, system, user string, temperature float64) (*aiclient.Result, error)
}

// Job carries the recent user utterances of one exchange.
type Job struct {
	Messages []string
}

// Extractor is the detached background consumer that turns conversation text
// into stored facts. Submission never blocks the response path, and no
// extraction failure ever reaches the user.
type Extractor struct {
	gate     *privacy.Gate
	matcher  *PatternMatcher
	merger   *Merger
	llm      Generator
	throttle *rate.Limiter
	logger   *slog.Logger

	jobs chan Job
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewExtractor starts the worker goroutine. llm may be nil, which disables
// the model fallback and leaves pattern extraction only.
func NewExtractor(gate *privacy.Gate, merger *Merger, llm Generator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		gate:    gate,
		matcher: NewPatternMatcher(),
		merger:  merger,
		llm:     llm,
		// one model-backed extraction per 30s across all exchanges
		throttle: rate.NewLimiter(rate.Every(30*time.Second), 1),
		logger:   logger,
		jobs:     make(chan Job, 16),
	}
	e.wg.Add(1)
	go e.run()
	return e
}

// Submit queues one exchange for extraction. When the queue is full the job
// is dropped; extraction is best effort.
func (e *Extractor) Submit(job Job) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.jobs <- job:
	default:
		e.logger.Debug("extraction queue full, dropping job")
	}
}

// Close stops intake and waits for queued jobs to finish.
func (e *Extractor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.jobs)
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *Extractor) run() {
	defer e.wg.Done()
	for job := range e.jobs {
		e.process(context.Background(), job)
	}
}

func (e *Extractor) process(ctx context.Context, job Job) {
	if !e.gate.FeatureEnabled(privacy.FeatureLearning) {
		return
	}
	rc := observability.NewRequestContext(e.logger, "knowledge")

	candidates := e.patternPass(job.Messages)

	if e.shouldFallBack(candidates, job.Messages) && e.llm != nil && e.throttle.Allow() {
		if extra := e.llmPass(ctx, job.Messages); len(extra) > 0 {
			candidates = append(candidates, extra...)
		}
	}
	if len(candidates) == 0 {
		return
	}

	if err := e.merger.MergeAll(ctx, candidates); err != nil {
		rc.Warn("fact merge failed", slog.String("error", err.Error()))
		return
	}
	rc.Debug("facts merged", slog.Int("count", len(candidates)))
}

func (e *Extractor) patternPass(messages []string) []Candidate {
	var out []Candidate
	for _, msg := range messages {
		out = append(out, e.matcher.Match(msg)...)
	}
	return out
}

func (e *Extractor) shouldFallBack(found []Candidate, messages []string) bool {
	if len(found) < fallbackMinPatternFacts {
		return true
	}
	words := 0
	for _, msg := range messages {
		words += len(strings.Fields(msg))
	}
	return words > fallbackWordThreshold
}

// llmPass asks the model for facts and holds the reply to a strict schema.
// Any deviation discards the whole reply; the pattern results stand alone.
func (e *Extractor) llmPass(ctx context.Context, messages []string) []Candidate {
	res, err := e.llm.Generate(ctx, extractionSystemPrompt, strings.Join(messages, "\n"), extractionTemperature)
	if err != nil {
		e.logger.Debug("extraction model call failed", "error", err)
		return nil
	}
	return parseExtraction(res.Text)
}

const llmMinConfidence = 0.8

func parseExtraction(text string) []Candidate {
	raw := stripCodeFences(text)

	var decoded []struct {
		Category   string  `json:"category"`
		Key        string  `json:"key"`
		Value      string  `json:"value"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil
	}

	known := map[string]bool{
		CategoryPersonal:   true,
		CategoryPreference: true,
		CategoryGoal:       true,
		CategoryFear:       true,
		CategoryHabit:      true,
	}
	var out []Candidate
	for _, d := range decoded {
		if !known[d.Category] || d.Key == "" || d.Value == "" {
			continue
		}
		if d.Confidence < llmMinConfidence || d.Confidence > 1 {
			continue
		}
		out = append(out, Candidate{
			Category:   d.Category,
			Key:        d.Key,
			Value:      d.Value,
			Confidence: d.Confidence,
			Source:     SourceAIExtracted,
		})
	}
	return out
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
