package knowledge

import (
	"context"
	"time"

	"golang.org/x/text/cases"

	"github.com/sezginpak/lifestyles/store"
)

// Merge policy constants. Corroboration boosts, contradiction decays, and a
// sufficiently decayed fact is replaced outright.
const (
	confirmBoost     = 0.1
	contradictDecay  = 0.2
	replaceThreshold = 0.3
	maxConfidence    = 1.0
)

// Merger reconciles extracted candidates against the stored fact set.
type Merger struct {
	store  store.Store
	folder cases.Caser
	now    func() time.Time
}

// NewMerger creates a merger over the given store.
func NewMerger(s store.Store) *Merger {
	return &Merger{store: s, folder: cases.Fold(), now: time.Now}
}

// Merge applies one candidate. Outcomes:
//   - no active fact with the same category+key: create a new fact
//   - same value (case-folded): boost confidence by 0.1 (capped at 1.0),
//     bump TimesReferenced and touch LastConfirmedAt
//   - different value: decay the old fact's confidence by 0.2; when the
//     decayed confidence drops below 0.3 the old fact is deactivated and the
//     candidate becomes a new fact, otherwise the old fact stands
func (m *Merger) Merge(ctx context.Context, c Candidate) error {
	existing, err := m.store.ListKnowledgeFacts(ctx, &store.FindKnowledgeFact{
		Category:   &c.Category,
		Key:        &c.Key,
		OnlyActive: true,
	})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		return m.create(ctx, c)
	}

	old := existing[0]
	if m.folder.String(old.Value) == m.folder.String(c.Value) {
		return m.confirm(ctx, old)
	}
	return m.contradict(ctx, old, c)
}

// MergeAll applies every candidate, stopping at the first store error.
func (m *Merger) MergeAll(ctx context.Context, cs []Candidate) error {
	for _, c := range cs {
		if err := m.Merge(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Merger) create(ctx context.Context, c Candidate) error {
	_, err := m.store.CreateKnowledgeFact(ctx, &store.KnowledgeFact{
		Category:   c.Category,
		Key:        c.Key,
		Value:      c.Value,
		Confidence: c.Confidence,
		Source:     c.Source,
		CreatedAt:  m.now(),
		IsActive:   true,
	})
	return err
}

func (m *Merger) confirm(ctx context.Context, old *store.KnowledgeFact) error {
	confidence := old.Confidence + confirmBoost
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	referenced := old.TimesReferenced + 1
	confirmedAt := m.now()
	return m.store.UpdateKnowledgeFact(ctx, &store.UpdateKnowledgeFact{
		ID:              old.ID,
		Confidence:      &confidence,
		TimesReferenced: &referenced,
		LastConfirmedAt: &confirmedAt,
	})
}

func (m *Merger) contradict(ctx context.Context, old *store.KnowledgeFact, c Candidate) error {
	confidence := old.Confidence - contradictDecay
	if confidence < 0 {
		confidence = 0
	}
	if confidence < replaceThreshold {
		inactive := false
		if err := m.store.UpdateKnowledgeFact(ctx, &store.UpdateKnowledgeFact{
			ID:         old.ID,
			Confidence: &confidence,
			IsActive:   &inactive,
		}); err != nil {
			return err
		}
		return m.create(ctx, c)
	}
	return m.store.UpdateKnowledgeFact(ctx, &store.UpdateKnowledgeFact{
		ID:         old.ID,
		Confidence: &confidence,
	})
}
