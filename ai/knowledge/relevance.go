package knowledge

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/sezginpak/lifestyles/store"
)

// MaxContextFacts caps how many facts may enter a single prompt.
const MaxContextFacts = 15

const recencyWindow = 7 * 24 * time.Hour

// Relevance scores facts against the current question so that context size
// stays bounded as the fact store grows. A fact must actually relate to the
// question to be included; there is no unconditional top-K.
type Relevance struct {
	folder cases.Caser
	now    func() time.Time
}

// NewRelevance creates a relevance filter.
func NewRelevance() *Relevance {
	return &Relevance{folder: cases.Fold(), now: time.Now}
}

type scoredFact struct {
	fact  *store.KnowledgeFact
	score float64
}

// Filter returns the facts relevant to the question, best first, capped at
// MaxContextFacts. With an empty question only high-confidence recently
// confirmed facts pass, so proactive prompts still get a stable core set.
func (r *Relevance) Filter(facts []*store.KnowledgeFact, question string) []*store.KnowledgeFact {
	terms := r.terms(question)
	now := r.now()

	var scored []scoredFact
	for _, f := range facts {
		if !f.IsActive {
			continue
		}
		s := r.score(f, terms, now)
		if s <= 0 {
			continue
		}
		scored = append(scored, scoredFact{fact: f, score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > MaxContextFacts {
		scored = scored[:MaxContextFacts]
	}

	out := make([]*store.KnowledgeFact, len(scored))
	for i, sf := range scored {
		out[i] = sf.fact
	}
	return out
}

// score combines keyword overlap with confidence and recency. Overlap
// dominates: a fact sharing terms with the question always outranks one that
// merely has high confidence.
func (r *Relevance) score(f *store.KnowledgeFact, terms []string, now time.Time) float64 {
	haystack := r.folder.String(f.Key + " " + f.Value + " " + f.Category)

	overlap := 0
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			overlap++
		}
	}

	score := float64(overlap) * 2.0
	score += f.Confidence
	if f.LastConfirmedAt != nil && now.Sub(*f.LastConfirmedAt) <= recencyWindow {
		score += 0.5
	}

	if len(terms) > 0 && overlap == 0 {
		// Question-bearing queries require an actual term match; confidence
		// alone does not qualify.
		return 0
	}
	if len(terms) == 0 && f.Confidence < 0.7 {
		return 0
	}
	return score
}

func (r *Relevance) terms(question string) []string {
	fields := strings.Fields(r.folder.String(question))
	var terms []string
	for _, w := range fields {
		w = strings.Trim(w, ".,!?;:'\"")
		// short words carry no signal in either language
		if len([]rune(w)) < 3 {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}
