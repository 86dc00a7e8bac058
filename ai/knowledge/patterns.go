// Package knowledge derives durable facts about the user from conversation
// text and maintains them with confidence scores.
package knowledge

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Fact categories.
const (
	CategoryPersonal   = "personal"
	CategoryPreference = "preference"
	CategoryGoal       = "goal"
	CategoryFear       = "fear"
	CategoryHabit      = "habit"
)

// Fact sources.
const (
	SourcePattern     = "pattern"
	SourceAIExtracted = "ai_extracted"
)

// Candidate is a fact derived from one utterance, before merging.
type Candidate struct {
	Category   string
	Key        string
	Value      string
	Confidence float64
	Source     string
}

type pattern struct {
	re       *regexp.Regexp
	category string
	key      string
}

// PatternMatcher extracts facts from free text with curated regular
// expressions. Conversations can be English or Turkish, so both sets are
// always applied.
type PatternMatcher struct {
	patterns []pattern
	folder   cases.Caser
}

const patternConfidence = 0.8

// NewPatternMatcher builds the matcher with the built-in pattern sets.
func NewPatternMatcher() *PatternMatcher {
	specs := []struct {
		expr     string
		category string
		key      string
	}{
		// occupation
		{`i work as an? ([a-zçğıöşü ]+)`, CategoryPersonal, "occupation"},
		{`my job is (?:an? )?([a-zçğıöşü ]+)`, CategoryPersonal, "occupation"},
		{`([a-zçğıöşü ]+) olarak çalışıyorum`, CategoryPersonal, "occupation"},
		{`mesleğim ([a-zçğıöşü ]+)`, CategoryPersonal, "occupation"},

		// age
		{`i(?:'m| am) (\d{1,2}) years old`, CategoryPersonal, "age"},
		{`(\d{1,2}) yaşındayım`, CategoryPersonal, "age"},

		// city
		{`i live in ([a-zçğıöşü ]+)`, CategoryPersonal, "city"},
		{`([a-zçğıöşü]+)'?[dt][ae] yaşıyorum`, CategoryPersonal, "city"},
		{`([a-zçğıöşü]+)'?[dt][ae] oturuyorum`, CategoryPersonal, "city"},

		// likes
		{`i (?:love|really like|like) ([a-zçğıöşü ]+)`, CategoryPreference, "likes"},
		{`([a-zçğıöşü ]+?)(?:yı|yi|yu|yü|ı|i|u|ü)? çok seviyorum`, CategoryPreference, "likes"},

		// dislikes
		{`i (?:hate|dislike|can't stand) ([a-zçğıöşü ]+)`, CategoryPreference, "dislikes"},
		{`([a-zçğıöşü ]+?)(?:dan|den|tan|ten)? nefret ediyorum`, CategoryPreference, "dislikes"},
		{`([a-zçğıöşü ]+?)(?:yı|yi|yu|yü|ı|i|u|ü)? hiç sevmiyorum`, CategoryPreference, "dislikes"},

		// goals
		{`i want to ([a-zçğıöşü ]+)`, CategoryGoal, "goal"},
		{`my goal is to ([a-zçğıöşü ]+)`, CategoryGoal, "goal"},
		{`hedefim ([a-zçğıöşü ]+)`, CategoryGoal, "goal"},
		{`([a-zçğıöşü ]+) istiyorum`, CategoryGoal, "goal"},

		// fears
		{`i(?:'m| am) (?:afraid|scared) of ([a-zçğıöşü ]+)`, CategoryFear, "fear"},
		{`([a-zçğıöşü ]+?)(?:dan|den|tan|ten) korkuyorum`, CategoryFear, "fear"},

		// habits
		{`every (?:day|morning|evening) i ([a-zçğıöşü ]+)`, CategoryHabit, "habit"},
		{`her (?:gün|sabah|akşam) ([a-zçğıöşü ]+)`, CategoryHabit, "habit"},
	}

	m := &PatternMatcher{folder: cases.Fold()}
	for _, s := range specs {
		m.patterns = append(m.patterns, pattern{
			re:       regexp.MustCompile(s.expr),
			category: s.category,
			key:      s.key,
		})
	}
	return m
}

// Match extracts fact candidates from one utterance. Each (category, key)
// yields at most one candidate per utterance; the first matching pattern
// wins.
func (m *PatternMatcher) Match(text string) []Candidate {
	lowered := m.folder.String(text)

	var out []Candidate
	seen := make(map[string]bool)
	for _, p := range m.patterns {
		groups := p.re.FindStringSubmatch(lowered)
		if groups == nil {
			continue
		}
		value := strings.TrimSpace(groups[1])
		if value == "" {
			continue
		}
		slot := p.category + "/" + p.key
		if seen[slot] {
			continue
		}
		seen[slot] = true
		out = append(out, Candidate{
			Category:   p.category,
			Key:        p.key,
			Value:      value,
			Confidence: patternConfidence,
			Source:     SourcePattern,
		})
	}
	return out
}
