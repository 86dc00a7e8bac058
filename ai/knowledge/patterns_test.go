package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCandidate(cs []Candidate, category, key string) *Candidate {
	for i := range cs {
		if cs[i].Category == category && cs[i].Key == key {
			return &cs[i]
		}
	}
	return nil
}

func TestPatternMatcherEnglish(t *testing.T) {
	m := NewPatternMatcher()

	tests := []struct {
		name     string
		text     string
		category string
		key      string
		value    string
	}{
		{"occupation", "I work as a software engineer", CategoryPersonal, "occupation", "software engineer"},
		{"age", "I'm 29 years old", CategoryPersonal, "age", "29"},
		{"city", "I live in Berlin", CategoryPersonal, "city", "berlin"},
		{"likes", "I love hiking", CategoryPreference, "likes", "hiking"},
		{"dislikes", "I hate traffic", CategoryPreference, "dislikes", "traffic"},
		{"goal", "I want to run a marathon", CategoryGoal, "goal", "run a marathon"},
		{"fear", "I'm afraid of heights", CategoryFear, "fear", "heights"},
		{"habit", "every morning I meditate", CategoryHabit, "habit", "meditate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findCandidate(m.Match(tt.text), tt.category, tt.key)
			require.NotNil(t, got, "no candidate for %q", tt.text)
			assert.Equal(t, tt.value, got.Value)
			assert.Equal(t, SourcePattern, got.Source)
			assert.InDelta(t, patternConfidence, got.Confidence, 1e-9)
		})
	}
}

func TestPatternMatcherTurkish(t *testing.T) {
	m := NewPatternMatcher()

	tests := []struct {
		name     string
		text     string
		category string
		key      string
	}{
		{"occupation", "öğretmen olarak çalışıyorum", CategoryPersonal, "occupation"},
		{"age", "34 yaşındayım", CategoryPersonal, "age"},
		{"city", "Ankara'da yaşıyorum", CategoryPersonal, "city"},
		{"likes", "kahveyi çok seviyorum", CategoryPreference, "likes"},
		{"goal", "hedefim kitap yazmak", CategoryGoal, "goal"},
		{"fear", "yılandan korkuyorum", CategoryFear, "fear"},
		{"habit", "her gün koşuyorum", CategoryHabit, "habit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findCandidate(m.Match(tt.text), tt.category, tt.key)
			require.NotNil(t, got, "no candidate for %q", tt.text)
			assert.NotEmpty(t, got.Value)
		})
	}
}

func TestPatternMatcherCaseInsensitive(t *testing.T) {
	m := NewPatternMatcher()
	got := findCandidate(m.Match("I LIVE IN OSLO"), CategoryPersonal, "city")
	require.NotNil(t, got)
	assert.Equal(t, "oslo", got.Value)
}

func TestPatternMatcherNoMatch(t *testing.T) {
	m := NewPatternMatcher()
	assert.Empty(t, m.Match("what's the weather like today?"))
	assert.Empty(t, m.Match(""))
}

func TestPatternMatcherOneCandidatePerSlot(t *testing.T) {
	m := NewPatternMatcher()
	cs := m.Match("i work as a teacher and my job is a pilot")
	count := 0
	for _, c := range cs {
		if c.Category == CategoryPersonal && c.Key == "occupation" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
