// Package prompt renders assembled contexts into system and user messages.
// Composition is pure: no I/O, no clock reads, same input same output.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sezginpak/lifestyles/ai/assemble"
	"github.com/sezginpak/lifestyles/ai/snapshot"
)

// MaxHistoryTurns bounds how much conversation history enters the user
// message.
const MaxHistoryTurns = 6

const historySeparator = "\n---\n"

// Turn is one prior conversation exchange half.
type Turn struct {
	Content string
	IsUser  bool
}

const generalPersona = `You are a warm, attentive personal life assistant. You know the user's
life data and use it to give specific, grounded advice instead of generic tips.
Answer in the user's language. Be concise: a few sentences unless asked for more.
Never invent data you were not given; if something is absent, simply do not mention it.`

const friendPersona = `You are a thoughtful relationship assistant focused on one specific friend
of the user. Use the relationship details you are given to suggest concrete ways
to nurture this friendship. Answer in the user's language and keep it personal
and specific to this one relationship.`

const proactivePersona = `You are a proactive daily companion. Without being asked a question, you
look at the user's day and offer one short, caring, concrete insight.
Answer in the user's language. Two or three sentences, no lists, no headers.`

// ComposeChat renders a chat request. Absent context fields produce no text
// block at all. The user message is the history tail (oldest first, role
// tagged) followed by the new question.
func ComposeChat(c *assemble.ChatContext, question string, history []Turn) (system, user string) {
	var b strings.Builder
	if c.TargetFriend != nil {
		b.WriteString(friendPersona)
	} else {
		b.WriteString(generalPersona)
	}

	if ctx := renderChatContext(c); ctx != "" {
		b.WriteString("\n\nWhat you know about the user:\n")
		b.WriteString(ctx)
	}
	return b.String(), renderUserMessage(question, history)
}

// ComposeDaily renders the proactive daily-insight request for a band. The
// context is embedded as pretty-printed JSON; empty fields are omitted by
// the snapshot serialization rules.
func ComposeDaily(c *assemble.DailyContext, band Band) (system, user string) {
	var b strings.Builder
	b.WriteString(proactivePersona)
	b.WriteString("\n\n")
	b.WriteString(band.Instruction())

	if data, err := json.MarshalIndent(c, "", "  "); err == nil && string(data) != "{}" {
		b.WriteString("\n\nToday's data:\n")
		b.Write(data)
	}
	return b.String(), "Give me my " + string(band) + " insight."
}

func renderUserMessage(question string, history []Turn) string {
	if len(history) > MaxHistoryTurns {
		history = history[len(history)-MaxHistoryTurns:]
	}
	if len(history) == 0 {
		return question
	}

	var b strings.Builder
	for _, t := range history {
		if t.IsUser {
			b.WriteString("User: ")
		} else {
			b.WriteString("Assistant: ")
		}
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	b.WriteString(historySeparator)
	b.WriteString(question)
	return b.String()
}

func renderChatContext(c *assemble.ChatContext) string {
	var b strings.Builder

	if p := c.Profile; p != nil {
		b.WriteString("Profile:")
		if p.Name != "" {
			fmt.Fprintf(&b, " name %s.", p.Name)
		}
		if p.Age > 0 {
			fmt.Fprintf(&b, " age %d.", p.Age)
		}
		if p.Occupation != "" {
			fmt.Fprintf(&b, " works as %s.", p.Occupation)
		}
		if p.City != "" {
			fmt.Fprintf(&b, " lives in %s.", p.City)
		}
		b.WriteString("\n")
	}
	if f := c.TargetFriend; f != nil {
		fmt.Fprintf(&b, "The friend in focus: %s", renderFriend(*f))
	}
	if len(c.Friends) > 0 {
		b.WriteString("Friends:\n")
		for _, f := range c.Friends {
			b.WriteString("- ")
			b.WriteString(renderFriend(f))
		}
	}
	if m := c.CurrentMood; m != nil {
		fmt.Fprintf(&b, "Current mood: %s (intensity %d/5)", m.Type, m.Intensity)
		if m.Note != "" {
			fmt.Fprintf(&b, ", note: %s", m.Note)
		}
		b.WriteString("\n")
	}
	if t := c.MoodTrend; t != nil {
		fmt.Fprintf(&b, "Mood this week: average %.1f/5, mostly %s, overall %s.\n",
			t.AverageIntensity, t.DominantMood, t.Variance)
	}
	if len(c.Goals) > 0 {
		b.WriteString("Active goals:\n")
		for _, g := range c.Goals {
			fmt.Fprintf(&b, "- %s (%s): %d%% done", g.Title, g.Category, ProgressPercent(g.Progress))
			if g.IsOverdue {
				b.WriteString(", overdue")
			} else if g.DaysRemaining != snapshot.MissingDateDays {
				fmt.Fprintf(&b, ", %d days left", g.DaysRemaining)
			}
			b.WriteString("\n")
		}
	}
	if len(c.Habits) > 0 {
		b.WriteString("Habits:\n")
		for _, h := range c.Habits {
			fmt.Fprintf(&b, "- %s (%s): streak %d, weekly completion %d%%\n",
				h.Name, h.Frequency, h.CurrentStreak, ProgressPercent(h.WeeklyCompletionRate))
		}
	}
	if l := c.Location; l != nil {
		fmt.Fprintf(&b, "Location pattern: %.1fh at home today, %.1fh this week.", l.HoursAtHomeToday, l.HoursAtHomeThisWeek)
		if len(l.MostVisitedPlaces) > 0 {
			fmt.Fprintf(&b, " Often at: %s.", strings.Join(l.MostVisitedPlaces, ", "))
		}
		b.WriteString("\n")
	}
	if j := c.TodayJournal; j != nil {
		fmt.Fprintf(&b, "Today's journal (%s): %s\n", j.Type, j.Content)
	}
	if len(c.Facts) > 0 {
		b.WriteString("Things the user has shared before:\n")
		for _, f := range c.Facts {
			fmt.Fprintf(&b, "- %s: %s\n", f.Key, f.Value)
		}
	}
	return b.String()
}

func renderFriend(f snapshot.Friend) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, contact %s)", f.Name, f.RelationshipType, f.Frequency)
	if f.DaysSinceLastContact == snapshot.MissingDateDays {
		b.WriteString(", never contacted")
	} else {
		fmt.Fprintf(&b, ", last contact %d days ago", f.DaysSinceLastContact)
	}
	if f.IsOverdue {
		b.WriteString(", overdue")
	}
	if f.IsImportant {
		b.WriteString(", important to the user")
	}
	if f.SharedInterests != "" {
		fmt.Fprintf(&b, ", shared interests: %s", f.SharedInterests)
	}
	b.WriteString("\n")
	return b.String()
}

// ProgressPercent converts a 0..1 ratio to a truncated whole percentage.
func ProgressPercent(progress float64) int {
	return int(progress * 100)
}
