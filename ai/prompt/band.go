package prompt

import "time"

// Band is the time-of-day segment used for proactive prompts and insight
// cache validity.
type Band string

const (
	BandMorning   Band = "morning"
	BandAfternoon Band = "afternoon"
	BandEvening   Band = "evening"
	BandNight     Band = "night"
)

// BandFor maps a local time onto its band: [6,12) morning, [12,18)
// afternoon, [18,24) evening, [0,6) night.
func BandFor(t time.Time) Band {
	switch h := t.Hour(); {
	case h >= 6 && h < 12:
		return BandMorning
	case h >= 12 && h < 18:
		return BandAfternoon
	case h >= 18:
		return BandEvening
	default:
		return BandNight
	}
}

var bandInstructions = map[Band]string{
	BandMorning: "It is morning. Help the user start the day: suggest a focus for today, " +
		"reference today's goals and habits, and keep the tone energizing.",
	BandAfternoon: "It is afternoon. Check in on the day's progress: acknowledge what has " +
		"been done, nudge gently on what is pending, and suggest a short break if the pace looks heavy.",
	BandEvening: "It is evening. Help the user wind down: reflect on the day, highlight one " +
		"positive moment from the data, and suggest something restful.",
	BandNight: "It is late at night. Keep it brief and calm: acknowledge the late hour, " +
		"avoid new tasks, and gently encourage rest.",
}

// Instruction returns the proactive guidance block for the band.
func (b Band) Instruction() string {
	if s, ok := bandInstructions[b]; ok {
		return s
	}
	return bandInstructions[BandMorning]
}
