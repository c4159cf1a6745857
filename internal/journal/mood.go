package journal

import (
	"encoding/json"
	"strings"
)

// Mood is a categorical label from a closed set. The stored identifier is
// independent of the glyph shown to the user.
type Mood string

const (
	MoodHappy Mood = "happy"
	MoodOkay  Mood = "okay"
	MoodSad   Mood = "sad"
	MoodAngry Mood = "angry"
	MoodTired Mood = "tired"
)

// Moods lists the known moods in picker order.
var Moods = []Mood{MoodHappy, MoodOkay, MoodSad, MoodAngry, MoodTired}

var moodLabels = map[Mood]string{
	MoodHappy: "😀 Happy",
	MoodOkay:  "😐 Okay",
	MoodSad:   "😞 Sad",
	MoodAngry: "😡 Angry",
	MoodTired: "😴 Tired",
}

// ParseMood resolves an identifier ("happy"), a bare name ("Happy") or a
// glyph label ("😀 Happy") to a known mood.
func ParseMood(s string) (Mood, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	fields := strings.Fields(s)
	name := strings.ToLower(fields[len(fields)-1])
	for _, m := range Moods {
		if string(m) == name || moodLabels[m] == s {
			return m, true
		}
	}
	return "", false
}

// Known reports whether m belongs to the closed set.
func (m Mood) Known() bool {
	_, ok := moodLabels[m]
	return ok
}

// Label returns the display label. Unknown moods display verbatim.
func (m Mood) Label() string {
	if l, ok := moodLabels[m]; ok {
		return l
	}
	return string(m)
}

// UnmarshalJSON normalizes legacy display labels to identifiers and keeps
// unrecognized labels as they were written.
func (m *Mood) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if known, ok := ParseMood(s); ok {
		*m = known
		return nil
	}
	*m = Mood(s)
	return nil
}
