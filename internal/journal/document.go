package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Document is the persisted root object: entries keyed by date string, the
// optional goal set under GoalsKey, and any other top-level keys.
type Document struct {
	Entries map[string]DayEntry
	Goals   *GoalSet
	// Foreign holds top-level keys that are neither dates nor GoalsKey,
	// kept verbatim and written back on save.
	Foreign map[string]json.RawMessage
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Entries: make(map[string]DayEntry)}
}

// MarshalJSON writes entries, goals and foreign keys as sibling keys of a
// single object. encoding/json sorts map keys, which keeps the output stable.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Entries)+len(d.Foreign)+1)
	for key, raw := range d.Foreign {
		out[key] = raw
	}
	for key, entry := range d.Entries {
		out[key] = entry
	}
	if d.Goals != nil {
		out[GoalsKey] = d.Goals
	}
	return json.Marshal(out)
}

// UnmarshalJSON requires a top-level object. Date keys must hold entry
// objects and GoalsKey a goal object; every other key is kept as-is in
// Foreign.
func (d *Document) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("document must be an object, got null")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	doc := NewDocument()
	for key, value := range raw {
		if key == GoalsKey {
			var goals GoalSet
			if err := json.Unmarshal(value, &goals); err != nil {
				return fmt.Errorf("decode %q: %w", key, err)
			}
			doc.Goals = &goals
			continue
		}
		if _, ok := parseKey(key); !ok {
			if doc.Foreign == nil {
				doc.Foreign = make(map[string]json.RawMessage)
			}
			doc.Foreign[key] = append(json.RawMessage(nil), value...)
			continue
		}
		var entry DayEntry
		if err := json.Unmarshal(value, &entry); err != nil {
			return fmt.Errorf("decode entry %q: %w", key, err)
		}
		doc.Entries[key] = entry
	}
	*d = *doc
	return nil
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{Entries: make(map[string]DayEntry, len(d.Entries))}
	for key, e := range d.Entries {
		out.Entries[key] = e.clone()
	}
	if d.Goals != nil {
		g := *d.Goals
		out.Goals = &g
	}
	if d.Foreign != nil {
		out.Foreign = make(map[string]json.RawMessage, len(d.Foreign))
		for key, raw := range d.Foreign {
			out.Foreign[key] = append(json.RawMessage(nil), raw...)
		}
	}
	return out
}
