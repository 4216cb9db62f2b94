package payload

import (
	"encoding/json"
	"strings"
)

// Payload is the structured object recovered from a record's raw_content.
// Fields are accessed through typed accessors that return empty defaults for
// missing or wrong-typed values, so downstream stages never see raw JSON shapes.
type Payload map[string]any

// Speaker is one entry of the payload's "speakers" list.
type Speaker struct {
	Name string
}

// Attendee is one entry of the payload's "meeting_attendees" list.
type Attendee struct {
	Email       string
	Name        string
	Location    string
	DisplayName string
	PhoneNumber string
}

// Parse recovers a payload object from a string that should be JSON but may be
// truncated mid-stream. It first attempts a strict parse of the trimmed string;
// on failure it retries every strict prefix from longest to shortest and takes
// the first one that parses. The unparseable tail is dropped silently. A string
// with no valid prefix, or one whose valid prefix is not a JSON object, yields
// an empty payload, never an error.
//
// Worst case is O(n²) over the payload length, which is fine for the small
// per-batch payloads this handles.
func Parse(raw string) Payload {
	s := strings.TrimSpace(raw)
	for i := len(s); i > 0; i-- {
		var v any
		if err := json.Unmarshal([]byte(s[:i]), &v); err != nil {
			continue
		}
		if obj, ok := v.(map[string]any); ok {
			return Payload(obj)
		}
		// Valid JSON but not an object (list, scalar): no usable fields.
		return Payload{}
	}
	return Payload{}
}

// Empty reports whether the payload carries no fields at all.
func (p Payload) Empty() bool {
	return len(p) == 0
}

// Speakers returns the payload's speaker descriptors.
func (p Payload) Speakers() []Speaker {
	var out []Speaker
	for _, item := range p.list("speakers") {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Speaker{Name: str(obj["name"])})
	}
	return out
}

// Attendees returns the payload's meeting attendee descriptors.
func (p Payload) Attendees() []Attendee {
	var out []Attendee
	for _, item := range p.list("meeting_attendees") {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Attendee{
			Email:       str(obj["email"]),
			Name:        str(obj["name"]),
			Location:    str(obj["location"]),
			DisplayName: str(obj["displayName"]),
			PhoneNumber: str(obj["phoneNumber"]),
		})
	}
	return out
}

// Participants returns the payload's participant email list. Non-string
// entries are dropped.
func (p Payload) Participants() []string {
	var out []string
	for _, item := range p.list("participants") {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// HostEmail returns the payload's host email, or "".
func (p Payload) HostEmail() string {
	return str(p["host_email"])
}

// OrganizerEmail returns the payload's organizer email, or "".
func (p Payload) OrganizerEmail() string {
	return str(p["organizer_email"])
}

func (p Payload) list(key string) []any {
	items, _ := p[key].([]any)
	return items
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
