package payload

import (
	"encoding/json"
	"testing"
)

func TestParseValidJSON(t *testing.T) {
	raw := `{"subject": "call", "host_email": "a@b.com"}`
	p := Parse(raw)

	if p.Empty() {
		t.Fatal("valid JSON should not parse to an empty payload")
	}
	if p.HostEmail() != "a@b.com" {
		t.Errorf("HostEmail = %q, want %q", p.HostEmail(), "a@b.com")
	}

	// An already-valid payload must come back unchanged.
	var want map[string]any
	if err := json.Unmarshal([]byte(raw), &want); err != nil {
		t.Fatal(err)
	}
	if len(p) != len(want) {
		t.Errorf("parsed %d fields, want %d", len(p), len(want))
	}
}

func TestParseTruncated(t *testing.T) {
	// Missing closing brace: recovery must trim back past the unterminated
	// trailing field and still yield valid structure.
	p := Parse(`{"subject": "call", "host_email": "a@b.com"`)

	if got := str(p["subject"]); got != "call" && !p.Empty() {
		t.Errorf("recovered payload has subject %q, want %q or empty payload", got, "call")
	}
	// Whatever was recovered, it must be usable structure, not a crash.
	_ = p.HostEmail()
	_ = p.Speakers()
}

func TestParseTruncatedMidList(t *testing.T) {
	p := Parse(`{"speakers": [{"name": "Jane Doe"}], "participants": ["a@b.com", "c@d`)
	speakers := p.Speakers()
	if len(speakers) != 0 {
		// Recovery by prefix trimming cannot keep an unterminated list, so the
		// only valid outcomes are an empty payload or one without the tail.
		t.Errorf("unexpected speakers recovered from unterminated payload: %v", speakers)
	}
}

func TestParseTrailingGarbage(t *testing.T) {
	// The common corruption: a complete object followed by stray brackets or a
	// cut-off second value. The longest valid prefix wins.
	tests := []struct {
		raw     string
		subject string
	}{
		{`{"subject": "call"}]}`, "call"},
		{`{"subject": "call"}{"subject": "sec`, "call"},
		{`{"subject": "call"}   `, "call"},
	}

	for _, test := range tests {
		p := Parse(test.raw)
		if got := str(p["subject"]); got != test.subject {
			t.Errorf("Parse(%q): subject = %q, want %q", test.raw, got, test.subject)
		}
	}
}

func TestParseUnrecoverable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"whitespace", "   \t\n"},
		{"garbage", "not json at all"},
		{"lone brace", "}"},
	}

	for _, test := range tests {
		p := Parse(test.raw)
		if !p.Empty() {
			t.Errorf("%s: Parse(%q) = %v, want empty payload", test.name, test.raw, p)
		}
	}
}

func TestParseNonObject(t *testing.T) {
	// Valid JSON that is not an object carries no usable fields.
	for _, raw := range []string{`[1, 2, 3]`, `"hello"`, `42`, `null`} {
		p := Parse(raw)
		if !p.Empty() {
			t.Errorf("Parse(%q) = %v, want empty payload", raw, p)
		}
	}
}

func TestParseTrimsWhitespace(t *testing.T) {
	p := Parse("  \n {\"host_email\": \"x@y.com\"} \t ")
	if p.HostEmail() != "x@y.com" {
		t.Errorf("HostEmail = %q, want %q", p.HostEmail(), "x@y.com")
	}
}

func TestAccessorsWrongTypes(t *testing.T) {
	// Wrong-typed fields must yield typed defaults, never panic.
	p := Parse(`{"speakers": "not a list", "participants": 7, "meeting_attendees": [1, {"email": "a@b.com"}], "host_email": 99}`)

	if got := p.Speakers(); got != nil {
		t.Errorf("Speakers = %v, want nil", got)
	}
	if got := p.Participants(); got != nil {
		t.Errorf("Participants = %v, want nil", got)
	}
	attendees := p.Attendees()
	if len(attendees) != 1 || attendees[0].Email != "a@b.com" {
		t.Errorf("Attendees = %v, want one entry for a@b.com", attendees)
	}
	if p.HostEmail() != "" {
		t.Errorf("HostEmail = %q, want empty", p.HostEmail())
	}
}

func TestAccessorsFullPayload(t *testing.T) {
	p := Parse(`{
		"speakers": [{"name": "Jane Doe"}, {"name": "Bob Lee"}],
		"meeting_attendees": [{"email": "jane@x.com", "name": "Jane Doe", "location": "NYC", "displayName": "Jane", "phoneNumber": "555"}],
		"participants": ["jane@x.com", "bob@x.com"],
		"host_email": "jane@x.com",
		"organizer_email": "bob@x.com"
	}`)

	if got := len(p.Speakers()); got != 2 {
		t.Errorf("len(Speakers) = %d, want 2", got)
	}
	attendees := p.Attendees()
	if len(attendees) != 1 {
		t.Fatalf("len(Attendees) = %d, want 1", len(attendees))
	}
	a := attendees[0]
	if a.Email != "jane@x.com" || a.Name != "Jane Doe" || a.Location != "NYC" || a.DisplayName != "Jane" || a.PhoneNumber != "555" {
		t.Errorf("unexpected attendee: %+v", a)
	}
	if got := p.Participants(); len(got) != 2 || got[0] != "jane@x.com" {
		t.Errorf("Participants = %v", got)
	}
	if p.OrganizerEmail() != "bob@x.com" {
		t.Errorf("OrganizerEmail = %q", p.OrganizerEmail())
	}
}
