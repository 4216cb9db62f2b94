package identity

import (
	"testing"

	"starmill/internal/payload"
)

func TestNormalizeSpeakers(t *testing.T) {
	speakers := []payload.Speaker{
		{Name: "  Jane Doe  "},
		{Name: "Bob"},
		{Name: ""},
		{Name: "   "},
		{Name: "Anna Maria van der Berg"},
	}

	got := NormalizeSpeakers(speakers)
	if len(got) != 3 {
		t.Fatalf("normalized %d speakers, want 3", len(got))
	}

	if got[0].FullName != "Jane Doe" || got[0].First != "jane" || got[0].Last != "doe" {
		t.Errorf("unexpected first speaker: %+v", got[0])
	}
	// Single-token names use the same token for first and last.
	if got[1].First != "bob" || got[1].Last != "bob" {
		t.Errorf("unexpected single-token speaker: %+v", got[1])
	}
	if got[2].First != "anna" || got[2].Last != "berg" {
		t.Errorf("unexpected multi-token speaker: %+v", got[2])
	}
}

func TestInferNameScoring(t *testing.T) {
	speakers := NormalizeSpeakers([]payload.Speaker{
		{Name: "Jane Doe"},
		{Name: "Bob Lee"},
	})

	tests := []struct {
		email string
		want  string // "" means no match expected
	}{
		{"j.doe@x.com", "Jane Doe"}, // only "doe" matches -> score 1, still wins
		{"jane.doe@x.com", "Jane Doe"},
		{"bob_lee@x.com", "Bob Lee"},
		{"nobody@x.com", ""},
		{"", ""},
	}

	for _, test := range tests {
		ctx := NewResolutionContext()
		got, ok := InferName(test.email, speakers, ctx)
		if test.want == "" {
			if ok {
				t.Errorf("InferName(%q) = %q, want no match", test.email, got)
			}
			continue
		}
		if !ok || got != test.want {
			t.Errorf("InferName(%q) = %q, %v; want %q", test.email, got, ok, test.want)
		}
	}
}

func TestInferNameLocalPartStripping(t *testing.T) {
	// "jane_doe" strips to "janedoe", which contains both name tokens.
	speakers := NormalizeSpeakers([]payload.Speaker{{Name: "Jane Doe"}})

	ctx := NewResolutionContext()
	name, ok := InferName("jane_doe@x.com", speakers, ctx)
	if !ok || name != "Jane Doe" {
		t.Fatalf("InferName(jane_doe@x.com) = %q, %v", name, ok)
	}
}

func TestInferNameClaimOrder(t *testing.T) {
	// A name can be selected by at most one email across a run: the email
	// processed first claims its best match and later emails fall through.
	speakers := NormalizeSpeakers([]payload.Speaker{{Name: "Jane Doe"}})
	ctx := NewResolutionContext()

	first, ok := InferName("jane.doe@x.com", speakers, ctx)
	if !ok || first != "Jane Doe" {
		t.Fatalf("first email: got %q, %v", first, ok)
	}

	second, ok := InferName("janedoe2@x.com", speakers, ctx)
	if ok {
		t.Errorf("second email claimed %q, want no match after name was taken", second)
	}

	if !ctx.Claimed("Jane Doe") {
		t.Error("Jane Doe should be recorded as claimed")
	}
}

func TestInferNamePrefersHigherScore(t *testing.T) {
	speakers := NormalizeSpeakers([]payload.Speaker{
		{Name: "Jane Smith"}, // only "jane" matches: score 1
		{Name: "Jane Doe"},   // "jane" and "doe" match: score 2
	})

	ctx := NewResolutionContext()
	name, ok := InferName("jane.doe@x.com", speakers, ctx)
	if !ok || name != "Jane Doe" {
		t.Errorf("InferName = %q, %v; want Jane Doe", name, ok)
	}
}

func TestInferNameTieBreak(t *testing.T) {
	// Same score: reverse-lexicographic full name wins, deterministically.
	speakers := NormalizeSpeakers([]payload.Speaker{
		{Name: "Ann Lee"},
		{Name: "Zoe Lee"},
	})

	ctx := NewResolutionContext()
	name, ok := InferName("lee@x.com", speakers, ctx)
	if !ok || name != "Zoe Lee" {
		t.Errorf("InferName = %q, %v; want Zoe Lee", name, ok)
	}
}

func TestInferNameSkipsClaimed(t *testing.T) {
	speakers := NormalizeSpeakers([]payload.Speaker{
		{Name: "Jane Doe"},
		{Name: "Jane Smith"},
	})

	ctx := NewResolutionContext()
	ctx.Claim("Jane Doe")

	name, ok := InferName("jane.doe@x.com", speakers, ctx)
	if !ok || name != "Jane Smith" {
		t.Errorf("InferName = %q, %v; want fallback to Jane Smith", name, ok)
	}
}
