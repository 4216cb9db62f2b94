package star

import "testing"

func strp(s string) *string { return &s }

func TestBuildDimensionDense(t *testing.T) {
	values := []*string{strp("meeting"), strp("call"), strp("meeting"), strp("email"), strp("call")}
	d := BuildDimension("dim_comm_type", "comm_type", "comm_type_id", values, true)

	if d.Len() != 3 {
		t.Fatalf("Len = %d, want 3", d.Len())
	}

	// Surrogate keys are exactly {1..N} in first-occurrence order.
	wantOrder := []string{"meeting", "call", "email"}
	for i, member := range d.Members {
		if member == nil || *member != wantOrder[i] {
			t.Errorf("member %d = %v, want %q", i, member, wantOrder[i])
		}
		id, ok := d.Key(member)
		if !ok || id != i+1 {
			t.Errorf("Key(%q) = %d, %v; want %d", wantOrder[i], id, ok, i+1)
		}
	}
}

func TestBuildDimensionKeepNull(t *testing.T) {
	values := []*string{nil, strp("call"), nil, strp("meeting")}
	d := BuildDimension("dim_comm_type", "comm_type", "comm_type_id", values, true)

	if d.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (null member kept once)", d.Len())
	}
	if d.Members[0] != nil {
		t.Errorf("first member = %v, want null member at its first-seen position", d.Members[0])
	}
	if id, ok := d.Key(strp("call")); !ok || id != 2 {
		t.Errorf("Key(call) = %d, %v; want 2", id, ok)
	}

	// The null member is a valid row but never a join target.
	if _, ok := d.Key(nil); ok {
		t.Error("Key(nil) must miss: null rows keep an absent surrogate key")
	}
}

func TestBuildDimensionDropNull(t *testing.T) {
	values := []*string{nil, strp("https://a/1"), nil, strp("https://a/2")}
	d := BuildDimension("dim_audio", "audio_url", "audio_id", values, false)

	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (nulls dropped)", d.Len())
	}
	if id, ok := d.Key(strp("https://a/1")); !ok || id != 1 {
		t.Errorf("Key = %d, %v; want 1", id, ok)
	}
}

func TestDimensionKeyMiss(t *testing.T) {
	d := BuildDimension("dim_subject", "subject", "subject_id", []*string{strp("x")}, true)
	if _, ok := d.Key(strp("never seen")); ok {
		t.Error("unknown value must miss, not fabricate a key")
	}
}

func TestBuildDimensionEmpty(t *testing.T) {
	d := BuildDimension("dim_video", "video_url", "video_id", nil, false)
	if d.Len() != 0 {
		t.Errorf("Len = %d, want 0", d.Len())
	}
}
