package star

import (
	"time"

	"github.com/google/uuid"

	"starmill/internal/identity"
	"starmill/internal/payload"
)

const (
	stageUsers  = "users"
	stageBridge = "bridge"
)

// RecordSkip notes a record (or part of one) that contributed nothing to a
// stage, and why. Skips never abort the run.
type RecordSkip struct {
	RecordID string `json:"record_id"`
	Stage    string `json:"stage"`
	Reason   string `json:"reason"`
}

// Report describes one build run. It replaces silent per-record suppression:
// every record that contributed no data is counted and attributable.
type Report struct {
	RunID         string       `json:"run_id"`
	Records       int          `json:"records"`
	EmptyPayloads int          `json:"empty_payloads"`
	Users         int          `json:"users"`
	Facts         int          `json:"facts"`
	BridgeRows    int          `json:"bridge_rows"`
	Skips         []RecordSkip `json:"skips,omitempty"`
	Duration      string       `json:"duration"`
}

func (r *Report) skip(recordID, stage, reason string) {
	r.Skips = append(r.Skips, RecordSkip{RecordID: recordID, Stage: stage, Reason: reason})
}

// Build runs the whole transform over one batch of records, in source order:
// dimensions, then the user directory, then facts, then the bridge table. The
// resolution context is created fresh here and dies with the run; iteration
// order determines surrogate keys, user ids and name claims, so the same input
// in the same order always produces the same output.
func Build(records []RawRecord) *Schema {
	start := time.Now()
	report := &Report{
		RunID:   uuid.New().String(),
		Records: len(records),
	}

	s := &Schema{Report: report}

	s.CommType = BuildDimension("dim_comm_type", "comm_type", "comm_type_id",
		column(records, func(r RawRecord) *string { return r.CommType }), true)
	s.Subject = BuildDimension("dim_subject", "subject", "subject_id",
		column(records, func(r RawRecord) *string { return r.Subject }), true)
	s.Calendar = BuildDimension("dim_calendar", "calendar_id", "calendar_id_surrogate",
		column(records, func(r RawRecord) *string { return r.CalendarID }), false)
	s.Audio = BuildDimension("dim_audio", "audio_url", "audio_id",
		column(records, func(r RawRecord) *string { return r.AudioURL }), false)
	s.Video = BuildDimension("dim_video", "video_url", "video_id",
		column(records, func(r RawRecord) *string { return r.VideoURL }), false)
	s.Transcript = BuildDimension("dim_transcript", "transcript_url", "transcript_id",
		column(records, func(r RawRecord) *string { return r.TranscriptURL }), false)

	// Payloads are parsed once per stage on purpose: the user pass and the
	// bridge pass each work from the record's own recovered data.
	ctx := identity.NewResolutionContext()
	dir := newDirectory()
	for _, rec := range records {
		p := payload.Parse(rec.RawContent)
		if p.Empty() {
			report.EmptyPayloads++
			report.skip(rec.ID, stageUsers, "payload unrecoverable")
			continue
		}
		addRecordUsers(dir, p, ctx)
	}
	dir.assignIDs()
	s.Users = dir

	s.Facts = buildFacts(records, s)

	var bridge []BridgeRow
	for _, rec := range records {
		p := payload.Parse(rec.RawContent)
		if p.Empty() {
			continue // already reported in the users stage
		}
		bridge = append(bridge, recordBridgeRows(rec, p, dir, report)...)
	}
	s.Bridge = dedupeBridge(bridge)

	report.Users = dir.Len()
	report.Facts = len(s.Facts)
	report.BridgeRows = len(s.Bridge)
	report.Duration = time.Since(start).String()

	return s
}

func column(records []RawRecord, get func(RawRecord) *string) []*string {
	out := make([]*string, len(records))
	for i, r := range records {
		out[i] = get(r)
	}
	return out
}
