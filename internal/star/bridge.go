package star

import (
	"starmill/internal/identity"
	"starmill/internal/payload"
)

// recordBridgeRows derives the (communication, participant) bridge rows for
// one record. The payload is reparsed and speakers renormalized from the
// record's own data; the speaker flag however matches against the *globally*
// resolved directory name, so a name inferred from one record's speakers can
// mark a participant as speaker in another record when names coincide. That is
// an acknowledged limit of the heuristic, kept on purpose.
func recordBridgeRows(rec RawRecord, p payload.Payload, dir *Directory, report *Report) []BridgeRow {
	speakers := identity.NormalizeSpeakers(p.Speakers())
	speakerNames := make(map[string]struct{}, len(speakers))
	for _, s := range speakers {
		speakerNames[s.FullName] = struct{}{}
	}

	attendeeEmails := make(map[string]struct{})
	for _, att := range p.Attendees() {
		if att.Email != "" {
			attendeeEmails[att.Email] = struct{}{}
		}
	}
	participantEmails := make(map[string]struct{})
	for _, email := range p.Participants() {
		if email != "" {
			participantEmails[email] = struct{}{}
		}
	}
	organizer := p.OrganizerEmail()

	emails := collectEmails(p)

	// The speaker flag uses resolved names, computed over the full email set
	// before rows are emitted.
	speakerEmails := make(map[string]struct{})
	for _, email := range emails {
		u, ok := dir.Lookup(email)
		if !ok || u.Name == nil {
			continue
		}
		if _, isSpeaker := speakerNames[*u.Name]; isSpeaker {
			speakerEmails[email] = struct{}{}
		}
	}

	var rows []BridgeRow
	for _, email := range emails {
		u, ok := dir.Lookup(email)
		if !ok {
			// Directory building already saw this payload, so a miss means the
			// record changed shape between passes; surface it, don't invent ids.
			report.skip(rec.ID, stageBridge, "email "+email+" missing from user directory")
			continue
		}
		rows = append(rows, BridgeRow{
			CommunicationID: rec.ID,
			UserID:          u.ID,
			IsAttendee:      contains(attendeeEmails, email),
			IsParticipant:   contains(participantEmails, email),
			IsSpeaker:       contains(speakerEmails, email),
			IsOrganizer:     email == organizer,
		})
	}

	return rows
}

// dedupeBridge collapses identical (communication, user, flags) tuples to one
// row, keeping first-seen order.
func dedupeBridge(rows []BridgeRow) []BridgeRow {
	seen := make(map[BridgeRow]struct{}, len(rows))
	out := rows[:0]
	for _, r := range rows {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func contains(set map[string]struct{}, email string) bool {
	_, ok := set[email]
	return ok
}
