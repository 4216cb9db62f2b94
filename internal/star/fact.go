package star

// buildFacts joins dimension surrogate keys and resolved user ids back onto
// each source record, one fact row per communication. The source identifier is
// carried through unchanged as communication_id. Any attribute without a
// matching dimension or directory entry keeps a nil foreign key.
func buildFacts(records []RawRecord, s *Schema) []FactRow {
	facts := make([]FactRow, 0, len(records))

	for _, rec := range records {
		f := FactRow{
			CommunicationID: rec.ID,
			Title:           rec.Title,
			Duration:        rec.Duration,
			HostEmail:       rec.HostEmail,
			OrganizerEmail:  rec.OrganizerEmail,
			IngestedAt:      rec.IngestedAt,
			ProcessedAt:     rec.ProcessedAt,
			IsProcessed:     rec.IsProcessed,
		}

		f.CommTypeID = joinKey(s.CommType, rec.CommType)
		f.SubjectID = joinKey(s.Subject, rec.Subject)
		f.CalendarID = joinKey(s.Calendar, rec.CalendarID)
		f.AudioID = joinKey(s.Audio, rec.AudioURL)
		f.VideoID = joinKey(s.Video, rec.VideoURL)
		f.TranscriptID = joinKey(s.Transcript, rec.TranscriptURL)
		f.HostID = joinUser(s.Users, rec.HostEmail)
		f.OrganizerID = joinUser(s.Users, rec.OrganizerEmail)

		facts = append(facts, f)
	}

	return facts
}

func joinKey(d *Dimension, v *string) *int {
	if id, ok := d.Key(v); ok {
		return &id
	}
	return nil
}

func joinUser(dir *Directory, email *string) *int {
	if email == nil {
		return nil
	}
	if u, ok := dir.Lookup(*email); ok {
		id := u.ID
		return &id
	}
	return nil
}
