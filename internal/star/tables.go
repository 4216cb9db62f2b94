package star

// Table is a finished output table handed to an exporter: a name, a column
// list and rows of cell values. Cells are string, int, float64, bool or nil.
// No index or row-number column is ever included.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// FactTableName is the name of the fact sheet in the output destination.
const FactTableName = "fact_communication"

// BridgeTableName is the name of the bridge sheet in the output destination.
const BridgeTableName = "bridge_comm_user"

// UserTableName is the name of the user dimension in the output destination.
const UserTableName = "dim_user"

// Tables flattens the schema into its named output tables, in the order the
// destination expects them. Exporters write them as-is, without reordering.
func (s *Schema) Tables() []Table {
	tables := []Table{
		dimensionTable(s.CommType),
		dimensionTable(s.Subject),
		userTable(s.Users),
		dimensionTable(s.Calendar),
		dimensionTable(s.Audio),
		dimensionTable(s.Video),
		dimensionTable(s.Transcript),
		factTable(s.Facts),
		bridgeTable(s.Bridge),
	}
	return tables
}

func dimensionTable(d *Dimension) Table {
	t := Table{
		Name:    d.Table,
		Columns: []string{d.ValueColumn, d.IDColumn},
	}
	for i, member := range d.Members {
		t.Rows = append(t.Rows, []any{deref(member), i + 1})
	}
	return t
}

func userTable(dir *Directory) Table {
	t := Table{
		Name:    UserTableName,
		Columns: []string{"email", "name", "location", "displayName", "phoneNumber", "user_id"},
	}
	for _, u := range dir.Users {
		t.Rows = append(t.Rows, []any{
			u.Email, deref(u.Name), deref(u.Location), deref(u.DisplayName), deref(u.PhoneNumber), u.ID,
		})
	}
	return t
}

func factTable(facts []FactRow) Table {
	t := Table{
		Name: FactTableName,
		Columns: []string{
			"communication_id", "comm_type_id", "subject_id", "calendar_id_surrogate",
			"audio_id", "video_id", "transcript_id", "host_id", "organizer_id",
			"title", "duration", "host_email", "organizer_email",
			"ingested_at", "processed_at", "is_processed",
		},
	}
	for _, f := range facts {
		t.Rows = append(t.Rows, []any{
			f.CommunicationID, derefInt(f.CommTypeID), derefInt(f.SubjectID), derefInt(f.CalendarID),
			derefInt(f.AudioID), derefInt(f.VideoID), derefInt(f.TranscriptID),
			derefInt(f.HostID), derefInt(f.OrganizerID),
			deref(f.Title), derefFloat(f.Duration), deref(f.HostEmail), deref(f.OrganizerEmail),
			deref(f.IngestedAt), deref(f.ProcessedAt), derefBool(f.IsProcessed),
		})
	}
	return t
}

func bridgeTable(rows []BridgeRow) Table {
	t := Table{
		Name:    BridgeTableName,
		Columns: []string{"communication_id", "user_id", "isAttendee", "isParticipant", "isSpeaker", "isOrganizer"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.CommunicationID, r.UserID, r.IsAttendee, r.IsParticipant, r.IsSpeaker, r.IsOrganizer,
		})
	}
	return t
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func derefInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func derefFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func derefBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
