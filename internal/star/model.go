// Package star builds a normalized dimensional model from raw communication
// records: dimension tables with dense surrogate keys, a deduplicated user
// directory, one fact row per communication, and a communication/user bridge
// table with role flags. The build is a single in-memory pass; record order is
// significant and preserved end to end.
package star

// RawRecord is one input row. The payload string may be truncated JSON; the
// remaining columns are already flat. Immutable once loaded.
type RawRecord struct {
	ID             string
	RawContent     string
	CommType       *string
	Subject        *string
	CalendarID     *string
	AudioURL       *string
	VideoURL       *string
	TranscriptURL  *string
	Title          *string
	Duration       *float64
	HostEmail      *string
	OrganizerEmail *string
	IngestedAt     *string
	ProcessedAt    *string
	IsProcessed    *bool
}

// User is one row of dim_user, keyed by email. Name is the attendee-supplied
// name when one was seen, else an inferred name, else nil. ID is assigned as a
// 1-based dense index in insertion order once all records are processed.
type User struct {
	Email       string
	Name        *string
	Location    *string
	DisplayName *string
	PhoneNumber *string
	ID          int
}

// FactRow is one row of the fact table: the communication's own identifier,
// foreign keys into every dimension and into dim_user, and scalar attributes.
// A key that failed to join is nil, never a fabricated default.
type FactRow struct {
	CommunicationID string
	CommTypeID      *int
	SubjectID       *int
	CalendarID      *int
	AudioID         *int
	VideoID         *int
	TranscriptID    *int
	HostID          *int
	OrganizerID     *int
	Title           *string
	Duration        *float64
	HostEmail       *string
	OrganizerEmail  *string
	IngestedAt      *string
	ProcessedAt     *string
	IsProcessed     *bool
}

// BridgeRow relates one communication to one participant with independent role
// flags. Identical full tuples are collapsed to a single row.
type BridgeRow struct {
	CommunicationID string
	UserID          int
	IsAttendee      bool
	IsParticipant   bool
	IsSpeaker       bool
	IsOrganizer     bool
}

// Schema is the finished dimensional model for one batch.
type Schema struct {
	CommType   *Dimension
	Subject    *Dimension
	Calendar   *Dimension
	Audio      *Dimension
	Video      *Dimension
	Transcript *Dimension
	Users      *Directory
	Facts      []FactRow
	Bridge     []BridgeRow
	Report     *Report
}
