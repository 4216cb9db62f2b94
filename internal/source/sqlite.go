package source

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"starmill/internal/star"
)

// DefaultTable is the raw-records table read when none is configured.
const DefaultTable = "raw_communications"

// LoadSQLite reads a raw-records batch from a table in a SQLite database.
// Rows come back in rowid order so repeated runs see the same source order.
func LoadSQLite(path, table string) (*Result, error) {
	if table == "" {
		table = DefaultTable
	}
	if !validTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}

	rows, err := db.Query(fmt.Sprintf(`
		SELECT id, raw_content, comm_type, subject, calendar_id,
			audio_url, video_url, transcript_url, title, duration,
			host_email, organizer_email, ingested_at, processed_at, is_processed
		FROM %s
		ORDER BY rowid
	`, table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	result := &Result{}
	for rows.Next() {
		var (
			id, rawContent                                   sql.NullString
			commType, subject, calendarID                    sql.NullString
			audioURL, videoURL, transcriptURL, title         sql.NullString
			duration                                         sql.NullFloat64
			hostEmail, organizerEmail, ingestedAt, processed sql.NullString
			isProcessed                                      sql.NullBool
		)
		if err := rows.Scan(&id, &rawContent, &commType, &subject, &calendarID,
			&audioURL, &videoURL, &transcriptURL, &title, &duration,
			&hostEmail, &organizerEmail, &ingestedAt, &processed, &isProcessed); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec := star.RawRecord{
			ID:             id.String,
			RawContent:     rawContent.String,
			CommType:       nullable(commType),
			Subject:        nullable(subject),
			CalendarID:     nullable(calendarID),
			AudioURL:       nullable(audioURL),
			VideoURL:       nullable(videoURL),
			TranscriptURL:  nullable(transcriptURL),
			Title:          nullable(title),
			HostEmail:      nullable(hostEmail),
			OrganizerEmail: nullable(organizerEmail),
			IngestedAt:     nullable(ingestedAt),
			ProcessedAt:    nullable(processed),
		}
		if duration.Valid {
			d := duration.Float64
			rec.Duration = &d
		}
		if isProcessed.Valid {
			b := isProcessed.Bool
			rec.IsProcessed = &b
		}

		result.Records = append(result.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func validTableName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return name != ""
}
