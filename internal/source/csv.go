package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"starmill/internal/star"
)

// LoadCSV reads a raw-records batch from a CSV file. Encoding is detected and
// normalized before parsing; mismatched column counts are padded or truncated
// with a warning; empty cells load as null. Row order follows the file.
func LoadCSV(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	decoded, _, err := decodeToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	// Variable field counts are handled below; lazy quotes tolerate the
	// real-world CSV spreadsheet tools emit.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row")
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}

	colIndex := make(map[string]int, len(headers))
	have := make(map[string]bool, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		colIndex[h] = i
		have[h] = true
	}
	if err := missingColumns(have); err != nil {
		return nil, err
	}

	result := &Result{}
	rowNum := 1 // header is row 1

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++

		if err != nil {
			result.Warnings = append(result.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}

		if len(row) != len(headers) {
			if len(row) < len(headers) {
				result.Warnings = append(result.Warnings, Warning{
					Row:     rowNum,
					Message: fmt.Sprintf("row has %d columns, expected %d; padding", len(row), len(headers)),
				})
				padded := make([]string, len(headers))
				copy(padded, row)
				row = padded
			} else {
				result.Warnings = append(result.Warnings, Warning{
					Row:     rowNum,
					Message: fmt.Sprintf("row has %d columns, expected %d; truncating", len(row), len(headers)),
				})
				row = row[:len(headers)]
			}
		}

		cell := func(name string) string {
			i, ok := colIndex[name]
			if !ok {
				return ""
			}
			return row[i]
		}
		optCell := func(name string) *string {
			if v := cell(name); v != "" {
				return &v
			}
			return nil
		}

		rec := star.RawRecord{
			ID:             cell("id"),
			RawContent:     cell("raw_content"),
			CommType:       optCell("comm_type"),
			Subject:        optCell("subject"),
			CalendarID:     optCell("calendar_id"),
			AudioURL:       optCell("audio_url"),
			VideoURL:       optCell("video_url"),
			TranscriptURL:  optCell("transcript_url"),
			Title:          optCell("title"),
			HostEmail:      optCell("host_email"),
			OrganizerEmail: optCell("organizer_email"),
			IngestedAt:     optCell("ingested_at"),
			ProcessedAt:    optCell("processed_at"),
		}

		if v := cell("duration"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				result.Warnings = append(result.Warnings, Warning{
					Row:     rowNum,
					Message: fmt.Sprintf("bad duration %q: %v", v, err),
				})
			} else {
				rec.Duration = &f
			}
		}

		if v := cell("is_processed"); v != "" {
			b, err := parseBool(v)
			if err != nil {
				result.Warnings = append(result.Warnings, Warning{
					Row:     rowNum,
					Message: fmt.Sprintf("bad is_processed %q", v),
				})
			} else {
				rec.IsProcessed = &b
			}
		}

		result.Records = append(result.Records, rec)
	}

	return result, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "t":
		return true, nil
	case "false", "0", "no", "f":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
