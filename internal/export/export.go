// Package export writes finished star-schema tables to a destination. Writers
// accept named tables and write them exactly as given, without reordering rows
// or columns.
package export

import (
	"path/filepath"
	"strings"

	"starmill/internal/star"
)

// Writer writes a set of named tables to a destination.
type Writer interface {
	Write(tables []star.Table) error
}

// For picks a writer for a destination path: a .csv path or extensionless
// path is treated as a directory of CSV files, anything else as a SQLite
// database.
func For(path string) Writer {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" || ext == ".csv" {
		return &CSVWriter{Dir: strings.TrimSuffix(path, ext)}
	}
	return &SQLiteWriter{Path: path}
}
