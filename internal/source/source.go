// Package source loads raw communication batches from tabular sources. Both
// loaders return records in stable storage order, which the pipeline depends
// on for reproducible surrogate keys and name claims.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"starmill/internal/star"
)

// Warning is a non-fatal issue encountered while loading a row.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result carries the loaded batch plus any per-row warnings.
type Result struct {
	Records  []star.RawRecord
	Warnings []Warning
}

// The columns a source must provide. Extra columns are ignored.
var requiredColumns = []string{"id", "raw_content"}

// Load reads a batch from path, dispatching on extension: .csv is a CSV file,
// anything else is treated as a SQLite database with a raw-records table.
func Load(path, table string) (*Result, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return LoadCSV(path)
	}
	return LoadSQLite(path, table)
}

func missingColumns(have map[string]bool) error {
	for _, col := range requiredColumns {
		if !have[col] {
			return fmt.Errorf("source is missing required column %q", col)
		}
	}
	return nil
}
