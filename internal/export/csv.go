package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"starmill/internal/star"
)

// CSVWriter writes each table as <name>.csv inside a directory, creating the
// directory if needed. Null cells become empty fields.
type CSVWriter struct {
	Dir string
}

func (w *CSVWriter) Write(tables []star.Table) error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, table := range tables {
		if err := w.writeTable(table); err != nil {
			return fmt.Errorf("write table %s: %w", table.Name, err)
		}
	}

	return nil
}

func (w *CSVWriter) writeTable(table star.Table) error {
	path := filepath.Join(w.Dir, table.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(table.Columns); err != nil {
		return err
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, cell := range row {
			record[i] = cellString(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Close()
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
