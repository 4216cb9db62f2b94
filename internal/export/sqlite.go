package export

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"starmill/internal/star"
)

// SQLiteWriter writes each table into a SQLite database, one destination table
// per schema table. Existing tables of the same name are replaced so a rebuild
// overwrites the previous output.
type SQLiteWriter struct {
	Path string
}

func (w *SQLiteWriter) Write(tables []star.Table) error {
	db, err := sql.Open("sqlite", w.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// WAL allows concurrent readers while the writer is active; busy_timeout
	// reduces SQLITE_BUSY errors under contention.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("set busy_timeout: %w", err)
	}

	for _, table := range tables {
		if err := w.writeTable(db, table); err != nil {
			return fmt.Errorf("write table %s: %w", table.Name, err)
		}
	}

	return nil
}

func (w *SQLiteWriter) writeTable(db *sql.DB, table star.Table) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, table.Name)); err != nil {
		return fmt.Errorf("drop old table: %w", err)
	}

	defs := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		defs[i] = fmt.Sprintf("%q %s", col, columnType(table, i))
	}
	create := fmt.Sprintf("CREATE TABLE %q (%s)", table.Name, strings.Join(defs, ", "))
	if _, err := tx.Exec(create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(table.Columns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %q VALUES (%s)", table.Name, placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range table.Rows {
		args := make([]any, len(row))
		for i, cell := range row {
			args[i] = sqlValue(cell)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row: %w", err)
		}
	}

	return tx.Commit()
}

// columnType infers a column affinity from the first non-nil cell; columns
// that are entirely null fall back to TEXT.
func columnType(table star.Table, col int) string {
	for _, row := range table.Rows {
		switch row[col].(type) {
		case nil:
			continue
		case int, bool:
			return "INTEGER"
		case float64:
			return "REAL"
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}

func sqlValue(cell any) any {
	if b, ok := cell.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return cell
}
