// Package repository persists reconciliation runs to SQLite for later audit.
// The store is append-only from the pipeline's point of view: the run
// summary and its discrepancies are written once, nothing is read back
// during reconciliation.
package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			ledger_date TEXT NOT NULL,
			documents_processed INTEGER NOT NULL,
			records_extracted INTEGER NOT NULL,
			branches_analyzed INTEGER NOT NULL,
			matches INTEGER NOT NULL,
			discrepancies INTEGER NOT NULL,
			extracted_total REAL NOT NULL,
			ledger_total REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,

		`CREATE TABLE IF NOT EXISTS run_discrepancies (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			cab TEXT NOT NULL,
			ledger_count INTEGER NOT NULL,
			ledger_total REAL NOT NULL,
			extracted_count INTEGER NOT NULL,
			extracted_total REAL NOT NULL,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_discrepancies_run ON run_discrepancies(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_run_discrepancies_cab ON run_discrepancies(cab)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}
