package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bancadelta/f24-reconciler/internal/models"
)

// RunRepo stores reconciliation runs and their discrepancies.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a run repository on an initialized database.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// Save persists the run summary and every discrepancy in one transaction.
func (r *RunRepo) Save(res *models.Result, documentsProcessed int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var ledgerTotal float64
	if res.Ledger.GrandTotal != nil {
		ledgerTotal = res.Ledger.GrandTotal.Total
	}

	_, err = tx.Exec(
		`INSERT INTO runs
		(id, created_at, ledger_date, documents_processed, records_extracted,
		 branches_analyzed, matches, discrepancies, extracted_total, ledger_total)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		res.RunID, res.Timestamp.Format(time.RFC3339), res.Ledger.Date,
		documentsProcessed, len(res.Records), res.Stats.BranchesAnalyzed,
		res.Matches, len(res.Discrepancies), res.Stats.ExtractedTotal, ledgerTotal,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO run_discrepancies
		(id, run_id, cab, ledger_count, ledger_total, extracted_count, extracted_total)
		VALUES (?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, d := range res.Discrepancies {
		if _, err := stmt.Exec(
			uuid.NewString(), res.RunID, d.CAB,
			d.Ledger.Count, d.Ledger.Total,
			d.Extracted.Count, d.Extracted.Total,
		); err != nil {
			return fmt.Errorf("insert discrepancy for CAB %s: %w", d.CAB, err)
		}
	}

	return tx.Commit()
}

// CountRuns returns the number of stored runs.
func (r *RunRepo) CountRuns() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}
