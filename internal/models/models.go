// Package models defines the value objects flowing through the
// reconciliation pipeline. Everything here is constructed once and passed by
// read-only reference; absent fields use Go zero values ("" / 0), which is
// unambiguous because a parsed amount is always >= the configured minimum.
package models

import "time"

// UnknownBranch is the reserved aggregation bucket for extracted records
// whose CAB code could not be recovered.
const UnknownBranch = "SCONOSCIUTO"

// PaymentRecord is one recognized F24 payment occurrence on one document page.
type PaymentRecord struct {
	Document    string  `json:"file"`
	Page        int     `json:"page"`
	TaxCode     string  `json:"tax_code,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	CAB         string  `json:"cab,omitempty"`
	BranchName  string  `json:"branch_name,omitempty"`
	PaymentDate string  `json:"payment_date,omitempty"`
}

// HasData reports whether the record carries at least one of the two fields
// that make it worth keeping. Records failing this are dropped by the caller.
func (r PaymentRecord) HasData() bool {
	return r.TaxCode != "" || r.Amount != 0
}

// BranchTotals holds the aggregated figures for one CAB code, from either
// the ledger or the extraction side.
type BranchTotals struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// LedgerSnapshot is the parsed representation of the expected-payments
// tabulato. GrandTotal comes from the distinguished TOT.: row and is an
// external check value, never derived from the per-branch entries.
type LedgerSnapshot struct {
	Date       string                  `json:"date"`
	Branches   map[string]BranchTotals `json:"branches"`
	GrandTotal *BranchTotals           `json:"grand_total,omitempty"`
}

// Discrepancy is one branch whose ledger and extracted totals disagree,
// with the full list of contributing records for audit drill-down.
type Discrepancy struct {
	CAB       string          `json:"cab"`
	Ledger    BranchTotals    `json:"ledger"`
	Extracted BranchTotals    `json:"extracted"`
	Records   []PaymentRecord `json:"records"`
}

// Stats carries the aggregate figures accompanying a reconciliation result.
type Stats struct {
	BranchesAnalyzed   int     `json:"branches_analyzed"`
	DocumentsProcessed int     `json:"documents_processed"`
	RecordsExtracted   int     `json:"records_extracted"`
	ExtractedTotal     float64 `json:"extracted_total"`
	LedgerTotal        float64 `json:"ledger_total"`
}

// Result is the full outcome of one reconciliation run.
type Result struct {
	RunID         string          `json:"run_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Ledger        *LedgerSnapshot `json:"ledger"`
	Records       []PaymentRecord `json:"records"`
	Matches       int             `json:"matches"`
	Discrepancies []Discrepancy   `json:"discrepancies"`
	Stats         Stats           `json:"stats"`
}
