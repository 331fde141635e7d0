// Package reconcile compares extracted payment records against the tabulato
// snapshot, branch by branch, under a monetary tolerance. The engine does no
// I/O and has no failure modes of its own: malformed inputs simply show up
// as empty or zero aggregates.
package reconcile

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bancadelta/f24-reconciler/internal/config"
	"github.com/bancadelta/f24-reconciler/internal/models"
)

// Engine holds the comparison tolerance.
type Engine struct {
	tolerance decimal.Decimal
	log       *zap.Logger
}

// NewEngine builds an engine from the configured tolerance.
func NewEngine(cfg *config.Config, log *zap.Logger) *Engine {
	return &Engine{
		tolerance: decimal.NewFromFloat(cfg.Tolerance),
		log:       log,
	}
}

// branchGroup is the transient per-branch aggregate built during one run.
type branchGroup struct {
	records []models.PaymentRecord
	total   decimal.Decimal
}

// Reconcile aggregates records by CAB code and compares every branch that
// shows activity on either side. Records without a CAB go into the reserved
// SCONOSCIUTO bucket rather than being dropped. A branch matches iff the
// counts are equal and the totals differ by strictly less than the
// tolerance; everything else becomes a discrepancy carrying both sides and
// the full contributing record list.
func (e *Engine) Reconcile(ledger *models.LedgerSnapshot, records []models.PaymentRecord) *models.Result {
	groups := make(map[string]*branchGroup)
	extractedTotal := decimal.Zero

	for _, rec := range records {
		cab := rec.CAB
		if cab == "" {
			cab = models.UnknownBranch
		}
		g := groups[cab]
		if g == nil {
			g = &branchGroup{}
			groups[cab] = g
		}
		g.records = append(g.records, rec)
		if rec.Amount != 0 {
			amt := decimal.NewFromFloat(rec.Amount)
			g.total = g.total.Add(amt)
			extractedTotal = extractedTotal.Add(amt)
		}
	}

	codes := make(map[string]struct{})
	for cab := range ledger.Branches {
		codes[cab] = struct{}{}
	}
	for cab := range groups {
		codes[cab] = struct{}{}
	}

	result := &models.Result{
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
		Ledger:    ledger,
		Records:   records,
	}

	for cab := range codes {
		expected := ledger.Branches[cab]

		var got models.BranchTotals
		var contributing []models.PaymentRecord
		if g := groups[cab]; g != nil {
			got = models.BranchTotals{
				Count: len(g.records),
				Total: g.total.InexactFloat64(),
			}
			contributing = g.records
		}

		// No activity claimed by either source: not a match, not a
		// discrepancy, simply absent from the output.
		if expected.Count == 0 && got.Count == 0 {
			continue
		}

		if expected.Count == got.Count && e.withinTolerance(expected.Total, got.Total) {
			result.Matches++
			continue
		}

		result.Discrepancies = append(result.Discrepancies, models.Discrepancy{
			CAB:       cab,
			Ledger:    expected,
			Extracted: got,
			Records:   contributing,
		})
	}

	sort.Slice(result.Discrepancies, func(i, j int) bool {
		return result.Discrepancies[i].CAB < result.Discrepancies[j].CAB
	})

	// Every code either side mentions counts as analyzed, including the
	// zero-activity ones excluded from the verdict lists.
	result.Stats = models.Stats{
		BranchesAnalyzed: len(codes),
		RecordsExtracted: len(records),
		ExtractedTotal:   extractedTotal.InexactFloat64(),
	}
	if ledger.GrandTotal != nil {
		result.Stats.LedgerTotal = ledger.GrandTotal.Total
	}

	e.log.Info("reconciliation complete",
		zap.Int("branches", len(codes)),
		zap.Int("matches", result.Matches),
		zap.Int("discrepancies", len(result.Discrepancies)))

	return result
}

// withinTolerance reports whether two totals differ by strictly less than
// the tolerance. The comparison runs in decimal so accumulated float noise
// from cent sums never flips a verdict.
func (e *Engine) withinTolerance(a, b float64) bool {
	diff := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs()
	return diff.LessThan(e.tolerance)
}
