package writer

import (
	"fmt"
	"io"
	"sort"

	"github.com/bancadelta/f24-reconciler/internal/models"
)

const rule = "======================================================================"
const thinRule = "----------------------------------------------------------------------"

// ConsoleWriter renders the human-readable summary report. MaxDetail caps
// how many contributing records are printed per discrepant branch; the
// result itself always keeps the full list.
type ConsoleWriter struct {
	MaxDetail int
}

// Write renders the full report: header, per-branch comparison table,
// summary counts and capped discrepancy detail.
func (w *ConsoleWriter) Write(out io.Writer, res *models.Result) error {
	fmt.Fprintf(out, "\n%s\n", rule)
	fmt.Fprintln(out, "RICONCILIAZIONE F24 CARTACEE")
	fmt.Fprintf(out, "%s\n", rule)
	fmt.Fprintf(out, "Eseguito: %s\n", res.Timestamp.Format("02/01/2006 15:04"))
	fmt.Fprintf(out, "Data tabulato: %s\n", res.Ledger.Date)

	if gt := res.Ledger.GrandTotal; gt != nil {
		fmt.Fprintf(out, "Totale atteso: %d deleghe, €%.2f\n", gt.Count, gt.Total)
	}
	fmt.Fprintf(out, "Totale estratto: %d deleghe\n", len(res.Records))

	w.writeComparison(out, res)
	w.writeSummary(out, res)
	w.writeDiscrepancyDetail(out, res)

	return nil
}

func (w *ConsoleWriter) writeComparison(out io.Writer, res *models.Result) {
	fmt.Fprintf(out, "\n%s\n", rule)
	fmt.Fprintln(out, "CONFRONTO PER CAB")
	fmt.Fprintf(out, "%s\n", rule)

	fmt.Fprintf(out, "\n%-8s %-8s %12s %-8s %12s %-8s\n",
		"CAB", "TXT N.", "TXT €", "PDF N.", "PDF €", "ESITO")
	fmt.Fprintf(out, "%s\n", thinRule)

	extracted := aggregateByCAB(res.Records)

	codes := make(map[string]struct{})
	for cab := range res.Ledger.Branches {
		codes[cab] = struct{}{}
	}
	for cab := range extracted {
		codes[cab] = struct{}{}
	}
	sorted := make([]string, 0, len(codes))
	for cab := range codes {
		sorted = append(sorted, cab)
	}
	sort.Strings(sorted)

	discrepant := make(map[string]bool, len(res.Discrepancies))
	for _, d := range res.Discrepancies {
		discrepant[d.CAB] = true
	}

	for _, cab := range sorted {
		expected := res.Ledger.Branches[cab]
		got := extracted[cab]
		if expected.Count == 0 && got.Count == 0 {
			continue
		}

		verdict := "OK"
		if discrepant[cab] {
			verdict = "DIFF"
		}
		fmt.Fprintf(out, "%-8s %-8d %12.2f %-8d %12.2f %-8s\n",
			cab, expected.Count, expected.Total, got.Count, got.Total, verdict)
	}

	fmt.Fprintf(out, "%s\n", thinRule)
	if gt := res.Ledger.GrandTotal; gt != nil {
		fmt.Fprintf(out, "%-8s %-8d %12.2f %-8d %12.2f\n",
			"TOTALE", gt.Count, gt.Total, len(res.Records), res.Stats.ExtractedTotal)
	}
}

func (w *ConsoleWriter) writeSummary(out io.Writer, res *models.Result) {
	fmt.Fprintf(out, "\n%s\n", rule)
	fmt.Fprintln(out, "RIEPILOGO")
	fmt.Fprintf(out, "%s\n", rule)
	fmt.Fprintf(out, "   CAB corrispondenti:    %d\n", res.Matches)
	fmt.Fprintf(out, "   CAB con discrepanze:   %d\n", len(res.Discrepancies))
}

func (w *ConsoleWriter) writeDiscrepancyDetail(out io.Writer, res *models.Result) {
	if len(res.Discrepancies) == 0 {
		return
	}

	fmt.Fprintf(out, "\n%s\n", rule)
	fmt.Fprintln(out, "DETTAGLIO DISCREPANZE")
	fmt.Fprintf(out, "%s\n", rule)

	for _, d := range res.Discrepancies {
		diffN := d.Extracted.Count - d.Ledger.Count
		diffTot := d.Extracted.Total - d.Ledger.Total

		fmt.Fprintf(out, "\nCAB %s:\n", d.CAB)
		fmt.Fprintf(out, "   Tabulato: %d deleghe, €%.2f\n", d.Ledger.Count, d.Ledger.Total)
		fmt.Fprintf(out, "   PDF:      %d deleghe, €%.2f\n", d.Extracted.Count, d.Extracted.Total)
		fmt.Fprintf(out, "   Diff:     %+d deleghe, €%+.2f\n", diffN, diffTot)

		if len(d.Records) == 0 {
			continue
		}
		fmt.Fprintln(out, "   Deleghe PDF:")
		limit := len(d.Records)
		if w.MaxDetail > 0 && limit > w.MaxDetail {
			limit = w.MaxDetail
		}
		for _, rec := range d.Records[:limit] {
			taxCode := rec.TaxCode
			if taxCode == "" {
				taxCode = "CF N/D"
			}
			fmt.Fprintf(out, "      - %-18s €%10.2f  %s\n", taxCode, rec.Amount, rec.PaymentDate)
		}
		if len(d.Records) > limit {
			fmt.Fprintf(out, "      ... e altre %d deleghe\n", len(d.Records)-limit)
		}
	}
}

// aggregateByCAB rebuilds the per-branch extracted totals for display. This
// mirrors the engine's aggregation but stays presentation-local so the
// writer needs nothing beyond the result itself.
func aggregateByCAB(records []models.PaymentRecord) map[string]models.BranchTotals {
	out := make(map[string]models.BranchTotals)
	for _, rec := range records {
		cab := rec.CAB
		if cab == "" {
			cab = models.UnknownBranch
		}
		agg := out[cab]
		agg.Count++
		agg.Total += rec.Amount
		out[cab] = agg
	}
	return out
}
