// Package writer renders a reconciliation result for humans and machines:
// a console summary table, a CSV of all extracted records and a JSON dump of
// the full result structure.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bancadelta/f24-reconciler/internal/models"
)

// CSVWriter exports extracted payment records, one row per record.
type CSVWriter struct{}

// WriteToFile writes the records as CSV to the given path.
func (w *CSVWriter) WriteToFile(path string, records []models.PaymentRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, records)
}

// Write writes the records in CSV format to out.
func (w *CSVWriter) Write(out io.Writer, records []models.PaymentRecord) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	header := []string{"cab", "tax_code", "amount", "payment_date", "branch_name", "file", "page"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.CAB,
			rec.TaxCode,
			formatAmount(rec.Amount),
			rec.PaymentDate,
			rec.BranchName,
			rec.Document,
			strconv.Itoa(rec.Page),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return writer.Error()
}

func formatAmount(amount float64) string {
	if amount == 0 {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
