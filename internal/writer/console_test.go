package writer

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bancadelta/f24-reconciler/internal/models"
)

func testResult() *models.Result {
	return &models.Result{
		RunID:     "test-run",
		Timestamp: time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC),
		Ledger: &models.LedgerSnapshot{
			Date: "15/03/2024",
			Branches: map[string]models.BranchTotals{
				"36320": {Count: 2, Total: 350.00},
				"36270": {Count: 1, Total: 100.00},
			},
			GrandTotal: &models.BranchTotals{Count: 3, Total: 450.00},
		},
		Records: []models.PaymentRecord{
			{Document: "a.pdf", Page: 1, CAB: "36320", TaxCode: "RSSMRA85T10A562S", Amount: 200.00},
			{Document: "a.pdf", Page: 2, CAB: "36320", Amount: 150.00},
			{Document: "b.pdf", Page: 1, CAB: "36270", Amount: 175.00},
		},
		Matches: 1,
		Discrepancies: []models.Discrepancy{
			{
				CAB:       "36270",
				Ledger:    models.BranchTotals{Count: 1, Total: 100.00},
				Extracted: models.BranchTotals{Count: 1, Total: 175.00},
				Records: []models.PaymentRecord{
					{Document: "b.pdf", Page: 1, CAB: "36270", Amount: 175.00},
				},
			},
		},
		Stats: models.Stats{
			BranchesAnalyzed: 2,
			RecordsExtracted: 3,
			ExtractedTotal:   525.00,
			LedgerTotal:      450.00,
		},
	}
}

func TestConsoleWrite(t *testing.T) {
	w := &ConsoleWriter{MaxDetail: 10}

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, testResult()))
	out := buf.String()

	assert.Contains(t, out, "RICONCILIAZIONE F24 CARTACEE")
	assert.Contains(t, out, "Data tabulato: 15/03/2024")
	assert.Contains(t, out, "Totale atteso: 3 deleghe, €450.00")
	assert.Contains(t, out, "CONFRONTO PER CAB")
	assert.Contains(t, out, "RIEPILOGO")
	assert.Contains(t, out, "CAB corrispondenti:    1")
	assert.Contains(t, out, "CAB con discrepanze:   1")
	assert.Contains(t, out, "DETTAGLIO DISCREPANZE")
	assert.Contains(t, out, "CAB 36270:")
	assert.Contains(t, out, "€+75.00")
}

func TestConsoleVerdictColumns(t *testing.T) {
	w := &ConsoleWriter{MaxDetail: 10}

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, testResult()))
	out := buf.String()

	// One matching branch, one discrepant.
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "DIFF")
}

func TestConsoleMissingTaxCodePlaceholder(t *testing.T) {
	w := &ConsoleWriter{MaxDetail: 10}

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, testResult()))
	assert.NotContains(t, buf.String(), "CF N/D")

	res := testResult()
	res.Discrepancies[0].Records[0].TaxCode = ""
	buf.Reset()
	require.NoError(t, w.Write(&buf, res))
	assert.Contains(t, buf.String(), "CF N/D")
}

func TestConsoleDetailTruncation(t *testing.T) {
	w := &ConsoleWriter{MaxDetail: 3}

	res := testResult()
	var many []models.PaymentRecord
	for i := 0; i < 8; i++ {
		many = append(many, models.PaymentRecord{
			Document: fmt.Sprintf("doc_%d.pdf", i), Page: 1, CAB: "36270", Amount: 10,
		})
	}
	res.Discrepancies[0].Records = many

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, res))
	assert.Contains(t, buf.String(), "... e altre 5 deleghe")
}

func TestConsoleNoDiscrepancySection(t *testing.T) {
	w := &ConsoleWriter{MaxDetail: 10}

	res := testResult()
	res.Discrepancies = nil
	res.Matches = 2

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, res))
	assert.NotContains(t, buf.String(), "DETTAGLIO DISCREPANZE")
}
