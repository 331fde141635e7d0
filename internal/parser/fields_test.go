package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/bancadelta/f24-reconciler/internal/config"
)

func newTestExtractor() *FieldExtractor {
	return NewFieldExtractor(config.Default(), zap.NewNop())
}

func TestExtractFullSlip(t *testing.T) {
	e := newTestExtractor()

	page := `MODELLO F24 - DELEGA IRREVOCABILE
CODICE FISCALE RSSMRA85T10A562S
BANCA DELTA - AG. DI PESEGGIA
ABI: 08749 CAB: 36320
DATA PAGAMENTO: 15/03/2024
SALDO FINALE
EURO + 1.234,56`

	rec := e.Extract(page, "delega_001.pdf", 1)

	assert.Equal(t, "delega_001.pdf", rec.Document)
	assert.Equal(t, 1, rec.Page)
	assert.Equal(t, "RSSMRA85T10A562S", rec.TaxCode)
	assert.Equal(t, 1234.56, rec.Amount)
	assert.Equal(t, "36320", rec.CAB)
	assert.Equal(t, "PESEGGIA", rec.BranchName)
	assert.NotEmpty(t, rec.PaymentDate)
	assert.True(t, rec.HasData())
}

func TestExtractTaxCodeWithOCRNoise(t *testing.T) {
	e := newTestExtractor()

	// S misread for 5 and O for 0 at the numeric positions.
	rec := e.Extract("CODICE FISCALE RSSMRA8ST1OA562S", "x.pdf", 1)
	assert.Equal(t, "RSSMRA85T10A562S", rec.TaxCode)
}

func TestExtractTaxCodeLowercaseFreeText(t *testing.T) {
	e := newTestExtractor()

	// No label, lower case: the bare structural pattern must still hit and
	// normalization upper-cases the result.
	rec := e.Extract("intestatario rssmra85t10a562s delega cartacea", "x.pdf", 1)
	assert.Equal(t, "RSSMRA85T10A562S", rec.TaxCode)
}

func TestExtractAmountPrefersLastMatch(t *testing.T) {
	e := newTestExtractor()

	// The amount appears twice; the canonical value sits near the bottom.
	page := "EURO 100,00 in lettere centoeuro\naltra riga\nEURO 250,00"
	rec := e.Extract(page, "x.pdf", 1)
	assert.Equal(t, 250.00, rec.Amount)
}

func TestExtractAmountSaldoFallback(t *testing.T) {
	e := newTestExtractor()

	// trailing text keeps the end-of-line pattern from firing first
	rec := e.Extract("SALDO (A-B) 542,10 EUR", "x.pdf", 1)
	assert.Equal(t, 542.10, rec.Amount)
}

func TestExtractAmountOutOfRange(t *testing.T) {
	e := newTestExtractor()

	// 5 euro is below the plausible minimum: failure, not clamping.
	rec := e.Extract("EURO + 5,00", "x.pdf", 1)
	assert.Equal(t, 0.0, rec.Amount)
}

func TestExtractCABPrefixWhitelist(t *testing.T) {
	e := newTestExtractor()

	rec := e.Extract("CAB/SPORTELLO: 36320", "x.pdf", 1)
	assert.Equal(t, "36320", rec.CAB)

	// Valid-looking 5-digit code with an out-of-domain prefix is rejected.
	rec = e.Extract("CAB/SPORTELLO: 99999", "x.pdf", 1)
	assert.Empty(t, rec.CAB)
}

func TestExtractBranchNameFallback(t *testing.T) {
	e := newTestExtractor()

	rec := e.Extract("Pagamento presso la filiale di Mogliano", "x.pdf", 1)
	assert.Equal(t, "MOGLIANO", rec.BranchName)
	assert.Equal(t, "61741", rec.CAB)
}

func TestBranchNameDoesNotOverrideCAB(t *testing.T) {
	e := newTestExtractor()

	// A pattern-derived CAB wins over the branch-name mapping.
	page := "CAB/SPORTELLO: 36270\nfiliale di Mogliano"
	rec := e.Extract(page, "x.pdf", 1)
	assert.Equal(t, "36270", rec.CAB)
	assert.Equal(t, "MOGLIANO", rec.BranchName)
}

func TestExtractDateVerbatim(t *testing.T) {
	e := newTestExtractor()

	rec := e.Extract("versato il 12 MAR 2024 allo sportello", "x.pdf", 1)
	assert.Equal(t, "12 MAR 2024", rec.PaymentDate)
}

func TestExtractNothing(t *testing.T) {
	e := newTestExtractor()

	rec := e.Extract("pagina senza alcun dato utile", "vuoto.pdf", 3)
	assert.False(t, rec.HasData())
	assert.Empty(t, rec.TaxCode)
	assert.Equal(t, 0.0, rec.Amount)
	assert.Empty(t, rec.CAB)
}
