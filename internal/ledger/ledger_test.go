package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bancadelta/f24-reconciler/internal/config"
)

func writeTabulato(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tabulato.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleTabulato = `PROCEDURA INCASSI F24 - RIEPILOGO GIORNALIERO
DATA: 15 03 2024

CAB     MINISTERIALI      CORPORATE         CARTACEE
36320   10   1000,00      5   500,00        7   350,00
36270    2    200,00      0     0,00        3   175,50
61741    1    100,00      1   100,00        0     0,00

TOT.:   13   1300,00      6   600,00       10   525,50
`

func TestParseSampleTabulato(t *testing.T) {
	p := NewParser(config.Default(), zap.NewNop())

	snap, err := p.Parse(writeTabulato(t, sampleTabulato))
	require.NoError(t, err)

	assert.Equal(t, "15/03/2024", snap.Date)
	assert.Len(t, snap.Branches, 3)

	// Only the third (paper channel) pair of each row is retained.
	b := snap.Branches["36320"]
	assert.Equal(t, 7, b.Count)
	assert.Equal(t, 350.00, b.Total)

	b = snap.Branches["36270"]
	assert.Equal(t, 3, b.Count)
	assert.Equal(t, 175.50, b.Total)

	// Zero-activity branch still appears, with the unparseable-as-amount
	// 0,00 replaced by zero.
	b = snap.Branches["61741"]
	assert.Equal(t, 0, b.Count)
	assert.Equal(t, 0.0, b.Total)

	require.NotNil(t, snap.GrandTotal)
	assert.Equal(t, 10, snap.GrandTotal.Count)
	assert.Equal(t, 525.50, snap.GrandTotal.Total)
}

func TestParseDuplicateCABLastWins(t *testing.T) {
	p := NewParser(config.Default(), zap.NewNop())

	content := `36320   1   100,00   1   100,00   2   200,00
36320   1   100,00   1   100,00   5   999,00
`
	snap, err := p.Parse(writeTabulato(t, content))
	require.NoError(t, err)

	b := snap.Branches["36320"]
	assert.Equal(t, 5, b.Count)
	assert.Equal(t, 999.00, b.Total)
}

func TestParseOutOfRangeAmountKeepsRow(t *testing.T) {
	p := NewParser(config.Default(), zap.NewNop())

	// 5,00 is below the plausible minimum; the row stays with a zero total
	// so the count mismatch still surfaces at reconciliation.
	content := "36320   1   100,00   1   100,00   4   5,00\n"
	snap, err := p.Parse(writeTabulato(t, content))
	require.NoError(t, err)

	b, ok := snap.Branches["36320"]
	require.True(t, ok)
	assert.Equal(t, 4, b.Count)
	assert.Equal(t, 0.0, b.Total)
}

func TestParseMissingDate(t *testing.T) {
	p := NewParser(config.Default(), zap.NewNop())

	snap, err := p.Parse(writeTabulato(t, "36320   1   100,00   1   100,00   2   200,00\n"))
	require.NoError(t, err)
	assert.Equal(t, DateUnavailable, snap.Date)
	assert.Nil(t, snap.GrandTotal)
}

func TestParseMissingFile(t *testing.T) {
	p := NewParser(config.Default(), zap.NewNop())

	_, err := p.Parse(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseBinaryContent(t *testing.T) {
	p := NewParser(config.Default(), zap.NewNop())

	path := filepath.Join(t.TempDir(), "tabulato.txt")
	require.NoError(t, os.WriteFile(path, []byte("DATA:\x0015 03 2024"), 0o644))

	_, err := p.Parse(path)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseEmptyFile(t *testing.T) {
	p := NewParser(config.Default(), zap.NewNop())

	snap, err := p.Parse(writeTabulato(t, ""))
	require.NoError(t, err)
	assert.Empty(t, snap.Branches)
	assert.Equal(t, DateUnavailable, snap.Date)
}
