// Package ledger parses the fixed-layout tabulato produced by the back-office
// batch procedure into expected per-branch counts and totals.
package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/bancadelta/f24-reconciler/internal/config"
	"github.com/bancadelta/f24-reconciler/internal/models"
	"github.com/bancadelta/f24-reconciler/internal/parser"
)

var (
	// ErrNotFound means the tabulato path does not exist.
	ErrNotFound = errors.New("tabulato not found")
	// ErrFormat means the file could not be read as text.
	ErrFormat = errors.New("tabulato unreadable")
)

// DateUnavailable is the sentinel used when the tabulato carries no DATA:
// header line.
const DateUnavailable = "N/D"

var (
	datePattern = regexp.MustCompile(`DATA:\s*(\d{2})\s+(\d{2})\s+(\d{4})`)

	// One data row: 5-digit CAB followed by three (count, amount) pairs for
	// the ministeriali, corporate and cartacee channels. The pattern spans
	// the whole row so a malformed pair invalidates the row shape.
	rowPattern = regexp.MustCompile(
		`(?m)^\s*(\d{5})\s+` +
			`(\d+)\s+([\d.,]+)\s+` +
			`(\d+)\s+([\d.,]+)\s+` +
			`(\d+)\s+([\d.,]+)`)

	// The distinguished grand-total row, same three-channel column shape.
	totalPattern = regexp.MustCompile(
		`TOT\.:\s+\d+\s+[\d.,]+\s+\d+\s+[\d.,]+\s+(\d+)\s+([\d.,]+)`)
)

// Parser reads a tabulato file into a LedgerSnapshot.
type Parser struct {
	cfg *config.Config
	log *zap.Logger
}

// NewParser builds a ledger parser bound to the given configuration.
func NewParser(cfg *config.Config, log *zap.Logger) *Parser {
	return &Parser{cfg: cfg, log: log}
}

// Parse reads and parses the tabulato at path. Only the third (cartacee,
// i.e. paper-channel) pair of each row is retained; the first two pairs are
// matched to validate the row shape and then discarded. A CAB appearing
// twice overwrites its earlier entry: the tabulato is declarative, not
// transactional.
func (p *Parser) Parse(path string) (*models.LedgerSnapshot, error) {
	p.log.Info("parsing tabulato", zap.String("path", path))

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("%w: binary content in %s", ErrFormat, path)
	}
	content := string(data)

	snapshot := &models.LedgerSnapshot{
		Date:     DateUnavailable,
		Branches: make(map[string]models.BranchTotals),
	}

	if m := datePattern.FindStringSubmatch(content); m != nil {
		snapshot.Date = m[1] + "/" + m[2] + "/" + m[3]
	}

	for _, row := range rowPattern.FindAllStringSubmatch(content, -1) {
		cab := row[1]
		count, _ := strconv.Atoi(row[6])

		total, ok := parser.ParseAmount(row[7], p.cfg.AmountMin, p.cfg.AmountMax)
		if !ok {
			p.log.Warn("unparseable amount in tabulato row, using zero",
				zap.String("cab", cab), zap.String("raw", row[7]))
			total = 0
		}

		snapshot.Branches[cab] = models.BranchTotals{Count: count, Total: total}
		p.log.Debug("tabulato row",
			zap.String("cab", cab), zap.Int("count", count), zap.Float64("total", total))
	}

	if m := totalPattern.FindStringSubmatch(content); m != nil {
		count, _ := strconv.Atoi(m[1])
		if total, ok := parser.ParseAmount(m[2], p.cfg.AmountMin, p.cfg.AmountMax); ok {
			snapshot.GrandTotal = &models.BranchTotals{Count: count, Total: total}
		}
	}

	p.log.Info("tabulato parsed",
		zap.Int("branches", len(snapshot.Branches)), zap.String("date", snapshot.Date))

	return snapshot, nil
}
