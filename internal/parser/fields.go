// Package parser recovers structured payment data from raw F24 page text,
// whether natively extracted or OCR-derived. Each field has its own ordered
// pattern chain; fields are extracted independently, so a miss on one never
// blocks another.
package parser

import (
	"strings"

	"go.uber.org/zap"

	"github.com/bancadelta/f24-reconciler/internal/config"
	"github.com/bancadelta/f24-reconciler/internal/models"
)

// FieldExtractor applies the configured pattern chains to page text.
type FieldExtractor struct {
	cfg *config.Config
	log *zap.Logger
}

// NewFieldExtractor builds an extractor bound to the given configuration.
func NewFieldExtractor(cfg *config.Config, log *zap.Logger) *FieldExtractor {
	return &FieldExtractor{cfg: cfg, log: log}
}

// Extract pulls tax code, amount, CAB, branch name and payment date out of
// one page of text. It never fails: fields that cannot be recovered are left
// at their zero value. The caller decides whether the record is worth
// keeping (see models.PaymentRecord.HasData).
func (e *FieldExtractor) Extract(text string, document string, page int) models.PaymentRecord {
	rec := models.PaymentRecord{
		Document: document,
		Page:     page,
	}

	rec.TaxCode = e.extractTaxCode(text)
	rec.Amount = e.extractAmount(text)
	rec.CAB = e.extractCAB(text)
	e.applyBranchName(text, &rec)
	rec.PaymentDate = e.extractDate(text)

	return rec
}

func (e *FieldExtractor) extractTaxCode(text string) string {
	for _, pat := range e.cfg.TaxCodePatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		code := NormalizeTaxCode(m[1], e.cfg.OCRCorrections)
		if code != "" {
			e.log.Debug("tax code found", zap.String("tax_code", code))
			return code
		}
	}
	return ""
}

// extractAmount tries the general patterns in order. When a pattern yields
// several matches on the page, the last one in document order is preferred:
// slips repeat the amount in words earlier and state the canonical numeral
// near the bottom. The SALDO (A-B) line is a dedicated fallback tried only
// when every general pattern fails.
func (e *FieldExtractor) extractAmount(text string) float64 {
	for _, pat := range e.cfg.AmountPatterns {
		matches := pat.FindAllStringSubmatch(text, -1)
		for i := len(matches) - 1; i >= 0; i-- {
			v, ok := ParseAmount(matches[i][1], e.cfg.AmountMin, e.cfg.AmountMax)
			if ok {
				e.log.Debug("amount found", zap.Float64("amount", v))
				return v
			}
		}
	}

	if m := e.cfg.AmountFallback.FindStringSubmatch(text); m != nil {
		v, ok := ParseAmount(m[1], e.cfg.AmountMin, e.cfg.AmountMax)
		if ok {
			e.log.Debug("amount from SALDO line", zap.Float64("amount", v))
			return v
		}
	}

	return 0
}

// extractCAB accepts a 5-digit candidate only when its first two digits
// belong to the regional prefix whitelist; this rejects plausible-looking
// but out-of-domain digit runs (postal codes, protocol numbers).
func (e *FieldExtractor) extractCAB(text string) string {
	for _, pat := range e.cfg.CABPatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := m[1]
		if e.validPrefix(candidate) {
			e.log.Debug("CAB found", zap.String("cab", candidate))
			return candidate
		}
	}
	return ""
}

func (e *FieldExtractor) validPrefix(cab string) bool {
	for _, prefix := range e.cfg.ValidCABPrefixes {
		if strings.HasPrefix(cab, prefix) {
			return true
		}
	}
	return false
}

// applyBranchName scans the page for any configured branch name, in declared
// order; the first hit wins. The mapped CAB is used only when no code was
// already found by the pattern chain.
func (e *FieldExtractor) applyBranchName(text string, rec *models.PaymentRecord) {
	lower := strings.ToLower(text)
	for _, b := range e.cfg.Branches {
		if !strings.Contains(lower, strings.ToLower(b.Name)) {
			continue
		}
		rec.BranchName = b.Name
		if rec.CAB == "" {
			rec.CAB = b.Code
			e.log.Debug("CAB derived from branch name",
				zap.String("branch", b.Name), zap.String("cab", b.Code))
		}
		return
	}
}

// extractDate keeps the first matching pattern's full matched text verbatim.
// The field is informational only and never enters a comparison.
func (e *FieldExtractor) extractDate(text string) string {
	for _, pat := range e.cfg.DatePatterns {
		if m := pat.FindString(text); m != "" {
			e.log.Debug("payment date found", zap.String("date", m))
			return m
		}
	}
	return ""
}
