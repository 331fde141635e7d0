package parser

import (
	"regexp"
	"strings"
)

// taxCodeShape is the structural form of an Italian codice fiscale:
// 6 letters, 2 digits, 1 letter, 2 digits, 1 letter, 3 digits, 1 letter.
var taxCodeShape = regexp.MustCompile(`^[A-Z]{6}\d{2}[A-Z]\d{2}[A-Z]\d{3}[A-Z]$`)

// numericPositions are the zero-indexed positions of the 16-character code
// that the format requires to be digits. OCR letter/digit confusions are
// corrected only here; the letter positions carry real letters that a
// blanket substitution would corrupt.
var numericPositions = [...]int{6, 7, 9, 10, 12, 13, 14}

// NormalizeTaxCode upper-cases the raw string, strips whitespace, applies
// the OCR correction table at the numeric positions and validates the
// result against the structural shape. It returns the cleaned 16-character
// code, or "" when the input cannot be made to conform. There is no
// best-effort partial result.
func NormalizeTaxCode(raw string, corrections map[byte]byte) string {
	if raw == "" {
		return ""
	}

	cleaned := strings.Join(strings.Fields(strings.ToUpper(raw)), "")
	if len(cleaned) != 16 {
		return ""
	}

	b := []byte(cleaned)
	for _, pos := range numericPositions {
		if repl, ok := corrections[b[pos]]; ok {
			b[pos] = repl
		}
	}

	code := string(b)
	if !taxCodeShape.MatchString(code) {
		return ""
	}
	return code
}
