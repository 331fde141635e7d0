// Package config holds the immutable runtime configuration for the
// reconciliation pipeline: branch mappings, extraction patterns, OCR
// correction tables and comparison tolerances. A Config is built once at
// startup and passed by reference into each component; nothing mutates it
// afterwards.
package config

import "regexp"

// BranchMapping associates a branch (filiale) name as it appears on the slip
// stamp with its 5-digit CAB routing code. Order matters: the field extractor
// scans names in declared order and the first hit wins.
type BranchMapping struct {
	Name string
	Code string
}

// Config is the full configuration surface consumed by the core pipeline.
type Config struct {
	// Branches maps branch names to CAB codes, in scan order.
	Branches []BranchMapping

	// ValidCABPrefixes whitelists the first two digits of acceptable CAB
	// codes. A 5-digit candidate outside this set is rejected.
	ValidCABPrefixes []string

	// AmountMin and AmountMax bound the plausible range for a single slip
	// amount, inclusive. Parses outside the range are treated as failures.
	AmountMin float64
	AmountMax float64

	// OCRCorrections maps letters commonly misread by OCR to the digit they
	// usually stand for. Applied only at the numeric positions of the tax code.
	OCRCorrections map[byte]byte

	// Pattern chains, tried in order; the first usable value wins.
	TaxCodePatterns []*regexp.Regexp
	AmountPatterns  []*regexp.Regexp
	CABPatterns     []*regexp.Regexp
	DatePatterns    []*regexp.Regexp

	// AmountFallback is anchored to the SALDO (A-B) total line and tried
	// only when every general amount pattern fails.
	AmountFallback *regexp.Regexp

	// Tolerance is the maximum absolute difference, in euro, for two totals
	// to be considered equal.
	Tolerance float64

	// OCR parameters for the scanned-document path.
	OCRDPI  int
	OCRLang string

	// MaxDiscrepancyDetail caps how many contributing records the console
	// report prints per discrepant branch. The full list is always kept in
	// the result; only presentation truncates.
	MaxDiscrepancyDetail int
}

// Default returns the stock configuration for the bank's branch network and
// the F24 slip layout.
func Default() *Config {
	return &Config{
		Branches: []BranchMapping{
			{"PESEGGIA", "36320"},
			{"SALZANO", "36270"},
			{"SCORZE", "36321"},
			{"ZERO BRANCO", "36322"},
			{"QUINTO", "36330"},
			{"MOGLIANO", "61741"},
			{"PREGANZIOL", "61742"},
			{"MIRANO", "36280"},
			{"MARTELLAGO", "36290"},
			{"NOALE", "36300"},
		},

		ValidCABPrefixes: []string{"02", "12", "36", "61", "62"},

		AmountMin: 10.0,
		AmountMax: 1000000.0,

		OCRCorrections: map[byte]byte{
			'O': '0',
			'I': '1',
			'S': '5',
			'Z': '2',
			'B': '8',
			'G': '6',
			'Q': '0',
		},

		TaxCodePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)CODICE\s+FISCALE\s+([A-Z0-9]{16})`),
			regexp.MustCompile(`(?i)COD(?:ICE)?\s*(?:FISC(?:ALE)?)?[:\s]+([A-Z0-9]{16})`),
			regexp.MustCompile(`(?i)\b([A-Z]{6}\d{2}[A-Z]\d{2}[A-Z]\d{3}[A-Z])\b`),
		},

		AmountPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)EURO\s*[|:+\s]*?([\d]+[.,][\d]+[.,]?\d*)`),
			regexp.MustCompile(`(?im)EURO\s*\+\s*([\d.,]+)`),
			regexp.MustCompile(`(?m)(\d{1,3}\.?\d{0,3},\d{2})\s*\]?\s*$`),
			regexp.MustCompile(`(?im)TOTALE.*?EURO.*?([\d.,]+)`),
		},
		AmountFallback: regexp.MustCompile(`SALDO\s*\(A-B\)[^\d]*([\d.,]+)`),

		CABPatterns: []*regexp.Regexp{
			// ABI of the bank followed by the CAB, OCR noise tolerated in between
			regexp.MustCompile(`08749\s*[|\sO0]*(\d{5})`),
			regexp.MustCompile(`CAB[/\s]*SPORTELLO\s*[:\s]*(\d{5})`),
			regexp.MustCompile(`(\d{5})\s+[Tt]ratto`),
			regexp.MustCompile(`ABI[:\s]*08749[^\d]*CAB[:\s]*(\d{5})`),
		},

		DatePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(\d{1,2})\s*(GEN|FEB|MAR|APR|MAG|GIU|LUG|AGO|SET|OTT|NOV|DIC)[A-Z]*\.?\s*(\d{4})`),
			regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`),
			regexp.MustCompile(`(?i)DATA\s+PAG(?:AMENTO)?[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
		},

		Tolerance: 0.01,

		OCRDPI:  200,
		OCRLang: "ita",

		MaxDiscrepancyDetail: 10,
	}
}
