package extractor

import (
	"fmt"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// scannedThreshold is the number of non-whitespace characters the probed
// text layer must yield before it can count as native text.
const scannedThreshold = 50

// IsScanned reports whether the document is image-only. It inspects the
// native text of the first two pages: the document counts as native only
// when that text passes the readability gate (enough characters, decoded
// ASCII, at least one slip word). Any inspection error classifies the
// document as scanned: the OCR path is slower but handles everything,
// including custom-font PDFs whose text layer decodes to mojibake.
func (s *PDFSource) IsScanned(filePath string) bool {
	scanned, err := probeTextLayer(filePath)
	if err != nil {
		s.Log.Warn("could not classify document, assuming scanned",
			zap.String("file", filePath), zap.Error(err))
		return true
	}
	if scanned {
		s.Log.Debug("document classified as scanned", zap.String("file", filePath))
	} else {
		s.Log.Debug("document classified as native text", zap.String("file", filePath))
	}
	return scanned
}

func probeTextLayer(filePath string) (scanned bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	limit := r.NumPage()
	if limit > 2 {
		limit = 2
	}
	var texts []string
	for i := 1; i <= limit; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		texts = append(texts, pageText(page))
	}
	return !isReadableText(texts), nil
}
