// Package extractor turns PDF documents into per-page raw text. Native-text
// documents go through the PDF library; image-only scans are rasterized and
// recognized with Tesseract. Both paths produce the same Page values, so the
// rest of the pipeline never cares which one ran.
package extractor

import (
	"fmt"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Page is one page of raw text, with its 1-based page number preserved even
// when sibling pages fail to extract.
type Page struct {
	Num  int
	Text string
}

// PDFSource extracts text from PDF files on disk. It implements the page
// source contract consumed by the document processor.
type PDFSource struct {
	DPI  int
	Lang string
	Log  *zap.Logger
}

// NewPDFSource builds a source with the given rasterization resolution and
// Tesseract language.
func NewPDFSource(dpi int, lang string, log *zap.Logger) *PDFSource {
	return &PDFSource{DPI: dpi, Lang: lang, Log: log}
}

// NativeText extracts the text layer of every page. It tries the structured
// library first and falls back to the external pdftotext command for PDFs
// the library cannot decode. Each method's output must pass the readability
// gate; garbage from identity-encoded fonts is never returned, so such
// documents fall through to the OCR path instead.
func (s *PDFSource) NativeText(filePath string) ([]Page, error) {
	pages, libErr := s.extractWithLibrary(filePath)
	if libErr == nil && isReadableText(pageTexts(pages)) {
		return pages, nil
	}

	pages, popplerErr := s.extractWithPdftotext(filePath)
	if popplerErr == nil && isReadableText(pageTexts(pages)) {
		return pages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("native text extraction failed: %v", libErr)
	}
	return nil, fmt.Errorf("no readable text layer could be extracted from %s", filePath)
}

// extractWithLibrary uses ledongthuc/pdf, trying per-page row extraction
// first and plain text second. The library panics on some malformed files,
// so the whole walk runs under a recover guard.
func (s *PDFSource) extractWithLibrary(filePath string) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := pageText(page)
		if text != "" {
			pages = append(pages, Page{Num: i, Text: text})
		}
	}
	return pages, nil
}

// pageText extracts one page's text, preferring row-based extraction (best
// layout preservation for the F24 grid) and falling back to coordinate
// reconstruction and then plain text. Each method's output is accepted only
// when it clears the ASCII quality bar; custom-font mojibake fails it and
// the next method gets its turn.
func pageText(page pdf.Page) string {
	if rows, err := page.GetTextByRow(); err == nil {
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		if text := strings.Join(lines, "\n"); len(lines) > 0 && textQuality(text) > readableQualityMin {
			return text
		}
	}

	if text := textFromContent(page); text != "" && textQuality(text) > readableQualityMin {
		return text
	}

	fontNames := page.Fonts()
	fonts := make(map[string]*pdf.Font)
	for _, name := range fontNames {
		f := page.Font(name)
		fonts[name] = &f
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	text = strings.TrimSpace(text)
	if textQuality(text) <= readableQualityMin {
		return ""
	}
	return text
}

// pageTexts flattens pages to their raw text for the readability gate.
func pageTexts(pages []Page) []string {
	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		texts = append(texts, p.Text)
	}
	return texts
}

// readableQualityMin is the minimum ratio of plain ASCII characters for text
// to count as decoded rather than mojibake.
const readableQualityMin = 0.6

// textQuality returns the ratio of basic ASCII readable characters (a-z,
// A-Z, 0-9, common punctuation, whitespace) to total characters. The check
// is deliberately strict ASCII: unicode.IsLetter matches the accented
// garbage that identity-encoded fonts produce.
func textQuality(s string) float64 {
	total := 0
	readable := 0
	for _, r := range s {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
			r == '.' || r == ',' || r == '-' || r == '/' || r == ':' ||
			r == ';' || r == '(' || r == ')' || r == '\'' || r == '"' ||
			r == '€' || r == '%' || r == '&' || r == '@' || r == '#' ||
			r == '!' || r == '?' || r == '+' || r == '=' || r == '*' {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// slipWords appear on virtually every F24 slip or its bank stamp. Extracted
// text containing none of them is almost certainly garbage.
var slipWords = []string{
	"modello", "f24", "codice fiscale", "delega", "euro", "saldo",
	"contribuente", "versamento", "pagamento", "importo", "totale",
	"banca", "agenzia", "abi", "cab", "sezione",
}

func containsSlipWords(texts []string) bool {
	combined := strings.ToLower(strings.Join(texts, " "))
	for _, word := range slipWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText checks that the pages carry enough text, that it is decoded
// rather than binary garbage, and that it mentions at least one word an F24
// slip would contain.
func isReadableText(texts []string) bool {
	total := 0
	for _, t := range texts {
		total += nonSpaceLen(t)
	}
	if total <= scannedThreshold {
		return false
	}
	if textQuality(strings.Join(texts, " ")) <= readableQualityMin {
		return false
	}
	return containsSlipWords(texts)
}

// textFromContent reconstructs rows from raw text objects by grouping on the
// Y coordinate and sorting by X. Large X gaps become column separators so
// the tabular parts of the slip stay aligned.
func textFromContent(page pdf.Page) string {
	content := page.Content()
	if len(content.Text) == 0 {
		return ""
	}

	type textItem struct {
		x float64
		s string
	}
	rowMap := make(map[int][]textItem)
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		yKey := int(math.Round(t.Y))
		rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
	}

	yKeys := make([]int, 0, len(rowMap))
	for y := range rowMap {
		yKeys = append(yKeys, y)
	}
	// PDF Y grows bottom-to-top
	sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

	var lines []string
	for _, y := range yKeys {
		items := rowMap[y]
		sort.Slice(items, func(a, b int) bool {
			return items[a].x < items[b].x
		})

		var parts []string
		var prevX float64
		for j, item := range items {
			if j > 0 && item.x-prevX > 15 {
				parts = append(parts, "  ")
			}
			parts = append(parts, item.s)
			prevX = item.x
		}
		line := strings.TrimSpace(strings.Join(parts, ""))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// extractWithPdftotext shells out to poppler-utils, one page at a time so
// page numbers survive. When the page count is unknown (pdfinfo missing or
// unparseable) the whole document is extracted in one pass and split on the
// form feeds pdftotext emits between pages.
func (s *PDFSource) extractWithPdftotext(filePath string) ([]Page, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %v", err)
	}

	var pages []Page
	for i := 1; i <= pdfPageCount(filePath); i++ {
		n := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", n, "-l", n, filePath, "-").Output()
		if err != nil {
			s.Log.Warn("pdftotext failed for page",
				zap.String("file", filePath), zap.Int("page", i), zap.Error(err))
			continue
		}
		text := strings.TrimSpace(string(out))
		if text != "" {
			pages = append(pages, Page{Num: i, Text: text})
		}
	}

	if len(pages) == 0 {
		out, err := exec.Command("pdftotext", "-layout", filePath, "-").Output()
		if err != nil {
			return nil, fmt.Errorf("pdftotext failed: %v", err)
		}
		pages = splitFormFeeds(string(out))
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no output for %s", filePath)
	}
	return pages, nil
}

// splitFormFeeds turns whole-document pdftotext output into pages, keeping
// 1-based numbering even across blank pages.
func splitFormFeeds(text string) []Page {
	var pages []Page
	for i, chunk := range strings.Split(text, "\f") {
		t := strings.TrimSpace(chunk)
		if t != "" {
			pages = append(pages, Page{Num: i + 1, Text: t})
		}
	}
	return pages
}

// pdfPageCount asks pdfinfo for the page count; 0 when unavailable.
func pdfPageCount(filePath string) int {
	out, err := exec.Command("pdfinfo", filePath).Output()
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err == nil {
				return n
			}
		}
	}
	return 0
}

// nonSpaceLen counts the non-whitespace characters of s.
func nonSpaceLen(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
