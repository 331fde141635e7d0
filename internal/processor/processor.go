// Package processor drives per-document extraction: it classifies each PDF
// as native-text or scanned, obtains its pages through a PageSource and
// feeds every page to the field extractor. Failures are isolated per page
// and per document; a broken slip never aborts its siblings.
package processor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/bancadelta/f24-reconciler/internal/extractor"
	"github.com/bancadelta/f24-reconciler/internal/models"
	"github.com/bancadelta/f24-reconciler/internal/parser"
)

// ErrFolderNotFound means the slip folder does not exist.
var ErrFolderNotFound = errors.New("pdf folder not found")

// PageSource provides raw page text for a document. The production
// implementation is extractor.PDFSource; tests inject mocks so no PDF
// tooling is needed.
type PageSource interface {
	// IsScanned reports whether the document is image-only.
	IsScanned(path string) bool
	// NativeText returns the text layer of each page.
	NativeText(path string) ([]extractor.Page, error)
	// RecognizeText rasterizes and OCRs each page.
	RecognizeText(path string) ([]extractor.Page, error)
}

// Processor walks a folder of slip PDFs and produces payment records.
type Processor struct {
	src    PageSource
	fields *parser.FieldExtractor
	log    *zap.Logger
}

// New builds a processor from a page source and a field extractor.
func New(src PageSource, fields *parser.FieldExtractor, log *zap.Logger) *Processor {
	return &Processor{src: src, fields: fields, log: log}
}

// ProcessFolder extracts payment records from every PDF in dir (extension
// matched case-insensitively). It returns the records, the number of
// documents seen, and an error only when the folder itself is unusable.
// Individual document failures are logged and skipped.
func (p *Processor) ProcessFolder(dir string) ([]models.PaymentRecord, int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("%w: %s", ErrFolderNotFound, dir)
		}
		return nil, 0, err
	}
	if !info.IsDir() {
		return nil, 0, fmt.Errorf("%w: %s is not a directory", ErrFolderNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	p.log.Info("found slip documents", zap.Int("count", len(paths)), zap.String("dir", dir))

	var records []models.PaymentRecord
	for i, path := range paths {
		p.log.Info("processing document",
			zap.Int("index", i+1), zap.Int("total", len(paths)),
			zap.String("file", filepath.Base(path)))
		docRecords := p.ProcessDocument(path)
		p.log.Info("extracted records from document",
			zap.String("file", filepath.Base(path)), zap.Int("records", len(docRecords)))
		records = append(records, docRecords...)
	}

	return records, len(paths), nil
}

// ProcessDocument extracts payment records from a single PDF, in page order.
// Pages yielding neither a tax code nor an amount produce no record.
func (p *Processor) ProcessDocument(path string) []models.PaymentRecord {
	var (
		pages []extractor.Page
		err   error
	)

	if p.src.IsScanned(path) {
		pages, err = p.src.RecognizeText(path)
	} else {
		pages, err = p.src.NativeText(path)
	}
	if err != nil {
		p.log.Error("document extraction failed, skipping",
			zap.String("file", filepath.Base(path)), zap.Error(err))
		return nil
	}

	doc := filepath.Base(path)
	var records []models.PaymentRecord
	for _, page := range pages {
		rec := p.fields.Extract(page.Text, doc, page.Num)
		if rec.HasData() {
			records = append(records, rec)
		}
	}
	return records
}
