package processor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bancadelta/f24-reconciler/internal/config"
	"github.com/bancadelta/f24-reconciler/internal/extractor"
	"github.com/bancadelta/f24-reconciler/internal/parser"
	mock_processor "github.com/bancadelta/f24-reconciler/internal/processor/mocks"
)

func newTestProcessor(t *testing.T) (*Processor, *mock_processor.MockPageSource) {
	ctrl := gomock.NewController(t)
	src := mock_processor.NewMockPageSource(ctrl)
	fields := parser.NewFieldExtractor(config.Default(), zap.NewNop())
	return New(src, fields, zap.NewNop()), src
}

func TestProcessDocumentNative(t *testing.T) {
	p, src := newTestProcessor(t)

	src.EXPECT().IsScanned("delega.pdf").Return(false)
	src.EXPECT().NativeText("delega.pdf").Return([]extractor.Page{
		{Num: 1, Text: "CODICE FISCALE RSSMRA85T10A562S\nEURO + 350,00"},
		{Num: 2, Text: "pagina di cortesia senza dati"},
	}, nil)

	records := p.ProcessDocument("delega.pdf")

	require.Len(t, records, 1)
	assert.Equal(t, "delega.pdf", records[0].Document)
	assert.Equal(t, 1, records[0].Page)
	assert.Equal(t, "RSSMRA85T10A562S", records[0].TaxCode)
	assert.Equal(t, 350.00, records[0].Amount)
}

func TestProcessDocumentScanned(t *testing.T) {
	p, src := newTestProcessor(t)

	src.EXPECT().IsScanned("scan.pdf").Return(true)
	src.EXPECT().RecognizeText("scan.pdf").Return([]extractor.Page{
		{Num: 1, Text: "CAB/SPORTELLO: 36320\nEURO 120,00"},
	}, nil)

	records := p.ProcessDocument("scan.pdf")

	require.Len(t, records, 1)
	assert.Equal(t, "36320", records[0].CAB)
	assert.Equal(t, 120.00, records[0].Amount)
}

func TestProcessDocumentExtractionError(t *testing.T) {
	p, src := newTestProcessor(t)

	src.EXPECT().IsScanned("broken.pdf").Return(true)
	src.EXPECT().RecognizeText("broken.pdf").Return(nil, errors.New("tesseract exploded"))

	assert.Empty(t, p.ProcessDocument("broken.pdf"))
}

func TestProcessDocumentKeepsPageNumbers(t *testing.T) {
	p, src := newTestProcessor(t)

	// Page 2 failed OCR upstream and was skipped; numbering must not shift.
	src.EXPECT().IsScanned("multi.pdf").Return(true)
	src.EXPECT().RecognizeText("multi.pdf").Return([]extractor.Page{
		{Num: 1, Text: "EURO 100,00"},
		{Num: 3, Text: "EURO 200,00"},
	}, nil)

	records := p.ProcessDocument("multi.pdf")

	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Page)
	assert.Equal(t, 3, records[1].Page)
}

func TestProcessFolder(t *testing.T) {
	p, src := newTestProcessor(t)

	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	src.EXPECT().IsScanned(gomock.Any()).Return(false).Times(2)
	src.EXPECT().NativeText(filepath.Join(dir, "a.pdf")).Return([]extractor.Page{
		{Num: 1, Text: "EURO 350,00"},
	}, nil)
	src.EXPECT().NativeText(filepath.Join(dir, "b.PDF")).Return([]extractor.Page{
		{Num: 1, Text: "nessun dato"},
	}, nil)

	records, docs, err := p.ProcessFolder(dir)

	require.NoError(t, err)
	assert.Equal(t, 2, docs)
	require.Len(t, records, 1)
	assert.Equal(t, "a.pdf", records[0].Document)
}

func TestProcessFolderMissing(t *testing.T) {
	p, _ := newTestProcessor(t)

	_, _, err := p.ProcessFolder(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestProcessFolderNotADirectory(t *testing.T) {
	p, _ := newTestProcessor(t)

	path := filepath.Join(t.TempDir(), "file.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, _, err := p.ProcessFolder(path)
	assert.ErrorIs(t, err, ErrFolderNotFound)
}
