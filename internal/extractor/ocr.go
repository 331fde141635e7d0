package extractor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// RecognizeText rasterizes every page at the configured DPI and runs
// Tesseract over the images. Pages whose recognition fails are logged and
// skipped; the remaining pages keep their original numbers.
// Requires pdftoppm (poppler-utils) and tesseract on PATH.
func (s *PDFSource) RecognizeText(filePath string) ([]Page, error) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return nil, fmt.Errorf("pdftoppm not available (install poppler-utils): %v", err)
	}
	if _, err := exec.LookPath("tesseract"); err != nil {
		return nil, fmt.Errorf("tesseract not available (install tesseract-ocr): %v", err)
	}

	tmpDir, err := os.MkdirTemp("", "f24-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	imgPrefix := filepath.Join(tmpDir, "page")
	cmd := exec.Command("pdftoppm", "-r", strconv.Itoa(s.DPI), "-png", filePath, imgPrefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %v (output: %s)", err, string(out))
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %v", err)
	}
	var imageFiles []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			imageFiles = append(imageFiles, filepath.Join(tmpDir, e.Name()))
		}
	}
	sort.Strings(imageFiles)

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no page images for %s", filePath)
	}

	var pages []Page
	for i, imgFile := range imageFiles {
		pageNum := i + 1
		text, err := s.recognizeImage(imgFile)
		if err != nil {
			s.Log.Warn("OCR failed for page, skipping",
				zap.String("file", filePath), zap.Int("page", pageNum), zap.Error(err))
			continue
		}
		if text != "" {
			pages = append(pages, Page{Num: pageNum, Text: text})
		}
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("OCR produced no text from %d page images", len(imageFiles))
	}
	return pages, nil
}

// recognizeImage runs Tesseract on a single page image and returns its text.
func (s *PDFSource) recognizeImage(imgFile string) (string, error) {
	outBase := strings.TrimSuffix(imgFile, ".png") + "-ocr"
	cmd := exec.Command("tesseract", imgFile, outBase, "-l", s.Lang)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("tesseract: %v (output: %s)", err, string(out))
	}

	data, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
