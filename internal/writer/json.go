package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bancadelta/f24-reconciler/internal/models"
)

// JSONWriter exports the full result structure, nested types and all.
type JSONWriter struct{}

// WriteToFile writes the result as indented JSON to the given path.
func (w *JSONWriter) WriteToFile(path string, res *models.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, res)
}

// Write encodes the result as indented JSON. Nil record and discrepancy
// slices are normalized to empty ones so consumers never see JSON null.
func (w *JSONWriter) Write(out io.Writer, res *models.Result) error {
	normalized := *res
	if normalized.Records == nil {
		normalized.Records = []models.PaymentRecord{}
	}
	if normalized.Discrepancies == nil {
		normalized.Discrepancies = []models.Discrepancy{}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&normalized); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
