package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// JSONWriter writes the full analysis as indented JSON.
type JSONWriter struct{}

// WriteToFile writes the analysis to a JSON file at the given path.
func (w *JSONWriter) WriteToFile(path string, a *models.Analysis) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, a)
}

// Write writes the analysis to the given writer.
func (w *JSONWriter) Write(out io.Writer, a *models.Analysis) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	return nil
}
