package report

import (
	"encoding/json"
	"io"

	"go-beer-ebc/pkg/models"
)

// JSONWriter outputs pretty-printed JSON using the API field names.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output)}
}

// WriteResults implements Writer.
func (w *JSONWriter) WriteResults(items []models.BatchItem) error {
	return w.encode(items)
}

// WriteBands implements Writer.
func (w *JSONWriter) WriteBands(bands []models.Band) error {
	return w.encode(bands)
}

func (w *JSONWriter) encode(v any) error {
	enc := json.NewEncoder(w.output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
