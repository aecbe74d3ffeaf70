package report

import (
	"io"

	"gopkg.in/yaml.v3"

	"go-beer-ebc/pkg/models"
)

// YAMLWriter outputs YAML documents with the same keys as the JSON output.
type YAMLWriter struct {
	baseWriter
}

// NewYAMLWriter creates a YAMLWriter that outputs to the given writer.
func NewYAMLWriter(output io.Writer) *YAMLWriter {
	return &YAMLWriter{baseWriter: newBaseWriter(output)}
}

// WriteResults implements Writer.
func (w *YAMLWriter) WriteResults(items []models.BatchItem) error {
	return w.encode(items)
}

// WriteBands implements Writer.
func (w *YAMLWriter) WriteBands(bands []models.Band) error {
	return w.encode(bands)
}

func (w *YAMLWriter) encode(v any) error {
	enc := yaml.NewEncoder(w.output)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
