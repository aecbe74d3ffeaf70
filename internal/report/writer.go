package report

import (
	"fmt"
	"io"
	"strings"

	"go-beer-ebc/pkg/models"
)

// Format names an output format
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats in display order
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown}
}

// Writer renders analysis results and the band table.
type Writer interface {
	// WriteResults outputs one entry per analysed image, in the given order.
	WriteResults(items []models.BatchItem) error

	// WriteBands outputs the EBC colour table.
	WriteBands(bands []models.Band) error
}

// NewWriter creates the Writer for format
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatText, "":
		return NewTextWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output), nil
	case FormatYAML:
		return NewYAMLWriter(output), nil
	case FormatMarkdown, "md":
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (want one of %v)", format, Formats())
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// bandRange renders the range of a band, e.g. "4.5 - 7.5" or "> 47"
func bandRange(b models.Band) string {
	if b.OpenEnded {
		return fmt.Sprintf("> %g", b.Min)
	}
	return fmt.Sprintf("%g - %g", b.Min, b.Max)
}

// accuracyText renders the accuracy label with its score
func accuracyText(r models.AnalysisResult) string {
	return fmt.Sprintf("%s (%.2f)", r.AccuracyDescription(), r.Accuracy)
}
