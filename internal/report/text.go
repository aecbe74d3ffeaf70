package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"go-beer-ebc/pkg/models"
)

const swatchWidth = 6

// TextWriter outputs a human-readable report with a coloured swatch
// when the terminal supports it.
type TextWriter struct {
	baseWriter
	term *termenv.Output
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithColorProfile forces the terminal colour profile, e.g. termenv.Ascii to disable colour
func WithColorProfile(profile termenv.Profile) TextWriterOption {
	return func(w *TextWriter) {
		w.term = termenv.NewOutput(w.output, termenv.WithProfile(profile))
	}
}

// NewTextWriter creates a TextWriter that detects the colour profile of output.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{baseWriter: newBaseWriter(output)}
	w.term = termenv.NewOutput(output)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteResults implements Writer.
func (w *TextWriter) WriteResults(items []models.BatchItem) error {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		w.writeItem(&sb, item)
	}
	_, err := io.WriteString(w.output, sb.String())
	return err
}

func (w *TextWriter) writeItem(sb *strings.Builder, item models.BatchItem) {
	fmt.Fprintf(sb, "%s\n", item.Source)
	if item.Response == nil {
		fmt.Fprintf(sb, "  Error:    %s\n", item.Error)
		return
	}

	result := item.Response.Result
	if result.IsUnknown() {
		fmt.Fprintf(sb, "  Colour:   %s\n", models.UnknownColorName)
		return
	}

	fmt.Fprintf(sb, "  EBC:      %s\n", result.FormattedEBC())
	fmt.Fprintf(sb, "  Colour:   %s\n", result.ColorName)
	fmt.Fprintf(sb, "  Accuracy: %s\n", accuracyText(result))
	fmt.Fprintf(sb, "  Swatch:   %s %s\n", result.Hex(), w.swatch(result.Hex()))

	if d := item.Response.Detail; d != nil {
		fmt.Fprintf(sb, "  Lab:      L=%.2f a=%.2f b=%.2f\n", d.Lab.L, d.Lab.A, d.Lab.B)
		fmt.Fprintf(sb, "  Luma:     %.2f (SRM %.2f)\n", d.Luma, d.SRM)
		fmt.Fprintf(sb, "  Sample:   %dpx square of %dx%d, %d pixels\n",
			d.Sample.SampleSide, d.Sample.ImageWidth, d.Sample.ImageHeight, d.Sample.PixelCount)
		if d.Sample.LumaStdDev >= 0 {
			fmt.Fprintf(sb, "  Spread:   %.2f luma std dev\n", d.Sample.LumaStdDev)
		}
		if d.Sample.DominantHex != "" {
			fmt.Fprintf(sb, "  Dominant: %s %s\n", d.Sample.DominantHex, w.swatch(d.Sample.DominantHex))
		}
		if d.LighterBand != "" || d.DarkerBand != "" {
			fmt.Fprintf(sb, "  Between:  %s / %s\n", orDash(d.LighterBand), orDash(d.DarkerBand))
		}
		for _, warning := range d.Warnings {
			fmt.Fprintf(sb, "  Warning:  %s\n", warning)
		}
	}
}

// WriteBands implements Writer.
func (w *TextWriter) WriteBands(bands []models.Band) error {
	var sb strings.Builder
	for _, b := range bands {
		fmt.Fprintf(&sb, "%-12s %s\n", b.Name, bandRange(b))
	}
	_, err := io.WriteString(w.output, sb.String())
	return err
}

// swatch renders a block of hex as background colour, or nothing without colour support
func (w *TextWriter) swatch(hex string) string {
	if w.term.Profile == termenv.Ascii {
		return ""
	}
	return w.term.String(strings.Repeat(" ", swatchWidth)).Background(w.term.Color(hex)).String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
