package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"go-beer-ebc/pkg/models"
)

// MarkdownWriter outputs reports in Markdown format for sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteResults implements Writer.
func (w *MarkdownWriter) WriteResults(items []models.BatchItem) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Beer Colour Report")
	md.PlainText("")

	rows := make([][]string, 0, len(items))
	failed := 0
	for _, item := range items {
		if item.Response == nil {
			failed++
			rows = append(rows, []string{"`" + item.Source + "`", "-", "-", "-", "error: " + item.Error})
			continue
		}
		r := item.Response.Result
		if r.IsUnknown() {
			rows = append(rows, []string{"`" + item.Source + "`", "-", r.ColorName, "-", "-"})
			continue
		}
		rows = append(rows, []string{
			"`" + item.Source + "`",
			r.FormattedEBC(),
			r.ColorName,
			accuracyText(r),
			"`" + r.Hex() + "`",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Image", "EBC", "Colour", "Accuracy", "Swatch"},
		Rows:   rows,
	})
	md.PlainText("")

	if failed > 0 {
		md.Warningf("%d of %d image(s) could not be analysed.", failed, len(items))
		md.PlainText("")
	}

	for _, item := range items {
		if item.Response == nil || item.Response.Detail == nil {
			continue
		}
		w.writeDetail(md, item.Source, item.Response.Detail)
	}

	return md.Build()
}

func (w *MarkdownWriter) writeDetail(md *markdown.Markdown, source string, d *models.DetailedAnalysis) {
	md.H2(source)
	md.PlainText("")

	rows := [][]string{
		{"Lab", fmt.Sprintf("L=%.2f a=%.2f b=%.2f", d.Lab.L, d.Lab.A, d.Lab.B)},
		{"Luma", fmt.Sprintf("%.2f", d.Luma)},
		{"SRM", fmt.Sprintf("%.2f", d.SRM)},
		{"Image", fmt.Sprintf("%dx%d", d.Sample.ImageWidth, d.Sample.ImageHeight)},
		{"Sample side", strconv.Itoa(d.Sample.SampleSide)},
		{"Pixels", strconv.Itoa(d.Sample.PixelCount)},
	}
	if d.Sample.LumaStdDev >= 0 {
		rows = append(rows, []string{"Luma std dev", fmt.Sprintf("%.2f", d.Sample.LumaStdDev)})
	}
	if d.Sample.DominantHex != "" {
		rows = append(rows, []string{"Dominant colour", "`" + d.Sample.DominantHex + "`"})
	}
	if d.LighterBand != "" {
		rows = append(rows, []string{"Lighter band", d.LighterBand})
	}
	if d.DarkerBand != "" {
		rows = append(rows, []string{"Darker band", d.DarkerBand})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(d.Warnings) > 0 {
		md.BulletList(d.Warnings...)
		md.PlainText("")
	}
}

// WriteBands implements Writer.
func (w *MarkdownWriter) WriteBands(bands []models.Band) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("EBC Colour Bands")
	md.PlainText("")

	rows := make([][]string, 0, len(bands))
	for _, b := range bands {
		rows = append(rows, []string{b.Name, bandRange(b)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Colour", "EBC"},
		Rows:   rows,
	})

	return md.Build()
}
