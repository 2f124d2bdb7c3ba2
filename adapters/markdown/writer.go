package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"recoverystats/domain/bootstrap"
	"recoverystats/domain/report"
	"recoverystats/internal/errors"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const (
	SummaryFile = "summary.md"
	HTMLFile    = "summary.html"
)

// Writer renders a human readable summary as Markdown and HTML
type Writer struct {
	dir string
}

// NewWriter creates a writer emitting files into dir
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

func (w *Writer) Name() string { return "markdown" }

// Write saves the Markdown summary and its HTML rendering
func (w *Writer) Write(ctx context.Context, r *report.Report) error {
	md := Render(r)
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return errors.OutputError(w.dir, err)
	}

	mdPath := filepath.Join(w.dir, SummaryFile)
	if err := os.WriteFile(mdPath, md, 0644); err != nil {
		return errors.OutputError(mdPath, err)
	}
	htmlPath := filepath.Join(w.dir, HTMLFile)
	if err := os.WriteFile(htmlPath, ToHTML(md), 0644); err != nil {
		return errors.OutputError(htmlPath, err)
	}
	return nil
}

// Render lays the report out as Markdown tables
func Render(r *report.Report) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Error recovery report %s\n\n", r.ID)
	fmt.Fprintf(&b, "%d runs per file, %d bootstrap iterations, %.0f%% confidence", r.RunCount, r.Iterations, r.ConfidenceLevel*100)
	if r.Corpus.Files > 0 {
		fmt.Fprintf(&b, ", %d files (%.1f MiB)", r.Corpus.Files, r.Corpus.MB())
	}
	b.WriteString(".\n\n")

	b.WriteString("## Experiments\n\n")
	b.WriteString("| Experiment | Mean time (s) | Median time (s) | Cost | Failure rate (%) | Input skipped (%) | Error locations |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, exp := range r.TableOrder() {
		cost := "-"
		if iv, ok := exp.Interval(bootstrap.CostMean); ok {
			cost = cell(iv, 2)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			exp.Name,
			cellOf(exp, bootstrap.RecoveryTimeMean, 6),
			cellOf(exp, bootstrap.RecoveryTimeMedian, 6),
			cost,
			cellOf(exp, bootstrap.FailureRate, 2),
			cellOf(exp, bootstrap.InputSkipped, 2),
			cellOf(exp, bootstrap.ErrorLocations, 0))
	}

	if len(r.Comparisons) > 0 {
		b.WriteString("\n## Comparisons\n\n")
		b.WriteString("| Name | Statistic | Kind | Value (%) |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, cmp := range r.Comparisons {
			fmt.Fprintf(&b, "| %s | %s of %s over %s | %s | %.*f ± %.*f |\n",
				cmp.Name, cmp.Statistic, cmp.X, cmp.Y, cmp.Kind,
				cmp.MedianDigits, cmp.Interval.Median, cmp.ErrorDigits, cmp.Interval.Error)
		}
	}

	if fp := r.Fingerprint; !fp.Value.IsEmpty() {
		b.WriteString("\n## Inputs\n\n")
		if fp.Reproducible() {
			fmt.Fprintf(&b, "Seed %d, fingerprint `%s`.\n\n", fp.Seed, fp.Value)
		} else {
			fmt.Fprintf(&b, "Entropy seeded, fingerprint `%s` (not reproducible).\n\n", fp.Value)
		}
		b.WriteString("| Experiment | SHA-256 |\n")
		b.WriteString("|---|---|\n")
		for _, in := range fp.Inputs {
			fmt.Fprintf(&b, "| %s | `%s` |\n", in.Experiment, in.Digest)
		}
	}

	return []byte(b.String())
}

// ToHTML renders Markdown with table support
func ToHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}

func cellOf(exp report.ExperimentSummary, stat bootstrap.Statistic, digits int) string {
	iv, ok := exp.Interval(stat)
	if !ok {
		return "n/a"
	}
	return cell(iv, digits)
}

func cell(iv bootstrap.Interval, digits int) string {
	return fmt.Sprintf("%.*f ± %.*f", digits, iv.Median, digits, iv.Error)
}
