package latex

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"recoverystats/domain/bootstrap"
	"recoverystats/domain/report"
	"recoverystats/internal/errors"
)

const (
	MacrosFile = "experimentstats.tex"
	TableFile  = "table.tex"
)

// Writer renders a report as LaTeX macro definitions and table rows
type Writer struct {
	dir string
}

// NewWriter creates a writer emitting files into dir
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

func (w *Writer) Name() string { return "latex" }

// Write renders both files before writing either, so a rendering error
// leaves the directory untouched. Files are written macros first; if the
// table write fails the macros file is already in place.
func (w *Writer) Write(ctx context.Context, r *report.Report) error {
	var macros, table bytes.Buffer
	if err := WriteMacros(&macros, r); err != nil {
		return err
	}
	if err := WriteTable(&table, r); err != nil {
		return err
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return errors.OutputError(w.dir, err)
	}
	files := []struct {
		name string
		data []byte
	}{
		{MacrosFile, macros.Bytes()},
		{TableFile, table.Bytes()},
	}
	for _, f := range files {
		path := filepath.Join(w.dir, f.name)
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return errors.OutputError(path, err)
		}
	}
	return nil
}

// WriteMacros emits one \newcommand per reported figure: comparisons first,
// then corpus facts, then the per-experiment statistics in plan order
func WriteMacros(w io.Writer, r *report.Report) error {
	var b strings.Builder

	for _, cmp := range r.Comparisons {
		fmt.Fprintf(&b, `\newcommand{\%s}{%.*f\%%{\footnotesize$\pm$%.*f\%%}\xspace}`+"\n",
			cmp.Name, cmp.MedianDigits, cmp.Interval.Median, cmp.ErrorDigits, cmp.Interval.Error)
	}

	fmt.Fprintf(&b, `\newcommand{\numruns}{\numprint{%d}\xspace}`+"\n", r.RunCount)
	fmt.Fprintf(&b, `\newcommand{\numbootstrap}{\numprint{%d}\xspace}`+"\n", r.Iterations)
	fmt.Fprintf(&b, `\newcommand{\corpussize}{\numprint{%d}\xspace}`+"\n", r.Corpus.Files)
	fmt.Fprintf(&b, `\newcommand{\corpussizemb}{\numprint{%d}\xspace}`+"\n", r.Corpus.Bytes/1024/1024)

	for _, exp := range r.Experiments {
		failure, err := interval(exp, bootstrap.FailureRate)
		if err != nil {
			return err
		}
		mean, err := interval(exp, bootstrap.RecoveryTimeMean)
		if err != nil {
			return err
		}
		median, err := interval(exp, bootstrap.RecoveryTimeMedian)
		if err != nil {
			return err
		}
		locs, err := interval(exp, bootstrap.ErrorLocations)
		if err != nil {
			return err
		}

		fmt.Fprintf(&b, `\newcommand{%ssuccessrate}{%.2f\%%{\footnotesize$\pm$%.2f\%%}\xspace}`+"\n",
			exp.Label, 100.0-failure.Median, failure.Error)
		fmt.Fprintf(&b, `\newcommand{%sfailurerate}{%.2f\%%{\footnotesize$\pm$%.2f\%%}\xspace}`+"\n",
			exp.Label, failure.Median, failure.Error)
		fmt.Fprintf(&b, `\newcommand{%smeantime}{%.4fs{\footnotesize$\pm$%.4fs}\xspace}`+"\n",
			exp.Label, mean.Median, mean.Error)
		fmt.Fprintf(&b, `\newcommand{%smediantime}{%.4fs{\footnotesize$\pm$%.4fs}\xspace}`+"\n",
			exp.Label, median.Median, median.Error)
		fmt.Fprintf(&b, `\newcommand{%serrorlocs}{\numprint{%s}{\footnotesize$\pm$\numprint{%s}}\xspace}`+"\n",
			exp.Label, number(locs.Median), number(locs.Error))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTable emits two rows per experiment, medians then error bars.
// Experiments without costs come first and are separated by a rule.
func WriteTable(w io.Writer, r *report.Report) error {
	var b strings.Builder

	rows := r.TableOrder()
	for i, exp := range rows {
		ivs := make(map[bootstrap.Statistic]bootstrap.Interval)
		for _, stat := range []bootstrap.Statistic{
			bootstrap.RecoveryTimeMean,
			bootstrap.RecoveryTimeMedian,
			bootstrap.FailureRate,
			bootstrap.InputSkipped,
			bootstrap.ErrorLocations,
		} {
			iv, err := interval(exp, stat)
			if err != nil {
				return err
			}
			ivs[stat] = iv
		}

		costMedian, costError := "-", ""
		if exp.TracksCosts {
			cost, err := interval(exp, bootstrap.CostMean)
			if err != nil {
				return err
			}
			costMedian = fmt.Sprintf("%.2f", cost.Median)
			costError = fmt.Sprintf(`{\scriptsize$\pm$%.3f}`, cost.Error)
		}

		fmt.Fprintf(&b, `%s & %.6f & %.6f & %s & %.2f & %.2f & \numprint{%d} \\[-4pt]`+"\n",
			exp.Label,
			ivs[bootstrap.RecoveryTimeMean].Median,
			ivs[bootstrap.RecoveryTimeMedian].Median,
			costMedian,
			ivs[bootstrap.FailureRate].Median,
			ivs[bootstrap.InputSkipped].Median,
			int(ivs[bootstrap.ErrorLocations].Median))
		fmt.Fprintf(&b, `%s & {\scriptsize$\pm$%.7f} & {\scriptsize$\pm$%.7f} & %s & {\scriptsize$\pm$%.3f} & {\scriptsize$\pm$%.3f} & {\scriptsize$\pm$%d}\\`+"\n",
			strings.Repeat(" ", len(exp.Label)),
			ivs[bootstrap.RecoveryTimeMean].Error,
			ivs[bootstrap.RecoveryTimeMedian].Error,
			costError,
			ivs[bootstrap.FailureRate].Error,
			ivs[bootstrap.InputSkipped].Error,
			int(ivs[bootstrap.ErrorLocations].Error))

		if !exp.TracksCosts && i+1 < len(rows) && rows[i+1].TracksCosts {
			b.WriteString(`\midrule` + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func interval(exp report.ExperimentSummary, stat bootstrap.Statistic) (bootstrap.Interval, error) {
	iv, ok := exp.Interval(stat)
	if !ok {
		return bootstrap.Interval{}, errors.NotFound(fmt.Sprintf("%s interval of %s", stat, exp.Name))
	}
	return iv, nil
}

// number prints a count without trailing zeros for \numprint
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
