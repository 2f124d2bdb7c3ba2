package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"recoverystats/domain/bootstrap"
	"recoverystats/domain/report"
	"recoverystats/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Writer saves a report as a results workbook
type Writer struct {
	path string
}

// NewWriter creates a writer saving to path
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) Name() string { return "excel" }

// Write builds the workbook and saves it
func (w *Writer) Write(ctx context.Context, r *report.Report) error {
	f, err := BuildWorkbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return errors.OutputError(w.path, err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return errors.OutputError(w.path, err)
	}
	return nil
}

// BuildWorkbook lays out experiment intervals, comparison intervals and
// histogram bins on separate sheets
func BuildWorkbook(r *report.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheetName, SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}

	var summary [][]interface{}
	for _, exp := range r.Experiments {
		for _, stat := range exp.Statistics() {
			iv := exp.Intervals[stat]
			summary = append(summary, []interface{}{exp.Name.String(), exp.Label, stat.String(), iv.Median, iv.Error, iv.Lower, iv.Upper})
		}
	}

	var comparisons [][]interface{}
	for _, cmp := range r.Comparisons {
		iv := cmp.Interval
		comparisons = append(comparisons, []interface{}{cmp.Name, cmp.X.String(), cmp.Y.String(), cmp.Statistic.String(),
			cmp.Kind.String(), iv.Median, iv.Error, iv.Lower, iv.Upper})
	}

	var histograms [][]interface{}
	addHistogram := func(name string, h *bootstrap.Histogram) {
		for i, bin := range h.Bins {
			histograms = append(histograms, []interface{}{name, h.Name, i, bin.Lower, bin.Upper, bin.Interval.Median, bin.Interval.Error})
		}
	}
	for _, h := range r.TimeHistograms {
		addHistogram("recovery_time", h)
	}
	for _, pair := range r.ErrorLocationHistograms {
		addHistogram(pair.Name, pair.X)
		addHistogram(pair.Name, pair.Y)
	}

	for _, sheet := range []struct {
		name    string
		headers []string
		rows    [][]interface{}
	}{
		{SummarySheet, summaryHeaders, summary},
		{ComparisonSheet, comparisonHeaders, comparisons},
		{HistogramSheet, histogramHeaders, histograms},
	} {
		if err := writeSheet(f, sheet.name, sheet.headers, sheet.rows); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
