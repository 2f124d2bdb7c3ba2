package chart

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"recoverystats/domain/bootstrap"
	"recoverystats/domain/report"
	"recoverystats/internal/errors"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format selects the image encoding
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat parses "svg" or "png"
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case SVG, PNG:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown chart format %q", s)
}

const barWidth = 0.8

var (
	primaryColor   = drawing.ColorFromHex("777777")
	secondaryColor = drawing.ColorFromHex("BBBBBB")
)

// Writer draws every histogram of a report as a bar chart
type Writer struct {
	dir    string
	format Format
}

// NewWriter creates a writer emitting charts into dir
func NewWriter(dir string, format Format) *Writer {
	return &Writer{dir: dir, format: format}
}

func (w *Writer) Name() string { return "chart" }

// Write renders <experiment>_histogram for every time histogram and
// <name> for every paired error location histogram
func (w *Writer) Write(ctx context.Context, r *report.Report) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return errors.OutputError(w.dir, err)
	}

	for _, h := range r.TimeHistograms {
		var buf bytes.Buffer
		if err := RenderTimeHistogram(&buf, h, w.format); err != nil {
			return err
		}
		if err := w.save(h.Name+"_histogram", buf.Bytes()); err != nil {
			return err
		}
	}
	for _, pair := range r.ErrorLocationHistograms {
		var buf bytes.Buffer
		if err := RenderPairedHistogram(&buf, pair, w.format); err != nil {
			return err
		}
		if err := w.save(pair.Name, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) save(name string, data []byte) error {
	path := filepath.Join(w.dir, name+"."+string(w.format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.OutputError(path, err)
	}
	return nil
}

// RenderTimeHistogram draws one bar per bin with the upper interval bound
// marked above it
func RenderTimeHistogram(buf *bytes.Buffer, h *bootstrap.Histogram, format Format) error {
	medians, uppers := h.Medians(), upperBounds(h)
	ch := gochart.Chart{
		Title:      h.Name,
		Width:      1024,
		Height:     512,
		Background: gochart.Style{Padding: gochart.Box{Top: 24, Left: 16, Right: 12, Bottom: 28}},
		XAxis: gochart.XAxis{
			Name:  "Recovery time (s)",
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(len(medians)) - 0.5},
			Ticks: binTicks(h, 1, 5),
		},
		YAxis: countAxis(h.Groups, uppers),
		Series: []gochart.Series{
			barSeries(h.Name, medians, 1, 0, primaryColor),
			markerSeries(h.Name+" upper", uppers, 1, 0),
		},
	}
	return render(&ch, buf, format)
}

// RenderPairedHistogram draws the bins of two histograms side by side: bin i
// of x sits in slot 2i and bin i of y in slot 2i+1
func RenderPairedHistogram(buf *bytes.Buffer, pair report.PairedHistogram, format Format) error {
	uppers, err := bootstrap.FlatZip(upperBounds(pair.X), upperBounds(pair.Y))
	if err != nil {
		return fmt.Errorf("%s: %w", pair.Name, err)
	}

	ch := gochart.Chart{
		Title:      pair.Name,
		Width:      1024,
		Height:     512,
		Background: gochart.Style{Padding: gochart.Box{Top: 24, Left: 16, Right: 12, Bottom: 28}},
		XAxis: gochart.XAxis{
			Name:  "Recovery error locations",
			Range: &gochart.ContinuousRange{Min: -0.7, Max: float64(len(uppers))},
			Ticks: binTicks(pair.X, 2, 7),
		},
		YAxis: countAxis(pair.X.Groups, uppers),
		Series: []gochart.Series{
			barSeries(pair.X.Name, pair.X.Medians(), 2, 0, primaryColor),
			barSeries(pair.Y.Name, pair.Y.Medians(), 2, 1, secondaryColor),
			markerSeries("upper", uppers, 1, 0),
		},
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return render(&ch, buf, format)
}

func render(ch *gochart.Chart, buf *bytes.Buffer, format Format) error {
	var err error
	switch format {
	case PNG:
		err = ch.Render(gochart.PNG, buf)
	default:
		err = ch.Render(gochart.SVG, buf)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", ch.Title, err)
	}
	return nil
}

// barSeries outlines bars of the given heights. Bar i sits at slot
// i*stride+offset.
func barSeries(name string, heights []float64, stride, offset int, color drawing.Color) gochart.ContinuousSeries {
	xs := make([]float64, 0, 4*len(heights))
	ys := make([]float64, 0, 4*len(heights))
	for i, v := range heights {
		center := float64(i*stride + offset)
		xs = append(xs, center-barWidth/2, center-barWidth/2, center+barWidth/2, center+barWidth/2)
		ys = append(ys, 0, v, v, 0)
	}
	return gochart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeColor: color,
			StrokeWidth: 1,
			FillColor:   color.WithAlpha(200),
		},
	}
}

// markerSeries renders points only, one per bar
func markerSeries(name string, values []float64, stride, offset int) gochart.ContinuousSeries {
	xs := make([]float64, len(values))
	for i := range values {
		xs[i] = float64(i*stride + offset)
	}
	return gochart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: values,
		Style: gochart.Style{
			StrokeColor: drawing.ColorTransparent,
			DotWidth:    2,
			DotColor:    drawing.ColorBlack,
		},
	}
}

func countAxis(groups int, uppers []float64) gochart.YAxis {
	top := float64(groups)
	for _, u := range uppers {
		top = math.Max(top, u)
	}
	top = math.Max(top, 1)

	ticks := []gochart.Tick{{Value: 0, Label: "0"}}
	for _, n := range CountTicks(groups) {
		ticks = append(ticks, gochart.Tick{Value: float64(n), Label: strconv.Itoa(n)})
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Value < ticks[j].Value })
	return gochart.YAxis{
		Name:  "Number of files",
		Range: &gochart.ContinuousRange{Min: 0, Max: top},
		Ticks: ticks,
	}
}

// binTicks labels divisions+1 evenly spaced bin boundaries with their value
// on the histogram's scale
func binTicks(h *bootstrap.Histogram, stride, divisions int) []gochart.Tick {
	bins := float64(len(h.Bins))
	ticks := make([]gochart.Tick, 0, divisions+1)
	for i := 0; i <= divisions; i++ {
		frac := float64(i) / float64(divisions)
		ticks = append(ticks, gochart.Tick{
			Value: frac*bins*float64(stride) - 0.5,
			Label: strconv.FormatFloat(frac*h.Binning.Max, 'g', 4, 64),
		})
	}
	return ticks
}

func upperBounds(h *bootstrap.Histogram) []float64 {
	out := make([]float64, len(h.Bins))
	for i, b := range h.Bins {
		out[i] = b.Interval.Upper
	}
	return out
}
