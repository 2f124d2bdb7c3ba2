package latex

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recoverystats/domain/bootstrap"
	"recoverystats/domain/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intervals(cost bool) map[bootstrap.Statistic]bootstrap.Interval {
	ivs := map[bootstrap.Statistic]bootstrap.Interval{
		bootstrap.RecoveryTimeMean:   {Median: 0.0012344, Error: 0.00001234},
		bootstrap.RecoveryTimeMedian: {Median: 0.000789, Error: 0.0000045},
		bootstrap.FailureRate:        {Median: 1.25, Error: 0.126},
		bootstrap.ErrorLocations:     {Median: 12345, Error: 67.5},
		bootstrap.InputSkipped:       {Median: 0.5, Error: 0.0626},
	}
	if cost {
		ivs[bootstrap.CostMean] = bootstrap.Interval{Median: 2.5, Error: 0.0126}
	}
	return ivs
}

func sampleReport() *report.Report {
	return &report.Report{
		Iterations: 10000,
		RunCount:   30,
		Corpus:     report.CorpusSize{Files: 200000, Bytes: 3 * 1024 * 1024},
		Experiments: []report.ExperimentSummary{
			{Name: "mf", Label: `\mf`, TracksCosts: true, Intervals: intervals(true)},
			{Name: "panic", Label: `\panic`, Intervals: intervals(false)},
		},
		Comparisons: []report.ComparisonResult{
			{Name: "mfcpctplusfailurerateratio", MedianDigits: 1, ErrorDigits: 1, Interval: bootstrap.Interval{Median: 42.26, Error: 1.26}},
			{Name: "mfreverrorlocsratioovermf", MedianDigits: 1, ErrorDigits: 2, Interval: bootstrap.Interval{Median: 10.5, Error: 0.126}},
		},
	}
}

func TestWriteMacros(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMacros(&buf, sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6+2*5)

	assert.Equal(t, `\newcommand{\mfcpctplusfailurerateratio}{42.3\%{\footnotesize$\pm$1.3\%}\xspace}`, lines[0])
	assert.Equal(t, `\newcommand{\mfreverrorlocsratioovermf}{10.5\%{\footnotesize$\pm$0.13\%}\xspace}`, lines[1])
	assert.Equal(t, `\newcommand{\numruns}{\numprint{30}\xspace}`, lines[2])
	assert.Equal(t, `\newcommand{\numbootstrap}{\numprint{10000}\xspace}`, lines[3])
	assert.Equal(t, `\newcommand{\corpussize}{\numprint{200000}\xspace}`, lines[4])
	assert.Equal(t, `\newcommand{\corpussizemb}{\numprint{3}\xspace}`, lines[5])
	assert.Equal(t, `\newcommand{\mfsuccessrate}{98.75\%{\footnotesize$\pm$0.13\%}\xspace}`, lines[6])
	assert.Equal(t, `\newcommand{\mffailurerate}{1.25\%{\footnotesize$\pm$0.13\%}\xspace}`, lines[7])
	assert.Equal(t, `\newcommand{\mfmeantime}{0.0012s{\footnotesize$\pm$0.0000s}\xspace}`, lines[8])
	assert.Equal(t, `\newcommand{\mfmediantime}{0.0008s{\footnotesize$\pm$0.0000s}\xspace}`, lines[9])
	assert.Equal(t, `\newcommand{\mferrorlocs}{\numprint{12345}{\footnotesize$\pm$\numprint{67.5}}\xspace}`, lines[10])
	assert.True(t, strings.HasPrefix(lines[11], `\newcommand{\panicsuccessrate}`))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, `\panic & 0.001234 & 0.000789 & - & 1.25 & 0.50 & \numprint{12345} \\[-4pt]`, lines[0])
	assert.Equal(t, `       & {\scriptsize$\pm$0.0000123} & {\scriptsize$\pm$0.0000045} &  & {\scriptsize$\pm$0.126} & {\scriptsize$\pm$0.063} & {\scriptsize$\pm$67}\\`, lines[1])
	assert.Equal(t, `\midrule`, lines[2])
	assert.Equal(t, `\mf & 0.001234 & 0.000789 & 2.50 & 1.25 & 0.50 & \numprint{12345} \\[-4pt]`, lines[3])
	assert.Contains(t, lines[4], `& {\scriptsize$\pm$0.013} &`)
}

func TestWriteTable_MissingInterval(t *testing.T) {
	r := sampleReport()
	delete(r.Experiments[0].Intervals, bootstrap.CostMean)

	var buf bytes.Buffer
	err := WriteTable(&buf, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cost_mean interval of mf")
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir)
	assert.Equal(t, "latex", w.Name())

	require.NoError(t, w.Write(context.Background(), sampleReport()))
	for _, name := range []string{MacrosFile, TableFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}

func TestWriter_Write_RenderErrorWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r := sampleReport()
	delete(r.Experiments[0].Intervals, bootstrap.CostMean)

	require.Error(t, NewWriter(dir).Write(context.Background(), r))
	assert.NoDirExists(t, dir)
}

func TestWriter_Write_TableWriteFails(t *testing.T) {
	dir := t.TempDir()
	// a directory in the table's place makes its write fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, TableFile), 0o755))

	err := NewWriter(dir).Write(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), TableFile)
	assert.FileExists(t, filepath.Join(dir, MacrosFile))
}
