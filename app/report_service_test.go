package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"recoverystats/adapters/records"
	"recoverystats/domain/bootstrap"
	"recoverystats/domain/core"
	"recoverystats/domain/experiment"
	"recoverystats/domain/report"
	"recoverystats/internal/config"
	"recoverystats/internal/testkit"
	"recoverystats/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing
type MockReportWriter struct {
	mock.Mock
}

func (m *MockReportWriter) Name() string { return "mock" }

func (m *MockReportWriter) Write(ctx context.Context, r *report.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockIntervalArchive struct {
	mock.Mock
}

func (m *MockIntervalArchive) SaveIntervals(ctx context.Context, intervals []ports.ArchivedInterval) error {
	args := m.Called(ctx, intervals)
	return args.Error(0)
}

func (m *MockIntervalArchive) ListByReport(ctx context.Context, id core.ReportID) ([]ports.ArchivedInterval, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]ports.ArchivedInterval), args.Error(1)
}

const testPlan = `experiments:
  - {name: mf, label: '\mf', records: mf.csv, tracks_costs: true}
  - {name: mfrev, label: '\mfrev', records: mf_rev.csv, tracks_costs: true}
  - {name: panic, label: '\panic', records: panic.csv}
comparisons:
  - {name: mfrevtimeratio, statistic: recovery_time_mean, kind: ratio, x: mfrev, y: mf}
  - {name: mfreverrorlocs, statistic: error_locations, kind: relative_difference, x: mfrev, y: mf, error_digits: 2}
  - {name: panicfailures, statistic: failure_rate, kind: relative_difference, x: mf, y: panic}
time_histograms:
  experiments: [mf, panic]
  bins: 10
  max_seconds: 0.005
error_location_histograms:
  - {name: full, x: mf, y: mfrev, bins: 6}
  - {name: zoomed, x: mf, y: panic, bins: 5, zoom: 5}
`

type reportFixture struct {
	dir    string
	plan   *config.Plan
	writer *MockReportWriter
	svc    *ReportService
}

func newReportFixture(t *testing.T, panicRuns int) *reportFixture {
	t.Helper()
	dir := t.TempDir()

	cfg := testkit.DefaultCorpusConfig()
	testkit.WriteCorpus(t, dir, "mf.csv", cfg)
	cfg.Seed, cfg.MeanTime = 43, 0.0008
	testkit.WriteCorpus(t, dir, "mf_rev.csv", cfg)
	cfg.Seed, cfg.TracksCosts, cfg.FailureRate, cfg.Runs = 44, false, 0.3, panicRuns
	testkit.WriteCorpus(t, dir, "panic.csv", cfg)

	corpusDir := filepath.Join(dir, "src_files")
	require.NoError(t, os.Mkdir(corpusDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "a.java"), []byte("class A {}"), 0o644))

	plan, err := config.ParsePlan([]byte(testPlan))
	require.NoError(t, err)

	writer := &MockReportWriter{}
	svc := NewReportService(records.NewReader(testkit.Logger()), testkit.RNGAdapter(), testkit.EstimatorAdapter(),
		testkit.Logger(), writer)
	return &reportFixture{dir: dir, plan: plan, writer: writer, svc: svc}
}

func (f *reportFixture) request() ReportRequest {
	return ReportRequest{
		Plan:            f.plan,
		Iterations:      testIterations,
		ConfidenceLevel: bootstrap.DefaultConfidenceLevel,
		RecordsDir:      f.dir,
		CorpusDir:       filepath.Join(f.dir, "src_files"),
		ReportID:        "report-1",
	}
}

func TestReportService_Run(t *testing.T) {
	f := newReportFixture(t, 5)
	f.writer.On("Write", mock.Anything, mock.AnythingOfType("*report.Report")).Return(nil)

	r, err := f.svc.Run(context.Background(), f.request())
	require.NoError(t, err)
	f.writer.AssertExpectations(t)

	assert.Equal(t, core.ReportID("report-1"), r.ID)
	assert.Equal(t, 5, r.RunCount)
	assert.Equal(t, int64(42), r.Seed)
	assert.Equal(t, report.CorpusSize{Files: 1, Bytes: 10}, r.Corpus)

	require.Len(t, r.Experiments, 3)
	mf, ok := r.Experiment("mf")
	require.True(t, ok)
	assert.Len(t, mf.Statistics(), len(bootstrap.AllStatistics))
	panicSummary, ok := r.Experiment("panic")
	require.True(t, ok)
	_, hasCost := panicSummary.Interval(bootstrap.CostMean)
	assert.False(t, hasCost)

	order := r.TableOrder()
	assert.Equal(t, core.ExperimentName("panic"), order[0].Name)

	require.Len(t, r.Comparisons, 3)
	assert.Equal(t, "mfrevtimeratio", r.Comparisons[0].Name)
	assert.Greater(t, r.Comparisons[0].Interval.Median, 100.0, "mfrev was generated slower")
	assert.Equal(t, 2, r.Comparisons[1].ErrorDigits)
	assert.Equal(t, bootstrap.FailureRate, r.Comparisons[2].Statistic)

	require.Len(t, r.TimeHistograms, 2)
	assert.Len(t, r.TimeHistograms[0].Bins, 10)
	require.Len(t, r.ErrorLocationHistograms, 2)
	full := r.ErrorLocationHistograms[0]
	assert.Equal(t, 12.0, full.X.Binning.Max)
	assert.True(t, full.X.Binning.InclusiveMax)
	assert.Equal(t, 5.0, r.ErrorLocationHistograms[1].Y.Binning.Max)

	data, err := os.ReadFile(filepath.Join(f.dir, "mf.csv"))
	require.NoError(t, err)
	assert.Equal(t, core.NewHash(data), mf.Digest)
	require.Len(t, r.Fingerprint.Inputs, 3)
	assert.Equal(t, core.ExperimentName("mfrev"), r.Fingerprint.Inputs[1].Experiment)
	assert.True(t, r.Fingerprint.Reproducible())
}

func TestReportService_FingerprintStable(t *testing.T) {
	f := newReportFixture(t, 5)

	first, err := f.svc.Build(context.Background(), f.request())
	require.NoError(t, err)
	second, err := f.svc.Build(context.Background(), f.request())
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint.Value, second.Fingerprint.Value)
	mf, _ := first.Experiment("mf")
	mfAgain, _ := second.Experiment("mf")
	assert.Equal(t, mf.Intervals, mfAgain.Intervals)
}

func TestReportService_RunCountMismatch(t *testing.T) {
	f := newReportFixture(t, 4)

	_, err := f.svc.Run(context.Background(), f.request())
	assert.True(t, core.IsCorpusInconsistent(err), "got %v", err)
	f.writer.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestReportService_WriterFailure(t *testing.T) {
	f := newReportFixture(t, 5)
	f.writer.On("Write", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := f.svc.Run(context.Background(), f.request())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mock: disk full")
}

func TestReportService_MissingRecords(t *testing.T) {
	f := newReportFixture(t, 5)
	require.NoError(t, os.Remove(filepath.Join(f.dir, "mf_rev.csv")))

	_, err := f.svc.Build(context.Background(), f.request())
	assert.Error(t, err)
}

func TestReportService_Cancelled(t *testing.T) {
	f := newReportFixture(t, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Build(ctx, f.request())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorLocationBinning(t *testing.T) {
	x := generated(t, "mf", nil)
	y := generated(t, "mfrev", func(c *testkit.CorpusConfig) { c.Seed = 9 })

	full := errorLocationBinning(config.ErrorLocationHistogramPlan{Bins: 6}, x, y)
	assert.Equal(t, float64(MaxErrorLocations(x, y)), full.Max)
	assert.True(t, full.InclusiveMax)

	zoomed := errorLocationBinning(config.ErrorLocationHistogramPlan{Bins: 5, Zoom: 3}, x, y)
	assert.Equal(t, 3.0, zoomed.Max)
}

func TestErrorLocationBinning_NoErrorLocations(t *testing.T) {
	quiet := func(name string) *ResultSet {
		return newTestSet(t, name, false, []experiment.Observation{
			obs("a", 0, 0.1, true),
			obs("b", 0, 0.2, true),
		})
	}
	x, y := quiet("x"), quiet("y")

	binning := errorLocationBinning(config.ErrorLocationHistogramPlan{Bins: 4}, x, y)
	require.NoError(t, binning.Validate())
	assert.Equal(t, 1.0, binning.Max)

	hist, err := newBinner().ErrorLocations(x, binning, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, hist.Bins[0].Interval.Median, "both files have zero error locations")
	assert.Equal(t, 0.0, hist.Bins[3].Interval.Median)
}

func TestScheduleComparisons(t *testing.T) {
	plan, err := config.ParsePlan([]byte(testPlan))
	require.NoError(t, err)

	schedule, lastUse := scheduleComparisons(plan)
	require.Len(t, schedule, 3)
	assert.Equal(t, scheduledComparison{comparison: 0, ready: 1}, schedule[0])
	assert.Equal(t, scheduledComparison{comparison: 1, ready: 1}, schedule[1])
	assert.Equal(t, scheduledComparison{comparison: 2, ready: 2}, schedule[2])

	assert.Equal(t, 0, lastUse[statKey{"mf", bootstrap.RecoveryTimeMean}])
	assert.Equal(t, 1, lastUse[statKey{"mfrev", bootstrap.ErrorLocations}])
	assert.Equal(t, 2, lastUse[statKey{"panic", bootstrap.FailureRate}])
	_, ok := lastUse[statKey{"panic", bootstrap.RecoveryTimeMean}]
	assert.False(t, ok)
}

func TestArchiveWriter(t *testing.T) {
	r := &report.Report{
		ID:              "report-1",
		Iterations:      100,
		ConfidenceLevel: 0.99,
		Experiments: []report.ExperimentSummary{{
			Name: "mf",
			Intervals: map[bootstrap.Statistic]bootstrap.Interval{
				bootstrap.FailureRate:      {Median: 1},
				bootstrap.RecoveryTimeMean: {Median: 2},
			},
		}},
		Comparisons: []report.ComparisonResult{{Name: "ratio", X: "mfrev", Y: "mf", Interval: bootstrap.Interval{Median: 101}}},
	}

	rows := FlattenIntervals(r)
	require.Len(t, rows, 3)
	assert.Equal(t, "recovery_time_mean", rows[0].Statistic)
	assert.Equal(t, "failure_rate", rows[1].Statistic)
	assert.Equal(t, "mfrev/mf", rows[2].Subject)
	assert.Equal(t, "ratio", rows[2].Statistic)
	assert.Equal(t, 101.0, rows[2].Median)
	assert.Equal(t, core.ReportID("report-1"), rows[2].ReportID)

	archive := &MockIntervalArchive{}
	archive.On("SaveIntervals", mock.Anything, mock.MatchedBy(func(rows []ports.ArchivedInterval) bool {
		return len(rows) == 3
	})).Return(nil)

	w := NewArchiveWriter(archive)
	require.NoError(t, w.Write(context.Background(), r))
	archive.AssertExpectations(t)
}
