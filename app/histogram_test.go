package app

import (
	"testing"

	"recoverystats/domain/bootstrap"
	"recoverystats/domain/core"
	"recoverystats/domain/experiment"
	"recoverystats/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBinner() *HistogramBinner {
	return NewHistogramBinner(testkit.RNGAdapter(), testkit.EstimatorAdapter(), testIterations, bootstrap.DefaultConfidenceLevel)
}

func TestHistogramBinner_RecoveryTimes(t *testing.T) {
	// every run of every sample lands in bin 1, so each round counts exactly
	// one observation per group there
	rs := newTestSet(t, "mf", true, []experiment.Observation{
		obs("a", 0, 0.0015, true, 1),
		obs("a", 1, 0.0016, true, 1),
		obs("b", 0, 0.0017, true, 1),
		obs("b", 1, 0.0018, false, 1),
		obs("c", 0, 0.0019, true, 1),
		obs("c", 1, 0.0042, true, 1),
	})

	hist, err := newBinner().RecoveryTimes(rs, bootstrap.Binning{Bins: 5, Max: 0.005})
	require.NoError(t, err)
	require.Len(t, hist.Bins, 5)
	assert.Equal(t, "mf", hist.Name)
	assert.Equal(t, 3, hist.Groups)

	assert.Equal(t, 0.0, hist.Bins[0].Interval.Median)
	assert.Equal(t, 0.0, hist.Bins[2].Interval.Median)
	assert.Equal(t, 0.0, hist.Bins[3].Interval.Upper)

	total := 0.0
	for _, b := range hist.Bins {
		assert.GreaterOrEqual(t, b.Interval.Lower, 0.0)
		assert.LessOrEqual(t, b.Interval.Upper, 3.0)
	}
	for _, m := range hist.Medians() {
		total += m
	}
	assert.LessOrEqual(t, total, 3.0)
	assert.InDelta(t, 0.001, hist.Bins[1].Lower, 1e-12)
	assert.InDelta(t, 0.002, hist.Bins[1].Upper, 1e-12)
	assert.Len(t, hist.Errors(), 5)
}

func TestHistogramBinner_ErrorLocations(t *testing.T) {
	rs := newTestSet(t, "mf", true, []experiment.Observation{
		obs("ok", 0, 0.1, true, 1, 1, 1),
		obs("failed", 0, 0.1, false, 1),
		obs("huge", 0, 0.1, true, make([]int, 60)...),
	})
	binner := newBinner()

	zoomed, err := binner.ErrorLocations(rs, bootstrap.Binning{Bins: 5, Max: 50, InclusiveMax: true}, 50)
	require.NoError(t, err)
	// only "ok" (3 locations, bin 0) is counted; failed runs and runs over the zoom are skipped
	assert.Equal(t, 1.0, zoomed.Bins[0].Interval.Median)
	for _, b := range zoomed.Bins[1:] {
		assert.Equal(t, 0.0, b.Interval.Median)
	}

	full, err := binner.ErrorLocations(rs, bootstrap.Binning{Bins: 6, Max: float64(MaxErrorLocations(rs)), InclusiveMax: true}, 0)
	require.NoError(t, err)
	// 60 locations equals the range maximum and lands in the closed top bin
	assert.Equal(t, 1.0, full.Bins[5].Interval.Median)
	assert.Equal(t, 1.0, full.Bins[0].Interval.Median)
}

func TestHistogramBinner_InvalidBinning(t *testing.T) {
	rs := generated(t, "mf", nil)
	_, err := newBinner().RecoveryTimes(rs, bootstrap.Binning{Bins: 0, Max: 0.5})
	assert.True(t, core.IsDegenerateInput(err))
}

func TestMaxErrorLocations(t *testing.T) {
	a := newTestSet(t, "a", true, []experiment.Observation{obs("x", 0, 0.1, true, 1, 2)})
	b := newTestSet(t, "b", true, []experiment.Observation{obs("x", 0, 0.1, true, 1, 2, 3, 4)})
	assert.Equal(t, 4, MaxErrorLocations(a, b))
	assert.Equal(t, 0, MaxErrorLocations())
}
