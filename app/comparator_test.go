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

func TestComparator_SelfComparison(t *testing.T) {
	rs := generated(t, "mf", nil)
	c := NewComparator(testkit.EstimatorAdapter(), bootstrap.DefaultConfidenceLevel)

	ratio, err := c.RecoveryTimeMeanRatio(rs, rs)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, ratio.Median, 1e-9)
	assert.InDelta(t, 0.0, ratio.Error, 1e-9)

	diff, err := c.ErrorLocationsDifference(rs, rs)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, diff.Median, 1e-9)
	assert.InDelta(t, 0.0, diff.Error, 1e-9)
}

func TestComparator_FasterExperiment(t *testing.T) {
	fast := generated(t, "mf", func(c *testkit.CorpusConfig) { c.MeanTime = 0.0002 })
	slow := generated(t, "cpctplus", func(c *testkit.CorpusConfig) { c.MeanTime = 0.002; c.Seed = 7 })
	c := NewComparator(testkit.EstimatorAdapter(), bootstrap.DefaultConfidenceLevel)

	iv, err := c.RecoveryTimeMeanRatio(fast, slow)
	require.NoError(t, err)
	assert.Less(t, iv.Median, 100.0)
	assert.LessOrEqual(t, iv.Lower, iv.Median)
	assert.GreaterOrEqual(t, iv.Upper, iv.Median)
}

func TestComparator_MismatchedRounds(t *testing.T) {
	// x drops every round that draws its failed run, y drops none
	x := newTestSet(t, "x", true, []experiment.Observation{
		obs("a", 0, 0.1, false, 1),
		obs("a", 1, 0.1, true, 1),
	})
	y := newTestSet(t, "y", true, []experiment.Observation{
		obs("a", 0, 0.1, true, 1),
		obs("a", 1, 0.1, true, 2),
	})
	c := NewComparator(testkit.EstimatorAdapter(), bootstrap.DefaultConfidenceLevel)

	_, err := c.Compare(x, y, bootstrap.CostMean, bootstrap.Ratio)
	assert.True(t, core.IsCorpusInconsistent(err), "got %v", err)
}

func TestComparator_ZeroFailureRateDenominator(t *testing.T) {
	x := newTestSet(t, "x", false, []experiment.Observation{
		obs("a", 0, 0.1, false),
		obs("b", 0, 0.1, true),
	})
	// y never fails, so every round has a zero failure rate
	y := newTestSet(t, "y", false, []experiment.Observation{
		obs("a", 0, 0.1, true),
		obs("b", 0, 0.1, true),
	})
	c := NewComparator(testkit.EstimatorAdapter(), bootstrap.DefaultConfidenceLevel)

	_, err := c.Compare(x, y, bootstrap.FailureRate, bootstrap.RelativeDifference)
	require.Error(t, err)
	assert.True(t, core.IsDegenerateInput(err), "got %v", err)

	_, err = c.Compare(x, y, bootstrap.FailureRate, bootstrap.Ratio)
	assert.True(t, core.IsDegenerateInput(err), "got %v", err)
}

func TestComparator_LoadsUncachedStatistic(t *testing.T) {
	x := generated(t, "mf", nil)
	y := generated(t, "mfrev", func(c *testkit.CorpusConfig) { c.Seed = 9 })
	c := NewComparator(testkit.EstimatorAdapter(), bootstrap.DefaultConfidenceLevel)

	_, err := c.Compare(x, y, bootstrap.InputSkipped, bootstrap.RelativeDifference)
	require.NoError(t, err)
	assert.True(t, x.Cached(bootstrap.InputSkipped))
	assert.True(t, y.Cached(bootstrap.InputSkipped))
}

func TestCheckRunCounts(t *testing.T) {
	three := generated(t, "a", func(c *testkit.CorpusConfig) { c.Runs = 3 })
	threeToo := generated(t, "b", func(c *testkit.CorpusConfig) { c.Runs = 3; c.Seed = 3 })
	four := generated(t, "c", func(c *testkit.CorpusConfig) { c.Runs = 4 })

	assert.NoError(t, CheckRunCounts())
	assert.NoError(t, CheckRunCounts(three, threeToo))

	err := CheckRunCounts(three, threeToo, four)
	assert.True(t, core.IsCorpusInconsistent(err))
	assert.Contains(t, err.Error(), "c has 4 runs")
}
