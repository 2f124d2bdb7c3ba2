package app

import (
	"fmt"
	"time"

	"recoverystats/domain/bootstrap"
	"recoverystats/domain/core"
	"recoverystats/domain/experiment"
	"recoverystats/internal"
	"recoverystats/ports"
)

// ResultSetConfig describes one experiment's corpus of results
type ResultSetConfig struct {
	Name            core.ExperimentName
	Label           string
	TracksCosts     bool
	Iterations      int
	ConfidenceLevel float64
}

// reusedStatistics keep their distribution after the interval is computed
// because comparisons usually combine them.
var reusedStatistics = map[bootstrap.Statistic]bool{
	bootstrap.RecoveryTimeMean: true,
	bootstrap.ErrorLocations:   true,
}

// ResultSet holds one experiment's grouped observations and the confidence
// intervals of its derived statistics. Intervals are computed once at
// construction and never change; distributions may be evicted and
// recomputed on demand.
type ResultSet struct {
	config    ResultSetConfig
	groups    experiment.Groups
	rngPort   ports.RNGPort
	estimator ports.ConfidenceEstimator
	logger    *internal.Logger

	intervals map[bootstrap.Statistic]bootstrap.Interval
	cache     *bootstrap.Cache
}

// NewResultSet groups the observations and bootstraps every statistic the
// experiment supports
func NewResultSet(cfg ResultSetConfig, observations []experiment.Observation, rngPort ports.RNGPort,
	estimator ports.ConfidenceEstimator, logger *internal.Logger) (*ResultSet, error) {
	if cfg.Iterations < 1 {
		return nil, core.NewDegenerateInputError("%s: iterations must be positive, got %d", cfg.Name, cfg.Iterations)
	}

	groups := experiment.GroupBySample(observations)
	if groups.Len() == 0 {
		return nil, core.NewDegenerateInputError("%s: no observations", cfg.Name)
	}
	if short := groups.ShortGroups(); len(short) > 0 {
		logger.Warn("[%s] %d of %d samples have fewer than %d runs", cfg.Name, len(short), groups.Len(), groups.RunCount())
	}

	rs := &ResultSet{
		config:    cfg,
		groups:    groups,
		rngPort:   rngPort,
		estimator: estimator,
		logger:    logger,
		intervals: make(map[bootstrap.Statistic]bootstrap.Interval),
		cache:     bootstrap.NewCache(),
	}

	start := time.Now()
	for _, stat := range rs.Statistics() {
		dist, err := rs.resample(stat)
		if err != nil {
			return nil, err
		}
		iv, err := rs.estimator.Estimate(dist, cfg.ConfidenceLevel)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", cfg.Name, stat, err)
		}
		rs.intervals[stat] = iv
		if reusedStatistics[stat] {
			rs.cache.Put(stat, dist)
		}
		logger.Debug("[%s] %s: %s", cfg.Name, stat, iv)
	}
	logger.Info("[%s] bootstrapped %d statistics over %d samples in %s",
		cfg.Name, len(rs.intervals), groups.Len(), time.Since(start).Round(time.Millisecond))

	return rs, nil
}

// Statistics lists the statistics this set reports, in reporting order.
// Costs are only meaningful for experiments that track them.
func (rs *ResultSet) Statistics() []bootstrap.Statistic {
	out := make([]bootstrap.Statistic, 0, len(bootstrap.AllStatistics))
	for _, stat := range bootstrap.AllStatistics {
		if stat == bootstrap.CostMean && !rs.config.TracksCosts {
			continue
		}
		out = append(out, stat)
	}
	return out
}

func (rs *ResultSet) resample(stat bootstrap.Statistic) (bootstrap.Distribution, error) {
	reduce, err := bootstrap.Reducer(stat)
	if err != nil {
		return nil, err
	}
	resampler := bootstrap.NewResampler(rs.rngPort.Stream(rs.config.Name, stat.String()))
	dist, err := resampler.Resample(rs.groups, rs.config.Iterations, reduce)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", rs.config.Name, stat, err)
	}
	if dist.Len() == 0 {
		return nil, core.NewDegenerateInputError("%s: %s: every round was dropped", rs.config.Name, stat)
	}
	rs.logger.Trace("[%s] %s: %d of %d rounds kept", rs.config.Name, stat, dist.Len(), rs.config.Iterations)
	return dist, nil
}

// Interval returns the interval computed for stat
func (rs *ResultSet) Interval(stat bootstrap.Statistic) (bootstrap.Interval, bool) {
	iv, ok := rs.intervals[stat]
	return iv, ok
}

// Intervals returns a copy of every computed interval
func (rs *ResultSet) Intervals() map[bootstrap.Statistic]bootstrap.Interval {
	out := make(map[bootstrap.Statistic]bootstrap.Interval, len(rs.intervals))
	for stat, iv := range rs.intervals {
		out[stat] = iv
	}
	return out
}

// Distribution returns the bootstrap distribution of stat. A distribution
// that is not cached is recomputed and cached. With a seeded RNG port the
// recomputed distribution is identical to the evicted one.
func (rs *ResultSet) Distribution(stat bootstrap.Statistic) (bootstrap.Distribution, error) {
	if dist, ok := rs.cache.Get(stat); ok {
		return dist, nil
	}
	if _, ok := rs.intervals[stat]; !ok {
		return nil, fmt.Errorf("%s: %w: statistic %s", rs.config.Name, core.ErrNotFound, stat)
	}
	rs.logger.Debug("[%s] recomputing %s distribution", rs.config.Name, stat)
	dist, err := rs.resample(stat)
	if err != nil {
		return nil, err
	}
	rs.cache.Put(stat, dist)
	return dist, nil
}

// Cached reports whether the distribution of stat is currently held
func (rs *ResultSet) Cached(stat bootstrap.Statistic) bool {
	_, ok := rs.cache.Get(stat)
	return ok
}

// CachedValues returns the number of scalars held by the cache
func (rs *ResultSet) CachedValues() int { return rs.cache.Values() }

// Evict drops the cached distribution of stat. Intervals are unaffected.
func (rs *ResultSet) Evict(stat bootstrap.Statistic) { rs.cache.Evict(stat) }

// EvictAll drops every cached distribution
func (rs *ResultSet) EvictAll() { rs.cache.EvictAll() }

func (rs *ResultSet) Name() core.ExperimentName { return rs.config.Name }
func (rs *ResultSet) Label() string { return rs.config.Label }
func (rs *ResultSet) TracksCosts() bool { return rs.config.TracksCosts }
func (rs *ResultSet) Iterations() int { return rs.config.Iterations }
func (rs *ResultSet) Groups() experiment.Groups { return rs.groups }
func (rs *ResultSet) RunCount() int { return rs.groups.RunCount() }
