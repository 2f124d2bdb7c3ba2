package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"recoverystats/domain/bootstrap"
	"recoverystats/domain/core"
	"recoverystats/domain/report"
	"recoverystats/internal"
	"recoverystats/internal/config"
	"recoverystats/internal/corpus"
	"recoverystats/ports"
)

// ReportRequest defines the inputs of one report run
type ReportRequest struct {
	Plan            *config.Plan
	Iterations      int
	ConfidenceLevel float64
	RecordsDir      string        // base for relative record paths in the plan
	CorpusDir       string        // input programs; empty skips measuring
	ReportID        core.ReportID // optional, generated if empty
}

// ReportService loads every experiment of a plan, bootstraps it, and hands
// the finished report to the writers
type ReportService struct {
	source    ports.RecordSource
	rngPort   ports.RNGPort
	estimator ports.ConfidenceEstimator
	logger    *internal.Logger
	writers   []ports.ReportWriter
}

// NewReportService creates a report service
func NewReportService(source ports.RecordSource, rngPort ports.RNGPort, estimator ports.ConfidenceEstimator,
	logger *internal.Logger, writers ...ports.ReportWriter) *ReportService {
	return &ReportService{
		source:    source,
		rngPort:   rngPort,
		estimator: estimator,
		logger:    logger,
		writers:   writers,
	}
}

type statKey struct {
	experiment string
	stat       bootstrap.Statistic
}

// Build computes the report without writing it. Experiments are loaded in
// plan order and every comparison runs as soon as both of its operands are
// loaded, so cached distributions can be evicted after their last use.
func (s *ReportService) Build(ctx context.Context, req ReportRequest) (*report.Report, error) {
	plan := req.Plan
	start := time.Now()

	r := &report.Report{
		ID:              req.ReportID,
		CreatedAt:       start.UTC(),
		Iterations:      req.Iterations,
		ConfidenceLevel: req.ConfidenceLevel,
		Seed:            s.rngPort.Seed(),
		Comparisons:     make([]report.ComparisonResult, len(plan.Comparisons)),
	}
	if r.ID == "" {
		r.ID = core.NewReportID()
	}

	schedule, lastUse := scheduleComparisons(plan)
	used := make(map[statKey]bool, len(lastUse))
	for key := range lastUse {
		used[key] = true
	}

	comparator := NewComparator(s.estimator, req.ConfidenceLevel)
	sets := make(map[string]*ResultSet, len(plan.Experiments))
	inputs := make([]report.InputDigest, 0, len(plan.Experiments))
	var first *ResultSet
	step := 0

	for i, exp := range plan.Experiments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rs, digest, err := s.load(exp, req)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, report.InputDigest{Experiment: rs.Name(), Digest: digest})
		if first == nil {
			first = rs
		} else if err := CheckRunCounts(first, rs); err != nil {
			return nil, err
		}
		sets[exp.Name] = rs
		for _, stat := range rs.Statistics() {
			if !used[statKey{exp.Name, stat}] {
				rs.Evict(stat)
			}
		}

		for ; step < len(schedule) && schedule[step].ready <= i; step++ {
			idx := schedule[step].comparison
			cmp := plan.Comparisons[idx]
			result, err := s.compare(comparator, sets, cmp)
			if err != nil {
				return nil, err
			}
			r.Comparisons[idx] = result
			for _, key := range []statKey{{cmp.X, result.Statistic}, {cmp.Y, result.Statistic}} {
				if lastUse[key] == step {
					sets[key.experiment].Evict(key.stat)
				}
			}
		}
	}

	r.RunCount = first.RunCount()
	for i, exp := range plan.Experiments {
		rs := sets[exp.Name]
		r.Experiments = append(r.Experiments, report.ExperimentSummary{
			Name:        rs.Name(),
			Label:       rs.Label(),
			TracksCosts: rs.TracksCosts(),
			Groups:      rs.Groups().Len(),
			Digest:      inputs[i].Digest,
			Intervals:   rs.Intervals(),
		})
	}

	planDigest, err := plan.Digest()
	if err != nil {
		return nil, err
	}
	r.Fingerprint = report.NewFingerprint(r.Seed, req.Iterations, req.ConfidenceLevel, planDigest, inputs)

	binner := NewHistogramBinner(s.rngPort, s.estimator, req.Iterations, req.ConfidenceLevel)
	if err := s.histograms(binner, plan, sets, r); err != nil {
		return nil, err
	}

	if req.CorpusDir != "" {
		size, err := corpus.Measure(req.CorpusDir)
		if err != nil {
			return nil, err
		}
		r.Corpus = size
	} else {
		s.logger.Debug("[report] no corpus directory configured, corpus size left empty")
	}

	s.logger.Info("[report] %s built in %s (fingerprint %s)", r.ID, time.Since(start).Round(time.Millisecond), r.Fingerprint.Value.Short())
	return r, nil
}

// Run builds the report and passes it to every writer in order
func (s *ReportService) Run(ctx context.Context, req ReportRequest) (*report.Report, error) {
	r, err := s.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, w := range s.writers {
		s.logger.Info("[report] writing %s", w.Name())
		if err := w.Write(ctx, r); err != nil {
			return nil, fmt.Errorf("%s: %w", w.Name(), err)
		}
	}
	return r, nil
}

func (s *ReportService) load(exp config.ExperimentPlan, req ReportRequest) (*ResultSet, core.Hash, error) {
	path := exp.Records
	if req.RecordsDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(req.RecordsDir, path)
	}
	s.logger.Info("[report] loading %s from %s", exp.Name, path)

	observations, digest, err := s.source.Load(path, exp.TracksCosts)
	if err != nil {
		return nil, "", err
	}
	rs, err := NewResultSet(ResultSetConfig{
		Name:            core.ExperimentName(exp.Name),
		Label:           exp.Label,
		TracksCosts:     exp.TracksCosts,
		Iterations:      req.Iterations,
		ConfidenceLevel: req.ConfidenceLevel,
	}, observations, s.rngPort, s.estimator, s.logger)
	if err != nil {
		return nil, "", err
	}
	return rs, digest, nil
}

func (s *ReportService) compare(comparator *Comparator, sets map[string]*ResultSet, cmp config.ComparisonPlan) (report.ComparisonResult, error) {
	stat, err := bootstrap.ParseStatistic(cmp.Statistic)
	if err != nil {
		return report.ComparisonResult{}, err
	}
	kind, err := bootstrap.ParseCombineKind(cmp.Kind)
	if err != nil {
		return report.ComparisonResult{}, err
	}

	iv, err := comparator.Compare(sets[cmp.X], sets[cmp.Y], stat, kind)
	if err != nil {
		return report.ComparisonResult{}, fmt.Errorf("comparison %s: %w", cmp.Name, err)
	}
	s.logger.Info("[report] %s: %s", cmp.Name, iv)

	return report.ComparisonResult{
		Name:         cmp.Name,
		X:            core.ExperimentName(cmp.X),
		Y:            core.ExperimentName(cmp.Y),
		Statistic:    stat,
		Kind:         kind,
		MedianDigits: cmp.MedianDigits,
		ErrorDigits:  cmp.ErrorDigits,
		Interval:     iv,
	}, nil
}

func (s *ReportService) histograms(binner *HistogramBinner, plan *config.Plan, sets map[string]*ResultSet, r *report.Report) error {
	timeBinning := bootstrap.Binning{Bins: plan.TimeHistograms.Bins, Max: plan.TimeHistograms.MaxSeconds}
	for _, name := range plan.TimeHistograms.Experiments {
		hist, err := binner.RecoveryTimes(sets[name], timeBinning)
		if err != nil {
			return err
		}
		r.TimeHistograms = append(r.TimeHistograms, hist)
	}

	for _, h := range plan.ErrorLocationHistograms {
		x, y := sets[h.X], sets[h.Y]
		binning := errorLocationBinning(h, x, y)

		xh, err := binner.ErrorLocations(x, binning, h.Zoom)
		if err != nil {
			return err
		}
		yh, err := binner.ErrorLocations(y, binning, h.Zoom)
		if err != nil {
			return err
		}
		r.ErrorLocationHistograms = append(r.ErrorLocationHistograms, report.PairedHistogram{
			Name: h.Name,
			Zoom: h.Zoom,
			X:    xh,
			Y:    yh,
		})
		s.logger.Debug("[report] %s: %d bins over [0, %g]", h.Name, h.Bins, binning.Max)
	}
	return nil
}

// errorLocationBinning spans [0, zoom], or [0, most error locations of x
// and y] without zoom. An empty range is widened to [0, 1].
func errorLocationBinning(h config.ErrorLocationHistogramPlan, x, y *ResultSet) bootstrap.Binning {
	limit := h.Zoom
	if limit == 0 {
		limit = MaxErrorLocations(x, y)
	}
	if limit == 0 {
		limit = 1
	}
	return bootstrap.Binning{Bins: h.Bins, Max: float64(limit), InclusiveMax: true}
}

type scheduledComparison struct {
	comparison int // index into the plan's comparisons
	ready      int // index of the experiment whose load makes it runnable
}

// scheduleComparisons orders comparisons by when both operands are loaded,
// keeping plan order among comparisons that become ready together. lastUse
// maps every (experiment, statistic) a comparison reads to the schedule
// position of its final read.
func scheduleComparisons(plan *config.Plan) ([]scheduledComparison, map[statKey]int) {
	position := make(map[string]int, len(plan.Experiments))
	for i, exp := range plan.Experiments {
		position[exp.Name] = i
	}

	var schedule []scheduledComparison
	for ready := range plan.Experiments {
		for i, cmp := range plan.Comparisons {
			if max(position[cmp.X], position[cmp.Y]) == ready {
				schedule = append(schedule, scheduledComparison{comparison: i, ready: ready})
			}
		}
	}

	lastUse := make(map[statKey]int)
	for step, sc := range schedule {
		cmp := plan.Comparisons[sc.comparison]
		stat := bootstrap.Statistic(cmp.Statistic)
		lastUse[statKey{cmp.X, stat}] = step
		lastUse[statKey{cmp.Y, stat}] = step
	}
	return schedule, lastUse
}
