package config

import (
	"fmt"
	"os"

	"recoverystats/domain/core"
	"recoverystats/internal/errors"

	"gopkg.in/yaml.v3"
)

// Plan describes one report: the corpora to load, the ratio statistics to
// compare and the histograms to draw.
type Plan struct {
	Experiments             []ExperimentPlan             `yaml:"experiments" validate:"required,min=1,dive"`
	Comparisons             []ComparisonPlan             `yaml:"comparisons" validate:"dive"`
	TimeHistograms          TimeHistogramPlan            `yaml:"time_histograms"`
	ErrorLocationHistograms []ErrorLocationHistogramPlan `yaml:"error_location_histograms" validate:"dive"`
}

// ExperimentPlan is one corpus of per-run records
type ExperimentPlan struct {
	Name        string `yaml:"name" validate:"required"`
	Label       string `yaml:"label" validate:"required"` // LaTeX macro prefix, e.g. \mf
	Records     string `yaml:"records" validate:"required"`
	TracksCosts bool   `yaml:"tracks_costs"`
}

// ComparisonPlan is a ratio statistic between two experiments
type ComparisonPlan struct {
	Name         string `yaml:"name" validate:"required,alpha"`
	Statistic    string `yaml:"statistic" validate:"oneof=recovery_time_mean recovery_time_median failure_rate error_locations cost_mean input_skipped"`
	Kind         string `yaml:"kind" validate:"oneof=ratio relative_difference"`
	X            string `yaml:"x" validate:"required"`
	Y            string `yaml:"y" validate:"required"`
	MedianDigits int    `yaml:"median_digits" validate:"gte=0,lte=9"`
	ErrorDigits  int    `yaml:"error_digits" validate:"gte=0,lte=9"`
}

// UnmarshalYAML defaults both digit counts to 1 when their keys are absent;
// an explicit 0 prints no decimals
func (c *ComparisonPlan) UnmarshalYAML(value *yaml.Node) error {
	type plain ComparisonPlan
	decoded := plain{MedianDigits: 1, ErrorDigits: 1}
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*c = ComparisonPlan(decoded)
	return nil
}

// TimeHistogramPlan draws one recovery time histogram per listed experiment
type TimeHistogramPlan struct {
	Experiments []string `yaml:"experiments"`
	Bins        int      `yaml:"bins" validate:"gte=0"`
	MaxSeconds  float64  `yaml:"max_seconds" validate:"gte=0"`
}

// ErrorLocationHistogramPlan draws a paired error location histogram
type ErrorLocationHistogramPlan struct {
	Name string `yaml:"name" validate:"required"`
	X    string `yaml:"x" validate:"required"`
	Y    string `yaml:"y" validate:"required"`
	Bins int    `yaml:"bins" validate:"gte=0"`
	Zoom int    `yaml:"zoom" validate:"gte=0"` // zero draws the full range
}

// LoadPlan reads and validates a YAML plan file
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read plan %s", path)
	}
	return ParsePlan(data)
}

// ParsePlan decodes a YAML plan, fills defaults and validates it
func ParsePlan(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "failed to parse plan")
	}
	plan.applyDefaults()
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (p *Plan) applyDefaults() {
	if p.TimeHistograms.Bins == 0 {
		p.TimeHistograms.Bins = 75
	}
	if p.TimeHistograms.MaxSeconds == 0 {
		p.TimeHistograms.MaxSeconds = 0.5
	}
	for i := range p.ErrorLocationHistograms {
		if p.ErrorLocationHistograms[i].Bins == 0 {
			p.ErrorLocationHistograms[i].Bins = 50
		}
	}
}

// Validate checks struct constraints and that every reference names a
// declared experiment
func (p *Plan) Validate() error {
	if err := configValidator.Struct(p); err != nil {
		return errors.ConfigInvalid(err.Error())
	}

	known := make(map[string]bool, len(p.Experiments))
	for _, e := range p.Experiments {
		if known[e.Name] {
			return errors.ConfigInvalid(fmt.Sprintf("experiment %q declared twice", e.Name))
		}
		known[e.Name] = true
	}

	check := func(where, name string) error {
		if !known[name] {
			return errors.ConfigInvalid(fmt.Sprintf("%s refers to unknown experiment %q", where, name))
		}
		return nil
	}
	for _, c := range p.Comparisons {
		if err := check("comparison "+c.Name, c.X); err != nil {
			return err
		}
		if err := check("comparison "+c.Name, c.Y); err != nil {
			return err
		}
	}
	for _, name := range p.TimeHistograms.Experiments {
		if err := check("time histogram", name); err != nil {
			return err
		}
	}
	for _, h := range p.ErrorLocationHistograms {
		if err := check("error location histogram "+h.Name, h.X); err != nil {
			return err
		}
		if err := check("error location histogram "+h.Name, h.Y); err != nil {
			return err
		}
	}
	return nil
}

// Experiment returns the named experiment plan
func (p *Plan) Experiment(name string) (ExperimentPlan, bool) {
	for _, e := range p.Experiments {
		if e.Name == name {
			return e, true
		}
	}
	return ExperimentPlan{}, false
}

// Digest hashes the plan after defaults were filled in, so equivalent YAML
// spellings of one plan share a digest
func (p *Plan) Digest() (core.Hash, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode plan")
	}
	return core.NewHash(data), nil
}

// DefaultPlanYAML reproduces the paper's report: three error recovery
// algorithms plus the panic-mode baseline, which records no repair costs.
const DefaultPlanYAML = `experiments:
  - {name: cpctplus, label: '\cpctplus', records: cpctplus.csv, tracks_costs: true}
  - {name: mf, label: '\mf', records: mf.csv, tracks_costs: true}
  - {name: mfrev, label: '\mfrev', records: mf_rev.csv, tracks_costs: true}
  - {name: panic, label: '\panic', records: panic.csv, tracks_costs: false}
comparisons:
  - {name: mfcpctplusfailurerateratio, statistic: recovery_time_mean, kind: ratio, x: mf, y: cpctplus}
  - {name: mfreverrorlocsratioovermf, statistic: error_locations, kind: relative_difference, x: mfrev, y: mf, error_digits: 2}
time_histograms:
  experiments: [cpctplus, mf, mfrev, panic]
  bins: 75
  max_seconds: 0.5
error_location_histograms:
  - {name: mf_mfrev_error_locs_histogram_full, x: mf, y: mfrev, bins: 50}
  - {name: mf_mfrev_error_locs_histogram_zoomed, x: mf, y: mfrev, bins: 50, zoom: 50}
  - {name: mf_panic_error_locs_histogram_full, x: mf, y: panic, bins: 50}
`

// DefaultPlan returns the parsed default plan
func DefaultPlan() *Plan {
	plan, err := ParsePlan([]byte(DefaultPlanYAML))
	if err != nil {
		panic(err)
	}
	return plan
}
