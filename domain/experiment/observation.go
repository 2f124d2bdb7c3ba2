package experiment

import (
	"fmt"

	"recoverystats/domain/core"

	"github.com/go-playground/validator/v10"
)

// Record is the mutable, validated shape of one parser run as it crosses the
// ingestion boundary. It becomes an Observation once validated.
type Record struct {
	SampleName     string  `validate:"required"`
	RunIndex       int     `validate:"gte=0"`
	RecoveryTime   float64 `validate:"gte=0"`
	Succeeded      bool
	ErrorCosts     []int `validate:"dive,gte=0"`
	LexemesTotal   int   `validate:"gte=0"`
	LexemesSkipped int   `validate:"gte=0,ltefield=LexemesTotal"`
}

var recordValidator = validator.New()

// Observation is one measured trial (a single parser run on one input file).
// It is immutable: all fields are unexported and ErrorCosts is copied on the
// way in and on the way out.
type Observation struct {
	sampleName     string
	runIndex       int
	recoveryTime   float64
	succeeded      bool
	errorCosts     []int
	lexemesTotal   int
	lexemesSkipped int
}

// NewObservation validates a record and freezes it into an Observation
func NewObservation(r Record) (Observation, error) {
	if err := recordValidator.Struct(r); err != nil {
		return Observation{}, fmt.Errorf("%w: %s (run %d): %v", core.ErrInvalidRecord, r.SampleName, r.RunIndex, err)
	}
	costs := make([]int, len(r.ErrorCosts))
	copy(costs, r.ErrorCosts)
	return Observation{
		sampleName:     r.SampleName,
		runIndex:       r.RunIndex,
		recoveryTime:   r.RecoveryTime,
		succeeded:      r.Succeeded,
		errorCosts:     costs,
		lexemesTotal:   r.LexemesTotal,
		lexemesSkipped: r.LexemesSkipped,
	}, nil
}

// MustObservation is NewObservation for fixtures; it panics on invalid input.
func MustObservation(r Record) Observation {
	obs, err := NewObservation(r)
	if err != nil {
		panic(err)
	}
	return obs
}

// CheckAnomaly reports ErrDataAnomaly for a successful run without any
// recorded error location when the experiment variant tracks costs.
func (o Observation) CheckAnomaly(tracksCosts bool) error {
	if tracksCosts && o.succeeded && len(o.errorCosts) == 0 {
		return fmt.Errorf("%w: %s (run %d) succeeded without parsing errors", core.ErrDataAnomaly, o.sampleName, o.runIndex)
	}
	return nil
}

func (o Observation) SampleName() string    { return o.sampleName }
func (o Observation) RunIndex() int         { return o.runIndex }
func (o Observation) RecoveryTime() float64 { return o.recoveryTime }
func (o Observation) Succeeded() bool       { return o.succeeded }
func (o Observation) LexemesTotal() int     { return o.lexemesTotal }
func (o Observation) LexemesSkipped() int   { return o.lexemesSkipped }

// ErrorLocations is the number of error locations the run recovered from.
func (o Observation) ErrorLocations() int { return len(o.errorCosts) }

// ErrorCosts returns a copy of the per-location repair costs.
func (o Observation) ErrorCosts() []int {
	out := make([]int, len(o.errorCosts))
	copy(out, o.errorCosts)
	return out
}

// AppendCosts appends the repair costs as floats to dst and returns it.
// Reducers use it to pool costs without an intermediate copy.
func (o Observation) AppendCosts(dst []float64) []float64 {
	for _, c := range o.errorCosts {
		dst = append(dst, float64(c))
	}
	return dst
}
