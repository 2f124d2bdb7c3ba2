package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrDataAnomaly marks a record that is well formed but statistically
	// meaningless, such as a successful run with no recorded error locations
	// in a variant that tracks costs. Such records are dropped, not fatal.
	ErrDataAnomaly = errors.New("data anomaly")

	// ErrCorpusInconsistent marks misaligned inputs: unequal run counts across
	// compared corpora or unequal bootstrap distribution lengths.
	ErrCorpusInconsistent = errors.New("corpus inconsistency")

	// ErrDegenerateInput marks a zero denominator or an empty corpus.
	ErrDegenerateInput = errors.New("degenerate statistic input")

	ErrInvalidRecord = errors.New("invalid record")
	ErrNotFound      = errors.New("resource not found")
)

// NewInconsistencyError wraps ErrCorpusInconsistent with context
func NewInconsistencyError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCorpusInconsistent, fmt.Sprintf(format, args...))
}

// NewDegenerateInputError wraps ErrDegenerateInput with context
func NewDegenerateInputError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDegenerateInput, fmt.Sprintf(format, args...))
}

// NewInvalidRecordError wraps ErrInvalidRecord with the offending line
func NewInvalidRecordError(line int, reason string) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalidRecord, line, reason)
}

// IsCorpusInconsistent reports whether err is a corpus inconsistency
func IsCorpusInconsistent(err error) bool {
	return errors.Is(err, ErrCorpusInconsistent)
}

// IsDegenerateInput reports whether err is a degenerate statistic input
func IsDegenerateInput(err error) bool {
	return errors.Is(err, ErrDegenerateInput)
}
