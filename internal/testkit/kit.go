package testkit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"recoverystats/adapters/kalibera"
	"recoverystats/adapters/rng"
	"recoverystats/internal"
	"recoverystats/ports"
)

// TestSeed is the base seed every deterministic test stream derives from
const TestSeed int64 = 42

// RNGAdapter returns a seeded RNG port
func RNGAdapter() ports.RNGPort {
	return rng.NewStreams(TestSeed)
}

// EstimatorAdapter returns the confidence estimator used in production
func EstimatorAdapter() ports.ConfidenceEstimator {
	return kalibera.NewSlice()
}

// Logger returns a logger that discards output
func Logger() *internal.Logger {
	return internal.NewNopLogger()
}

// WriteCorpus generates a corpus and writes it as a result file under dir
func WriteCorpus(t testing.TB, dir, name string, config CorpusConfig) string {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteRecords(&buf, NewCorpusGenerator(config).Records()); err != nil {
		t.Fatalf("failed to render corpus %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write corpus %s: %v", name, err)
	}
	return path
}
