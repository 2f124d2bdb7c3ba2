package records

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recoverystats/domain/core"
	"recoverystats/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
a.java, 0, 0.0012, 1, 3:1:2, 120, 4
a.java, 1, 0.0015, 1, 3:1, 120, 2

b.java, 0, 0.5, 0, , 40, 0
b.java, 1, 0.45, 1, , 40, 0
`

func TestReader_Read(t *testing.T) {
	var logs bytes.Buffer
	reader := NewReader(internal.NewLoggerTo(internal.LogLevelWarn, &logs))

	obs, stats, err := reader.Read(strings.NewReader(sample), true)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Lines)
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 1, stats.Anomalies)
	assert.Equal(t, 2, stats.RunCount)
	require.Len(t, obs, 3)

	assert.Equal(t, "a.java", obs[0].SampleName())
	assert.Equal(t, []int{3, 1, 2}, obs[0].ErrorCosts())
	assert.Equal(t, 0.0012, obs[0].RecoveryTime())
	assert.Equal(t, 120, obs[0].LexemesTotal())
	assert.Equal(t, 4, obs[0].LexemesSkipped())
	assert.False(t, obs[2].Succeeded())
	assert.Empty(t, obs[2].ErrorCosts())

	assert.Contains(t, logs.String(), "b.java (run 1) succeeded without parsing errors")
}

func TestReader_KeepsCostlessSuccessWhenNotTracked(t *testing.T) {
	reader := NewReader(internal.NewNopLogger())

	obs, stats, err := reader.Read(strings.NewReader(sample), false)
	require.NoError(t, err)
	assert.Len(t, obs, 4)
	assert.Equal(t, 0, stats.Anomalies)
}

func TestReader_RejectsMalformedLines(t *testing.T) {
	tests := map[string]string{
		"too few fields":    "a, 0, 0.1, 1, 1, 10",
		"too many fields":   "a, 0, 0.1, 1, 1, 10, 0, extra",
		"bad run":           "a, x, 0.1, 1, 1, 10, 0",
		"bad time":          "a, 0, fast, 1, 1, 10, 0",
		"bad succeeded":     "a, 0, 0.1, yes, 1, 10, 0",
		"bad cost":          "a, 0, 0.1, 1, 1:b, 10, 0",
		"bad lexemes":       "a, 0, 0.1, 1, 1, many, 0",
		"bad skipped":       "a, 0, 0.1, 1, 1, 10, few",
		"skipped too large": "a, 0, 0.1, 1, 1, 10, 11",
		"negative time":     "a, 0, -0.1, 1, 1, 10, 0",
	}

	reader := NewReader(internal.NewNopLogger())
	for name, line := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := reader.Read(strings.NewReader("ok, 0, 0.1, 1, 1, 10, 0\n"+line+"\n"), true)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInvalidRecord), "got %v", err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestReader_ReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mf.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	obs, stats, err := NewReader(internal.NewNopLogger()).ReadFile(path, true)
	require.NoError(t, err)
	assert.Len(t, obs, 3)
	assert.Equal(t, core.NewHash([]byte(sample)), stats.Digest)

	loaded, digest, err := NewReader(internal.NewNopLogger()).Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, obs, loaded)
	assert.Equal(t, stats.Digest, digest)

	_, _, err = NewReader(internal.NewNopLogger()).ReadFile(filepath.Join(t.TempDir(), "missing.csv"), true)
	assert.Error(t, err)
}
