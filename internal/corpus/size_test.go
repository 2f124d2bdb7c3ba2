package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.java"), []byte("class A {"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.java"), []byte(strings.Repeat("x", 1024*1024)), 0o644))

	size, err := Measure(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, size.Files)
	assert.Equal(t, int64(9+1024*1024), size.Bytes)
	assert.InDelta(t, 1.0, size.MB(), 1e-4)
}

func TestMeasure_Empty(t *testing.T) {
	size, err := Measure(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, size.Files)
	assert.Zero(t, size.Bytes)
}

func TestMeasure_MissingDirectory(t *testing.T) {
	_, err := Measure(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
