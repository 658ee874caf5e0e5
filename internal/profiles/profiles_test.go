package profiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigladder/erin/internal/distribution"
)

const presetYAML = `
distributions:
  10min-mttr:
    type: fixed
    value: 600
  wide-uniform:
    type: uniform
    lower_bound: 0
    upper_bound: 3600

fragility_curves:
  hurricane-cat3:
    kind: tabular
    points:
      - [30, 0.0]
      - [50, 0.5]
      - [70, 1.0]
`

func TestLoadDirectoryMergesPresetsFromYAMLFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "presets.yaml"), []byte(presetYAML), 0644))

	lib, err := NewLoader(dir, nil).LoadDirectory()
	require.NoError(t, err)

	d, ok := lib.Distributions["10min-mttr"]
	require.True(t, ok, "expected preset \"10min-mttr\" to be loaded")
	assert.Equal(t, distribution.Fixed, d.Type)
	assert.Equal(t, 600.0, d.Value)

	curve, ok := lib.FragilityCurves["hurricane-cat3"]
	require.True(t, ok, "expected preset \"hurricane-cat3\" to be loaded")
	assert.Equal(t, 0.5, curve.FailureFraction(50))
}

func TestLoadDirectoryMissingDirYieldsEmptyLibrary(t *testing.T) {
	lib, err := NewLoader(filepath.Join(t.TempDir(), "nonexistent"), nil).LoadDirectory()
	require.NoError(t, err)
	assert.Empty(t, lib.Distributions)
	assert.Empty(t, lib.FragilityCurves)
}

func TestLoadDirectorySkipsInvalidFileButLoadsOthers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.yaml"), []byte(presetYAML), 0644))
	bad := "distributions:\n  broken:\n    type: not-a-real-type\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(bad), 0644))

	lib, err := NewLoader(dir, nil).LoadDirectory()
	require.NoError(t, err)

	_, ok := lib.Distributions["10min-mttr"]
	assert.True(t, ok, "expected the valid file's presets to still load")
	_, ok = lib.Distributions["broken"]
	assert.False(t, ok, "expected the invalid preset to be skipped, not loaded")
}

func TestAddRejectsDuplicatePresetNameWithoutMutatingLibrary(t *testing.T) {
	lib := NewLibrary()
	doc := Document{Distributions: map[string]DistributionSpec{"x": {Type: "fixed", Value: 1}}}
	require.NoError(t, lib.Add(doc))
	assert.Error(t, lib.Add(doc), "expected the second Add of the same preset name to fail")
	assert.Equal(t, 1.0, lib.Distributions["x"].Value, "expected the original preset to be unchanged after a rejected duplicate Add")
}
