package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/spanlib/pkg/span"
)

// Fixture contents.
const (
	yamlLayers = `layers:
  - lo: 1
    hi: 4
    priority: 0
    value: base
  - lo: 0
    hi: 3
    priority: 1
    value: mid
  - lo: 0
    hi: 3
    priority: 4
    value: top
`
	jsonLayers = `{"layers": [
  {"lo": 0, "hi": 5, "priority": 0, "value": "a"},
  {"lo": 8, "hi": 12, "priority": 1, "value": "b"}
]}`
	jsonBadShape  = `{"layers": [{"lo": "zero", "hi": 5, "value": "a"}]}`
	jsonBadBounds = `{"layers": [{"lo": 9, "hi": 5, "value": "a"}]}`
)

// TestMain pins the config defaults once; the tests read viper
// concurrently but never write it.
func TestMain(m *testing.M) {
	if err := LoadConfig(""); err != nil {
		panic(err)
	}

	viper.Set(cfgSurfaceColor, false)

	os.Exit(m.Run())
}

// writeFixture drops content into a temp file with the given name.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// TestLoadLayerFile verifies both on-disk formats and their failures.
func TestLoadLayerFile(t *testing.T) {
	t.Parallel()

	segs, err := loadLayerFile(writeFixture(t, "layers.yaml", yamlLayers))
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, "base", segs[0].Value)
	assert.Equal(t, 4, segs[2].Priority)

	segs, err = loadLayerFile(writeFixture(t, "layers.json", jsonLayers))
	require.NoError(t, err)
	require.Len(t, segs, 2)

	_, err = loadLayerFile(writeFixture(t, "layers.toml", "[[layers]]"))
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = loadLayerFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = loadLayerFile(writeFixture(t, "bad.json", "{"))
	require.Error(t, err)
}

// TestLoadMap verifies multimap construction from a layer file.
func TestLoadMap(t *testing.T) {
	t.Parallel()

	m, err := loadMap(writeFixture(t, "layers.yaml", yamlLayers))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 5, m.NextPriority())

	_, err = loadMap(writeFixture(t, "bad.json", jsonBadBounds))
	require.ErrorIs(t, err, span.ErrInvalidSpan)
}

// TestLoadSet verifies set construction ignores priorities and merges.
func TestLoadSet(t *testing.T) {
	t.Parallel()

	s, err := loadSet(writeFixture(t, "layers.yaml", yamlLayers))
	require.NoError(t, err)

	// [1,4) and [0,3) twice coalesce into [0,4).
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 4, s.Size())
}

// TestApplySetop verifies the operation dispatch.
func TestApplySetop(t *testing.T) {
	t.Parallel()

	a, err := loadSet(writeFixture(t, "a.json", jsonLayers))
	require.NoError(t, err)

	b, err := loadSet(writeFixture(t, "b.yaml", yamlLayers))
	require.NoError(t, err)

	u, err := applySetop(a, b, "union")
	require.NoError(t, err)
	assert.True(t, u.Covers(a))
	assert.True(t, u.Covers(b))

	i, err := applySetop(a, b, "intersect")
	require.NoError(t, err)
	assert.True(t, a.Covers(i))

	d, err := applySetop(a, a, "difference")
	require.NoError(t, err)
	assert.True(t, d.Empty())

	c, err := applySetop(a, b, "complement")
	require.NoError(t, err)
	assert.True(t, c.Disjoint(a))

	_, err = applySetop(a, b, "xor")
	require.ErrorIs(t, err, ErrUnknownOp)
}

// TestSurfaceCommand verifies the end-to-end surface run.
func TestSurfaceCommand(t *testing.T) {
	t.Parallel()

	cmd := NewSurfaceCommand()

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetArgs([]string{writeFixture(t, "layers.yaml", yamlLayers)})

	require.NoError(t, cmd.Execute())

	// The top layer hides [0,3); the base keeps [3,4).
	assert.Contains(t, out.String(), "top")
	assert.Contains(t, out.String(), "base")
	assert.NotContains(t, out.String(), "mid")
	assert.Contains(t, out.String(), "2 visible pieces over 4 points")
}

// TestSetopsCommand verifies the end-to-end setops run.
func TestSetopsCommand(t *testing.T) {
	t.Parallel()

	cmd := NewSetopsCommand()

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetArgs([]string{
		writeFixture(t, "a.json", jsonLayers),
		writeFixture(t, "b.yaml", yamlLayers),
		"--op", "intersect",
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "[0, 4)")
}

// TestValidateCommand verifies schema and semantic validation.
func TestValidateCommand(t *testing.T) {
	t.Parallel()

	run := func(content string) (string, error) {
		cmd := NewValidateCommand()

		out := new(bytes.Buffer)
		cmd.SetOut(out)
		cmd.SetArgs([]string{writeFixture(t, "layers.json", content)})

		err := cmd.Execute()

		return out.String(), err
	}

	out, err := run(jsonLayers)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid (2 layers)")

	out, err = run(jsonBadShape)
	require.ErrorIs(t, err, ErrInvalidLayers)
	assert.Contains(t, out, "is invalid")

	// Schema-clean but semantically inverted bounds.
	_, err = run(jsonBadBounds)
	require.ErrorIs(t, err, ErrInvalidLayers)
}

// TestRenderCommand verifies the chart is written to disk.
func TestRenderCommand(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "layers.html")

	cmd := NewRenderCommand()
	cmd.SetArgs([]string{writeFixture(t, "layers.yaml", yamlLayers), "-o", output})

	require.NoError(t, cmd.Execute())

	html, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(html), "surface")
}

// TestChartHelpers verifies the series construction helpers.
func TestChartHelpers(t *testing.T) {
	t.Parallel()

	m, err := loadMap(writeFixture(t, "layers.yaml", yamlLayers))
	require.NoError(t, err)

	assert.Equal(t, 5, chartWidth(m))
	assert.Equal(t, []int{0, 1, 4}, priorities(m))

	series := surfaceSeries(m.Surface(), chartWidth(m))
	require.Len(t, series, 5)

	// Points 0..2 belong to the top layer, point 3 to the base.
	assert.Equal(t, 4, series[0].Value)
	assert.Equal(t, 4, series[2].Value)
	assert.Equal(t, 0, series[3].Value)
	assert.Nil(t, series[4].Value)
}
