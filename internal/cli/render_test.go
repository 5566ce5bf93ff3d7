package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "", RenderSparkline(nil))
	assert.Equal(t, "▁█", RenderSparkline([]float64{0, 7}))
	assert.Equal(t, "▁▁▁", RenderSparkline([]float64{5, 5, 5}))
	// Negative deviations still scale between min and max.
	assert.Equal(t, "▁▄█", RenderSparkline([]float64{-10, 0, 10}))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Type", "Amount"},
		Rows: [][]string{
			{"save", "100.00"},
			{"---"},
			{"spend", "7.50"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[1], "Type")
	assert.Contains(t, lines[4], "├")
	// Numeric column is right-aligned.
	assert.Contains(t, lines[5], "│ spend │   7.50 │")

	assert.Equal(t, "", RenderTable(Table{}))
}

func TestRenderProgressBar(t *testing.T) {
	assert.Contains(t, RenderProgressBar(50, 10), "50.0%")
	assert.Contains(t, RenderProgressBar(-100, 10), "-100.0%")
	assert.Equal(t, "", RenderProgressBar(50, 0))
}
