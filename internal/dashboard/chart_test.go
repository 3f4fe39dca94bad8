package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarChartRender(t *testing.T) {
	c := NewBarChart([]string{"Monday", "Tuesday"}, []int{5, 10})

	out := c.Render(10)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "Monday")
	assert.Contains(t, lines[0], "5")
	assert.Equal(t, 5, strings.Count(lines[0], "█"), "half of max scales to half the bar")
	assert.Equal(t, 10, strings.Count(lines[1], "█"))
}

func TestBarChartCloseStopsRendering(t *testing.T) {
	c := NewBarChart([]string{"Monday"}, []int{1})
	c.Close()

	assert.True(t, c.Closed())
	assert.Equal(t, "", c.Render(10))
}

func TestBarChartTruncatesMismatchedLengths(t *testing.T) {
	c := NewBarChart([]string{"a", "b", "c"}, []int{1, 2})
	assert.Equal(t, []string{"a", "b"}, c.Labels())
	assert.Equal(t, []int{1, 2}, c.Values())
}

func TestRenderSparkline(t *testing.T) {
	out := renderSparkline([]float64{0, 1, 2, 3}, 8)
	assert.Equal(t, 8, len([]rune(out)))
	assert.Equal(t, '▁', []rune(out)[0])
	assert.Equal(t, '█', []rune(out)[7])

	empty := renderSparkline(nil, 5)
	assert.Equal(t, strings.Repeat("▁", 5), empty)

	flat := renderSparkline([]float64{2, 2, 2}, 3)
	assert.Equal(t, strings.Repeat("▁", 3), flat)
}

func TestRenderProgressBarClamps(t *testing.T) {
	full := renderProgressBar(150, 10)
	assert.Equal(t, 10, strings.Count(full, "█"))
	assert.Equal(t, 0, strings.Count(full, "░"))

	none := renderProgressBar(-5, 10)
	assert.Equal(t, 0, strings.Count(none, "█"))
	assert.Equal(t, 10, strings.Count(none, "░"))
}
