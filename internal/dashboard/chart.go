package dashboard

import (
	"fmt"
	"strings"
)

// BarChart renders weekly visitor totals as horizontal bars. A chart bound
// to the analytics view must be closed before a replacement is created;
// rendering a closed chart yields nothing.
type BarChart struct {
	labels []string
	values []int
	closed bool
}

// NewBarChart pairs labels with values. Mismatched lengths are truncated to
// the shorter slice.
func NewBarChart(labels []string, values []int) *BarChart {
	n := len(labels)
	if len(values) < n {
		n = len(values)
	}
	return &BarChart{
		labels: append([]string(nil), labels[:n]...),
		values: append([]int(nil), values[:n]...),
	}
}

// Close releases the chart. Further renders produce the empty string.
func (c *BarChart) Close() { c.closed = true }

// Closed reports whether the chart has been released.
func (c *BarChart) Closed() bool { return c.closed }

// Labels returns the chart's labels.
func (c *BarChart) Labels() []string { return c.labels }

// Values returns the chart's values.
func (c *BarChart) Values() []int { return c.values }

// Render draws one bar per label scaled to barWidth cells.
func (c *BarChart) Render(barWidth int) string {
	if c.closed || len(c.labels) == 0 {
		return ""
	}

	maxVal := 0
	labelWidth := 0
	for i, label := range c.labels {
		if c.values[i] > maxVal {
			maxVal = c.values[i]
		}
		if len(label) > labelWidth {
			labelWidth = len(label)
		}
	}

	var b strings.Builder
	for i, label := range c.labels {
		filled := 0
		if maxVal > 0 {
			filled = c.values[i] * barWidth / maxVal
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(&b, "%-*s %s %d", labelWidth, label, bar, c.values[i])
		if i < len(c.labels)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderSparkline creates a sparkline visualization from data points.
func renderSparkline(data []float64, width int) string {
	if len(data) == 0 {
		return strings.Repeat("▁", width)
	}

	minVal, maxVal := data[0], data[0]
	for _, val := range data {
		if val < minVal {
			minVal = val
		}
		if val > maxVal {
			maxVal = val
		}
	}

	sparkChars := []rune("▁▂▃▄▅▆▇█")
	var result strings.Builder
	for i := 0; i < width; i++ {
		dataIndex := i * len(data) / width
		if dataIndex >= len(data) {
			dataIndex = len(data) - 1
		}

		charIndex := 0
		if maxVal > minVal {
			normalized := (data[dataIndex] - minVal) / (maxVal - minVal)
			charIndex = int(normalized * 7)
			if charIndex > 7 {
				charIndex = 7
			}
		}
		result.WriteRune(sparkChars[charIndex])
	}
	return result.String()
}

// renderProgressBar creates a compact progress bar for a 0-100 value.
func renderProgressBar(progress, width int) string {
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}

	filled := (progress * width) / 100
	empty := width - filled

	return successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", empty))
}
