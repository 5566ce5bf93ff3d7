package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tburn/internal/model"
	"github.com/theirongolddev/tburn/internal/tui/theme"
)

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as block glyphs scaled between their minimum
// and maximum, so negative series still show shape.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(blocks)-1))
		}
		buf.WriteRune(blocks[max(0, min(idx, len(blocks)-1))])
	}

	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// TrajectoryChart draws cumulative savings per week as columns against the
// target ramp. Columns at or above target use the ahead color, the rest the
// behind color; the target shows as a line where no column covers it.
// Only the most recent weeks that fit in width are drawn.
func TrajectoryChart(points []model.TrajectoryPoint, width, height int) string {
	if len(points) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		actual := make([]float64, len(points))
		for i, p := range points {
			actual[i] = p.Actual
		}
		return Sparkline(actual, t.Accent)
	}

	peak := 0.0
	for _, p := range points {
		peak = max(peak, p.Actual, p.Target)
	}
	if peak == 0 {
		peak = 1
	}

	step := chartTickStep(peak)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(peak/step)) > maxIntervals {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	intervals := max(int(math.Round(ceiling/step)), 1)
	rowsPerTick := max(height/intervals, 2)
	chartH := rowsPerTick * intervals

	labelW := max(len(formatChartLabel(ceiling))+1, 4)
	ticks := make(map[int]string, intervals)
	for i := 1; i <= intervals; i++ {
		ticks[i*rowsPerTick] = formatChartLabel(step * float64(i))
	}

	chartW := max(width-labelW-1, 5)
	if len(points) > chartW {
		points = points[len(points)-chartW:]
	}
	colW := max(1, min(chartW/len(points), 3))
	axisLen := colW * len(points)

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	ahead := lipgloss.NewStyle().Foreground(t.Ahead).Background(t.Surface)
	behind := lipgloss.NewStyle().Foreground(t.Behind).Background(t.Surface)
	target := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axis.Render(fmt.Sprintf("%*s", labelW, ticks[row])))
		b.WriteString(axis.Render("│"))

		for _, p := range points {
			style := behind
			if p.Actual >= p.Target {
				style = ahead
			}
			switch {
			case p.Actual >= top:
				b.WriteString(style.Render(strings.Repeat("█", colW)))
			case p.Actual > bottom:
				frac := (p.Actual - bottom) / (top - bottom)
				idx := max(0, min(int(frac*float64(len(blocks))), len(blocks)-1))
				b.WriteString(style.Render(strings.Repeat(string(blocks[idx]), colW)))
			case p.Target > bottom && p.Target <= top:
				b.WriteString(target.Render(strings.Repeat("─", colW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", colW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s", labelW, "0")))
	b.WriteString(axis.Render("└" + strings.Repeat("─", axisLen)))
	b.WriteString("\n")

	first := fmt.Sprintf("w%d", points[0].Week+1)
	last := fmt.Sprintf("w%d", points[len(points)-1].Week+1)
	labels := first
	if len(points) > 1 {
		gap := axisLen - len(first) - len(last)
		if gap > 0 {
			labels = first + strings.Repeat(" ", gap) + last
		}
	}
	b.WriteString(blank.Render(strings.Repeat(" ", labelW+1)))
	b.WriteString(axis.Render(labels))

	return b.String()
}

// chartTickStep picks a 1/2/5 tick interval targeting about five ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

var chartSuffixes = []struct {
	scale  float64
	suffix string
}{
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "k"},
}

// formatChartLabel abbreviates axis amounts: 1500 -> "1.5k", 2000000 -> "2M".
func formatChartLabel(v float64) string {
	for _, s := range chartSuffixes {
		if v < s.scale {
			continue
		}
		if q := v / s.scale; q == math.Trunc(q) {
			return fmt.Sprintf("%.0f%s", q, s.suffix)
		}
		return fmt.Sprintf("%.1f%s", v/s.scale, s.suffix)
	}
	if v >= 1 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
