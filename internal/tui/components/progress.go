package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/tui/theme"
)

// ColorForProgress maps a savings progress percentage to a color.
func ColorForProgress(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 100:
		return t.Ahead
	case pct >= 50:
		return t.Accent
	case pct >= 25:
		return t.Warning
	default:
		return t.Behind
	}
}

// ProgressBar renders a labeled bar for pct, a percentage that may exceed
// 100 or go negative. The bar clamps; the printed figure does not.
func ProgressBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active
	color := ColorForProgress(pct)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space +
		bar.ViewAs(clampUnit(pct/100)) +
		space +
		pctStyle.Render(cli.FormatPercent(pct))
}

// CompactBar is a status-bar-sized progress indicator.
func CompactBar(label string, pct float64, width int) string {
	t := theme.Active
	color := ColorForProgress(pct)

	barW := max(width-lipgloss.Width(label)-6, 4)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(label) + space + bar.ViewAs(clampUnit(pct/100)) + space +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct))
}

func clampUnit(f float64) float64 {
	return max(0, min(f, 1))
}
