package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tburn/internal/tui/theme"
)

// RenderStatusBar renders the bottom bar: key hints on the left, an
// optional month progress gauge and data age on the right.
func RenderStatusBar(width int, monthPct float64, showMonth bool, dataAge string, refreshing bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := base.Render(" [?]help  [←/→]tabs  [r]eload  [q]uit")

	var right []string
	if showMonth {
		right = append(right, CompactBar("month", monthPct, 24))
	}
	switch {
	case refreshing:
		right = append(right, accent.Render("reloading…"))
	case dataAge != "":
		right = append(right, base.Render("loaded "+dataAge))
	}
	rightStr := strings.Join(right, base.Render("  ")) + base.Render(" ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(rightStr), 0)
	return left + base.Render(strings.Repeat(" ", gap)) + rightStr
}
