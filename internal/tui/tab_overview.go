package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/model"
	"github.com/theirongolddev/tburn/internal/tui/components"
	"github.com/theirongolddev/tburn/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	if notice := a.notice(); notice != "" {
		b.WriteString(notice)
		b.WriteString("\n")
	}

	if len(a.records) == 0 {
		body := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(
			"No records yet.\nAdd one with `tburn add save 100` or `tburn add spend 42.50`,\n" +
				"or bring history in with `tburn import`.")
		b.WriteString(components.ContentCard("Getting started", body, cw))
		return b.String()
	}

	b.WriteString(components.MetricCardRow(a.overviewMetrics(), cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("This month", a.monthBody(components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Savings trajectory", a.trajectoryBody(components.CardInnerWidth(cw), 6), cw))
		return b.String()
	}

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("This month", a.monthBody(components.CardInnerWidth(halves[0])), halves[0]),
		components.ContentCard("Savings trajectory", a.trajectoryBody(components.CardInnerWidth(halves[1]), 8), halves[1]),
	}))
	return b.String()
}

// notice renders load, profile and setup problems as a one-line banner.
func (a App) notice() string {
	var err error
	switch {
	case a.loadErr != nil:
		err = fmt.Errorf("ledger: %w", a.loadErr)
	case a.setupErr != nil:
		err = fmt.Errorf("setup not saved: %w", a.setupErr)
	case a.paramsErr != nil:
		err = fmt.Errorf("profile needs attention (press S): %w", a.paramsErr)
	default:
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", "; ")
	return lipgloss.NewStyle().Foreground(theme.Active.Behind).Background(theme.Active.Background).Bold(true).
		Render(" ! " + msg)
}

func (a App) overviewMetrics() []components.Metric {
	gps := a.gps

	statusValue := "ON TRACK"
	switch gps.Status {
	case model.Ahead:
		statusValue = "AHEAD"
	case model.Behind:
		statusValue = "BEHIND"
	}
	diff := cli.FormatAgeDiff(gps.AgeDiff)
	diff.Negative = false

	net := cli.FormatTime(gps.NetHoursImpact)

	return []components.Metric{
		{
			Label: "Status",
			Value: statusValue,
			Delta: "by " + diff.String(),
			Color: components.StatusColor(gps.Status),
		},
		{
			Label: "Estimated retirement",
			Value: cli.FormatAge(gps.EstimatedAge),
			Delta: "target " + cli.FormatAge(a.params.TargetRetireAge),
		},
		{
			Label: "Net time",
			Value: net.String(),
			Delta: fmt.Sprintf("saved %s · spent %s",
				cli.FormatTime(gps.TotalSavedHours), cli.FormatTime(gps.TotalSpentHours)),
			Color: components.SpanColor(net),
		},
		{
			Label: "This month",
			Value: cli.FormatPercent(a.month.ProgressPercent),
			Delta: "of " + cli.FormatMoney(a.month.RequiredMonthlySavings),
			Color: components.ColorForProgress(a.month.ProgressPercent),
		},
	}
}

func (a App) monthBody(inner int) string {
	t := theme.Active
	m := a.month

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	barW := max(inner-10-8, 8)
	var b strings.Builder
	b.WriteString(components.ProgressBar("saved", m.ProgressPercent, 8, barW))
	b.WriteString("\n\n")

	rows := []struct {
		name   string
		amount float64
		signed bool
	}{
		{"Required", m.RequiredMonthlySavings, false},
		{"Recorded saves", m.ActualMonthlySavings, false},
		{"Effective savings", m.EffectiveSavings, false},
		{"Spent", m.TotalSpend, false},
		{"Gap", -m.SavingsGap, true},
		{"Budget left", m.RemainingBudget, true},
	}
	for _, r := range rows {
		amount := cli.FormatMoney(r.amount)
		style := value
		if r.signed {
			amount = cli.FormatDelta(r.amount)
			style = style.Foreground(t.Ahead)
			if r.amount < 0 {
				style = style.Foreground(t.Behind)
			}
		}
		b.WriteString(label.Render(fmt.Sprintf("%-18s", r.name)))
		b.WriteString(style.Render(fmt.Sprintf("%*s", max(inner-18, 1), amount)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a App) trajectoryBody(inner, chartH int) string {
	t := theme.Active
	tr := a.traj

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	devColor := t.Ahead
	if tr.Deviation < 0 {
		devColor = t.Behind
	}
	dev := lipgloss.NewStyle().Foreground(devColor).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(components.TrajectoryChart(tr.Points, inner, chartH))
	b.WriteString("\n\n")
	b.WriteString(label.Render(fmt.Sprintf("since %s · week %d · ", tr.StartDate.Format("Jan 2 2006"), tr.WeeksElapsed+1)))
	b.WriteString(dev.Render(cli.FormatDelta(tr.Deviation)))
	b.WriteString(label.Render(" vs target"))
	if tr.UnallocatedFunds != 0 {
		b.WriteString("\n")
		b.WriteString(label.Render("unallocated surplus " + cli.FormatMoney(tr.UnallocatedFunds)))
	}
	return b.String()
}
