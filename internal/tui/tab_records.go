package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/model"
	"github.com/theirongolddev/tburn/internal/tui/components"
	"github.com/theirongolddev/tburn/internal/tui/theme"
)

// Column widths for the records list; the note takes what is left.
const (
	colWhen   = 16
	colType   = 7
	colAmount = 13
	colCost   = 16
	colRepeat = 12
)

func (a App) renderRecordsTab(cw, h int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)

	if len(a.recent) == 0 {
		return components.ContentCard("Records", lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("The ledger is empty."), cw)
	}

	// Card border, title and the header row.
	visible := max(h-4, 1)
	start := min(a.recOffset, max(len(a.recent)-visible, 0))
	end := min(start+visible, len(a.recent))

	var b strings.Builder
	b.WriteString(a.recordHeader(inner))
	for _, r := range a.recent[start:end] {
		b.WriteString("\n")
		b.WriteString(a.recordRow(r, inner))
	}

	title := fmt.Sprintf("Records  %d–%d of %d", start+1, end, len(a.recent))
	return components.ContentCard(title, b.String(), cw)
}

func noteWidth(inner int) int {
	return max(inner-colWhen-colType-colAmount-colCost-colRepeat, 0)
}

func (a App) recordHeader(inner int) string {
	t := theme.Active
	st := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	return st.Render(fmt.Sprintf("%-*s%-*s%*s%*s  %-*s%-*s",
		colWhen, "When",
		colType, "Type",
		colAmount, "Amount",
		colCost, "Time cost",
		colRepeat-2, "Repeats",
		noteWidth(inner), "Note"))
}

func (a App) recordRow(r model.Record, inner int) string {
	t := theme.Active
	base := lipgloss.NewStyle().Background(t.Surface)
	muted := base.Foreground(t.TextMuted)

	typeColor := t.Behind
	cost := cli.FormatTime(r.TimeCost)
	if r.Type == model.Save {
		typeColor = t.Ahead
		cost.Negative = cost.Value != 0
	}
	if r.IsEnded() {
		typeColor = t.TextDim
	}

	when := humanize.RelTime(r.Timestamp, a.now(), "ago", "from now")

	return muted.Render(fmt.Sprintf("%-*s", colWhen, truncStr(when, colWhen-1))) +
		base.Foreground(typeColor).Render(fmt.Sprintf("%-*s", colType, r.Type)) +
		base.Foreground(t.TextPrimary).Render(fmt.Sprintf("%*s", colAmount, cli.FormatMoney(r.Amount))) +
		base.Foreground(components.SpanColor(cost)).Render(fmt.Sprintf("%*s", colCost, cost)) +
		muted.Render(fmt.Sprintf("  %-*s", colRepeat-2, repeats(r))) +
		muted.Render(truncStr(r.Note, noteWidth(inner)))
}

// repeats describes a record's recurrence for the list.
func repeats(r model.Record) string {
	switch {
	case !r.IsRecurring:
		return ""
	case r.IsEnded():
		return "ended"
	case r.MonthsDuration != nil:
		return fmt.Sprintf("%gx monthly", *r.MonthsDuration)
	default:
		return "monthly"
	}
}
