package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/tui/components"
	"github.com/theirongolddev/tburn/internal/tui/theme"
)

const (
	fieldAmount = iota
	fieldMonths
)

// calcState is the what-if calculator: an amount, optionally repeated
// monthly for a number of months.
type calcState struct {
	amount    textinput.Model
	months    textinput.Model
	recurring bool
	focus     int
}

func newCalcState() calcState {
	amount := textinput.New()
	amount.Placeholder = "42.50"
	amount.CharLimit = 16
	amount.Width = 16
	amount.Prompt = "$ "
	amount.Focus()

	months := textinput.New()
	months.Placeholder = "until retirement"
	months.CharLimit = 6
	months.Width = 16
	months.Prompt = "× "

	return calcState{amount: amount, months: months}
}

func (c *calcState) focusCmd() tea.Cmd {
	if c.focus == fieldMonths {
		c.amount.Blur()
		return c.months.Focus()
	}
	c.months.Blur()
	return c.amount.Focus()
}

func (c calcState) update(msg tea.Msg) (calcState, tea.Cmd) {
	var cmd tea.Cmd
	if c.focus == fieldMonths {
		c.months, cmd = c.months.Update(msg)
	} else {
		c.amount, cmd = c.amount.Update(msg)
	}
	return c, cmd
}

// charge parses the inputs. ok is false until a usable amount is typed.
func (c calcState) charge() (finance.Charge, bool) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(c.amount.Value()), 64)
	if err != nil || amount < 0 {
		return finance.Charge{}, false
	}
	ch := finance.Charge{Amount: amount, Recurring: c.recurring}
	if c.recurring {
		if m, err := strconv.ParseFloat(strings.TrimSpace(c.months.Value()), 64); err == nil && m > 0 {
			ch.MonthsDuration = &m
		}
	}
	return ch, true
}

func (a App) updateCalculator(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a.switchTab(tabOverview)
	case "ctrl+r":
		a.calc.recurring = !a.calc.recurring
		if !a.calc.recurring && a.calc.focus == fieldMonths {
			a.calc.focus = fieldAmount
			cmd := a.calc.focusCmd()
			return a, cmd
		}
		return a, nil
	case "up", "down":
		if a.calc.recurring {
			a.calc.focus = 1 - a.calc.focus
			cmd := a.calc.focusCmd()
			return a, cmd
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.calc, cmd = a.calc.update(msg)
	return a, cmd
}

// calcResult prices the typed charge in working time.
func (a App) calcResult() (cli.Span, bool) {
	ch, ok := a.calc.charge()
	if !ok {
		return cli.Span{}, false
	}
	return cli.FormatTime(a.assume.TimeCost(ch)), true
}

func (a App) renderCalculatorTab(cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(label.Render(fmt.Sprintf("%-12s", "Amount")))
	b.WriteString(a.calc.amount.View())
	b.WriteString("\n")

	toggle := "[ ] one-time"
	if a.calc.recurring {
		toggle = "[x] monthly"
	}
	b.WriteString(label.Render(fmt.Sprintf("%-12s", "Repeats")))
	b.WriteString(value.Render(toggle))
	b.WriteString(dim.Render("  ctrl+r"))
	b.WriteString("\n")

	if a.calc.recurring {
		b.WriteString(label.Render(fmt.Sprintf("%-12s", "Months")))
		b.WriteString(a.calc.months.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	span, ok := a.calcResult()
	if !ok {
		b.WriteString(dim.Render("Type an amount to see what it costs in working time."))
	} else {
		big := lipgloss.NewStyle().Foreground(components.SpanColor(span)).Background(t.Surface).Bold(true)
		b.WriteString(label.Render("That is "))
		b.WriteString(big.Render(span.String()))
		b.WriteString(label.Render(" of work at retirement."))
	}
	b.WriteString("\n\n")

	as := a.assume
	b.WriteString(dim.Render(fmt.Sprintf("hourly rate %s · real return %s · %s years to retirement",
		cli.FormatMoney(as.HourlyRate),
		cli.FormatPercent(as.RealRate*100),
		strconv.FormatFloat(as.YearsToRetire, 'f', 1, 64))))

	return components.ContentCard("What does it cost?", truncateWidth(b.String(), inner), cw)
}

// truncateWidth clips each line of s to w columns.
func truncateWidth(s string, w int) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if lipgloss.Width(l) > w {
			lines[i] = lipgloss.NewStyle().MaxWidth(w).Render(l)
		}
	}
	return strings.Join(lines, "\n")
}
