// Package tui provides the interactive Bubble Tea dashboard for tburn.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tburn/internal/config"
	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/model"
	"github.com/theirongolddev/tburn/internal/pipeline"
	"github.com/theirongolddev/tburn/internal/store"
	"github.com/theirongolddev/tburn/internal/tui/components"
	"github.com/theirongolddev/tburn/internal/tui/theme"
)

// RecordsLoadedMsg is sent when a ledger read finishes.
type RecordsLoadedMsg struct {
	Records  []model.Record
	LoadTime time.Duration
	Err      error
}

type reloadTickMsg struct{}

const (
	tabOverview = iota
	tabRecords
	tabCalculator
)

const (
	minTerminalWidth = 60
	compactWidth     = 110
	maxContentWidth  = 160
	minContentHeight = 5
)

// App is the root Bubble Tea model.
type App struct {
	cfg        config.Config
	ledgerPath string
	now        func() time.Time

	// Data
	records  []model.Record
	loaded   bool
	loadErr  error
	loadTime time.Duration
	lastLoad time.Time

	// Derived on every load or profile change
	params    model.Params
	paramsErr error
	assume    finance.Assumptions
	gps       model.ProgressStats
	month     model.SavingsStatus
	traj      model.TrajectoryStats
	recent    []model.Record // newest first

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	recOffset int
	calc      calcState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	setupErr  error
	needSetup bool

	spinner    spinner.Model
	refreshing bool
}

// NewApp creates the dashboard for the ledger at ledgerPath.
func NewApp(cfg config.Config, ledgerPath string) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		cfg:        cfg,
		ledgerPath: ledgerPath,
		now:        time.Now,
		needSetup:  !config.Exists(),
		spinner:    sp,
		calc:       newCalcState(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadRecordsCmd(a.ledgerPath),
		a.spinner.Tick,
		reloadTickCmd(a.cfg.PollInterval()),
	)
}

func (a *App) recompute() {
	now := a.now()

	p := a.cfg.Profile.Params()
	a.params = p
	a.paramsErr = a.cfg.Validate()
	a.assume = finance.AssumptionsFor(p)

	a.gps = pipeline.Progress(p.TargetRetireAge, a.records)
	a.month = pipeline.MonthlySavingsStatus(p, pipeline.FilterByMonth(a.records, now))
	a.traj = pipeline.Trajectory(p, a.records, now)

	sorted := pipeline.SortByTime(a.records)
	a.recent = make([]model.Record, len(sorted))
	for i, r := range sorted {
		a.recent[len(sorted)-1-i] = r
	}
	a.recOffset = max(0, min(a.recOffset, len(a.recent)-1))
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabRecords {
				a.scrollRecords(-1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabRecords {
				a.scrollRecords(1)
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					return a.switchTab(tab)
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "tab":
			return a.switchTab((a.activeTab + 1) % len(components.Tabs))
		case "shift+tab":
			return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		}

		// The calculator's inputs take every other key.
		if a.activeTab == tabCalculator {
			return a.updateCalculator(msg)
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "?":
			a.showHelp = true
			return a, nil
		case "r":
			if !a.refreshing {
				a.refreshing = true
				return a, loadRecordsCmd(a.ledgerPath)
			}
			return a, nil
		case "S":
			return a.startSetup()
		case "left":
			return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		case "right":
			return a.switchTab((a.activeTab + 1) % len(components.Tabs))
		}

		if a.activeTab == tabRecords {
			switch key {
			case "j", "down":
				a.scrollRecords(1)
			case "k", "up":
				a.scrollRecords(-1)
			case "g":
				a.recOffset = 0
			case "G":
				a.recOffset = max(0, len(a.recent)-1)
			}
		}

		if runes := msg.Runes; len(runes) == 1 {
			if idx := components.TabIdxByKey(runes[0]); idx >= 0 {
				return a.switchTab(idx)
			}
		}
		return a, nil

	case RecordsLoadedMsg:
		first := !a.loaded
		a.loaded = true
		a.refreshing = false
		a.loadErr = msg.Err
		if msg.Err == nil {
			a.records = msg.Records
		}
		a.loadTime = msg.LoadTime
		a.lastLoad = a.now()
		a.recompute()

		if first && a.needSetup {
			return a.startSetup()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case reloadTickMsg:
		cmds := []tea.Cmd{reloadTickCmd(a.cfg.PollInterval())}
		if a.loaded && !a.refreshing && a.setupForm == nil {
			a.refreshing = true
			cmds = append(cmds, loadRecordsCmd(a.ledgerPath))
		}
		return a, tea.Batch(cmds...)
	}

	// Cursor blinks and similar go to whatever owns the focus.
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == tabCalculator {
		var cmd tea.Cmd
		a.calc, cmd = a.calc.update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	a.activeTab = idx
	if idx == tabCalculator {
		cmd := a.calc.focusCmd()
		return a, cmd
	}
	return a, nil
}

func (a *App) scrollRecords(delta int) {
	a.recOffset = max(0, min(a.recOffset+delta, len(a.recent)-1))
}

func (a App) startSetup() (tea.Model, tea.Cmd) {
	a.setupVals = ValuesFrom(a.cfg)
	a.setupForm = NewSetupForm(a.setupVals)
	if a.width > 0 {
		a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.setupForm.Init()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		next := a.cfg
		err := a.setupVals.Apply(&next, a.now())
		if err == nil {
			err = config.Save(next)
		}
		if err == nil {
			a.cfg = next
			theme.SetActive(a.cfg.Appearance.Theme)
		}
		a.setupErr = err
		a.needSetup = false
		a.setupForm = nil
		a.recompute()
		return a, nil

	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  tburn needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logo.Render("◈ tburn") + muted.Render(" · time is what you spend") + "\n\n" +
		a.spinner.View() + muted.Render(" Reading ledger...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	bindings := [][2]string{
		{"o e c", "overview, records, calculator"},
		{"tab ←/→", "cycle tabs"},
		{"j/k g/G", "scroll records"},
		{"↑/↓", "calculator: switch field"},
		{"ctrl+r", "calculator: toggle monthly"},
		{"r", "reload ledger"},
		{"S", "edit profile"},
		{"q", "quit"},
	}
	var b strings.Builder
	for _, kb := range bindings {
		b.WriteString(key.Render(fmt.Sprintf("%-10s", kb[0])))
		b.WriteString(desc.Render(kb[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(desc.Render("Press any key to close"))

	card := components.ContentCard("Keys", b.String(), 52)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	dataAge := ""
	if !a.lastLoad.IsZero() {
		dataAge = a.lastLoad.Format("15:04:05")
	}
	statusBar := components.RenderStatusBar(w, a.month.ProgressPercent, a.paramsErr == nil, dataAge, a.refreshing)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabRecords:
		content = a.renderRecordsTab(cw, contentH)
	case tabCalculator:
		content = a.renderCalculatorTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func reloadTickCmd(every time.Duration) tea.Cmd {
	every = max(every, 5*time.Second)
	return tea.Tick(every, func(time.Time) tea.Msg {
		return reloadTickMsg{}
	})
}

// loadRecordsCmd reads the whole ledger off the UI goroutine.
func loadRecordsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		l, err := store.Open(path)
		if err != nil {
			return RecordsLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		defer func() { _ = l.Close() }()

		records, err := l.List()
		return RecordsLoadedMsg{Records: records, Err: err, LoadTime: time.Since(start)}
	}
}

func truncStr(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}
