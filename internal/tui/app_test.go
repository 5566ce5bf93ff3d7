package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/tburn/internal/config"
	"github.com/theirongolddev/tburn/internal/model"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// newTestApp returns a loaded dashboard whose profile earns 100 an hour
// with no real return, so time costs are amount/100.
func newTestApp(t *testing.T, records []model.Record) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := config.DefaultConfig()
	cfg.Profile.Age = 30
	cfg.Profile.TargetRetireAge = 60
	cfg.Profile.Salary = 17600
	cfg.Profile.InflationRate = 0
	cfg.Profile.ROIRate = 0
	cfg.Profile.MonthlySavings = 1000

	a := NewApp(cfg, filepath.Join(t.TempDir(), "ledger.db"))
	a.now = func() time.Time { return testNow }
	a.needSetup = false

	m, _ := a.Update(RecordsLoadedMsg{Records: records})
	return m.(App)
}

func press(t *testing.T, a App, msgs ...tea.KeyMsg) App {
	t.Helper()
	for _, msg := range msgs {
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	names := []string{"Overview", "Records", "Calculator"}

	for active := range names {
		a := App{activeTab: active}
		pos := 0
		for i, name := range names {
			w := len(name) + 2 // padding
			if i != active {
				w += 2 // brackets around the shortcut
			}
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Errorf("past the last tab: got %d, want -1", got)
		}
	}
}

func TestCalculatorPricesTypedAmount(t *testing.T) {
	a := newTestApp(t, nil)
	a = press(t, a, runes("c"))
	if a.activeTab != tabCalculator {
		t.Fatalf("activeTab = %d, want calculator", a.activeTab)
	}

	if _, ok := a.calcResult(); ok {
		t.Fatal("empty input should not produce a result")
	}

	a = press(t, a, runes("500"))
	span, ok := a.calcResult()
	if !ok {
		t.Fatal("expected a result after typing an amount")
	}
	if got := span.String(); got != "5.0 hours" {
		t.Errorf("500 one-time = %q, want 5.0 hours", got)
	}

	// Letters are input, not shortcuts, while the calculator is open.
	a = press(t, a, runes("q"))
	if a.activeTab != tabCalculator {
		t.Error("q should not leave the calculator")
	}
}

func TestCalculatorMonthly(t *testing.T) {
	a := newTestApp(t, nil)
	a = press(t, a, runes("c"), runes("100"), tea.KeyMsg{Type: tea.KeyCtrlR})

	// 100 a month for 30 years with no growth is 36,000, or 360 hours.
	span, _ := a.calcResult()
	if got := span.String(); got != "2.0 months" {
		t.Errorf("open-ended monthly = %q, want 2.0 months", got)
	}

	a = press(t, a, tea.KeyMsg{Type: tea.KeyDown}, runes("12"))
	span, _ = a.calcResult()
	if got := span.String(); got != "1.5 days" {
		t.Errorf("12 months = %q, want 1.5 days", got)
	}

	a = press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.activeTab != tabOverview {
		t.Errorf("esc should return to the overview, got tab %d", a.activeTab)
	}
}

func TestRecordsLoadedDerivesOverview(t *testing.T) {
	records := []model.Record{
		{ID: "a", Type: model.Save, Amount: 1000, TimeCost: 10, Timestamp: testNow.Add(-48 * time.Hour)},
		{ID: "b", Type: model.Spend, Amount: 50, TimeCost: 0.5, Note: "coffee", Timestamp: testNow.Add(-time.Hour)},
	}
	a := newTestApp(t, records)

	if !a.loaded {
		t.Fatal("app should be loaded")
	}
	if a.gps.Status != model.Ahead {
		t.Errorf("status = %s, want ahead", a.gps.Status)
	}
	if a.recent[0].ID != "b" {
		t.Errorf("recent[0] = %s, want newest record b", a.recent[0].ID)
	}
	if a.paramsErr != nil {
		t.Errorf("unexpected profile error: %v", a.paramsErr)
	}

	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	a = press(t, m.(App), runes("e"))
	view := a.View()
	for _, want := range []string{"spend", "coffee", "1 hour ago"} {
		if !strings.Contains(view, want) {
			t.Errorf("records view missing %q", want)
		}
	}
}

func TestTrajectoryStartsBeforeFirstRecordWithoutProfileDate(t *testing.T) {
	first := testNow.AddDate(0, -3, 0)
	records := []model.Record{
		{ID: "a", Type: model.Save, Amount: 500, TimeCost: 5, Timestamp: first},
	}
	a := newTestApp(t, records)

	if want := first.Add(-7 * 24 * time.Hour); !a.traj.StartDate.Equal(want) {
		t.Errorf("trajectory start = %s, want %s", a.traj.StartDate, want)
	}
	if a.traj.WeeksElapsed == 0 {
		t.Error("trajectory should span the weeks since the first record")
	}
}

func TestLoadErrorKeepsPreviousRecords(t *testing.T) {
	records := []model.Record{
		{ID: "a", Type: model.Save, Amount: 10, TimeCost: 0.1, Timestamp: testNow.Add(-time.Hour)},
	}
	a := newTestApp(t, records)

	m, _ := a.Update(RecordsLoadedMsg{Err: errTest})
	a = m.(App)
	if len(a.records) != 1 {
		t.Errorf("records = %d, want the previous 1", len(a.records))
	}
	if a.notice() == "" {
		t.Error("a failed load should show a notice")
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("disk on fire")
