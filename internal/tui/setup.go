package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/tburn/internal/config"
	"github.com/theirongolddev/tburn/internal/tui/theme"
)

// SetupValues holds the wizard answers as typed. Inputs bind to strings,
// so numbers are parsed in Apply.
type SetupValues struct {
	Age             string
	TargetRetireAge string
	Salary          string
	CurrentSavings  string
	MonthlySavings  string
	TargetFund      string // blank derives the fund from the plan
	InflationRate   string
	ROIRate         string
	Theme           string
}

// ValuesFrom pre-fills the wizard with the current configuration.
func ValuesFrom(cfg config.Config) *SetupValues {
	p := cfg.Profile
	v := &SetupValues{
		Age:             num(p.Age),
		TargetRetireAge: num(p.TargetRetireAge),
		Salary:          num(p.Salary),
		CurrentSavings:  num(p.CurrentSavings),
		MonthlySavings:  num(p.MonthlySavings),
		InflationRate:   num(p.InflationRate),
		ROIRate:         num(p.ROIRate),
		Theme:           cfg.Appearance.Theme,
	}
	if p.TargetRetirementFund != nil {
		v.TargetFund = num(*p.TargetRetirementFund)
	}
	return v
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NewSetupForm builds the profile wizard bound to v.
func NewSetupForm(v *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to tburn").
				Description("Every purchase gets priced in the hours of work it would\n"+
					"have grown into by retirement. A few numbers first."),
			huh.NewInput().
				Title("Current age").
				Value(&v.Age).
				Validate(positive),
			huh.NewInput().
				Title("Target retirement age").
				Value(&v.TargetRetireAge).
				Validate(positive),
			huh.NewInput().
				Title("Monthly salary").
				Description("Take-home pay per month. Sets your hourly rate.").
				Value(&v.Salary).
				Validate(nonNegative),
		).Title("Profile"),

		huh.NewGroup(
			huh.NewInput().
				Title("Current savings").
				Value(&v.CurrentSavings).
				Validate(nonNegative),
			huh.NewInput().
				Title("Monthly savings target").
				Value(&v.MonthlySavings).
				Validate(nonNegative),
			huh.NewInput().
				Title("Retirement fund goal").
				Description("Leave blank to use what your plan reaches.").
				Value(&v.TargetFund).
				Validate(optional(nonNegative)),
		).Title("Savings"),

		huh.NewGroup(
			huh.NewInput().
				Title("Inflation rate (%)").
				Value(&v.InflationRate).
				Validate(rate),
			huh.NewInput().
				Title("Expected return (%)").
				Value(&v.ROIRate).
				Validate(rate),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.Theme),
		).Title("Assumptions"),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

// Apply writes the answers into cfg and validates the result. A profile
// seen for the first time is stamped with now as its creation date.
func (v *SetupValues) Apply(cfg *config.Config, now time.Time) error {
	var errs []error
	parse := func(name, s string, dst *float64) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a number", name, s))
			return
		}
		*dst = f
	}

	p := &cfg.Profile
	parse("age", v.Age, &p.Age)
	parse("target retirement age", v.TargetRetireAge, &p.TargetRetireAge)
	parse("salary", v.Salary, &p.Salary)
	parse("current savings", v.CurrentSavings, &p.CurrentSavings)
	parse("monthly savings", v.MonthlySavings, &p.MonthlySavings)
	parse("inflation rate", v.InflationRate, &p.InflationRate)
	parse("expected return", v.ROIRate, &p.ROIRate)

	p.TargetRetirementFund = nil
	if strings.TrimSpace(v.TargetFund) != "" {
		var fund float64
		parse("retirement fund goal", v.TargetFund, &fund)
		p.TargetRetirementFund = &fund
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	return cfg.Validate()
}

func parseField(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New("enter a number")
	}
	return f, nil
}

func positive(s string) error {
	f, err := parseField(s)
	if err != nil {
		return err
	}
	if f <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

func nonNegative(s string) error {
	f, err := parseField(s)
	if err != nil {
		return err
	}
	if f < 0 {
		return errors.New("cannot be negative")
	}
	return nil
}

func rate(s string) error {
	f, err := parseField(s)
	if err != nil {
		return err
	}
	if f <= -100 {
		return errors.New("must be above -100")
	}
	return nil
}

func optional(check func(string) error) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return check(s)
	}
}
