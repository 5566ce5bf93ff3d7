// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/theirongolddev/tburn/internal/finance"
)

// Unit is the scale a formatted span of working time is expressed in.
type Unit string

const (
	Minutes Unit = "minutes"
	Hours   Unit = "hours"
	Days    Unit = "days"
	Months  Unit = "months"
	Years   Unit = "years"
)

// Tone is a styling hint for day-scale spans.
type Tone string

const (
	ToneNone     Tone = ""
	ToneNearTerm Tone = "near-term"
	ToneOverdue  Tone = "overdue"
)

// Bucket thresholds in working hours.
const (
	hourThreshold  = 1
	dayThreshold   = finance.WorkingHoursPerDay     // 8h
	weekThreshold  = 5 * finance.WorkingHoursPerDay // 40h
	monthThreshold = finance.WorkingHoursPerMonth   // 176h
	yearThreshold  = finance.WorkingHoursPerYear    // 2112h
)

// Span is an amount of working time scaled to a human unit.
// Value is always non-negative; Negative carries the sign.
type Span struct {
	Value    float64
	Unit     Unit
	Places   int // decimals Value was rounded to
	Tone     Tone
	Negative bool
}

// String renders the span, e.g. "45 minutes", "-3.5 hours", "1.25 years".
func (s Span) String() string {
	num := strconv.FormatFloat(s.Value, 'f', s.Places, 64)
	if s.Negative {
		num = "-" + num
	}
	return num + " " + string(s.Unit)
}

// FormatTime scales a count of working hours into the largest unit it
// fills: minutes under an hour, hours under a working day, days under a
// working month, months under a working year, years beyond. Day spans
// shorter than a working week are near-term, longer ones overdue.
func FormatTime(hours float64) Span {
	abs := math.Abs(hours)
	s := Span{Negative: hours < 0}

	switch {
	case abs < hourThreshold:
		s.Unit = Minutes
		s.Value = math.Round(abs * 60)
	case abs < dayThreshold:
		s.Unit, s.Places = Hours, 1
		s.Value = round(abs, 1)
	case abs < weekThreshold:
		s.Unit, s.Places, s.Tone = Days, 1, ToneNearTerm
		s.Value = round(abs/finance.WorkingHoursPerDay, 1)
	case abs < monthThreshold:
		s.Unit, s.Places, s.Tone = Days, 1, ToneOverdue
		s.Value = round(abs/finance.WorkingHoursPerDay, 1)
	case abs < yearThreshold:
		s.Unit, s.Places = Months, 1
		s.Value = round(abs/finance.WorkingHoursPerMonth, 1)
	default:
		s.Unit, s.Places = Years, 2
		s.Value = round(abs/finance.WorkingHoursPerYear, 2)
	}

	if s.Value == 0 {
		s.Negative = false
	}
	return s
}

// FormatAgeDiff expresses a difference in years as calendar days, months
// or years. Anything under a day reads "0 days".
func FormatAgeDiff(diffYears float64) Span {
	days := math.Round(math.Abs(diffYears) * 365)
	s := Span{Negative: diffYears < 0}

	switch {
	case days < 1:
		return Span{Value: 0, Unit: Days}
	case days < 30:
		s.Value, s.Unit = days, Days
	case days < 365:
		s.Value, s.Unit = math.Round(days/30), Months
	default:
		s.Value, s.Unit, s.Places = round(math.Abs(diffYears), 1), Years, 1
	}
	return s
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// FormatMoney formats an amount with thousands separators and two decimals.
func FormatMoney(amount float64) string {
	return humanize.FormatFloat("#,###.##", amount)
}

// FormatHours formats a number of hours with one decimal and an "h" suffix.
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a value already expressed in percent.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDelta formats a signed amount, e.g. "+1,200.00" or "-35.50".
func FormatDelta(delta float64) string {
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return "-" + FormatMoney(-delta)
}

// FormatAge formats an age in years with one decimal.
func FormatAge(age float64) string {
	return strconv.FormatFloat(age, 'f', 1, 64)
}
