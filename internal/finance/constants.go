// Package finance implements the compounding, target-solving and time-cost
// math behind tburn. Every function is pure and safe for concurrent use.
package finance

const (
	WorkingDaysPerMonth = 22
	WorkingHoursPerDay  = 8
	MonthsPerYear       = 12

	// WorkingHoursPerMonth is one working month (22 x 8).
	WorkingHoursPerMonth = WorkingDaysPerMonth * WorkingHoursPerDay
	// WorkingHoursPerYear is one working year (22 x 8 x 12).
	WorkingHoursPerYear = WorkingHoursPerMonth * MonthsPerYear

	// FourPercentMultiplier converts a monthly draw into the fund that
	// sustains it: 12 / 0.04.
	FourPercentMultiplier = 300

	// MaxSearchYears bounds YearsToTarget.
	MaxSearchYears = 100
	// YearsTolerance is the bisection precision for YearsToTarget.
	YearsTolerance = 0.01
)
