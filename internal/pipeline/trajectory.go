package pipeline

import (
	"math"
	"time"

	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/model"
)

const (
	week = 7 * 24 * time.Hour
	// startLeadIn is how far before the first record a trajectory may begin.
	startLeadIn = week
	// weeksPerMonth is the ramp granularity for the accumulation target.
	weeksPerMonth = 4
)

// ActualMonthlySavings sums the amounts recorded as saves.
func ActualMonthlySavings(records []model.Record) float64 {
	var total float64
	for _, r := range records {
		if r.Type == model.Save {
			total += r.Amount
		}
	}
	return total
}

// MonthlySavingsStatus reconciles one period's records against the monthly
// saving the profile's plan requires.
func MonthlySavingsStatus(p model.Params, records []model.Record) model.SavingsStatus {
	return ReconcileMonth(p.Salary, finance.PlanRequiredMonthly(p), records)
}

// ReconcileMonth checks whether recorded savings are real once actual
// spending is accounted for. A cash-flow deficit eats into the savings that
// count toward the goal; a surplus is left for the user to allocate and is
// never added.
func ReconcileMonth(salary, required float64, records []model.Record) model.SavingsStatus {
	var totalSpend float64
	for _, r := range records {
		if r.Type == model.Spend {
			totalSpend += r.Amount
		}
	}
	recorded := ActualMonthlySavings(records)

	surplus := salary - totalSpend - recorded
	effective := recorded + math.Min(0, surplus)

	s := model.SavingsStatus{
		RequiredMonthlySavings: required,
		ActualMonthlySavings:   recorded,
		EffectiveSavings:       effective,
		TotalSpend:             totalSpend,
		CashFlowSurplus:        surplus,
		SavingsGap:             required - effective,
		// Over-saving locks in a smaller budget rather than freeing room.
		RemainingBudget: salary - totalSpend - math.Max(required, recorded),
	}

	switch {
	case required > 0:
		s.ProgressPercent = effective / required * 100
	case effective > 0:
		s.ProgressPercent = 100
	}
	return s
}

// TrajectoryStart resolves the date the accumulation target counts from.
// An explicit start wins. Otherwise it is the later of the profile's
// creation and a week before the first record; with no records it is the
// creation date, or now when that is unknown too.
func TrajectoryStart(p model.Params, records []model.Record, now time.Time) time.Time {
	if !p.TrajectoryStart.IsZero() {
		return p.TrajectoryStart
	}

	first := earliest(records)
	if first.IsZero() {
		if p.CreatedAt.IsZero() {
			return now
		}
		return p.CreatedAt
	}

	start := first.Add(-startLeadIn)
	if p.CreatedAt.After(start) {
		start = p.CreatedAt
	}
	return start
}

// TargetAccumulated is the linear savings target after weeksElapsed whole
// weeks. Week 0 already carries a quarter month so a new trajectory never
// starts at zero.
func TargetAccumulated(monthlyTarget float64, weeksElapsed int) float64 {
	return monthlyTarget / weeksPerMonth * float64(weeksElapsed+1)
}

// Trajectory compares cumulative recorded savings against the weekly target
// ramp from the resolved start date up to now.
func Trajectory(p model.Params, records []model.Record, now time.Time) model.TrajectoryStats {
	start := TrajectoryStart(p, records, now)
	weeks := WeeksBetween(start, now)

	stats := model.TrajectoryStats{
		StartDate:         start,
		WeeksElapsed:      weeks,
		MonthsElapsed:     MonthsBetween(start, now),
		TargetAccumulated: TargetAccumulated(p.MonthlySavings, weeks),
	}

	// Saves before the start predate the plan and are not counted.
	saves := SortByTime(FilterByType(records, model.Save))
	i := 0
	for i < len(saves) && saves[i].Timestamp.Before(start) {
		i++
	}
	saves = saves[i:]
	for _, r := range saves {
		if r.Timestamp.After(now) {
			break
		}
		stats.ActualAccumulated += r.Amount
	}
	stats.Deviation = stats.ActualAccumulated - stats.TargetAccumulated
	stats.UnallocatedFunds = UnallocatedFunds(p.Salary, records, start, now)

	stats.Points = make([]model.TrajectoryPoint, 0, weeks+1)
	var cum float64
	i = 0
	for w := 0; w <= weeks; w++ {
		weekStart := start.Add(time.Duration(w) * week)
		weekEnd := weekStart.Add(week)
		for i < len(saves) && saves[i].Timestamp.Before(weekEnd) && !saves[i].Timestamp.After(now) {
			cum += saves[i].Amount
			i++
		}
		stats.Points = append(stats.Points, model.TrajectoryPoint{
			Week:      w,
			WeekStart: weekStart,
			Target:    TargetAccumulated(p.MonthlySavings, w),
			Actual:    cum,
		})
	}

	return stats
}

// UnallocatedFunds sums the cash-flow surplus of each completed calendar
// month since start that holds at least one record. Months are those of
// now's location. Months without records
// contribute nothing, so a user with no history has none.
func UnallocatedFunds(salary float64, records []model.Record, start, now time.Time) float64 {
	if len(records) == 0 {
		return 0
	}

	type flow struct{ saved, spent float64 }
	byMonth := make(map[time.Time]*flow)
	loc := now.Location()
	from := MonthStart(start.In(loc))
	current := MonthStart(now)
	for _, r := range records {
		m := MonthStart(r.Timestamp.In(loc))
		if m.Before(from) || !m.Before(current) {
			continue
		}
		f, ok := byMonth[m]
		if !ok {
			f = &flow{}
			byMonth[m] = f
		}
		switch r.Type {
		case model.Save:
			f.saved += r.Amount
		case model.Spend:
			f.spent += r.Amount
		}
	}

	var total float64
	for _, f := range byMonth {
		total += math.Max(0, salary-f.spent-f.saved)
	}
	return total
}

// WeeksBetween counts whole weeks from start to now, never negative.
func WeeksBetween(start, now time.Time) int {
	if !now.After(start) {
		return 0
	}
	return int(now.Sub(start) / week)
}

// MonthsBetween counts whole calendar months from start to now, never
// negative.
func MonthsBetween(start, now time.Time) int {
	if !now.After(start) {
		return 0
	}
	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if now.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func earliest(records []model.Record) time.Time {
	var first time.Time
	for _, r := range records {
		if r.Timestamp.IsZero() {
			continue
		}
		if first.IsZero() || r.Timestamp.Before(first) {
			first = r.Timestamp
		}
	}
	return first
}
